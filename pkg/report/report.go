package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/sol-eng/wbi/pkg/types"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var ErrUnsupportedFormat = errors.New("unsupported output format")

// ParseFormat accepts "text" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Write renders results to w. Text output is the Connect URL then the
// Package Manager URL, one per line; when more than one result is written
// each pair is headed by a "# <code>" line.
func Write(w io.Writer, format Format, results ...types.Result) error {
	log.Debugf("writing %d result(s) as %s", len(results), format)

	switch format {
	case FormatText:
		return writeText(w, results)
	case FormatJSON:
		return writeJSON(w, results)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func writeText(w io.Writer, results types.Results) error {
	var b strings.Builder
	for _, r := range results {
		if len(results) > 1 {
			fmt.Fprintf(&b, "# %s\n", r.OS)
		}
		fmt.Fprintln(&b, r.ConnectURL)
		fmt.Fprintln(&b, r.PackageManagerURL)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, results types.Results) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		return enc.Encode(results[0])
	}
	return enc.Encode(results)
}
