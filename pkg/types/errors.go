package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a resolution failure.
type ErrorKind int

const (
	KindTransport ErrorKind = iota + 1
	KindParse
	KindLookup
	KindUnsupportedOS
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	case KindLookup:
		return "lookup"
	case KindUnsupportedOS:
		return "unsupported os"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is returned by every step of URL resolution. Path names what was
// being accessed: the manifest URL, a manifest key path, or the OS code.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether any error in err's chain is an *Error of kind k.
func IsKind(err error, k ErrorKind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == k
}
