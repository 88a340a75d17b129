package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sol-eng/wbi/pkg/types"
)

var rh9 = types.Result{
	OS:                types.Redhat9,
	ConnectURL:        "https://x/connect-rhel9.run",
	PackageManagerURL: "https://x/rspm-rhel9.rpm",
}

var u22 = types.Result{
	OS:                    types.Ubuntu22,
	ConnectURL:            "https://x/connect-jammy.deb",
	ConnectVersion:        "2023.03.0",
	PackageManagerURL:     "https://x/rspm-jammy.deb",
	PackageManagerVersion: "2023.04.0",
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "text", want: FormatText},
		{in: "JSON", want: FormatJSON},
		{in: " json ", want: FormatJSON},
		{in: "yaml", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFormat(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnsupportedFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWriteTextSingle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, rh9))
	assert.Equal(t, "https://x/connect-rhel9.run\nhttps://x/rspm-rhel9.rpm\n", buf.String())
}

func TestWriteTextMultiple(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, rh9, u22))
	want := "# RH9\nhttps://x/connect-rhel9.run\nhttps://x/rspm-rhel9.rpm\n" +
		"# U22\nhttps://x/connect-jammy.deb\nhttps://x/rspm-jammy.deb\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, u22))

	var got types.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, u22, got)

	buf.Reset()
	require.NoError(t, Write(&buf, FormatJSON, rh9, u22))
	var all types.Results
	require.NoError(t, json.Unmarshal(buf.Bytes(), &all))
	assert.Len(t, all, 2)
	assert.NotContains(t, buf.String(), `"connectVersion": ""`)
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, "xml", rh9)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Empty(t, buf.String())
}
