package osinfo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sol-eng/wbi/pkg/types"
)

func TestSupportedCodes(t *testing.T) {
	codes := SupportedCodes()
	assert.Equal(t, []types.OSCode{"RH7", "RH8", "RH9", "U20", "U22"}, codes)
}

func TestTablesAgreeExceptRH8(t *testing.T) {
	for _, code := range SupportedCodes() {
		connectKey, err := ConnectKey(code)
		require.NoError(t, err)
		pmKey, err := PackageManagerKey(code)
		require.NoError(t, err)

		if code == types.Redhat8 {
			assert.Equal(t, "redhat8", connectKey)
			assert.Equal(t, "fedora28", pmKey)
			continue
		}
		assert.Equal(t, connectKey, pmKey, "tables disagree for %s", code)
	}
}

func TestManifestKey(t *testing.T) {
	tests := []struct {
		product types.Product
		code    types.OSCode
		want    string
	}{
		{types.Connect, types.Ubuntu20, "focal"},
		{types.Connect, types.Ubuntu22, "jammy"},
		{types.Connect, types.Redhat7, "redhat7_64"},
		{types.Connect, types.Redhat8, "redhat8"},
		{types.Connect, types.Redhat9, "rhel9"},
		{types.PackageManager, types.Redhat8, "fedora28"},
		{types.PackageManager, types.Redhat9, "rhel9"},
	}

	for _, tc := range tests {
		t.Run(string(tc.product)+"/"+tc.code.String(), func(t *testing.T) {
			got, err := ManifestKey(tc.product, tc.code)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestManifestKeyUnknownProduct(t *testing.T) {
	_, err := ManifestKey("workbench", types.Ubuntu22)
	assert.Error(t, err)
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    types.OSCode
		wantErr bool
	}{
		{name: "exact", in: "U22", want: types.Ubuntu22},
		{name: "exact rh8", in: "RH8", want: types.Redhat8},
		{name: "lower case", in: "rh8", wantErr: true},
		{name: "mixed case", in: "Rh9", wantErr: true},
		{name: "padded", in: " RH9\n", wantErr: true},
		{name: "trailing space", in: "U20 ", wantErr: true},
		{name: "retired ubuntu", in: "U16", wantErr: true},
		{name: "U18 not offered", in: "U18", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCode(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, types.IsKind(err, types.KindUnsupportedOS))
				assert.True(t, errors.Is(err, ErrUnsupportedOS))
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestConnectKeyUnsupported(t *testing.T) {
	key, err := ConnectKey("U16")
	require.Error(t, err)
	assert.Empty(t, key)
	assert.True(t, types.IsKind(err, types.KindUnsupportedOS))
}
