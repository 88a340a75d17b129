package osinfo

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/sol-eng/wbi/pkg/types"
)

// connectKeys maps an OS code to its key under connect.installer.
var connectKeys = map[types.OSCode]string{
	types.Ubuntu20: "focal",
	types.Ubuntu22: "jammy",
	types.Redhat7:  "redhat7_64",
	types.Redhat8:  "redhat8",
	types.Redhat9:  "rhel9",
}

// packageManagerKeys maps an OS code to its key under rspm.installer.
// Package Manager publishes its RHEL 8 build under fedora28.
var packageManagerKeys = map[types.OSCode]string{
	types.Ubuntu20: "focal",
	types.Ubuntu22: "jammy",
	types.Redhat7:  "redhat7_64",
	types.Redhat8:  "fedora28",
	types.Redhat9:  "rhel9",
}

var productKeys = map[types.Product]map[types.OSCode]string{
	types.Connect:        connectKeys,
	types.PackageManager: packageManagerKeys,
}

// SupportedCodes returns every accepted OS code in sorted order.
func SupportedCodes() []types.OSCode {
	codes := make([]types.OSCode, 0, len(connectKeys))
	for code := range connectKeys {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// IsSupported reports whether code is one of the fixed OS codes.
func IsSupported(code types.OSCode) bool {
	_, ok := connectKeys[code]
	return ok
}

// ParseCode accepts exactly one of the supported OS codes. Matching is
// case-sensitive and surrounding whitespace is not stripped.
func ParseCode(s string) (types.OSCode, error) {
	code := types.OSCode(s)
	if !IsSupported(code) {
		return "", unsupported(s)
	}
	return code, nil
}

// ManifestKey translates code into the OS key product uses in the manifest.
func ManifestKey(product types.Product, code types.OSCode) (string, error) {
	table, ok := productKeys[product]
	if !ok {
		return "", fmt.Errorf("no OS key table for product %q", product)
	}
	key, ok := table[code]
	if !ok {
		return "", unsupported(string(code))
	}
	return key, nil
}

// ConnectKey is ManifestKey for connect.
func ConnectKey(code types.OSCode) (string, error) {
	return ManifestKey(types.Connect, code)
}

// PackageManagerKey is ManifestKey for rspm.
func PackageManagerKey(code types.OSCode) (string, error) {
	return ManifestKey(types.PackageManager, code)
}

func unsupported(code string) error {
	return &types.Error{
		Kind: types.KindUnsupportedOS,
		Path: code,
		Err:  fmt.Errorf("%w, expected one of %v", ErrUnsupportedOS, SupportedCodes()),
	}
}
