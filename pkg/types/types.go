package types

import "encoding/json"

// OSCode is the short caller-facing operating system identifier, e.g. U22.
type OSCode string

const (
	Ubuntu20 OSCode = "U20"
	Ubuntu22 OSCode = "U22"
	Redhat7  OSCode = "RH7"
	Redhat8  OSCode = "RH8"
	Redhat9  OSCode = "RH9"
)

func (c OSCode) String() string {
	return string(c)
}

// Product is a top-level key of the downloads manifest.
type Product string

const (
	Connect        Product = "connect"
	PackageManager Product = "rspm"
)

// Installer is a single entry of a product's installer mapping.
type Installer struct {
	URL     string `json:"url"`
	Version string `json:"version,omitempty"`
	Label   string `json:"label,omitempty"`
}

// ProductEntry is the part of a product object the resolver reads. Each
// installer is kept raw, keyed by manifest OS key (focal, redhat8, ...), and
// decoded only when that key is looked up.
type ProductEntry struct {
	Installer map[string]json.RawMessage `json:"installer"`
}

// Result holds the installer URLs resolved for one OS code.
type Result struct {
	OS                    OSCode `json:"os"`
	ConnectURL            string `json:"connectURL"`
	ConnectVersion        string `json:"connectVersion,omitempty"`
	PackageManagerURL     string `json:"packageManagerURL"`
	PackageManagerVersion string `json:"packageManagerVersion,omitempty"`
}

type Results []Result
