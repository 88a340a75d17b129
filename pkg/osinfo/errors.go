package osinfo

import "errors"

// ErrUnsupportedOS is wrapped by every error for an OS outside the fixed set.
var ErrUnsupportedOS = errors.New("unsupported operating system")
