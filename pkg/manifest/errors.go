package manifest

import "errors"

var (
	// ErrMissingKey is wrapped by lookup errors for an absent manifest key.
	ErrMissingKey = errors.New("key not found in manifest")

	// ErrEmptyURL is wrapped when an installer entry has no url.
	ErrEmptyURL = errors.New("installer has no url")

	// ErrUnexpectedStatus is wrapped when the manifest host answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
)
