package effect

import "errors"

// Domain errors for backend operations.
var (
	// ErrUnknownBackend indicates a name that is not registered.
	ErrUnknownBackend = errors.New("effect: unknown backend")

	// ErrLoadFailed indicates the underlying module could not be instantiated.
	ErrLoadFailed = errors.New("effect: backend failed to load")

	// ErrMissingExport indicates a foreign module lacks one of the capability functions.
	ErrMissingExport = errors.New("effect: module is missing a required export")
)
