package ask

import "errors"

// Error definitions for the ask view.
var (
	// ErrNoSession indicates that no QA session was provided.
	ErrNoSession = errors.New("QA session is required")
)
