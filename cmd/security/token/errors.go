package token

import "errors"

// Public, stable errors for callers.
var (
	// ErrInvalidToken covers every validation failure: malformed input,
	// signature mismatch, and expiry. Callers must not distinguish them.
	ErrInvalidToken = errors.New("invalid token")
	// ErrConfig indicates an unusable manager configuration.
	ErrConfig = errors.New("invalid token config")
)
