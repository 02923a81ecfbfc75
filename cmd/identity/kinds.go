package identity

import "errors"

// Sentinel error kinds (stable for errors.Is and for mapping to API status codes).
var (
	ErrInvalidInput       = errors.New("invalid_input")
	ErrDuplicateEmail     = errors.New("duplicate_email")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrNotFound           = errors.New("not_found")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrStore              = errors.New("store_error")
)
