package identity

import (
	"errors"
	"fmt"
)

// OpError is a typed operation error with a stable Op + Kind contract for callers/tests.
// Kind MUST be one of the sentinel kinds when applicable (ErrNotFound, ErrDuplicateEmail, ...).
// Msg may include human-readable context; do not include secrets or password material.
type OpError struct {
	Op   string
	Kind error
	Msg  string
}

func (e OpError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Msg)
}

func (e OpError) Unwrap() error { return e.Kind }

// DuplicateEmailError reports a uniqueness conflict on the email identifier.
// The store raises it from its own constraint; the service treats it as the
// authoritative duplicate signal regardless of the pre-insert existence check.
type DuplicateEmailError struct {
	Op    string
	Email string
}

func (e DuplicateEmailError) Error() string {
	if e.Email == "" {
		return fmt.Sprintf("%s: %v", e.Op, ErrDuplicateEmail)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrDuplicateEmail, e.Email)
}

func (e DuplicateEmailError) Unwrap() error { return ErrDuplicateEmail }

// NotFoundError reports a missing user record.
type NotFoundError struct {
	Op       string
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("%s: %v", e.Op, ErrNotFound)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrNotFound, e.Resource)
}

func (e NotFoundError) Unwrap() error { return ErrNotFound }

// StoreError wraps an infrastructure fault from the credential store
// (connectivity, constraint machinery, scan failures). It is never surfaced
// to clients with detail; boundaries log it and answer with a generic 5xx.
type StoreError struct {
	Op  string
	Err error
}

func (e StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, ErrStore)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrStore, e.Err)
}

func (e StoreError) Unwrap() error { return ErrStore }

// invalidCredentials returns the single indistinguishable login failure.
// Missing account and wrong password share the same kind and message to
// avoid account-enumeration leakage.
func invalidCredentials(op string) error {
	return OpError{Op: op, Kind: ErrInvalidCredentials, Msg: "invalid email or password"}
}

// IsDuplicateEmail reports whether err represents ErrDuplicateEmail.
func IsDuplicateEmail(err error) bool { return errors.Is(err, ErrDuplicateEmail) }

// IsInvalidCredentials reports whether err represents ErrInvalidCredentials.
func IsInvalidCredentials(err error) bool { return errors.Is(err, ErrInvalidCredentials) }

// IsNotFound reports whether err represents ErrNotFound (including NotFoundError).
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsUnauthenticated reports whether err represents ErrUnauthenticated.
func IsUnauthenticated(err error) bool { return errors.Is(err, ErrUnauthenticated) }

// IsInvalidInput reports whether err represents ErrInvalidInput.
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsStoreError reports whether err represents ErrStore.
func IsStoreError(err error) bool { return errors.Is(err, ErrStore) }
