// Package identity implements Aureum's identity core.
//
// It owns the user record, the credential store boundary, and the
// orchestration of registration, login, profile access, and token-backed
// caller resolution. Security primitives (Argon2id hashing, JWT signing)
// live under cmd/security and are consumed through narrow interfaces.
//
// This package is intentionally dependency-light and security-first.
package identity
