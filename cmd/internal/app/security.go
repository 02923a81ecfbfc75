package app

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

const minJWTSecretBytes = 32

// ValidateSecurityConfig enforces the token signing policy at startup.
// Fail-fast is intentional: silently running with a weak signing key in
// production is unacceptable.
func ValidateSecurityConfig(cfg Config) error {
	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < minJWTSecretBytes {
		return errors.New("security policy: AUREUM_JWT_SECRET is too short (min 32 bytes)")
	}
	if cfg.RequireJWTSecret && cfg.JWTSecret == "" {
		return errors.New("security policy: AUREUM_REQUIRE_JWT_SECRET=true but AUREUM_JWT_SECRET is missing")
	}
	return nil
}

// devJWTSecret mints an ephemeral random signing key for local runs without
// AUREUM_JWT_SECRET. Tokens signed with it do not survive a restart.
func devJWTSecret() ([]byte, error) {
	b := make([]byte, minJWTSecretBytes)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	// Encode so the key is printable if it ever needs to be exported.
	return []byte(base64.RawURLEncoding.EncodeToString(b)), nil
}
