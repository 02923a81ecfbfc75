package identity

import "aureum/cmd/security/password"

// PasswordHasher is the one-way credential hashing boundary.
// Implementations must salt per call and never retain the plaintext.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) (bool, error)
}

// Argon2Hasher implements PasswordHasher on cmd/security/password, which is
// the single source of truth for Argon2id parameters and the PHC format.
type Argon2Hasher struct {
	cfg password.Config
}

// NewArgon2Hasher builds a hasher from env-backed configuration.
// Invalid env is an operational error, not a weak fallback.
func NewArgon2Hasher() (Argon2Hasher, error) {
	cfg, err := password.FromEnv()
	if err != nil {
		return Argon2Hasher{}, err
	}
	return Argon2Hasher{cfg: cfg}, nil
}

func (h Argon2Hasher) Hash(plain string) (string, error) {
	return h.cfg.Hash(plain)
}

func (h Argon2Hasher) Verify(plain, encoded string) (bool, error) {
	return h.cfg.Verify(plain, encoded)
}
