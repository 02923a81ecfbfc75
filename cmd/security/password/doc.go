// Package password provides Argon2id password hashing for Aureum.
//
// It is the single source of truth for hashing cost parameters and the PHC
// encoded-hash format. Verification reads the parameters embedded in each
// hash, so cost upgrades keep old hashes verifiable, while anti-DoS bounds
// reject attacker-supplied hashes with pathological parameters.
//
// Environment:
//   - AUREUM_ARGON2_MEMORY_KIB
//   - AUREUM_ARGON2_ITERATIONS
//   - AUREUM_ARGON2_PARALLELISM
//   - AUREUM_PASSWORD_MIN_LEN
//   - AUREUM_PASSWORD_MAX_LEN
package password
