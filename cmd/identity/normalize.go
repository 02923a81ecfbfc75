package identity

import "strings"

// NormalizeEmail performs case-insensitive canonicalization (trim + lowercase).
//
// Email policy: emails are compared and stored case-insensitively. The
// normalized form is fixed at write time and drives both the uniqueness
// constraint and every lookup, so "Alice@Example.com" and "alice@example.com"
// are the same account.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
