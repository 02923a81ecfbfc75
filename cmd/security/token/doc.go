// Package token issues and validates Aureum's bearer tokens.
//
// Tokens are JWTs signed with HMAC-SHA256. The subject is the account email
// and the claim set carries userId/firstName/lastName so downstream
// consumers can trust identity facts without re-querying the store.
//
// The signing secret is process-wide configuration loaded once at startup
// (AUREUM_JWT_SECRET). Rotating it invalidates every outstanding token;
// there is no revocation list and no rotation grace period.
package token
