package identity

import "context"

// CredentialLookup is the narrow read capability authentication needs.
// The login path depends only on this, so tests can substitute a stub
// without implementing the whole store.
type CredentialLookup interface {
	// GetActiveByEmail returns the active record for a (non-normalized ok)
	// email, or a NotFoundError. Inactive accounts are invisible here.
	GetActiveByEmail(ctx context.Context, email string) (UserRecord, error)
}

// Store is the credential persistence boundary.
//
// Contract notes:
//   - Exists considers every record, active or not: a deactivated account
//     still blocks re-registration of its email.
//   - GetActiveByEmail filters on is_active; GetByEmail does not.
//   - Save inserts when rec.ID is empty (the store assigns ID and CreatedAt)
//     and updates otherwise, returning the persisted state. Inserting an
//     email whose normalized form already exists MUST fail with a
//     DuplicateEmailError raised by the store's own uniqueness constraint,
//     independent of any caller-side pre-check.
//   - Infrastructure faults are wrapped in StoreError, never swallowed.
type Store interface {
	CredentialLookup

	Exists(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (UserRecord, error)
	GetByID(ctx context.Context, id string) (UserRecord, error)
	Save(ctx context.Context, rec UserRecord) (UserRecord, error)
}
