package identity

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used when no database is configured
// (dev mode) and in tests. It enforces the same email uniqueness contract
// as the Postgres store: Save raises DuplicateEmailError from its own
// index check, not from any caller pre-check.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]UserRecord
	byEmail map[string]string // email_norm -> id
}

// NewMemoryStore returns an empty in-memory credential store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]UserRecord),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryStore) Exists(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byEmail[NormalizeEmail(email)]
	return ok, nil
}

func (s *MemoryStore) GetActiveByEmail(ctx context.Context, email string) (UserRecord, error) {
	const op = "identity.MemoryStore.GetActiveByEmail"

	rec, err := s.GetByEmail(ctx, email)
	if err != nil {
		return UserRecord{}, err
	}
	if !rec.IsActive {
		return UserRecord{}, NotFoundError{Op: op, Resource: "user"}
	}
	return rec, nil
}

func (s *MemoryStore) GetByEmail(ctx context.Context, email string) (UserRecord, error) {
	const op = "identity.MemoryStore.GetByEmail"

	if err := ctx.Err(); err != nil {
		return UserRecord{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return UserRecord{}, NotFoundError{Op: op, Resource: "user"}
	}
	return cloneRecord(s.byID[id]), nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (UserRecord, error) {
	const op = "identity.MemoryStore.GetByID"

	if err := ctx.Err(); err != nil {
		return UserRecord{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return UserRecord{}, NotFoundError{Op: op, Resource: "user"}
	}
	return cloneRecord(rec), nil
}

func (s *MemoryStore) Save(ctx context.Context, rec UserRecord) (UserRecord, error) {
	const op = "identity.MemoryStore.Save"

	if err := ctx.Err(); err != nil {
		return UserRecord{}, err
	}

	rec.EmailNorm = NormalizeEmail(rec.Email)
	if rec.EmailNorm == "" {
		return UserRecord{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "email is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		// Insert path: the index check below is the authoritative uniqueness guard.
		if _, taken := s.byEmail[rec.EmailNorm]; taken {
			return UserRecord{}, DuplicateEmailError{Op: op, Email: rec.EmailNorm}
		}

		now := time.Now().UTC()
		id, err := NewULID(now)
		if err != nil {
			return UserRecord{}, StoreError{Op: op, Err: err}
		}
		rec.ID = id
		rec.CreatedAt = now

		s.byID[rec.ID] = cloneRecord(rec)
		s.byEmail[rec.EmailNorm] = rec.ID
		return cloneRecord(rec), nil
	}

	prev, ok := s.byID[rec.ID]
	if !ok {
		return UserRecord{}, NotFoundError{Op: op, Resource: "user"}
	}

	// Immutable fields are owned by the store, not the caller.
	rec.Email = prev.Email
	rec.EmailNorm = prev.EmailNorm
	rec.CreatedAt = prev.CreatedAt

	s.byID[rec.ID] = cloneRecord(rec)
	return cloneRecord(rec), nil
}

// cloneRecord deep-copies pointer fields so callers cannot alias stored state.
func cloneRecord(r UserRecord) UserRecord {
	r.FirstName = clonePtr(r.FirstName)
	r.LastName = clonePtr(r.LastName)
	r.PhoneNumber = clonePtr(r.PhoneNumber)
	if r.DateOfBirth != nil {
		d := *r.DateOfBirth
		r.DateOfBirth = &d
	}
	return r
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
