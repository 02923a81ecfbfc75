package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aureum/cmd/security/token"
)

// TokenIssuer mints and validates signed bearer tokens carrying identity claims.
type TokenIssuer interface {
	Issue(subject string, c token.Claims, ttl time.Duration, now time.Time) (string, time.Time, error)
	Verify(tok string, now time.Time) (string, token.Claims, error)
}

// Auth is the result of a successful registration or login: a bearer token
// plus the public profile it was minted for. Tokens are not persisted and
// stay valid until expiry regardless of later account changes.
type Auth struct {
	Token     string
	ExpiresAt time.Time
	Profile   Profile
}

// RegisterInput describes a registration request.
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
}

// Service orchestrates the credential store, password hasher, and token
// issuer into Aureum's identity operations. It owns the error taxonomy:
// ErrDuplicateEmail, ErrInvalidCredentials, ErrNotFound, ErrUnauthenticated
// are expected outcomes; ErrStore is an infrastructure fault.
//
// Each operation is a stateless unit of work against the shared store; the
// service holds no per-request state and is safe for concurrent use.
type Service struct {
	store  Store
	hasher PasswordHasher
	tokens TokenIssuer

	tokenTTL time.Duration

	// dummyHash makes login timing independent of account existence.
	dummyHash string
}

// NewService constructs a Service. tokenTTL <= 0 defers to the issuer's default.
func NewService(store Store, hasher PasswordHasher, tokens TokenIssuer, tokenTTL time.Duration) *Service {
	s := &Service{
		store:    store,
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
	}
	if hash, err := hasher.Hash("dummy-password-for-timing-only"); err == nil {
		s.dummyHash = hash
	}
	return s
}

// Register creates an account and returns a fresh token plus the profile.
//
// The Exists pre-check gives a friendly early failure, but it is not atomic
// against concurrent registrations; the store's own uniqueness constraint is
// the authoritative DuplicateEmail signal and is honored on Save.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Auth, error) {
	const op = "identity.Register"

	email := strings.TrimSpace(in.Email)
	if email == "" {
		return Auth{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "email is required"}
	}
	if strings.TrimSpace(in.Password) == "" {
		return Auth{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "password is required"}
	}

	taken, err := s.store.Exists(ctx, email)
	if err != nil {
		return Auth{}, err
	}
	if taken {
		return Auth{}, DuplicateEmailError{Op: op, Email: NormalizeEmail(email)}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return Auth{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: err.Error()}
	}

	rec, err := s.store.Save(ctx, UserRecord{
		Email:         email,
		PasswordHash:  hash,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		PhoneNumber:   in.PhoneNumber,
		IsActive:      true,
		EmailVerified: false,
	})
	if err != nil {
		// A racing insert loses here even though the pre-check passed.
		return Auth{}, err
	}

	return s.issueAuth(rec)
}

// Login verifies credentials and returns a fresh token plus the profile.
// A missing active account and a wrong password are indistinguishable.
func (s *Service) Login(ctx context.Context, email, passwordPlain string) (Auth, error) {
	const op = "identity.Login"

	rec, err := s.store.GetActiveByEmail(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			// Timing resistance: burn a verify even when there is no account.
			if s.dummyHash != "" {
				_, _ = s.hasher.Verify(passwordPlain, s.dummyHash)
			}
			return Auth{}, invalidCredentials(op)
		}
		return Auth{}, err
	}

	ok, err := s.hasher.Verify(passwordPlain, rec.PasswordHash)
	if err != nil || !ok {
		return Auth{}, invalidCredentials(op)
	}

	return s.issueAuth(rec)
}

// GetProfile returns the public profile for an active caller.
// callerEmail comes from the authenticated boundary, never a request payload.
func (s *Service) GetProfile(ctx context.Context, callerEmail string) (Profile, error) {
	rec, err := s.store.GetActiveByEmail(ctx, callerEmail)
	if err != nil {
		return Profile{}, err
	}
	return rec.Profile(), nil
}

// UpdateProfile overwrites the patch's non-nil fields and returns the
// updated profile. The record is re-read inside this call so a stale caller
// snapshot cannot clobber untouched fields (last-writer-wins per field set).
// Email and password are never mutated here.
func (s *Service) UpdateProfile(ctx context.Context, callerEmail string, patch ProfilePatch) (Profile, error) {
	rec, err := s.store.GetActiveByEmail(ctx, callerEmail)
	if err != nil {
		return Profile{}, err
	}

	patch.applyTo(&rec)

	saved, err := s.store.Save(ctx, rec)
	if err != nil {
		return Profile{}, err
	}
	return saved.Profile(), nil
}

// ResolveCaller turns a bearer token into the caller's profile.
// Invalid or expired tokens yield ErrUnauthenticated; a subject that no
// longer resolves to an active account yields ErrNotFound.
func (s *Service) ResolveCaller(ctx context.Context, bearer string) (Profile, error) {
	const op = "identity.ResolveCaller"

	subject, _, err := s.tokens.Verify(bearer, time.Now().UTC())
	if err != nil {
		return Profile{}, OpError{Op: op, Kind: ErrUnauthenticated, Msg: "invalid or expired token"}
	}
	return s.GetProfile(ctx, subject)
}

// ResolveSubject validates a bearer token and returns its subject email
// without touching the store. The HTTP boundary uses it to supply
// callerEmail explicitly to profile operations.
func (s *Service) ResolveSubject(bearer string) (string, error) {
	const op = "identity.ResolveSubject"

	subject, _, err := s.tokens.Verify(bearer, time.Now().UTC())
	if err != nil {
		return "", OpError{Op: op, Kind: ErrUnauthenticated, Msg: "invalid or expired token"}
	}
	return subject, nil
}

func (s *Service) issueAuth(rec UserRecord) (Auth, error) {
	const op = "identity.issueAuth"

	claims := token.Claims{
		UserID:    rec.ID,
		FirstName: strValue(rec.FirstName),
		LastName:  strValue(rec.LastName),
	}

	tok, exp, err := s.tokens.Issue(rec.Email, claims, s.tokenTTL, time.Now().UTC())
	if err != nil {
		return Auth{}, fmt.Errorf("%s: %w", op, err)
	}

	return Auth{Token: tok, ExpiresAt: exp, Profile: rec.Profile()}, nil
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
