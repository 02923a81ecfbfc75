package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements the credential Store over PostgreSQL.
//
// Design notes:
//   - The pgx pool is owned by the caller; this store must NOT close it.
//   - Schema/table identifiers are safely quoted to avoid SQL injection via identifiers.
//   - The unique constraint on users.email_norm is the authoritative duplicate
//     signal: a violation is classified into DuplicateEmailError so two racing
//     inserts cannot both succeed even when both passed the Exists pre-check.
//   - Every other database failure is wrapped in StoreError.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the Postgres schema used by the store (default "aureum").
// The schema name is validated to be a legal PostgreSQL identifier.
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("identity: empty schema")
		}
		if !pgIdentRe.MatchString(schema) {
			return fmt.Errorf("identity: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore with secure defaults.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: "aureum",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return st, nil
}

const userColumns = `id, email, email_norm, password_hash, first_name, last_name,
	 phone_number, date_of_birth, is_active, email_verified, created_at`

func (s *PostgresStore) Exists(ctx context.Context, email string) (bool, error) {
	const op = "identity.PostgresStore.Exists"

	if err := ctx.Err(); err != nil {
		return false, err
	}

	users := pgIdent(s.schema, "users")

	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+users+` WHERE email_norm = $1)`,
		NormalizeEmail(email),
	).Scan(&exists)
	if err != nil {
		return false, StoreError{Op: op, Err: err}
	}
	return exists, nil
}

func (s *PostgresStore) GetActiveByEmail(ctx context.Context, email string) (UserRecord, error) {
	const op = "identity.PostgresStore.GetActiveByEmail"

	users := pgIdent(s.schema, "users")
	return s.getOne(ctx, op,
		`SELECT `+userColumns+` FROM `+users+` WHERE email_norm = $1 AND is_active`,
		NormalizeEmail(email),
	)
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (UserRecord, error) {
	const op = "identity.PostgresStore.GetByEmail"

	users := pgIdent(s.schema, "users")
	return s.getOne(ctx, op,
		`SELECT `+userColumns+` FROM `+users+` WHERE email_norm = $1`,
		NormalizeEmail(email),
	)
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (UserRecord, error) {
	const op = "identity.PostgresStore.GetByID"

	users := pgIdent(s.schema, "users")
	return s.getOne(ctx, op,
		`SELECT `+userColumns+` FROM `+users+` WHERE id = $1`,
		id,
	)
}

// Save inserts when rec.ID is empty, updates otherwise.
func (s *PostgresStore) Save(ctx context.Context, rec UserRecord) (UserRecord, error) {
	if rec.ID == "" {
		return s.insert(ctx, rec)
	}
	return s.update(ctx, rec)
}

func (s *PostgresStore) insert(ctx context.Context, rec UserRecord) (UserRecord, error) {
	const op = "identity.PostgresStore.Save"

	if err := ctx.Err(); err != nil {
		return UserRecord{}, err
	}

	rec.Email = strings.TrimSpace(rec.Email)
	rec.EmailNorm = NormalizeEmail(rec.Email)
	if rec.EmailNorm == "" {
		return UserRecord{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "email is required"}
	}
	if rec.PasswordHash == "" {
		return UserRecord{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "password hash is required"}
	}

	now := time.Now().UTC()
	id, err := NewULID(now)
	if err != nil {
		return UserRecord{}, StoreError{Op: op, Err: err}
	}
	rec.ID = id
	rec.CreatedAt = now

	users := pgIdent(s.schema, "users")

	_, err = s.pool.Exec(ctx,
		`INSERT INTO `+users+` (
		     id, email, email_norm, password_hash, first_name, last_name,
		     phone_number, date_of_birth, is_active, email_verified, created_at
		   ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID,
		rec.Email,
		rec.EmailNorm,
		rec.PasswordHash,
		rec.FirstName,
		rec.LastName,
		rec.PhoneNumber,
		rec.DateOfBirth,
		rec.IsActive,
		rec.EmailVerified,
		rec.CreatedAt,
	)
	if err != nil {
		if pgIsUniqueViolation(err) {
			return UserRecord{}, DuplicateEmailError{Op: op, Email: rec.EmailNorm}
		}
		return UserRecord{}, StoreError{Op: op, Err: err}
	}

	return rec, nil
}

func (s *PostgresStore) update(ctx context.Context, rec UserRecord) (UserRecord, error) {
	const op = "identity.PostgresStore.Save"

	if err := ctx.Err(); err != nil {
		return UserRecord{}, err
	}

	users := pgIdent(s.schema, "users")

	// Email and created_at are immutable; they are deliberately absent here.
	tag, err := s.pool.Exec(ctx,
		`UPDATE `+users+` SET
		     password_hash = $2,
		     first_name = $3,
		     last_name = $4,
		     phone_number = $5,
		     date_of_birth = $6,
		     is_active = $7,
		     email_verified = $8
		   WHERE id = $1`,
		rec.ID,
		rec.PasswordHash,
		rec.FirstName,
		rec.LastName,
		rec.PhoneNumber,
		rec.DateOfBirth,
		rec.IsActive,
		rec.EmailVerified,
	)
	if err != nil {
		return UserRecord{}, StoreError{Op: op, Err: err}
	}
	if tag.RowsAffected() == 0 {
		return UserRecord{}, NotFoundError{Op: op, Resource: "user"}
	}

	return s.GetByID(ctx, rec.ID)
}

func (s *PostgresStore) getOne(ctx context.Context, op, query string, arg any) (UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return UserRecord{}, err
	}

	var rec UserRecord
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&rec.ID,
		&rec.Email,
		&rec.EmailNorm,
		&rec.PasswordHash,
		&rec.FirstName,
		&rec.LastName,
		&rec.PhoneNumber,
		&rec.DateOfBirth,
		&rec.IsActive,
		&rec.EmailVerified,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, NotFoundError{Op: op, Resource: "user"}
		}
		return UserRecord{}, StoreError{Op: op, Err: err}
	}
	return rec, nil
}

// pgIdent safely quotes a schema-qualified identifier: "schema"."name".
func pgIdent(schema, name string) string {
	return pgx.Identifier{schema, name}.Sanitize()
}

func pgIsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" // unique_violation
}
