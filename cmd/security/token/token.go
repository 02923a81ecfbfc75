package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity fact set embedded in every issued token.
type Claims struct {
	UserID    string
	FirstName string
	LastName  string
}

// Config controls token issuance and validation.
type Config struct {
	// Secret is the HS256 signing key. Minimum 32 bytes.
	Secret []byte
	// Issuer is stamped into "iss" and enforced during validation.
	Issuer string
	// TTL is the default validity window applied when Issue receives ttl <= 0.
	TTL time.Duration
}

// Manager issues and validates signed bearer tokens.
// Issue and Verify are pure and safe for concurrent use.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// wireClaims is the on-the-wire JWT payload. Claim names match the public
// token contract: userId, firstName, lastName.
type wireClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"userId,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// NewManager constructs a Manager. The secret length is enforced here so a
// weak key fails at startup, not at first login.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < 32 {
		return nil, ErrConfig
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		secret: cfg.Secret,
		issuer: strings.TrimSpace(cfg.Issuer),
		ttl:    ttl,
	}, nil
}

// Issue produces a signed token for subject with expiry now+ttl.
// A non-positive ttl falls back to the configured default.
func (m *Manager) Issue(subject string, c Claims, ttl time.Duration, now time.Time) (string, time.Time, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	if ttl <= 0 {
		ttl = m.ttl
	}
	exp := now.Add(ttl)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, wireClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID:    c.UserID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
	})

	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks signature and expiry and returns the subject and claims.
// Any malformed, mis-signed, or expired token yields ErrInvalidToken.
func (m *Manager) Verify(tokenStr string, now time.Time) (string, Claims, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &wireClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return "", Claims{}, ErrInvalidToken
	}

	return claims.Subject, Claims{
		UserID:    claims.UserID,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}, nil
}
