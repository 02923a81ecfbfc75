package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testManager(t *testing.T) *Manager {
	t.Helper()

	m, err := NewManager(Config{
		Secret: testSecret,
		Issuer: "aureum-test",
		TTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestNewManagerRejectsWeakSecret(t *testing.T) {
	t.Parallel()

	for _, secret := range [][]byte{nil, []byte(""), []byte("too-short")} {
		if _, err := NewManager(Config{Secret: secret}); !errors.Is(err, ErrConfig) {
			t.Fatalf("secret %q: got %v, want ErrConfig", secret, err)
		}
	}
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	m := testManager(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	in := Claims{UserID: "01ARZ3NDEKTSV4RRFFQ69G5FAV", FirstName: "Alice", LastName: "Smith"}
	tok, exp, err := m.Issue("alice@example.com", in, time.Hour, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if want := now.Add(time.Hour); !exp.Equal(want) {
		t.Fatalf("ExpiresAt = %v, want %v", exp, want)
	}
	if strings.Count(tok, ".") != 2 {
		t.Fatalf("token is not a compact JWT: %q", tok)
	}

	subject, got, err := m.Verify(tok, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if subject != "alice@example.com" {
		t.Errorf("subject = %q, want alice@example.com", subject)
	}
	if got != in {
		t.Errorf("claims = %+v, want %+v", got, in)
	}
}

func TestIssueDefaultTTL(t *testing.T) {
	t.Parallel()

	m := testManager(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	_, exp, err := m.Issue("alice@example.com", Claims{}, 0, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if want := now.Add(time.Hour); !exp.Equal(want) {
		t.Fatalf("ExpiresAt = %v, want configured default %v", exp, want)
	}
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	m := testManager(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tok, _, err := m.Issue("alice@example.com", Claims{}, time.Minute, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, _, err := m.Verify(tok, now.Add(2*time.Minute)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token: got %v, want ErrInvalidToken", err)
	}

	// Still fine just before expiry.
	if _, _, err := m.Verify(tok, now.Add(30*time.Second)); err != nil {
		t.Fatalf("token rejected before expiry: %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	m := testManager(t)
	now := time.Now().UTC()

	tok, _, err := m.Issue("alice@example.com", Claims{}, time.Hour, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other, err := NewManager(Config{
		Secret: []byte("ffffffffffffffffffffffffffffffff"),
		Issuer: "aureum-test",
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	if _, _, err := other.Verify(tok, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("mis-signed token: got %v, want ErrInvalidToken", err)
	}
}

func TestVerifyWrongIssuer(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	issuerA, err := NewManager(Config{Secret: testSecret, Issuer: "issuer-a"})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	issuerB, err := NewManager(Config{Secret: testSecret, Issuer: "issuer-b"})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	tok, _, err := issuerA.Issue("alice@example.com", Claims{}, time.Hour, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, _, err := issuerB.Verify(tok, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign issuer: got %v, want ErrInvalidToken", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	t.Parallel()

	m := testManager(t)
	now := time.Now().UTC()

	for _, tok := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJub25lIn0.e30."} {
		if _, _, err := m.Verify(tok, now); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: got %v, want ErrInvalidToken", tok, err)
		}
	}
}
