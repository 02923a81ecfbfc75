package identity

import (
	"context"
	"strings"
	"testing"
	"time"

	"aureum/cmd/security/token"
)

// plainHasher trades cost for speed; the real Argon2id path is covered in
// the password package's own tests.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "plain:" + plain, nil }

func (plainHasher) Verify(plain, encoded string) (bool, error) {
	return encoded == "plain:"+plain, nil
}

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()

	tokens, err := token.NewManager(token.Config{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		Issuer: "aureum-test",
		TTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("token.NewManager: %v", err)
	}

	store := NewMemoryStore()
	return NewService(store, plainHasher{}, tokens, time.Hour), store
}

func strPtr(s string) *string { return &s }

func mustRegister(t *testing.T, svc *Service, in RegisterInput) Auth {
	t.Helper()

	auth, err := svc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Register(%s): %v", in.Email, err)
	}
	return auth
}

func TestRegisterIssuesTokenAndProfile(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	auth := mustRegister(t, svc, RegisterInput{
		Email:     "alice@example.com",
		Password:  "s3cret-password",
		FirstName: strPtr("Alice"),
		LastName:  strPtr("Smith"),
	})

	if auth.Token == "" {
		t.Fatal("no token issued")
	}
	if auth.Profile.ID == "" {
		t.Fatal("no id assigned")
	}
	if auth.Profile.Email != "alice@example.com" {
		t.Errorf("email = %q", auth.Profile.Email)
	}
	if auth.Profile.EmailVerified {
		t.Error("new account must start unverified")
	}
	if auth.Profile.CreatedAt.IsZero() {
		t.Error("CreatedAt not assigned")
	}

	profile, err := svc.ResolveCaller(context.Background(), auth.Token)
	if err != nil {
		t.Fatalf("ResolveCaller: %v", err)
	}
	if profile.ID != auth.Profile.ID {
		t.Errorf("ResolveCaller resolved %q, want %q", profile.ID, auth.Profile.ID)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"missing email", RegisterInput{Password: "s3cret-password"}},
		{"blank email", RegisterInput{Email: "   ", Password: "s3cret-password"}},
		{"missing password", RegisterInput{Email: "alice@example.com"}},
		{"blank password", RegisterInput{Email: "alice@example.com", Password: "   "}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := svc.Register(context.Background(), tc.in); !IsInvalidInput(err) {
				t.Fatalf("got %v, want invalid input", err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	mustRegister(t, svc, RegisterInput{Email: "alice@example.com", Password: "s3cret-password"})

	// Same address in a different case is still a duplicate.
	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "Alice@Example.COM",
		Password: "another-password",
	})
	if !IsDuplicateEmail(err) {
		t.Fatalf("got %v, want duplicate email", err)
	}
}

func TestRegisterRaceLosesAtStore(t *testing.T) {
	t.Parallel()

	// The Exists pre-check can pass for two racing registrations; the store's
	// own uniqueness check must still reject the second insert.
	svc, store := newTestService(t)

	mustRegister(t, svc, RegisterInput{Email: "alice@example.com", Password: "s3cret-password"})

	_, err := store.Save(context.Background(), UserRecord{
		Email:        "ALICE@example.com",
		PasswordHash: "plain:whatever",
		IsActive:     true,
	})
	if !IsDuplicateEmail(err) {
		t.Fatalf("got %v, want duplicate email from store", err)
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	mustRegister(t, svc, RegisterInput{Email: "alice@example.com", Password: "s3cret-password"})

	auth, err := svc.Login(context.Background(), "alice@example.com", "s3cret-password")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if auth.Token == "" {
		t.Fatal("no token issued")
	}

	// Email matching is case-insensitive on login too.
	if _, err := svc.Login(context.Background(), "ALICE@EXAMPLE.COM", "s3cret-password"); err != nil {
		t.Fatalf("Login with different case: %v", err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	mustRegister(t, svc, RegisterInput{Email: "alice@example.com", Password: "s3cret-password"})

	_, errWrongPassword := svc.Login(context.Background(), "alice@example.com", "wrong-password")
	_, errNoAccount := svc.Login(context.Background(), "nobody@example.com", "s3cret-password")

	if !IsInvalidCredentials(errWrongPassword) {
		t.Fatalf("wrong password: got %v", errWrongPassword)
	}
	if !IsInvalidCredentials(errNoAccount) {
		t.Fatalf("unknown account: got %v", errNoAccount)
	}

	// The two failures must not reveal which part was wrong.
	if errWrongPassword.Error() != errNoAccount.Error() {
		t.Fatalf("error messages differ: %q vs %q", errWrongPassword, errNoAccount)
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	auth := mustRegister(t, svc, RegisterInput{Email: "alice@example.com", Password: "s3cret-password"})

	rec, err := store.GetByID(context.Background(), auth.Profile.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	rec.IsActive = false
	if _, err := store.Save(context.Background(), rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A deactivated account is invisible to login and profile access...
	if _, err := svc.Login(context.Background(), "alice@example.com", "s3cret-password"); !IsInvalidCredentials(err) {
		t.Fatalf("Login: got %v, want invalid credentials", err)
	}
	if _, err := svc.GetProfile(context.Background(), "alice@example.com"); !IsNotFound(err) {
		t.Fatalf("GetProfile: got %v, want not found", err)
	}

	// ...but its email stays reserved.
	taken, err := store.Exists(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !taken {
		t.Fatal("deactivated account released its email")
	}
	if _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alice@example.com",
		Password: "another-password",
	}); !IsDuplicateEmail(err) {
		t.Fatalf("re-register: got %v, want duplicate email", err)
	}
}

func TestUpdateProfilePatchesOnlyProvidedFields(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	mustRegister(t, svc, RegisterInput{
		Email:     "alice@example.com",
		Password:  "s3cret-password",
		FirstName: strPtr("Alice"),
		LastName:  strPtr("Smith"),
	})

	dob := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	updated, err := svc.UpdateProfile(context.Background(), "alice@example.com", ProfilePatch{
		PhoneNumber: strPtr("+15551234567"),
		DateOfBirth: &dob,
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	if got := strValue(updated.PhoneNumber); got != "+15551234567" {
		t.Errorf("PhoneNumber = %q", got)
	}
	if updated.DateOfBirth == nil || !updated.DateOfBirth.Equal(dob) {
		t.Errorf("DateOfBirth = %v, want %v", updated.DateOfBirth, dob)
	}
	// Untouched fields survive.
	if got := strValue(updated.FirstName); got != "Alice" {
		t.Errorf("FirstName = %q, want Alice", got)
	}
	if got := strValue(updated.LastName); got != "Smith" {
		t.Errorf("LastName = %q, want Smith", got)
	}

	// A second patch does not disturb the first one's fields.
	updated, err = svc.UpdateProfile(context.Background(), "alice@example.com", ProfilePatch{
		FirstName: strPtr("Alicia"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got := strValue(updated.FirstName); got != "Alicia" {
		t.Errorf("FirstName = %q, want Alicia", got)
	}
	if got := strValue(updated.PhoneNumber); got != "+15551234567" {
		t.Errorf("PhoneNumber lost on unrelated patch: %q", got)
	}
}

func TestUpdateProfileUnknownCaller(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.UpdateProfile(context.Background(), "nobody@example.com", ProfilePatch{
		FirstName: strPtr("Ghost"),
	})
	if !IsNotFound(err) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestResolveCallerRejectsBadTokens(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.ResolveCaller(context.Background(), tok); !IsUnauthenticated(err) {
			t.Fatalf("token %q: got %v, want unauthenticated", tok, err)
		}
	}
}

func TestResolveSubject(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	auth := mustRegister(t, svc, RegisterInput{Email: "alice@example.com", Password: "s3cret-password"})

	subject, err := svc.ResolveSubject(auth.Token)
	if err != nil {
		t.Fatalf("ResolveSubject: %v", err)
	}
	if subject != "alice@example.com" {
		t.Errorf("subject = %q", subject)
	}

	if _, err := svc.ResolveSubject("not-a-token"); !IsUnauthenticated(err) {
		t.Fatalf("got %v, want unauthenticated", err)
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"alice@example.com", "alice@example.com"},
		{"ALICE@EXAMPLE.COM", "alice@example.com"},
		{"  Alice@Example.com \t", "alice@example.com"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range cases {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTokenSubjectKeepsOriginalCase(t *testing.T) {
	t.Parallel()

	// The token subject carries the email as registered; normalization is a
	// storage concern, not a display one.
	svc, _ := newTestService(t)
	auth := mustRegister(t, svc, RegisterInput{Email: "Alice@Example.com", Password: "s3cret-password"})

	subject, err := svc.ResolveSubject(auth.Token)
	if err != nil {
		t.Fatalf("ResolveSubject: %v", err)
	}
	if subject != "Alice@Example.com" {
		t.Errorf("subject = %q, want the email as registered", subject)
	}
	if !strings.EqualFold(subject, "alice@example.com") {
		t.Errorf("subject %q does not match the account", subject)
	}
}
