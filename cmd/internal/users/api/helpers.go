package usersapi

import (
	"net/http"
	"strings"
	"time"

	"aureum/cmd/identity"
)

const dateLayout = "2006-01-02"

func toUserResponse(p identity.Profile) userResponse {
	return userResponse{
		ID:            p.ID,
		Email:         p.Email,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		PhoneNumber:   p.PhoneNumber,
		DateOfBirth:   formatDatePtr(p.DateOfBirth),
		EmailVerified: p.EmailVerified,
		CreatedAt:     p.CreatedAt,
	}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func parseDatePtr(s *string) (*time.Time, bool) {
	if s == nil {
		return nil, true
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil, false
	}
	t = t.UTC()
	return &t, true
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// looksLikeEmail is a deliberately loose shape check; the store's normalized
// uniqueness is the real gate. Full RFC validation is a non-goal.
func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t")
}
