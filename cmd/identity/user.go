package identity

import "time"

// UserRecord is Aureum's canonical account row, owned by the credential store.
//
// ID and CreatedAt are assigned by the store on first Save and never change.
// PasswordHash is an opaque PHC string and must not cross the store/hasher
// boundary in any outward-facing shape; use Profile for responses.
type UserRecord struct {
	ID           string
	Email        string
	EmailNorm    string
	PasswordHash string

	FirstName   *string
	LastName    *string
	PhoneNumber *string
	DateOfBirth *time.Time

	IsActive      bool
	EmailVerified bool

	CreatedAt time.Time
}

// Profile is the outward-facing projection of a UserRecord.
// It deliberately has no password hash field.
type Profile struct {
	ID            string
	Email         string
	FirstName     *string
	LastName      *string
	PhoneNumber   *string
	DateOfBirth   *time.Time
	EmailVerified bool
	CreatedAt     time.Time
}

// Profile projects the record for responses.
func (u UserRecord) Profile() Profile {
	return Profile{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		PhoneNumber:   u.PhoneNumber,
		DateOfBirth:   u.DateOfBirth,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

// ProfilePatch is a partial profile update. Nil fields are left untouched.
// Email and password are deliberately absent: no profile operation mutates them.
type ProfilePatch struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	DateOfBirth *time.Time
}

func (p ProfilePatch) applyTo(u *UserRecord) {
	if p.FirstName != nil {
		u.FirstName = p.FirstName
	}
	if p.LastName != nil {
		u.LastName = p.LastName
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = p.PhoneNumber
	}
	if p.DateOfBirth != nil {
		u.DateOfBirth = p.DateOfBirth
	}
}
