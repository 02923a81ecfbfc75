package usersapi

import "time"

type registerRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// updateProfileRequest is a partial update: absent fields stay untouched.
// dateOfBirth travels as "YYYY-MM-DD".
type updateProfileRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
	DateOfBirth *string `json:"dateOfBirth"`
}

type userResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FirstName     *string   `json:"firstName"`
	LastName      *string   `json:"lastName"`
	PhoneNumber   *string   `json:"phoneNumber"`
	DateOfBirth   *string   `json:"dateOfBirth"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

type authResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

type profileResponse struct {
	User userResponse `json:"user"`
}
