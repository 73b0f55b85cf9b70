package entity

import (
	"strings"
	"time"
)

// Gender is constrained to the two values the registration form offers.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Role controls access to the admin namespace. New accounts default to RoleUser;
// elevation happens only through the admin update path.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the aggregate root for the user domain.
// PasswordHash holds a bcrypt hash; the plaintext is discarded right after hashing.
type User struct {
	ID             string
	Email          string
	PasswordHash   string
	FullName       string
	Gender         Gender
	DOB            time.Time
	Phone          string
	ProfilePicture string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NormalizeEmail lower-cases and trims an email so it can serve as the uniqueness key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AgeAt computes the user's age in whole years at the given instant using
// calendar year/month/day arithmetic, so a user turning 13 on the submission
// date is exactly 13.
func (u *User) AgeAt(now time.Time) int {
	return AgeAt(u.DOB, now)
}

// AgeAt returns full years elapsed between dob and now.
func AgeAt(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	anniversary := dob.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

// Profile is the safe projection of a User: everything a client may see,
// never the password hash.
type Profile struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"fullName"`
	Gender         Gender    `json:"gender"`
	DOB            string    `json:"dob"`
	Phone          string    `json:"phone"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Public returns the safe projection of the user.
func (u *User) Public() Profile {
	return Profile{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		Gender:         u.Gender,
		DOB:            u.DOB.Format("2006-01-02"),
		Phone:          u.Phone,
		ProfilePicture: u.ProfilePicture,
		Role:           u.Role,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
