package domain

import "time"

// User is a directory record. Email is the unique, case-insensitive login
// identifier; first/last name are optional display fields.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string     // argon2id, PHC encoded
	IsActive     bool
	IsStaff      bool
	MFAEnabled   *time.Time // set when the TOTP factor was activated
	MFASecret    *string    // base32 TOTP secret, set after enrollment
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasMFA reports whether the user must present a TOTP code at login.
func (u User) HasMFA() bool {
	return u.MFAEnabled != nil && u.MFASecret != nil && *u.MFASecret != ""
}
