package models

import "time"

// User is the credential record for one account. The auth core reads it and
// conditionally mutates the attempt counter / lockout fields only; profile
// data lives elsewhere.
type User struct {
	ID            string
	Username      string
	Email         string
	Password      string // bcrypt hash
	Verified      bool
	LoginAttempts int
	BlockedUntil  *time.Time
	RefreshToken  string
	UserProfileID string
	CreatedAt     time.Time
}

// Locked reports whether the account is under an active lockout at the
// given instant.
func (u *User) Locked(now time.Time) bool {
	return u.BlockedUntil != nil && u.BlockedUntil.After(now)
}
