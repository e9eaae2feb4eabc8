package models

import "time"

// RecoveryCode is the single active one-time code for an account. Issuing a
// new code replaces the previous row, so at most one is active per user.
type RecoveryCode struct {
	UserID    string
	Code      string
	UpdatedAt time.Time
}

// Expired reports whether the code is older than ttl at the given instant.
func (c *RecoveryCode) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.UpdatedAt) >= ttl
}
