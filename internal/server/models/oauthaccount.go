package models

import "time"

// OAuthAccount links a local account to a federated identity asserted by a
// third-party provider. The pair (provider, email) is unique.
type OAuthAccount struct {
	UserID    string
	Provider  string
	Email     string
	CreatedAt time.Time
}
