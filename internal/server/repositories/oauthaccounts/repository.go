package oauthaccounts

import (
	"context"

	"github.com/gamix-app/auth-service/internal/server/models"
)

// Repository persists links between local accounts and federated
// identities. The pair (provider, email) is unique.
type Repository interface {
	Find(ctx context.Context, provider string, email string) (*models.OAuthAccount, error)
	Link(ctx context.Context, userID string, provider string, email string) (*models.OAuthAccount, error)
}
