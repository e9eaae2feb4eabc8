package users

import (
	"context"
	"time"

	"github.com/gamix-app/auth-service/internal/server/models"
)

// Repository persists credential records. RegisterFailedAttempt must be
// atomic: two concurrent wrong attempts serialize at the database so each
// observes a distinct counter value.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	UpdateRefreshToken(ctx context.Context, id string, token string) error
	MarkVerified(ctx context.Context, id string) error

	// RegisterFailedAttempt increments the failure counter in one statement
	// and, when the new value reaches threshold, sets the lockout expiry to
	// now + cooldown. It returns the post-increment counter.
	RegisterFailedAttempt(ctx context.Context, id string, threshold int, cooldown time.Duration) (int, error)

	// ResetLoginAttempts clears the counter and any lockout expiry.
	ResetLoginAttempts(ctx context.Context, id string) error
}
