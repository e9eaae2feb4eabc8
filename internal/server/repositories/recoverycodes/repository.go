package recoverycodes

import (
	"context"

	"github.com/gamix-app/auth-service/internal/server/models"
)

// Repository persists one-time recovery codes. At most one active code
// exists per account: Upsert replaces any prior value and bumps the
// creation timestamp, and Invalidate consumes a code without removing the
// record.
type Repository interface {
	Upsert(ctx context.Context, userID string, code string) (*models.RecoveryCode, error)
	Find(ctx context.Context, userID string) (*models.RecoveryCode, error)
	Invalidate(ctx context.Context, userID string) error
}
