package recoverycodes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gamix-app/auth-service/internal/common"
	"github.com/gamix-app/auth-service/internal/dbx"
	"github.com/gamix-app/auth-service/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, userID string, code string) (*models.RecoveryCode, error) {

	query :=
		`INSERT INTO user_codes (user_id, code, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE SET code = EXCLUDED.code, updated_at = now()
		 RETURNING user_id, code, updated_at
		 `

	rc := &models.RecoveryCode{}
	err := r.db.QueryRowContext(ctx, query, userID, code).Scan(&rc.UserID, &rc.Code, &rc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rc, nil
}

func (r *PostgresRepository) Find(ctx context.Context, userID string) (*models.RecoveryCode, error) {
	query :=
		`SELECT user_id, code, updated_at FROM user_codes
		 WHERE user_id = $1
		 `

	rc := &models.RecoveryCode{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&rc.UserID, &rc.Code, &rc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rc, nil
}

// Invalidate consumes the code by blanking its value. The row stays, so a
// replay of the consumed code reaches the equality check and fails there
// instead of looking like a missing account.
func (r *PostgresRepository) Invalidate(ctx context.Context, userID string) error {
	query :=
		`UPDATE user_codes SET code = ''
		 WHERE user_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
