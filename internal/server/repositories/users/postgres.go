package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const userColumns = `id, username, email, password, verified, login_attempts, blocked_until, refresh_token, user_profile_id, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var blockedUntil sql.NullTime
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password,
		&user.Verified, &user.LoginAttempts, &blockedUntil,
		&user.RefreshToken, &user.UserProfileID, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if blockedUntil.Valid {
		t := blockedUntil.Time
		user.BlockedUntil = &t
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, email, password, verified)
		 VALUES ($1, $2, $3, $4)
		 RETURNING ` + userColumns

	return scanUser(r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.Password, user.Verified))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE email = $1
		 `

	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `

	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	query :=
		`UPDATE users SET password = $2, login_attempts = 0, blocked_until = NULL
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id, passwordHash); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, id string, token string) error {
	query :=
		`UPDATE users SET refresh_token = $2
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, id string) error {
	query :=
		`UPDATE users SET verified = true
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// RegisterFailedAttempt performs the read-increment-write of the failure
// counter as a single UPDATE, so concurrent wrong attempts cannot observe
// the same stale counter (a lost increment would weaken the lockout).
func (r *PostgresRepository) RegisterFailedAttempt(ctx context.Context, id string, threshold int, cooldown time.Duration) (int, error) {
	query :=
		`UPDATE users
		 SET login_attempts = login_attempts + 1,
		     blocked_until = CASE WHEN login_attempts + 1 >= $2
		                          THEN now() + make_interval(secs => $3)
		                          ELSE blocked_until END
		 WHERE id = $1
		 RETURNING login_attempts
		 `

	var attempts int
	err := r.db.QueryRowContext(ctx, query, id, threshold, cooldown.Seconds()).Scan(&attempts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return attempts, nil
}

func (r *PostgresRepository) ResetLoginAttempts(ctx context.Context, id string) error {
	query :=
		`UPDATE users SET login_attempts = 0, blocked_until = NULL
		 WHERE id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
