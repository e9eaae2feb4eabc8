package oauthaccounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gamix-app/auth-service/internal/common"
	"github.com/gamix-app/auth-service/internal/dbx"
	"github.com/gamix-app/auth-service/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Find(ctx context.Context, provider string, email string) (*models.OAuthAccount, error) {
	query :=
		`SELECT user_id, provider, email, created_at FROM oauth_accounts
		 WHERE provider = $1 AND email = $2
		 `

	acc := &models.OAuthAccount{}
	err := r.db.QueryRowContext(ctx, query, provider, email).
		Scan(&acc.UserID, &acc.Provider, &acc.Email, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return acc, nil
}

func (r *PostgresRepository) Link(ctx context.Context, userID string, provider string, email string) (*models.OAuthAccount, error) {

	query :=
		`INSERT INTO oauth_accounts (user_id, provider, email)
		 VALUES ($1, $2, $3)
		 RETURNING user_id, provider, email, created_at
		 `

	acc := &models.OAuthAccount{}
	err := r.db.QueryRowContext(ctx, query, userID, provider, email).
		Scan(&acc.UserID, &acc.Provider, &acc.Email, &acc.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation: the identity is already linked.
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrProviderAlreadyLinked
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return acc, nil
}
