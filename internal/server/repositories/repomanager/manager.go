// Package repomanager vends repository implementations bound to a DBTX and
// exposes a schema migration hook, decoupling services from the concrete
// persistence technology.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/gamix-app/auth-service/internal/dbx"
	"github.com/gamix-app/auth-service/internal/server/repositories/oauthaccounts"
	"github.com/gamix-app/auth-service/internal/server/repositories/recoverycodes"
	"github.com/gamix-app/auth-service/internal/server/repositories/users"
)

// RepositoryManager builds repositories over either a plain connection or a
// transaction, so services can run multi-step flows inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RecoveryCodes(db dbx.DBTX) recoverycodes.Repository
	OAuthAccounts(db dbx.DBTX) oauthaccounts.Repository
}
