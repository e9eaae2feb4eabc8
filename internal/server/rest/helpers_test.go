package rest

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gamix-app/auth-service/internal/common"
	"github.com/gamix-app/auth-service/internal/dbx"
	"github.com/gamix-app/auth-service/internal/logging"
	"github.com/gamix-app/auth-service/internal/server/auth"
	"github.com/gamix-app/auth-service/internal/server/config"
	"github.com/gamix-app/auth-service/internal/server/cryptox"
	"github.com/gamix-app/auth-service/internal/server/models"
	"github.com/gamix-app/auth-service/internal/server/oauth"
	"github.com/gamix-app/auth-service/internal/server/repositories/oauthaccounts"
	"github.com/gamix-app/auth-service/internal/server/repositories/recoverycodes"
	"github.com/gamix-app/auth-service/internal/server/repositories/users"
	"github.com/gamix-app/auth-service/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// memStore is an in-memory RepositoryManager used to exercise the HTTP
// boundary without a database.
type memStore struct {
	users map[string]*models.User
	codes map[string]*models.RecoveryCode
	links map[string]*models.OAuthAccount
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]*models.User{},
		codes: map[string]*models.RecoveryCode{},
		links: map[string]*models.OAuthAccount{},
	}
}

func (m *memStore) RunMigrations(_ context.Context, _ *sql.DB) error { return nil }

func (m *memStore) Users(_ dbx.DBTX) users.Repository { return (*memUsers)(m) }

func (m *memStore) RecoveryCodes(_ dbx.DBTX) recoverycodes.Repository { return (*memCodes)(m) }

func (m *memStore) OAuthAccounts(_ dbx.DBTX) oauthaccounts.Repository { return (*memLinks)(m) }

type memUsers memStore

func (m *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	cp := *u
	cp.ID = uuid.NewString()
	m.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id string, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Password = hash
	u.LoginAttempts = 0
	u.BlockedUntil = nil
	return nil
}

func (m *memUsers) UpdateRefreshToken(_ context.Context, id string, token string) error {
	u, ok := m.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.RefreshToken = token
	return nil
}

func (m *memUsers) MarkVerified(_ context.Context, id string) error {
	u, ok := m.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Verified = true
	return nil
}

func (m *memUsers) RegisterFailedAttempt(_ context.Context, id string, threshold int, cooldown time.Duration) (int, error) {
	u, ok := m.users[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	u.LoginAttempts++
	if u.LoginAttempts >= threshold {
		t := time.Now().Add(cooldown)
		u.BlockedUntil = &t
	}
	return u.LoginAttempts, nil
}

func (m *memUsers) ResetLoginAttempts(_ context.Context, id string) error {
	u, ok := m.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.LoginAttempts = 0
	u.BlockedUntil = nil
	return nil
}

type memCodes memStore

func (m *memCodes) Upsert(_ context.Context, userID string, code string) (*models.RecoveryCode, error) {
	rc := &models.RecoveryCode{UserID: userID, Code: code, UpdatedAt: time.Now()}
	m.codes[userID] = rc
	cp := *rc
	return &cp, nil
}

func (m *memCodes) Find(_ context.Context, userID string) (*models.RecoveryCode, error) {
	rc, ok := m.codes[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *rc
	return &cp, nil
}

func (m *memCodes) Invalidate(_ context.Context, userID string) error {
	if rc, ok := m.codes[userID]; ok {
		rc.Code = ""
	}
	return nil
}

type memLinks memStore

func (m *memLinks) Find(_ context.Context, provider string, email string) (*models.OAuthAccount, error) {
	acc, ok := m.links[provider+"|"+email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *acc
	return &cp, nil
}

func (m *memLinks) Link(_ context.Context, userID string, provider string, email string) (*models.OAuthAccount, error) {
	k := provider + "|" + email
	if _, ok := m.links[k]; ok {
		return nil, common.ErrProviderAlreadyLinked
	}
	acc := &models.OAuthAccount{UserID: userID, Provider: provider, Email: email, CreatedAt: time.Now()}
	m.links[k] = acc
	cp := *acc
	return &cp, nil
}

// captureMailer records emails instead of sending them.
type captureMailer struct {
	codes map[string]string // recipient -> last code
}

func (m *captureMailer) SendRecoveryCode(_ context.Context, to string, code string) error {
	if m.codes == nil {
		m.codes = map[string]string{}
	}
	m.codes[to] = code
	return nil
}

func (m *captureMailer) SendWelcome(_ context.Context, _ string) error { return nil }

type restFixture struct {
	router *gin.Engine
	store  *memStore
	mailer *captureMailer
	tokens *auth.TokenManager
}

func newRestFixture(t *testing.T) *restFixture {
	t.Helper()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"

	store := newMemStore()
	mail := &captureMailer{}
	tokens, err := auth.NewTokenManager([]byte(cfg.SecretKey))
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	encoder := cryptox.NewEncoder(bcrypt.MinCost)

	authSvc := services.NewAuthService(nil, store, tokens, encoder, mail, log, cfg)
	recovery := services.NewRecoveryService(nil, store, tokens, mail, log, cfg)
	social := services.NewSocialService(nil, store, oauth.NewGateway(log), encoder, authSvc, log)

	router := NewRouter(NewHandler(authSvc, recovery, social, tokens, log))
	return &restFixture{router: router, store: store, mailer: mail, tokens: tokens}
}
