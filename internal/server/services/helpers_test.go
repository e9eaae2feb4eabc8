package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"time"

	"github.com/gamix-app/auth-service/internal/common"
	"github.com/gamix-app/auth-service/internal/dbx"
	"github.com/gamix-app/auth-service/internal/logging"
	"github.com/gamix-app/auth-service/internal/server/config"
	"github.com/gamix-app/auth-service/internal/server/models"
	"github.com/gamix-app/auth-service/internal/server/repositories/oauthaccounts"
	"github.com/gamix-app/auth-service/internal/server/repositories/recoverycodes"
	"github.com/gamix-app/auth-service/internal/server/repositories/users"
	"github.com/google/uuid"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	return cfg
}

// fakeUsersRepo is an in-memory users.Repository.
type fakeUsersRepo struct {
	byID map[string]*models.User
}

func newFakeUsersRepo(seed ...*models.User) *fakeUsersRepo {
	r := &fakeUsersRepo{byID: map[string]*models.User{}}
	for _, u := range seed {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		cp := *u
		r.byID[u.ID] = &cp
	}
	return r
}

func (r *fakeUsersRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	cp := *user
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	r.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsersRepo) UpdatePassword(_ context.Context, id string, hash string) error {
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Password = hash
	u.LoginAttempts = 0
	u.BlockedUntil = nil
	return nil
}

func (r *fakeUsersRepo) UpdateRefreshToken(_ context.Context, id string, token string) error {
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.RefreshToken = token
	return nil
}

func (r *fakeUsersRepo) MarkVerified(_ context.Context, id string) error {
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Verified = true
	return nil
}

func (r *fakeUsersRepo) RegisterFailedAttempt(_ context.Context, id string, threshold int, cooldown time.Duration) (int, error) {
	u, ok := r.byID[id]
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

func (r *fakeUsersRepo) ResetLoginAttempts(_ context.Context, id string) error {
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.LoginAttempts = 0
	u.BlockedUntil = nil
	return nil
}

// fakeCodesRepo is an in-memory recoverycodes.Repository.
type fakeCodesRepo struct {
	byUser map[string]*models.RecoveryCode
}

func newFakeCodesRepo() *fakeCodesRepo {
	return &fakeCodesRepo{byUser: map[string]*models.RecoveryCode{}}
}

func (r *fakeCodesRepo) Upsert(_ context.Context, userID string, code string) (*models.RecoveryCode, error) {
	rc := &models.RecoveryCode{UserID: userID, Code: code, UpdatedAt: time.Now()}
	r.byUser[userID] = rc
	cp := *rc
	return &cp, nil
}

func (r *fakeCodesRepo) Find(_ context.Context, userID string) (*models.RecoveryCode, error) {
	rc, ok := r.byUser[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *rc
	return &cp, nil
}

func (r *fakeCodesRepo) Invalidate(_ context.Context, userID string) error {
	if rc, ok := r.byUser[userID]; ok {
		rc.Code = ""
	}
	return nil
}

// fakeOAuthRepo is an in-memory oauthaccounts.Repository keyed by provider+email.
type fakeOAuthRepo struct {
	accounts map[string]*models.OAuthAccount
}

func newFakeOAuthRepo() *fakeOAuthRepo {
	return &fakeOAuthRepo{accounts: map[string]*models.OAuthAccount{}}
}

func (r *fakeOAuthRepo) key(provider, email string) string { return provider + "|" + email }

func (r *fakeOAuthRepo) Find(_ context.Context, provider string, email string) (*models.OAuthAccount, error) {
	acc, ok := r.accounts[r.key(provider, email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *acc
	return &cp, nil
}

func (r *fakeOAuthRepo) Link(_ context.Context, userID string, provider string, email string) (*models.OAuthAccount, error) {
	k := r.key(provider, email)
	if _, ok := r.accounts[k]; ok {
		return nil, common.ErrProviderAlreadyLinked
	}
	acc := &models.OAuthAccount{UserID: userID, Provider: provider, Email: email, CreatedAt: time.Now()}
	r.accounts[k] = acc
	cp := *acc
	return &cp, nil
}

// fakeManager vends the in-memory repositories regardless of the handle.
type fakeManager struct {
	users *fakeUsersRepo
	codes *fakeCodesRepo
	oauth *fakeOAuthRepo
}

func newFakeManager(seed ...*models.User) *fakeManager {
	return &fakeManager{
		users: newFakeUsersRepo(seed...),
		codes: newFakeCodesRepo(),
		oauth: newFakeOAuthRepo(),
	}
}

func (m *fakeManager) RunMigrations(_ context.Context, _ *sql.DB) error { return nil }

func (m *fakeManager) Users(_ dbx.DBTX) users.Repository { return m.users }

func (m *fakeManager) RecoveryCodes(_ dbx.DBTX) recoverycodes.Repository { return m.codes }

func (m *fakeManager) OAuthAccounts(_ dbx.DBTX) oauthaccounts.Repository { return m.oauth }

// fakeMailer records sent emails; failNext makes the next send fail.
type fakeMailer struct {
	recoveryTo   []string
	recoveryCode []string
	welcomeTo    []string
	failNext     bool
}

func (f *fakeMailer) SendRecoveryCode(_ context.Context, to string, code string) error {
	if f.failNext {
		f.failNext = false
		return common.ErrEmailSendFailed
	}
	f.recoveryTo = append(f.recoveryTo, to)
	f.recoveryCode = append(f.recoveryCode, code)
	return nil
}

func (f *fakeMailer) SendWelcome(_ context.Context, to string) error {
	if f.failNext {
		f.failNext = false
		return common.ErrEmailSendFailed
	}
	f.welcomeTo = append(f.welcomeTo, to)
	return nil
}
