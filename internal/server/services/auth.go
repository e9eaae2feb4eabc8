// Package services contains server-side business logic. This file implements
// AuthService: registration, credential sign-in with the lockout policy,
// token pair issuance, session refresh, and password changes.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gamix-app/auth-service/internal/common"
	"github.com/gamix-app/auth-service/internal/logging"
	"github.com/gamix-app/auth-service/internal/server/auth"
	"github.com/gamix-app/auth-service/internal/server/config"
	"github.com/gamix-app/auth-service/internal/server/cryptox"
	"github.com/gamix-app/auth-service/internal/server/mailer"
	"github.com/gamix-app/auth-service/internal/server/models"
	"github.com/gamix-app/auth-service/internal/server/repositories/repomanager"
	"github.com/golang-jwt/jwt/v5"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService provides authentication-related operations:
//   - Register: create accounts and mint first tokens
//   - Authenticate: verify credentials under the lockout policy
//   - RefreshSession: mint new tokens from a valid refresh token
//   - ChangePassword: re-hash and store a new secret
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenManager
	encoder     *cryptox.Encoder
	mail        mailer.EmailSender
	log         logging.Logger

	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	loginAttemptThreshold        int
	loginLockoutDuration         time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenManager,
	encoder *cryptox.Encoder, mail mailer.EmailSender, log logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		tokens:                       tokens,
		encoder:                      encoder,
		mail:                         mail,
		log:                          log,
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		loginAttemptThreshold:        cfg.LoginAttemptThreshold,
		loginLockoutDuration:         cfg.LoginLockoutDuration,
	}
}

// ClaimsFor builds the session claims bundle for an account.
func ClaimsFor(user *models.User) auth.Claims {
	return auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID},
		UserProfileID:    user.UserProfileID,
		VerifiedEmail:    user.Verified,
	}
}

// Register creates a new account with a hashed secret and mints its first
// token pair. A duplicate email yields ErrUserAlreadyExists. The welcome
// email is best-effort.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, *TokenPair, error) {
	email = strings.ToLower(email)
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, nil, common.ErrUserAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, nil, common.ErrorInternal
	}

	hash, err := s.encoder.Encode(ctx, password)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}

	user, err := repo.Create(ctx, &models.User{Username: username, Email: email, Password: hash})
	if err != nil {
		return nil, nil, fmt.Errorf("error creating user: %v", err)
	}

	if err := s.mail.SendWelcome(ctx, email); err != nil {
		s.log.Warn(ctx, "welcome email failed", "error", err)
	}

	pair, err := s.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Authenticate verifies an email/password pair under the lockout policy.
//
// The policy runs before any hashing work: an active lockout rejects the
// attempt immediately, and an elapsed lockout is lazily reset. A wrong
// password increments the counter atomically at the database and returns
// the ordinal-tagged error; a correct one clears the counter and mints a
// token pair.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrUserNotFound
		}
		return nil, nil, common.ErrorInternal
	}

	now := time.Now()
	if user.LoginAttempts >= s.loginAttemptThreshold {
		if user.Locked(now) {
			return nil, nil, common.ErrExcessiveLoginAttempts
		}
		// Lockout elapsed: evaluate this attempt as if the state were open.
		if err := repo.ResetLoginAttempts(ctx, user.ID); err != nil {
			return nil, nil, common.ErrorInternal
		}
		user.LoginAttempts = 0
		user.BlockedUntil = nil
	}

	if !s.encoder.Verify(ctx, password, user.Password) {
		attempts, err := repo.RegisterFailedAttempt(ctx, user.ID, s.loginAttemptThreshold, s.loginLockoutDuration)
		if err != nil {
			return nil, nil, common.ErrorInternal
		}
		return nil, nil, common.WrongPasswordError(attempts)
	}

	if user.LoginAttempts > 0 {
		if err := repo.ResetLoginAttempts(ctx, user.ID); err != nil {
			return nil, nil, common.ErrorInternal
		}
		user.LoginAttempts = 0
		user.BlockedUntil = nil
	}

	pair, err := s.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshSession verifies a refresh token and mints a fresh pair for its
// subject. Any verification failure surfaces as ErrorUnauthorized; an
// expired refresh token is never silently extended. Accounts that have not
// verified their email cannot extend a session.
func (s *AuthService) RefreshSession(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrorInternal
	}

	if !user.Verified {
		return nil, common.ErrUserNotVerified
	}

	return s.IssueTokenPair(ctx, user)
}

// ChangePassword re-hashes and stores a new secret for the account,
// clearing any accumulated lockout state.
func (s *AuthService) ChangePassword(ctx context.Context, userID, newPassword string) error {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotFound
		}
		return common.ErrorInternal
	}

	hash, err := s.encoder.Encode(ctx, newPassword)
	if err != nil {
		return common.ErrorInternal
	}
	if err := repo.UpdatePassword(ctx, userID, hash); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// IssueTokenPair mints an access and refresh token for the account's
// claims and persists the refresh token on the credential record. Each
// token carries its own fresh expiry; issued claims are never mutated.
func (s *AuthService) IssueTokenPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	claims := ClaimsFor(user)

	access, err := s.tokens.Issue(claims, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.tokens.Issue(claims, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
