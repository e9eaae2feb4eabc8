package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gamix-app/auth-service/internal/common"
	"github.com/gamix-app/auth-service/internal/dbx"
	"github.com/gamix-app/auth-service/internal/logging"
	"github.com/gamix-app/auth-service/internal/server/cryptox"
	"github.com/gamix-app/auth-service/internal/server/models"
	"github.com/gamix-app/auth-service/internal/server/oauth"
	"github.com/gamix-app/auth-service/internal/server/repositories/repomanager"
)

// SocialService signs users in through federated identity providers and
// links provider identities to existing accounts.
type SocialService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	gateway     *oauth.Gateway
	encoder     *cryptox.Encoder
	auth        *AuthService
	log         logging.Logger
}

func NewSocialService(db *sql.DB, m repomanager.RepositoryManager, gateway *oauth.Gateway,
	encoder *cryptox.Encoder, authService *AuthService, log logging.Logger) *SocialService {
	return &SocialService{
		db:          db,
		repomanager: m,
		gateway:     gateway,
		encoder:     encoder,
		auth:        authService,
		log:         log,
	}
}

// ValidateToken exchanges a provider access token for a normalized identity.
func (s *SocialService) ValidateToken(ctx context.Context, provider, token string) oauth.Validation {
	return s.gateway.Validate(ctx, provider, token)
}

// SignIn authenticates a user through a federated provider token.
//
// An account already linked to (provider, email) signs straight in. An
// existing account with the same email but no link is rejected with
// PROVIDER_NOT_LINKED; linking is an explicit, authenticated step. A
// completely new email provisions an account with an unguessable random
// password and links it, both inside one transaction.
func (s *SocialService) SignIn(ctx context.Context, provider, token string) (*models.User, *TokenPair, error) {
	v := s.gateway.Validate(ctx, provider, token)
	if !v.Valid || v.Email == "" {
		return nil, nil, common.ErrUserNotFound
	}

	var user *models.User

	acc, err := s.repomanager.OAuthAccounts(s.db).Find(ctx, provider, v.Email)
	switch {
	case err == nil:
		user, err = s.repomanager.Users(s.db).GetByID(ctx, acc.UserID)
		if err != nil {
			return nil, nil, common.ErrorInternal
		}

	case errors.Is(err, common.ErrorNotFound):
		if _, err := s.repomanager.Users(s.db).GetByEmail(ctx, v.Email); err == nil {
			return nil, nil, common.ErrProviderNotLinked
		} else if !errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorInternal
		}

		user, err = s.provisionUser(ctx, provider, v)
		if err != nil {
			return nil, nil, err
		}

	default:
		return nil, nil, common.ErrorInternal
	}

	pair, err := s.auth.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// LinkProvider attaches a federated identity to an already authenticated
// account. The provider token must validate, and the (provider, email)
// pair must not be linked elsewhere.
func (s *SocialService) LinkProvider(ctx context.Context, userID, provider, token string) (*models.OAuthAccount, error) {
	v := s.gateway.Validate(ctx, provider, token)
	if !v.Valid || v.Email == "" {
		return nil, common.ErrorUnauthorized
	}

	if _, err := s.repomanager.Users(s.db).GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrorInternal
	}

	acc, err := s.repomanager.OAuthAccounts(s.db).Link(ctx, userID, provider, v.Email)
	if err != nil {
		if errors.Is(err, common.ErrProviderAlreadyLinked) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}
	return acc, nil
}

// provisionUser creates a local account for a first-time federated sign-in.
// The stored password is a random hex string nobody knows, hashed like any
// other; password sign-in stays possible only after a recovery flow.
func (s *SocialService) provisionUser(ctx context.Context, provider string, v oauth.Validation) (*models.User, error) {
	secret, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, common.ErrorInternal
	}
	hash, err := s.encoder.Encode(ctx, secret)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var txErr error
		user, txErr = s.repomanager.Users(tx).Create(ctx, &models.User{
			Username: v.Name,
			Email:    v.Email,
			Password: hash,
			Verified: true,
		})
		if txErr != nil {
			return txErr
		}
		_, txErr = s.repomanager.OAuthAccounts(tx).Link(ctx, user.ID, provider, v.Email)
		return txErr
	})
	if err != nil {
		return nil, common.ErrorInternal
	}
	return user, nil
}
