package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/gamix-app/auth-service/internal/common"
	"github.com/gamix-app/auth-service/internal/logging"
	"github.com/gamix-app/auth-service/internal/server/auth"
	"github.com/gamix-app/auth-service/internal/server/config"
	"github.com/gamix-app/auth-service/internal/server/mailer"
	"github.com/gamix-app/auth-service/internal/server/repositories/repomanager"
)

// changePasswordRoute is the only route a recovery-scoped token may call.
var changePasswordRoute = []auth.RouteClaim{{Route: "/auth/change-password", Method: "POST"}}

// RecoveryService implements the email recovery-code flow: request a code,
// then exchange a matching code for a restricted access token whose route
// allowlist permits only the password change endpoint.
type RecoveryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenManager
	mail        mailer.EmailSender
	log         logging.Logger

	codeLength                  int
	codeValidityDuration        time.Duration
	accessTokenValidityDuration time.Duration
}

func NewRecoveryService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenManager,
	mail mailer.EmailSender, log logging.Logger, cfg *config.Config) *RecoveryService {
	return &RecoveryService{
		db:                          db,
		repomanager:                 m,
		tokens:                      tokens,
		mail:                        mail,
		log:                         log,
		codeLength:                  cfg.RecoveryCodeLength,
		codeValidityDuration:        cfg.RecoveryCodeValidityDuration,
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// RequestCode generates a fresh recovery code for the account and emails it.
// The code is stored only after the email goes out, so a delivery failure
// never leaves a live code behind. Requesting again replaces any prior code
// and restarts its validity window.
func (s *RecoveryService) RequestCode(ctx context.Context, email string) error {
	email = strings.ToLower(email)

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotFound
		}
		return common.ErrorInternal
	}

	code, err := common.MakeRandCode(s.codeLength)
	if err != nil {
		return common.ErrorInternal
	}

	if err := s.mail.SendRecoveryCode(ctx, email, code); err != nil {
		s.log.Error(ctx, "recovery code email failed", "error", err)
		return common.ErrEmailSendFailed
	}

	if _, err := s.repomanager.RecoveryCodes(s.db).Upsert(ctx, user.ID, code); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// VerifyCode checks a submitted recovery code against the stored one and, on
// match, consumes it and mints a restricted access token. Case differences
// in the submitted code are forgiven; expiry is checked before equality, so
// a stale-but-correct code reports CODE_EXPIRED.
func (s *RecoveryService) VerifyCode(ctx context.Context, email, code string) (string, error) {
	email = strings.ToLower(email)
	code = strings.ToUpper(code)

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrUserNotFound
		}
		return "", common.ErrorInternal
	}

	codes := s.repomanager.RecoveryCodes(s.db)
	rc, err := codes.Find(ctx, user.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// No live code is indistinguishable from no account.
			return "", common.ErrUserNotFound
		}
		return "", common.ErrorInternal
	}

	if rc.Expired(time.Now(), s.codeValidityDuration) {
		return "", common.ErrCodeExpired
	}
	// A blank stored value is a consumed code; it matches nothing,
	// including a blank submission.
	if rc.Code == "" || rc.Code != code {
		return "", common.ErrCodeNotEquals
	}

	if err := codes.Invalidate(ctx, user.ID); err != nil {
		return "", common.ErrorInternal
	}

	// A matching code proves ownership of the mailbox.
	if !user.Verified {
		if err := s.repomanager.Users(s.db).MarkVerified(ctx, user.ID); err != nil {
			return "", common.ErrorInternal
		}
		user.Verified = true
	}

	claims := ClaimsFor(user)
	claims.ValidRoutes = changePasswordRoute
	token, err := s.tokens.Issue(claims, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}
