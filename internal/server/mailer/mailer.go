// Package mailer sends transactional auth emails (recovery codes, welcome
// messages) through an abstract sender so services stay independent of the
// email provider.
package mailer

import "context"

// EmailSender delivers auth-related emails. Implementations must respect
// the caller's context deadline.
type EmailSender interface {
	SendRecoveryCode(ctx context.Context, to string, code string) error
	SendWelcome(ctx context.Context, to string) error
}
