// Package common defines shared constants and sentinel errors used across
// the auth service layers. Callers should use errors.Is to match these
// values; the REST boundary maps them to transport status codes.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Account lookup / registration.
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotVerified   = errors.New("user email not verified")

	// Token lifecycle errors. The codec reports the first that applies,
	// checking structure, then signature, then expiry.
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")

	// Login attempt policy. The ordinal errors report which consecutive
	// wrong attempt this was, so callers can present escalating warnings.
	ErrWrongPasswordOnce       = errors.New("wrong password (1 attempt)")
	ErrWrongPasswordTwice      = errors.New("wrong password (2 attempts)")
	ErrWrongPasswordThreeTimes = errors.New("wrong password (3 attempts)")
	ErrWrongPasswordFourTimes  = errors.New("wrong password (4 attempts)")
	ErrWrongPasswordFiveTimes  = errors.New("wrong password (5 attempts)")
	ErrExcessiveLoginAttempts  = errors.New("excessive login attempts")

	// Recovery code flow.
	ErrCodeExpired   = errors.New("code expired")
	ErrCodeNotEquals = errors.New("code does not match")

	// Federated identity linking.
	ErrProviderNotLinked     = errors.New("provider not linked")
	ErrProviderAlreadyLinked = errors.New("provider already linked")

	// Outbound email.
	ErrEmailSendFailed = errors.New("error while sending email")
)

var wrongPasswordErrors = [...]error{
	ErrWrongPasswordOnce,
	ErrWrongPasswordTwice,
	ErrWrongPasswordThreeTimes,
	ErrWrongPasswordFourTimes,
	ErrWrongPasswordFiveTimes,
}

// WrongPasswordError returns the ordinal-tagged error for the n-th
// consecutive failed attempt (1-based). Attempts beyond the tracked range
// clamp to the last ordinal.
func WrongPasswordError(attempt int) error {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > len(wrongPasswordErrors) {
		attempt = len(wrongPasswordErrors)
	}
	return wrongPasswordErrors[attempt-1]
}
