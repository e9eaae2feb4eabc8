// Package rest exposes the auth services over HTTP using gin. Handlers stay
// thin: they decode the request, call one service operation, and map the
// resulting sentinel error to a transport status code here at the boundary.
package rest

import (
	"errors"
	"net/http"

	"github.com/gamix-app/auth-service/internal/common"
)

type errorBody struct {
	Error string `json:"error"`
}

var errorCodes = map[error]struct {
	status int
	code   string
}{
	common.ErrUserNotFound:            {http.StatusNotFound, "USER_NOT_FOUND"},
	common.ErrUserAlreadyExists:       {http.StatusConflict, "USER_ALREADY_EXISTS"},
	common.ErrUserNotVerified:         {http.StatusForbidden, "USER_NOT_VERIFIED"},
	common.ErrWrongPasswordOnce:       {http.StatusUnauthorized, "WRONG_PASSWORD_ONCE"},
	common.ErrWrongPasswordTwice:      {http.StatusUnauthorized, "WRONG_PASSWORD_TWICE"},
	common.ErrWrongPasswordThreeTimes: {http.StatusUnauthorized, "WRONG_PASSWORD_THREE_TIMES"},
	common.ErrWrongPasswordFourTimes:  {http.StatusUnauthorized, "WRONG_PASSWORD_FOUR_TIMES"},
	common.ErrWrongPasswordFiveTimes:  {http.StatusUnauthorized, "WRONG_PASSWORD_FIVE_TIMES"},
	common.ErrExcessiveLoginAttempts:  {http.StatusTooManyRequests, "EXCESSIVE_LOGIN_ATTEMPTS"},
	common.ErrCodeExpired:             {http.StatusBadRequest, "CODE_EXPIRED"},
	common.ErrCodeNotEquals:           {http.StatusBadRequest, "CODE_NOT_EQUALS"},
	common.ErrProviderNotLinked:       {http.StatusConflict, "PROVIDER_NOT_LINKED"},
	common.ErrProviderAlreadyLinked:   {http.StatusConflict, "PROVIDER_ALREADY_LINKED"},
	common.ErrEmailSendFailed:         {http.StatusBadGateway, "EMAIL_SEND_FAILED"},
	common.ErrorUnauthorized:          {http.StatusUnauthorized, "UNAUTHORIZED"},
	common.ErrMalformedToken:          {http.StatusUnauthorized, "MALFORMED_TOKEN"},
	common.ErrInvalidSignature:        {http.StatusUnauthorized, "INVALID_SIGNATURE"},
	common.ErrTokenExpired:            {http.StatusUnauthorized, "TOKEN_EXPIRED"},
}

// statusFor maps a service error to its HTTP status and stable error code.
// Unknown errors collapse to 500 so internals never leak to clients.
func statusFor(err error) (int, string) {
	for sentinel, mapped := range errorCodes {
		if errors.Is(err, sentinel) {
			return mapped.status, mapped.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}
