package domain

import (
	"errors"
)

const (
	RoleUser = "user"

	// TokenCookieName is the session cookie set on signup/signin.
	TokenCookieName = "token"
)

var (
	MesaageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrParseUUID              = errors.New("failed to parse UUID")
	ErrUserNotAllowed         = errors.New("user not allowed")
	ErrTokenNotFound          = errors.New("failed to token not found")
	ErrTokenInvalid           = errors.New("token invalid")
	ErrTokenExpired           = errors.New("token expired")
	ErrTransientUnavailable   = errors.New("service temporarily unavailable")
	ErrMailerNotConfigured    = errors.New("smtp is not configured")
	ErrJWTSecretNotConfigured = errors.New("JWT_SECRET is not configured")
)
