package auth

import "errors"

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountInactive      = errors.New("account is inactive")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked  = errors.New("refresh token has been revoked")
	ErrRegistrationClosed   = errors.New("registration is closed")
	ErrIncorrectPassword    = errors.New("current password is incorrect")
	ErrOAuthDisabled        = errors.New("google sign-in is not configured")
	ErrInvalidOAuthState    = errors.New("invalid oauth state")
	ErrOAuthAccountNotFound = errors.New("no account is registered for this google email")
)
