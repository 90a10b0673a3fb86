package auth

import "errors"

// Sentinel errors for the auth service; handlers map them to HTTP statuses.
// Anything else reaching a handler is an internal failure and must not be
// echoed to the client.
var (
	ErrNotFound            = errors.New("account not found")
	ErrConflict            = errors.New("account already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired OTP")
	ErrInvalidToken        = errors.New("invalid token")
	ErrUnauthenticated     = errors.New("missing token")
)
