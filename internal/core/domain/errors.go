package domain

import "errors"

// Credential and registration failures.
var (
	ErrMissingField       = errors.New("username, email and password are required")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
	ErrDuplicateIdentity  = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

// Token failures. All of them surface to clients as the same 401.
var (
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrTokenExpired     = errors.New("token has expired")
	ErrMalformedToken   = errors.New("token is malformed")
	ErrMissingToken     = errors.New("bearer token is missing")
)

// ErrSigningKeyExpired is returned when a token is requested after the
// signing key's end of validity.
var ErrSigningKeyExpired = errors.New("signing key is no longer valid")

var (
	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("access forbidden")
	ErrUnavailable  = errors.New("service unavailable")
)

// IsTokenFailure reports whether err is one of the token verification failures.
func IsTokenFailure(err error) bool {
	return errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrMissingToken)
}
