package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/melodia/admin-api/internal/core/domain"
)

// Client-facing messages. They are fixed strings so that responses never
// carry internal detail.
const (
	msgInvalidToken    = "invalid or expired token"
	msgInternal        = "internal server error"
	msgTooManyAttempts = "too many failed login attempts, try again later"
)

// ResolveError maps err to an HTTP status and a client-safe message. known is
// false for errors that should be logged as unexpected.
func ResolveError(err error) (code int, msg string, known bool) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), true
	}

	switch {
	case errors.Is(err, domain.ErrMissingField):
		return http.StatusBadRequest, "Username, Email and Password are required", true
	case errors.Is(err, domain.ErrPasswordTooLong):
		return http.StatusBadRequest, "Password must be at most 72 bytes", true
	case errors.Is(err, domain.ErrDuplicateIdentity):
		return http.StatusBadRequest, "Username or email already exists.", true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password", true
	case domain.IsTokenFailure(err):
		return http.StatusUnauthorized, msgInvalidToken, true
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, msgTooManyAttempts, true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden", true
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found", true
	}

	return http.StatusInternalServerError, msgInternal, false
}

// WriteError renders err with the canonical error envelope.
func WriteError(c echo.Context, err error) error {
	code, msg, _ := ResolveError(err)
	return c.JSON(code, errorResponse{Status: false, Message: msg})
}
