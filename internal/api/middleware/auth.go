package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/melodia/admin-api/internal/api/metrics"
	"github.com/melodia/admin-api/internal/core/domain"
	"github.com/melodia/admin-api/internal/core/ports"
)

// Context keys set by Auth for handlers that read from echo.Context.
const (
	ClaimsKey   = "claims"
	UsernameKey = "username"
	RoleKey     = "role"
	UserIDKey   = "user_id"
)

// Auth verifies the bearer token and injects its claims into both the echo
// context and the request context. Rejections return domain token errors,
// which the HTTP error handler renders as one 401; the reason is only logged
// and counted.
func Auth(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return domain.ErrMissingToken
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				reason := rejectionReason(err)
				metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
				log.Debug().
					Str("reason", reason).
					Str("path", c.Path()).
					Str("remote_ip", c.RealIP()).
					Msg("bearer token rejected")
				if !domain.IsTokenFailure(err) {
					return domain.ErrMalformedToken
				}
				return err
			}

			c.Set(ClaimsKey, claims)
			c.Set(UsernameKey, claims.Username)
			c.Set(RoleKey, claims.Role)
			c.Set(UserIDKey, claims.PrincipalID)

			req := c.Request()
			c.SetRequest(req.WithContext(domain.ContextWithClaims(req.Context(), claims)))

			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}
