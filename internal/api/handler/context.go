package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/melodia/admin-api/internal/core/domain"
)

// ctxClaims returns the claims the Auth middleware attached to the request.
// Their absence means the route was mounted without the middleware.
func ctxClaims(c echo.Context) (domain.Claims, error) {
	claims, ok := domain.ClaimsFromContext(c.Request().Context())
	if !ok || claims.PrincipalID == "" {
		return domain.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
