package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/melodia/admin-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := allowed[roleOf(c)]; !ok {
				return c.JSON(http.StatusForbidden, map[string]any{
					"status":  false,
					"message": "access forbidden",
				})
			}
			return next(c)
		}
	}
}

func roleOf(c echo.Context) string {
	if claims, ok := domain.ClaimsFromContext(c.Request().Context()); ok {
		return claims.Role
	}
	role, _ := c.Get(RoleKey).(string)
	return role
}
