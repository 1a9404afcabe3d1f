package middleware

import (
	"net/http"

	"salonbook/internal/utils"

	"github.com/labstack/echo/v4"
)

// RequireAdmin admits admin tokens, optionally restricted to roles.
func RequireAdmin(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenType, ok := TokenTypeFromContext(c)
			if !ok || tokenType != utils.TokenTypeAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			if len(roles) == 0 {
				return next(c)
			}
			currentRole, _ := RoleFromContext(c)
			for _, role := range roles {
				if currentRole == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}
	}
}
