package middleware

import (
	"net/http"
	"strings"

	"salonbook/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const TokenCookieName = "salon_token"

type AuthMiddleware struct {
	JWT        *utils.JWTManager
	CookieName string
}

func (m AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.JWT == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		token := TokenFromRequest(c, m.cookieName())
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		claims, err := m.JWT.ParseAccessToken(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		identityID, err := uuid.Parse(claims.IdentityID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		SetAuthContext(c, identityID, claims.Type, claims.Role)
		return next(c)
	}
}

func (m AuthMiddleware) cookieName() string {
	if m.CookieName != "" {
		return m.CookieName
	}
	return TokenCookieName
}

// TokenFromRequest returns the bearer token, falling back to the session
// cookie.
func TokenFromRequest(c echo.Context, cookieName string) string {
	if token := extractBearerToken(c.Request()); token != "" {
		return token
	}
	if cookieName == "" {
		cookieName = TokenCookieName
	}
	cookie, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

func extractBearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
