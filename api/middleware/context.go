package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	contextIdentityIDKey = "auth_identity_id"
	contextTokenTypeKey  = "auth_token_type"
	contextRoleKey       = "auth_role"
)

func SetAuthContext(c echo.Context, identityID uuid.UUID, tokenType string, role string) {
	c.Set(contextIdentityIDKey, identityID)
	c.Set(contextTokenTypeKey, tokenType)
	c.Set(contextRoleKey, role)
}

func IdentityIDFromContext(c echo.Context) (uuid.UUID, bool) {
	value := c.Get(contextIdentityIDKey)
	identityID, ok := value.(uuid.UUID)
	return identityID, ok
}

func TokenTypeFromContext(c echo.Context) (string, bool) {
	value := c.Get(contextTokenTypeKey)
	tokenType, ok := value.(string)
	return tokenType, ok
}

func RoleFromContext(c echo.Context) (string, bool) {
	value := c.Get(contextRoleKey)
	role, ok := value.(string)
	return role, ok
}
