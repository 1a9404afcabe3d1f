package handler

import (
	"errors"
	"net/http"
	"time"

	"salonbook/api/middleware"
	"salonbook/internal/dto"
	"salonbook/internal/service"
	"salonbook/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Service       *service.AuthService
	Validate      *validator.Validate
	CookieName    string
	CookieDomain  string
	SecureCookies bool
	SameSite      http.SameSite
}

func NewAuthHandler(svc *service.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		Service:       svc,
		Validate:      validate,
		CookieName:    middleware.TokenCookieName,
		SecureCookies: true,
		SameSite:      http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) SignUp(c echo.Context) error {
	var req dto.SignUpRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validateRequest(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	user, err := h.Service.SignUp(c.Request().Context(), service.SignUpInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.SignUpResponse{
		Success: true,
		Message: "account created",
		User:    dto.UserResponseFromEntity(user),
	})
}

func (h *AuthHandler) SignIn(c echo.Context) error {
	var req dto.SignInRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validateRequest(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	result, err := h.Service.SignIn(c.Request().Context(), service.SignInInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: stringPtr(c.RealIP()),
		UserAgent: stringPtr(c.Request().UserAgent()),
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	h.setTokenCookie(c, result.Token, result.ExpiresIn)
	return c.JSON(http.StatusOK, dto.SignInResponse{
		Success:   true,
		Message:   "signed in",
		Token:     result.Token,
		ExpiresIn: int64(result.ExpiresIn.Seconds()),
		User:      dto.UserResponseFromEntity(result.User),
	})
}

func (h *AuthHandler) AdminSignIn(c echo.Context) error {
	var req dto.AdminSignInRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validateRequest(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	result, err := h.Service.AdminSignIn(c.Request().Context(), service.AdminSignInInput{
		Username:  req.Username,
		Password:  req.Password,
		IPAddress: stringPtr(c.RealIP()),
		UserAgent: stringPtr(c.Request().UserAgent()),
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	h.setTokenCookie(c, result.Token, result.ExpiresIn)
	return c.JSON(http.StatusOK, dto.AdminSignInResponse{
		Success:   true,
		Message:   "signed in",
		Token:     result.Token,
		ExpiresIn: int64(result.ExpiresIn.Seconds()),
		Admin:     dto.AdminResponseFromEntity(result.Admin),
	})
}

// VerifyToken accepts the token in the body, the Authorization header or
// the session cookie, in that order.
func (h *AuthHandler) VerifyToken(c echo.Context) error {
	var req dto.VerifyTokenRequest
	if c.Request().ContentLength != 0 {
		if err := decodeJSON(c, &req); err != nil {
			return writeError(c, http.StatusBadRequest, err)
		}
	}
	token := req.Token
	if token == "" {
		token = middleware.TokenFromRequest(c, h.CookieName)
	}
	claims, err := h.Service.VerifyToken(token)
	if err != nil {
		return writeServiceError(c, err)
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return c.JSON(http.StatusOK, dto.VerifyTokenResponse{
		Success: true,
		Message: "token is valid",
		Claims: dto.ClaimsResponse{
			ID:        claims.IdentityID,
			Type:      claims.Type,
			Email:     claims.Email,
			Role:      claims.Role,
			ExpiresAt: expiresAt,
		},
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearTokenCookie(c)
	return writeMessage(c, http.StatusOK, "logged out")
}

func (h *AuthHandler) Me(c echo.Context) error {
	identityID, ok := middleware.IdentityIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	tokenType, _ := middleware.TokenTypeFromContext(c)

	ctx := c.Request().Context()
	response := dto.MeResponse{Success: true, Message: "ok"}
	if tokenType == utils.TokenTypeAdmin {
		admin, err := h.Service.CurrentAdmin(ctx, identityID)
		if err != nil {
			return writeServiceError(c, err)
		}
		adminResponse := dto.AdminResponseFromEntity(admin)
		response.Admin = &adminResponse
	} else {
		user, err := h.Service.CurrentUser(ctx, identityID)
		if err != nil {
			return writeServiceError(c, err)
		}
		userResponse := dto.UserResponseFromEntity(user)
		response.User = &userResponse
	}
	return c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) setTokenCookie(c echo.Context, token string, expiresIn time.Duration) {
	if token == "" {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     h.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   int(expiresIn.Seconds()),
		Expires:  time.Now().Add(expiresIn),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: h.SameSite,
	})
}

func (h *AuthHandler) clearTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: h.SameSite,
	})
}

func validateRequest(validate *validator.Validate, payload any) error {
	if validate == nil {
		return nil
	}
	if err := validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return errors.New(validationMessage(validationErrors[0]))
		}
		return err
	}
	return nil
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fieldErr.Field() + " is required"
	case "email":
		return "invalid email address"
	case "min":
		return fieldErr.Field() + " must be at least " + fieldErr.Param() + " characters long"
	case "max":
		return fieldErr.Field() + " must be at most " + fieldErr.Param() + " characters long"
	case "oneof":
		return fieldErr.Field() + " must be one of " + fieldErr.Param()
	}
	return fieldErr.Field() + " is invalid"
}
