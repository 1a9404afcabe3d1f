package handler

import (
	"errors"
	"net/http"

	"salonbook/internal/dto"
	"salonbook/internal/entity"
	"salonbook/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const resetRequestedMessage = "If this email exists, reset instructions have been sent"

type PasswordHandler struct {
	Service  *service.PasswordResetService
	Validate *validator.Validate
	Logger   logrus.FieldLogger
}

func NewPasswordHandler(svc *service.PasswordResetService, validate *validator.Validate, logger logrus.FieldLogger) *PasswordHandler {
	return &PasswordHandler{Service: svc, Validate: validate, Logger: logger}
}

func (h *PasswordHandler) ForgotPassword(c echo.Context) error {
	return h.forgotPassword(c, entity.IdentityMobile)
}

func (h *PasswordHandler) AdminForgotPassword(c echo.Context) error {
	return h.forgotPassword(c, entity.IdentityAdmin)
}

func (h *PasswordHandler) forgotPassword(c echo.Context, identityType entity.IdentityType) error {
	var req dto.ForgotPasswordRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validateRequest(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	result, err := h.Service.RequestReset(c.Request().Context(), service.RequestResetInput{
		Email:        req.Email,
		IdentityType: identityType,
		IPAddress:    stringPtr(c.RealIP()),
		UserAgent:    stringPtr(c.Request().UserAgent()),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return writeMessage(c, http.StatusBadRequest, "invalid email address")
		}
		return writeServiceError(c, err)
	}

	response := dto.ForgotPasswordResponse{
		Success: true,
		Message: resetRequestedMessage,
		Token:   result.Secret,
	}
	if identityType == entity.IdentityAdmin {
		response.ExpiresIn = int64(result.ExpiresIn.Seconds())
	}
	return c.JSON(http.StatusOK, response)
}

func (h *PasswordHandler) ValidateToken(c echo.Context) error {
	var req dto.ValidateTokenRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validateRequest(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	identityType := identityTypeOrDefault(req.Type)
	email, err := h.Service.ValidateCredential(c.Request().Context(), req.Token, identityType)
	if err != nil {
		return h.writeResetError(c, identityType, err)
	}
	return c.JSON(http.StatusOK, dto.ValidateTokenResponse{Success: true, Message: "token is valid", Email: email})
}

func (h *PasswordHandler) ResetPassword(c echo.Context) error {
	var req dto.ResetPasswordRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validateRequest(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	return h.confirm(c, req.Token, req.NewPassword, identityTypeOrDefault(req.Type))
}

func (h *PasswordHandler) AdminResetPassword(c echo.Context) error {
	var req dto.AdminResetPasswordRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validateRequest(h.Validate, req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	return h.confirm(c, req.Code, req.NewPassword, entity.IdentityAdmin)
}

func (h *PasswordHandler) confirm(c echo.Context, secret string, newPassword string, identityType entity.IdentityType) error {
	err := h.Service.ConfirmReset(c.Request().Context(), service.ConfirmResetInput{
		Secret:       secret,
		NewPassword:  newPassword,
		IdentityType: identityType,
		IPAddress:    stringPtr(c.RealIP()),
	})
	if err != nil {
		return h.writeResetError(c, identityType, err)
	}
	return writeMessage(c, http.StatusOK, "Password reset successfully")
}

func (h *PasswordHandler) Stats(c echo.Context) error {
	stats, err := h.Service.Stats(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.StatsResponse{
		Success: true,
		Mobile:  statusCountsResponse(stats.Mobile),
		Admin:   statusCountsResponse(stats.Admin),
	})
}

func (h *PasswordHandler) Cleanup(c echo.Context) error {
	result, err := h.Service.Cleanup(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	h.Logger.WithFields(logrus.Fields{
		"expired":             result.Expired,
		"purged":              result.Purged,
		"rate_limits_removed": result.RateLimitsRemoved,
	}).Info("manual password reset cleanup")
	return c.JSON(http.StatusOK, dto.CleanupResponse{
		Success:           true,
		Expired:           result.Expired,
		Purged:            result.Purged,
		RateLimitsRemoved: result.RateLimitsRemoved,
	})
}

func (h *PasswordHandler) RateLimitStatus(c echo.Context) error {
	status, err := h.Service.RateLimitStatus(c.Request().Context(), c.Param("email"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.RateLimitStatusResponse{
		Success:           true,
		Email:             status.Identifier,
		Attempts:          status.Attempts,
		AttemptsRemaining: status.AttemptsRemaining,
		MaxAttempts:       status.MaxAttempts,
		Locked:            status.Locked,
		LockedUntil:       status.LockedUntil,
		MinutesLeft:       status.MinutesLeft,
	})
}

// writeResetError collapses invalid and expired credentials into one
// message per identity type.
func (h *PasswordHandler) writeResetError(c echo.Context, identityType entity.IdentityType, err error) error {
	if errors.Is(err, service.ErrInvalidCredential) || errors.Is(err, service.ErrCredentialExpired) {
		message := "invalid or expired token"
		if identityType == entity.IdentityAdmin {
			message = "invalid or expired code"
		}
		return writeMessage(c, http.StatusBadRequest, message)
	}
	if errors.Is(err, service.ErrIdentityNotFound) {
		return writeMessage(c, http.StatusNotFound, "account not found")
	}
	return writeServiceError(c, err)
}

func identityTypeOrDefault(value string) entity.IdentityType {
	if value == string(entity.IdentityAdmin) {
		return entity.IdentityAdmin
	}
	return entity.IdentityMobile
}

func statusCountsResponse(counts service.StatusCounts) dto.StatusCountsResponse {
	return dto.StatusCountsResponse{
		Active:  counts.Active,
		Used:    counts.Used,
		Expired: counts.Expired,
		Total:   counts.Total,
	}
}
