package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"salonbook/internal/dto"
	"salonbook/internal/service"

	"github.com/labstack/echo/v4"
)

const internalErrorMessage = "internal server error"

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, dto.MessageResponse{Success: false, Message: err.Error()})
}

func writeMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, dto.MessageResponse{Success: status < http.StatusBadRequest, Message: message})
}

// writeServiceError maps service errors to responses. Anything unmapped is
// handed to the error handler as a 500 with the cause kept internal.
func writeServiceError(c echo.Context, err error) error {
	var rateErr *service.RateLimitedError
	switch {
	case errors.As(err, &rateErr):
		c.Response().Header().Set("Retry-After", strconv.Itoa(rateErr.MinutesLeft*60))
		return c.JSON(http.StatusTooManyRequests, dto.RateLimitedResponse{
			Success:      false,
			Message:      "too many password reset requests, try again later",
			MinutesLeft:  rateErr.MinutesLeft,
			AttemptsUsed: rateErr.AttemptsUsed,
			MaxAttempts:  rateErr.MaxAttempts,
		})
	case errors.Is(err, service.ErrInvalidInput):
		return writeError(c, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrWeakPassword):
		return writeMessage(c, http.StatusBadRequest, "password is too short")
	case errors.Is(err, service.ErrPasswordTooLong):
		return writeMessage(c, http.StatusBadRequest, "password must be at most 72 bytes")
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		return writeError(c, http.StatusUnauthorized, err)
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		return writeError(c, http.StatusConflict, err)
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrIdentityNotFound):
		return writeError(c, http.StatusNotFound, err)
	case errors.Is(err, service.ErrEmailDeliveryFailed):
		return writeMessage(c, http.StatusInternalServerError, "failed to send reset email, please try again later")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, internalErrorMessage).SetInternal(err)
}

// ErrorHandler renders every error that reaches echo in the response
// envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	message := internalErrorMessage
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok && status < http.StatusInternalServerError {
			message = msg
		}
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = writeMessage(c, status, message)
}

func stringPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
