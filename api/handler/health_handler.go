package handler

import (
	"net/http"
	"time"

	"salonbook/internal/dto"

	"github.com/labstack/echo/v4"
)

func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Message:   "salon booking api is running",
		Timestamp: time.Now().UTC(),
	})
}
