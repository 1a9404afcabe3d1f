package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonbook/api/handler"
	apiMiddleware "salonbook/api/middleware"
	"salonbook/api/routes"
	"salonbook/config"
	"salonbook/internal/app"
	"salonbook/internal/jobs"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger := config.NewLogger(cfg.Log)

	container, err := app.New(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialise application")
	}
	defer container.Close()

	validate := handler.NewValidator()

	authHandler := handler.NewAuthHandler(container.Auth, validate)
	authHandler.CookieDomain = cfg.Server.CookieDomain
	authHandler.SecureCookies = cfg.Server.SecureCookies
	passwordHandler := handler.NewPasswordHandler(container.Resets, validate, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status":     v.Status,
				"method":     v.Method,
				"uri":        v.URI,
				"ip":         v.RemoteIP,
				"latency_ms": v.Latency.Milliseconds(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{JWT: container.JWT}
	router := routes.NewRouter(e, authHandler, passwordHandler, authMiddleware)
	router.RegisterRoutes()

	scheduler, err := jobs.NewScheduler(logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to create scheduler")
	}
	if cfg.Jobs.CleanupCron != "" {
		cleanup := jobs.NewPasswordResetCleanupJob(container.Resets, logger, cfg.Jobs.CleanupTimeout)
		if err := scheduler.RegisterCronJob(cfg.Jobs.CleanupCron, cleanup); err != nil {
			logger.WithError(err).Fatal("failed to register cleanup job")
		}
	}
	scheduler.Start()

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.WithFields(logrus.Fields{
			"addr":     cfg.Server.Addr,
			"env":      cfg.Server.Environment,
			"database": cfg.Database.Driver,
		}).Info("server started")
		if err := e.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown failed")
	}
	if err := scheduler.Shutdown(); err != nil {
		logger.WithError(err).Error("scheduler shutdown failed")
	}
}
