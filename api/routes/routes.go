package routes

import (
	"time"

	"salonbook/api/handler"
	"salonbook/api/middleware"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	Password       *handler.PasswordHandler
	AuthMiddleware middleware.AuthMiddleware
	AuthRate       *middleware.IPRateLimiter
	ResetRate      *middleware.IPRateLimiter
}

func NewRouter(
	e *echo.Echo,
	authHandler *handler.AuthHandler,
	passwordHandler *handler.PasswordHandler,
	authMiddleware middleware.AuthMiddleware,
) *Router {
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		Password:       passwordHandler,
		AuthMiddleware: authMiddleware,
		AuthRate:       middleware.NewIPRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		ResetRate:      middleware.NewIPRateLimiter(rate.Limit(1), 5, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo
	e.HTTPErrorHandler = handler.ErrorHandler

	e.GET("/health", handler.Health)

	e.POST("/auth/sign-up", r.Auth.SignUp, r.AuthRate.Middleware())
	e.POST("/auth/sign-in", r.Auth.SignIn, r.AuthRate.Middleware())
	e.POST("/auth/admin/sign-in", r.Auth.AdminSignIn, r.AuthRate.Middleware())
	e.POST("/auth/verify-token", r.Auth.VerifyToken, r.AuthRate.Middleware())
	e.POST("/auth/logout", r.Auth.Logout)
	e.GET("/me", r.Auth.Me, r.AuthMiddleware.RequireAuth)

	e.POST("/auth/forgot-password", r.Password.ForgotPassword, r.ResetRate.Middleware())
	e.POST("/auth/admin/forgot-password", r.Password.AdminForgotPassword, r.ResetRate.Middleware())
	e.POST("/auth/validate-token", r.Password.ValidateToken, r.ResetRate.Middleware())
	e.POST("/auth/reset-password", r.Password.ResetPassword, r.ResetRate.Middleware())
	e.POST("/auth/admin/reset-password", r.Password.AdminResetPassword, r.ResetRate.Middleware())

	adminOnly := []echo.MiddlewareFunc{r.AuthMiddleware.RequireAuth, middleware.RequireAdmin()}
	e.GET("/auth/password-reset/stats", r.Password.Stats, adminOnly...)
	e.POST("/auth/password-reset/cleanup", r.Password.Cleanup, adminOnly...)
	e.GET("/auth/rate-limit/:email", r.Password.RateLimitStatus, adminOnly...)
}
