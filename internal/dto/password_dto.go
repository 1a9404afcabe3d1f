package dto

import "time"

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ValidateTokenRequest struct {
	Token string `json:"token" validate:"required"`
	Type  string `json:"type" validate:"omitempty,oneof=mobile admin"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,max=72"`
	Type        string `json:"type" validate:"omitempty,oneof=mobile admin"`
}

type AdminResetPasswordRequest struct {
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,max=72"`
}

type ForgotPasswordResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ExpiresIn int64  `json:"expiresIn,omitempty"`
	// Token is only set when secrets are exposed in development.
	Token string `json:"token,omitempty"`
}

type ValidateTokenResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Email   string `json:"email"`
}

type RateLimitedResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	MinutesLeft  int    `json:"minutesLeft"`
	AttemptsUsed int    `json:"attemptsUsed"`
	MaxAttempts  int    `json:"maxAttempts"`
}

type StatusCountsResponse struct {
	Active  int64 `json:"active"`
	Used    int64 `json:"used"`
	Expired int64 `json:"expired"`
	Total   int64 `json:"total"`
}

type StatsResponse struct {
	Success bool                 `json:"success"`
	Mobile  StatusCountsResponse `json:"mobile"`
	Admin   StatusCountsResponse `json:"admin"`
}

type CleanupResponse struct {
	Success           bool  `json:"success"`
	Expired           int64 `json:"expired"`
	Purged            int64 `json:"purged"`
	RateLimitsRemoved int64 `json:"rateLimitsRemoved"`
}

type RateLimitStatusResponse struct {
	Success           bool       `json:"success"`
	Email             string     `json:"email"`
	Attempts          int        `json:"attempts"`
	AttemptsRemaining int        `json:"attemptsRemaining"`
	MaxAttempts       int        `json:"maxAttempts"`
	Locked            bool       `json:"locked"`
	LockedUntil       *time.Time `json:"lockedUntil,omitempty"`
	MinutesLeft       int        `json:"minutesLeft"`
}
