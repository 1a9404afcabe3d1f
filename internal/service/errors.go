package service

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrWeakPassword           = errors.New("password too short")
	ErrPasswordTooLong        = errors.New("password too long")
	ErrRateLimited            = errors.New("too many password reset requests")
	ErrInvalidCredential      = errors.New("invalid reset credential")
	ErrCredentialExpired      = errors.New("reset credential expired")
	ErrIdentityNotFound       = errors.New("identity not found")
	ErrEmailDeliveryFailed    = errors.New("failed to send password reset email")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrUserNotFound           = errors.New("user not found")
)

// RateLimitedError is returned when an identifier is locked out. It matches
// ErrRateLimited with errors.Is.
type RateLimitedError struct {
	LockedUntil  time.Time
	MinutesLeft  int
	AttemptsUsed int
	MaxAttempts  int
}

func (e *RateLimitedError) Error() string {
	return ErrRateLimited.Error()
}

func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}
