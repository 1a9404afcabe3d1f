package service

import (
	"context"
	"time"

	"salonbook/internal/entity"

	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	UserPasswordCost  int
	MinPasswordLength int
}

type PasswordResetConfig struct {
	MobileTokenTTL    time.Duration
	AdminCodeTTL      time.Duration
	CodeHashCost      int
	AdminScanLimit    int
	RetentionPeriod   time.Duration
	MinPasswordLength int
	// ExposeSecrets returns the plaintext secret in the request result.
	// Development only.
	ExposeSecrets   bool
	RateLimitMobile bool
	RateLimitAdmin  bool
}

func (c PasswordResetConfig) ttlFor(identityType entity.IdentityType) time.Duration {
	if identityType == entity.IdentityAdmin {
		if c.AdminCodeTTL > 0 {
			return c.AdminCodeTTL
		}
		return 15 * time.Minute
	}
	if c.MobileTokenTTL > 0 {
		return c.MobileTokenTTL
	}
	return time.Hour
}

func (c PasswordResetConfig) adminScanLimit() int {
	if c.AdminScanLimit > 0 {
		return c.AdminScanLimit
	}
	return 100
}

func (c PasswordResetConfig) retentionPeriod() time.Duration {
	if c.RetentionPeriod > 0 {
		return c.RetentionPeriod
	}
	return 7 * 24 * time.Hour
}

func (c PasswordResetConfig) minPasswordLength() int {
	if c.MinPasswordLength > 0 {
		return c.MinPasswordLength
	}
	return 6
}

func (c PasswordResetConfig) rateLimited(identityType entity.IdentityType) bool {
	if identityType == entity.IdentityAdmin {
		return c.RateLimitAdmin
	}
	return c.RateLimitMobile
}

type EmailTemplate string

const (
	TemplateMobilePasswordReset EmailTemplate = "mobile_password_reset"
	TemplateAdminPasswordReset  EmailTemplate = "admin_password_reset"
)

type EmailMessage struct {
	To        string
	Template  EmailTemplate
	Secret    string
	ExpiresAt time.Time
	ExpiresIn time.Duration
}

type EmailSender interface {
	Send(ctx context.Context, message EmailMessage) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

func checkPasswordLength(password string, minLength int) error {
	if len(password) < minLength {
		return ErrWeakPassword
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
