package config

import (
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_DRIVER", "memory")
}

func TestFromViper_Defaults(t *testing.T) {
	g := NewWithT(t)
	setRequiredEnv(t)

	cfg, err := FromViper(newViper())
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(cfg.Server.Addr).To(Equal(":8080"))
	g.Expect(cfg.Server.Environment).To(Equal("production"))
	g.Expect(cfg.JWT.Issuer).To(Equal("salonbook"))
	g.Expect(cfg.JWT.UserTokenTTL).To(Equal(30 * 24 * time.Hour))
	g.Expect(cfg.JWT.AdminTokenTTL).To(Equal(8 * time.Hour))
	g.Expect(cfg.Auth.UserPasswordCost).To(Equal(10))
	g.Expect(cfg.Auth.AdminPasswordCost).To(Equal(12))
	g.Expect(cfg.PasswordReset.MobileTokenTTL).To(Equal(time.Hour))
	g.Expect(cfg.PasswordReset.AdminCodeTTL).To(Equal(15 * time.Minute))
	g.Expect(cfg.PasswordReset.CodeHashCost).To(Equal(10))
	g.Expect(cfg.PasswordReset.AdminScanLimit).To(Equal(100))
	g.Expect(cfg.PasswordReset.Retention).To(Equal(7 * 24 * time.Hour))
	g.Expect(cfg.PasswordReset.ExposeSecrets).To(BeFalse())
	g.Expect(cfg.RateLimit.EnabledMobile).To(BeTrue())
	g.Expect(cfg.RateLimit.EnabledAdmin).To(BeTrue())
	g.Expect(cfg.RateLimit.MaxAttempts).To(Equal(3))
	g.Expect(cfg.RateLimit.Window).To(Equal(time.Hour))
	g.Expect(cfg.RateLimit.Lockout).To(Equal(time.Hour))
	g.Expect(cfg.Jobs.CleanupCron).To(Equal("*/15 * * * *"))
	g.Expect(cfg.Jobs.CleanupTimeout).To(Equal(time.Minute))
	g.Expect(cfg.Email.SMTPPort).To(Equal(587))
}

func TestFromViper_Overrides(t *testing.T) {
	g := NewWithT(t)
	setRequiredEnv(t)
	t.Setenv("RESET_MOBILE_TOKEN_TTL", "15m")
	t.Setenv("RATE_LIMIT_MAX_ATTEMPTS", "5")
	t.Setenv("RATE_LIMIT_ENABLED_ADMIN", "false")
	t.Setenv("CLEANUP_CRON", "")
	t.Setenv("APP_ENV", "Development")
	t.Setenv("RESET_EXPOSE_SECRETS", "true")

	cfg, err := FromViper(newViper())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.PasswordReset.MobileTokenTTL).To(Equal(15 * time.Minute))
	g.Expect(cfg.RateLimit.MaxAttempts).To(Equal(5))
	g.Expect(cfg.RateLimit.EnabledAdmin).To(BeFalse())
	g.Expect(cfg.Jobs.CleanupCron).To(BeEmpty())
	g.Expect(cfg.IsDevelopment()).To(BeTrue())
	g.Expect(cfg.PasswordReset.ExposeSecrets).To(BeTrue())
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		message string
	}{
		{name: "missing secret", env: map[string]string{"JWT_SECRET": ""}, message: "JWT_SECRET is required"},
		{name: "missing database url", env: map[string]string{"DATABASE_DRIVER": "postgres"}, message: "DATABASE_URL"},
		{name: "unknown driver", env: map[string]string{"DATABASE_DRIVER": "mongo"}, message: "unsupported DATABASE_DRIVER"},
		{name: "zero ttl", env: map[string]string{"RESET_ADMIN_CODE_TTL": "0s"}, message: "RESET_ADMIN_CODE_TTL must be positive"},
		{name: "weak code hash", env: map[string]string{"RESET_CODE_HASH_COST": "4"}, message: "RESET_CODE_HASH_COST"},
		{name: "exposed secrets in production", env: map[string]string{"RESET_EXPOSE_SECRETS": "true"}, message: "RESET_EXPOSE_SECRETS"},
		{name: "resend without key", env: map[string]string{"EMAIL_PROVIDER": "resend"}, message: "RESEND_API_KEY"},
		{name: "unknown provider", env: map[string]string{"EMAIL_PROVIDER": "pigeon"}, message: "unsupported EMAIL_PROVIDER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			setRequiredEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			_, err := FromViper(newViper())
			g.Expect(err).To(MatchError(ContainSubstring(tt.message)))
		})
	}
}

func TestNewLogger(t *testing.T) {
	g := NewWithT(t)

	logger := NewLogger(LogConfig{Level: "debug", Format: "text"})
	g.Expect(logger.GetLevel()).To(Equal(logrus.DebugLevel))
	g.Expect(logger.Formatter).To(BeAssignableToTypeOf(&logrus.TextFormatter{}))

	logger = NewLogger(LogConfig{Level: "loud", Format: "json"})
	g.Expect(logger.GetLevel()).To(Equal(logrus.InfoLevel))
	g.Expect(logger.Formatter).To(BeAssignableToTypeOf(&logrus.JSONFormatter{}))
}
