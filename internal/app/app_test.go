package app_test

import (
	"context"
	"io"
	"testing"
	"time"

	"salonbook/config"
	"salonbook/internal/app"
	"salonbook/internal/entity"
	"salonbook/internal/service"

	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
		JWT:      config.JWTConfig{Secret: "app-test", Issuer: "salonbook-test"},
		Auth:     config.AuthConfig{UserPasswordCost: 4, AdminPasswordCost: 4},
		Email:    config.EmailConfig{Provider: "log", AppName: "Salon Booking App"},
		PasswordReset: config.PasswordResetConfig{
			MobileTokenTTL:    time.Hour,
			AdminCodeTTL:      15 * time.Minute,
			CodeHashCost:      4,
			MinPasswordLength: 6,
		},
		RateLimit: config.RateLimitConfig{EnabledMobile: true, EnabledAdmin: true, MaxAttempts: 3, Window: time.Hour, Lockout: time.Hour},
	}
}

func TestNew_MemoryDriver(t *testing.T) {
	g := NewWithT(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	container, err := app.New(memoryConfig(), logger)
	g.Expect(err).NotTo(HaveOccurred())
	defer container.Close()

	g.Expect(container.DB).To(BeNil())
	g.Expect(container.Migrate()).To(Succeed())
	g.Expect(container.Email).To(BeAssignableToTypeOf(service.LogEmailSender{}))

	ctx := context.Background()
	_, err = container.Auth.CreateAdmin(ctx, service.CreateAdminInput{Username: "boss", Email: "admin@x.com", Password: "admin-password"})
	g.Expect(err).NotTo(HaveOccurred())

	_, err = container.Resets.RequestReset(ctx, service.RequestResetInput{Email: "admin@x.com", IdentityType: entity.IdentityAdmin})
	g.Expect(err).NotTo(HaveOccurred())

	stats, err := container.Resets.Stats(ctx)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stats.Admin.Active).To(BeEquivalentTo(1))
}

func TestNew_NoEmailProvider(t *testing.T) {
	g := NewWithT(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := memoryConfig()
	cfg.Email.Provider = ""
	container, err := app.New(cfg, logger)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(container.Email).To(BeNil())
}

func TestNew_ResendRequiresKey(t *testing.T) {
	g := NewWithT(t)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := memoryConfig()
	cfg.Email.Provider = "resend"
	_, err := app.New(cfg, logger)
	g.Expect(err).To(HaveOccurred())
}
