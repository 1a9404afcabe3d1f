// Package app builds the services of the backend from its configuration.
// It is shared by the HTTP server and the admin CLI.
package app

import (
	"fmt"

	"salonbook/config"
	"salonbook/internal/entity"
	"salonbook/internal/repository"
	"salonbook/internal/repository/memory"
	"salonbook/internal/service"
	"salonbook/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Logger   logrus.FieldLogger
	DB       *gorm.DB
	Repos    repository.Set
	JWT      *utils.JWTManager
	Auth     *service.AuthService
	Resets   *service.PasswordResetService
	Limiter  *service.RateLimiter
	Tokens   *service.ResetTokenManager
	Email    service.EmailSender
	Clock    service.Clock
	closeDBs []func() error
}

func New(cfg *config.Config, logger logrus.FieldLogger) (*App, error) {
	a := &App{Config: cfg, Logger: logger, Clock: service.RealClock{}}

	if err := a.openStore(); err != nil {
		return nil, err
	}
	email, err := newEmailSender(cfg.Email, logger)
	if err != nil {
		return nil, err
	}
	a.Email = email

	a.JWT = &utils.JWTManager{
		Secret:        []byte(cfg.JWT.Secret),
		Issuer:        cfg.JWT.Issuer,
		UserTokenTTL:  cfg.JWT.UserTokenTTL,
		AdminTokenTTL: cfg.JWT.AdminTokenTTL,
	}

	userHasher := service.BcryptPasswordHasher{Cost: cfg.Auth.UserPasswordCost}
	adminHasher := service.BcryptPasswordHasher{Cost: cfg.Auth.AdminPasswordCost}
	codeHasher := service.BcryptPasswordHasher{Cost: cfg.PasswordReset.CodeHashCost}

	resetConfig := service.PasswordResetConfig{
		MobileTokenTTL:    cfg.PasswordReset.MobileTokenTTL,
		AdminCodeTTL:      cfg.PasswordReset.AdminCodeTTL,
		CodeHashCost:      cfg.PasswordReset.CodeHashCost,
		AdminScanLimit:    cfg.PasswordReset.AdminScanLimit,
		RetentionPeriod:   cfg.PasswordReset.Retention,
		MinPasswordLength: cfg.PasswordReset.MinPasswordLength,
		ExposeSecrets:     cfg.PasswordReset.ExposeSecrets,
		RateLimitMobile:   cfg.RateLimit.EnabledMobile,
		RateLimitAdmin:    cfg.RateLimit.EnabledAdmin,
	}

	a.Tokens = service.NewResetTokenManager(a.Repos.PasswordResets, codeHasher, a.Clock, resetConfig)
	a.Limiter = service.NewRateLimiter(a.Repos.RateLimits, a.Clock, service.RateLimitPolicy{
		MaxAttempts: cfg.RateLimit.MaxAttempts,
		Window:      cfg.RateLimit.Window,
		Lockout:     cfg.RateLimit.Lockout,
	})
	a.Resets = service.NewPasswordResetService(
		a.Tokens,
		a.Limiter,
		map[entity.IdentityType]service.IdentityBinding{
			entity.IdentityMobile: {Store: service.UserIdentityStore{Users: a.Repos.Users}, Hasher: userHasher},
			entity.IdentityAdmin:  {Store: service.AdminIdentityStore{Admins: a.Repos.Admins}, Hasher: adminHasher},
		},
		a.Email,
		a.Repos.SecurityLogs,
		logger,
		resetConfig,
	)
	a.Auth = service.NewAuthService(
		a.Repos.Users,
		a.Repos.Admins,
		a.Repos.SecurityLogs,
		userHasher,
		adminHasher,
		a.JWT,
		a.Clock,
		logger,
		service.AuthConfig{
			UserPasswordCost:  cfg.Auth.UserPasswordCost,
			MinPasswordLength: cfg.PasswordReset.MinPasswordLength,
		},
	)
	return a, nil
}

func (a *App) openStore() error {
	if a.Config.Database.Driver == config.DriverMemory {
		a.Logger.Warn("using in-memory store, data is lost on restart")
		a.Repos = memory.NewStore().Set()
		return nil
	}

	db, err := config.ConnectDatabase(a.Config.Database, a.Logger)
	if err != nil {
		return err
	}
	a.DB = db
	if sqlDB, err := db.DB(); err == nil {
		a.closeDBs = append(a.closeDBs, sqlDB.Close)
	}
	if a.Config.Database.AutoMigrate {
		if err := config.Migrate(db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}
	a.Repos = repository.NewSet(db)
	return nil
}

// Migrate applies the schema. It is a no-op for the in-memory store.
func (a *App) Migrate() error {
	if a.DB == nil {
		return nil
	}
	return config.Migrate(a.DB)
}

func (a *App) Close() error {
	for _, closeFn := range a.closeDBs {
		if err := closeFn(); err != nil {
			return err
		}
	}
	return nil
}

func newEmailSender(cfg config.EmailConfig, logger logrus.FieldLogger) (service.EmailSender, error) {
	switch cfg.Provider {
	case "resend":
		return service.NewResendEmailSender(cfg.ResendAPIKey, cfg.From, cfg.AppName)
	case "smtp":
		return service.NewSMTPEmailSender(service.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.From,
			AppName:  cfg.AppName,
		})
	case "log":
		return service.LogEmailSender{Logger: logger, AppName: cfg.AppName}, nil
	}
	logger.Warn("EMAIL_PROVIDER not set, password reset emails will not be sent")
	return nil, nil
}
