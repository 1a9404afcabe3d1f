package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	JWT           JWTConfig
	Auth          AuthConfig
	Email         EmailConfig
	PasswordReset PasswordResetConfig
	RateLimit     RateLimitConfig
	Jobs          JobsConfig
	Log           LogConfig
}

type ServerConfig struct {
	Addr          string
	Environment   string
	CookieDomain  string
	SecureCookies bool
}

type DatabaseConfig struct {
	Driver      string
	URL         string
	AutoMigrate bool
}

type JWTConfig struct {
	Secret        string
	Issuer        string
	UserTokenTTL  time.Duration
	AdminTokenTTL time.Duration
}

type AuthConfig struct {
	UserPasswordCost  int
	AdminPasswordCost int
}

type EmailConfig struct {
	Provider     string
	From         string
	AppName      string
	ResendAPIKey string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
}

type PasswordResetConfig struct {
	MobileTokenTTL    time.Duration
	AdminCodeTTL      time.Duration
	CodeHashCost      int
	AdminScanLimit    int
	Retention         time.Duration
	MinPasswordLength int
	ExposeSecrets     bool
}

type RateLimitConfig struct {
	EnabledMobile bool
	EnabledAdmin  bool
	MaxAttempts   int
	Window        time.Duration
	Lockout       time.Duration
}

type JobsConfig struct {
	CleanupCron    string
	CleanupTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var defaults = map[string]any{
	"HTTP_ADDR":                 ":8080",
	"APP_ENV":                   "production",
	"COOKIE_SECURE":             true,
	"DATABASE_DRIVER":           DriverPostgres,
	"DATABASE_AUTO_MIGRATE":     true,
	"JWT_ISSUER":                "salonbook",
	"USER_TOKEN_TTL":            "720h",
	"ADMIN_TOKEN_TTL":           "8h",
	"USER_PASSWORD_COST":        10,
	"ADMIN_PASSWORD_COST":       12,
	"EMAIL_PROVIDER":            "",
	"EMAIL_APP_NAME":            "Salon Booking App",
	"SMTP_PORT":                 587,
	"RESET_MOBILE_TOKEN_TTL":    "60m",
	"RESET_ADMIN_CODE_TTL":      "15m",
	"RESET_CODE_HASH_COST":      10,
	"RESET_ADMIN_SCAN_LIMIT":    100,
	"RESET_RETENTION":           "168h",
	"RESET_MIN_PASSWORD_LENGTH": 6,
	"RESET_EXPOSE_SECRETS":      false,
	"RATE_LIMIT_ENABLED_MOBILE": true,
	"RATE_LIMIT_ENABLED_ADMIN":  true,
	"RATE_LIMIT_MAX_ATTEMPTS":   3,
	"RATE_LIMIT_WINDOW":         "1h",
	"RATE_LIMIT_LOCKOUT":        "1h",
	"CLEANUP_CRON":              "*/15 * * * *",
	"CLEANUP_TIMEOUT":           "1m",
	"LOG_LEVEL":                 "info",
	"LOG_FORMAT":                "json",
}

// Load reads .env into the process environment when present and builds the
// configuration from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logrus.Warn(".env file not found, using environment only")
		} else {
			logrus.WithError(err).Warn("failed to load .env file")
		}
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

func FromViper(v *viper.Viper) (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Addr:          v.GetString("HTTP_ADDR"),
			Environment:   strings.ToLower(v.GetString("APP_ENV")),
			CookieDomain:  v.GetString("COOKIE_DOMAIN"),
			SecureCookies: v.GetBool("COOKIE_SECURE"),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(v.GetString("DATABASE_DRIVER")),
			URL:         v.GetString("DATABASE_URL"),
			AutoMigrate: v.GetBool("DATABASE_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			Issuer:        v.GetString("JWT_ISSUER"),
			UserTokenTTL:  v.GetDuration("USER_TOKEN_TTL"),
			AdminTokenTTL: v.GetDuration("ADMIN_TOKEN_TTL"),
		},
		Auth: AuthConfig{
			UserPasswordCost:  v.GetInt("USER_PASSWORD_COST"),
			AdminPasswordCost: v.GetInt("ADMIN_PASSWORD_COST"),
		},
		Email: EmailConfig{
			Provider:     strings.ToLower(v.GetString("EMAIL_PROVIDER")),
			From:         v.GetString("EMAIL_FROM"),
			AppName:      v.GetString("EMAIL_APP_NAME"),
			ResendAPIKey: v.GetString("RESEND_API_KEY"),
			SMTPHost:     v.GetString("SMTP_HOST"),
			SMTPPort:     v.GetInt("SMTP_PORT"),
			SMTPUser:     v.GetString("SMTP_USER"),
			SMTPPassword: v.GetString("SMTP_PASSWORD"),
		},
		PasswordReset: PasswordResetConfig{
			MobileTokenTTL:    v.GetDuration("RESET_MOBILE_TOKEN_TTL"),
			AdminCodeTTL:      v.GetDuration("RESET_ADMIN_CODE_TTL"),
			CodeHashCost:      v.GetInt("RESET_CODE_HASH_COST"),
			AdminScanLimit:    v.GetInt("RESET_ADMIN_SCAN_LIMIT"),
			Retention:         v.GetDuration("RESET_RETENTION"),
			MinPasswordLength: v.GetInt("RESET_MIN_PASSWORD_LENGTH"),
			ExposeSecrets:     v.GetBool("RESET_EXPOSE_SECRETS"),
		},
		RateLimit: RateLimitConfig{
			EnabledMobile: v.GetBool("RATE_LIMIT_ENABLED_MOBILE"),
			EnabledAdmin:  v.GetBool("RATE_LIMIT_ENABLED_ADMIN"),
			MaxAttempts:   v.GetInt("RATE_LIMIT_MAX_ATTEMPTS"),
			Window:        v.GetDuration("RATE_LIMIT_WINDOW"),
			Lockout:       v.GetDuration("RATE_LIMIT_LOCKOUT"),
		},
		Jobs: JobsConfig{
			CleanupCron:    strings.TrimSpace(v.GetString("CLEANUP_CRON")),
			CleanupTimeout: v.GetDuration("CLEANUP_TIMEOUT"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) Validate() error {
	var problems []string
	if c.JWT.Secret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			problems = append(problems, "DATABASE_URL is required for the postgres driver")
		}
	case DriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("unsupported DATABASE_DRIVER %q", c.Database.Driver))
	}

	positive := map[string]time.Duration{
		"USER_TOKEN_TTL":         c.JWT.UserTokenTTL,
		"ADMIN_TOKEN_TTL":        c.JWT.AdminTokenTTL,
		"RESET_MOBILE_TOKEN_TTL": c.PasswordReset.MobileTokenTTL,
		"RESET_ADMIN_CODE_TTL":   c.PasswordReset.AdminCodeTTL,
		"RESET_RETENTION":        c.PasswordReset.Retention,
		"RATE_LIMIT_WINDOW":      c.RateLimit.Window,
		"RATE_LIMIT_LOCKOUT":     c.RateLimit.Lockout,
		"CLEANUP_TIMEOUT":        c.Jobs.CleanupTimeout,
	}
	for _, key := range sortedKeys(positive) {
		if positive[key] <= 0 {
			problems = append(problems, key+" must be positive")
		}
	}
	if c.RateLimit.MaxAttempts < 1 {
		problems = append(problems, "RATE_LIMIT_MAX_ATTEMPTS must be at least 1")
	}
	if c.PasswordReset.AdminScanLimit < 1 {
		problems = append(problems, "RESET_ADMIN_SCAN_LIMIT must be at least 1")
	}
	if !c.IsDevelopment() && c.PasswordReset.CodeHashCost < 10 {
		problems = append(problems, "RESET_CODE_HASH_COST must be at least 10")
	}
	if c.PasswordReset.ExposeSecrets && !c.IsDevelopment() {
		problems = append(problems, "RESET_EXPOSE_SECRETS is only allowed when APP_ENV=development")
	}
	switch c.Email.Provider {
	case "", "log":
	case "resend":
		if c.Email.ResendAPIKey == "" || c.Email.From == "" {
			problems = append(problems, "RESEND_API_KEY and EMAIL_FROM are required for the resend provider")
		}
	case "smtp":
		if c.Email.SMTPHost == "" || c.Email.From == "" {
			problems = append(problems, "SMTP_HOST and EMAIL_FROM are required for the smtp provider")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported EMAIL_PROVIDER %q", c.Email.Provider))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func sortedKeys(m map[string]time.Duration) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
