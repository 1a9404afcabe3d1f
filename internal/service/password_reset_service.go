package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonbook/internal/entity"
	"salonbook/internal/repository"
	"salonbook/internal/utils"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

type RequestResetInput struct {
	Email        string
	IdentityType entity.IdentityType
	IPAddress    *string
	UserAgent    *string
}

// RequestResetResult is identical whether or not the identity exists,
// unless ExposeSecrets is enabled.
type RequestResetResult struct {
	ExpiresIn time.Duration
	Secret    string
}

type ConfirmResetInput struct {
	Secret       string
	NewPassword  string
	IdentityType entity.IdentityType
	IPAddress    *string
}

type PasswordResetService struct {
	tokens     *ResetTokenManager
	limiter    *RateLimiter
	identities map[entity.IdentityType]IdentityBinding
	email      EmailSender
	audit      securityLogger
	logger     logrus.FieldLogger
	config     PasswordResetConfig
}

func NewPasswordResetService(
	tokens *ResetTokenManager,
	limiter *RateLimiter,
	identities map[entity.IdentityType]IdentityBinding,
	emailSender EmailSender,
	securityLogs repository.SecurityLogRepository,
	logger logrus.FieldLogger,
	config PasswordResetConfig,
) *PasswordResetService {
	return &PasswordResetService{
		tokens:     tokens,
		limiter:    limiter,
		identities: identities,
		email:      emailSender,
		audit:      securityLogger{logs: securityLogs, logger: logger},
		logger:     logger,
		config:     config,
	}
}

func (s *PasswordResetService) RequestReset(ctx context.Context, input RequestResetInput) (*RequestResetResult, error) {
	binding, ok := s.identities[input.IdentityType]
	if !ok {
		return nil, ErrInvalidInput
	}
	email := utils.NormalizeEmail(input.Email)
	if !utils.ValidEmail(email) {
		return nil, ErrInvalidInput
	}
	log := s.logger.WithFields(logrus.Fields{"identity_type": input.IdentityType, "email_hash": emailRef(email)})

	if s.limiter != nil && s.config.rateLimited(input.IdentityType) {
		decision, err := s.limiter.CheckAndIncrement(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("check rate limit: %w", err)
		}
		if !decision.Allowed {
			log.Info("password reset request rate limited")
			s.audit.record(ctx, nil, input.IdentityType, email, input.IPAddress, entity.RateLimited, map[string]any{
				"attempts": decision.Attempts,
			})
			rateErr := &RateLimitedError{
				MinutesLeft:  decision.MinutesLeft(s.limiter.clock.Now()),
				AttemptsUsed: decision.Attempts,
				MaxAttempts:  decision.MaxAttempts,
			}
			if decision.LockedUntil != nil {
				rateErr.LockedUntil = *decision.LockedUntil
			}
			return nil, rateErr
		}
	}

	result := &RequestResetResult{ExpiresIn: s.config.ttlFor(input.IdentityType)}

	identity, err := binding.Store.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find identity: %w", err)
	}
	if identity == nil {
		log.Info("password reset requested for unknown identity")
		return result, nil
	}

	issued, err := s.tokens.Issue(ctx, email, input.IdentityType, input.IPAddress, input.UserAgent)
	if err != nil {
		return nil, err
	}

	if err := s.send(ctx, issued, log); err != nil {
		log.WithError(err).Error("failed to send password reset email")
		s.audit.record(ctx, &identity.ID, input.IdentityType, email, input.IPAddress, entity.PasswordResetFailed, map[string]any{
			"reason": "email_delivery",
		})
		return nil, ErrEmailDeliveryFailed
	}

	s.audit.record(ctx, &identity.ID, input.IdentityType, email, input.IPAddress, entity.PasswordResetRequested, nil)
	log.Info("password reset credential issued")

	if s.config.ExposeSecrets {
		result.Secret = issued.Secret
	}
	return result, nil
}

func (s *PasswordResetService) send(ctx context.Context, issued *IssuedCredential, log logrus.FieldLogger) error {
	if s.email == nil {
		log.Warn("email sender not configured, password reset email skipped")
		return nil
	}
	template := TemplateMobilePasswordReset
	if issued.Record.IdentityType == entity.IdentityAdmin {
		template = TemplateAdminPasswordReset
	}
	return s.email.Send(ctx, EmailMessage{
		To:        issued.Record.Email,
		Template:  template,
		Secret:    issued.Secret,
		ExpiresAt: issued.Record.ExpiresAt,
		ExpiresIn: s.config.ttlFor(issued.Record.IdentityType),
	})
}

func (s *PasswordResetService) ConfirmReset(ctx context.Context, input ConfirmResetInput) error {
	binding, ok := s.identities[input.IdentityType]
	if !ok || strings.TrimSpace(input.Secret) == "" {
		return ErrInvalidInput
	}
	if err := checkPasswordLength(input.NewPassword, s.config.minPasswordLength()); err != nil {
		return err
	}

	record, err := s.tokens.Validate(ctx, input.Secret, input.IdentityType)
	if err != nil {
		if errors.Is(err, ErrInvalidCredential) || errors.Is(err, ErrCredentialExpired) {
			s.logger.WithError(err).WithField("identity_type", input.IdentityType).Info("password reset rejected")
			s.audit.record(ctx, nil, input.IdentityType, "", input.IPAddress, entity.PasswordResetFailed, map[string]any{
				"reason": err.Error(),
			})
		}
		return err
	}
	log := s.logger.WithFields(logrus.Fields{"identity_type": input.IdentityType, "email_hash": emailRef(record.Email)})

	identity, err := binding.Store.FindByEmail(ctx, record.Email)
	if err != nil {
		return fmt.Errorf("find identity: %w", err)
	}
	if identity == nil {
		log.Warn("identity removed after password reset was requested")
		return ErrIdentityNotFound
	}

	hash, err := binding.Hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	if err := binding.Store.UpdatePasswordHash(ctx, identity.ID, hash); err != nil {
		return err
	}

	if err := s.tokens.MarkUsed(ctx, record); err != nil {
		return fmt.Errorf("mark reset credential used: %w", err)
	}

	if s.limiter != nil && s.config.rateLimited(input.IdentityType) {
		if err := s.limiter.Reset(ctx, record.Email); err != nil {
			log.WithError(err).Warn("failed to reset rate limit")
		}
	}

	s.audit.record(ctx, &identity.ID, input.IdentityType, record.Email, input.IPAddress, entity.PasswordResetCompleted, nil)
	log.Info("password reset completed")
	return nil
}

// ValidateCredential reports the email a secret was issued for.
func (s *PasswordResetService) ValidateCredential(ctx context.Context, secret string, identityType entity.IdentityType) (string, error) {
	if _, ok := s.identities[identityType]; !ok {
		return "", ErrInvalidInput
	}
	record, err := s.tokens.Validate(ctx, secret, identityType)
	if err != nil {
		return "", err
	}
	return record.Email, nil
}

type CleanupResult struct {
	Expired           int64
	Purged            int64
	RateLimitsRemoved int64
}

// Cleanup runs the housekeeping sweep: expire stale credentials, purge old
// inactive ones and drop idle rate limit records. Every step runs even when
// an earlier one fails.
func (s *PasswordResetService) Cleanup(ctx context.Context) (CleanupResult, error) {
	var (
		result CleanupResult
		errs   error
		err    error
	)
	if result.Expired, err = s.tokens.ExpireStale(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("expire stale resets: %w", err))
	}
	if result.Purged, err = s.tokens.Purge(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("purge resets: %w", err))
	}
	if s.limiter != nil {
		if result.RateLimitsRemoved, err = s.limiter.Cleanup(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("cleanup rate limits: %w", err))
		}
	}
	return result, errs
}

func (s *PasswordResetService) Stats(ctx context.Context) (*ResetStats, error) {
	return s.tokens.Stats(ctx)
}

func (s *PasswordResetService) RateLimitStatus(ctx context.Context, email string) (RateLimitStatus, error) {
	if s.limiter == nil {
		return RateLimitStatus{Identifier: utils.NormalizeEmail(email)}, nil
	}
	return s.limiter.Status(ctx, email)
}

// emailRef is a short non-reversible reference to an email for logs.
func emailRef(email string) string {
	return utils.HashToken(email)[:12]
}
