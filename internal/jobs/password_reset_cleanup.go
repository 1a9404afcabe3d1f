package jobs

import (
	"context"
	"time"

	"salonbook/internal/service"

	"github.com/sirupsen/logrus"
)

const PasswordResetCleanupJobName = "PasswordResetCleanup"

type passwordResetCleaner interface {
	Cleanup(ctx context.Context) (service.CleanupResult, error)
}

func NewPasswordResetCleanupJob(cleaner passwordResetCleaner, logger logrus.FieldLogger, timeout time.Duration) Job {
	return NewJob(PasswordResetCleanupJobName, func(ctx context.Context) error {
		result, err := cleaner.Cleanup(ctx)
		logger.WithFields(logrus.Fields{
			"job":                 PasswordResetCleanupJobName,
			"expired":             result.Expired,
			"purged":              result.Purged,
			"rate_limits_removed": result.RateLimitsRemoved,
		}).Debug("password reset cleanup swept")
		return err
	}, timeout)
}
