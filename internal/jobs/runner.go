package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

type runner struct {
	logger logrus.FieldLogger
}

func (r *runner) RunJobFunc(job Job) func(ctx context.Context) {
	return func(ctx context.Context) { r.Run(ctx, job) }
}

func (r *runner) Run(ctx context.Context, job Job) {
	log := r.logger.WithField("job", job.name)

	startedAt := time.Now()
	log.Debug("job started")

	if job.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.timeout)
		defer cancel()
	}

	err := job.Run(ctx)
	elapsed := time.Since(startedAt)
	if err != nil {
		for _, cause := range multierr.Errors(err) {
			log.WithError(cause).WithField("elapsed", elapsed).Warn("job failed")
		}
		return
	}
	log.WithField("elapsed", elapsed).Info("job finished")
}
