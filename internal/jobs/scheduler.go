package jobs

import (
	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

type Scheduler struct {
	scheduler gocron.Scheduler
	logger    logrus.FieldLogger
	runner    *runner
}

func NewScheduler(logger logrus.FieldLogger) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLogger(&gocronLoggerAdapter{logger: logger}),
	)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		scheduler: scheduler,
		logger:    logger,
		runner:    &runner{logger: logger},
	}, nil
}

func (s *Scheduler) RegisterCronJob(cron string, job Job) error {
	_, err := s.scheduler.NewJob(
		gocron.CronJob(cron, false),
		gocron.NewTask(s.runner.RunJobFunc(job)),
		gocron.WithName(job.name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

func (s *Scheduler) Start() {
	s.logger.WithField("jobs", len(s.scheduler.Jobs())).Info("job scheduler starting")
	s.scheduler.Start()
}

func (s *Scheduler) Shutdown() error {
	s.logger.Info("job scheduler shutting down")
	return s.scheduler.Shutdown()
}

type gocronLoggerAdapter struct {
	logger logrus.FieldLogger
}

func (a *gocronLoggerAdapter) Debug(msg string, args ...any) {
	a.logger.WithFields(argsToFields(args)).Debug(msg)
}

func (a *gocronLoggerAdapter) Info(msg string, args ...any) {
	a.logger.WithFields(argsToFields(args)).Info(msg)
}

func (a *gocronLoggerAdapter) Warn(msg string, args ...any) {
	a.logger.WithFields(argsToFields(args)).Warn(msg)
}

func (a *gocronLoggerAdapter) Error(msg string, args ...any) {
	a.logger.WithFields(argsToFields(args)).Error(msg)
}

// argsToFields turns gocron's alternating key/value arguments into fields.
func argsToFields(args []any) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		fields[key] = args[i+1]
	}
	return fields
}
