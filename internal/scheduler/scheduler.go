// Package scheduler runs the dashboard's periodic jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// BanSummarySchedule fires just before midnight so the summary covers the day.
const BanSummarySchedule = "59 23 * * *"

const defaultJobTimeout = 2 * time.Minute

// Job is one unit of periodic work. Returned errors are logged, never fatal.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

// cronLogger routes cron's own messages through zerolog.
type cronLogger struct {
	l zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	logger := cronLogger{l: log.With().Str("component", "scheduler").Logger()}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		ctx:     ctx,
		cancel:  cancel,
		timeout: defaultJobTimeout,
	}
}

// Add registers job on a cron schedule. An empty schedule disables the job.
func (s *Scheduler) Add(name, schedule string, job Job) error {
	if schedule == "" {
		log.Info().Str("job", name).Msg("job disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.run(name, job) }); err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, schedule, err)
	}
	log.Info().Str("job", name).Str("schedule", schedule).Msg("job scheduled")
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		log.Error().Err(err).Str("job", name).Dur("took", time.Since(start)).Msg("scheduled job failed")
		return
	}
	log.Debug().Str("job", name).Dur("took", time.Since(start)).Msg("scheduled job finished")
}

// Len reports how many jobs are registered.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}
