// Package jobs runs periodic background work on cron schedules.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/edvin/retailpos/internal/metrics"
)

const jobTimeout = 2 * time.Minute

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Func is one run of a job.
type Func func(ctx context.Context) error

type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

func NewScheduler(logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(cronParser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger.With().Str("component", "jobs").Logger(),
	}
}

// Add registers fn under name. Runs never overlap; a run still in progress
// when the next tick fires causes that tick to be skipped.
func (s *Scheduler) Add(name, spec string, fn Func) error {
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, fn) }); err != nil {
		return fmt.Errorf("schedule job %s (%q): %w", name, spec, err)
	}
	s.logger.Info().Str("job", name).Str("schedule", spec).Msg("job scheduled")
	return nil
}

func (s *Scheduler) run(name string, fn Func) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	err := s.safeCall(ctx, fn)
	metrics.JobRuns.WithLabelValues(name, metrics.Outcome(err)).Inc()

	if err != nil {
		s.logger.Error().Err(err).Str("job", name).Dur("duration", time.Since(start)).Msg("job failed")
		return
	}
	s.logger.Debug().Str("job", name).Dur("duration", time.Since(start)).Msg("job finished")
}

func (s *Scheduler) safeCall(ctx context.Context, fn Func) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return fn(ctx)
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn().Msg("jobs still running at shutdown")
	}
}
