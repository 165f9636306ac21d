// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tomtom215/joy/internal/logging"
)

// Runner runs a batch of cleanup jobs. *Scheduler satisfies it.
type Runner interface {
	RunAll(ctx context.Context) ([]Result, error)
}

// CronService runs a Runner on a cron schedule. It implements
// suture.Service.
type CronService struct {
	runner   Runner
	schedule string
	timeout  time.Duration
	location *time.Location
	name     string
}

// NewCronService returns a service that calls runner.RunAll on schedule
// (standard five-field cron or a descriptor such as "@daily"). Each run is
// bounded by timeout.
func NewCronService(runner Runner, schedule string, timeout time.Duration, loc *time.Location) (*CronService, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	if loc == nil {
		loc = time.UTC
	}
	return &CronService{
		runner:   runner,
		schedule: schedule,
		timeout:  timeout,
		location: loc,
		name:     "retention-cron",
	}, nil
}

// Serve implements suture.Service. It blocks until ctx is canceled and waits
// for a running cleanup to finish before returning.
func (s *CronService) Serve(ctx context.Context) error {
	logger := logging.WithComponent(s.name)

	c := cron.New(
		cron.WithLocation(s.location),
		cron.WithLogger(cron.PrintfLogger(&logger)),
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(&logger))),
	)
	if _, err := c.AddFunc(s.schedule, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("retention cron start failed: %w", err)
	}

	c.Start()
	logger.Info().Str("schedule", s.schedule).Msg("Retention cron started")

	<-ctx.Done()

	<-c.Stop().Done()
	logger.Info().Msg("Retention cron stopped")
	return ctx.Err()
}

func (s *CronService) run(parent context.Context) {
	ctx, cancel := context.WithTimeout(logging.ContextWithNewCorrelationID(parent), s.timeout)
	defer cancel()

	results, err := s.runner.RunAll(ctx)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Scheduled cleanup finished with errors")
		return
	}
	logging.Ctx(ctx).Info().
		Int("operations", len(results)).
		Int64("deleted", TotalDeleted(results)).
		Msg("Scheduled cleanup finished")
}

// RunNow triggers one run outside the schedule.
func (s *CronService) RunNow(ctx context.Context) {
	s.run(ctx)
}

// String implements fmt.Stringer for suture logging.
func (s *CronService) String() string {
	return s.name
}
