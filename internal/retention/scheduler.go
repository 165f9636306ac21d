// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package retention

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/joy/internal/logging"
	"github.com/tomtom215/joy/internal/metrics"
)

// Job pairs an operation with its retention window.
type Job struct {
	Operation Operation
	Days      int
}

// Scheduler runs a fixed list of jobs in order.
type Scheduler struct {
	jobs []Job
}

// NewScheduler returns a Scheduler for jobs.
func NewScheduler(jobs ...Job) *Scheduler {
	return &Scheduler{jobs: jobs}
}

// Jobs returns the configured jobs.
func (s *Scheduler) Jobs() []Job {
	return s.jobs
}

// RunAll executes every job and returns one Result per job, in order. A
// failing job does not stop the others; their errors are joined. Once ctx is
// done the remaining jobs are skipped.
func (s *Scheduler) RunAll(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(s.jobs))
	var errs []error

	for _, job := range s.jobs {
		name := job.Operation.Name()
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("%s: skipped: %w", name, err))
			results = append(results, Result{OperationName: name})
			continue
		}

		start := time.Now()
		res, err := job.Operation.Execute(ctx, job.Days)
		duration := time.Since(start)
		metrics.RecordCleanup(name, res.DeletedCount, duration, err)

		if err != nil {
			logging.Ctx(ctx).Error().Err(err).
				Str("operation", name).
				Int("days", job.Days).
				Msg("Cleanup operation failed")
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		} else {
			logging.Ctx(ctx).Info().
				Str("operation", name).
				Int("days", job.Days).
				Int64("deleted", res.DeletedCount).
				Dur("duration", duration).
				Msg("Cleanup operation completed")
		}
		results = append(results, res)
	}

	return results, errors.Join(errs...)
}

// TotalDeleted sums DeletedCount over results.
func TotalDeleted(results []Result) int64 {
	var total int64
	for _, r := range results {
		total += r.DeletedCount
	}
	return total
}
