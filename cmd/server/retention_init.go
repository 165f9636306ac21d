// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package main

import (
	"github.com/tomtom215/joy/internal/config"
	"github.com/tomtom215/joy/internal/database"
	"github.com/tomtom215/joy/internal/logging"
	"github.com/tomtom215/joy/internal/retention"
)

// cronTrigger is recorded as triggered_by on scheduled cleanups.
const cronTrigger = "scheduler"

// retentionJobs lists every scheduled purge with its window.
func retentionJobs(cfg config.AuditConfig, engine *retention.Engine, db *database.DB) []retention.Job {
	return []retention.Job{
		{Operation: retention.NewAuditLogs(engine, cronTrigger), Days: cfg.RetentionDays},
		{Operation: retention.NewExpiredMagicLinks(db), Days: cfg.MagicLinkRetentionDays},
		{Operation: retention.NewFailedSyncs(db), Days: cfg.SyncFailureRetentionDays},
	}
}

func initRetentionCron(cfg config.AuditConfig, engine *retention.Engine, db *database.DB) (*retention.CronService, error) {
	scheduler := retention.NewScheduler(retentionJobs(cfg, engine, db)...)
	svc, err := retention.NewCronService(scheduler, cfg.CleanupSchedule, cfg.CleanupTimeout, cfg.Location())
	if err != nil {
		return nil, err
	}
	logging.Info().
		Str("schedule", cfg.CleanupSchedule).
		Int("retention_days", cfg.RetentionDays).
		Int("jobs", len(scheduler.Jobs())).
		Msg("Retention cron configured")
	return svc, nil
}
