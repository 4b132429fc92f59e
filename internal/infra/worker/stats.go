// Package worker runs the periodic background jobs of the service.
// Currently that is a single stats job refreshing operational gauges
// from the database on a cron schedule.
package worker

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"newswire/internal/observability/metrics"
	"newswire/internal/repository"
)

// collectTimeout bounds one stats collection run.
const collectTimeout = 30 * time.Second

// StatsCollector periodically refreshes the news count and database
// pool gauges.
type StatsCollector struct {
	repo   repository.NewsRepository
	db     *sql.DB
	logger *slog.Logger
	cron   *cron.Cron
}

// NewStatsCollector creates a collector. A nil logger falls back to
// slog.Default.
func NewStatsCollector(repo repository.NewsRepository, db *sql.DB, logger *slog.Logger) *StatsCollector {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsCollector{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// Start begins collecting on the given cron schedule. It runs one
// collection immediately so gauges are populated right after boot.
func (s *StatsCollector) Start(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, s.collect); err != nil {
		return fmt.Errorf("add stats job: %w", err)
	}
	s.cron = c
	c.Start()

	s.collect()

	s.logger.Info("stats collector started", slog.String("schedule", schedule))
	return nil
}

// Stop stops the cron scheduler and waits for a running collection to
// finish.
func (s *StatsCollector) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *StatsCollector) collect() {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Warn("stats collection failed",
			slog.String("error", err.Error()))
	} else {
		metrics.UpdateNewsTotal(count)
	}

	if s.db != nil {
		stats := s.db.Stats()
		metrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
	}
}
