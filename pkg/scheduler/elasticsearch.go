package scheduler

import (
	"context"
	"time"

	"github.com/fadedpez/cardindex/internal/logging"
)

// DefaultReindexInterval is used when no interval is configured
const DefaultReindexInterval = time.Hour

// Reindexer rebuilds a search index from the source of truth
type Reindexer interface {
	Reindex(ctx context.Context) (int, error)
}

// ElasticsearchMaintenanceScheduler periodically re-mirrors decks into Elasticsearch
type ElasticsearchMaintenanceScheduler struct {
	scheduler *Scheduler
	repo      Reindexer
	interval  time.Duration
	logger    *logging.Logger
}

// NewElasticsearchMaintenanceScheduler creates a new scheduler for Elasticsearch maintenance tasks
func NewElasticsearchMaintenanceScheduler(repo Reindexer, interval time.Duration, logger *logging.Logger) *ElasticsearchMaintenanceScheduler {
	if logger == nil {
		logger = logging.Default
	}
	if interval <= 0 {
		interval = DefaultReindexInterval
	}
	return &ElasticsearchMaintenanceScheduler{
		scheduler: NewScheduler(logger),
		repo:      repo,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the reindex task and starts the scheduler
func (s *ElasticsearchMaintenanceScheduler) Start(ctx context.Context) {
	s.scheduler.AddTask("deck_reindex", s.interval, s.reindex)
	s.scheduler.Start(ctx)
	s.logger.Info("Elasticsearch maintenance scheduler started, reindexing every %s", s.interval)
}

// Stop stops the maintenance scheduler
func (s *ElasticsearchMaintenanceScheduler) Stop() {
	s.scheduler.Stop()
}

func (s *ElasticsearchMaintenanceScheduler) reindex(ctx context.Context) error {
	count, err := s.repo.Reindex(ctx)
	if err != nil {
		return err
	}
	s.logger.Debug("Reindexed %d decks", count)
	return nil
}
