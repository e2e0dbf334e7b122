package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"streamlist/internal/storage"
)

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron         *cron.Cron
	store        *storage.BoltStore
	schedule     string
	snapshotFile string
	logger       *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(store *storage.BoltStore, schedule, snapshotFile string, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		store:        store,
		schedule:     schedule,
		snapshotFile: snapshotFile,
		logger:       logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.runSnapshot()
	})
	if err != nil {
		return fmt.Errorf("failed to add snapshot job: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("schedule", s.schedule).Info("Scheduler started")
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runSnapshot writes a consistent copy of the database. A failed snapshot
// is logged and retried on the next tick, never fatal.
func (s *Scheduler) runSnapshot() {
	s.logger.Debug("Starting database snapshot")

	if err := s.store.Snapshot(s.snapshotFile); err != nil {
		s.logger.WithError(err).Error("Database snapshot failed")
		return
	}

	s.logger.WithField("file", s.snapshotFile).Info("Database snapshot completed")
}
