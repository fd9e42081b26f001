package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/store"
)

// HousekeepingService periodically deletes expired session records so the
// sessions table does not grow without bound.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop() to shut it
// down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the worker, blocking until any in-progress cleanup has
// finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) cleanup() {
	ctx := context.Background()

	if err := s.Store.Sessions().DeleteExpiredSessions(ctx); err != nil {
		s.Logger.Error("failed to delete expired sessions", "error", err)
		return
	}
	s.Logger.Debug("deleted expired sessions")
}
