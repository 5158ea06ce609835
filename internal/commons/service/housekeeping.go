package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/commonsapp/commons/internal/commons/store"
)

// HousekeepingService periodically clears stale pending two-factor
// enrollments: a user who scanned a QR code but never confirmed a code would
// otherwise keep an encrypted secret around forever.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// PendingTTL is how long an unconfirmed enrollment may sit before its
	// pending secret is swept.
	PendingTTL time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the sweeper. Interval defaults to 1 hour,
// PendingTTL to 24 hours.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval, pendingTTL time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if pendingTTL <= 0 {
		pendingTTL = 24 * time.Hour
	}

	return &HousekeepingService{
		Store:      store,
		Logger:     logger,
		Interval:   interval,
		PendingTTL: pendingTTL,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started",
		"interval", s.Interval, "pending_ttl", s.PendingTTL)
}

// Stop shuts the worker down, waiting for any in-progress sweep.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Sweep immediately on startup
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep clears pending secrets older than PendingTTL.
func (s *HousekeepingService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-s.PendingTTL)
	swept, err := s.Store.Users().DeleteStalePendingTOTP(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to sweep stale pending enrollments", slog.Any("error", err))
		return
	}
	if swept > 0 {
		s.Logger.Info("swept stale pending enrollments", slog.Int64("count", swept))
	}
}
