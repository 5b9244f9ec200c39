package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ticketloft/auth/internal/auth/store"
)

// HousekeepingService periodically prunes revocation-ledger records that can
// no longer matter. A record is prunable once it is older than the maximum
// token lifetime in effect at issuance: every token carrying that jti has
// expired, so verification rejects it before the ledger is ever consulted.
// Pruning therefore never changes an observable outcome.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// MaxTokenLifetime is the longest TTL any token is issued with (the
	// refresh TTL). Records older than this are safe to delete.
	MaxTokenLifetime time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping worker. A non-positive
// interval defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval, maxTokenLifetime time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:            st,
		Logger:           logger,
		Interval:         interval,
		MaxTokenLifetime: maxTokenLifetime,
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
	}
}

// Start launches the background worker. Non-blocking; call Stop to shut it
// down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop shuts the worker down, blocking until any in-progress prune finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Prune once on startup, then on every tick.
	s.prune()

	for {
		select {
		case <-ticker.C:
			s.prune()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) prune() {
	ctx := context.Background()
	cutoff := time.Now().UTC().Add(-s.MaxTokenLifetime)

	if err := s.Store.RevokedTokens().DeleteRevokedBefore(ctx, cutoff); err != nil {
		s.Logger.Error("revoked token prune failed", "err", err)
		return
	}

	s.Logger.Debug("revoked token prune complete", "cutoff", cutoff)
}
