package reservation

import (
	"context"
	"log/slog"
	"time"

	"stagepass/internal/ledger"
	"stagepass/internal/pkg/clock"
)

// Sweeper is the background reclamation loop: expired holds go back to
// the available pool and overdue resale listings move to Expired,
// which implicitly makes their tickets listable again.
type Sweeper struct {
	manager  *Manager
	listings ledger.ListingStore
	clock    clock.Clock
	logger   *slog.Logger
	interval time.Duration
}

func NewSweeper(manager *Manager, listings ledger.ListingStore, clk clock.Clock, logger *slog.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Sweeper{
		manager:  manager,
		listings: listings,
		clock:    clk,
		logger:   logger,
		interval: interval,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", "interval", s.interval.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single reclamation pass; exported so tests can
// drive it with a mock clock.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	now := s.clock.Now()

	if released := s.manager.ReleaseExpired(ctx, now); released > 0 {
		s.logger.Info("released expired holds", "count", released)
	}

	expired, err := s.listings.ExpireListingsDue(ctx, now)
	if err != nil {
		s.logger.Error("failed to expire listings", "error", err.Error())
		return
	}
	if len(expired) > 0 {
		s.logger.Info("expired overdue listings", "count", len(expired))
	}
}
