package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/abyford453/FleetGuard/internal/tenancy/metrics"
	"github.com/abyford453/FleetGuard/internal/tenancy/store"
)

// SessionSweeper periodically deletes session slots that have been idle for
// longer than IdleTTL, so the sessions table does not grow without bound.
type SessionSweeper struct {
	Store    store.Store
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Interval time.Duration
	IdleTTL  time.Duration
	Now      func() time.Time
}

// NewSessionSweeper creates a sweeper. A non-positive interval defaults to
// 1 hour and a non-positive TTL to 30 days.
func NewSessionSweeper(st store.Store, logger *slog.Logger, m *metrics.Metrics, interval, idleTTL time.Duration) *SessionSweeper {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if idleTTL <= 0 {
		idleTTL = 30 * 24 * time.Hour
	}

	return &SessionSweeper{
		Store:    st,
		Logger:   logger,
		Metrics:  m,
		Interval: interval,
		IdleTTL:  idleTTL,
	}
}

// Run sweeps immediately and then on every tick until ctx is cancelled.
func (s *SessionSweeper) Run(ctx context.Context) error {
	s.Logger.Info("session sweeper started",
		slog.Duration("interval", s.Interval),
		slog.Duration("idle_ttl", s.IdleTTL),
	)
	defer s.Logger.Info("session sweeper stopped")

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Sweep(ctx)

	for {
		select {
		case <-ticker.C:
			s.Sweep(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

// Sweep performs one cleanup pass and returns the number of slots deleted.
// Errors are logged; the next tick retries.
func (s *SessionSweeper) Sweep(ctx context.Context) int64 {
	cutoff := now(s.Now).Add(-s.IdleTTL)

	n, err := s.Store.Sessions().DeleteIdleSessions(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to delete idle sessions", slog.Any("error", err))
		return 0
	}

	s.Metrics.AddSessionsSwept(n)
	s.Logger.Debug("idle sessions deleted",
		slog.Int64("deleted", n),
		slog.Time("cutoff", cutoff),
	)
	return n
}
