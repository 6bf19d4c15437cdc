package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/cinelog/cinelog-server/internal/repository"
)

// Sweeper deletes expired refresh token rows in the background. Expired
// tokens are already unusable, refresh checks expiry before touching the
// store, so sweeping only reclaims space.
type Sweeper struct {
	repo     repository.Repository
	interval time.Duration
}

func NewSweeper(repo repository.Repository, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{repo: repo, interval: interval}
}

// Run sweeps once immediately and then on every tick until ctx is
// cancelled. Meant to be launched as a goroutine from main.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("refresh token sweeper started", slog.Duration("interval", s.interval))

	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh token sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	removed, err := s.repo.DeleteExpiredTokens(ctx)
	if err != nil {
		slog.Warn("refresh token sweep failed", slog.String("error", err.Error()))
		return
	}
	if removed > 0 {
		slog.Info("swept expired refresh tokens", slog.Int64("removed", removed))
	}
}
