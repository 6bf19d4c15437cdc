package service

import (
	"context"
	"testing"
	"time"

	"github.com/cinelog/cinelog-server/internal/models"
)

func TestSweeper_Sweep(t *testing.T) {
	repo := newMockRepository()
	repo.tokens["expired"] = &models.RefreshToken{
		Token: "expired", AccountID: "acct-1", ExpiresAt: time.Now().Add(-time.Hour)}
	repo.tokens["live"] = &models.RefreshToken{
		Token: "live", AccountID: "acct-1", ExpiresAt: time.Now().Add(time.Hour)}

	sweeper := NewSweeper(repo, time.Hour)
	sweeper.sweep(context.Background())

	if _, ok := repo.tokens["expired"]; ok {
		t.Error("Expected expired token to be removed")
	}
	if _, ok := repo.tokens["live"]; !ok {
		t.Error("Expected live token to remain")
	}
}

func TestSweeper_DefaultInterval(t *testing.T) {
	sweeper := NewSweeper(newMockRepository(), 0)
	if sweeper.interval != time.Hour {
		t.Errorf("Expected default interval of 1h, got %s", sweeper.interval)
	}
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	repo := newMockRepository()
	repo.tokens["expired"] = &models.RefreshToken{
		Token: "expired", AccountID: "acct-1", ExpiresAt: time.Now().Add(-time.Hour)}

	ctx, cancel := context.WithCancel(context.Background())
	sweeper := NewSweeper(repo, time.Hour)

	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Sweeper did not stop after context cancellation")
	}

	// Run sweeps once on startup before waiting for the first tick
	if _, ok := repo.tokens["expired"]; ok {
		t.Error("Expected the startup sweep to remove the expired token")
	}
}
