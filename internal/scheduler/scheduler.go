package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Scanner is the expiry scan entry point the scheduler drives.
type Scanner interface {
	Scan(ctx context.Context, communityID *uuid.UUID) (int, error)
}

// Scheduler triggers an all-communities expiry scan on every wall-clock
// minute boundary. Ticks are aligned to the minute, not to process start.
type Scheduler struct {
	scanner Scanner
}

func New(scanner Scanner) *Scheduler {
	return &Scheduler{scanner: scanner}
}

// Run blocks until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	timer := time.NewTimer(untilNextMinute(time.Now()))
	defer timer.Stop()

	slog.Info("expiry scheduler started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("expiry scheduler stopping")
			return
		case <-timer.C:
			s.tick(ctx)
			timer.Reset(untilNextMinute(time.Now()))
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	processed, err := s.scanner.Scan(ctx, nil)
	if err != nil {
		slog.Error("scheduled subscription check failed", "error", err)
		return
	}
	if processed > 0 {
		slog.Info("scheduled subscription check completed", "processed", processed)
	}
}

// untilNextMinute returns the wait until the next minute boundary after now.
// Always positive, so a tick landing exactly on a boundary waits a full
// minute for the next one.
func untilNextMinute(now time.Time) time.Duration {
	next := now.Truncate(time.Minute).Add(time.Minute)
	return next.Sub(now)
}
