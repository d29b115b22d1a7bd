package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestUntilNextMinute(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{
			name: "mid minute",
			now:  time.Date(2025, time.March, 10, 12, 0, 30, 0, time.UTC),
			want: 30 * time.Second,
		},
		{
			name: "just after boundary",
			now:  time.Date(2025, time.March, 10, 12, 0, 0, 1, time.UTC),
			want: time.Minute - time.Nanosecond,
		},
		{
			name: "exactly on boundary waits a full minute",
			now:  time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC),
			want: time.Minute,
		},
		{
			name: "last nanosecond of the minute",
			now:  time.Date(2025, time.March, 10, 12, 0, 59, 999999999, time.UTC),
			want: time.Nanosecond,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := untilNextMinute(tc.now)
			if got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
			if got <= 0 {
				t.Fatalf("wait must be positive, got %v", got)
			}
		})
	}
}

type countingScanner struct {
	scans atomic.Int32
}

func (s *countingScanner) Scan(_ context.Context, communityID *uuid.UUID) (int, error) {
	if communityID != nil {
		return 0, nil
	}
	s.scans.Add(1)
	return 0, nil
}

func TestRunStopsOnContextCancel(t *testing.T) {
	scanner := &countingScanner{}
	s := New(scanner)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
