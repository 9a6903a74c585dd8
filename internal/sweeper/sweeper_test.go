package sweeper

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

type fakeOTPStore struct {
	sweeps    int
	reclaimed int
}

func (f *fakeOTPStore) Sweep(_ context.Context) (int, error) {
	f.sweeps++
	return f.reclaimed, nil
}

type fakeLimiter struct {
	maxAge time.Duration
	purged int
}

func (f *fakeLimiter) Sweep(maxAge time.Duration) int {
	f.maxAge = maxAge
	return f.purged
}

func TestSweepOTPs_CallsStore(t *testing.T) {
	store := &fakeOTPStore{reclaimed: 3}
	s := New(store, &fakeLimiter{}, slog.Default())

	s.sweepOTPs()

	if store.sweeps != 1 {
		t.Errorf("store swept %d times, want 1", store.sweeps)
	}
}

func TestSweepRateLimits_Uses24HourCutoff(t *testing.T) {
	limiter := &fakeLimiter{purged: 2}
	s := New(&fakeOTPStore{}, limiter, slog.Default())

	s.sweepRateLimits()

	if limiter.maxAge != 24*time.Hour {
		t.Errorf("maxAge = %s, want 24h", limiter.maxAge)
	}
}

func TestStartStop(t *testing.T) {
	s := New(&fakeOTPStore{}, &fakeLimiter{}, slog.Default())

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("stop did not complete")
	}
}
