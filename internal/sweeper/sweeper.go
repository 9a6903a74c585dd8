// Package sweeper runs the periodic cleanup passes over the OTP and
// rate-limit stores, independent of request traffic.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/southville8b/student-portal/internal/metrics"
)

const (
	otpSchedule       = "@every 5m"
	rateLimitSchedule = "@every 1h"

	// rateLimitMaxAge is how long an identifier may sit idle before its
	// window history is purged.
	rateLimitMaxAge = 24 * time.Hour

	sweepTimeout = 30 * time.Second
)

// otpStore is the slice of otp.Store the sweeper needs.
type otpStore interface {
	Sweep(ctx context.Context) (int, error)
}

// rateLimiter is the slice of ratelimit.Limiter the sweeper needs.
type rateLimiter interface {
	Sweep(maxAge time.Duration) int
}

type Sweeper struct {
	otps    otpStore
	limiter rateLimiter
	logger  *slog.Logger
	cron    *cron.Cron
}

func New(otps otpStore, limiter rateLimiter, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		otps:    otps,
		limiter: limiter,
		logger:  logger.With("component", "sweeper"),
		cron:    cron.New(),
	}
}

func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(otpSchedule, s.sweepOTPs); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(rateLimitSchedule, s.sweepRateLimits); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("sweeper started", "otp_schedule", otpSchedule, "rate_limit_schedule", rateLimitSchedule)
	return nil
}

// Stop halts scheduling; the returned context is done once any running
// sweep has finished.
func (s *Sweeper) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Sweeper) sweepOTPs() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	reclaimed, err := s.otps.Sweep(ctx)
	if err != nil {
		s.logger.Error("otp sweep", "error", err)
		return
	}
	if reclaimed > 0 {
		metrics.SweepReclaimedTotal.WithLabelValues("otp").Add(float64(reclaimed))
		s.logger.Info("otp sweep reclaimed expired codes", "count", reclaimed)
	}
}

func (s *Sweeper) sweepRateLimits() {
	purged := s.limiter.Sweep(rateLimitMaxAge)
	if purged > 0 {
		metrics.SweepReclaimedTotal.WithLabelValues("rate_limit").Add(float64(purged))
		s.logger.Info("rate limit sweep purged idle identifiers", "count", purged)
	}
}
