// Package sweeper runs the recurring background cleanups: evicting sessions
// idle past the threshold and deleting coupons past their end date.
package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/couponhub/coupon-marketplace/internal/api/metrics"
	"github.com/couponhub/coupon-marketplace/internal/core/ports"
	"github.com/couponhub/coupon-marketplace/internal/session"
)

const (
	defaultSessionIdleTTL  = 30 * time.Minute
	defaultSessionInterval = time.Minute
	defaultCouponInterval  = time.Hour
)

// Options controls sweep cadence and the session idle threshold. Zero values
// fall back to the defaults above.
type Options struct {
	SessionIdleTTL  time.Duration
	SessionInterval time.Duration
	CouponInterval  time.Duration
}

// Sweeper owns the two independent sweep loops. Both tolerate runs with zero
// eligible entries and stop when the context is cancelled.
type Sweeper struct {
	registry *session.Registry
	coupons  ports.CouponRepository
	opts     Options
	log      zerolog.Logger
}

func New(registry *session.Registry, coupons ports.CouponRepository, opts Options, log zerolog.Logger) *Sweeper {
	if opts.SessionIdleTTL <= 0 {
		opts.SessionIdleTTL = defaultSessionIdleTTL
	}
	if opts.SessionInterval <= 0 {
		opts.SessionInterval = defaultSessionInterval
	}
	if opts.CouponInterval <= 0 {
		opts.CouponInterval = defaultCouponInterval
	}
	return &Sweeper{registry: registry, coupons: coupons, opts: opts, log: log}
}

// Start launches both sweep loops. They run until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx, s.opts.SessionInterval, s.sweepSessions)
	go s.run(ctx, s.opts.CouponInterval, s.sweepCoupons)
}

func (s *Sweeper) run(ctx context.Context, every time.Duration, sweep func(context.Context)) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(ctx)
		}
	}
}

func (s *Sweeper) sweepSessions(context.Context) {
	removed := s.registry.SweepExpired(s.opts.SessionIdleTTL)
	metrics.SessionsActive.Set(float64(s.registry.Len()))
	if removed > 0 {
		metrics.SweepRemovedTotal.WithLabelValues("sessions").Add(float64(removed))
		s.log.Debug().Int("removed", removed).Msg("stale sessions evicted")
	}
}

func (s *Sweeper) sweepCoupons(ctx context.Context) {
	deleted, err := s.coupons.DeleteAllExpired(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error().Err(err).Msg("expired coupon sweep failed")
		return
	}
	if deleted > 0 {
		metrics.SweepRemovedTotal.WithLabelValues("coupons").Add(float64(deleted))
		s.log.Info().Int64("deleted", deleted).Msg("expired coupons removed")
	}
}
