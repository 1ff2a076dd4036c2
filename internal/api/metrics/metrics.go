// Package metrics defines and registers all custom Prometheus metrics for the
// coupon marketplace API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register themselves with the default Prometheus registry via
// promauto; the /metrics endpoint serves that registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "coupon"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Labels:
//   - role: "ADMIN", "COMPANY", "CUSTOMER", or "unknown" for bad login types
//   - result: "ok" or "failed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by role and result.",
	},
	[]string{"role", "result"},
)

// SessionsActive tracks the current number of live sessions in the registry.
var SessionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Current number of live sessions in the registry.",
	},
)

// ── Inventory metrics ─────────────────────────────────────────────────────────

// PurchasesTotal counts purchase attempts.
// Label:
//   - result: "ok", "sold_out", "duplicate", or "error"
var PurchasesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Total number of coupon purchase attempts, by result.",
	},
	[]string{"result"},
)

// ReturnsTotal counts successful coupon returns.
var ReturnsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "returns_total",
		Help:      "Total number of coupon returns.",
	},
)

// PurchaseDuration measures how long a purchase takes end-to-end, including
// the per-coupon lock wait.
var PurchaseDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "purchase_duration_seconds",
		Help:      "Duration of purchase processing from lock acquisition to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Sweeper metrics ───────────────────────────────────────────────────────────

// SweepRemovedTotal counts entries removed by the background sweeps.
// Label:
//   - kind: "sessions" or "coupons"
var SweepRemovedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_removed_total",
		Help:      "Total number of entries removed by the expiry sweeper, by kind.",
	},
	[]string{"kind"},
)
