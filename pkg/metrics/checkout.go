package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout pipeline outcomes.
type CheckoutMetrics struct {
	attempts        *prometheus.CounterVec
	stageFailures   *prometheus.CounterVec
	orderWriteFails prometheus.Counter
	orphanSessions  prometheus.Counter
	duration        prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	stageFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_stage_failures_total",
		Help: "Checkout failures by pipeline stage.",
	}, []string{"stage"})
	orderWriteFails := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_order_write_failures_total",
		Help: "Pending order writes that failed after a session was created.",
	})
	orphanSessions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_orphaned_sessions_total",
		Help: "Provider sessions whose outcome is unknown after a transport failure.",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "End-to-end checkout request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(attempts, stageFailures, orderWriteFails, orphanSessions, duration)
	return &CheckoutMetrics{
		attempts:        attempts,
		stageFailures:   stageFailures,
		orderWriteFails: orderWriteFails,
		orphanSessions:  orphanSessions,
		duration:        duration,
	}
}

// IncAttempt increments the attempt counter for the given outcome.
func (c *CheckoutMetrics) IncAttempt(outcome string) {
	if c == nil || c.attempts == nil {
		return
	}
	c.attempts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncStageFailure increments the failure counter for the named stage.
func (c *CheckoutMetrics) IncStageFailure(stage string) {
	if c == nil || c.stageFailures == nil {
		return
	}
	c.stageFailures.WithLabelValues(normalizeLabel(stage)).Inc()
}

// IncOrderWriteFailure counts a pending order write that failed after the
// session was already created. These are reconciled from provider records.
func (c *CheckoutMetrics) IncOrderWriteFailure() {
	if c == nil || c.orderWriteFails == nil {
		return
	}
	c.orderWriteFails.Inc()
}

// IncOrphanedSession counts a session whose create call failed in transport
// after the provider may have accepted it.
func (c *CheckoutMetrics) IncOrphanedSession() {
	if c == nil || c.orphanSessions == nil {
		return
	}
	c.orphanSessions.Inc()
}

// ObserveDuration records one checkout request duration.
func (c *CheckoutMetrics) ObserveDuration(duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
