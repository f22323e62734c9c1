// Package metrics registers the Prometheus collectors exported by the bot.
// Every method is safe on a nil receiver so callers may run without metrics.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wishbot"

// HandlerMetrics tracks update handling on the Telegram side.
type HandlerMetrics struct {
	handled      *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	rateLimited  prometheus.Counter
	sendFailures *prometheus.CounterVec
}

// NewHandlerMetrics registers the handler collectors on reg.
func NewHandlerMetrics(reg prometheus.Registerer) *HandlerMetrics {
	if reg == nil {
		return &HandlerMetrics{}
	}
	handled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updates_handled_total",
		Help:      "Updates handled, by handler and outcome.",
	}, []string{"handler", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "handler_duration_seconds",
		Help:      "Handler latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"handler"})
	rateLimited := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updates_rate_limited_total",
		Help:      "Updates dropped by the per-user rate limiter.",
	})
	sendFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "send_failures_total",
		Help:      "Outbound Telegram calls that failed after retries, by error kind.",
	}, []string{"kind"})
	reg.MustRegister(handled, duration, rateLimited, sendFailures)
	return &HandlerMetrics{
		handled:      handled,
		duration:     duration,
		rateLimited:  rateLimited,
		sendFailures: sendFailures,
	}
}

// ObserveHandled records one handled update.
func (m *HandlerMetrics) ObserveHandled(handler, outcome string, took time.Duration) {
	if m == nil || m.handled == nil {
		return
	}
	handler = normalizeLabel(handler)
	m.handled.WithLabelValues(handler, normalizeLabel(outcome)).Inc()
	m.duration.WithLabelValues(handler).Observe(took.Seconds())
}

// IncRateLimited counts a dropped update.
func (m *HandlerMetrics) IncRateLimited() {
	if m == nil || m.rateLimited == nil {
		return
	}
	m.rateLimited.Inc()
}

// IncSendFailure counts a failed outbound call.
func (m *HandlerMetrics) IncSendFailure(kind string) {
	if m == nil || m.sendFailures == nil {
		return
	}
	m.sendFailures.WithLabelValues(normalizeLabel(kind)).Inc()
}

// WishlistMetrics counts wishlist service operations.
type WishlistMetrics struct {
	ops *prometheus.CounterVec
}

// NewWishlistMetrics registers wishlist_operations_total on reg.
func NewWishlistMetrics(reg prometheus.Registerer) *WishlistMetrics {
	if reg == nil {
		return &WishlistMetrics{}
	}
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wishlist_operations_total",
		Help: "Wishlist service operations, by operation and outcome.",
	}, []string{"op", "outcome"})
	reg.MustRegister(ops)
	return &WishlistMetrics{ops: ops}
}

// Inc counts op with the given outcome label.
func (m *WishlistMetrics) Inc(op, outcome string) {
	if m == nil || m.ops == nil {
		return
	}
	m.ops.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}
