// Package metrics bundles the Prometheus collectors for the poller.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles Prometheus collectors for poll cycles and notifications.
type Metrics struct {
	registry           *prometheus.Registry
	pollCycles         prometheus.Counter
	fetchErrors        prometheus.Counter
	transitions        *prometheus.CounterVec
	notificationsSent  prometheus.Counter
	notificationErrors prometheus.Counter
	liveRooms          prometheus.Gauge
}

// New creates a Metrics bundle with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		pollCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blive",
			Name:      "poll_cycles_total",
			Help:      "Total poll cycles completed",
		}),
		fetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blive",
			Name:      "fetch_errors_total",
			Help:      "Room refreshes skipped due to platform fetch errors",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blive",
			Name:      "transitions_total",
			Help:      "Detected live-status transitions",
		}, []string{"to"}),
		notificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blive",
			Name:      "notifications_sent_total",
			Help:      "Notification messages handed to the Telegram API",
		}),
		notificationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blive",
			Name:      "notification_errors_total",
			Help:      "Notification deliveries that failed",
		}),
		liveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "blive",
			Name:      "live_rooms",
			Help:      "Tracked rooms currently live",
		}),
	}

	registry.MustRegister(
		m.pollCycles,
		m.fetchErrors,
		m.transitions,
		m.notificationsSent,
		m.notificationErrors,
		m.liveRooms,
	)

	return m
}

// Handler returns an HTTP handler exposing the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncPollCycles counts a completed poll cycle.
func (m *Metrics) IncPollCycles() {
	if m == nil {
		return
	}
	m.pollCycles.Inc()
}

// IncFetchErrors counts a room skipped due to a fetch error.
func (m *Metrics) IncFetchErrors() {
	if m == nil {
		return
	}
	m.fetchErrors.Inc()
}

// IncTransitions counts a detected transition toward the given status.
func (m *Metrics) IncTransitions(to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(to).Inc()
}

// IncNotificationsSent counts a delivered notification.
func (m *Metrics) IncNotificationsSent() {
	if m == nil {
		return
	}
	m.notificationsSent.Inc()
}

// IncNotificationErrors counts a failed delivery.
func (m *Metrics) IncNotificationErrors() {
	if m == nil {
		return
	}
	m.notificationErrors.Inc()
}

// SetLiveRooms records how many tracked rooms are currently live.
func (m *Metrics) SetLiveRooms(n int) {
	if m == nil {
		return
	}
	m.liveRooms.Set(float64(n))
}
