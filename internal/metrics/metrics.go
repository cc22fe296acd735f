// Package metrics exposes Prometheus collectors for the monitoring pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicksTotal counts playback ticks served.
	TicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voltsentinel_ticks_total",
			Help: "Total number of playback ticks served",
		},
	)

	// AlertsTriggered counts NORMAL to ALERTING transitions.
	AlertsTriggered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voltsentinel_alerts_triggered_total",
			Help: "Total number of threshold excursions detected",
		},
	)

	// NotificationsSent counts successful alert deliveries.
	NotificationsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voltsentinel_notifications_sent_total",
			Help: "Total number of alert notifications delivered",
		},
	)

	// NotificationsFailed counts failed alert deliveries.
	NotificationsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voltsentinel_notifications_failed_total",
			Help: "Total number of alert notification delivery failures",
		},
	)

	// CurrentVoltage tracks the last served voltage value.
	CurrentVoltage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "voltsentinel_current_voltage",
			Help: "Last voltage sample served by the playback source",
		},
	)

	// AlertActive reports whether the detector is in the ALERTING state.
	AlertActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "voltsentinel_alert_active",
			Help: "1 when the detector is in the ALERTING state, 0 otherwise",
		},
	)

	// RequestsTotal counts HTTP requests by endpoint, method and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voltsentinel_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"endpoint", "method", "status"},
	)

	// RequestDuration measures HTTP request latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voltsentinel_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"endpoint", "method"},
	)
)

// SetAlertActive maps the detector's boolean state onto the gauge.
func SetAlertActive(active bool) {
	if active {
		AlertActive.Set(1)
	} else {
		AlertActive.Set(0)
	}
}
