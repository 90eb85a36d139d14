// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "floor_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "floor_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	DowntimeEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "floor_downtime_events_total",
			Help: "Downtime lifecycle events by category and resulting status.",
		},
		[]string{"type", "status"},
	)

	QualityUnits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "floor_quality_units_total",
			Help: "Rejected or reworked units logged.",
		},
		[]string{"kind"},
	)

	LiveSubscribers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "floor_live_subscribers",
			Help: "Open WebSocket subscriptions by stream.",
		},
		[]string{"stream"},
	)

	DashboardCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "floor_dashboard_cache_total",
			Help: "Dashboard cache lookups by result (hit or miss).",
		},
		[]string{"result"},
	)

	ImportedRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "floor_imported_rows_total",
			Help: "Rows written by bulk imports by target collection.",
		},
		[]string{"target"},
	)
)
