// Package metrics exposes Prometheus collectors for the refresh pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Refreshes counts refresh runs by outcome: ok, no_location,
	// no_timetable, superseded, error.
	Refreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waktu_refresh_total",
			Help: "Total number of refresh runs",
		},
		[]string{"outcome"},
	)

	// ProviderFetches counts timetable provider HTTP attempts by status.
	ProviderFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waktu_provider_fetch_total",
			Help: "Total number of timetable provider requests",
		},
		[]string{"status"},
	)

	// ProviderFetchDuration tracks provider request latency.
	ProviderFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "waktu_provider_fetch_duration_seconds",
			Help:    "Timetable provider request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	// RemindersPlanned is the size of the most recently committed plan.
	RemindersPlanned = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "waktu_reminders_planned",
			Help: "Number of reminders in the current plan",
		},
	)

	// TravelTransitions counts automatic travel-mode changes.
	TravelTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waktu_travel_transitions_total",
			Help: "Total number of automatic travel mode transitions",
		},
		[]string{"direction"}, // turned_on, turned_off
	)
)
