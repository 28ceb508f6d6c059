package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SetupRuns is the total number of setup runs by outcome.
	SetupRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provision_setup_runs_total",
			Help: "Total number of setup runs",
		},
		[]string{"outcome"},
	)

	// SetupDuration is the duration of setup runs.
	SetupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "provision_setup_duration_seconds",
			Help:    "Duration of setup runs",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		},
	)

	// ProvisionItemFailures is the total number of tolerated item failures during setup.
	ProvisionItemFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provision_item_failures_total",
			Help: "Total number of tolerated item failures during setup",
		},
		[]string{"phase", "kind"},
	)

	// TicketsOpened is the total number of ticket channels created.
	TicketsOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_opened_total",
			Help: "Total number of tickets opened",
		},
		[]string{"category"},
	)

	// TicketsClosed is the total number of ticket channels deleted after a close request.
	TicketsClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_closed_total",
			Help: "Total number of tickets closed",
		},
	)

	// VoiceConnects is the total number of voice connect attempts by result.
	VoiceConnects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_connects_total",
			Help: "Total number of voice connect attempts",
		},
		[]string{"result"},
	)
)
