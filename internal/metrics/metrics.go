package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AttemptsTotal counts executed insert attempts by outcome classification.
	AttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "occload_attempts_total",
			Help: "Total number of batch insert attempts",
		},
		[]string{"classification"},
	)

	// TasksTotal counts tasks by terminal state.
	TasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "occload_tasks_total",
			Help: "Total number of tasks by terminal state",
		},
		[]string{"state"},
	)

	// RowsInserted counts rows written by successful batches.
	RowsInserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "occload_rows_inserted_total",
			Help: "Total number of rows inserted",
		},
	)

	// RetryDelay observes computed backoff delays.
	RetryDelay = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "occload_retry_delay_seconds",
			Help:    "Backoff delay applied before a retry",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)

	// DeadLettersTotal counts records handed to the dead-letter sink.
	DeadLettersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "occload_dead_letters_total",
			Help: "Total number of dead-lettered tasks",
		},
	)

	// InsertLatency observes batch insert round-trip latency.
	InsertLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "occload_insert_latency_seconds",
			Help:    "Batch insert latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
