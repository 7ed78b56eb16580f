package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingsCreated The total number of bookings persisted (counter)
	BookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tourbook",
			Name:      "bookings_created_total",
			Help:      "The total number of bookings created",
		},
	)

	// BookingsRejected bookings aborted before any write, by reason (counter)
	BookingsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tourbook",
			Name:      "bookings_rejected_total",
			Help:      "The total number of booking requests rejected",
		},
		[]string{"reason"},
	)

	// CodeMintAttempts reservation attempts made while minting booking codes (counter)
	CodeMintAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tourbook",
			Name:      "booking_code_mint_attempts_total",
			Help:      "The total number of booking code reservation attempts",
		},
	)

	// CodeMintFallbacks synthetic codes issued after exhausting mint attempts (counter)
	CodeMintFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tourbook",
			Name:      "booking_code_fallbacks_total",
			Help:      "The total number of synthetic fallback booking codes issued",
		},
	)

	// CheckIns processed passenger scans, first vs repeat (counter)
	CheckIns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tourbook",
			Name:      "checkins_total",
			Help:      "The total number of passenger check-in scans processed",
		},
		[]string{"repeat"},
	)

	// StoreRetries transient store failures that were retried, by operation (counter)
	StoreRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tourbook",
			Name:      "store_retries_total",
			Help:      "The total number of retried transient store failures",
		},
		[]string{"operation"},
	)

	// MessagesProcessed The total number of processed messages (counter)
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processed_total",
			Help:      "The total number of processed messages",
		},
		[]string{"topic", "handler"},
	)

	// MessagesProcessingFailed total number of message processing failures (counter)
	MessagesProcessingFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processing_failed_total",
			Help:      "The total number of message processing failures",
		},
		[]string{"topic", "handler"},
	)

	// MessagesProcessingDuration The total time spent processing messages (summary with quantiles 0.5, 0.9, and 0.99)
	MessagesProcessingDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace:  "messages",
			Name:       "processing_duration_seconds",
			Help:       "The total time spent processing messages",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"topic", "handler"},
	)
)
