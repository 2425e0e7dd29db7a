package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feedback store metrics
var (
	// FeedbackAppendsTotal counts records appended since process start
	FeedbackAppendsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedback_appends_total",
			Help: "Total feedback records appended",
		},
	)

	// FeedbackClearsTotal counts full-collection resets
	FeedbackClearsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedback_clears_total",
			Help: "Total feedback collection clears",
		},
	)

	// FeedbackRecords tracks the current size of the in-memory collection
	FeedbackRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feedback_records",
			Help: "Current number of feedback records held in memory",
		},
	)

	// StorageErrorsTotal counts durable storage failures by operation (read/write/delete)
	StorageErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_storage_errors_total",
			Help: "Durable storage failures by operation",
		},
		[]string{"operation"},
	)

	// RehydrationsTotal counts startup loads by outcome (loaded/empty/corrupt/unavailable)
	RehydrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_rehydrations_total",
			Help: "Collection rehydrations from durable storage by outcome",
		},
		[]string{"outcome"},
	)
)

// Notification metrics
var (
	// NotificationsTotal counts observer notifications by event and status
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_notifications_total",
			Help: "Observer notifications by event type and status",
		},
		[]string{"event", "status"},
	)
)
