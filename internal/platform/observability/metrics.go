package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesChecked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "supervisor_messages_checked_total",
		Help: "The total number of messages run through the duplicate detector",
	}, []string{"chat"})

	MessagesFiltered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "supervisor_messages_filtered_total",
		Help: "The total number of messages excluded from comparison by policy",
	}, []string{"reason"})

	DuplicatesDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "supervisor_duplicates_detected_total",
		Help: "The total number of duplicate verdicts",
	}, []string{"chat"})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "supervisor_scan_duration_seconds",
		Help:    "Duration of a full window scan for one message",
		Buckets: prometheus.DefBuckets,
	})

	CandidatesScanned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "supervisor_candidates_scanned",
		Help:    "Number of window candidates compared per message",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})

	WindowSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "supervisor_window_size",
		Help: "Current number of records in the recent-message window",
	}, []string{"chat"})

	MalformedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "supervisor_malformed_records_total",
		Help: "Total number of window records dropped as malformed",
	})

	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "supervisor_cache_errors_total",
		Help: "Total number of key-value store failures",
	}, []string{"op"})

	WarningsPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "supervisor_warnings_posted_total",
		Help: "Total number of duplicate warnings posted",
	})

	WarningsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "supervisor_warnings_deleted_total",
		Help: "Total number of warnings deleted after their countdown expired",
	})

	WarningsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "supervisor_warnings_cancelled_total",
		Help: "Total number of warnings cancelled by an operator override",
	})

	NotificationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "supervisor_notification_errors_total",
		Help: "Total number of failed notification dispatch calls",
	}, []string{"op"})

	CounterIncrements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "supervisor_user_counter_increments_total",
		Help: "Total number of per-user duplicate counter increments",
	})
)
