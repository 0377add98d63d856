package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the bot
type Metrics struct {
	// Login flow metrics
	LoginStepsTotal *prometheus.CounterVec
	LoginFailures   *prometheus.CounterVec

	// Cleanup engine metrics
	ScansTotal       prometheus.Counter
	CleanupsTotal    prometheus.Counter
	MessagesDeleted  prometheus.Counter
	DeleteErrors     prometheus.Counter
	FloodWaitsTotal  prometheus.Counter
	ScanDuration     prometheus.Histogram
	CleanupDuration  prometheus.Histogram
	DialogsPerScan   prometheus.Histogram

	// Stalk metrics
	StalksTotal prometheus.Counter

	// Connection pool metrics
	ActiveConnections prometheus.Gauge
	ConnDialsTotal    prometheus.Counter
	ConnDialErrors    prometheus.Counter
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

// NewMetrics creates a new Metrics instance with all counters and gauges
func NewMetrics() *Metrics {
	return &Metrics{
		LoginStepsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shadowclean_login_steps_total",
				Help: "Total number of login steps executed",
			},
			[]string{"step"},
		),
		LoginFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shadowclean_login_failures_total",
				Help: "Total number of failed login steps",
			},
			[]string{"step", "reason"},
		),
		ScansTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shadowclean_scans_total",
			Help: "Total number of dry-run scans completed",
		}),
		CleanupsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shadowclean_cleanups_total",
			Help: "Total number of delete passes completed",
		}),
		MessagesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shadowclean_messages_deleted_total",
			Help: "Total number of messages deleted",
		}),
		DeleteErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shadowclean_delete_errors_total",
			Help: "Total number of failed delete batches",
		}),
		FloodWaitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shadowclean_flood_waits_total",
			Help: "Total number of flood wait pauses honored",
		}),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "shadowclean_scan_duration_seconds",
			Help:    "Duration of dry-run scans",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		CleanupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "shadowclean_cleanup_duration_seconds",
			Help:    "Duration of delete passes",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		DialogsPerScan: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "shadowclean_dialogs_per_scan",
			Help:    "Number of dialogs visited per scan",
			Buckets: prometheus.LinearBuckets(0, 50, 11),
		}),
		StalksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shadowclean_stalks_total",
			Help: "Total number of presence reports built",
		}),
		ActiveConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "shadowclean_active_connections",
			Help: "Current number of live MTProto connections",
		}),
		ConnDialsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shadowclean_conn_dials_total",
			Help: "Total number of MTProto connections built",
		}),
		ConnDialErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shadowclean_conn_dial_errors_total",
			Help: "Total number of failed MTProto connection builds",
		}),
	}
}
