package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics of the ledger core.
type Metrics struct {
	// Cascade metrics
	RecomputesTotal   *prometheus.CounterVec
	RecomputeDuration prometheus.Histogram
	BoxesCascaded     prometheus.Counter
	LockContention    prometheus.Counter

	// Reconciliation metrics
	EntriesCreated prometheus.Counter
	EntriesDeleted prometheus.Counter
	RowsSkipped    prometheus.Counter

	// Advance metrics
	AdvancesAttached prometheus.Counter
	AdvancesDetached prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RecomputesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbox_recomputes_total",
				Help: "Total number of balance recompute runs by status",
			},
			[]string{"status"},
		),
		RecomputeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashbox_recompute_duration_seconds",
			Help:    "Duration of balance recompute runs",
			Buckets: prometheus.DefBuckets,
		}),
		BoxesCascaded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbox_boxes_cascaded_total",
			Help: "Total number of cash boxes walked by the cascade",
		}),
		LockContention: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbox_employee_lock_contention_total",
			Help: "Total number of operations rejected because the employee lock was held",
		}),

		EntriesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbox_entries_created_total",
			Help: "Total number of ledger entries created by reconciliation",
		}),
		EntriesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbox_entries_deleted_total",
			Help: "Total number of ledger entries deleted by reconciliation",
		}),
		RowsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbox_rows_skipped_total",
			Help: "Total number of submitted rows dropped by validation",
		}),

		AdvancesAttached: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbox_advances_attached_total",
			Help: "Total number of advance attach operations",
		}),
		AdvancesDetached: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cashbox_advances_detached_total",
			Help: "Total number of advance detach operations",
		}),
	}
}
