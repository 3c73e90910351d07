package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cycle outcomes.
const (
	OutcomeSuccess = "success"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Item kinds and results.
const (
	KindJob   = "job"
	KindPhoto = "photo"

	ResultSynced  = "synced"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// SyncMetrics are the orchestrator's Prometheus collectors. A nil
// *SyncMetrics is valid and records nothing.
type SyncMetrics struct {
	cycles         *prometheus.CounterVec
	items          *prometheus.CounterVec
	cycleDuration  prometheus.Histogram
	photosAbandons prometheus.Counter
	queueDepth     prometheus.Gauge
}

func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	factory := promauto.With(reg)
	return &SyncMetrics{
		cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fieldsync_cycles_total",
			Help: "Sync cycles by outcome.",
		}, []string{"outcome"}),
		items: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fieldsync_items_total",
			Help: "Items pushed by kind and result.",
		}, []string{"kind", "result"}),
		cycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fieldsync_cycle_duration_seconds",
			Help:    "Duration of completed sync cycles.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		photosAbandons: factory.NewCounter(prometheus.CounterOpts{
			Name: "fieldsync_photos_abandoned_total",
			Help: "Photos that exhausted their retry budget.",
		}),
		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fieldsync_sync_queue_depth",
			Help: "Sync queue entries read at the start of the last cycle.",
		}),
	}
}

func (m *SyncMetrics) Cycle(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(outcome).Inc()
	if outcome != OutcomeSkipped {
		m.cycleDuration.Observe(elapsed.Seconds())
	}
}

func (m *SyncMetrics) Item(kind, result string) {
	if m == nil {
		return
	}
	m.items.WithLabelValues(kind, result).Inc()
}

func (m *SyncMetrics) PhotoAbandoned() {
	if m == nil {
		return
	}
	m.photosAbandons.Inc()
}

func (m *SyncMetrics) QueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}
