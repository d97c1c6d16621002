package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records catalog reconciliation and cache behavior.
type SyncMetrics struct {
	reconcileDuration *prometheus.HistogramVec
	reconcileRuns     *prometheus.CounterVec
	cacheReads        *prometheus.CounterVec
	uploadRetries     prometheus.Counter
}

// NewSyncMetrics registers the sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_reconcile_duration_seconds",
		Help:    "Duration of catalog reconciliation runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_reconcile_runs",
		Help: "Reconciliation runs partitioned by resulting mode.",
	}, []string{"mode"})
	reads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_reads",
		Help: "Cache reads partitioned by mirror hit or backend miss.",
	}, []string{"result"})
	retries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blob_upload_retries",
		Help: "Blob uploads retried after a name collision.",
	})
	reg.MustRegister(duration, runs, reads, retries)
	return &SyncMetrics{
		reconcileDuration: duration,
		reconcileRuns:     runs,
		cacheReads:        reads,
		uploadRetries:     retries,
	}
}

// ObserveReconcile records one reconciliation run and its resulting mode.
func (m *SyncMetrics) ObserveReconcile(mode string, duration time.Duration) {
	if m == nil || m.reconcileDuration == nil {
		return
	}
	label := normalizeLabel(mode)
	m.reconcileDuration.WithLabelValues(label).Observe(duration.Seconds())
	m.reconcileRuns.WithLabelValues(label).Inc()
}

// IncCacheHit counts a read served from the in-memory mirror.
func (m *SyncMetrics) IncCacheHit() {
	if m == nil || m.cacheReads == nil {
		return
	}
	m.cacheReads.WithLabelValues("hit").Inc()
}

// IncCacheMiss counts a read that fell through to the persistent backend.
func (m *SyncMetrics) IncCacheMiss() {
	if m == nil || m.cacheReads == nil {
		return
	}
	m.cacheReads.WithLabelValues("miss").Inc()
}

// IncUploadRetry counts a blob upload retried with a freshly derived name.
func (m *SyncMetrics) IncUploadRetry() {
	if m == nil || m.uploadRetries == nil {
		return
	}
	m.uploadRetries.Inc()
}

func normalizeLabel(mode string) string {
	if mode == "" {
		return "unknown"
	}
	return mode
}
