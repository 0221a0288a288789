// Package metrics is a thin Prometheus-backed facade called from the
// mempool, consensus, and storage packages. A *Recorder is safe to pass as
// nil; every method is then a no-op, so unit tests need no registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder wraps a dedicated prometheus.Registry with the instruments the
// sequencer exposes.
type Recorder struct {
	registry *prometheus.Registry

	txSubmitted      prometheus.Counter
	blocksCommitted  prometheus.Counter
	txsCommitted     prometheus.Counter
	mempoolSize      prometheus.Gauge
	stepDuration     prometheus.Histogram
	storageOpLatency *prometheus.HistogramVec
}

// New creates a Recorder registered on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		txSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tx_submitted",
			Help: "Total transactions accepted into the mempool.",
		}),
		blocksCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blocks_committed",
			Help: "Total blocks committed by the proposer.",
		}),
		txsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "txs_committed",
			Help: "Total transactions included in committed blocks.",
		}),
		mempoolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mempool_size",
			Help: "Current number of pending transactions.",
		}),
		stepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "consensus_step_duration_ms",
			Help:    "Wall time of one consensus Step call, in milliseconds.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 16),
		}),
		storageOpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storage_op_duration_ms",
			Help:    "Wall time of a storage backend operation, in milliseconds.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 16),
		}, []string{"op"}),
	}
	reg.MustRegister(r.txSubmitted, r.blocksCommitted, r.txsCommitted, r.mempoolSize, r.stepDuration, r.storageOpLatency)
	return r
}

// Handler returns the Prometheus text-exposition HTTP handler for this
// Recorder's registry.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "metrics disabled", http.StatusNotFound)
		})
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// IncTxSubmitted increments the tx_submitted counter.
func (r *Recorder) IncTxSubmitted() {
	if r == nil {
		return
	}
	r.txSubmitted.Inc()
}

// IncBlocksCommitted increments the blocks_committed counter.
func (r *Recorder) IncBlocksCommitted() {
	if r == nil {
		return
	}
	r.blocksCommitted.Inc()
}

// IncTxsCommitted adds n to the txs_committed counter.
func (r *Recorder) IncTxsCommitted(n int) {
	if r == nil {
		return
	}
	r.txsCommitted.Add(float64(n))
}

// SetMempoolSize sets the mempool_size gauge.
func (r *Recorder) SetMempoolSize(n int) {
	if r == nil {
		return
	}
	r.mempoolSize.Set(float64(n))
}

// ObserveStepDuration records d against the consensus_step_duration_ms
// histogram.
func (r *Recorder) ObserveStepDuration(d time.Duration) {
	if r == nil {
		return
	}
	r.stepDuration.Observe(float64(d.Microseconds()) / 1000)
}

// ObserveStorageOp records d against storage_op_duration_ms, labeled by op.
func (r *Recorder) ObserveStorageOp(op string, d time.Duration) {
	if r == nil {
		return
	}
	r.storageOpLatency.WithLabelValues(op).Observe(float64(d.Microseconds()) / 1000)
}
