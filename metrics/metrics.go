package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BatchFlushTotal counts flush attempts by batch and result (empty, success, failure)
	BatchFlushTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tqdbkit_batch_flush_total",
			Help: "Total number of batch flush attempts",
		},
		[]string{"batch", "result"},
	)

	// BatchFlushRows tracks the number of entries per non-empty flush
	BatchFlushRows = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tqdbkit_batch_flush_rows",
			Help:    "Number of entries submitted per flush",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"batch"},
	)

	// BatchFlushLatency tracks the duration of non-empty flushes
	BatchFlushLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tqdbkit_batch_flush_latency_seconds",
			Help:    "Flush latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"batch"},
	)

	// BatchFailedEntries counts entries handed to the failure handler
	BatchFailedEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tqdbkit_batch_failed_entries_total",
			Help: "Total number of entries from failed flushes",
		},
		[]string{"batch"},
	)

	// BatchBuffered reports the entries currently waiting in a batch buffer
	BatchBuffered = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tqdbkit_batch_buffered_entries",
			Help: "Entries buffered and not yet flushed",
		},
		[]string{"batch"},
	)

	// WriterRows counts rows written by the SQL writer by table and result
	WriterRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tqdbkit_writer_rows_total",
			Help: "Total number of rows submitted by the writer",
		},
		[]string{"table", "result"},
	)

	// WriterReconnects counts connections re-opened before a transaction
	WriterReconnects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tqdbkit_writer_reconnects_total",
			Help: "Total number of reconnects performed by the writer",
		},
		[]string{"driver"},
	)

	// StatementCache counts rendered statement cache lookups by result (hit, miss)
	StatementCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tqdbkit_statement_cache_total",
			Help: "Rendered statement cache lookups",
		},
		[]string{"result"},
	)

	once sync.Once
)

// Init registers all metrics with Prometheus
func Init() {
	once.Do(func() {
		prometheus.MustRegister(BatchFlushTotal)
		prometheus.MustRegister(BatchFlushRows)
		prometheus.MustRegister(BatchFlushLatency)
		prometheus.MustRegister(BatchFailedEntries)
		prometheus.MustRegister(BatchBuffered)
		prometheus.MustRegister(WriterRows)
		prometheus.MustRegister(WriterReconnects)
		prometheus.MustRegister(StatementCache)
	})
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
