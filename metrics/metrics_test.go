package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetrics_Init(t *testing.T) {
	// Init should not panic when called multiple times
	Init()
	Init()
}

func TestMetrics_Handler(t *testing.T) {
	Init()

	// Vectors only show up once a child exists
	BatchFlushTotal.WithLabelValues("test", "success").Inc()
	BatchFlushRows.WithLabelValues("test").Observe(3)
	BatchFlushLatency.WithLabelValues("test").Observe(0.01)
	BatchFailedEntries.WithLabelValues("test").Add(2)
	BatchBuffered.WithLabelValues("test").Set(5)
	WriterRows.WithLabelValues("events", "ok").Inc()
	WriterReconnects.WithLabelValues("sqlite3").Inc()
	StatementCache.WithLabelValues("hit").Inc()

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	body := w.Body.String()

	expectedMetrics := []string{
		"tqdbkit_batch_flush_total",
		"tqdbkit_batch_flush_rows",
		"tqdbkit_batch_flush_latency_seconds",
		"tqdbkit_batch_failed_entries_total",
		"tqdbkit_batch_buffered_entries",
		"tqdbkit_writer_rows_total",
		"tqdbkit_writer_reconnects_total",
		"tqdbkit_statement_cache_total",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(body, metric) {
			t.Errorf("Expected metric %q not found in response", metric)
		}
	}

	if !strings.Contains(body, `batch="test"`) {
		t.Error("Expected label batch=test in output")
	}
}
