// Package batch accumulates row writes and flushes them to a transactional
// Writer when the buffer fills up or its oldest entry gets too old.
//
// Two locks are involved. The buffer mutex guards the buffer, the pending
// slot counter and the last flush time, and is only held while entries are
// appended or the buffer is swapped out; database I/O always happens after
// it is released, so producers keep filling the fresh buffer while a flush
// is in progress. Flushes reach the Writer one at a time and in the order
// their windows were swapped out: each swap takes a ticket chained to the
// previous one. The run mutex serializes the periodic trigger against
// Destroy and is never taken by Add.
//
// A flush swaps the buffer before writing. If the process dies between the
// swap and the commit, that window is lost: delivery is at most once.
// Failed flushes are never retried; their entries go to the FailureHandler.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/mevdschee/tqdbkit/logger"
	"github.com/mevdschee/tqdbkit/metrics"
)

// Batch buffers entries and flushes them to a Writer.
type Batch struct {
	writer  Writer
	config  Config
	handler FailureHandler
	log     *slog.Logger
	now     func() time.Time

	state atomic.Int32

	runMu sync.Mutex // periodic trigger vs Destroy
	sched *cron.Cron

	mu        sync.Mutex
	buffer    []Entry
	pending   int // free slots before a size-triggered flush
	lastFlush time.Time
	closed    bool          // set by the final flush of Destroy
	tail      chan struct{} // closed when the last swapped window is done
}

// window is a swapped out buffer waiting for its turn at the writer.
type window struct {
	entries []Entry
	prev    <-chan struct{} // closed when the preceding window is done
	done    chan struct{}
}

// Option configures a Batch.
type Option func(*Batch)

// WithFailureHandler sets the handler that receives entries of failed flushes.
func WithFailureHandler(h FailureHandler) Option {
	return func(b *Batch) {
		if h != nil {
			b.handler = h
		}
	}
}

// WithLogger sets the logger; by default logger.Log is used.
func WithLogger(l *slog.Logger) Option {
	return func(b *Batch) {
		if l != nil {
			b.log = l
		}
	}
}

// WithClock replaces time.Now for timeout bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(b *Batch) {
		if now != nil {
			b.now = now
		}
	}
}

// New creates a batch in the Stopped state. Call Start to arm the periodic
// flush.
func New(w Writer, config Config, opts ...Option) (*Batch, error) {
	switch {
	case w == nil:
		return nil, fmt.Errorf("%w: nil writer", ErrInvalidConfig)
	case config.BatchSize <= 0:
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidConfig, config.BatchSize)
	case config.BatchTimeoutMs <= 0:
		return nil, fmt.Errorf("%w: batch timeout must be positive, got %dms", ErrInvalidConfig, config.BatchTimeoutMs)
	case config.MaxAwaitShutdownMs < 0:
		return nil, fmt.Errorf("%w: negative shutdown wait %dms", ErrInvalidConfig, config.MaxAwaitShutdownMs)
	case config.TriggerGuardMs < 0:
		return nil, fmt.Errorf("%w: negative trigger guard %dms", ErrInvalidConfig, config.TriggerGuardMs)
	}
	if config.Name == "" {
		config.Name = AnonymousName
	}

	b := &Batch{
		writer:  w,
		config:  config,
		handler: noopHandler{},
		log:     logger.Log,
		now:     time.Now,
		pending: config.BatchSize,
		buffer:  make([]Entry, 0, config.BatchSize),
		tail:    make(chan struct{}),
	}
	close(b.tail)
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.With("batch", config.Name)
	b.lastFlush = b.now()
	return b, nil
}

// Name returns the batch name.
func (b *Batch) Name() string { return b.config.Name }

// State returns the lifecycle state.
func (b *Batch) State() State { return State(b.state.Load()) }

func (b *Batch) setState(s State) { b.state.Store(int32(s)) }

// Pending returns the number of entries that can still be added before a
// size-triggered flush.
func (b *Batch) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}

// Len returns the number of buffered entries.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buffer)
}

// LastFlush returns the start time of the most recent flush attempt.
func (b *Batch) LastFlush() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastFlush
}

// AddRow adds a row for table. See Add.
func (b *Batch) AddRow(ctx context.Context, table string, row Row) error {
	return b.Add(ctx, NewEntry(table, row))
}

// Add appends e to the buffer. When the buffer reaches the batch size the
// flush runs on the caller's goroutine before Add returns. A failed flush
// is reported to the failure handler; Add only returns it when
// PropagateFlushErrors is set.
func (b *Batch) Add(ctx context.Context, e Entry) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBatchDestroyed
	}
	b.buffer = append(b.buffer, e)
	b.pending--

	var w *window
	if b.pending == 0 {
		w = b.swapLocked()
	}
	buffered := len(b.buffer)
	b.mu.Unlock()

	metrics.BatchBuffered.WithLabelValues(b.config.Name).Set(float64(buffered))

	if w == nil {
		return nil
	}
	if err := b.write(ctx, w); err != nil && b.config.PropagateFlushErrors {
		return err
	}
	return nil
}

// Flush writes all buffered entries in one transaction. Flushing an empty
// buffer only resets the timeout clock. On failure the entries go to the
// failure handler and the returned *FlushError wraps the cause.
func (b *Batch) Flush(ctx context.Context) error {
	return b.flush(ctx, false)
}

func (b *Batch) flush(ctx context.Context, final bool) error {
	b.mu.Lock()
	if final {
		b.closed = true
	}
	if b.pending == b.config.BatchSize {
		b.lastFlush = b.now()
		b.mu.Unlock()
		b.log.Debug("batch empty, not flushing")
		metrics.BatchFlushTotal.WithLabelValues(b.config.Name, "empty").Inc()
		return nil
	}
	w := b.swapLocked()
	b.mu.Unlock()

	metrics.BatchBuffered.WithLabelValues(b.config.Name).Set(0)
	return b.write(ctx, w)
}

// swapLocked hands the current buffer to the caller and installs an empty
// one. The batch counts as empty from here on, whatever the flush outcome.
func (b *Batch) swapLocked() *window {
	b.lastFlush = b.now()
	b.pending = b.config.BatchSize
	w := &window{entries: b.buffer, prev: b.tail, done: make(chan struct{})}
	b.tail = w.done
	b.buffer = make([]Entry, 0, b.config.BatchSize)
	return w
}

// write waits for the preceding window, submits w and reports a failure to
// the handler. The wait ignores ctx: a window may not overtake another.
func (b *Batch) write(ctx context.Context, w *window) error {
	defer close(w.done)
	<-w.prev

	entries := w.entries
	flushID := uuid.NewString()
	start := time.Now()
	err := b.submit(ctx, entries)
	elapsed := time.Since(start)

	metrics.BatchFlushRows.WithLabelValues(b.config.Name).Observe(float64(len(entries)))
	metrics.BatchFlushLatency.WithLabelValues(b.config.Name).Observe(elapsed.Seconds())

	if err == nil {
		metrics.BatchFlushTotal.WithLabelValues(b.config.Name, "success").Inc()
		b.log.Debug("batch flushed", "flush", flushID, "rows", len(entries), "took", elapsed)
		return nil
	}

	// The cause may be transient or permanent (a constraint violation fails
	// every time), so the window is handed over rather than retried.
	metrics.BatchFlushTotal.WithLabelValues(b.config.Name, "failure").Inc()
	metrics.BatchFailedEntries.WithLabelValues(b.config.Name).Add(float64(len(entries)))
	b.log.Error("error occurred while flushing", "flush", flushID, "rows", len(entries), "error", err)

	b.handler.OnFlushFailure(entries)
	return &FlushError{Batch: b.config.Name, Entries: len(entries), Err: err}
}

func (b *Batch) submit(ctx context.Context, entries []Entry) error {
	// Begin before the first row so that a connection lost since the last
	// flush is re-established by the writer.
	if err := b.writer.BeginTransaction(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if !b.writer.IsTransactionActive() {
			return
		}
		if rbErr := b.writer.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			b.log.Warn("rollback failed", "error", rbErr)
		}
	}()

	for _, e := range entries {
		if err := b.writer.AddRow(ctx, e.table, e.row); err != nil {
			return fmt.Errorf("add row to %s: %w", e.table, err)
		}
	}
	if err := b.writer.FlushPending(ctx); err != nil {
		return fmt.Errorf("flush pending rows: %w", err)
	}
	if err := b.writer.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
