package batch

import (
	"context"
	"maps"
	"time"
)

// Row maps column names to values.
type Row map[string]any

// Entry is one row queued for a table. It is immutable: the row is copied
// on construction and on access.
type Entry struct {
	table string
	row   Row
}

// NewEntry creates an entry for table holding a copy of row.
func NewEntry(table string, row Row) Entry {
	return Entry{table: table, row: maps.Clone(row)}
}

// Table returns the entry's table name.
func (e Entry) Table() string { return e.table }

// Row returns a copy of the entry's row data.
func (e Entry) Row() Row { return maps.Clone(e.row) }

// Writer is the transactional store a Batch flushes into.
//
// BeginTransaction must recover a dropped connection before starting the
// transaction. AddRow receives the batch's own copy of the row and must
// not modify or retain it.
type Writer interface {
	BeginTransaction(ctx context.Context) error
	AddRow(ctx context.Context, table string, row Row) error
	FlushPending(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	IsTransactionActive() bool
}

// FailureHandler receives the entries of a flush that could not be
// committed, in insertion order. Each failed entry is delivered exactly
// once; the batch never retries them.
type FailureHandler interface {
	OnFlushFailure(entries []Entry)
}

// FailureHandlerFunc adapts a function to FailureHandler.
type FailureHandlerFunc func(entries []Entry)

func (f FailureHandlerFunc) OnFlushFailure(entries []Entry) { f(entries) }

type noopHandler struct{}

func (noopHandler) OnFlushFailure([]Entry) {}

// State is the lifecycle state of a Batch.
type State int32

const (
	Stopped State = iota
	Running
	Draining
	Destroyed
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// AnonymousName is used when Config.Name is empty.
const AnonymousName = "Anonymous Batch"

// Config holds configuration for a batch
type Config struct {
	Name                 string // Diagnostics only, defaults to AnonymousName
	BatchSize            int    // Entries that trigger a synchronous flush (1000 default)
	BatchTimeoutMs       int    // Max age of buffered entries before a periodic flush (1000ms default)
	MaxAwaitShutdownMs   int    // Max wait for a running trigger on Destroy (5000ms default)
	TriggerGuardMs       int    // Added to the trigger period to stay clear of the timeout boundary (100ms default)
	PropagateFlushErrors bool   // Return flush failures from Add and Destroy as well as reporting them
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BatchSize:          1000,
		BatchTimeoutMs:     1000,
		MaxAwaitShutdownMs: 5000,
		TriggerGuardMs:     100,
	}
}

func (c Config) batchTimeout() time.Duration {
	return time.Duration(c.BatchTimeoutMs) * time.Millisecond
}

func (c Config) maxAwaitShutdown() time.Duration {
	return time.Duration(c.MaxAwaitShutdownMs) * time.Millisecond
}

func (c Config) triggerPeriod() time.Duration {
	return time.Duration(c.BatchTimeoutMs+c.TriggerGuardMs) * time.Millisecond
}
