// Package writer implements batch.Writer on database/sql. INSERT
// statements are rendered by a translator and cached per table and column
// set.
package writer

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/mevdschee/tqdbkit/batch"
	"github.com/mevdschee/tqdbkit/cache"
	"github.com/mevdschee/tqdbkit/expr"
	"github.com/mevdschee/tqdbkit/logger"
	"github.com/mevdschee/tqdbkit/metrics"
	"github.com/mevdschee/tqdbkit/translator"
)

var _ batch.Writer = (*SQLWriter)(nil)

// Opener opens a connection pool. sql.Open is used by default.
type Opener func(driver, dsn string) (*sql.DB, error)

// Option configures a SQLWriter.
type Option func(*SQLWriter)

// WithCache shares a statement cache between writers.
func WithCache(c *cache.Cache) Option {
	return func(w *SQLWriter) {
		if c != nil {
			w.cache = c
		}
	}
}

// WithOpener replaces sql.Open for reconnects.
func WithOpener(open Opener) Option {
	return func(w *SQLWriter) {
		if open != nil {
			w.open = open
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *SQLWriter) {
		if l != nil {
			w.log = l
		}
	}
}

type queuedRow struct {
	table string
	query string
	args  []any
}

// SQLWriter writes rows in a single transaction at a time.
type SQLWriter struct {
	driver string
	dsn    string
	tr     *translator.Translator
	cache  *cache.Cache
	open   Opener
	log    *slog.Logger

	mu      sync.Mutex
	db      *sql.DB
	tx      *sql.Tx
	pending []queuedRow
}

// Open opens a pool for driver and dsn and returns a writer on it.
func Open(driver, dsn string, tr *translator.Translator, opts ...Option) (*SQLWriter, error) {
	w := newWriter(driver, dsn, tr, opts)
	db, err := w.open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	w.db = db
	return w, nil
}

// New returns a writer on an existing pool. driver and dsn are used to
// re-open the pool when the connection is lost; with an empty dsn the
// writer never reconnects.
func New(db *sql.DB, driver, dsn string, tr *translator.Translator, opts ...Option) *SQLWriter {
	w := newWriter(driver, dsn, tr, opts)
	w.db = db
	return w
}

func newWriter(driver, dsn string, tr *translator.Translator, opts []Option) *SQLWriter {
	w := &SQLWriter{
		driver: driver,
		dsn:    dsn,
		tr:     tr,
		open:   sql.Open,
		log:    logger.Log,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.cache == nil {
		// DefaultSize never fails to build.
		w.cache, _ = cache.New(cache.DefaultSize)
	}
	w.log = w.log.With("driver", driver)
	return w
}

// DB returns the current connection pool.
func (w *SQLWriter) DB() *sql.DB {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.db
}

// BeginTransaction starts a transaction, re-opening the pool first when it
// no longer answers a ping.
func (w *SQLWriter) BeginTransaction(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.tx != nil {
		return ErrTransactionActive
	}
	if err := w.db.PingContext(ctx); err != nil {
		if err := w.reconnect(ctx, err); err != nil {
			return &StoreError{Op: "begin", Err: err}
		}
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return &StoreError{Op: "begin", Err: err}
	}
	w.tx = tx
	w.pending = w.pending[:0]
	return nil
}

func (w *SQLWriter) reconnect(ctx context.Context, cause error) error {
	if w.dsn == "" {
		return cause
	}
	w.log.Warn("connection lost, reconnecting", "error", cause)

	if err := w.db.Close(); err != nil {
		w.log.Debug("closing stale pool", "error", err)
	}
	db, err := w.open(w.driver, w.dsn)
	if err != nil {
		return fmt.Errorf("reconnect: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("reconnect: %w", err)
	}
	w.db = db
	metrics.WriterReconnects.WithLabelValues(w.driver).Inc()
	return nil
}

// AddRow renders the INSERT statement for row and queues it. Nothing is
// sent to the database until FlushPending.
func (w *SQLWriter) AddRow(ctx context.Context, table string, row batch.Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.tx == nil {
		return &StoreError{Op: "insert", Table: table, Err: ErrNoTransaction}
	}
	if table == "" || len(row) == 0 {
		return &StoreError{Op: "insert", Table: table, Err: ErrInvalidRow}
	}

	columns := make([]string, 0, len(row))
	for col := range row {
		columns = append(columns, col)
	}
	slices.Sort(columns)

	args := make([]any, len(columns))
	for i, col := range columns {
		args[i] = row[col]
	}

	key := w.tr.Dialect() + "|" + table + "|" + strings.Join(columns, ",")
	query := w.cache.GetOrRender(key, func() string {
		return w.insert(table, columns)
	})

	w.pending = append(w.pending, queuedRow{table: table, query: query, args: args})
	return nil
}

// insert renders INSERT INTO table (columns) VALUES (placeholders).
func (w *SQLWriter) insert(table string, columns []string) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(w.tr.Translate(tableName(table)))
	sb.WriteString(" (")
	for i, col := range columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(w.tr.Translate(expr.Col(col)))
	}
	sb.WriteString(") VALUES (")
	for i := range columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(w.tr.Placeholder(i + 1))
	}
	sb.WriteString(")")
	return sb.String()
}

// tableName splits an optional schema prefix.
func tableName(table string) *expr.Name {
	if schema, name, ok := strings.Cut(table, "."); ok {
		return expr.Qualified(schema, name)
	}
	return expr.Table(table)
}

// FlushPending executes the queued rows in order. Each distinct statement
// is prepared once. The queue is empty afterwards, also on failure.
func (w *SQLWriter) FlushPending(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.tx == nil {
		return &StoreError{Op: "flush", Err: ErrNoTransaction}
	}
	rows := w.pending
	w.pending = nil

	stmts := make(map[string]*sql.Stmt)
	defer func() {
		for _, stmt := range stmts {
			stmt.Close()
		}
	}()

	for i, r := range rows {
		stmt, ok := stmts[r.query]
		if !ok {
			var err error
			stmt, err = w.tx.PrepareContext(ctx, r.query)
			if err != nil {
				metrics.WriterRows.WithLabelValues(r.table, "failure").Add(float64(len(rows) - i))
				return &StoreError{Op: "prepare", Table: r.table, Err: err}
			}
			stmts[r.query] = stmt
		}
		if _, err := stmt.ExecContext(ctx, r.args...); err != nil {
			metrics.WriterRows.WithLabelValues(r.table, "failure").Add(float64(len(rows) - i))
			return &StoreError{Op: "insert", Table: r.table, Err: err}
		}
		metrics.WriterRows.WithLabelValues(r.table, "success").Inc()
	}
	return nil
}

// Commit commits the transaction. The transaction is finished afterwards
// whether or not the commit succeeded.
func (w *SQLWriter) Commit(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.tx == nil {
		return &StoreError{Op: "commit", Err: ErrNoTransaction}
	}
	tx := w.tx
	w.tx = nil
	w.pending = nil
	if err := tx.Commit(); err != nil {
		return &StoreError{Op: "commit", Err: err}
	}
	return nil
}

// Rollback aborts the transaction and drops queued rows.
func (w *SQLWriter) Rollback(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.tx == nil {
		return &StoreError{Op: "rollback", Err: ErrNoTransaction}
	}
	tx := w.tx
	w.tx = nil
	w.pending = nil
	if err := tx.Rollback(); err != nil {
		return &StoreError{Op: "rollback", Err: err}
	}
	return nil
}

// IsTransactionActive reports whether a transaction is open.
func (w *SQLWriter) IsTransactionActive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tx != nil
}

// Close rolls back an open transaction and closes the pool.
func (w *SQLWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.tx != nil {
		w.tx.Rollback()
		w.tx = nil
	}
	return w.db.Close()
}
