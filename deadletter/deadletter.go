// Package deadletter persists the entries of failed flushes so they can be
// inspected or replayed later. Records are appended to a file as a stream
// of msgpack values.
package deadletter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/mevdschee/tqdbkit/batch"
	"github.com/mevdschee/tqdbkit/logger"
)

// Record is one failed entry.
type Record struct {
	Time  time.Time      `msgpack:"time"`
	Batch string         `msgpack:"batch"`
	Table string         `msgpack:"table"`
	Row   map[string]any `msgpack:"row"`
}

// Entry converts the record back into a batch entry.
func (r Record) Entry() batch.Entry {
	return batch.NewEntry(r.Table, batch.Row(r.Row))
}

// File appends failed entries to a file. It implements batch.FailureHandler.
type File struct {
	batch string
	log   *slog.Logger

	mu   sync.Mutex
	f    *os.File
	w    *bufio.Writer
	enc  *msgpack.Encoder
	now  func() time.Time
	errs int
}

var _ batch.FailureHandler = (*File)(nil)

// Open opens path for appending, creating it if needed. batchName is stored
// in every record.
func Open(path, batchName string) (*File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open dead letter file: %w", err)
	}
	w := bufio.NewWriter(f)
	return &File{
		batch: batchName,
		log:   logger.Log.With("deadletter", path),
		f:     f,
		w:     w,
		enc:   msgpack.NewEncoder(w),
		now:   time.Now,
	}, nil
}

// OnFlushFailure writes entries in order and syncs the file. Write errors
// are logged; the entries are then lost.
func (d *File) OnFlushFailure(entries []batch.Entry) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for _, e := range entries {
		rec := Record{Time: now, Batch: d.batch, Table: e.Table(), Row: e.Row()}
		if err := d.enc.Encode(&rec); err != nil {
			d.errs++
			d.log.Error("failed to write dead letter", "table", e.Table(), "error", err)
			return
		}
	}
	if err := d.w.Flush(); err != nil {
		d.errs++
		d.log.Error("failed to flush dead letters", "error", err)
		return
	}
	if err := d.f.Sync(); err != nil {
		d.log.Warn("failed to sync dead letters", "error", err)
	}
	d.log.Info("entries written to dead letter file", "rows", len(entries))
}

// Errors returns the number of failed writes.
func (d *File) Errors() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.errs
}

// Close flushes and closes the file.
func (d *File) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return errors.Join(d.w.Flush(), d.f.Close())
}

// Read decodes all records from r.
func Read(r io.Reader) ([]Record, error) {
	dec := msgpack.NewDecoder(bufio.NewReader(r))
	// Integers come back as int64 and uint64 instead of the smallest type.
	dec.UseLooseInterfaceDecoding(true)
	var records []Record
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return records, fmt.Errorf("decode dead letter %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
}

// ReadFile decodes all records from the file at path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
