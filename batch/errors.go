package batch

import (
	"errors"
	"fmt"
)

var (
	// ErrBatchDestroyed is returned when entries are added to a destroyed batch
	ErrBatchDestroyed = errors.New("batch is destroyed")

	// ErrAlreadyStarted is returned when Start is called more than once
	ErrAlreadyStarted = errors.New("batch already started")

	// ErrInvalidConfig is returned by New for unusable configuration
	ErrInvalidConfig = errors.New("invalid batch configuration")
)

// FlushError reports a flush whose entries were handed to the failure
// handler instead of being committed.
type FlushError struct {
	Batch   string
	Entries int
	Err     error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("batch %q: flush of %d entries failed: %v", e.Batch, e.Entries, e.Err)
}

func (e *FlushError) Unwrap() error { return e.Err }
