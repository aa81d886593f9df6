package writer

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

var (
	// ErrNoTransaction is returned when a row or commit arrives outside a transaction
	ErrNoTransaction = errors.New("no active transaction")

	// ErrTransactionActive is returned when a transaction is begun twice
	ErrTransactionActive = errors.New("transaction already active")

	// ErrInvalidRow is returned for rows without a table or columns
	ErrInvalidRow = errors.New("invalid row")
)

// Kind classifies a store failure.
type Kind int

const (
	// KindOther covers malformed SQL, type errors and unknown driver errors.
	KindOther Kind = iota
	// KindTransient is a lost or refused connection.
	KindTransient
	// KindConstraint is a rejected row: unique, foreign key, not null, check.
	KindConstraint
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindConstraint:
		return "constraint"
	default:
		return "other"
	}
}

// StoreError is returned by the writer when the database rejects an
// operation.
type StoreError struct {
	Op    string // begin, insert, prepare, commit, rollback
	Table string
	Err   error
}

func (e *StoreError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Kind classifies the underlying driver error.
func (e *StoreError) Kind() Kind { return Classify(e.Err) }

// Classify inspects driver errors of lib/pq and go-sql-driver/mysql.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return KindTransient
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "57":
			return KindTransient
		case "23":
			return KindConstraint
		}
		return KindOther
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if myErr.SQLState[0] == '2' && myErr.SQLState[1] == '3' {
			return KindConstraint
		}
		switch myErr.Number {
		case 1040, 1053, 2002, 2006, 2013:
			return KindTransient
		}
	}
	return KindOther
}
