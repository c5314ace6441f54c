package database

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrClosed is returned for any call made after Close.
	ErrClosed = errors.New("database is closed")

	// ErrSchemaTooNew means the file was migrated by a newer build.
	ErrSchemaTooNew = errors.New("database schema is newer than supported")
)

// Error is the only error kind that leaves this package. It carries a
// human-readable message, the statement and parameters that failed when
// there was one, and the underlying engine error.
type Error struct {
	Message string
	SQL     string
	Params  []any
	// Code is the sqlite3 extended result code, or 0 when the cause did not
	// come from the engine.
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConstraint reports whether the engine rejected the statement because
// of a constraint (UNIQUE, NOT NULL, ...).
func (e *Error) IsConstraint() bool {
	return e.Code&0xff == int(sqlite3.ErrConstraint)
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr, true
	}
	return nil, false
}

func newError(message string, err error, query string, params []any) *Error {
	e := &Error{
		Message: message,
		SQL:     query,
		Params:  params,
		Err:     err,
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		e.Code = int(sqliteErr.ExtendedCode)
	}
	return e
}

// asError keeps an existing *Error untouched and wraps anything else.
func asError(message string, err error) error {
	if _, ok := AsError(err); ok {
		return err
	}
	return newError(message, err, "", nil)
}
