package database

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Result describes the outcome of a single Execute call.
type Result struct {
	RowsAffected int64
	LastInsertID int64
}

// Executor runs parameterized statements. It is implemented by both
// *Database and *Tx so repositories work inside and outside transactions.
type Executor interface {
	Execute(query string, params ...any) (Result, error)
	Query(dest any, query string, params ...any) error
}

var (
	_ Executor = (*Database)(nil)
	_ Executor = (*Tx)(nil)
)

type Option func(*Database)

// WithLogLevel sets the gorm SQL logger level.
func WithLogLevel(level logger.LogLevel) Option {
	return func(d *Database) {
		d.logLevel = level
	}
}

// WithLogger replaces the gorm SQL logger. The log level option is ignored
// when a logger is given.
func WithLogger(l logger.Interface) Option {
	return func(d *Database) {
		d.logger = l
	}
}

// ParseLogLevel maps a config value to a gorm log level. Unknown values map to Warn.
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Database owns the single process-wide handle to the embedded store.
//
// The handle is opened lazily on first use and cached until Close. A failed
// open is not cached, so the next call tries again. The pool is limited to
// one connection: connection-level PRAGMAs then apply to every statement,
// and a transaction holds the only connection until it finishes.
type Database struct {
	path     string
	logLevel logger.LogLevel
	logger   logger.Interface

	mu     sync.Mutex
	db     *gorm.DB
	closed bool
}

// NewDatabase creates a manager for the database file at path. Nothing is
// opened until the first statement runs.
func NewDatabase(path string, opts ...Option) *Database {
	d := &Database{
		path:     path,
		logLevel: logger.Warn,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Path returns the database file path.
func (d *Database) Path() string {
	return d.path
}

func (d *Database) conn() (*gorm.DB, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, newError("database is closed", ErrClosed, "", nil)
	}
	if d.db != nil {
		return d.db, nil
	}

	sqlLogger := d.logger
	if sqlLogger == nil {
		sqlLogger = logger.Default.LogMode(d.logLevel)
	}

	db, err := gorm.Open(sqlite.Open(d.path), &gorm.Config{
		Logger: sqlLogger,
	})
	if err != nil {
		return nil, newError(fmt.Sprintf("failed to open database at %s", d.path), err, "", nil)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, newError("failed to access database pool", err, "", nil)
	}
	sqlDB.SetMaxOpenConns(1)

	log.Printf("Database opened at %s", d.path)
	d.db = db
	return d.db, nil
}

// Execute runs one parameterized statement that returns no rows.
func (d *Database) Execute(query string, params ...any) (Result, error) {
	db, err := d.conn()
	if err != nil {
		return Result{}, err
	}
	return execute(db, query, params)
}

// Query runs one parameterized statement and scans the rows into dest,
// which is typically a pointer to a slice. A slice parameter bound to
// "IN ?" expands to one placeholder per element.
func (d *Database) Query(dest any, query string, params ...any) error {
	db, err := d.conn()
	if err != nil {
		return err
	}
	return scan(db, dest, query, params)
}

// Transaction runs work inside a transaction and commits when it returns nil.
// On any failure, in work or in commit, a best-effort rollback is issued and
// the original failure is returned. work must only use tx: the store has a
// single connection, so statements issued through d would block. Nested
// transactions are not supported.
func (d *Database) Transaction(work func(tx *Tx) error) error {
	db, err := d.conn()
	if err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return newError("failed to begin transaction", tx.Error, "", nil)
	}

	defer func() {
		if r := recover(); r != nil {
			rollback(tx, fmt.Errorf("panic: %v", r))
			panic(r)
		}
	}()

	if err := work(&Tx{db: tx}); err != nil {
		rollback(tx, err)
		return asError("transaction failed", err)
	}

	if err := tx.Commit().Error; err != nil {
		rollback(tx, err)
		return newError("failed to commit transaction", err, "", nil)
	}
	return nil
}

// rollback swallows its own failure but logs it separately from the cause.
func rollback(tx *gorm.DB, cause error) {
	log.Printf("Transaction aborted: %v", cause)
	if err := tx.Rollback().Error; err != nil {
		log.Printf("Transaction rollback failed: %v", err)
	}
}

// Ping verifies the store can be reached, opening it if needed.
func (d *Database) Ping() error {
	db, err := d.conn()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return newError("failed to access database pool", err, "", nil)
	}
	if err := sqlDB.Ping(); err != nil {
		return newError("database ping failed", err, "", nil)
	}
	return nil
}

// Close releases the handle. Later calls fail with ErrClosed.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	if d.db == nil {
		return nil
	}

	sqlDB, err := d.db.DB()
	d.db = nil
	if err != nil {
		return newError("failed to access database pool", err, "", nil)
	}
	if err := sqlDB.Close(); err != nil {
		return newError("failed to close database", err, "", nil)
	}
	return nil
}

// Tx is an open transaction. It is only valid inside Database.Transaction.
type Tx struct {
	db *gorm.DB
}

func (t *Tx) Execute(query string, params ...any) (Result, error) {
	return execute(t.db, query, params)
}

func (t *Tx) Query(dest any, query string, params ...any) error {
	return scan(t.db, dest, query, params)
}

func execute(db *gorm.DB, query string, params []any) (Result, error) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}

	// Raw ExecContext keeps LastInsertId, which gorm's Exec drops, so the
	// statement is traced through gorm's logger here.
	begin := time.Now()
	res, err := db.Statement.ConnPool.ExecContext(ctx, query, params...)

	var result Result
	if err == nil {
		if n, rowsErr := res.RowsAffected(); rowsErr == nil {
			result.RowsAffected = n
		}
		if id, idErr := res.LastInsertId(); idErr == nil {
			result.LastInsertID = id
		}
	}
	db.Logger.Trace(ctx, begin, func() (string, int64) {
		return db.Dialector.Explain(query, params...), result.RowsAffected
	}, err)

	if err != nil {
		return Result{}, newError("statement failed", err, query, params)
	}
	return result, nil
}

func scan(db *gorm.DB, dest any, query string, params []any) error {
	if err := db.Raw(query, params...).Scan(dest).Error; err != nil {
		return newError("query failed", err, query, params)
	}
	return nil
}
