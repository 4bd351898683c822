package db

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// DB is the conversation store. All access goes through a single
// connection guarded by mutex.
type DB struct {
	db    *sql.DB
	mutex sync.Mutex
}

// NewDB opens the SQLite database at dbPath
func NewDB(dbPath string) (*DB, error) {
	// WAL, foreign keys (needed for cascades) and a busy timeout
	dsn := dbPath + "?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbPath, err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", dbPath, err)
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	log.Printf("[DB] Opened database path=%s", dbPath)

	return &DB{db: sqlDB}, nil
}

// WithLock executes a function with exclusive database access
func (d *DB) WithLock(fn func() error) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return fn()
}

// WithLockResult executes a function with exclusive database access and returns a result
func WithLockResult[T any](d *DB, fn func() (T, error)) (T, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return fn()
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// tableExists checks if a table exists in the database
func (d *DB) tableExists(tableName string) (bool, error) {
	return WithLockResult(d, func() (bool, error) {
		var count int
		err := d.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?",
			tableName,
		).Scan(&count)
		if err != nil {
			return false, err
		}
		return count > 0, nil
	})
}
