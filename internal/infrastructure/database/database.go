package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	dirPerm  = 0750
	filePerm = 0600

	// openTimeout bounds the connectivity probe done inside Open.
	openTimeout = 5 * time.Second
)

// Config holds the database section of the YAML configuration.
type Config struct {
	// Path is the SQLite file location. Missing parent directories are
	// created on open.
	Path string

	// WALMode switches the journal to write-ahead logging, which lets
	// readers proceed while the single writer holds the lock.
	WALMode bool

	// BusyTimeout is how long (seconds) a statement waits on a locked
	// database before failing.
	BusyTimeout int
}

// DB is the process-wide SQLite handle. The embedded sql.DB carries the
// usual query methods; repositories receive it directly.
type DB struct {
	*sql.DB
	path string
}

// Open opens (creating if necessary) the SQLite database described by cfg
// and probes it before returning. The pool is pinned to one connection
// since SQLite allows a single writer.
func Open(cfg Config) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), dirPerm); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite3", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("probing database: %w", err)
	}

	// The file may not exist until the first write; tighten permissions
	// opportunistically.
	_ = os.Chmod(cfg.Path, filePerm) //nolint:errcheck

	return &DB{DB: sqlDB, path: cfg.Path}, nil
}

// dsn assembles the go-sqlite3 connection string. Pragmas ride along as
// query parameters, see the driver's README.
func dsn(cfg Config) string {
	q := url.Values{}
	q.Set("_busy_timeout", fmt.Sprintf("%d", cfg.BusyTimeout*1000))
	q.Set("_foreign_keys", "on")
	if cfg.WALMode {
		q.Set("_journal_mode", "WAL")
		q.Set("_synchronous", "NORMAL")
	}
	return fmt.Sprintf("file:%s?%s", cfg.Path, q.Encode())
}

// Path returns the database file location.
func (db *DB) Path() string {
	return db.path
}

// Close shuts the connection pool down. Safe to call on a zero handle.
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// HealthCheck runs a trivial query to confirm the database answers.
func (db *DB) HealthCheck(ctx context.Context) error {
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
