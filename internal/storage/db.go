// Package storage provides the local card catalog, backed by SQLite.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DB wraps the catalog database connection pool.
type DB struct {
	conn *sql.DB
}

// Config holds database settings. Path ":memory:" opens an in-memory
// database, which skips directory creation and migrations.
type Config struct {
	Path string

	// Connection pool limits.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// SQLite pragmas applied through the DSN.
	BusyTimeout time.Duration
	JournalMode string
	Synchronous string

	// AutoMigrate applies pending schema migrations before the pool
	// opens.
	AutoMigrate bool
}

// DefaultConfig returns a Config tuned for the catalog workload: WAL
// journaling, a small pool, and a 5 second busy timeout.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:            path,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		BusyTimeout:     5 * time.Second,
		JournalMode:     "WAL",
		Synchronous:     "NORMAL",
	}
}

// dsn renders the config as a modernc sqlite DSN.
func (c *Config) dsn() string {
	q := url.Values{}
	q.Set("_busy_timeout", strconv.FormatInt(c.BusyTimeout.Milliseconds(), 10))
	q.Set("_journal_mode", c.JournalMode)
	q.Set("_synchronous", c.Synchronous)
	q.Set("_foreign_keys", "on")
	return c.Path + "?" + q.Encode()
}

// Open opens the catalog database, creating its directory and applying
// migrations first when configured to.
func Open(config *Config) (*DB, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}

	inMemory := config.Path == ":memory:"
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		if config.AutoMigrate {
			if err := runMigrations(config.Path); err != nil {
				return nil, fmt.Errorf("migrate database: %w", err)
			}
		}
	}

	conn, err := sql.Open("sqlite", config.dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(config.MaxOpenConns)
	conn.SetMaxIdleConns(config.MaxIdleConns)
	conn.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// runMigrations applies pending migrations on a dedicated connection
// before the pool opens, so schema changes never race reads.
func runMigrations(path string) error {
	mgr, err := NewMigrationManager(path)
	if err != nil {
		return err
	}
	defer func() { _ = mgr.Close() }()
	return mgr.Up()
}

// Close closes the connection pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Conn returns the underlying sql.DB.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping verifies the connection is alive.
func (db *DB) Ping() error {
	return db.conn.Ping()
}
