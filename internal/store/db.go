// Package store provides SQLite storage for disciplineos records.
package store

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record addressed by ID does not exist.
var ErrNotFound = errors.New("record not found")

// DB wraps a sql.DB connection to the disciplineos SQLite database.
type DB struct {
	conn *sql.DB
	log  *zap.Logger
}

// Option configures a DB.
type Option func(*DB)

// WithLogger sets the logger used for migration and write diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(db *DB) {
		if l != nil {
			db.log = l
		}
	}
}

// Open opens or creates the SQLite database at the given path.
// It creates the parent directory if it does not exist.
func Open(dbPath string, opts ...Option) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	// busy_timeout applies to every pooled connection via the DSN.
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return open(conn, opts)
}

// OpenInMemory opens an in-memory SQLite database, useful for testing.
func OpenInMemory(opts ...Option) (*DB, error) {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}

	// Every pooled connection to :memory: is a separate database.
	conn.SetMaxOpenConns(1)

	return open(conn, opts)
}

func open(conn *sql.DB, opts []Option) (*DB, error) {
	db := &DB{conn: conn, log: zap.NewNop()}
	for _, o := range opts {
		o(db)
	}

	if err := db.Migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB for advanced queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// affected maps a zero-row update or delete to ErrNotFound.
func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
