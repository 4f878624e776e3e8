package sqlitestorage

import (
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/nlouis56/convivio-web/credentials"
	"github.com/pkg/errors"
)

var _ credentials.Storage = (*SQLiteStorage)(nil)

// SQLiteStorage persists the key-value storage area in a single sqlite table.
type SQLiteStorage struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath.
func New(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	return newStorage(db)
}

// NewInMemory returns a storage that disappears with the process.
func NewInMemory() (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory SQLite database: %w", err)
	}
	// Each connection to :memory: is its own database
	db.SetMaxOpenConns(1)

	return newStorage(db)
}

func newStorage(db *sql.DB) (*SQLiteStorage, error) {
	s := &SQLiteStorage{db: db}
	if err := s.CreateTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// CreateTables creates the key-value table if it does not exist
func (s *SQLiteStorage) CreateTables() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create kv table: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "failed to read key %q", key)
	}
	return value, true, nil
}

func (s *SQLiteStorage) SetAll(entries map[string]string) error {
	return s.inTx(func(tx *sql.Tx) error {
		for k, v := range entries {
			if _, err := tx.Exec(
				`INSERT INTO kv (key, value) VALUES (?, ?)
				 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, k, v); err != nil {
				return errors.Wrapf(err, "failed to write key %q", k)
			}
		}
		return nil
	})
}

func (s *SQLiteStorage) Delete(keys ...string) error {
	return s.inTx(func(tx *sql.Tx) error {
		for _, k := range keys {
			if _, err := tx.Exec(`DELETE FROM kv WHERE key = ?`, k); err != nil {
				return errors.Wrapf(err, "failed to delete key %q", k)
			}
		}
		return nil
	})
}

func (s *SQLiteStorage) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}
