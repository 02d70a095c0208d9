// Package store persists completed research runs to SQLite so past evidence
// reports stay queryable.
package store

import (
	"crypto/sha256"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DefaultDBName is the store's file name.
const DefaultDBName = "evidence.db"

// Store wraps the SQLite handle.
type Store struct {
	*sql.DB
	path string
}

// Open opens or creates the store at the given path and ensures the schema
// exists.
func Open(dbPath string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{DB: sqlDB, path: dbPath}
	if err := s.ensureSchemaExists(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) ensureSchemaExists() error {
	var tableName string
	err := s.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='runs'").Scan(&tableName)
	if err == sql.ErrNoRows {
		return s.initSchema()
	}
	if err != nil {
		return fmt.Errorf("failed to check schema: %w", err)
	}
	return nil
}

func (s *Store) initSchema() error {
	_, err := s.Exec(schema)
	return err
}

// contentHash fingerprints report content for change detection.
func contentHash(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
