// Package sqlite provides a SQLite-backed layout blob store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/AaronLay10/roommap/internal/storage"
	_ "modernc.org/sqlite"
)

// Store persists layouts in a single SQLite table.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the database at path and creates the layouts table if needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	s := &Store{sqlDB: sqlDB}
	if err := s.createTable(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create layouts table: %w", err)
	}
	return s, nil
}

func (s *Store) createTable() error {
	_, err := s.sqlDB.Exec(`
CREATE TABLE IF NOT EXISTS map_layouts (
    level_key  TEXT PRIMARY KEY,
    layout     BLOB NOT NULL,
    updated_at INTEGER NOT NULL
);`)
	return err
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns the layout blob for key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	var data []byte
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT layout FROM map_layouts WHERE level_key = ?`, key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select layout: %w", err)
	}
	return data, nil
}

// Put upserts the layout blob for key.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO map_layouts (level_key, layout, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(level_key) DO UPDATE SET layout = excluded.layout, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upsert layout: %w", err)
	}
	return nil
}
