// Package postgres provides a Postgres-backed layout blob store.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/lib/pq"

	"github.com/AaronLay10/roommap/internal/storage"
)

// Settings holds connection parameters.
type Settings struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

// ConnString renders s as a lib/pq connection string.
func (s Settings) ConnString() string {
	if s.Password != "" {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			s.Host, s.Port, s.User, s.Password, s.Database)
	}
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable",
		s.Host, s.Port, s.User, s.Database)
}

// Client manages the Postgres connection for layout storage.
type Client struct {
	db *sql.DB

	mu        sync.Mutex
	connected bool
}

// New connects to Postgres and creates the layouts table if needed.
func New(ctx context.Context, settings Settings) (*Client, error) {
	db, err := sql.Open("postgres", settings.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	client := &Client{db: db, connected: true}

	if err := client.createTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create map_layouts table: %w", err)
	}

	return client, nil
}

func (c *Client) createTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS map_layouts (
			level_key  TEXT PRIMARY KEY,
			layout     JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	_, err := c.db.ExecContext(ctx, query)
	return err
}

// Get returns the stored layout document for key.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT layout FROM map_layouts WHERE level_key = $1`, key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		c.setConnected(false)
		return nil, err
	}
	c.setConnected(true)
	return data, nil
}

// Put upserts the layout document for key.
func (c *Client) Put(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO map_layouts (level_key, layout, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (level_key) DO UPDATE SET layout = EXCLUDED.layout, updated_at = now()
	`
	if _, err := c.db.ExecContext(ctx, query, key, data); err != nil {
		c.setConnected(false)
		return err
	}
	c.setConnected(true)
	return nil
}

// Connected reports whether the last round trip succeeded.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

// Close closes the database connection.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
