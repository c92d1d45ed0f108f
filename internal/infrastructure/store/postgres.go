package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresKV implements KV on a single key/value table.
type PostgresKV struct {
	db *sql.DB
}

// NewPostgresKV ensures the backing table exists.
func NewPostgresKV(db *sql.DB) (*PostgresKV, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS storefront_state (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return nil, fmt.Errorf("failed to create storefront_state table: %w", err)
	}
	return &PostgresKV{db: db}, nil
}

func (p *PostgresKV) Get(key string) (string, bool, error) {
	var value string
	err := p.db.QueryRow(
		"SELECT value FROM storefront_state WHERE key = $1", key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (p *PostgresKV) Set(key, value string) error {
	_, err := p.db.Exec(`
		INSERT INTO storefront_state (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = now()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// ConnectPostgres establishes a connection to PostgreSQL
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
