// Package postgres provides a PostgreSQL storage backend for server
// deployments where the contact set is shared between users. It mirrors
// the sqlite backend's behavior exactly; the engine does not care which
// backend produced its records.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage implements the Storage interface using PostgreSQL
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL storage backend with connection pooling
func New(ctx context.Context, dsn string) (*PostgresStorage, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &PostgresStorage{pool: pool}, nil
}

// GetConfig retrieves a config value by key
func (p *PostgresStorage) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := p.pool.QueryRow(ctx, "SELECT value FROM config WHERE key = $1", key).Scan(&value)
	if err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get config %s: %w", key, err)
	}
	return value, nil
}

// SetConfig stores a config value
func (p *PostgresStorage) SetConfig(ctx context.Context, key, value string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO config (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return nil
}

// Close closes the connection pool
func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}
