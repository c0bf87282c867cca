package storage

import (
	"context"
	"fmt"

	"github.com/rolotools/rolo/internal/storage/postgres"
	"github.com/rolotools/rolo/internal/storage/sqlite"
	"github.com/rolotools/rolo/internal/types"
)

// Storage defines the interface for contact storage backends
type Storage interface {
	// Contacts
	CreateContact(ctx context.Context, contact *types.Contact) error
	GetContact(ctx context.Context, id string) (*types.Contact, error)
	UpdateContact(ctx context.Context, contact *types.Contact) error
	DeleteContact(ctx context.Context, id string) error
	ListContacts(ctx context.Context, filter types.ContactFilter) ([]*types.Contact, error)
	SearchContacts(ctx context.Context, query string, filter types.ContactFilter) ([]*types.Contact, error)
	CountContacts(ctx context.Context) (int, error)

	// Config
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error

	// Lifecycle
	Close() error
}

// Backend selects the storage implementation
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Config holds database configuration
type Config struct {
	// Backend selects sqlite (default) or postgres
	Backend Backend

	// Path is the SQLite database file path
	// Default: ".rolo/rolo.db"
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string

	// PostgresDSN is the connection string for the postgres backend
	PostgresDSN string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendSQLite,
		Path:    ".rolo/rolo.db",
	}
}

// NewStorage creates a storage backend from config
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	switch cfg.Backend {
	case BackendPostgres:
		return postgres.New(ctx, cfg.PostgresDSN)
	case BackendSQLite, "":
		path := cfg.Path
		if path == "" {
			path = ".rolo/rolo.db"
		}
		return sqlite.New(path)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
