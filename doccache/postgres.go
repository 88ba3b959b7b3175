package doccache

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// OpenPostgres opens a PostgreSQL-backed document cache from a standard
// connection string.
func OpenPostgres(connStr string, opts ...Option) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(4)

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	store, err := newStore(db, true, postgresDialect{}, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize PostgreSQL cache: %w", err)
	}
	return store, nil
}

// NewPostgresFromDB builds a cache on an existing connection. The caller
// keeps ownership of db and must close it separately.
func NewPostgresFromDB(db *sql.DB, opts ...Option) (*Store, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	store, err := newStore(db, false, postgresDialect{}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL cache: %w", err)
	}
	return store, nil
}
