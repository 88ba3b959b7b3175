package doccache

import (
	"database/sql"
	"fmt"
	"sort"
	"sync/atomic"

	_ "modernc.org/sqlite" // SQLite driver
)

// Counter for generating unique in-memory database names.
var inMemoryDBCounter atomic.Uint64

// OpenSQLite opens a SQLite-backed document cache. Pass ":memory:" for
// dbPath to keep the cache in memory.
func OpenSQLite(dbPath string, opts ...Option) (*Store, error) {
	// In-memory databases get a unique shared-cache name so that the pooled
	// connections of one store see the same data without two stores sharing
	// any.
	if dbPath == ":memory:" {
		id := inMemoryDBCounter.Add(1)
		dbPath = fmt.Sprintf("file:doccache_%d?mode=memory&cache=shared", id)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(4)

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	// Sorted for a deterministic execution order.
	keys := make([]string, 0, len(cfg.pragmas))
	for k := range cfg.pragmas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		pragmaSQL := fmt.Sprintf("PRAGMA %s=%s", key, cfg.pragmas[key])
		if _, err := db.Exec(pragmaSQL); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragmaSQL, err)
		}
	}

	store, err := newStore(db, true, sqliteDialect{}, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize SQLite cache: %w", err)
	}
	return store, nil
}
