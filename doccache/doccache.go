// Package doccache persists retrieved JSON-LD documents and contexts in a
// SQL database, and decorates a jsonld.Loader so that repeated references to
// the same published context are served from the database instead of the
// network. SQLite and PostgreSQL backends share one schema through a small
// dialect seam.
package doccache

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/twinfer/jsonld"
)

// config holds the options shared by both backends.
type config struct {
	table   string
	ttl     time.Duration
	now     func() time.Time
	pragmas map[string]string
}

// Option configures a Store.
type Option func(*config)

// WithTable overrides the table name, "contexts" by default.
func WithTable(name string) Option {
	return func(c *config) { c.table = name }
}

// WithTTL caps how long a cached document may be served, regardless of what
// the origin declared. Zero means no cap.
func WithTTL(d time.Duration) Option {
	return func(c *config) { c.ttl = d }
}

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithPragma sets a SQLite PRAGMA, overriding the default for that key. The
// PostgreSQL backend ignores pragmas.
func WithPragma(key, value string) Option {
	return func(c *config) {
		if c.pragmas == nil {
			c.pragmas = make(map[string]string)
		}
		c.pragmas[key] = value
	}
}

func defaultConfig() *config {
	return &config{
		table: "contexts",
		now:   time.Now,
		pragmas: map[string]string{
			"journal_mode": "WAL",
			"synchronous":  "NORMAL",
			"busy_timeout": "5000",
		},
	}
}

// Store is a SQL-backed document cache. It is safe for concurrent use.
type Store struct {
	db      *sql.DB
	ownsDB  bool
	dialect dialect
	table   string
	ttl     time.Duration
	now     func() time.Time

	getStmt    *sql.Stmt
	putStmt    *sql.Stmt
	deleteStmt *sql.Stmt
}

// newStore creates the schema and prepares the statements all operations
// use.
func newStore(db *sql.DB, ownsDB bool, d dialect, cfg *config) (*Store, error) {
	s := &Store{
		db:      db,
		ownsDB:  ownsDB,
		dialect: d,
		table:   cfg.table,
		ttl:     cfg.ttl,
		now:     cfg.now,
	}
	if _, err := db.Exec(d.createTableSQL(s.table)); err != nil {
		return nil, fmt.Errorf("failed to create %s table: %w", s.table, err)
	}

	var err error
	if s.getStmt, err = db.Prepare(d.getSQL(s.table)); err != nil {
		return nil, fmt.Errorf("failed to prepare get statement: %w", err)
	}
	if s.putStmt, err = db.Prepare(d.upsertSQL(s.table)); err != nil {
		return nil, fmt.Errorf("failed to prepare put statement: %w", err)
	}
	if s.deleteStmt, err = db.Prepare(d.deleteSQL(s.table)); err != nil {
		return nil, fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	return s, nil
}

// Close releases the prepared statements, and the database when the store
// opened it itself.
func (s *Store) Close() error {
	for _, stmt := range []*sql.Stmt{s.getStmt, s.putStmt, s.deleteStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

// Get returns the cached document for iri, or ok=false when the cache has
// no fresh entry. Stale entries are deleted on the way out.
func (s *Store) Get(ctx context.Context, iri string) (*jsonld.RemoteDocument, bool, error) {
	var (
		finalURL, contextURL, contentType string
		body                              []byte
		fetchedAt, expiresAt              int64
	)
	err := s.getStmt.QueryRowContext(ctx, iri).
		Scan(&finalURL, &contextURL, &contentType, &body, &fetchedAt, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry for %q: %w", iri, err)
	}

	now := s.now().Unix()
	expired := expiresAt > 0 && now >= expiresAt
	if s.ttl > 0 && now >= fetchedAt+int64(s.ttl.Seconds()) {
		expired = true
	}
	if expired {
		if err := s.Delete(ctx, iri); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}

	doc, err := jsonld.ParseValue(body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse cached body for %q: %w", iri, err)
	}
	return &jsonld.RemoteDocument{
		URL:         finalURL,
		ContextURL:  contextURL,
		ContentType: contentType,
		Document:    doc,
	}, true, nil
}

// Put stores doc under iri. A zero expires leaves expiry to the TTL option
// alone.
func (s *Store) Put(ctx context.Context, iri string, doc *jsonld.RemoteDocument, expires time.Time) error {
	body, err := jsonld.MarshalValue(doc.Document)
	if err != nil {
		return fmt.Errorf("failed to serialize document for %q: %w", iri, err)
	}
	var expiresAt int64
	if !expires.IsZero() {
		expiresAt = expires.Unix()
	}
	_, err = s.putStmt.ExecContext(ctx,
		iri, doc.URL, doc.ContextURL, doc.ContentType, body, s.now().Unix(), expiresAt)
	if err != nil {
		return fmt.Errorf("failed to write cache entry for %q: %w", iri, err)
	}
	return nil
}

// Delete removes the entry for iri, if any.
func (s *Store) Delete(ctx context.Context, iri string) error {
	if _, err := s.deleteStmt.ExecContext(ctx, iri); err != nil {
		return fmt.Errorf("failed to delete cache entry for %q: %w", iri, err)
	}
	return nil
}

// Purge removes every entry whose declared expiry has passed and returns
// how many rows went away. Entries kept alive only by the TTL option are
// not purged; the TTL is enforced on read.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.dialect.purgeSQL(s.table), s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired cache entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// Len returns the number of cached documents.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.dialect.countSQL(s.table)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

// Cached wraps next so that loads hit the store first and successful loads
// are written back. Cache failures degrade to the wrapped loader rather
// than failing the load.
func (s *Store) Cached(next jsonld.Loader) jsonld.Loader {
	return &cachedLoader{store: s, next: next}
}

type cachedLoader struct {
	store *Store
	next  jsonld.Loader
}

func (l *cachedLoader) Load(ctx context.Context, iri string) (*jsonld.RemoteDocument, error) {
	doc, ok, err := l.store.Get(ctx, iri)
	if err != nil {
		log.Printf("doccache: read for %q failed: %v", iri, err)
	} else if ok {
		return doc, nil
	}

	doc, err = l.next.Load(ctx, iri)
	if err != nil {
		return nil, err
	}
	if err := l.store.Put(ctx, iri, doc, time.Time{}); err != nil {
		log.Printf("doccache: write for %q failed: %v", iri, err)
	}
	return doc, nil
}
