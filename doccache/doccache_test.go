package doccache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/twinfer/jsonld"
)

// fakeClock is a controllable time source for expiry tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// countingLoader wraps a MapLoader and counts how often it is hit.
type countingLoader struct {
	inner *jsonld.MapLoader
	loads int
}

func (l *countingLoader) Load(ctx context.Context, iri string) (*jsonld.RemoteDocument, error) {
	l.loads++
	return l.inner.Load(ctx, iri)
}

func testDocument(t *testing.T) *jsonld.RemoteDocument {
	t.Helper()
	doc, err := jsonld.ParseValue([]byte(`{"@context": {"name": "http://ex/name"}}`))
	if err != nil {
		t.Fatalf("ParseValue: %v", err)
	}
	return &jsonld.RemoteDocument{
		URL:         "http://ex/context",
		ContentType: "application/ld+json",
		Document:    doc,
	}
}

// runSuite exercises one backend through the whole Store surface.
func runSuite(t *testing.T, open func(opts ...Option) (*Store, error)) {
	ctx := context.Background()

	t.Run("PutGetDelete", func(t *testing.T) {
		store, err := open()
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer store.Close()

		if _, ok, err := store.Get(ctx, "http://ex/none"); err != nil || ok {
			t.Fatalf("Get on empty cache = ok=%v err=%v, want miss", ok, err)
		}

		want := testDocument(t)
		if err := store.Put(ctx, "http://ex/context", want, time.Time{}); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, ok, err := store.Get(ctx, "http://ex/context")
		if err != nil || !ok {
			t.Fatalf("Get = ok=%v err=%v, want hit", ok, err)
		}
		if got.URL != want.URL || got.ContentType != want.ContentType {
			t.Errorf("Get = %+v, want %+v", got, want)
		}
		if !got.Document.Equal(want.Document) {
			t.Errorf("cached document does not match original")
		}

		// Put on the same IRI replaces the entry.
		want.URL = "http://ex/context-v2"
		if err := store.Put(ctx, "http://ex/context", want, time.Time{}); err != nil {
			t.Fatalf("Put replace: %v", err)
		}
		got, ok, err = store.Get(ctx, "http://ex/context")
		if err != nil || !ok {
			t.Fatalf("Get after replace = ok=%v err=%v, want hit", ok, err)
		}
		if got.URL != "http://ex/context-v2" {
			t.Errorf("URL after replace = %q, want replacement", got.URL)
		}

		if err := store.Delete(ctx, "http://ex/context"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, ok, _ := store.Get(ctx, "http://ex/context"); ok {
			t.Error("entry survived Delete")
		}
	})

	t.Run("DeclaredExpiry", func(t *testing.T) {
		clock := newFakeClock()
		store, err := open(WithClock(clock.Now))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer store.Close()

		doc := testDocument(t)
		expires := clock.Now().Add(time.Hour)
		if err := store.Put(ctx, doc.URL, doc, expires); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if _, ok, _ := store.Get(ctx, doc.URL); !ok {
			t.Fatal("fresh entry should hit")
		}

		clock.Advance(2 * time.Hour)
		if _, ok, _ := store.Get(ctx, doc.URL); ok {
			t.Error("expired entry should miss")
		}
		// The stale row is gone, not merely skipped.
		if n, err := store.Len(ctx); err != nil || n != 0 {
			t.Errorf("Len after expiry = %d err=%v, want 0", n, err)
		}
	})

	t.Run("TTL", func(t *testing.T) {
		clock := newFakeClock()
		store, err := open(WithClock(clock.Now), WithTTL(time.Minute))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer store.Close()

		doc := testDocument(t)
		if err := store.Put(ctx, doc.URL, doc, time.Time{}); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if _, ok, _ := store.Get(ctx, doc.URL); !ok {
			t.Fatal("entry within TTL should hit")
		}
		clock.Advance(2 * time.Minute)
		if _, ok, _ := store.Get(ctx, doc.URL); ok {
			t.Error("entry past TTL should miss")
		}
	})

	t.Run("Purge", func(t *testing.T) {
		clock := newFakeClock()
		store, err := open(WithClock(clock.Now))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer store.Close()

		doc := testDocument(t)
		if err := store.Put(ctx, "http://ex/expiring", doc, clock.Now().Add(time.Minute)); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if err := store.Put(ctx, "http://ex/durable", doc, time.Time{}); err != nil {
			t.Fatalf("Put: %v", err)
		}

		clock.Advance(time.Hour)
		n, err := store.Purge(ctx)
		if err != nil {
			t.Fatalf("Purge: %v", err)
		}
		if n != 1 {
			t.Errorf("Purge removed %d rows, want 1", n)
		}
		if left, err := store.Len(ctx); err != nil || left != 1 {
			t.Errorf("Len after purge = %d err=%v, want 1", left, err)
		}
	})

	t.Run("CachedLoader", func(t *testing.T) {
		store, err := open()
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer store.Close()

		inner := &jsonld.MapLoader{}
		if err := inner.Add("http://ex/ctx", []byte(`{"@context": {"@vocab": "http://ex/"}}`)); err != nil {
			t.Fatalf("Add: %v", err)
		}
		counting := &countingLoader{inner: inner}
		loader := store.Cached(counting)

		for i := 0; i < 3; i++ {
			doc, err := loader.Load(ctx, "http://ex/ctx")
			if err != nil {
				t.Fatalf("Load %d: %v", i, err)
			}
			if doc.URL != "http://ex/ctx" {
				t.Fatalf("Load %d URL = %q", i, doc.URL)
			}
		}
		if counting.loads != 1 {
			t.Errorf("wrapped loader hit %d times, want 1", counting.loads)
		}

		// Misses of the wrapped loader pass through untouched.
		_, err = loader.Load(ctx, "http://ex/absent")
		if !errors.Is(err, jsonld.ErrNotFound) {
			t.Errorf("Load miss error = %v, want ErrNotFound", err)
		}
	})
}

func TestSQLiteStore(t *testing.T) {
	runSuite(t, func(opts ...Option) (*Store, error) {
		return OpenSQLite(":memory:", opts...)
	})
}

func TestSQLiteCustomTable(t *testing.T) {
	store, err := OpenSQLite(":memory:", WithTable("remote_contexts"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Put(ctx, "http://ex/c", testDocument(t), time.Time{}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	var n int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM remote_contexts").Scan(&n); err != nil {
		t.Fatalf("count query: %v", err)
	}
	if n != 1 {
		t.Errorf("remote_contexts has %d rows, want 1", n)
	}
}
