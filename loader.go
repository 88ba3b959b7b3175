package jsonld

import (
	"context"
	"errors"
	"io/fs"
	"strings"
)

// Loader retrieves remote documents and contexts. Implementations must be
// safe for concurrent use.
type Loader interface {
	Load(ctx context.Context, iri string) (*RemoteDocument, error)
}

// RemoteDocument is a retrieved document together with the retrieval
// metadata the algorithms need.
type RemoteDocument struct {
	// URL is the final location after redirects. Relative IRIs in the
	// document resolve against it.
	URL string

	// ContextURL is the target of a JSON-LD context link header, set only
	// when the response itself was not JSON-LD.
	ContextURL string

	// ContentType is the media type without parameters.
	ContentType string

	// Profile is the profile parameter of the content type, if any.
	Profile string

	// Document is the parsed JSON tree.
	Document Value
}

// NoLoader refuses every load. It is the default, keeping processing fully
// offline unless a loader is configured explicitly.
type NoLoader struct{}

func (NoLoader) Load(ctx context.Context, iri string) (*RemoteDocument, error) {
	return nil, &LoadError{Code: LoadingDocumentFailed, URL: iri, Err: ErrNoLoader}
}

// MapLoader serves documents from memory, keyed by IRI. The zero value is
// empty; Add parses and stores a document. Lookup misses fail with
// ErrNotFound.
type MapLoader struct {
	docs map[string]*RemoteDocument
}

// NewMapLoader returns a MapLoader holding the given parsed documents.
func NewMapLoader(docs map[string]Value) *MapLoader {
	l := &MapLoader{}
	for iri, doc := range docs {
		l.AddDocument(iri, doc)
	}
	return l
}

// Add parses data as JSON and stores it under iri.
func (l *MapLoader) Add(iri string, data []byte) error {
	doc, err := ParseValue(data)
	if err != nil {
		return &LoadError{Code: LoadingDocumentFailed, URL: iri, Err: err}
	}
	l.AddDocument(iri, doc)
	return nil
}

// AddDocument stores an already parsed document under iri.
func (l *MapLoader) AddDocument(iri string, doc Value) {
	if l.docs == nil {
		l.docs = make(map[string]*RemoteDocument)
	}
	l.docs[iri] = &RemoteDocument{
		URL:         iri,
		ContentType: "application/ld+json",
		Document:    doc,
	}
}

func (l *MapLoader) Load(ctx context.Context, iri string) (*RemoteDocument, error) {
	if doc, ok := l.docs[iri]; ok {
		return doc, nil
	}
	return nil, &LoadError{Code: LoadingDocumentFailed, URL: iri, Err: ErrNotFound}
}

// ChainLoader tries each loader in turn, moving on when one fails with
// ErrNotFound and stopping on any other failure.
type ChainLoader []Loader

func (c ChainLoader) Load(ctx context.Context, iri string) (*RemoteDocument, error) {
	var lastErr error
	for _, l := range c {
		doc, err := l.Load(ctx, iri)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return nil, err
	}
	if lastErr == nil {
		lastErr = &LoadError{Code: LoadingDocumentFailed, URL: iri, Err: ErrNotFound}
	}
	return nil, lastErr
}

// FSLoader serves documents from a file system, for tests and offline
// replicas of published contexts. An IRI maps to a path by stripping
// Prefix; IRIs outside the prefix fail with ErrNotFound.
type FSLoader struct {
	FS     fs.FS
	Prefix string
}

func (l *FSLoader) Load(ctx context.Context, iri string) (*RemoteDocument, error) {
	path, ok := strings.CutPrefix(iri, l.Prefix)
	if !ok || path == "" {
		return nil, &LoadError{Code: LoadingDocumentFailed, URL: iri, Err: ErrNotFound}
	}
	data, err := fs.ReadFile(l.FS, path)
	if err != nil {
		return nil, &LoadError{Code: LoadingDocumentFailed, URL: iri, Err: ErrNotFound}
	}
	doc, err := ParseValue(data)
	if err != nil {
		return nil, &LoadError{Code: LoadingDocumentFailed, URL: iri, Err: err}
	}
	return &RemoteDocument{
		URL:         iri,
		ContentType: "application/ld+json",
		Document:    doc,
	}, nil
}
