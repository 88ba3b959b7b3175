package jsonld

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pquerna/cachecontrol"
)

// acceptHeader advertises the media types the loader can consume, in
// preference order.
const acceptHeader = "application/ld+json, application/json;q=0.9, */*;q=0.1"

// linkContextRel marks a link header that supplies an external context for
// a plain JSON response.
const linkContextRel = "http://www.w3.org/ns/json-ld#context"

// maxAlternateHops bounds how many alternate links a single load follows.
const maxAlternateHops = 4

// HTTPLoader retrieves documents over HTTP. Responses that the origin
// declares cacheable are kept in memory until they expire, so repeated
// references to the same published context do not refetch it.
type HTTPLoader struct {
	client *http.Client

	mu    sync.Mutex
	cache map[string]httpCacheEntry
}

type httpCacheEntry struct {
	doc     *RemoteDocument
	expires time.Time
}

// NewHTTPLoader returns an HTTPLoader using client, or http.DefaultClient
// when client is nil.
func NewHTTPLoader(client *http.Client) *HTTPLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPLoader{client: client, cache: make(map[string]httpCacheEntry)}
}

func (l *HTTPLoader) Load(ctx context.Context, iri string) (*RemoteDocument, error) {
	if doc, ok := l.cached(iri); ok {
		return doc, nil
	}
	doc, expires, err := l.fetch(ctx, iri, 0)
	if err != nil {
		return nil, err
	}
	if !expires.IsZero() && expires.After(time.Now()) {
		l.mu.Lock()
		l.cache[iri] = httpCacheEntry{doc: doc, expires: expires}
		l.mu.Unlock()
	}
	return doc, nil
}

func (l *HTTPLoader) cached(iri string) (*RemoteDocument, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.cache[iri]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		delete(l.cache, iri)
		return nil, false
	}
	return e.doc, true
}

func (l *HTTPLoader) fetch(ctx context.Context, iri string, hops int) (*RemoteDocument, time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iri, nil)
	if err != nil {
		return nil, time.Time{}, &LoadError{Code: LoadingDocumentFailed, URL: iri, Err: err}
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, time.Time{}, &LoadError{Code: LoadingDocumentFailed, URL: iri, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, time.Time{}, &LoadError{
			Code: LoadingDocumentFailed, URL: iri,
			Err: fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	finalURL := iri
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	mediaType, params, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	links := parseLinkHeaders(resp.Header.Values("Link"))

	if !isJSONMediaType(mediaType) {
		// A non-JSON resource may point at a JSON-LD rendition of itself.
		if alt := findLink(links, "alternate", "application/ld+json"); alt != "" && hops < maxAlternateHops {
			return l.fetch(ctx, resolveIRI(finalURL, alt), hops+1)
		}
		return nil, time.Time{}, &LoadError{
			Code: LoadingDocumentFailed, URL: iri,
			Err: fmt.Errorf("unsupported media type %q", mediaType),
		}
	}

	// An external context applies only when the response is JSON but not
	// JSON-LD; a JSON-LD document carries its own contexts.
	var contextURL string
	if mediaType != "application/ld+json" {
		targets := findLinks(links, linkContextRel, "")
		if len(targets) > 1 {
			return nil, time.Time{}, &LoadError{Code: MultipleContextLinkHeaders, URL: iri, Err: nil}
		}
		if len(targets) == 1 {
			contextURL = resolveIRI(finalURL, targets[0])
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, time.Time{}, &LoadError{Code: LoadingDocumentFailed, URL: iri, Err: err}
	}
	doc, err := ParseValue(body)
	if err != nil {
		return nil, time.Time{}, &LoadError{Code: LoadingDocumentFailed, URL: iri, Err: err}
	}

	var expires time.Time
	if reasons, exp, err := cachecontrol.CachableResponse(req, resp, cachecontrol.Options{}); err == nil && len(reasons) == 0 {
		expires = exp
	}

	return &RemoteDocument{
		URL:         finalURL,
		ContextURL:  contextURL,
		ContentType: mediaType,
		Profile:     params["profile"],
		Document:    doc,
	}, expires, nil
}

func isJSONMediaType(mediaType string) bool {
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// linkHeader is one parsed value of a Link response header.
type linkHeader struct {
	target string
	params map[string]string
}

// parseLinkHeaders splits Link header values into their individual links.
// The syntax is <target>; key=value; key="value", comma separated.
func parseLinkHeaders(values []string) []linkHeader {
	var links []linkHeader
	for _, value := range values {
		for _, part := range splitQuoted(value, ',') {
			part = strings.TrimSpace(part)
			if !strings.HasPrefix(part, "<") {
				continue
			}
			end := strings.IndexByte(part, '>')
			if end < 0 {
				continue
			}
			link := linkHeader{target: part[1:end], params: make(map[string]string)}
			for _, attr := range splitQuoted(part[end+1:], ';') {
				attr = strings.TrimSpace(attr)
				if attr == "" {
					continue
				}
				k, v, ok := strings.Cut(attr, "=")
				if !ok {
					continue
				}
				k = strings.TrimSpace(k)
				v = strings.TrimSpace(v)
				v = strings.Trim(v, `"`)
				link.params[strings.ToLower(k)] = v
			}
			links = append(links, link)
		}
	}
	return links
}

// splitQuoted splits s on sep, ignoring separators inside double quotes.
func splitQuoted(s string, sep byte) []string {
	var parts []string
	start := 0
	quoted := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			quoted = !quoted
		case sep:
			if !quoted {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// findLink returns the target of the first link with the given rel and, when
// mediaType is not empty, a matching type parameter.
func findLink(links []linkHeader, rel, mediaType string) string {
	targets := findLinks(links, rel, mediaType)
	if len(targets) == 0 {
		return ""
	}
	return targets[0]
}

func findLinks(links []linkHeader, rel, mediaType string) []string {
	var targets []string
	for _, l := range links {
		if !linkHasRel(l, rel) {
			continue
		}
		if mediaType != "" && l.params["type"] != mediaType {
			continue
		}
		targets = append(targets, l.target)
	}
	return targets
}

// linkHasRel matches rel as one member of the space-separated rel list.
func linkHasRel(l linkHeader, rel string) bool {
	for _, r := range strings.Fields(l.params["rel"]) {
		if r == rel {
			return true
		}
	}
	return false
}
