// Package jsonld implements the JSON-LD 1.1 processing algorithms over an
// order-preserving JSON tree: context processing, expansion and
// deserialization to RDF quads.
//
// The package is offline by default. Documents and contexts are plain
// Values; anything remote goes through the Loader configured in Options,
// and without one every remote reference fails with ErrNoLoader. Errors
// carry the stable codes of the JSON-LD API specification, extracted with
// Code. Recoverable anomalies are reported through the warning handler and
// never change the result.
package jsonld

import (
	"context"

	"github.com/twinfer/jsonld/rdf"
)

// Processor binds the processing algorithms to one set of options. A
// Processor is safe for concurrent use when its loader is.
type Processor struct {
	opts *Options
	proc *ContextProcessor
}

// NewProcessor returns a Processor using opts, or the defaults when opts is
// nil.
func NewProcessor(opts *Options) *Processor {
	if opts == nil {
		opts = NewOptions("")
	}
	return &Processor{opts: opts, proc: NewContextProcessor(opts)}
}

// Options returns the options in effect.
func (p *Processor) Options() *Options { return p.opts }

func (p *Processor) mode() ProcessingMode {
	if p.opts.ProcessingMode != "" {
		return p.opts.ProcessingMode
	}
	return ModeJSONLD11
}

// Expand expands input to an expanded document. documentURL is the location
// input was retrieved from; it becomes the base for relative IRIs unless
// the Base option overrides it, and the base for remote context references
// either way. It may be empty for documents with no location.
func (p *Processor) Expand(ctx context.Context, input Value, documentURL string) (ExpandedDocument, error) {
	return p.expandInput(ctx, input, documentURL, "")
}

// ExpandDocument expands an already retrieved document, honoring a context
// link header recorded on it.
func (p *Processor) ExpandDocument(ctx context.Context, doc *RemoteDocument) (ExpandedDocument, error) {
	return p.expandInput(ctx, doc.Document, doc.URL, doc.ContextURL)
}

func (p *Processor) expandInput(ctx context.Context, input Value, documentURL, contextURL string) (ExpandedDocument, error) {
	base := documentURL
	if p.opts.Base != "" {
		base = p.opts.Base
	}
	active := newActiveContext(base, p.mode())

	// The expandContext option applies before the document's own contexts.
	// A full document passed here contributes only its @context entry.
	var err error
	if p.opts.ExpandContext != nil {
		local := p.opts.ExpandContext
		if m, ok := local.(Map); ok {
			if cv, has := m.Get(kwContext); has {
				local = cv
			}
		}
		active, err = p.proc.Process(ctx, active, local, base)
		if err != nil {
			return nil, err
		}
	}
	if contextURL != "" {
		active, err = p.proc.Process(ctx, active, String(contextURL), documentURL)
		if err != nil {
			return nil, err
		}
	}

	e := newExpander(p.opts)
	out, err := e.expand(ctx, active, "", input, documentURL, false)
	if err != nil {
		return nil, err
	}

	// A document that was a single map holding only @graph stands for its
	// graph content. An array input stays as given.
	if _, isMap := input.(Map); isMap && len(out) == 1 && out[0].Index == "" {
		if n, ok := out[0].Object.(*Node); ok && n.HasGraph && n.ID == "" &&
			len(n.Types) == 0 && n.Properties.Len() == 0 &&
			n.Reverse.Len() == 0 && len(n.Included) == 0 {
			out = n.Graph
		}
	}
	return ExpandedDocument(out), nil
}

// ExpandIRI expands a single string against an active context, using the
// document-relative and vocabulary rules the expansion algorithm uses for
// node identifiers and for properties respectively.
func (p *Processor) ExpandIRI(active *ActiveContext, value string, docRelative, vocab bool) (string, error) {
	return expandIRI(active, value, docRelative, vocab, nil, p.opts)
}

// ProcessContext merges a local context into active and returns the derived
// context. A nil active starts from a fresh context based on the Base
// option. baseURL resolves relative context references.
func (p *Processor) ProcessContext(ctx context.Context, active *ActiveContext, local Value, baseURL string) (*ActiveContext, error) {
	if active == nil {
		active = newActiveContext(p.opts.Base, p.mode())
	}
	return p.proc.Process(ctx, active, local, baseURL)
}

// ToRDF expands input and deserializes the expansion to RDF quads.
func (p *Processor) ToRDF(ctx context.Context, input Value, documentURL string) ([]rdf.Quad, error) {
	expanded, err := p.Expand(ctx, input, documentURL)
	if err != nil {
		return nil, err
	}
	return toRDFQuads(expanded, p.opts)
}

// ToRDFDocument is ToRDF for an already retrieved document.
func (p *Processor) ToRDFDocument(ctx context.Context, doc *RemoteDocument) ([]rdf.Quad, error) {
	expanded, err := p.ExpandDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	return toRDFQuads(expanded, p.opts)
}

// ExpandedToRDF deserializes an already expanded document to RDF quads.
func (p *Processor) ExpandedToRDF(doc ExpandedDocument) ([]rdf.Quad, error) {
	return toRDFQuads(doc, p.opts)
}
