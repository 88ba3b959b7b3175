package jsonld

// Direction is a base direction for text, "ltr" or "rtl".
type Direction string

const (
	DirectionLTR Direction = "ltr"
	DirectionRTL Direction = "rtl"
)

// TermDefinition is the resolved meaning of one vocabulary term. Definitions
// are created only by context processing and never mutated afterwards, so a
// derived active context may share them.
type TermDefinition struct {
	// IRI is the expanded IRI or keyword the term maps to. An empty
	// string records an explicit null mapping: the term exists but its
	// entries are dropped during expansion.
	IRI string

	// Prefix reports whether the term may be used as a compact IRI
	// prefix.
	Prefix bool

	// Protected forbids non-identical redefinition in nested contexts.
	Protected bool

	// Reverse marks the term as a reverse (object to subject) property.
	Reverse bool

	// Container is the container mapping.
	Container Container

	// Type is the type coercion: a datatype IRI, @id, @vocab, @json or
	// @none. Empty when the term has no type mapping.
	Type string

	// Language and Direction are coercions for string values. The Set
	// flags distinguish an explicit null (which suppresses the context
	// default) from no mapping at all.
	Language     string
	LanguageSet  bool
	Direction    Direction
	DirectionSet bool

	// Context is an unprocessed scoped context, processed lazily when the
	// term's scope is entered, against ContextBase. HasContext
	// distinguishes a null scoped context from none.
	Context     Value
	ContextBase string
	HasContext  bool

	// Index is the property-based index mapping for @index containers.
	Index string

	// Nest is the @nest target, either @nest itself or an aliasing term.
	Nest string
}

// equalsIgnoringProtected reports whether two definitions are identical
// apart from the Protected flag. Redefining a protected term is allowed
// exactly when this holds.
func (d *TermDefinition) equalsIgnoringProtected(o *TermDefinition) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.IRI != o.IRI || d.Prefix != o.Prefix || d.Reverse != o.Reverse ||
		d.Container != o.Container || d.Type != o.Type ||
		d.Language != o.Language || d.LanguageSet != o.LanguageSet ||
		d.Direction != o.Direction || d.DirectionSet != o.DirectionSet ||
		d.Index != o.Index || d.Nest != o.Nest ||
		d.HasContext != o.HasContext || d.ContextBase != o.ContextBase {
		return false
	}
	if d.HasContext {
		if d.Context == nil || o.Context == nil {
			return d.Context == o.Context
		}
		return d.Context.Equal(o.Context)
	}
	return true
}

// ActiveContext is the resolved scope in effect at a point of the document:
// term definitions plus keyword defaults. It is immutable once context
// processing returns it; deriving a new context clones the term map.
type ActiveContext struct {
	terms            map[string]*TermDefinition
	baseIRI          string
	originalBase     string
	vocab            string
	defaultLanguage  string
	defaultDirection Direction
	previousContext  *ActiveContext
	mode             ProcessingMode
}

// newActiveContext returns an empty context whose base and original base are
// both base.
func newActiveContext(base string, mode ProcessingMode) *ActiveContext {
	return &ActiveContext{
		baseIRI:      base,
		originalBase: base,
		mode:         mode,
	}
}

// Term returns the definition for term, or nil.
func (c *ActiveContext) Term(term string) *TermDefinition {
	return c.terms[term]
}

// BaseIRI returns the current base IRI, empty when none.
func (c *ActiveContext) BaseIRI() string { return c.baseIRI }

// Vocab returns the vocabulary mapping, empty when none.
func (c *ActiveContext) Vocab() string { return c.vocab }

// DefaultLanguage returns the context default language, empty when none.
func (c *ActiveContext) DefaultLanguage() string { return c.defaultLanguage }

// DefaultDirection returns the context default base direction, empty when
// none.
func (c *ActiveContext) DefaultDirection() Direction { return c.defaultDirection }

// PreviousContext returns the context to revert to for non-propagating
// scopes, or nil.
func (c *ActiveContext) PreviousContext() *ActiveContext { return c.previousContext }

// ProcessingMode returns the mode the context was built under.
func (c *ActiveContext) ProcessingMode() ProcessingMode { return c.mode }

// clone returns a copy with its own term map. Definitions are shared; they
// are immutable.
func (c *ActiveContext) clone() *ActiveContext {
	out := *c
	out.terms = make(map[string]*TermDefinition, len(c.terms))
	for k, v := range c.terms {
		out.terms[k] = v
	}
	return &out
}

func (c *ActiveContext) setTerm(term string, def *TermDefinition) {
	if c.terms == nil {
		c.terms = make(map[string]*TermDefinition)
	}
	c.terms[term] = def
}

func (c *ActiveContext) removeTerm(term string) {
	delete(c.terms, term)
}

// hasProtectedTerms reports whether any definition is protected, which
// forbids clearing the context with null.
func (c *ActiveContext) hasProtectedTerms() bool {
	for _, def := range c.terms {
		if def.Protected {
			return true
		}
	}
	return false
}
