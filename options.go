package jsonld

// ProcessingMode selects the JSON-LD specification version in effect.
type ProcessingMode string

const (
	ModeJSONLD10 ProcessingMode = "json-ld-1.0"
	ModeJSONLD11 ProcessingMode = "json-ld-1.1"
)

// RDFDirection selects how base direction is represented in RDF output.
// The empty value drops direction information.
type RDFDirection string

const (
	// I18nDatatype encodes language and direction into a datatype IRI in
	// the https://www.w3.org/ns/i18n# namespace.
	I18nDatatype RDFDirection = "i18n-datatype"

	// CompoundLiteral reifies the literal as a blank node carrying
	// rdf:value, rdf:language and rdf:direction.
	CompoundLiteral RDFDirection = "compound-literal"
)

// Options configures the processor. The zero value is not usable; construct
// with NewOptions.
type Options struct {
	// Base overrides the document IRI as the base for resolving relative
	// IRIs.
	Base string

	// CompactArrays collapses single-element arrays where the grammar
	// allows it. Recognized for API compatibility; expansion always
	// produces full arrays.
	CompactArrays bool

	// Ordered makes context term processing and object key processing
	// lexicographic instead of document order.
	Ordered bool

	// ProcessingMode gates 1.1 keywords and features.
	ProcessingMode ProcessingMode

	// ExpandContext is an extra context applied before the document's own.
	// It may be a string reference, a context map, or an array of either.
	ExpandContext Value

	// RDFDirection selects the RDF representation of base direction.
	RDFDirection RDFDirection

	// ProduceGeneralizedRDF keeps triples with blank node predicates.
	ProduceGeneralizedRDF bool

	// BlankNodeGenerator relabels blank nodes during RDF conversion. When
	// unset every conversion uses a fresh Issuer, so equal inputs get equal
	// labels. A shared generator, such as a UUIDGenerator, is used as-is
	// across conversions.
	BlankNodeGenerator Generator

	// DocumentLoader resolves remote documents and contexts. NoLoader
	// when unset.
	DocumentLoader Loader

	// WarningHandler receives non-fatal anomalies. Discarded when unset.
	WarningHandler func(Warning)

	// MaxRemoteContexts bounds the chain of remote contexts a single
	// processing operation may dereference.
	MaxRemoteContexts int
}

// NewOptions returns Options with the defaults: JSON-LD 1.1, compact
// arrays, document order, no direction encoding.
func NewOptions(base string) *Options {
	return &Options{
		Base:              base,
		CompactArrays:     true,
		ProcessingMode:    ModeJSONLD11,
		MaxRemoteContexts: 32,
	}
}

// Copy returns a shallow copy, so a caller can vary one option per
// operation without disturbing others.
func (o *Options) Copy() *Options {
	c := *o
	return &c
}

func (o *Options) warn(code WarningCode, detail string) {
	if o.WarningHandler != nil {
		o.WarningHandler(Warning{Code: code, Detail: detail})
	}
}

func (o *Options) loader() Loader {
	if o.DocumentLoader == nil {
		return NoLoader{}
	}
	return o.DocumentLoader
}

func (o *Options) generator() Generator {
	if o.BlankNodeGenerator == nil {
		return NewIssuer("_:b")
	}
	return o.BlankNodeGenerator
}
