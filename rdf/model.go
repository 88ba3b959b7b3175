// Package rdf holds a minimal RDF dataset model: terms, quads and an
// N-Quads reader and writer. It has no opinion about where quads come from;
// the jsonld package produces them and the facts package maps them onto
// Mangle atoms.
package rdf

// RDF and XSD vocabulary used across the toolkit.
const (
	Type      IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	First     IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#first"
	Rest      IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#rest"
	Nil       IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#nil"
	Value     IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#value"
	Language  IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#language"
	Direction IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#direction"
	JSON      IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#JSON"

	LangString IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"

	// Reification vocabulary, used for n-ary relations.
	Statement IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#Statement"
	Subject   IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#subject"
	Predicate IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#predicate"
	Object    IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#object"

	XSDBoolean IRI = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDInteger IRI = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDouble  IRI = "http://www.w3.org/2001/XMLSchema#double"
	XSDString  IRI = "http://www.w3.org/2001/XMLSchema#string"

	XSDBase64Binary IRI = "http://www.w3.org/2001/XMLSchema#base64Binary"
)

// I18NNamespace prefixes the datatypes that carry a language tag and base
// direction in a single IRI.
const I18NNamespace = "https://www.w3.org/ns/i18n#"

// TermKind discriminates the Term implementations.
type TermKind int

const (
	KindIRI TermKind = iota
	KindBlankNode
	KindLiteral
)

// Term is one position of an RDF quad: an IRI, a blank node or a literal.
type Term interface {
	Kind() TermKind
	Equal(Term) bool
}

// IRI is an absolute IRI reference.
type IRI string

func (IRI) Kind() TermKind { return KindIRI }

func (i IRI) Equal(t Term) bool {
	o, ok := t.(IRI)
	return ok && i == o
}

// BlankNode is a blank node label including the "_:" prefix.
type BlankNode string

func (BlankNode) Kind() TermKind { return KindBlankNode }

func (b BlankNode) Equal(t Term) bool {
	o, ok := t.(BlankNode)
	return ok && b == o
}

// Literal is an RDF literal. Datatype is always set; Language only together
// with the rdf:langString datatype.
type Literal struct {
	Value    string
	Datatype IRI
	Language string
}

func (Literal) Kind() TermKind { return KindLiteral }

func (l Literal) Equal(t Term) bool {
	o, ok := t.(Literal)
	return ok && l == o
}

// Quad is one RDF statement. Graph is nil for the default graph.
type Quad struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     Term
}

// Equal compares all four positions, treating two nil graphs as equal.
func (q Quad) Equal(o Quad) bool {
	if !q.Subject.Equal(o.Subject) || !q.Predicate.Equal(o.Predicate) || !q.Object.Equal(o.Object) {
		return false
	}
	if q.Graph == nil || o.Graph == nil {
		return q.Graph == nil && o.Graph == nil
	}
	return q.Graph.Equal(o.Graph)
}

// String renders the quad as one N-Quads line without the trailing newline.
func (q Quad) String() string {
	return FormatQuad(q)
}
