// Package facts maps RDF quads onto Mangle datalog atoms, so that expanded
// JSON-LD documents can feed a Mangle fact store and derived facts can come
// back out as RDF.
//
// Statements in the default graph become triple/3 atoms, statements in a
// named graph become quad/4 atoms. IRIs that fit Mangle's name syntax encode
// as name constants; every other term encodes as a string carrying its
// N-Quads form, and integer and double literals become Mangle numbers when
// the conversion is lossless.
package facts

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/mangle/ast"
	"github.com/google/mangle/factstore"

	"github.com/twinfer/jsonld"
	"github.com/twinfer/jsonld/rdf"
)

// Predicates used for encoded statements.
var (
	TriplePredicate = ast.PredicateSym{Symbol: "triple", Arity: 3}
	QuadPredicate   = ast.PredicateSym{Symbol: "quad", Arity: 4}
)

// QuadsToFacts encodes quads as Mangle atoms: triple(s, p, o) for the
// default graph, quad(s, p, o, g) otherwise.
func QuadsToFacts(quads []rdf.Quad) ([]ast.Atom, error) {
	atoms := make([]ast.Atom, 0, len(quads))
	for _, q := range quads {
		atom, err := QuadToFact(q)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, atom)
	}
	return atoms, nil
}

// QuadToFact encodes a single quad.
func QuadToFact(q rdf.Quad) (ast.Atom, error) {
	s, err := encodeTerm(q.Subject)
	if err != nil {
		return ast.Atom{}, fmt.Errorf("failed to encode subject: %w", err)
	}
	p, err := encodeTerm(q.Predicate)
	if err != nil {
		return ast.Atom{}, fmt.Errorf("failed to encode predicate: %w", err)
	}
	o, err := encodeTerm(q.Object)
	if err != nil {
		return ast.Atom{}, fmt.Errorf("failed to encode object: %w", err)
	}
	if q.Graph == nil {
		return ast.Atom{Predicate: TriplePredicate, Args: []ast.BaseTerm{s, p, o}}, nil
	}
	g, err := encodeTerm(q.Graph)
	if err != nil {
		return ast.Atom{}, fmt.Errorf("failed to encode graph label: %w", err)
	}
	return ast.Atom{Predicate: QuadPredicate, Args: []ast.BaseTerm{s, p, o, g}}, nil
}

// FactsToQuads decodes triple/3 and quad/4 atoms back into quads. Atoms with
// any other predicate are an error; FilterStatements drops them instead.
func FactsToQuads(atoms []ast.Atom) ([]rdf.Quad, error) {
	quads := make([]rdf.Quad, 0, len(atoms))
	for _, atom := range atoms {
		q, err := FactToQuad(atom)
		if err != nil {
			return nil, err
		}
		quads = append(quads, q)
	}
	return quads, nil
}

// FilterStatements returns only the atoms FactToQuad understands.
func FilterStatements(atoms []ast.Atom) []ast.Atom {
	var out []ast.Atom
	for _, atom := range atoms {
		if atom.Predicate == TriplePredicate || atom.Predicate == QuadPredicate {
			out = append(out, atom)
		}
	}
	return out
}

// FactToQuad decodes a single triple/3 or quad/4 atom.
func FactToQuad(atom ast.Atom) (rdf.Quad, error) {
	if atom.Predicate != TriplePredicate && atom.Predicate != QuadPredicate {
		return rdf.Quad{}, fmt.Errorf("unsupported predicate %s/%d", atom.Predicate.Symbol, atom.Predicate.Arity)
	}
	terms := make([]rdf.Term, len(atom.Args))
	for i, arg := range atom.Args {
		c, ok := arg.(ast.Constant)
		if !ok {
			return rdf.Quad{}, fmt.Errorf("argument %d of %s is not a constant", i, atom.Predicate.Symbol)
		}
		t, err := decodeTerm(c)
		if err != nil {
			return rdf.Quad{}, fmt.Errorf("failed to decode argument %d: %w", i, err)
		}
		terms[i] = t
	}
	q := rdf.Quad{Subject: terms[0], Predicate: terms[1], Object: terms[2]}
	if atom.Predicate == QuadPredicate {
		q.Graph = terms[3]
	}
	for i, t := range terms {
		if i == 2 {
			continue
		}
		if t.Kind() == rdf.KindLiteral {
			return rdf.Quad{}, fmt.Errorf("literal in position %d of %s", i, atom.Predicate.Symbol)
		}
	}
	return q, nil
}

// encodeTerm maps one RDF term to a Mangle constant.
//
// The encoding is reversible: IRIs become name constants when Mangle's name
// syntax admits them and the string "<iri>" otherwise; blank nodes keep
// their "_:" label; plain strings stay plain unless their first characters
// would collide with one of the tagged forms, in which case they fall back
// to the quoted N-Quads form like every other literal.
func encodeTerm(t rdf.Term) (ast.Constant, error) {
	switch t := t.(type) {
	case rdf.IRI:
		if name, err := ast.Name(string(t)); err == nil {
			return name, nil
		}
		return ast.String("<" + string(t) + ">"), nil

	case rdf.BlankNode:
		return ast.String(string(t)), nil

	case rdf.Literal:
		return encodeLiteral(t), nil

	default:
		return ast.Constant{}, fmt.Errorf("unknown term kind %v", t.Kind())
	}
}

func encodeLiteral(l rdf.Literal) ast.Constant {
	switch {
	case l.Language != "":
		// Language-tagged strings keep their tag in the quoted form.

	case l.Datatype == rdf.XSDInteger:
		if i, err := strconv.ParseInt(l.Value, 10, 64); err == nil && strconv.FormatInt(i, 10) == l.Value {
			return ast.Number(i)
		}

	case l.Datatype == rdf.XSDDouble:
		if f, err := strconv.ParseFloat(l.Value, 64); err == nil && formatDouble(f) == l.Value {
			return ast.Float64(f)
		}

	case l.Datatype == rdf.XSDBase64Binary:
		if b, err := base64.StdEncoding.DecodeString(l.Value); err == nil {
			return ast.Bytes(b)
		}

	case l.Datatype == "" || l.Datatype == rdf.XSDString:
		if !collidesWithTaggedForm(l.Value) {
			return ast.String(l.Value)
		}
	}
	return ast.String(rdf.FormatTerm(l))
}

// collidesWithTaggedForm reports whether a plain string would be mistaken
// for one of the tagged encodings on decode.
func collidesWithTaggedForm(s string) bool {
	return strings.HasPrefix(s, "<") || strings.HasPrefix(s, "_:") || strings.HasPrefix(s, `"`)
}

// decodeTerm is the inverse of encodeTerm.
func decodeTerm(c ast.Constant) (rdf.Term, error) {
	switch c.Type {
	case ast.NameType:
		sym, err := c.NameValue()
		if err != nil {
			return nil, fmt.Errorf("failed to read name constant: %w", err)
		}
		return rdf.IRI(sym), nil

	case ast.NumberType:
		i, err := c.NumberValue()
		if err != nil {
			return nil, fmt.Errorf("failed to read number constant: %w", err)
		}
		return rdf.Literal{Value: strconv.FormatInt(i, 10), Datatype: rdf.XSDInteger}, nil

	case ast.Float64Type:
		f, err := c.Float64Value()
		if err != nil {
			return nil, fmt.Errorf("failed to read float constant: %w", err)
		}
		return rdf.Literal{Value: formatDouble(f), Datatype: rdf.XSDDouble}, nil

	case ast.BytesType:
		return rdf.Literal{
			Value:    base64.StdEncoding.EncodeToString([]byte(c.Symbol)),
			Datatype: rdf.XSDBase64Binary,
		}, nil

	case ast.StringType:
		s, err := c.StringValue()
		if err != nil {
			return nil, fmt.Errorf("failed to read string constant: %w", err)
		}
		return decodeString(s)

	default:
		return nil, fmt.Errorf("unsupported constant type %v", c.Type)
	}
}

func decodeString(s string) (rdf.Term, error) {
	switch {
	case strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">"):
		return rdf.IRI(s[1 : len(s)-1]), nil
	case strings.HasPrefix(s, "_:"):
		return rdf.BlankNode(s), nil
	case strings.HasPrefix(s, `"`):
		// A quoted literal in N-Quads form; reuse the statement parser by
		// placing it in object position.
		q, err := rdf.ParseQuad("_:s <http://x/p> " + s + " .")
		if err != nil {
			return nil, fmt.Errorf("failed to decode literal %q: %w", s, err)
		}
		return q.Object, nil
	default:
		return rdf.Literal{Value: s, Datatype: rdf.XSDString}, nil
	}
}

// formatDouble renders f in the canonical xsd:double form, the same form
// RDF deserialization emits, so encode can verify the lexical form survives
// the round trip.
func formatDouble(f float64) string {
	s := strconv.FormatFloat(f, 'E', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	exp = strings.TrimPrefix(exp, "+")
	neg := strings.HasPrefix(exp, "-")
	exp = strings.TrimLeft(strings.TrimPrefix(exp, "-"), "0")
	if exp == "" {
		exp = "0"
	}
	if neg {
		exp = "-" + exp
	}
	return mantissa + "E" + exp
}

// AddQuads stores the quads in store and reports how many were new.
func AddQuads(store factstore.FactStore, quads []rdf.Quad) (int, error) {
	atoms, err := QuadsToFacts(quads)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, atom := range atoms {
		if store.Add(atom) {
			added++
		}
	}
	return added, nil
}

// QuadsFromStore reads every triple/3 and quad/4 fact back out of store.
func QuadsFromStore(store factstore.ReadOnlyFactStore) ([]rdf.Quad, error) {
	var quads []rdf.Quad
	collect := func(atom ast.Atom) error {
		q, err := FactToQuad(atom)
		if err != nil {
			return err
		}
		quads = append(quads, q)
		return nil
	}
	triplePattern := ast.Atom{
		Predicate: TriplePredicate,
		Args:      []ast.BaseTerm{ast.Variable{Symbol: "S"}, ast.Variable{Symbol: "P"}, ast.Variable{Symbol: "O"}},
	}
	if err := store.GetFacts(triplePattern, collect); err != nil {
		return nil, fmt.Errorf("failed to read triple facts: %w", err)
	}
	quadPattern := ast.Atom{
		Predicate: QuadPredicate,
		Args:      []ast.BaseTerm{ast.Variable{Symbol: "S"}, ast.Variable{Symbol: "P"}, ast.Variable{Symbol: "O"}, ast.Variable{Symbol: "G"}},
	}
	if err := store.GetFacts(quadPattern, collect); err != nil {
		return nil, fmt.Errorf("failed to read quad facts: %w", err)
	}
	return quads, nil
}

// ExpandToFacts runs input through the processor end to end: expansion, RDF
// deserialization and atom encoding.
func ExpandToFacts(ctx context.Context, p *jsonld.Processor, input jsonld.Value, documentURL string) ([]ast.Atom, error) {
	quads, err := p.ToRDF(ctx, input, documentURL)
	if err != nil {
		return nil, err
	}
	return QuadsToFacts(quads)
}
