package jsonld

import (
	"context"
	"testing"

	"bitbucket.org/creachadair/stringset"
	"github.com/twinfer/jsonld/rdf"
)

// toNQuads converts src to RDF and serializes the quads in conversion order.
func toNQuads(t *testing.T, opts *Options, src, documentURL string) string {
	t.Helper()
	if opts == nil {
		opts = NewOptions("")
	}
	p := NewProcessor(opts)
	quads, err := p.ToRDF(context.Background(), mustParse(t, src), documentURL)
	if err != nil {
		t.Fatalf("ToRDF: %v", err)
	}
	return rdf.Format(quads)
}

func TestToRDFBasic(t *testing.T) {
	got := toNQuads(t, nil, `{
		"@context": {"@vocab": "http://ex/"},
		"@id": "http://ex/a",
		"@type": "T",
		"p": "v",
		"q": {"@id": "http://ex/b"}
	}`, "")
	want := `<http://ex/a> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://ex/T> .
<http://ex/a> <http://ex/p> "v" .
<http://ex/a> <http://ex/q> <http://ex/b> .
`
	if got != want {
		t.Errorf("quads:\n%swant:\n%s", got, want)
	}
}

func TestToRDFNumberCanonicalization(t *testing.T) {
	got := toNQuads(t, nil, `{
		"@id": "http://ex/a",
		"http://ex/int": 5,
		"http://ex/dbl": 2.5,
		"http://ex/big": 1e21,
		"http://ex/flag": true,
		"http://ex/forced": {"@value": 7, "@type": "http://www.w3.org/2001/XMLSchema#double"}
	}`, "")
	want := `<http://ex/a> <http://ex/int> "5"^^<http://www.w3.org/2001/XMLSchema#integer> .
<http://ex/a> <http://ex/dbl> "2.5E0"^^<http://www.w3.org/2001/XMLSchema#double> .
<http://ex/a> <http://ex/big> "1.0E21"^^<http://www.w3.org/2001/XMLSchema#double> .
<http://ex/a> <http://ex/flag> "true"^^<http://www.w3.org/2001/XMLSchema#boolean> .
<http://ex/a> <http://ex/forced> "7.0E0"^^<http://www.w3.org/2001/XMLSchema#double> .
`
	if got != want {
		t.Errorf("quads:\n%swant:\n%s", got, want)
	}
}

func TestToRDFLists(t *testing.T) {
	got := toNQuads(t, nil, `{
		"@context": {"p": {"@id": "http://ex/p", "@container": "@list"}},
		"@id": "http://ex/a",
		"p": ["x", "y"]
	}`, "")
	want := `_:b0 <http://www.w3.org/1999/02/22-rdf-syntax-ns#first> "x" .
_:b0 <http://www.w3.org/1999/02/22-rdf-syntax-ns#rest> _:b1 .
_:b1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#first> "y" .
_:b1 <http://www.w3.org/1999/02/22-rdf-syntax-ns#rest> <http://www.w3.org/1999/02/22-rdf-syntax-ns#nil> .
<http://ex/a> <http://ex/p> _:b0 .
`
	if got != want {
		t.Errorf("quads:\n%swant:\n%s", got, want)
	}

	// The empty list is rdf:nil, no chain.
	got = toNQuads(t, nil, `{
		"@context": {"p": {"@id": "http://ex/p", "@container": "@list"}},
		"@id": "http://ex/a",
		"p": []
	}`, "")
	want = `<http://ex/a> <http://ex/p> <http://www.w3.org/1999/02/22-rdf-syntax-ns#nil> .
`
	if got != want {
		t.Errorf("quads:\n%swant:\n%s", got, want)
	}
}

func TestToRDFBlankNodeLabelsAreDeterministic(t *testing.T) {
	src := `{
		"@context": {"@vocab": "http://ex/"},
		"@id": "http://ex/a",
		"knows": [{"name": "B"}, {"name": "C"}]
	}`
	want := `<http://ex/a> <http://ex/knows> _:b0 .
<http://ex/a> <http://ex/knows> _:b1 .
_:b0 <http://ex/name> "B" .
_:b1 <http://ex/name> "C" .
`
	// No shared generator: every conversion starts a fresh issuer, so equal
	// inputs get equal labels.
	for i := 0; i < 2; i++ {
		if got := toNQuads(t, nil, src, ""); got != want {
			t.Errorf("run %d:\n%swant:\n%s", i, got, want)
		}
	}

	// A shared UUID generator keeps labels unique across conversions
	// instead.
	opts := NewOptions("")
	opts.BlankNodeGenerator = NewUUIDGenerator()
	p := NewProcessor(opts)
	seen := stringset.New()
	for run := 0; run < 2; run++ {
		quads, err := p.ToRDF(context.Background(), mustParse(t, src), "")
		if err != nil {
			t.Fatalf("ToRDF: %v", err)
		}
		for _, q := range quads {
			b, ok := q.Object.(rdf.BlankNode)
			if !ok {
				continue
			}
			if run > 0 && seen.Contains(string(b)) {
				t.Errorf("shared UUID generator reused label %s across conversions", b)
			}
			seen.Add(string(b))
		}
	}
}

func TestToRDFNamedGraphs(t *testing.T) {
	got := toNQuads(t, nil, `{
		"@id": "http://ex/g",
		"@graph": [{"@id": "http://ex/a", "http://ex/p": "v"}]
	}`, "")
	want := `<http://ex/a> <http://ex/p> "v" <http://ex/g> .
`
	if got != want {
		t.Errorf("quads:\n%swant:\n%s", got, want)
	}

	// A blank graph name goes through the generator like any blank node.
	got = toNQuads(t, nil, `{
		"@id": "_:g",
		"@graph": [{"@id": "http://ex/a", "http://ex/p": "v"}]
	}`, "")
	want = `<http://ex/a> <http://ex/p> "v" _:b0 .
`
	if got != want {
		t.Errorf("quads:\n%swant:\n%s", got, want)
	}
}

func TestToRDFLanguageAndDirection(t *testing.T) {
	// Language tags reach RDF lowercased; without an RDFDirection option the
	// direction drops.
	got := toNQuads(t, nil, `{
		"@id": "http://ex/a",
		"http://ex/p": {"@value": "hello", "@language": "EN", "@direction": "ltr"}
	}`, "")
	want := `<http://ex/a> <http://ex/p> "hello"@en .
`
	if got != want {
		t.Errorf("quads:\n%swant:\n%s", got, want)
	}

	opts := NewOptions("")
	opts.RDFDirection = I18nDatatype
	got = toNQuads(t, opts, `{
		"@id": "http://ex/a",
		"http://ex/p": {"@value": "ahlan", "@language": "AR", "@direction": "rtl"}
	}`, "")
	want = `<http://ex/a> <http://ex/p> "ahlan"^^<https://www.w3.org/ns/i18n#ar_rtl> .
`
	if got != want {
		t.Errorf("i18n quads:\n%swant:\n%s", got, want)
	}

	opts = NewOptions("")
	opts.RDFDirection = CompoundLiteral
	got = toNQuads(t, opts, `{
		"@id": "http://ex/a",
		"http://ex/p": {"@value": "ahlan", "@language": "AR", "@direction": "rtl"}
	}`, "")
	want = `_:b0 <http://www.w3.org/1999/02/22-rdf-syntax-ns#value> "ahlan" .
_:b0 <http://www.w3.org/1999/02/22-rdf-syntax-ns#language> "ar" .
_:b0 <http://www.w3.org/1999/02/22-rdf-syntax-ns#direction> "rtl" .
<http://ex/a> <http://ex/p> _:b0 .
`
	if got != want {
		t.Errorf("compound quads:\n%swant:\n%s", got, want)
	}
}

func TestToRDFJSONLiteral(t *testing.T) {
	got := toNQuads(t, nil, `{
		"@context": {"data": {"@id": "http://ex/data", "@type": "@json"}},
		"@id": "http://ex/a",
		"data": {"b": 1.0, "a": [2]}
	}`, "")
	// The lexical form is the RFC 8785 canonicalization of the payload.
	want := `<http://ex/a> <http://ex/data> "{\"a\":[2],\"b\":1}"^^<http://www.w3.org/1999/02/22-rdf-syntax-ns#JSON> .
`
	if got != want {
		t.Errorf("quads:\n%swant:\n%s", got, want)
	}
}

func TestToRDFReverseInverts(t *testing.T) {
	got := toNQuads(t, nil, `{
		"@context": {"children": {"@reverse": "http://ex/parent"}},
		"@id": "http://ex/mom",
		"children": {"@id": "http://ex/kid"}
	}`, "")
	want := `<http://ex/kid> <http://ex/parent> <http://ex/mom> .
`
	if got != want {
		t.Errorf("quads:\n%swant:\n%s", got, want)
	}
}

func TestToRDFGeneralizedRDF(t *testing.T) {
	src := `{"@id": "http://ex/a", "_:p": "v"}`

	if got := toNQuads(t, nil, src, ""); got != "" {
		t.Errorf("blank predicate survived standard RDF:\n%s", got)
	}

	opts := NewOptions("")
	opts.ProduceGeneralizedRDF = true
	got := toNQuads(t, opts, src, "")
	want := `<http://ex/a> _:b0 "v" .
`
	if got != want {
		t.Errorf("quads:\n%swant:\n%s", got, want)
	}
}

func TestToRDFDropsUnrepresentable(t *testing.T) {
	// Relative subjects, predicates and objects have no RDF representation
	// and drop silently.
	got := toNQuads(t, nil, `[
		{"@id": "relative", "http://ex/p": "v"},
		{"@id": "http://ex/a", "relative-p": "v"},
		{"@id": "http://ex/a", "http://ex/q": {"@id": "also-relative"}}
	]`, "")
	if got != "" {
		t.Errorf("unrepresentable content produced quads:\n%s", got)
	}
}

func TestToRDFConflictingIndexes(t *testing.T) {
	opts := NewOptions("")
	p := NewProcessor(opts)
	_, err := p.ToRDF(context.Background(), mustParse(t, `[
		{"@id": "http://ex/a", "@index": "one", "http://ex/p": "v"},
		{"@id": "http://ex/a", "@index": "two", "http://ex/p": "v"}
	]`), "")
	if Code(err) != ConflictingIndexes {
		t.Errorf("error = %v, want %s", err, ConflictingIndexes)
	}
}

func TestToRDFMergesNodes(t *testing.T) {
	// Statements about the same subject merge; duplicate triples collapse.
	got := toNQuads(t, nil, `[
		{"@id": "http://ex/a", "http://ex/p": "v"},
		{"@id": "http://ex/a", "http://ex/p": "v", "http://ex/q": "w"}
	]`, "")
	want := `<http://ex/a> <http://ex/p> "v" .
<http://ex/a> <http://ex/q> "w" .
`
	if got != want {
		t.Errorf("quads:\n%swant:\n%s", got, want)
	}
}
