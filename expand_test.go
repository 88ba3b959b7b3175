package jsonld

import (
	"context"
	"testing"
)

// expandJSON expands src and returns the deterministic JSON serialization of
// the result.
func expandJSON(t *testing.T, opts *Options, src, documentURL string) string {
	t.Helper()
	if opts == nil {
		opts = NewOptions("")
	}
	p := NewProcessor(opts)
	doc, err := p.Expand(context.Background(), mustParse(t, src), documentURL)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	out, err := MarshalExpanded(doc)
	if err != nil {
		t.Fatalf("MarshalExpanded: %v", err)
	}
	return string(out)
}

func expandErr(t *testing.T, opts *Options, src string) error {
	t.Helper()
	if opts == nil {
		opts = NewOptions("")
	}
	p := NewProcessor(opts)
	_, err := p.Expand(context.Background(), mustParse(t, src), "")
	return err
}

func TestExpandBasic(t *testing.T) {
	got := expandJSON(t, nil, `{
		"@context": {
			"@vocab": "http://ex/",
			"homepage": {"@id": "http://ex/home", "@type": "@id"},
			"age": {"@id": "http://ex/age", "@type": "http://www.w3.org/2001/XMLSchema#integer"}
		},
		"@id": "http://ex/jane",
		"@type": "Person",
		"name": "Jane",
		"homepage": "http://jane.example/",
		"age": 33
	}`, "")
	want := `[{"@id":"http://ex/jane","@type":["http://ex/Person"],` +
		`"http://ex/age":[{"@value":33,"@type":"http://www.w3.org/2001/XMLSchema#integer"}],` +
		`"http://ex/home":[{"@id":"http://jane.example/"}],` +
		`"http://ex/name":[{"@value":"Jane"}]}]`
	if got != want {
		t.Errorf("expanded = %s\nwant       %s", got, want)
	}
}

func TestExpandRelativeIRIs(t *testing.T) {
	got := expandJSON(t, nil, `{
		"@context": {"p": {"@id": "http://ex/p", "@type": "@id"}},
		"@id": "jane",
		"p": "friends/bob"
	}`, "http://example.com/people/base")
	want := `[{"@id":"http://example.com/people/jane",` +
		`"http://ex/p":[{"@id":"http://example.com/people/friends/bob"}]}]`
	if got != want {
		t.Errorf("expanded = %s\nwant       %s", got, want)
	}
}

func TestExpandDefaultLanguageAndDirection(t *testing.T) {
	got := expandJSON(t, nil, `{
		"@context": {"@vocab": "http://ex/", "@language": "en", "@direction": "ltr"},
		"label": "hello",
		"count": 4
	}`, "")
	want := `[{"http://ex/count":[{"@value":4}],` +
		`"http://ex/label":[{"@value":"hello","@language":"en","@direction":"ltr"}]}]`
	if got != want {
		t.Errorf("expanded = %s\nwant       %s", got, want)
	}
}

func TestExpandFreeFloatingDrops(t *testing.T) {
	cases := []string{
		`"scalar"`,
		`{"@id": "http://ex/only-an-id"}`,
		`{"@value": "free floating"}`,
		`{"@list": [{"@value": "a"}]}`,
		`[{"@language": "en"}]`,
	}
	for _, src := range cases {
		if got := expandJSON(t, nil, src, ""); got != "[]" {
			t.Errorf("expand(%s) = %s, want []", src, got)
		}
	}
}

func TestExpandListContainer(t *testing.T) {
	got := expandJSON(t, nil, `{
		"@context": {"p": {"@id": "http://ex/p", "@container": "@list"}},
		"@id": "http://ex/a",
		"p": ["x", "y"]
	}`, "")
	want := `[{"@id":"http://ex/a","http://ex/p":[{"@list":[{"@value":"x"},{"@value":"y"}]}]}]`
	if got != want {
		t.Errorf("expanded = %s\nwant       %s", got, want)
	}

	// An empty array still becomes an empty list.
	got = expandJSON(t, nil, `{
		"@context": {"p": {"@id": "http://ex/p", "@container": "@list"}},
		"@id": "http://ex/a",
		"p": []
	}`, "")
	want = `[{"@id":"http://ex/a","http://ex/p":[{"@list":[]}]}]`
	if got != want {
		t.Errorf("empty list = %s\nwant       %s", got, want)
	}
}

func TestExpandListOfLists(t *testing.T) {
	err := expandErr(t, nil, `{
		"@context": {"p": {"@id": "http://ex/p", "@container": "@list"}},
		"p": [["a"]]
	}`)
	if Code(err) != ListOfLists {
		t.Errorf("error = %v, want %s", err, ListOfLists)
	}
	err = expandErr(t, nil, `{"http://ex/p": {"@list": [{"@list": ["a"]}]}}`)
	if Code(err) != ListOfLists {
		t.Errorf("error = %v, want %s", err, ListOfLists)
	}
}

func TestExpandLanguageMap(t *testing.T) {
	got := expandJSON(t, nil, `{
		"@context": {"label": {"@id": "http://ex/label", "@container": "@language"}},
		"@id": "http://ex/a",
		"label": {"en": "hello", "de": ["hallo", "moin"], "@none": "plain"}
	}`, "")
	want := `[{"@id":"http://ex/a","http://ex/label":[` +
		`{"@value":"hello","@language":"en"},` +
		`{"@value":"hallo","@language":"de"},` +
		`{"@value":"moin","@language":"de"},` +
		`{"@value":"plain"}]}]`
	if got != want {
		t.Errorf("expanded = %s\nwant       %s", got, want)
	}
}

func TestExpandIndexMap(t *testing.T) {
	got := expandJSON(t, nil, `{
		"@context": {"p": {"@id": "http://ex/p", "@container": "@index"}},
		"@id": "http://ex/a",
		"p": {"A": {"@id": "http://ex/one"}, "B": "two"}
	}`, "")
	want := `[{"@id":"http://ex/a","http://ex/p":[` +
		`{"@id":"http://ex/one","@index":"A"},` +
		`{"@value":"two","@index":"B"}]}]`
	if got != want {
		t.Errorf("expanded = %s\nwant       %s", got, want)
	}
}

func TestExpandIDMap(t *testing.T) {
	got := expandJSON(t, nil, `{
		"@context": {"post": {"@id": "http://ex/post", "@container": "@id"}},
		"@id": "http://ex/blog",
		"post": {
			"http://ex/p1": {"http://ex/title": "one"},
			"@none": {"http://ex/title": "two"}
		}
	}`, "")
	want := `[{"@id":"http://ex/blog","http://ex/post":[` +
		`{"@id":"http://ex/p1","http://ex/title":[{"@value":"one"}]},` +
		`{"http://ex/title":[{"@value":"two"}]}]}]`
	if got != want {
		t.Errorf("expanded = %s\nwant       %s", got, want)
	}
}

func TestExpandTypeMap(t *testing.T) {
	got := expandJSON(t, nil, `{
		"@context": {"@vocab": "http://ex/", "things": {"@id": "http://ex/things", "@container": "@type"}},
		"@id": "http://ex/zoo",
		"things": {"Cat": {"@id": "http://ex/felix"}}
	}`, "")
	want := `[{"@id":"http://ex/zoo","http://ex/things":[` +
		`{"@id":"http://ex/felix","@type":["http://ex/Cat"]}]}]`
	if got != want {
		t.Errorf("expanded = %s\nwant       %s", got, want)
	}
}

func TestExpandGraphContainer(t *testing.T) {
	got := expandJSON(t, nil, `{
		"@context": {"g": {"@id": "http://ex/g", "@container": "@graph"}},
		"@id": "http://ex/a",
		"g": {"http://ex/p": "v"}
	}`, "")
	want := `[{"@id":"http://ex/a","http://ex/g":[` +
		`{"@graph":[{"http://ex/p":[{"@value":"v"}]}]}]}]`
	if got != want {
		t.Errorf("expanded = %s\nwant       %s", got, want)
	}
}

func TestExpandReverse(t *testing.T) {
	got := expandJSON(t, nil, `{
		"@context": {"children": {"@reverse": "http://ex/parent"}},
		"@id": "http://ex/mom",
		"children": [{"@id": "http://ex/kid"}]
	}`, "")
	want := `[{"@id":"http://ex/mom","@reverse":{"http://ex/parent":[{"@id":"http://ex/kid"}]}}]`
	if got != want {
		t.Errorf("expanded = %s\nwant       %s", got, want)
	}

	// A reverse of a reverse points forward again.
	got = expandJSON(t, nil, `{
		"@context": {"children": {"@reverse": "http://ex/parent"}},
		"@id": "http://ex/kid",
		"@reverse": {"children": {"@id": "http://ex/mom"}}
	}`, "")
	want = `[{"@id":"http://ex/kid","http://ex/parent":[{"@id":"http://ex/mom"}]}]`
	if got != want {
		t.Errorf("expanded = %s\nwant       %s", got, want)
	}

	err := expandErr(t, nil, `{
		"@id": "http://ex/a",
		"@reverse": {"http://ex/q": "not a node"}
	}`)
	if Code(err) != InvalidReversePropValue {
		t.Errorf("error = %v, want %s", err, InvalidReversePropValue)
	}
}

func TestExpandNest(t *testing.T) {
	got := expandJSON(t, nil, `{
		"@context": {"@vocab": "http://ex/", "meta": "@nest"},
		"@id": "http://ex/a",
		"name": "outer",
		"meta": {"inner": "value"}
	}`, "")
	want := `[{"@id":"http://ex/a","http://ex/inner":[{"@value":"value"}],` +
		`"http://ex/name":[{"@value":"outer"}]}]`
	if got != want {
		t.Errorf("expanded = %s\nwant       %s", got, want)
	}

	err := expandErr(t, nil, `{
		"@context": {"@vocab": "http://ex/"},
		"@id": "http://ex/a",
		"@nest": "not a map"
	}`)
	if Code(err) != InvalidNestValue {
		t.Errorf("error = %v, want %s", err, InvalidNestValue)
	}
}

func TestExpandJSONLiteral(t *testing.T) {
	got := expandJSON(t, nil, `{
		"@context": {"data": {"@id": "http://ex/data", "@type": "@json"}},
		"@id": "http://ex/a",
		"data": {"b": 1, "a": [true]}
	}`, "")
	// The payload keeps its member order; canonicalization happens at RDF
	// conversion, not here.
	want := `[{"@id":"http://ex/a","http://ex/data":[{"@value":{"b":1,"a":[true]},"@type":"@json"}]}]`
	if got != want {
		t.Errorf("expanded = %s\nwant       %s", got, want)
	}
}

func TestExpandPropertyScopedContext(t *testing.T) {
	got := expandJSON(t, nil, `{
		"@context": {
			"@vocab": "http://ex/",
			"friend": {"@id": "http://ex/friend", "@context": {"name": "http://alt.example/name"}}
		},
		"@id": "http://ex/a",
		"friend": {"name": "Ann"},
		"name": "Base"
	}`, "")
	want := `[{"@id":"http://ex/a",` +
		`"http://ex/friend":[{"http://alt.example/name":[{"@value":"Ann"}]}],` +
		`"http://ex/name":[{"@value":"Base"}]}]`
	if got != want {
		t.Errorf("expanded = %s\nwant       %s", got, want)
	}
}

func TestExpandTypeScopedContextReverts(t *testing.T) {
	// A type-scoped context applies to the object it types; nested objects
	// fall back to the surrounding context unless the scoped context
	// propagates.
	got := expandJSON(t, nil, `{
		"@context": {
			"@vocab": "http://ex/",
			"Person": {"@context": {"name": "http://person.example/name"}}
		},
		"@type": "Person",
		"name": "Ann",
		"child": {"name": "Bob"}
	}`, "")
	want := `[{"@type":["http://ex/Person"],` +
		`"http://ex/child":[{"http://ex/name":[{"@value":"Bob"}]}],` +
		`"http://person.example/name":[{"@value":"Ann"}]}]`
	if got != want {
		t.Errorf("expanded = %s\nwant       %s", got, want)
	}
}

func TestExpandIncluded(t *testing.T) {
	got := expandJSON(t, nil, `{
		"@id": "http://ex/a",
		"http://ex/p": "v",
		"@included": {"@id": "http://ex/b", "http://ex/q": "w"}
	}`, "")
	want := `[{"@id":"http://ex/a","http://ex/p":[{"@value":"v"}],` +
		`"@included":[{"@id":"http://ex/b","http://ex/q":[{"@value":"w"}]}]}]`
	if got != want {
		t.Errorf("expanded = %s\nwant       %s", got, want)
	}
}

func TestExpandErrors(t *testing.T) {
	cases := []struct {
		src  string
		code ErrorCode
	}{
		{`{"@id": 5}`, InvalidIDValue},
		{`{"@type": 5}`, InvalidTypeValue},
		{`{"@context": {"id": "@id"}, "@id": "http://ex/a", "id": "http://ex/b"}`, CollidingKeywords},
		{`{"http://ex/p": {"@value": "x", "@list": []}}`, InvalidValueObject},
		{`{"http://ex/p": {"@value": {"a": 1}}}`, InvalidValueObjectValue},
		{`{"http://ex/p": {"@value": "x", "@type": "not-absolute"}}`, InvalidTypedValue},
		{`{"http://ex/p": {"@value": 5, "@language": "en"}}`, InvalidLanguageTaggedValue},
		{`{"http://ex/p": {"@language": 5, "@value": "x"}}`, InvalidLanguageTaggedStr},
		{`{"http://ex/p": {"@value": "x", "@direction": "up"}}`, InvalidBaseDirection},
		{`{"http://ex/p": {"@index": 5}}`, InvalidIndexValue},
		{`{"http://ex/p": {"@list": ["a"], "@id": "http://ex/b"}}`, InvalidSetOrListObject},
		{`{"http://ex/p": {"@reverse": 5}}`, InvalidReverseValue},
	}
	for _, tc := range cases {
		if err := expandErr(t, nil, tc.src); Code(err) != tc.code {
			t.Errorf("expand(%s): error = %v, want %s", tc.src, err, tc.code)
		}
	}
}

func TestExpandWarnsAndDropsNonIRIEntries(t *testing.T) {
	var warned []Warning
	opts := NewOptions("")
	opts.WarningHandler = CollectWarnings(&warned)
	got := expandJSON(t, opts, `{
		"@id": "http://ex/a",
		"relative": "dropped",
		"http://ex/p": "kept"
	}`, "")
	want := `[{"@id":"http://ex/a","http://ex/p":[{"@value":"kept"}]}]`
	if got != want {
		t.Errorf("expanded = %s\nwant       %s", got, want)
	}
	if len(warned) != 1 || warned[0].Code != WarnMalformedIRI {
		t.Errorf("warnings = %v, want one %s", warned, WarnMalformedIRI)
	}
}

func TestExpandOrdered(t *testing.T) {
	src := `{
		"@context": {"@vocab": "http://ex/"},
		"@id": "http://ex/a",
		"b": "1",
		"a": "2"
	}`
	plain := expandJSON(t, nil, src, "")
	opts := NewOptions("")
	opts.Ordered = true
	ordered := expandJSON(t, opts, src, "")
	// Serialization sorts properties either way; Ordered changes processing
	// order, not the result here.
	if plain != ordered {
		t.Errorf("ordered processing changed the result:\n%s\n%s", plain, ordered)
	}
}
