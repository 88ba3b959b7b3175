package jsonld

import (
	"testing"
)

func TestParseValuePreservesMemberOrder(t *testing.T) {
	doc, err := ParseValue([]byte(`{"z": 1, "a": 2, "m": {"y": true, "b": null}}`))
	if err != nil {
		t.Fatalf("ParseValue: %v", err)
	}
	m, ok := doc.(Map)
	if !ok {
		t.Fatalf("parsed to %T, want Map", doc)
	}
	if got, want := m.Keys(), []string{"z", "a", "m"}; !equalStrings(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	inner, _ := m.Get("m")
	if got, want := inner.(Map).Keys(), []string{"y", "b"}; !equalStrings(got, want) {
		t.Errorf("inner Keys() = %v, want %v", got, want)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	inputs := []string{
		`null`,
		`true`,
		`"hi"`,
		`[1,2.5,1e21,"x",null]`,
		`{"a":[{"b":"c"}],"d":{}}`,
	}
	for _, in := range inputs {
		doc, err := ParseValue([]byte(in))
		if err != nil {
			t.Fatalf("ParseValue(%s): %v", in, err)
		}
		out, err := MarshalValue(doc)
		if err != nil {
			t.Fatalf("MarshalValue(%s): %v", in, err)
		}
		back, err := ParseValue(out)
		if err != nil {
			t.Fatalf("reparse of %s: %v", out, err)
		}
		if !doc.Equal(back) {
			t.Errorf("round trip of %s produced %s", in, out)
		}
	}
}

func TestNumberKeepsLexicalForm(t *testing.T) {
	one, err := ParseValue([]byte(`1`))
	if err != nil {
		t.Fatalf("ParseValue: %v", err)
	}
	onePointOh, err := ParseValue([]byte(`1.0`))
	if err != nil {
		t.Fatalf("ParseValue: %v", err)
	}
	if one.Equal(onePointOh) {
		t.Error("1 and 1.0 compare equal; lexical form should distinguish them")
	}
	n := one.(Number)
	if !n.IsInteger() {
		t.Error("1 should be an integer")
	}
	if n2 := onePointOh.(Number); n2.IsInteger() {
		t.Error("1.0 should not be an integer")
	}
	if i, ok := n.Int64(); !ok || i != 1 {
		t.Errorf("Int64() = %d, %v", i, ok)
	}
}

func TestMapEqualIgnoresOrder(t *testing.T) {
	a := NewMap(Member{Key: "x", Value: Int(1)}, Member{Key: "y", Value: String("s")})
	b := NewMap(Member{Key: "y", Value: String("s")}, Member{Key: "x", Value: Int(1)})
	if !a.Equal(b) {
		t.Error("maps differing only in member order should be equal")
	}
	c := NewMap(Member{Key: "x", Value: Int(2)}, Member{Key: "y", Value: String("s")})
	if a.Equal(c) {
		t.Error("maps with different values should not be equal")
	}
}

func TestCanonicalJSON(t *testing.T) {
	doc, err := ParseValue([]byte(`{"b": 1.0, "a": "x"}`))
	if err != nil {
		t.Fatalf("ParseValue: %v", err)
	}
	got, err := canonicalJSON(doc)
	if err != nil {
		t.Fatalf("canonicalJSON: %v", err)
	}
	// RFC 8785: sorted keys, shortest number form.
	if want := `{"a":"x","b":1}`; got != want {
		t.Errorf("canonicalJSON = %s, want %s", got, want)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
