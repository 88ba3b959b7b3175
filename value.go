package jsonld

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/go-json-experiment/json/jsontext"
)

// Kind identifies the JSON shape of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindMap
)

// Value is one node of a parsed JSON tree. Map values keep their members in
// document order, which is significant for context processing and expansion.
type Value interface {
	Kind() Kind
	Equal(Value) bool
	MarshalJSONTo(enc *jsontext.Encoder) error
}

// Null is the JSON null value.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// String is a JSON string.
type String string

// Number is a JSON number. The lexical form from the document is preserved so
// that integers survive beyond float64 precision and RDF conversion can tell
// 1 from 1.0.
type Number struct {
	raw string
}

// Array is a JSON array.
type Array []Value

// Member is a single key-value entry of a Map.
type Member struct {
	Key   string
	Value Value
}

// Map is a JSON object with insertion-ordered members.
type Map struct {
	members []Member
}

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (Array) Kind() Kind  { return KindArray }
func (Map) Kind() Kind    { return KindMap }

// Int returns a Number holding the integer i.
func Int(i int64) Number {
	return Number{raw: strconv.FormatInt(i, 10)}
}

// Float returns a Number holding the shortest lexical form of f.
func Float(f float64) Number {
	return Number{raw: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Float64 returns the number as a float64.
func (n Number) Float64() float64 {
	f, _ := strconv.ParseFloat(n.raw, 64)
	return f
}

// Int64 returns the number as an int64 if its lexical form is a plain
// integer in range.
func (n Number) Int64() (int64, bool) {
	i, err := strconv.ParseInt(n.raw, 10, 64)
	return i, err == nil
}

// IsInteger reports whether the lexical form has no fraction or exponent.
func (n Number) IsInteger() bool {
	for i := 0; i < len(n.raw); i++ {
		switch n.raw[i] {
		case '.', 'e', 'E':
			return false
		}
	}
	return true
}

// String returns the lexical form of the number.
func (n Number) String() string { return n.raw }

// NewMap builds a Map from members, keeping their order.
func NewMap(members ...Member) Map {
	return Map{members: members}
}

// Len returns the number of members.
func (m Map) Len() int { return len(m.members) }

// Get returns the value for key and whether it is present.
func (m Map) Get(key string) (Value, bool) {
	for _, e := range m.members {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (m Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Members returns the members in document order. The slice must not be
// modified.
func (m Map) Members() []Member { return m.members }

// Keys returns the member keys in document order.
func (m Map) Keys() []string {
	keys := make([]string, len(m.members))
	for i, e := range m.members {
		keys[i] = e.Key
	}
	return keys
}

// entries returns the members in document order, or sorted by key when
// ordered is true.
func (m Map) entries(ordered bool) []Member {
	if !ordered {
		return m.members
	}
	out := make([]Member, len(m.members))
	copy(out, m.members)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Equal reports deep equality. Map member order is ignored; Number compares
// by lexical form.
func (v Null) Equal(other Value) bool {
	return other != nil && other.Kind() == KindNull
}

func (v Bool) Equal(other Value) bool {
	o, ok := other.(Bool)
	return ok && v == o
}

func (v Number) Equal(other Value) bool {
	o, ok := other.(Number)
	return ok && v.raw == o.raw
}

func (v String) Equal(other Value) bool {
	o, ok := other.(String)
	return ok && v == o
}

func (v Array) Equal(other Value) bool {
	o, ok := other.(Array)
	if !ok || len(v) != len(o) {
		return false
	}
	for i := range v {
		if !v[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

func (v Map) Equal(other Value) bool {
	o, ok := other.(Map)
	if !ok || len(v.members) != len(o.members) {
		return false
	}
	for _, e := range v.members {
		ov, ok := o.Get(e.Key)
		if !ok || !e.Value.Equal(ov) {
			return false
		}
	}
	return true
}

// isNull reports whether v is absent or JSON null.
func isNull(v Value) bool {
	return v == nil || v.Kind() == KindNull
}

// ParseValue parses data into a Value tree.
func ParseValue(data []byte) (Value, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data))
	v, err := DecodeValue(dec)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeValue reads one JSON value from dec into a Value tree.
func DecodeValue(dec *jsontext.Decoder) (Value, error) {
	switch dec.PeekKind() {
	case '0':
		// Read numbers as raw text to preserve the lexical form.
		raw, err := dec.ReadValue()
		if err != nil {
			return nil, fmt.Errorf("failed to read number: %w", err)
		}
		return Number{raw: string(raw)}, nil
	}

	tok, err := dec.ReadToken()
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	switch tok.Kind() {
	case 'n':
		return Null{}, nil

	case 't':
		return Bool(true), nil

	case 'f':
		return Bool(false), nil

	case '"':
		return String(tok.String()), nil

	case '[':
		var items Array
		for dec.PeekKind() != ']' {
			item, err := DecodeValue(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, fmt.Errorf("failed to read array end: %w", err)
		}
		return items, nil

	case '{':
		var members []Member
		for dec.PeekKind() != '}' {
			keyTok, err := dec.ReadToken()
			if err != nil {
				return nil, fmt.Errorf("failed to read object key: %w", err)
			}
			key := keyTok.String()
			val, err := DecodeValue(dec)
			if err != nil {
				return nil, err
			}
			members = append(members, Member{Key: key, Value: val})
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, fmt.Errorf("failed to read object end: %w", err)
		}
		return Map{members: members}, nil

	default:
		return nil, fmt.Errorf("unexpected token kind %q", tok.Kind())
	}
}

// MarshalJSONTo implements json.MarshalerTo.
func (v Null) MarshalJSONTo(enc *jsontext.Encoder) error {
	return enc.WriteToken(jsontext.Null)
}

// MarshalJSONTo implements json.MarshalerTo.
func (v Bool) MarshalJSONTo(enc *jsontext.Encoder) error {
	return enc.WriteToken(jsontext.Bool(bool(v)))
}

// MarshalJSONTo implements json.MarshalerTo.
func (n Number) MarshalJSONTo(enc *jsontext.Encoder) error {
	return enc.WriteValue(jsontext.Value(n.raw))
}

// MarshalJSONTo implements json.MarshalerTo.
func (v String) MarshalJSONTo(enc *jsontext.Encoder) error {
	return enc.WriteToken(jsontext.String(string(v)))
}

// MarshalJSONTo implements json.MarshalerTo.
func (v Array) MarshalJSONTo(enc *jsontext.Encoder) error {
	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return err
	}
	for _, item := range v {
		if err := item.MarshalJSONTo(enc); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndArray)
}

// MarshalJSONTo implements json.MarshalerTo.
func (m Map) MarshalJSONTo(enc *jsontext.Encoder) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	for _, e := range m.members {
		if err := enc.WriteToken(jsontext.String(e.Key)); err != nil {
			return err
		}
		if err := e.Value.MarshalJSONTo(enc); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

// MarshalValue serializes v to compact JSON.
func MarshalValue(v Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf)
	if err := v.MarshalJSONTo(enc); err != nil {
		return nil, err
	}
	b := buf.Bytes()
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
	}
	return b, nil
}

// canonicalJSON returns the RFC 8785 canonical form of v, as used for
// rdf:JSON literal lexical values.
func canonicalJSON(v Value) (string, error) {
	b, err := MarshalValue(v)
	if err != nil {
		return "", err
	}
	raw := jsontext.Value(b)
	if err := raw.Canonicalize(); err != nil {
		return "", fmt.Errorf("failed to canonicalize JSON literal: %w", err)
	}
	return string(raw), nil
}

// asArray wraps v in a single-element array unless it already is one. Null
// is kept as an element; callers that drop nulls do so explicitly.
func asArray(v Value) Array {
	switch t := v.(type) {
	case nil:
		return nil
	case Array:
		return t
	default:
		return Array{v}
	}
}
