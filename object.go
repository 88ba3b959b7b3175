package jsonld

import (
	"bytes"
	"sort"

	"github.com/go-json-experiment/json/jsontext"
)

// Object is one expanded-form object: a *Node, a *ValueObject or a *List.
type Object interface {
	// Equal is structural equality; property order is irrelevant, value
	// order within a property is not.
	Equal(Object) bool

	MarshalJSONTo(enc *jsontext.Encoder) error
	marshalExpanded(enc *jsontext.Encoder, index string) error
}

// IndexedObject is an Object together with the @index it was filed under,
// when it came out of an index map or carried an explicit @index entry.
type IndexedObject struct {
	Object Object
	Index  string
}

// Equal reports structural equality of object and index.
func (io IndexedObject) Equal(other IndexedObject) bool {
	if io.Index != other.Index {
		return false
	}
	if io.Object == nil || other.Object == nil {
		return io.Object == other.Object
	}
	return io.Object.Equal(other.Object)
}

// MarshalJSONTo implements json.MarshalerTo, emitting the object with its
// @index entry restored.
func (io IndexedObject) MarshalJSONTo(enc *jsontext.Encoder) error {
	return io.Object.marshalExpanded(enc, io.Index)
}

// Properties is an insertion-ordered multimap from predicate IRI to objects.
type Properties struct {
	keys   []string
	values map[string][]IndexedObject
}

// Add appends objs under iri, keeping first-seen key order.
func (p *Properties) Add(iri string, objs ...IndexedObject) {
	if p.values == nil {
		p.values = make(map[string][]IndexedObject)
	}
	if _, ok := p.values[iri]; !ok {
		p.keys = append(p.keys, iri)
	}
	p.values[iri] = append(p.values[iri], objs...)
}

// Prepend inserts objs under iri ahead of any objects already there.
func (p *Properties) Prepend(iri string, objs ...IndexedObject) {
	if p.values == nil {
		p.values = make(map[string][]IndexedObject)
	}
	if _, ok := p.values[iri]; !ok {
		p.keys = append(p.keys, iri)
	}
	p.values[iri] = append(append([]IndexedObject{}, objs...), p.values[iri]...)
}

// AddUnique appends obj under iri unless an equal object is already there.
func (p *Properties) AddUnique(iri string, obj IndexedObject) {
	for _, have := range p.Get(iri) {
		if have.Equal(obj) {
			return
		}
	}
	p.Add(iri, obj)
}

// Get returns the objects under iri.
func (p *Properties) Get(iri string) []IndexedObject {
	if p.values == nil {
		return nil
	}
	return p.values[iri]
}

// Has reports whether iri has at least one object.
func (p *Properties) Has(iri string) bool { return len(p.Get(iri)) > 0 }

// Len returns the number of distinct predicate IRIs.
func (p *Properties) Len() int { return len(p.keys) }

// Keys returns the predicate IRIs in first-seen order.
func (p *Properties) Keys() []string { return p.keys }

// SortedKeys returns the predicate IRIs sorted lexicographically.
func (p *Properties) SortedKeys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	sort.Strings(out)
	return out
}

// Equal compares as a multimap: same keys, same object lists per key.
func (p *Properties) Equal(o *Properties) bool {
	if p.Len() != o.Len() {
		return false
	}
	for _, k := range p.keys {
		a, b := p.Get(k), o.Get(k)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
	}
	return true
}

// Node is an expanded node object.
type Node struct {
	// ID is the node identifier, an IRI or blank node label. Empty means
	// anonymous.
	ID string

	// Types are the @type IRIs in the order they appeared.
	Types []string

	// Properties holds the forward properties, Reverse the @reverse ones.
	Properties Properties
	Reverse    Properties

	// Graph holds the named graph content when HasGraph is set. An empty
	// graph and no graph differ.
	Graph    []IndexedObject
	HasGraph bool

	// Included holds @included node objects.
	Included []IndexedObject
}

// ValueObject is an expanded literal.
type ValueObject struct {
	// Value is the literal payload. For @json-typed literals it may be
	// any JSON tree; otherwise it is a scalar.
	Value Value

	// Type is the datatype IRI or the keyword @json. A typed value
	// carries no language or direction.
	Type string

	// Language is the language tag, case preserved as written.
	Language string

	// Direction is the base direction, when one applies.
	Direction Direction
}

// List is an expanded ordered list.
type List struct {
	Items []IndexedObject
}

// ExpandedDocument is the top level of an expanded document.
type ExpandedDocument []IndexedObject

// hasOnlyID reports whether the node carries no content besides an @id,
// which makes it free-floating at the top level.
func (n *Node) hasOnlyID() bool {
	return len(n.Types) == 0 && n.Properties.Len() == 0 && n.Reverse.Len() == 0 &&
		!n.HasGraph && len(n.Included) == 0
}

// isEmpty reports whether the node carries nothing at all.
func (n *Node) isEmpty() bool {
	return n.ID == "" && n.hasOnlyID()
}

func (n *Node) Equal(other Object) bool {
	o, ok := other.(*Node)
	if !ok {
		return false
	}
	if n.ID != o.ID || len(n.Types) != len(o.Types) ||
		n.HasGraph != o.HasGraph ||
		len(n.Graph) != len(o.Graph) || len(n.Included) != len(o.Included) {
		return false
	}
	for i := range n.Types {
		if n.Types[i] != o.Types[i] {
			return false
		}
	}
	if !n.Properties.Equal(&o.Properties) || !n.Reverse.Equal(&o.Reverse) {
		return false
	}
	for i := range n.Graph {
		if !n.Graph[i].Equal(o.Graph[i]) {
			return false
		}
	}
	for i := range n.Included {
		if !n.Included[i].Equal(o.Included[i]) {
			return false
		}
	}
	return true
}

func (v *ValueObject) Equal(other Object) bool {
	o, ok := other.(*ValueObject)
	if !ok {
		return false
	}
	if v.Type != o.Type || v.Language != o.Language || v.Direction != o.Direction {
		return false
	}
	if v.Value == nil || o.Value == nil {
		return v.Value == nil && o.Value == nil
	}
	return v.Value.Equal(o.Value)
}

func (l *List) Equal(other Object) bool {
	o, ok := other.(*List)
	if !ok || len(l.Items) != len(o.Items) {
		return false
	}
	for i := range l.Items {
		if !l.Items[i].Equal(o.Items[i]) {
			return false
		}
	}
	return true
}

// Equal compares two expanded documents element by element.
func (d ExpandedDocument) Equal(o ExpandedDocument) bool {
	if len(d) != len(o) {
		return false
	}
	for i := range d {
		if !d[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// MarshalJSONTo implements json.MarshalerTo. Output is deterministic:
// keyword entries in a fixed order, properties sorted by IRI.
func (d ExpandedDocument) MarshalJSONTo(enc *jsontext.Encoder) error {
	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return err
	}
	for _, obj := range d {
		if err := obj.MarshalJSONTo(enc); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndArray)
}

func (n *Node) MarshalJSONTo(enc *jsontext.Encoder) error {
	return n.marshalExpanded(enc, "")
}

func (n *Node) marshalExpanded(enc *jsontext.Encoder, index string) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	if n.ID != "" {
		if err := writeEntry(enc, kwID, String(n.ID)); err != nil {
			return err
		}
	}
	if len(n.Types) > 0 {
		if err := enc.WriteToken(jsontext.String(kwType)); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.BeginArray); err != nil {
			return err
		}
		for _, t := range n.Types {
			if err := enc.WriteToken(jsontext.String(t)); err != nil {
				return err
			}
		}
		if err := enc.WriteToken(jsontext.EndArray); err != nil {
			return err
		}
	}
	if err := marshalProperties(enc, &n.Properties); err != nil {
		return err
	}
	if n.Reverse.Len() > 0 {
		if err := enc.WriteToken(jsontext.String(kwReverse)); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.BeginObject); err != nil {
			return err
		}
		if err := marshalProperties(enc, &n.Reverse); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.EndObject); err != nil {
			return err
		}
	}
	if len(n.Included) > 0 {
		if err := marshalObjectArray(enc, kwIncluded, n.Included); err != nil {
			return err
		}
	}
	if n.HasGraph {
		if err := marshalObjectArray(enc, kwGraph, n.Graph); err != nil {
			return err
		}
	}
	if index != "" {
		if err := writeEntry(enc, kwIndex, String(index)); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

func (v *ValueObject) MarshalJSONTo(enc *jsontext.Encoder) error {
	return v.marshalExpanded(enc, "")
}

func (v *ValueObject) marshalExpanded(enc *jsontext.Encoder, index string) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	if err := writeEntry(enc, kwValue, v.Value); err != nil {
		return err
	}
	if v.Type != "" {
		if err := writeEntry(enc, kwType, String(v.Type)); err != nil {
			return err
		}
	}
	if v.Language != "" {
		if err := writeEntry(enc, kwLanguage, String(v.Language)); err != nil {
			return err
		}
	}
	if v.Direction != "" {
		if err := writeEntry(enc, kwDirection, String(string(v.Direction))); err != nil {
			return err
		}
	}
	if index != "" {
		if err := writeEntry(enc, kwIndex, String(index)); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

func (l *List) MarshalJSONTo(enc *jsontext.Encoder) error {
	return l.marshalExpanded(enc, "")
}

func (l *List) marshalExpanded(enc *jsontext.Encoder, index string) error {
	if err := enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	if err := marshalObjectArray(enc, kwList, l.Items); err != nil {
		return err
	}
	if index != "" {
		if err := writeEntry(enc, kwIndex, String(index)); err != nil {
			return err
		}
	}
	return enc.WriteToken(jsontext.EndObject)
}

func writeEntry(enc *jsontext.Encoder, key string, v Value) error {
	if err := enc.WriteToken(jsontext.String(key)); err != nil {
		return err
	}
	return v.MarshalJSONTo(enc)
}

func marshalProperties(enc *jsontext.Encoder, p *Properties) error {
	for _, iri := range p.SortedKeys() {
		if err := enc.WriteToken(jsontext.String(iri)); err != nil {
			return err
		}
		if err := enc.WriteToken(jsontext.BeginArray); err != nil {
			return err
		}
		for _, obj := range p.Get(iri) {
			if err := obj.MarshalJSONTo(enc); err != nil {
				return err
			}
		}
		if err := enc.WriteToken(jsontext.EndArray); err != nil {
			return err
		}
	}
	return nil
}

func marshalObjectArray(enc *jsontext.Encoder, key string, objs []IndexedObject) error {
	if err := enc.WriteToken(jsontext.String(key)); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return err
	}
	for _, obj := range objs {
		if err := obj.MarshalJSONTo(enc); err != nil {
			return err
		}
	}
	if err := enc.WriteToken(jsontext.EndArray); err != nil {
		return err
	}
	return nil
}

// MarshalExpanded serializes an expanded document to compact JSON bytes.
func MarshalExpanded(doc ExpandedDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf)
	if err := doc.MarshalJSONTo(enc); err != nil {
		return nil, err
	}
	b := buf.Bytes()
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
	}
	return b, nil
}
