package jsonld

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/twinfer/jsonld/rdf"
)

// toRDFQuads deserializes an expanded document to RDF quads. The document is
// flattened into a node map first, which relabels every blank node, merges
// statements about the same subject and inverts reverse properties; the
// quads then come out in a deterministic order: default graph first, then
// named graphs in the order their names were first seen, nodes in creation
// order, properties in first-seen order.
//
// Values that have no RDF representation are dropped rather than reported:
// relative node and graph IRIs, relative or keyword-like predicates, and
// blank node predicates unless ProduceGeneralizedRDF is set.
func toRDFQuads(doc ExpandedDocument, opts *Options) ([]rdf.Quad, error) {
	if opts == nil {
		opts = NewOptions("")
	}
	gen := opts.generator()
	nm := newNodeMap(gen)
	for _, io := range doc {
		if _, err := nm.place(io, "", nil, "", nil); err != nil {
			return nil, err
		}
	}

	// List chain and compound literal labels come from the same generator,
	// so they continue the numbering the node map started.
	c := &rdfConverter{gen: gen, opts: opts}
	for _, name := range nm.order {
		var graph rdf.Term
		if name != "" {
			if !isAbsoluteIRI(name) && !isBlankNodeID(name) {
				continue
			}
			graph = c.resource(name)
		}
		bucket := nm.graphs[name]
		for _, id := range bucket.ids {
			if !isAbsoluteIRI(id) && !isBlankNodeID(id) {
				continue
			}
			c.nodeQuads(bucket.nodes[id], graph)
		}
	}
	return c.quads, nil
}

type rdfConverter struct {
	gen   Generator
	opts  *Options
	quads []rdf.Quad
}

func (c *rdfConverter) emit(s, p, o, g rdf.Term) {
	c.quads = append(c.quads, rdf.Quad{Subject: s, Predicate: p, Object: o, Graph: g})
}

func (c *rdfConverter) resource(id string) rdf.Term {
	if isBlankNodeID(id) {
		return rdf.BlankNode(id)
	}
	return rdf.IRI(id)
}

func (c *rdfConverter) nodeQuads(node *flatNode, graph rdf.Term) {
	subject := c.resource(node.id)
	for _, t := range node.types {
		if !isAbsoluteIRI(t) && !isBlankNodeID(t) {
			continue
		}
		c.emit(subject, rdf.Type, c.resource(t), graph)
	}
	for _, prop := range node.keys {
		if isBlankNodeID(prop) {
			if !c.opts.ProduceGeneralizedRDF {
				continue
			}
		} else if !isAbsoluteIRI(prop) {
			continue
		}
		pred := c.resource(prop)
		for _, v := range node.props[prop] {
			if obj := c.objectTerm(v, graph); obj != nil {
				c.emit(subject, pred, obj, graph)
			}
		}
	}
}

// objectTerm converts one flat value to the RDF term it denotes, emitting
// auxiliary quads for list chains and compound literals into the same
// graph. A nil result means the value is not representable and its triple
// is omitted.
func (c *rdfConverter) objectTerm(v flatValue, graph rdf.Term) rdf.Term {
	switch {
	case v.isList:
		return c.listTerm(v.list, graph)
	case v.lit != nil:
		return c.literalTerm(v.lit, graph)
	case v.ref != "":
		if !isAbsoluteIRI(v.ref) && !isBlankNodeID(v.ref) {
			return nil
		}
		return c.resource(v.ref)
	}
	return nil
}

// listTerm emits the rdf:first/rdf:rest chain for a list and returns its
// head. Every item gets its own link even when the item itself has no RDF
// representation, so positions stay aligned with the source list.
func (c *rdfConverter) listTerm(items []flatValue, graph rdf.Term) rdf.Term {
	if len(items) == 0 {
		return rdf.Nil
	}
	links := make([]rdf.BlankNode, len(items))
	for i := range items {
		links[i] = rdf.BlankNode(c.gen.Issue(""))
	}
	for i, item := range items {
		if obj := c.objectTerm(item, graph); obj != nil {
			c.emit(links[i], rdf.First, obj, graph)
		}
		var rest rdf.Term = rdf.Nil
		if i+1 < len(items) {
			rest = links[i+1]
		}
		c.emit(links[i], rdf.Rest, rest, graph)
	}
	return links[0]
}

// literalTerm maps a value object to an RDF literal, or to a blank node
// when direction is kept as a compound literal.
func (c *rdfConverter) literalTerm(v *ValueObject, graph rdf.Term) rdf.Term {
	if v.Type == kwJSON {
		s, err := canonicalJSON(v.Value)
		if err != nil {
			return nil
		}
		return rdf.Literal{Value: s, Datatype: rdf.JSON}
	}

	var lex string
	datatype := rdf.XSDString
	switch val := v.Value.(type) {
	case Bool:
		if val {
			lex = "true"
		} else {
			lex = "false"
		}
		datatype = rdf.XSDBoolean
	case Number:
		lex, datatype = numberLexical(val, v.Type)
	case String:
		lex = string(val)
	default:
		return nil
	}
	if v.Type != "" {
		datatype = rdf.IRI(v.Type)
	}

	// Language tags reach RDF in lowercase; expansion leaves their case
	// alone.
	if v.Direction != "" {
		switch c.opts.RDFDirection {
		case I18nDatatype:
			dt := rdf.IRI(rdf.I18NNamespace + strings.ToLower(v.Language) + "_" + string(v.Direction))
			return rdf.Literal{Value: lex, Datatype: dt}
		case CompoundLiteral:
			b := rdf.BlankNode(c.gen.Issue(""))
			c.emit(b, rdf.Value, rdf.Literal{Value: lex, Datatype: rdf.XSDString}, graph)
			if v.Language != "" {
				c.emit(b, rdf.Language, rdf.Literal{Value: strings.ToLower(v.Language), Datatype: rdf.XSDString}, graph)
			}
			c.emit(b, rdf.Direction, rdf.Literal{Value: string(v.Direction), Datatype: rdf.XSDString}, graph)
			return b
		}
	}
	if v.Language != "" {
		return rdf.Literal{Value: lex, Datatype: rdf.LangString, Language: strings.ToLower(v.Language)}
	}
	return rdf.Literal{Value: lex, Datatype: datatype}
}

// numberLexical picks the canonical lexical form and default datatype for a
// JSON number. Integers stay integers unless the declared datatype forces
// the double form.
func numberLexical(n Number, declaredType string) (string, rdf.IRI) {
	if n.IsInteger() && declaredType != string(rdf.XSDDouble) {
		if i, ok := n.Int64(); ok {
			return strconv.FormatInt(i, 10), rdf.XSDInteger
		}
		// Out of int64 range; the JSON lexical form is already canonical
		// and xsd:integer has no bound.
		return n.String(), rdf.XSDInteger
	}
	return canonicalDouble(n.Float64()), rdf.XSDDouble
}

// canonicalDouble renders f in the canonical xsd:double form: one nonzero
// digit before the point, no trailing zeros, an unpadded exponent.
func canonicalDouble(f float64) string {
	s := fmt.Sprintf("%1.15E", f)
	mantissa, exp, _ := strings.Cut(s, "E")
	mantissa = strings.TrimRight(mantissa, "0")
	if strings.HasSuffix(mantissa, ".") {
		mantissa += "0"
	}
	exp = strings.TrimPrefix(exp, "+")
	neg := strings.HasPrefix(exp, "-")
	if neg {
		exp = strings.TrimPrefix(exp, "-")
	}
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	if neg {
		exp = "-" + exp
	}
	return mantissa + "E" + exp
}
