package jsonld

// flatValue is one object position in the node map: a literal, a list, or a
// reference to a node by its (already relabeled) identifier.
type flatValue struct {
	lit    *ValueObject
	list   []flatValue
	isList bool
	ref    string
}

func flatEqual(a, b flatValue) bool {
	switch {
	case a.lit != nil:
		return b.lit != nil && a.lit.Equal(b.lit)
	case a.isList:
		if !b.isList || len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !flatEqual(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	default:
		return b.lit == nil && !b.isList && a.ref == b.ref
	}
}

// flatNode is a node after node map generation: merged types and properties
// of every object that named the same identifier in the same graph.
type flatNode struct {
	id       string
	types    []string
	keys     []string
	props    map[string][]flatValue
	index    string
	indexSet bool
}

func (n *flatNode) addType(t string) {
	for _, have := range n.types {
		if have == t {
			return
		}
	}
	n.types = append(n.types, t)
}

func (n *flatNode) addUnique(prop string, v flatValue) {
	for _, have := range n.props[prop] {
		if flatEqual(have, v) {
			return
		}
	}
	n.append(prop, v)
}

func (n *flatNode) append(prop string, v flatValue) {
	if n.props == nil {
		n.props = make(map[string][]flatValue)
	}
	if _, ok := n.props[prop]; !ok {
		n.keys = append(n.keys, prop)
	}
	n.props[prop] = append(n.props[prop], v)
}

// graphBucket holds one graph's nodes in creation order.
type graphBucket struct {
	name  string
	ids   []string
	nodes map[string]*flatNode
}

func (g *graphBucket) node(id string) *flatNode {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &flatNode{id: id}
	g.nodes[id] = n
	g.ids = append(g.ids, id)
	return n
}

// nodeMap collects the graphs of an expanded document. Every blank node
// label, including those used as types, predicates or graph names, passes
// through the generator, and anonymous nodes get fresh labels.
type nodeMap struct {
	gen    Generator
	order  []string
	graphs map[string]*graphBucket
}

func newNodeMap(gen Generator) *nodeMap {
	nm := &nodeMap{gen: gen, graphs: make(map[string]*graphBucket)}
	nm.bucket("")
	return nm
}

func (nm *nodeMap) bucket(name string) *graphBucket {
	if g, ok := nm.graphs[name]; ok {
		return g
	}
	g := &graphBucket{name: name, nodes: make(map[string]*flatNode)}
	nm.graphs[name] = g
	nm.order = append(nm.order, name)
	return g
}

func (nm *nodeMap) relabel(id string) string {
	if isBlankNodeID(id) {
		return nm.gen.Issue(id)
	}
	return id
}

// place puts one expanded object into the named graph. When subject and prop
// are set the object becomes a value of that property; when listSink is set
// it becomes a list item instead. For node objects it returns the assigned
// identifier.
func (nm *nodeMap) place(io IndexedObject, graph string, subject *flatNode, prop string, listSink *[]flatValue) (string, error) {
	switch obj := io.Object.(type) {
	case *ValueObject:
		deliverFlat(flatValue{lit: obj}, subject, prop, listSink, false)
		return "", nil

	case *List:
		items := make([]flatValue, 0, len(obj.Items))
		for _, item := range obj.Items {
			if _, err := nm.place(item, graph, nil, "", &items); err != nil {
				return "", err
			}
		}
		deliverFlat(flatValue{list: items, isList: true}, subject, prop, listSink, true)
		return "", nil

	case *Node:
		id := obj.ID
		if id == "" {
			id = nm.gen.Issue("")
		} else {
			id = nm.relabel(id)
		}
		node := nm.bucket(graph).node(id)

		deliverFlat(flatValue{ref: id}, subject, prop, listSink, false)

		if io.Index != "" {
			if node.indexSet && node.index != io.Index {
				return "", &ConflictingIndexesError{NodeID: id, IndexA: node.index, IndexB: io.Index}
			}
			node.index = io.Index
			node.indexSet = true
		}

		for _, t := range obj.Types {
			node.addType(nm.relabel(t))
		}

		for _, p := range obj.Properties.Keys() {
			rp := nm.relabel(p)
			for _, item := range obj.Properties.Get(p) {
				if _, err := nm.place(item, graph, node, rp, nil); err != nil {
					return "", err
				}
			}
		}

		// Reverse properties invert here: each target node gains a forward
		// property pointing back at this one.
		for _, p := range obj.Reverse.Keys() {
			rp := nm.relabel(p)
			for _, target := range obj.Reverse.Get(p) {
				if _, ok := target.Object.(*Node); !ok {
					continue
				}
				tid, err := nm.place(target, graph, nil, "", nil)
				if err != nil {
					return "", err
				}
				nm.bucket(graph).node(tid).addUnique(rp, flatValue{ref: id})
			}
		}

		if obj.HasGraph {
			nm.bucket(id)
			for _, item := range obj.Graph {
				if _, err := nm.place(item, id, nil, "", nil); err != nil {
					return "", err
				}
			}
		}

		for _, item := range obj.Included {
			if _, err := nm.place(item, graph, nil, "", nil); err != nil {
				return "", err
			}
		}
		return id, nil

	default:
		return "", nil
	}
}

// deliverFlat routes a produced value to the list being built or to the
// subject's property. Lists append unconditionally; literals and references
// deduplicate.
func deliverFlat(v flatValue, subject *flatNode, prop string, listSink *[]flatValue, isList bool) {
	if listSink != nil {
		*listSink = append(*listSink, v)
		return
	}
	if subject == nil || prop == "" {
		return
	}
	if isList {
		subject.append(prop, v)
		return
	}
	subject.addUnique(prop, v)
}
