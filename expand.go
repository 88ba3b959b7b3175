package jsonld

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"bitbucket.org/creachadair/stringset"
)

// expander walks a JSON tree and produces expanded objects. It carries the
// context processor so scoped contexts met along the way can be applied.
type expander struct {
	proc *ContextProcessor
	opts *Options
}

func newExpander(opts *Options) *expander {
	return &expander{proc: NewContextProcessor(opts), opts: opts}
}

// expand transforms element into an array of expanded objects. activeProp is
// the empty string at the document top level. fromMap is true when element
// was pulled out of a language, index, id or type map, which suppresses the
// reversion to a pre-propagation context.
func (e *expander) expand(ctx context.Context, active *ActiveContext, activeProp string, element Value, baseURL string, fromMap bool) ([]IndexedObject, error) {
	if element == nil || isNull(element) {
		return nil, nil
	}
	switch el := element.(type) {
	case Array:
		return e.expandArray(ctx, active, activeProp, el, baseURL, fromMap)
	case Map:
		return e.expandObject(ctx, active, activeProp, el, baseURL, fromMap)
	default:
		return e.expandScalar(ctx, active, activeProp, element)
	}
}

func (e *expander) expandScalar(ctx context.Context, active *ActiveContext, activeProp string, element Value) ([]IndexedObject, error) {
	// Free-floating scalars carry no information.
	if activeProp == "" || activeProp == kwGraph {
		return nil, nil
	}
	if def := active.Term(activeProp); def != nil && def.HasContext {
		updated, err := e.proc.process(ctx, active, def.Context, def.ContextBase, stringset.New(), true, true)
		if err != nil {
			return nil, err
		}
		active = updated
	}
	return []IndexedObject{{Object: expandValue(active, activeProp, element, e.opts)}}, nil
}

func (e *expander) expandArray(ctx context.Context, active *ActiveContext, activeProp string, arr Array, baseURL string, fromMap bool) ([]IndexedObject, error) {
	def := active.Term(activeProp)
	insideList := def != nil && def.Container.Has(ContainerList)

	var result []IndexedObject
	for _, item := range arr {
		if insideList {
			if _, ok := item.(Array); ok {
				return nil, newExpansionError(ListOfLists, fmt.Sprintf("nested array under list property %q", activeProp), nil)
			}
		}
		expanded, err := e.expand(ctx, active, activeProp, item, baseURL, fromMap)
		if err != nil {
			return nil, err
		}
		for _, obj := range expanded {
			if insideList {
				if _, ok := obj.Object.(*List); ok {
					return nil, newExpansionError(ListOfLists, fmt.Sprintf("list under list property %q", activeProp), nil)
				}
			}
			result = append(result, obj)
		}
	}
	return result, nil
}

// objectAcc accumulates the entries of one map being expanded. The nest
// machinery folds entries from several source maps into one accumulator, so
// it lives apart from the traversal state.
type objectAcc struct {
	seen map[string]bool

	id    string
	idSet bool

	types    []string
	typesSet bool

	props   Properties
	reverse Properties

	graph    []IndexedObject
	graphSet bool

	included    []IndexedObject
	includedSet bool

	value    Value
	valueSet bool

	language    string
	languageSet bool

	direction    Direction
	directionSet bool

	index    string
	indexSet bool

	list    []IndexedObject
	listSet bool

	set    []IndexedObject
	setSet bool
}

func (e *expander) expandObject(ctx context.Context, active *ActiveContext, activeProp string, element Map, baseURL string, fromMap bool) ([]IndexedObject, error) {
	def := active.Term(activeProp)

	// The property-scoped context comes from the term definition before any
	// reversion below.
	var propScoped Value
	propScopedBase := ""
	hasPropScoped := false
	if def != nil && def.HasContext {
		propScoped, propScopedBase, hasPropScoped = def.Context, def.ContextBase, true
	}

	// Revert to the pre-propagation context unless the object is a value
	// object or a subject reference, which still belong to the scope that
	// introduced them.
	if active.previousContext != nil && !fromMap {
		revert := true
		for _, mem := range element.Members() {
			if expandsToKeyword(active, mem.Key, kwValue) ||
				(element.Len() == 1 && expandsToKeyword(active, mem.Key, kwID)) {
				revert = false
				break
			}
		}
		if revert {
			active = active.previousContext
		}
	}

	if hasPropScoped {
		updated, err := e.proc.process(ctx, active, propScoped, propScopedBase, stringset.New(), true, true)
		if err != nil {
			return nil, err
		}
		active = updated
	}

	if ctxVal, ok := element.Get(kwContext); ok {
		updated, err := e.proc.Process(ctx, active, ctxVal, baseURL)
		if err != nil {
			return nil, err
		}
		active = updated
	}

	// The type-scoped context is the one in force before any contexts
	// introduced by @type values apply. Map keys and @type values keep
	// expanding against it.
	typeScoped := active

	var typeKeys []string
	for _, mem := range element.Members() {
		if expandsToKeyword(active, mem.Key, kwType) {
			typeKeys = append(typeKeys, mem.Key)
		}
	}
	sort.Strings(typeKeys)
	for _, tk := range typeKeys {
		tv, _ := element.Get(tk)
		var terms []string
		for _, item := range asArray(tv) {
			if s, ok := item.(String); ok {
				terms = append(terms, string(s))
			}
		}
		sort.Strings(terms)
		for _, term := range terms {
			td := typeScoped.Term(term)
			if td == nil || !td.HasContext {
				continue
			}
			updated, err := e.proc.process(ctx, active, td.Context, td.ContextBase, stringset.New(), false, false)
			if err != nil {
				return nil, err
			}
			active = updated
		}
	}

	inputType := ""
	if len(typeKeys) > 0 {
		tv, _ := element.Get(typeKeys[len(typeKeys)-1])
		items := asArray(tv)
		for i := len(items) - 1; i >= 0; i-- {
			s, ok := items[i].(String)
			if !ok {
				continue
			}
			it, err := expandIRI(active, string(s), true, true, nil, e.opts)
			if err != nil {
				return nil, err
			}
			inputType = it
			break
		}
	}

	acc := &objectAcc{seen: make(map[string]bool)}
	if err := e.expandEntries(ctx, acc, active, typeScoped, inputType, activeProp, element, baseURL); err != nil {
		return nil, err
	}
	return e.finalize(acc, active, activeProp)
}

// expandEntries processes the entries of element into acc, then folds in any
// @nest groups as if their entries sat on element itself.
func (e *expander) expandEntries(ctx context.Context, acc *objectAcc, active, typeScoped *ActiveContext, inputType, activeProp string, element Map, baseURL string) error {
	var nests []string
	for _, mem := range element.entries(e.opts.Ordered) {
		if mem.Key == kwContext {
			continue
		}
		isNest, err := e.expandEntry(ctx, acc, active, typeScoped, inputType, activeProp, mem.Key, mem.Value, baseURL)
		if err != nil {
			return err
		}
		if isNest {
			nests = append(nests, mem.Key)
		}
	}

	if e.opts.Ordered {
		sort.Strings(nests)
	}
	for _, nestKey := range nests {
		nv, _ := element.Get(nestKey)
		for _, item := range asArray(nv) {
			nested, ok := item.(Map)
			if !ok {
				return newExpansionError(InvalidNestValue, fmt.Sprintf("value of %q must be a map", nestKey), nil)
			}
			for _, mem := range nested.Members() {
				if expandsToKeyword(active, mem.Key, kwValue) {
					return newExpansionError(InvalidNestValue, fmt.Sprintf("nested value under %q contains @value", nestKey), nil)
				}
			}
			if err := e.expandEntries(ctx, acc, active, typeScoped, inputType, activeProp, nested, baseURL); err != nil {
				return err
			}
		}
	}
	return nil
}

// expandEntry handles one key of a map under expansion. It reports whether
// the key names an @nest group, which the caller collects for a second pass.
func (e *expander) expandEntry(ctx context.Context, acc *objectAcc, active, typeScoped *ActiveContext, inputType, activeProp, key string, value Value, baseURL string) (bool, error) {
	expandedProp, err := expandIRI(active, key, false, true, nil, e.opts)
	if err != nil {
		return false, err
	}
	if expandedProp == "" {
		// Keyword-like keys already warned inside IRI expansion; keys whose
		// term maps to null are deliberately hidden.
		return false, nil
	}
	if !strings.ContainsRune(expandedProp, ':') && !isKeyword(expandedProp, active.mode) {
		e.opts.warn(WarnMalformedIRI, fmt.Sprintf("entry %q does not expand to an IRI or keyword", key))
		return false, nil
	}

	if isKeyword(expandedProp, active.mode) {
		return e.expandKeywordEntry(ctx, acc, active, typeScoped, inputType, activeProp, expandedProp, value, baseURL)
	}
	return false, e.expandPropertyEntry(ctx, acc, active, typeScoped, key, expandedProp, value, baseURL)
}

func (e *expander) expandKeywordEntry(ctx context.Context, acc *objectAcc, active, typeScoped *ActiveContext, inputType, activeProp, expandedProp string, value Value, baseURL string) (bool, error) {
	if activeProp == kwReverse {
		return false, newExpansionError(InvalidReversePropertyMap, expandedProp+" inside a reverse property map", nil)
	}
	if acc.seen[expandedProp] {
		merge := active.mode != ModeJSONLD10 && (expandedProp == kwType || expandedProp == kwIncluded)
		if !merge {
			return false, newExpansionError(CollidingKeywords, expandedProp+" appears twice", nil)
		}
	}

	switch expandedProp {
	case kwID:
		s, ok := value.(String)
		if !ok {
			return false, newExpansionError(InvalidIDValue, "value of @id must be a string", nil)
		}
		iri, err := expandIRI(active, string(s), true, false, nil, e.opts)
		if err != nil {
			return false, err
		}
		acc.id = iri
		acc.idSet = true

	case kwType:
		var raw []string
		switch tv := value.(type) {
		case String:
			raw = []string{string(tv)}
		case Array:
			for _, item := range tv {
				s, ok := item.(String)
				if !ok {
					return false, newExpansionError(InvalidTypeValue, "value of @type must be a string or array of strings", nil)
				}
				raw = append(raw, string(s))
			}
		default:
			return false, newExpansionError(InvalidTypeValue, "value of @type must be a string or array of strings", nil)
		}
		for _, s := range raw {
			t, err := expandIRI(typeScoped, s, true, true, nil, e.opts)
			if err != nil {
				return false, err
			}
			if t != "" {
				acc.types = append(acc.types, t)
			}
		}
		acc.typesSet = true

	case kwGraph:
		expanded, err := e.expand(ctx, active, kwGraph, value, baseURL, false)
		if err != nil {
			return false, err
		}
		acc.graph = append(acc.graph, expanded...)
		acc.graphSet = true

	case kwIncluded:
		expanded, err := e.expand(ctx, active, "", value, baseURL, false)
		if err != nil {
			return false, err
		}
		for _, io := range expanded {
			if _, ok := io.Object.(*Node); !ok {
				return false, newExpansionError(InvalidIncludedValue, "values of @included must be node objects", nil)
			}
		}
		acc.included = append(acc.included, expanded...)
		acc.includedSet = true

	case kwValue:
		switch value.(type) {
		case Map, Array:
			if inputType != kwJSON {
				return false, newExpansionError(InvalidValueObjectValue, "value of @value must be a scalar or null", nil)
			}
		}
		acc.value = value
		acc.valueSet = true

	case kwLanguage:
		s, ok := value.(String)
		if !ok {
			return false, newExpansionError(InvalidLanguageTaggedStr, "value of @language must be a string", nil)
		}
		if !isWellFormedLanguageTag(string(s)) {
			e.opts.warn(WarnMalformedLanguageTag, string(s))
		}
		acc.language = string(s)
		acc.languageSet = true

	case kwDirection:
		s, ok := value.(String)
		if !ok || (string(s) != "ltr" && string(s) != "rtl") {
			return false, newExpansionError(InvalidBaseDirection, `value of @direction must be "ltr" or "rtl"`, nil)
		}
		acc.direction = Direction(s)
		acc.directionSet = true

	case kwIndex:
		s, ok := value.(String)
		if !ok {
			return false, newExpansionError(InvalidIndexValue, "value of @index must be a string", nil)
		}
		acc.index = string(s)
		acc.indexSet = true

	case kwList:
		if activeProp == "" || activeProp == kwGraph {
			return false, nil
		}
		expanded, err := e.expand(ctx, active, activeProp, value, baseURL, false)
		if err != nil {
			return false, err
		}
		for _, io := range expanded {
			if _, ok := io.Object.(*List); ok {
				return false, newExpansionError(ListOfLists, "@list contains a list", nil)
			}
		}
		acc.list = expanded
		acc.listSet = true

	case kwSet:
		expanded, err := e.expand(ctx, active, activeProp, value, baseURL, false)
		if err != nil {
			return false, err
		}
		acc.set = expanded
		acc.setSet = true

	case kwReverse:
		if _, ok := value.(Map); !ok {
			return false, newExpansionError(InvalidReverseValue, "value of @reverse must be a map", nil)
		}
		expanded, err := e.expand(ctx, active, kwReverse, value, baseURL, false)
		if err != nil {
			return false, err
		}
		for _, io := range expanded {
			n, ok := io.Object.(*Node)
			if !ok {
				continue
			}
			// Reverses of reverses point forward again.
			for _, iri := range n.Reverse.Keys() {
				acc.props.Add(iri, n.Reverse.Get(iri)...)
			}
			for _, iri := range n.Properties.Keys() {
				for _, item := range n.Properties.Get(iri) {
					switch item.Object.(type) {
					case *ValueObject, *List:
						return false, newExpansionError(InvalidReversePropValue, fmt.Sprintf("reverse value of %q is not a node", iri), nil)
					}
					acc.reverse.Add(iri, item)
				}
			}
		}

	case kwNest:
		return true, nil

	default:
		// Keywords with no role on a node, such as @base or @container,
		// drop.
	}

	acc.seen[expandedProp] = true
	return false, nil
}

func (e *expander) expandPropertyEntry(ctx context.Context, acc *objectAcc, active, typeScoped *ActiveContext, key, expandedProp string, value Value, baseURL string) error {
	def := active.Term(key)

	var expanded []IndexedObject
	switch {
	case def != nil && def.Type == kwJSON && active.mode != ModeJSONLD10:
		// A term typed @json takes its value verbatim as a JSON literal.
		expanded = []IndexedObject{{Object: &ValueObject{Value: value, Type: kwJSON}}}

	case isNull(value):
		return nil

	case def != nil && def.Container.Has(ContainerLanguage) && value.Kind() == KindMap:
		var err error
		expanded, err = e.expandLanguageMap(active, key, value.(Map))
		if err != nil {
			return err
		}

	case def != nil && def.Container&(ContainerIndex|ContainerID|ContainerType) != 0 && value.Kind() == KindMap:
		var err error
		expanded, err = e.expandEntryMap(ctx, active, typeScoped, key, def.Container, value.(Map), baseURL)
		if err != nil {
			return err
		}

	default:
		var err error
		expanded, err = e.expand(ctx, active, key, value, baseURL, false)
		if err != nil {
			return err
		}
	}

	var container Container
	if def != nil {
		container = def.Container
	}

	if container.Has(ContainerGraph) && !container.Has(ContainerID) && !container.Has(ContainerIndex) {
		wrapped := make([]IndexedObject, 0, len(expanded))
		for _, item := range expanded {
			if isGraphObject(item) {
				wrapped = append(wrapped, item)
				continue
			}
			wrapped = append(wrapped, IndexedObject{Object: &Node{Graph: []IndexedObject{item}, HasGraph: true}})
		}
		expanded = wrapped
	}

	if container.Has(ContainerList) {
		already := len(expanded) == 1 && isListObject(expanded[0])
		if !already {
			for _, item := range expanded {
				if _, ok := item.Object.(*List); ok {
					return newExpansionError(ListOfLists, fmt.Sprintf("list under list property %q", key), nil)
				}
			}
			expanded = []IndexedObject{{Object: &List{Items: expanded}}}
		}
	}

	if len(expanded) == 0 {
		return nil
	}

	if def != nil && def.Reverse {
		for _, item := range expanded {
			switch item.Object.(type) {
			case *ValueObject, *List:
				return newExpansionError(InvalidReversePropValue, fmt.Sprintf("reverse value of %q is not a node", key), nil)
			}
			acc.reverse.Add(expandedProp, item)
		}
		return nil
	}

	if isBlankNodeID(expandedProp) {
		e.opts.warn(WarnBlankNodePredicate, expandedProp)
	}
	acc.props.Add(expandedProp, expanded...)
	return nil
}

// expandLanguageMap fans a language map out into language-tagged strings.
func (e *expander) expandLanguageMap(active *ActiveContext, key string, m Map) ([]IndexedObject, error) {
	def := active.Term(key)
	var result []IndexedObject
	for _, mem := range m.entries(e.opts.Ordered) {
		lang := mem.Key
		noLang := expandsToKeyword(active, lang, kwNone)
		for _, item := range asArray(mem.Value) {
			if isNull(item) {
				continue
			}
			s, ok := item.(String)
			if !ok {
				return nil, newExpansionError(InvalidLanguageMapValue, fmt.Sprintf("value under language %q must be a string", lang), nil)
			}
			vo := &ValueObject{Value: s}
			if !noLang {
				if !isWellFormedLanguageTag(lang) {
					e.opts.warn(WarnMalformedLanguageTag, lang)
				}
				vo.Language = lang
			}
			if def != nil && def.DirectionSet {
				vo.Direction = def.Direction
			} else {
				vo.Direction = active.defaultDirection
			}
			result = append(result, IndexedObject{Object: vo})
		}
	}
	return result, nil
}

// expandEntryMap fans an index, id or type map out into its entries, marking
// each expanded item with the map key per the container kind.
func (e *expander) expandEntryMap(ctx context.Context, active, typeScoped *ActiveContext, key string, container Container, m Map, baseURL string) ([]IndexedObject, error) {
	def := active.Term(key)
	indexKey := kwIndex
	if def != nil && def.Index != "" {
		indexKey = def.Index
	}
	asGraph := container.Has(ContainerGraph)

	var result []IndexedObject
	for _, mem := range m.entries(e.opts.Ordered) {
		index := mem.Key

		mapCtx := active
		if container.Has(ContainerType) {
			if td := typeScoped.Term(index); td != nil && td.HasContext {
				updated, err := e.proc.process(ctx, mapCtx, td.Context, td.ContextBase, stringset.New(), false, false)
				if err != nil {
					return nil, err
				}
				mapCtx = updated
			}
		}
		isNone := expandsToKeyword(active, index, kwNone)

		items, err := e.expand(ctx, mapCtx, key, asArray(mem.Value), baseURL, true)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if asGraph && !isGraphObject(item) {
				item = IndexedObject{Object: &Node{Graph: []IndexedObject{item}, HasGraph: true}}
			}
			switch {
			case container.Has(ContainerIndex) && indexKey != kwIndex:
				// Property-based index: the map key re-expands as a value
				// of the index property and lands on the item itself.
				if isNone {
					break
				}
				n, ok := item.Object.(*Node)
				if !ok {
					return nil, newExpansionError(InvalidValueObject, "property-based index on a value object", nil)
				}
				expandedIndexKey, err := expandIRI(active, indexKey, false, true, nil, e.opts)
				if err != nil {
					return nil, err
				}
				iv := expandValue(active, indexKey, String(index), e.opts)
				n.Properties.Prepend(expandedIndexKey, IndexedObject{Object: iv})

			case container.Has(ContainerIndex):
				if !isNone && item.Index == "" {
					item.Index = index
				}

			case container.Has(ContainerID):
				if isNone {
					break
				}
				n, ok := item.Object.(*Node)
				if !ok {
					return nil, newExpansionError(InvalidValueObject, fmt.Sprintf("id map entry under %q is not a node object", index), nil)
				}
				if n.ID == "" {
					iri, err := expandIRI(active, index, true, false, nil, e.opts)
					if err != nil {
						return nil, err
					}
					n.ID = iri
				}

			case container.Has(ContainerType):
				if isNone {
					break
				}
				n, ok := item.Object.(*Node)
				if !ok {
					return nil, newExpansionError(InvalidTypedValue, fmt.Sprintf("type map entry under %q is not a node object", index), nil)
				}
				t, err := expandIRI(active, index, true, true, nil, e.opts)
				if err != nil {
					return nil, err
				}
				if t != "" {
					n.Types = append([]string{t}, n.Types...)
				}
			}
			result = append(result, item)
		}
	}
	return result, nil
}

// finalize validates the accumulated entries and builds the expanded object,
// applying the free-floating drop rules when activeProp warrants them.
func (e *expander) finalize(acc *objectAcc, active *ActiveContext, activeProp string) ([]IndexedObject, error) {
	if acc.valueSet {
		if acc.idSet || acc.graphSet || acc.includedSet || acc.listSet || acc.setSet ||
			acc.props.Len() > 0 || acc.reverse.Len() > 0 {
			return nil, newExpansionError(InvalidValueObject, "@value next to entries that do not belong in a value object", nil)
		}
		if acc.typesSet && (acc.languageSet || acc.directionSet) {
			return nil, newExpansionError(InvalidValueObject, "@value with both @type and @language or @direction", nil)
		}
		typ := ""
		switch {
		case len(acc.types) == 1:
			typ = acc.types[0]
		case len(acc.types) > 1:
			return nil, newExpansionError(InvalidTypedValue, "@value with multiple @type values", nil)
		}
		if typ == kwJSON {
			return e.finish(acc, &ValueObject{Value: acc.value, Type: kwJSON}, activeProp), nil
		}
		if isNull(acc.value) {
			return nil, nil
		}
		if acc.languageSet {
			if _, ok := acc.value.(String); !ok {
				return nil, newExpansionError(InvalidLanguageTaggedValue, "@language on a non-string @value", nil)
			}
		}
		if typ != "" {
			if !isAbsoluteIRI(typ) {
				return nil, newExpansionError(InvalidTypedValue, fmt.Sprintf("datatype %q is not an IRI", typ), nil)
			}
		} else {
			switch acc.value.(type) {
			case Map, Array:
				return nil, newExpansionError(InvalidValueObjectValue, "value of @value must be a scalar or null", nil)
			}
		}
		vo := &ValueObject{Value: acc.value, Type: typ, Language: acc.language, Direction: acc.direction}
		return e.finish(acc, vo, activeProp), nil
	}

	if acc.listSet {
		if acc.idSet || acc.typesSet || acc.graphSet || acc.includedSet || acc.setSet ||
			acc.languageSet || acc.directionSet || acc.props.Len() > 0 || acc.reverse.Len() > 0 {
			return nil, newExpansionError(InvalidSetOrListObject, "@list next to entries that do not belong in a list object", nil)
		}
		return e.finish(acc, &List{Items: acc.list}, activeProp), nil
	}

	if acc.setSet {
		if acc.idSet || acc.typesSet || acc.graphSet || acc.includedSet ||
			acc.languageSet || acc.directionSet || acc.props.Len() > 0 || acc.reverse.Len() > 0 {
			return nil, newExpansionError(InvalidSetOrListObject, "@set next to entries that do not belong in a set object", nil)
		}
		// The set splices into its surroundings; its own @index does not
		// survive.
		return acc.set, nil
	}

	// A map holding nothing but @language expands to nothing.
	if acc.languageSet && !acc.idSet && !acc.typesSet && !acc.indexSet && !acc.directionSet &&
		!acc.graphSet && !acc.includedSet && acc.props.Len() == 0 && acc.reverse.Len() == 0 {
		return nil, nil
	}

	n := &Node{
		ID:         acc.id,
		Types:      acc.types,
		Properties: acc.props,
		Reverse:    acc.reverse,
		Graph:      acc.graph,
		HasGraph:   acc.graphSet,
		Included:   acc.included,
	}
	if (activeProp == "" || activeProp == kwGraph) && !acc.indexSet {
		if n.isEmpty() || n.hasOnlyID() {
			return nil, nil
		}
	}
	return e.finish(acc, n, activeProp), nil
}

// finish attaches the collected @index and drops free-floating values and
// lists at the top level or directly under @graph.
func (e *expander) finish(acc *objectAcc, obj Object, activeProp string) []IndexedObject {
	if activeProp == "" || activeProp == kwGraph {
		switch obj.(type) {
		case *ValueObject, *List:
			return nil
		}
	}
	return []IndexedObject{{Object: obj, Index: acc.index}}
}

// expandsToKeyword reports whether key expands to the given keyword under
// active, either literally or through a term alias. Keywords only arise from
// those two paths, so this avoids the warnings a full IRI expansion of the
// key would emit.
func expandsToKeyword(active *ActiveContext, key, keyword string) bool {
	if key == keyword {
		return true
	}
	if def := active.Term(key); def != nil {
		return def.IRI == keyword
	}
	return false
}

func isGraphObject(io IndexedObject) bool {
	n, ok := io.Object.(*Node)
	return ok && n.HasGraph
}

func isListObject(io IndexedObject) bool {
	_, ok := io.Object.(*List)
	return ok
}
