package jsonld

import (
	"context"
	"strings"

	"bitbucket.org/creachadair/stringset"
)

// ContextProcessor folds local contexts into active contexts, dereferencing
// remote context references through the configured loader.
type ContextProcessor struct {
	opts *Options
}

// NewContextProcessor returns a processor bound to opts.
func NewContextProcessor(opts *Options) *ContextProcessor {
	return &ContextProcessor{opts: opts}
}

// Process merges the local context into active and returns the derived
// context. active is never mutated. baseURL is the IRI the local context was
// retrieved from, used to resolve relative remote references.
func (p *ContextProcessor) Process(ctx context.Context, active *ActiveContext, local Value, baseURL string) (*ActiveContext, error) {
	return p.process(ctx, active, local, baseURL, stringset.New(), false, true)
}

// defineState threads one local context through term definition. Expanding
// one term's definition may force definition of terms it depends on, so the
// state carries the whole in-progress context.
type defineState struct {
	active            *ActiveContext
	local             Map
	defined           map[string]bool
	opts              *Options
	baseURL           string
	protected         bool
	overrideProtected bool
}

func (p *ContextProcessor) process(ctx context.Context, active *ActiveContext, local Value, baseURL string, remote stringset.Set, overrideProtected, propagate bool) (*ActiveContext, error) {
	result := active.clone()

	// A non-propagating context remembers what to revert to.
	if !propagate && result.previousContext == nil {
		result.previousContext = active
	}

	for _, item := range asArray(local) {
		if m, ok := item.(Map); ok {
			if pv, found := m.Get(kwPropagate); found {
				b, ok := pv.(Bool)
				if !ok {
					return nil, newContextError(InvalidPropagateValue, "", nil)
				}
				if !bool(b) && result.previousContext == nil {
					result.previousContext = active
				}
			}
		}
		switch lc := item.(type) {
		case Null:
			// null clears the context. Reverting protected terms this
			// way needs an explicit override from the caller.
			if !overrideProtected && result.hasProtectedTerms() {
				return nil, newContextError(InvalidContextNullification, "context has protected terms", nil)
			}
			fresh := newActiveContext(active.originalBase, active.mode)
			if !propagate {
				fresh.previousContext = result
			}
			result = fresh

		case String:
			iri := resolveIRI(baseURL, string(lc))
			// A context that references itself, directly or through a chain,
			// never terminates; the chain also has a hard length bound.
			if remote.Contains(iri) || len(remote) > p.maxRemoteContexts() {
				return nil, newContextError(ContextOverflow, iri, nil)
			}
			remote.Add(iri)

			loaded, err := p.opts.loader().Load(ctx, iri)
			if err != nil {
				return nil, newContextError(LoadingRemoteContextFailed, iri, err)
			}
			doc, ok := loaded.Document.(Map)
			if !ok {
				return nil, newContextError(InvalidRemoteContext, iri, nil)
			}
			remoteCtx, ok := doc.Get(kwContext)
			if !ok {
				return nil, newContextError(InvalidRemoteContext, iri+" has no @context", nil)
			}
			// Sibling references must not see this chain's entries.
			chain := stringset.New()
			for e := range remote {
				chain.Add(e)
			}
			result, err = p.process(ctx, result, remoteCtx, loaded.URL, chain, false, true)
			if err != nil {
				return nil, err
			}

		case Map:
			var err error
			result, err = p.processMap(ctx, result, lc, baseURL, remote, overrideProtected)
			if err != nil {
				return nil, err
			}

		default:
			return nil, newContextError(InvalidLocalContext, "context must be null, a string or a map", nil)
		}
	}
	return result, nil
}

func (p *ContextProcessor) maxRemoteContexts() int {
	if p.opts.MaxRemoteContexts > 0 {
		return p.opts.MaxRemoteContexts
	}
	return 32
}

func (p *ContextProcessor) processMap(ctx context.Context, result *ActiveContext, m Map, baseURL string, remote stringset.Set, overrideProtected bool) (*ActiveContext, error) {
	mode := result.mode

	if pv, ok := m.Get(kwPropagate); ok {
		if mode == ModeJSONLD10 {
			return nil, newContextError(InvalidContextEntry, kwPropagate+" requires JSON-LD 1.1", nil)
		}
		if _, isBool := pv.(Bool); !isBool {
			return nil, newContextError(InvalidPropagateValue, "", nil)
		}
	}

	if vv, ok := m.Get(kwVersion); ok {
		n, isNum := vv.(Number)
		if !isNum || n.Float64() != 1.1 {
			return nil, newContextError(InvalidVersionValue, "", nil)
		}
		if p.opts.ProcessingMode == ModeJSONLD10 {
			return nil, newContextError(ProcessingModeConflict, "@version 1.1 under json-ld-1.0", nil)
		}
	}

	if iv, ok := m.Get(kwImport); ok {
		if mode == ModeJSONLD10 {
			return nil, newContextError(InvalidContextEntry, kwImport+" requires JSON-LD 1.1", nil)
		}
		s, isStr := iv.(String)
		if !isStr {
			return nil, newContextError(InvalidImportValue, "", nil)
		}
		iri := resolveIRI(baseURL, string(s))
		loaded, err := p.opts.loader().Load(ctx, iri)
		if err != nil {
			return nil, newContextError(LoadingRemoteContextFailed, iri, err)
		}
		doc, ok := loaded.Document.(Map)
		if !ok {
			return nil, newContextError(InvalidRemoteContext, iri, nil)
		}
		cv, ok := doc.Get(kwContext)
		if !ok {
			return nil, newContextError(InvalidRemoteContext, iri+" has no @context", nil)
		}
		imported, ok := cv.(Map)
		if !ok {
			// @import must reference a single context map.
			return nil, newContextError(InvalidRemoteContext, iri, nil)
		}
		if imported.Has(kwImport) {
			return nil, newContextError(InvalidContextEntry, "imported context contains "+kwImport, nil)
		}
		m = mergeContextMaps(imported, m)
	}

	// @base is ignored inside remote contexts.
	if bv, ok := m.Get(kwBase); ok && len(remote) == 0 {
		switch b := bv.(type) {
		case Null:
			result.baseIRI = ""
		case String:
			switch {
			case isAbsoluteIRI(string(b)):
				result.baseIRI = string(b)
			case result.baseIRI != "":
				result.baseIRI = resolveIRI(result.baseIRI, string(b))
			default:
				return nil, newContextError(InvalidBaseIRI, "relative "+kwBase+" without an established base", nil)
			}
		default:
			return nil, newContextError(InvalidBaseIRI, "", nil)
		}
	}

	if vv, ok := m.Get(kwVocab); ok {
		switch v := vv.(type) {
		case Null:
			result.vocab = ""
		case String:
			iri, err := expandIRI(result, string(v), true, true, nil, p.opts)
			if err != nil {
				return nil, err
			}
			if iri == "" || !(isAbsoluteIRI(iri) || isBlankNodeID(iri)) {
				return nil, newContextError(InvalidVocabMapping, string(v), nil)
			}
			result.vocab = iri
		default:
			return nil, newContextError(InvalidVocabMapping, "", nil)
		}
	}

	if lv, ok := m.Get(kwLanguage); ok {
		switch l := lv.(type) {
		case Null:
			result.defaultLanguage = ""
		case String:
			if !isWellFormedLanguageTag(string(l)) {
				p.opts.warn(WarnMalformedLanguageTag, string(l))
			}
			result.defaultLanguage = string(l)
		default:
			return nil, newContextError(InvalidDefaultLanguage, "", nil)
		}
	}

	if dv, ok := m.Get(kwDirection); ok {
		if mode == ModeJSONLD10 {
			return nil, newContextError(InvalidContextEntry, kwDirection+" requires JSON-LD 1.1", nil)
		}
		switch d := dv.(type) {
		case Null:
			result.defaultDirection = ""
		case String:
			if d != String(DirectionLTR) && d != String(DirectionRTL) {
				return nil, newContextError(InvalidBaseDirection, string(d), nil)
			}
			result.defaultDirection = Direction(d)
		default:
			return nil, newContextError(InvalidBaseDirection, "", nil)
		}
	}

	protected := false
	if pv, ok := m.Get(kwProtected); ok {
		if mode == ModeJSONLD10 {
			return nil, newContextError(InvalidContextEntry, kwProtected+" requires JSON-LD 1.1", nil)
		}
		b, isBool := pv.(Bool)
		if !isBool {
			return nil, newContextError(InvalidProtectedValue, "", nil)
		}
		protected = bool(b)
	}

	st := &defineState{
		active:            result,
		local:             m,
		defined:           make(map[string]bool),
		opts:              p.opts,
		baseURL:           baseURL,
		protected:         protected,
		overrideProtected: overrideProtected,
	}
	for _, e := range m.entries(p.opts.Ordered) {
		switch e.Key {
		case kwBase, kwDirection, kwImport, kwLanguage, kwPropagate, kwProtected, kwVersion, kwVocab:
			continue
		}
		if err := createTermDefinition(st, e.Key); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// mergeContextMaps lays over on top of base, as @import requires. Entries of
// over replace same-key entries of base in place; new entries append.
func mergeContextMaps(base, over Map) Map {
	members := make([]Member, 0, base.Len()+over.Len())
	for _, e := range base.Members() {
		if ov, ok := over.Get(e.Key); ok {
			members = append(members, Member{Key: e.Key, Value: ov})
		} else {
			members = append(members, e)
		}
	}
	for _, e := range over.Members() {
		if !base.Has(e.Key) {
			members = append(members, e)
		}
	}
	return NewMap(members...)
}

// createTermDefinition resolves one entry of the local context into a
// TermDefinition on st.active. Definitions the entry depends on are created
// first; a term depending on itself is a cycle.
func createTermDefinition(st *defineState, term string) error {
	if done, seen := st.defined[term]; seen {
		if done {
			return nil
		}
		return newContextError(CyclicIRIMapping, term, nil)
	}
	st.defined[term] = false
	mode := st.active.mode

	value, _ := st.local.Get(term)

	if term == "" {
		return newContextError(InvalidTermDefinition, "empty term", nil)
	}
	if isKeyword(term, mode) {
		if term == kwType && mode != ModeJSONLD10 {
			// 1.1 allows limited redefinition of @type.
			if err := checkTypeRedefinition(value); err != nil {
				return err
			}
		} else {
			return newContextError(KeywordRedefinition, term, nil)
		}
	} else if hasKeywordForm(term) {
		st.opts.warn(WarnKeywordLikeTerm, term)
		st.defined[term] = true
		return nil
	}

	previous := st.active.Term(term)
	st.active.removeTerm(term)

	simpleTerm := false
	var vm Map
	switch v := value.(type) {
	case nil, Null:
		vm = NewMap(Member{Key: kwID, Value: Null{}})
	case String:
		vm = NewMap(Member{Key: kwID, Value: v})
		simpleTerm = true
	case Map:
		vm = v
	default:
		return newContextError(InvalidTermDefinition, term, nil)
	}

	def := &TermDefinition{Protected: st.protected}
	if pv, ok := vm.Get(kwProtected); ok {
		if mode == ModeJSONLD10 {
			return newContextError(InvalidTermDefinition, kwProtected+" requires JSON-LD 1.1", nil)
		}
		b, isBool := pv.(Bool)
		if !isBool {
			return newContextError(InvalidProtectedValue, term, nil)
		}
		def.Protected = bool(b)
	}

	if tv, ok := vm.Get(kwType); ok {
		ts, isStr := tv.(String)
		if !isStr {
			return newContextError(InvalidTypeMapping, term, nil)
		}
		iri, err := expandIRI(st.active, string(ts), false, true, st, st.opts)
		if err != nil {
			return err
		}
		switch iri {
		case kwJSON, kwNone:
			if mode == ModeJSONLD10 {
				return newContextError(InvalidTypeMapping, iri+" requires JSON-LD 1.1", nil)
			}
		case kwID, kwVocab:
		default:
			if !isAbsoluteIRI(iri) {
				return newContextError(InvalidTypeMapping, string(ts), nil)
			}
		}
		def.Type = iri
	}

	if rv, ok := vm.Get(kwReverse); ok {
		if vm.Has(kwID) || vm.Has(kwNest) {
			return newContextError(InvalidReverseProperty, term, nil)
		}
		rs, isStr := rv.(String)
		if !isStr {
			return newContextError(InvalidIRIMapping, term, nil)
		}
		if hasKeywordForm(string(rs)) {
			st.opts.warn(WarnKeywordLikeValue, string(rs))
			st.defined[term] = true
			return nil
		}
		iri, err := expandIRI(st.active, string(rs), false, true, st, st.opts)
		if err != nil {
			return err
		}
		if !isAbsoluteIRI(iri) && !isBlankNodeID(iri) {
			return newContextError(InvalidIRIMapping, string(rs), nil)
		}
		def.IRI = iri
		if cv, ok := vm.Get(kwContainer); ok {
			c, err := parseContainer(cv, mode)
			if err != nil {
				return err
			}
			if c != ContainerSet && c != ContainerIndex {
				return newContextError(InvalidReverseProperty, "reverse terms only allow "+kwSet+" or "+kwIndex+" containers", nil)
			}
			def.Container = c
		}
		def.Reverse = true
		return finishTermDefinition(st, term, def, previous, vm)
	}

	idValue, hasID := vm.Get(kwID)
	idEqualsTerm := false
	if s, ok := idValue.(String); ok && string(s) == term {
		idEqualsTerm = true
	}

	switch {
	case hasID && !idEqualsTerm:
		switch id := idValue.(type) {
		case Null:
			// The term exists but expands to nothing.
			def.IRI = ""
		case String:
			if hasKeywordForm(string(id)) && !isKeyword(string(id), mode) {
				st.opts.warn(WarnKeywordLikeValue, string(id))
				st.defined[term] = true
				return nil
			}
			iri, err := expandIRI(st.active, string(id), false, true, st, st.opts)
			if err != nil {
				return err
			}
			if !isKeyword(iri, mode) && !isAbsoluteIRI(iri) && !isBlankNodeID(iri) {
				return newContextError(InvalidIRIMapping, string(id), nil)
			}
			if iri == kwContext {
				return newContextError(InvalidKeywordAlias, kwContext, nil)
			}
			def.IRI = iri
			if hasInteriorColon(term) || strings.Contains(term, "/") {
				// The term itself looks like an IRI; its own expansion
				// must agree with the declared mapping.
				st.defined[term] = true
				check, err := expandIRI(st.active, term, false, true, st, st.opts)
				if err != nil {
					return err
				}
				if check != iri {
					return newContextError(InvalidIRIMapping, term+" expands inconsistently", nil)
				}
			} else if mode == ModeJSONLD10 {
				def.Prefix = true
			} else if simpleTerm && (endsWithGenDelim(iri) || isBlankNodeID(iri)) {
				def.Prefix = true
			}
		default:
			return newContextError(InvalidIRIMapping, term, nil)
		}

	case hasInteriorColon(term):
		prefix, suffix, _ := strings.Cut(term, ":")
		if st.local.Has(prefix) && !st.defined[prefix] {
			if err := createTermDefinition(st, prefix); err != nil {
				return err
			}
		}
		if pd := st.active.Term(prefix); pd != nil && pd.IRI != "" {
			def.IRI = pd.IRI + suffix
		} else if isAbsoluteIRI(term) || isBlankNodeID(term) {
			def.IRI = term
		} else {
			return newContextError(InvalidIRIMapping, term, nil)
		}

	case strings.Contains(term, "/"):
		iri, err := expandIRI(st.active, term, false, true, st, st.opts)
		if err != nil {
			return err
		}
		if !isAbsoluteIRI(iri) {
			return newContextError(InvalidIRIMapping, term, nil)
		}
		def.IRI = iri

	case term == kwType:
		def.IRI = kwType

	default:
		if st.active.vocab == "" {
			return newContextError(InvalidIRIMapping, term+" needs a vocabulary mapping", nil)
		}
		def.IRI = st.active.vocab + term
		if mode == ModeJSONLD10 {
			def.Prefix = true
		} else if simpleTerm && (endsWithGenDelim(def.IRI) || isBlankNodeID(def.IRI)) {
			def.Prefix = true
		}
	}

	if cv, ok := vm.Get(kwContainer); ok {
		c, err := parseContainer(cv, mode)
		if err != nil {
			return err
		}
		def.Container = c
		if c.Has(ContainerType) {
			switch def.Type {
			case "":
				def.Type = kwID
			case kwID, kwVocab:
			default:
				return newContextError(InvalidTypeMapping, kwType+" containers allow only "+kwID+" or "+kwVocab+" coercion", nil)
			}
		}
	}

	if xv, ok := vm.Get(kwIndex); ok {
		if mode == ModeJSONLD10 || !def.Container.Has(ContainerIndex) {
			return newContextError(InvalidTermDefinition, kwIndex+" outside an "+kwIndex+" container", nil)
		}
		xs, isStr := xv.(String)
		if !isStr {
			return newContextError(InvalidTermDefinition, term, nil)
		}
		iri, err := expandIRI(st.active, string(xs), false, true, st, st.opts)
		if err != nil {
			return err
		}
		if !isAbsoluteIRI(iri) {
			return newContextError(InvalidTermDefinition, string(xs), nil)
		}
		def.Index = string(xs)
	}

	if cv, ok := vm.Get(kwContext); ok {
		if mode == ModeJSONLD10 {
			return newContextError(InvalidTermDefinition, kwContext+" requires JSON-LD 1.1", nil)
		}
		// Scoped contexts stay unprocessed until the term's scope is
		// entered.
		def.Context = cv
		def.ContextBase = st.baseURL
		def.HasContext = true
	}

	if !vm.Has(kwType) {
		if lv, ok := vm.Get(kwLanguage); ok {
			switch l := lv.(type) {
			case Null:
				def.LanguageSet = true
			case String:
				if !isWellFormedLanguageTag(string(l)) {
					st.opts.warn(WarnMalformedLanguageTag, string(l))
				}
				def.Language = string(l)
				def.LanguageSet = true
			default:
				return newContextError(InvalidLanguageMapping, term, nil)
			}
		}
		if dv, ok := vm.Get(kwDirection); ok {
			switch d := dv.(type) {
			case Null:
				def.DirectionSet = true
			case String:
				if d != String(DirectionLTR) && d != String(DirectionRTL) {
					return newContextError(InvalidBaseDirection, string(d), nil)
				}
				def.Direction = Direction(d)
				def.DirectionSet = true
			default:
				return newContextError(InvalidBaseDirection, term, nil)
			}
		}
	}

	if nv, ok := vm.Get(kwNest); ok {
		if mode == ModeJSONLD10 {
			return newContextError(InvalidTermDefinition, kwNest+" requires JSON-LD 1.1", nil)
		}
		ns, isStr := nv.(String)
		if !isStr || (isKeyword(string(ns), mode) && string(ns) != kwNest) {
			return newContextError(InvalidNestValue, term, nil)
		}
		def.Nest = string(ns)
	}

	if pv, ok := vm.Get(kwPrefix); ok {
		if mode == ModeJSONLD10 || hasInteriorColon(term) || strings.Contains(term, "/") {
			return newContextError(InvalidTermDefinition, term, nil)
		}
		b, isBool := pv.(Bool)
		if !isBool {
			return newContextError(InvalidPrefixValue, term, nil)
		}
		def.Prefix = bool(b)
		if def.Prefix && isKeyword(def.IRI, mode) {
			return newContextError(InvalidTermDefinition, "keyword alias as prefix", nil)
		}
	}

	return finishTermDefinition(st, term, def, previous, vm)
}

// finishTermDefinition validates leftover entries, applies protection rules
// and installs the definition.
func finishTermDefinition(st *defineState, term string, def, previous *TermDefinition, vm Map) error {
	allowed := map[string]bool{
		kwID: true, kwReverse: true, kwContainer: true, kwType: true,
		kwLanguage: true,
	}
	if st.active.mode != ModeJSONLD10 {
		allowed[kwContext] = true
		allowed[kwDirection] = true
		allowed[kwIndex] = true
		allowed[kwNest] = true
		allowed[kwPrefix] = true
		allowed[kwProtected] = true
	}
	for _, e := range vm.Members() {
		if !allowed[e.Key] {
			return newContextError(InvalidTermDefinition, term+" has entry "+e.Key, nil)
		}
	}

	if previous != nil && previous.Protected && !st.overrideProtected {
		if !def.equalsIgnoringProtected(previous) {
			return newContextError(ProtectedTermRedefinition, term, nil)
		}
		def = previous
	}

	st.active.setTerm(term, def)
	st.defined[term] = true
	return nil
}

// checkTypeRedefinition validates the 1.1 special case of redefining @type:
// only @container: @set and @protected are allowed.
func checkTypeRedefinition(value Value) error {
	vm, ok := value.(Map)
	if !ok {
		return newContextError(KeywordRedefinition, kwType, nil)
	}
	for _, e := range vm.Members() {
		switch e.Key {
		case kwContainer:
			if s, ok := e.Value.(String); !ok || string(s) != kwSet {
				return newContextError(KeywordRedefinition, kwType, nil)
			}
		case kwProtected:
		default:
			return newContextError(KeywordRedefinition, kwType, nil)
		}
	}
	return nil
}

// hasInteriorColon reports whether term contains a colon past the first
// character, the shape of a compact IRI.
func hasInteriorColon(term string) bool {
	return strings.IndexByte(term, ':') > 0
}
