package jsonld

// expandValue turns a scalar into its expanded object under the coercion
// rules of the active property's term definition: @id and @vocab coercions
// make node references out of strings, a type mapping makes a typed value,
// and otherwise the term's (or context's) language and direction apply to
// strings.
func expandValue(active *ActiveContext, activeProp string, v Value, opts *Options) Object {
	def := active.Term(activeProp)
	typ := ""
	if def != nil {
		typ = def.Type
	}

	// IRI expansion cannot fail without a local context in play.
	if s, ok := v.(String); ok {
		switch typ {
		case kwID:
			iri, _ := expandIRI(active, string(s), true, false, nil, opts)
			return &Node{ID: iri}
		case kwVocab:
			iri, _ := expandIRI(active, string(s), true, true, nil, opts)
			return &Node{ID: iri}
		}
	}

	result := &ValueObject{Value: v}
	switch typ {
	case "", kwID, kwVocab, kwNone:
	default:
		result.Type = typ
		return result
	}

	if _, ok := v.(String); ok {
		if def != nil && def.LanguageSet {
			result.Language = def.Language
		} else {
			result.Language = active.defaultLanguage
		}
		if def != nil && def.DirectionSet {
			result.Direction = def.Direction
		} else {
			result.Direction = active.defaultDirection
		}
	}
	return result
}
