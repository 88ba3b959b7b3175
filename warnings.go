package jsonld

// WarningCode classifies a non-fatal anomaly observed during processing.
type WarningCode string

const (
	// WarnKeywordLikeTerm: a term of the form @xxx was defined or used; it
	// is ignored.
	WarnKeywordLikeTerm WarningCode = "keyword-like term ignored"

	// WarnKeywordLikeValue: an IRI mapping of the form @xxx that is not a
	// keyword; the term is ignored.
	WarnKeywordLikeValue WarningCode = "keyword-like value ignored"

	// WarnMalformedIRI: a key or value did not resolve to an absolute IRI
	// and was dropped.
	WarnMalformedIRI WarningCode = "malformed IRI"

	// WarnMalformedLanguageTag: a language tag is not well-formed per
	// BCP 47; it is kept as given.
	WarnMalformedLanguageTag WarningCode = "language tag is not well-formed"

	// WarnBlankNodePredicate: a property expanded to a blank node
	// identifier, which only generalized RDF can represent.
	WarnBlankNodePredicate WarningCode = "blank node used as predicate"

	// WarnEmptyTerm: an empty string used where a term is expected.
	WarnEmptyTerm WarningCode = "empty term"
)

// Warning is a non-fatal observation. Warnings never abort processing and
// never change the shape of a result.
type Warning struct {
	Code   WarningCode
	Detail string
}

func (w Warning) String() string {
	if w.Detail == "" {
		return string(w.Code)
	}
	return string(w.Code) + ": " + w.Detail
}

// CollectWarnings returns a warning handler that appends to dst.
func CollectWarnings(dst *[]Warning) func(Warning) {
	return func(w Warning) { *dst = append(*dst, w) }
}
