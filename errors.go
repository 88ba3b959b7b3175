package jsonld

import "errors"

// ErrorCode is the stable machine-readable code of a processing error, using
// the error strings of the JSON-LD API specification.
type ErrorCode string

const (
	// Loading.
	LoadingDocumentFailed      ErrorCode = "loading document failed"
	LoadingRemoteContextFailed ErrorCode = "loading remote context failed"
	MultipleContextLinkHeaders ErrorCode = "multiple context link headers"

	// Context processing.
	InvalidLocalContext          ErrorCode = "invalid local context"
	InvalidContextEntry          ErrorCode = "invalid context entry"
	InvalidContextNullification  ErrorCode = "invalid context nullification"
	InvalidBaseIRI               ErrorCode = "invalid base IRI"
	InvalidVocabMapping          ErrorCode = "invalid vocab mapping"
	InvalidDefaultLanguage       ErrorCode = "invalid default language"
	InvalidBaseDirection         ErrorCode = "invalid base direction"
	InvalidVersionValue          ErrorCode = "invalid @version value"
	ProcessingModeConflict       ErrorCode = "processing mode conflict"
	InvalidImportValue           ErrorCode = "invalid @import value"
	InvalidPropagateValue        ErrorCode = "invalid @propagate value"
	InvalidProtectedValue        ErrorCode = "invalid @protected value"
	InvalidRemoteContext         ErrorCode = "invalid remote context"
	ContextOverflow              ErrorCode = "context overflow"
	InvalidTermDefinition        ErrorCode = "invalid term definition"
	InvalidIRIMapping            ErrorCode = "invalid IRI mapping"
	CyclicIRIMapping             ErrorCode = "cyclic IRI mapping"
	KeywordRedefinition          ErrorCode = "keyword redefinition"
	ProtectedTermRedefinition    ErrorCode = "protected term redefinition"
	InvalidContainerMapping      ErrorCode = "invalid container mapping"
	InvalidTypeMapping           ErrorCode = "invalid type mapping"
	InvalidLanguageMapping       ErrorCode = "invalid language mapping"
	InvalidReverseProperty       ErrorCode = "invalid reverse property"
	InvalidPrefixValue           ErrorCode = "invalid @prefix value"
	InvalidKeywordAlias          ErrorCode = "invalid keyword alias"
	InvalidScopedContext         ErrorCode = "invalid scoped context"

	// Expansion.
	CollidingKeywords          ErrorCode = "colliding keywords"
	InvalidIDValue             ErrorCode = "invalid @id value"
	InvalidTypeValue           ErrorCode = "invalid type value"
	InvalidValueObject         ErrorCode = "invalid value object"
	InvalidValueObjectValue    ErrorCode = "invalid value object value"
	InvalidTypedValue          ErrorCode = "invalid typed value"
	InvalidLanguageTaggedStr   ErrorCode = "invalid language-tagged string"
	InvalidLanguageTaggedValue ErrorCode = "invalid language-tagged value"
	InvalidIndexValue          ErrorCode = "invalid @index value"
	InvalidIncludedValue       ErrorCode = "invalid @included value"
	InvalidReverseValue        ErrorCode = "invalid @reverse value"
	InvalidReversePropertyMap  ErrorCode = "invalid reverse property map"
	InvalidReversePropValue    ErrorCode = "invalid reverse property value"
	InvalidNestValue           ErrorCode = "invalid @nest value"
	InvalidSetOrListObject     ErrorCode = "invalid set or list object"
	InvalidLanguageMapValue    ErrorCode = "invalid language map value"
	ListOfLists                ErrorCode = "list of lists"

	// Flattening / RDF conversion.
	ConflictingIndexes ErrorCode = "conflicting indexes"
)

// Sentinel causes for loader failures.
var (
	// ErrNoLoader is returned by NoLoader, and by operations that need a
	// loader when none is configured.
	ErrNoLoader = errors.New("no document loader configured")

	// ErrNotFound is the cause when a loader has no entry for the IRI.
	ErrNotFound = errors.New("document not found")
)

// ContextError is a fatal error raised while processing a local context.
type ContextError struct {
	Code   ErrorCode
	Detail string
	Err    error
}

func (e *ContextError) Error() string {
	msg := "context processing: " + string(e.Code)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ContextError) Unwrap() error { return e.Err }

func newContextError(code ErrorCode, detail string, err error) error {
	return &ContextError{Code: code, Detail: detail, Err: err}
}

// ExpansionError is a fatal error raised during expansion.
type ExpansionError struct {
	Code   ErrorCode
	Detail string
	Err    error
}

func (e *ExpansionError) Error() string {
	msg := "expansion: " + string(e.Code)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExpansionError) Unwrap() error { return e.Err }

func newExpansionError(code ErrorCode, detail string, err error) error {
	return &ExpansionError{Code: code, Detail: detail, Err: err}
}

// LoadError is a failure to retrieve a remote document or context. URL is
// the target that failed.
type LoadError struct {
	Code ErrorCode
	URL  string
	Err  error
}

func (e *LoadError) Error() string {
	msg := string(e.Code)
	if e.URL != "" {
		msg += ": " + e.URL
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }

// ConflictingIndexesError reports two objects claiming the same node with
// different @index values.
type ConflictingIndexesError struct {
	NodeID string
	IndexA string
	IndexB string
}

func (e *ConflictingIndexesError) Error() string {
	return string(ConflictingIndexes) + ": node " + e.NodeID +
		" has indexes " + e.IndexA + " and " + e.IndexB
}

// Code extracts the stable error code from err or any error it wraps.
// It returns "" when err carries no code.
func Code(err error) ErrorCode {
	var ce *ContextError
	if errors.As(err, &ce) {
		return ce.Code
	}
	var ee *ExpansionError
	if errors.As(err, &ee) {
		return ee.Code
	}
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	var ie *ConflictingIndexesError
	if errors.As(err, &ie) {
		return ConflictingIndexes
	}
	return ""
}
