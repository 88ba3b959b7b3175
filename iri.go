package jsonld

import (
	"net/url"
	"regexp"
	"strings"
)

// isBlankNodeID reports whether s is a blank node identifier.
func isBlankNodeID(s string) bool {
	return strings.HasPrefix(s, "_:")
}

// isAbsoluteIRI reports whether s has the form of an absolute IRI: a valid
// scheme followed by a colon, with no whitespace. Validation is lenient;
// grammar-level IRI checking is out of scope.
func isAbsoluteIRI(s string) bool {
	colon := strings.IndexByte(s, ':')
	if colon <= 0 {
		return false
	}
	scheme := s[:colon]
	c := scheme[0]
	if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
		return false
	}
	for i := 1; i < len(scheme); i++ {
		c := scheme[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '+' || c == '-' || c == '.':
		default:
			return false
		}
	}
	for i := colon + 1; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r', '<', '>', '"', '{', '}', '|', '^', '`', '\\':
			return false
		}
	}
	return true
}

// resolveIRI resolves ref against base per RFC 3986. A missing or
// unparseable base leaves ref unchanged.
func resolveIRI(base, ref string) string {
	if isAbsoluteIRI(ref) || base == "" {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// genDelims are the RFC 3986 gen-delim characters. A simple term whose IRI
// ends in one of these may act as a compact IRI prefix.
const genDelims = ":/?#[]@"

func endsWithGenDelim(iri string) bool {
	return iri != "" && strings.ContainsRune(genDelims, rune(iri[len(iri)-1]))
}

var languageTagPattern = regexp.MustCompile(`^[a-zA-Z]{1,8}(-[a-zA-Z0-9]{1,8})*$`)

// isWellFormedLanguageTag applies a BCP 47 shape check. Tags are kept as
// given either way; malformed ones only produce a warning.
func isWellFormedLanguageTag(tag string) bool {
	return languageTagPattern.MatchString(tag)
}

// expandIRI implements IRI expansion: value is interpreted against the
// active context as a keyword, term, compact IRI, vocabulary-relative or
// document-relative IRI. An empty result means value expands to nothing and
// its carrier must be dropped.
//
// st is non-nil only during context processing, where expansion of one
// term's definition may force definition of terms it depends on.
func expandIRI(active *ActiveContext, value string, docRelative, vocab bool, st *defineState, opts *Options) (string, error) {
	if isKeyword(value, active.mode) {
		return value, nil
	}
	if hasKeywordForm(value) {
		opts.warn(WarnKeywordLikeValue, value)
		return "", nil
	}

	if st != nil {
		if _, ok := st.local.Get(value); ok && !st.defined[value] {
			if err := createTermDefinition(st, value); err != nil {
				return "", err
			}
		}
	}

	if def := active.Term(value); def != nil {
		if isKeyword(def.IRI, active.mode) {
			return def.IRI, nil
		}
		if vocab {
			return def.IRI, nil
		}
	}

	if colon := strings.IndexByte(value, ':'); colon > 0 {
		prefix, suffix := value[:colon], value[colon+1:]
		if prefix == "_" || strings.HasPrefix(suffix, "//") {
			return value, nil
		}
		if st != nil {
			if _, ok := st.local.Get(prefix); ok && !st.defined[prefix] {
				if err := createTermDefinition(st, prefix); err != nil {
					return "", err
				}
			}
		}
		if def := active.Term(prefix); def != nil && def.IRI != "" && def.Prefix {
			return def.IRI + suffix, nil
		}
		if isAbsoluteIRI(value) {
			return value, nil
		}
	}

	if vocab && active.vocab != "" {
		return active.vocab + value, nil
	}
	if docRelative {
		return resolveIRI(active.baseIRI, value), nil
	}
	return value, nil
}
