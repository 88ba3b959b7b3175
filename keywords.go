package jsonld

// JSON-LD keywords. The 1.1 additions are gated on the processing mode where
// the algorithms consult isKeyword.
const (
	kwBase      = "@base"
	kwContainer = "@container"
	kwContext   = "@context"
	kwDirection = "@direction"
	kwGraph     = "@graph"
	kwID        = "@id"
	kwImport    = "@import"
	kwIncluded  = "@included"
	kwIndex     = "@index"
	kwJSON      = "@json"
	kwLanguage  = "@language"
	kwList      = "@list"
	kwNest      = "@nest"
	kwNone      = "@none"
	kwPrefix    = "@prefix"
	kwPropagate = "@propagate"
	kwProtected = "@protected"
	kwReverse   = "@reverse"
	kwSet       = "@set"
	kwType      = "@type"
	kwValue     = "@value"
	kwVersion   = "@version"
	kwVocab     = "@vocab"
)

var keywords10 = map[string]bool{
	kwBase: true, kwContainer: true, kwContext: true, kwGraph: true,
	kwID: true, kwIndex: true, kwLanguage: true, kwList: true,
	kwReverse: true, kwSet: true, kwType: true, kwValue: true,
	kwVocab: true,
}

var keywords11 = map[string]bool{
	kwDirection: true, kwImport: true, kwIncluded: true, kwJSON: true,
	kwNest: true, kwNone: true, kwPrefix: true, kwPropagate: true,
	kwProtected: true, kwVersion: true,
}

// isKeyword reports whether term is a keyword under the given mode.
func isKeyword(term string, mode ProcessingMode) bool {
	if keywords10[term] {
		return true
	}
	return mode != ModeJSONLD10 && keywords11[term]
}

// hasKeywordForm reports whether term looks like a keyword: an @ followed by
// one or more ASCII letters. Such terms are ignored with a warning rather
// than defined or expanded.
func hasKeywordForm(term string) bool {
	if len(term) < 2 || term[0] != '@' {
		return false
	}
	for i := 1; i < len(term); i++ {
		c := term[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
