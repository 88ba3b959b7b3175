package rdf

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Format serializes quads as an N-Quads document, one statement per line,
// preserving the order given.
func Format(quads []Quad) string {
	var b strings.Builder
	for _, q := range quads {
		b.WriteString(FormatQuad(q))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatQuad serializes a single quad as an N-Quads statement without the
// trailing newline.
func FormatQuad(q Quad) string {
	var b strings.Builder
	b.WriteString(FormatTerm(q.Subject))
	b.WriteByte(' ')
	b.WriteString(FormatTerm(q.Predicate))
	b.WriteByte(' ')
	b.WriteString(FormatTerm(q.Object))
	if q.Graph != nil {
		b.WriteByte(' ')
		b.WriteString(FormatTerm(q.Graph))
	}
	b.WriteString(" .")
	return b.String()
}

// FormatTerm serializes one term. Literals with the xsd:string datatype are
// written in the short form without a datatype suffix.
func FormatTerm(t Term) string {
	switch t := t.(type) {
	case IRI:
		return "<" + string(t) + ">"
	case BlankNode:
		return string(t)
	case Literal:
		s := `"` + escapeLiteral(t.Value) + `"`
		switch {
		case t.Language != "":
			return s + "@" + t.Language
		case t.Datatype != "" && t.Datatype != XSDString:
			return s + "^^<" + string(t.Datatype) + ">"
		default:
			return s
		}
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Sort orders quads by their N-Quads serialization, giving a stable order
// for comparison and canonical output.
func Sort(quads []Quad) {
	sort.Slice(quads, func(i, j int) bool {
		return FormatQuad(quads[i]) < FormatQuad(quads[j])
	})
}

func escapeLiteral(s string) string {
	if !strings.ContainsAny(s, "\"\\\n\r\t") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ParseQuads reads an N-Quads document. Blank lines and full-line comments
// introduced by '#' are skipped. Blank node labels are kept verbatim, and
// blank nodes are accepted in the predicate position so that generalized
// quads survive a round trip.
func ParseQuads(r io.Reader) ([]Quad, error) {
	var quads []Quad
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		q, err := ParseQuad(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		quads = append(quads, q)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read n-quads input: %w", err)
	}
	return quads, nil
}

// ParseQuad parses a single N-Quads statement, with or without a graph
// label and with an optional trailing comment.
func ParseQuad(line string) (Quad, error) {
	p := &lineParser{input: line}
	subj, err := p.term()
	if err != nil {
		return Quad{}, fmt.Errorf("failed to parse subject: %w", err)
	}
	if subj.Kind() == KindLiteral {
		return Quad{}, p.errorf("literal subject is not allowed")
	}
	pred, err := p.term()
	if err != nil {
		return Quad{}, fmt.Errorf("failed to parse predicate: %w", err)
	}
	if pred.Kind() == KindLiteral {
		return Quad{}, p.errorf("literal predicate is not allowed")
	}
	obj, err := p.term()
	if err != nil {
		return Quad{}, fmt.Errorf("failed to parse object: %w", err)
	}
	q := Quad{Subject: subj, Predicate: pred, Object: obj}
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] != '.' {
		g, err := p.term()
		if err != nil {
			return Quad{}, fmt.Errorf("failed to parse graph label: %w", err)
		}
		if g.Kind() == KindLiteral {
			return Quad{}, p.errorf("literal graph label is not allowed")
		}
		q.Graph = g
	}
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != '.' {
		return Quad{}, p.errorf("expected '.' at end of statement")
	}
	p.pos++
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] != '#' {
		return Quad{}, p.errorf("unexpected trailing content %q", p.input[p.pos:])
	}
	return q, nil
}

// lineParser is a cursor over a single N-Quads statement.
type lineParser struct {
	input string
	pos   int
}

// errorf creates an error message with column information.
func (p *lineParser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("col %d: %s", p.pos+1, msg)
}

func (p *lineParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *lineParser) term() (Term, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return nil, p.errorf("unexpected end of statement")
	}
	switch p.input[p.pos] {
	case '<':
		return p.iriRef()
	case '_':
		return p.blankLabel()
	case '"':
		return p.literal()
	}
	return nil, p.errorf("unexpected character %q", p.input[p.pos])
}

func (p *lineParser) iriRef() (IRI, error) {
	p.pos++ // consume '<'
	var b strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case '>':
			p.pos++
			return IRI(b.String()), nil
		case '\\':
			r, err := p.uchar()
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated IRI reference")
}

func (p *lineParser) blankLabel() (BlankNode, error) {
	if !strings.HasPrefix(p.input[p.pos:], "_:") {
		return "", p.errorf("expected blank node label")
	}
	start := p.pos
	p.pos += 2
	for p.pos < len(p.input) && p.input[p.pos] != ' ' && p.input[p.pos] != '\t' {
		p.pos++
	}
	if p.pos == start+2 {
		return "", p.errorf("empty blank node label")
	}
	return BlankNode(p.input[start:p.pos]), nil
}

func (p *lineParser) literal() (Literal, error) {
	p.pos++ // consume opening quote
	var b strings.Builder
	for {
		if p.pos >= len(p.input) {
			return Literal{}, p.errorf("unterminated string literal")
		}
		c := p.input[p.pos]
		if c == '"' {
			p.pos++
			break
		}
		if c != '\\' {
			b.WriteByte(c)
			p.pos++
			continue
		}
		if p.pos+1 >= len(p.input) {
			return Literal{}, p.errorf("truncated escape")
		}
		switch p.input[p.pos+1] {
		case 't':
			b.WriteByte('\t')
			p.pos += 2
		case 'b':
			b.WriteByte('\b')
			p.pos += 2
		case 'n':
			b.WriteByte('\n')
			p.pos += 2
		case 'r':
			b.WriteByte('\r')
			p.pos += 2
		case 'f':
			b.WriteByte('\f')
			p.pos += 2
		case '"':
			b.WriteByte('"')
			p.pos += 2
		case '\'':
			b.WriteByte('\'')
			p.pos += 2
		case '\\':
			b.WriteByte('\\')
			p.pos += 2
		case 'u', 'U':
			r, err := p.uchar()
			if err != nil {
				return Literal{}, err
			}
			b.WriteRune(r)
		default:
			return Literal{}, p.errorf("invalid escape \\%c", p.input[p.pos+1])
		}
	}
	lit := Literal{Value: b.String(), Datatype: XSDString}
	if p.pos < len(p.input) && p.input[p.pos] == '@' {
		p.pos++
		start := p.pos
		for p.pos < len(p.input) && isLangTagChar(p.input[p.pos]) {
			p.pos++
		}
		if p.pos == start {
			return Literal{}, p.errorf("empty language tag")
		}
		lit.Language = p.input[start:p.pos]
		lit.Datatype = LangString
		return lit, nil
	}
	if strings.HasPrefix(p.input[p.pos:], "^^") {
		p.pos += 2
		if p.pos >= len(p.input) || p.input[p.pos] != '<' {
			return Literal{}, p.errorf("expected IRI after ^^")
		}
		dt, err := p.iriRef()
		if err != nil {
			return Literal{}, err
		}
		lit.Datatype = dt
	}
	return lit, nil
}

// uchar decodes a \uXXXX or \UXXXXXXXX escape starting at the backslash.
func (p *lineParser) uchar() (rune, error) {
	p.pos++ // consume '\\'
	if p.pos >= len(p.input) {
		return 0, p.errorf("truncated escape")
	}
	var width int
	switch p.input[p.pos] {
	case 'u':
		width = 4
	case 'U':
		width = 8
	default:
		return 0, p.errorf("invalid escape \\%c", p.input[p.pos])
	}
	p.pos++
	if p.pos+width > len(p.input) {
		return 0, p.errorf("truncated \\%c escape", p.input[p.pos-1])
	}
	v, err := strconv.ParseUint(p.input[p.pos:p.pos+width], 16, 32)
	if err != nil {
		return 0, p.errorf("invalid character escape: %v", err)
	}
	p.pos += width
	return rune(v), nil
}

func isLangTagChar(c byte) bool {
	return c == '-' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
