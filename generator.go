package jsonld

import (
	"strconv"

	"github.com/google/uuid"
)

// Generator issues blank node identifiers. Issue maps an existing label to
// its replacement and keeps handing back the same replacement for it; an
// empty existing label gets a fresh identifier each call.
type Generator interface {
	Issue(existing string) string
}

// Issuer is the deterministic Generator used by RDF conversion: labels are
// the prefix followed by a counter, in first-issued order.
type Issuer struct {
	prefix  string
	counter int
	issued  map[string]string
	order   []string
}

// NewIssuer returns an Issuer producing prefix0, prefix1 and so on. The
// conventional prefix is "_:b".
func NewIssuer(prefix string) *Issuer {
	return &Issuer{prefix: prefix, issued: make(map[string]string)}
}

// Issue implements Generator.
func (i *Issuer) Issue(existing string) string {
	if existing != "" {
		if id, ok := i.issued[existing]; ok {
			return id
		}
	}
	id := i.prefix + strconv.Itoa(i.counter)
	i.counter++
	if existing != "" {
		i.issued[existing] = id
		i.order = append(i.order, existing)
	}
	return id
}

// Issued reports whether existing already has a replacement.
func (i *Issuer) Issued(existing string) bool {
	_, ok := i.issued[existing]
	return ok
}

// IssuedOrder returns the existing labels in the order they were first
// issued.
func (i *Issuer) IssuedOrder() []string {
	out := make([]string, len(i.order))
	copy(out, i.order)
	return out
}

// UUIDGenerator issues universally unique blank node labels. Outputs from
// separate conversions never collide, so datasets can be merged without
// relabeling again.
type UUIDGenerator struct {
	issued map[string]string
}

// NewUUIDGenerator returns an empty UUIDGenerator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{issued: make(map[string]string)}
}

// Issue implements Generator.
func (g *UUIDGenerator) Issue(existing string) string {
	if existing != "" {
		if id, ok := g.issued[existing]; ok {
			return id
		}
	}
	id := "_:" + uuid.NewString()
	if existing != "" {
		g.issued[existing] = id
	}
	return id
}
