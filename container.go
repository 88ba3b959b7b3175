package jsonld

import (
	"math/bits"
	"strings"
)

// Container is the container mapping of a term definition, a closed set of
// keyword flags with the combination rules of JSON-LD 1.1.
type Container uint8

const (
	ContainerList Container = 1 << iota
	ContainerSet
	ContainerIndex
	ContainerLanguage
	ContainerType
	ContainerID
	ContainerGraph
)

var containerNames = []struct {
	flag Container
	name string
}{
	{ContainerList, kwList},
	{ContainerSet, kwSet},
	{ContainerIndex, kwIndex},
	{ContainerLanguage, kwLanguage},
	{ContainerType, kwType},
	{ContainerID, kwID},
	{ContainerGraph, kwGraph},
}

// Has reports whether all flags in c2 are set.
func (c Container) Has(c2 Container) bool { return c&c2 == c2 }

func (c Container) String() string {
	var parts []string
	for _, e := range containerNames {
		if c.Has(e.flag) {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, ",")
}

func containerFlag(name string) (Container, bool) {
	for _, e := range containerNames {
		if e.name == name {
			return e.flag, true
		}
	}
	return 0, false
}

// parseContainer validates a @container entry of a term definition and
// returns the flag set.
func parseContainer(value Value, mode ProcessingMode) (Container, error) {
	var c Container
	switch v := value.(type) {
	case String:
		flag, ok := containerFlag(string(v))
		if !ok {
			return 0, newContextError(InvalidContainerMapping, string(v), nil)
		}
		c = flag
	case Array:
		if mode == ModeJSONLD10 {
			return 0, newContextError(InvalidContainerMapping, "array form requires JSON-LD 1.1", nil)
		}
		for _, item := range v {
			s, ok := item.(String)
			if !ok {
				return 0, newContextError(InvalidContainerMapping, "container entries must be strings", nil)
			}
			flag, ok := containerFlag(string(s))
			if !ok {
				return 0, newContextError(InvalidContainerMapping, string(s), nil)
			}
			c |= flag
		}
	default:
		return 0, newContextError(InvalidContainerMapping, "container must be a string or array", nil)
	}

	if mode == ModeJSONLD10 {
		switch c {
		case ContainerList, ContainerSet, ContainerIndex, ContainerLanguage:
		default:
			return 0, newContextError(InvalidContainerMapping, c.String()+" requires JSON-LD 1.1", nil)
		}
		return c, nil
	}

	switch {
	case c.Has(ContainerList):
		if c != ContainerList {
			return 0, newContextError(InvalidContainerMapping, kwList+" cannot be combined", nil)
		}
	case c.Has(ContainerGraph):
		if c&^(ContainerGraph|ContainerSet|ContainerID|ContainerIndex) != 0 {
			return 0, newContextError(InvalidContainerMapping, c.String(), nil)
		}
		if c.Has(ContainerID | ContainerIndex) {
			return 0, newContextError(InvalidContainerMapping, kwID+" and "+kwIndex+" are exclusive", nil)
		}
	default:
		others := c &^ ContainerSet
		if bits.OnesCount8(uint8(others)) > 1 {
			return 0, newContextError(InvalidContainerMapping, c.String(), nil)
		}
	}
	return c, nil
}
