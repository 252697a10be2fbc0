package graph

import (
	"strings"

	"golang.org/x/xerrors"
)

// Many верхняя граница "N".
const Many = -1

// Cardinality кратность конца ассоциации.
type Cardinality int

const (
	CardinalityUndefined Cardinality = iota
	ZeroOrOne
	ExactlyOne
	ZeroOrMore
	OneOrMore
)

func (c Cardinality) Lower() int {
	switch c {
	case ExactlyOne, OneOrMore:
		return 1
	default:
		return 0
	}
}

func (c Cardinality) Upper() int {
	switch c {
	case ZeroOrOne, ExactlyOne:
		return 1
	default:
		return Many
	}
}

// FromBounds приводит произвольные границы к одной из четырех кратностей.
func FromBounds(lower, upper int) Cardinality {
	single := upper == 1 || upper == 0
	switch {
	case lower > 0 && single:
		return ExactlyOne
	case lower > 0:
		return OneOrMore
	case single:
		return ZeroOrOne
	default:
		return ZeroOrMore
	}
}

// Widen returns the loosest cardinality covering both c and o.
func (c Cardinality) Widen(o Cardinality) Cardinality {
	lower := c.Lower()
	if o.Lower() < lower {
		lower = o.Lower()
	}
	upper := c.Upper()
	if o.Upper() == Many {
		upper = Many
	}
	return FromBounds(lower, upper)
}

func (c Cardinality) Optional() Cardinality { return FromBounds(0, c.Upper()) }

func (c Cardinality) String() string {
	switch c {
	case ZeroOrOne:
		return "0..1"
	case ExactlyOne:
		return "1"
	case ZeroOrMore:
		return "0..N"
	case OneOrMore:
		return "1..N"
	default:
		return "undefined"
	}
}

func ParseCardinality(s string) (Cardinality, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "0..1":
		return ZeroOrOne, nil
	case "1", "1..1":
		return ExactlyOne, nil
	case "0..N", "0..*", "*", "N":
		return ZeroOrMore, nil
	case "1..N", "1..*":
		return OneOrMore, nil
	}
	return CardinalityUndefined, xerrors.Errorf("undefined cardinality: %q", s)
}
