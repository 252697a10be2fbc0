package reduce

import (
	"strings"

	"github.com/Feresey/onto2db/errs"
)

// Strategy выбирает, какие правила редукции применяются.
type Strategy int

const (
	OneTablePerKind Strategy = iota
	OneTablePerClass
	OneTablePerConcreteClass
)

func (s Strategy) String() string {
	switch s {
	case OneTablePerKind:
		return "ONE_TABLE_PER_KIND"
	case OneTablePerClass:
		return "ONE_TABLE_PER_CLASS"
	case OneTablePerConcreteClass:
		return "ONE_TABLE_PER_CONCRETE_CLASS"
	default:
		return "UNDEFINED"
	}
}

func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Strategy) UnmarshalText(text []byte) error {
	switch strings.ToUpper(strings.TrimSpace(string(text))) {
	case "ONE_TABLE_PER_KIND", "":
		*s = OneTablePerKind
	case "ONE_TABLE_PER_CLASS":
		*s = OneTablePerClass
	case "ONE_TABLE_PER_CONCRETE_CLASS":
		*s = OneTablePerConcreteClass
	default:
		return errs.Config("undefined mapping strategy: %q", string(text))
	}
	return nil
}
