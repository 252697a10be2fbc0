package naming

import (
	"strconv"
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/go-openapi/inflect"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/Feresey/onto2db/graph"
)

// Standardizer приводит имена узлов и колонок к lower_snake_case.
// Трассировки не трогает: их ключи остаются концептуальными именами.
type Standardizer struct {
	log    *zap.Logger
	script *script
}

type Option func(s *Standardizer)

// WithScript подключает Lua функцию standardize(name, kind), которая
// получает имя после приведения и возвращает окончательное.
func WithScript(name, source string) Option {
	return func(s *Standardizer) {
		s.script = &script{name: name, source: source}
	}
}

func New(log *zap.Logger, opts ...Option) *Standardizer {
	s := &Standardizer{log: log.Named("naming")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snake переводит имя в lower_snake_case. Повторное применение ничего не меняет.
func Snake(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	res := make([]string, 0, len(parts))
	for _, part := range parts {
		if isUpper(part) {
			res = append(res, strings.ToLower(part))
			continue
		}
		res = append(res, strings.ToLower(inflect.Underscore(part)))
	}
	return strings.Join(res, "_")
}

func isUpper(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
	}
	return true
}

const (
	kindTable  = "table"
	kindColumn = "column"
)

func (s *Standardizer) Standardize(g *graph.Graph) error {
	convert := func(name, _ string) (string, error) { return Snake(name), nil }
	if s.script != nil {
		hook, err := s.script.compile()
		if err != nil {
			return xerrors.Errorf("compile naming script: %w", err)
		}
		defer hook.Close()
		convert = func(name, kind string) (string, error) {
			return hook.standardize(Snake(name), kind)
		}
	}

	nodes := g.Nodes()
	names := make([]string, 0, len(nodes))
	used := mapset.NewThreadUnsafeSet[string]()
	for _, n := range nodes {
		name, err := convert(n.Name, kindTable)
		if err != nil {
			return xerrors.Errorf("table %q: %w", n.Name, err)
		}
		name = unique(used, name)
		names = append(names, name)
	}
	// имена могут меняться местами, поэтому сначала временные
	for _, n := range nodes {
		if err := g.RenameNode(n.ID, tempName(int(n.ID))); err != nil {
			return xerrors.Errorf("rename table: %w", err)
		}
	}
	for i, n := range nodes {
		if err := g.RenameNode(n.ID, names[i]); err != nil {
			return xerrors.Errorf("rename table: %w", err)
		}
	}

	for _, n := range nodes {
		if err := s.columns(g, n, convert); err != nil {
			return xerrors.Errorf("table %q: %w", n.Name, err)
		}
	}
	s.log.Debug("names standardized", zap.Int("tables", len(nodes)))
	return nil
}

func (s *Standardizer) columns(g *graph.Graph, n *graph.Node, convert func(name, kind string) (string, error)) error {
	old := make([]string, 0, len(n.Properties))
	names := make([]string, 0, len(n.Properties))
	used := mapset.NewThreadUnsafeSet[string]()
	for _, p := range n.Properties {
		name, err := convert(p.Col().Name, kindColumn)
		if err != nil {
			return xerrors.Errorf("column %q: %w", p.Col().Name, err)
		}
		old = append(old, p.Col().Name)
		names = append(names, unique(used, name))
	}
	for i, name := range old {
		if err := g.RenameProperty(n.ID, name, tempName(i)); err != nil {
			return err
		}
	}
	for i, name := range names {
		if err := g.RenameProperty(n.ID, tempName(i), name); err != nil {
			return err
		}
	}
	return nil
}

func tempName(i int) string { return "\x00" + strconv.Itoa(i) }

func unique(used mapset.Set[string], name string) string {
	res := name
	for i := 2; used.Contains(res); i++ {
		res = name + "_" + strconv.Itoa(i)
	}
	used.Add(res)
	return res
}
