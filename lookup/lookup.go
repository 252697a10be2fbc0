package lookup

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/Feresey/onto2db/dialect"
	"github.com/Feresey/onto2db/errs"
	"github.com/Feresey/onto2db/graph"
)

const (
	enumSuffix = "_enum"
)

// Expander заменяет колонки-перечисления ссылками на таблицы-справочники.
type Expander struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Expander {
	return &Expander{log: log.Named("lookup")}
}

func (e *Expander) Expand(g *graph.Graph, dbms dialect.DBMS) error {
	if dbms == dialect.Generic {
		return errs.Config("It is not possible to make lookup field for GENERIC database.")
	}

	for _, n := range g.Nodes() {
		for _, p := range append([]graph.Property(nil), n.Properties...) {
			enum, ok := p.(*graph.EnumField)
			if !ok {
				continue
			}
			e.replace(g, n, enum)
		}
	}
	return nil
}

func (e *Expander) replace(g *graph.Graph, n *graph.Node, enum *graph.EnumField) {
	base := strings.TrimSuffix(enum.Name, enumSuffix)
	lookup := e.lookupNode(g, base, n, enum)
	key := lookup.Identifier().Col()
	label := lookup.Properties[1].Col()

	fk := &graph.Field{Column: graph.Column{
		Name:          g.ForeignKeyName(n, lookup.ID, base),
		Attribute:     enum.Attribute,
		Nullable:      enum.Nullable,
		Type:          graph.Integer,
		References:    lookup.ID,
		Discriminator: enum.Discriminator,
		Origins:       enum.Origins,
	}}
	if err := n.ReplaceProperty(enum.Name, fk); err != nil {
		panic(err)
	}

	targetCard := graph.ExactlyOne
	if enum.Nullable {
		targetCard = graph.ZeroOrOne
	}
	g.AddAssociation(&graph.Association{
		Name:        enum.Attribute,
		Kind:        graph.RelationLookup,
		Source:      n.ID,
		Target:      lookup.ID,
		SourceCard:  graph.ZeroOrMore,
		TargetCard:  targetCard,
		SourceClass: enum.Origin(),
		TargetClass: lookup.Origin,
		Holder:      n.ID,
		Column:      fk.Name,
	})

	n.Conditions(func(c *graph.Condition) {
		if c.Column != enum.Name || c.Flag {
			return
		}
		c.Column = fk.Name
		c.Lookup = &graph.LookupJoin{
			Node:        lookup.ID,
			KeyColumn:   key.Name,
			LabelColumn: label.Name,
		}
	})

	e.log.Debug("enumeration replaced by lookup",
		zap.String("node", n.Name),
		zap.String("column", fk.Name),
		zap.String("lookup", lookup.Name),
	)
}

// lookupNode находит справочник с теми же метками или создает новый.
func (e *Expander) lookupNode(g *graph.Graph, base string, holder *graph.Node, enum *graph.EnumField) *graph.Node {
	name := base
	if existing := g.NodeByName(name); existing != nil {
		if existing.Kind == graph.NodeLookup && slices.Equal(labelsOf(existing), enum.Labels) {
			return existing
		}
		name = base + "_" + holder.Name
		for i := 2; g.NodeByName(name) != nil; i++ {
			name = base + "_" + holder.Name + "_" + strconv.Itoa(i)
		}
	}

	n, err := g.AddNode(name, graph.NodeLookup, base)
	if err != nil {
		panic(err)
	}
	g.EnsureIdentifier(n)
	label := graph.NewField(base+enumSuffix, graph.StringOf(enum.MaxLabelLength()), false, base)
	if err := n.AddProperty(label); err != nil {
		panic(err)
	}
	for i, l := range enum.Labels {
		n.Rows = append(n.Rows, []string{strconv.Itoa(i + 1), l})
	}
	return n
}

func labelsOf(n *graph.Node) []string {
	res := make([]string, 0, len(n.Rows))
	for _, row := range n.Rows {
		res = append(res, row[1])
	}
	return res
}
