package reduce

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/Feresey/onto2db/graph"
)

// assignKeys назначает первичные ключи всем узлам и превращает ассоциации
// во внешние ключи. Связи N:M получают отдельную таблицу.
func (w *rewriter) assignKeys() {
	for _, n := range w.g.Nodes() {
		w.g.EnsureIdentifier(n)
	}

	for _, a := range w.g.Associations() {
		if a.Kind != graph.RelationInheritance {
			continue
		}
		holder := w.g.Node(a.Source)
		pk := holder.Identifier().Col()
		if holder.IsWeak && pk.References == 0 {
			pk.References = a.Target
			a.Holder, a.Column = holder.ID, pk.Name
			continue
		}
		// второй родитель при множественном наследовании
		name := w.g.ForeignKeyName(holder, a.Target, a.TargetClass)
		w.g.AddForeignKey(holder, name, a.Target, false, a.SourceClass)
		a.Holder, a.Column = holder.ID, name
	}

	for _, a := range w.g.Associations() {
		if a.Kind != graph.RelationAssociation && a.Kind != graph.RelationAttribute {
			continue
		}
		switch {
		case a.TargetCard.Upper() == 1:
			w.foreignKey(a, w.g.Node(a.Source), a.Target, a.TargetCard.Lower() == 0, a.SourceClass)
		case a.SourceCard.Upper() == 1:
			w.foreignKey(a, w.g.Node(a.Target), a.Source, a.SourceCard.Lower() == 0, a.TargetClass)
		default:
			w.associative(a)
		}
	}
}

func (w *rewriter) foreignKey(a *graph.Association, holder *graph.Node, target graph.NodeID, nullable bool, holderClass string) {
	prefix := a.Name
	if prefix == "" || a.Kind == graph.RelationAttribute {
		prefix = holderClass
	}
	name := w.g.ForeignKeyName(holder, target, prefix)
	fk := w.g.AddForeignKey(holder, name, target, nullable, holderClass)
	fk.Attribute = a.Name
	a.Holder, a.Column = holder.ID, name
	w.log.Debug("foreign key",
		zap.String("holder", holder.Name),
		zap.String("column", name),
		zap.String("target", w.g.Node(target).Name),
	)
}

// associative создает таблицу связи N:M с двумя внешними ключами.
func (w *rewriter) associative(a *graph.Association) {
	src, tgt := w.g.Node(a.Source), w.g.Node(a.Target)
	name := src.Name + "_" + tgt.Name
	if w.g.NodeByName(name) != nil && a.Name != "" {
		name = a.Name
	}
	for i := 2; w.g.NodeByName(name) != nil; i++ {
		name = src.Name + "_" + tgt.Name + "_" + strconv.Itoa(i)
	}
	n, err := w.g.AddNode(name, graph.NodeAssociative, a.Name)
	if err != nil {
		panic(err)
	}
	n.Nature = graph.Nature{Sortal: true}
	w.g.EnsureIdentifier(n)

	for _, end := range []struct {
		node  *graph.Node
		class string
	}{
		{node: src, class: a.SourceClass},
		{node: tgt, class: a.TargetClass},
	} {
		col := w.g.ForeignKeyName(n, end.node.ID, end.class)
		fk := w.g.AddForeignKey(n, col, end.node.ID, false, end.class)
		fk.Attribute = a.Name
		w.g.AddAssociation(&graph.Association{
			Name:        a.Name,
			Kind:        graph.RelationJoin,
			Source:      n.ID,
			Target:      end.node.ID,
			SourceCard:  graph.ZeroOrMore,
			TargetCard:  graph.ExactlyOne,
			SourceClass: a.Name,
			TargetClass: end.class,
			Holder:      n.ID,
			Column:      col,
		})
	}
	a.Holder = n.ID
	w.log.Debug("associative table",
		zap.String("name", name),
		zap.String("source", src.Name),
		zap.String("target", tgt.Name),
	)
}
