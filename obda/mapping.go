package obda

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/Feresey/onto2db/dialect"
	"github.com/Feresey/onto2db/graph"
)

// classBlocks по отображению на каждую пару (классификатор, таблица класса).
func (e *emitter) classBlocks() []block {
	var res []block
	for _, classifier := range e.tr.Classifiers() {
		var nodes []*graph.Node
		for _, id := range e.tr.Targets(classifier) {
			if n := e.g.Node(id); n.Kind == graph.NodeClass {
				nodes = append(nodes, n)
			}
		}
		for _, n := range nodes {
			id := classifier
			if len(nodes) > 1 {
				id = classifier + "_" + n.Name
			}
			res = append(res, e.classBlock(e.mappingID(id), classifier, n))
		}
	}
	return res
}

func (e *emitter) classBlock(id, classifier string, n *graph.Node) block {
	lineage := mapset.NewThreadUnsafeSet(e.g.Ancestors(classifier)...)
	lineage.Add(classifier)

	pk := identifierName(n)
	q := newQuery(e.opts.Quote, n.Name)
	q.selectColumn(pk)
	target := []string{e.iri(n, pk) + " a :" + classifier}

	for _, p := range n.Properties {
		col := p.Col()
		if col.Identifier || col.Discriminator || !containsAny(lineage, col.Origins) {
			continue
		}
		if obj, ok := e.value(q, col); ok {
			target = append(target, ":"+attributeName(col)+" "+obj)
		}
	}

	ext := n.Extent(classifier)
	if ext == nil {
		q.all = true
	} else {
		e.restrict(q, ext)
	}

	return block{
		ID:     id,
		Target: strings.Join(target, " ; ") + " .",
		Source: q.String(),
	}
}

// value добавляет в запрос значение атрибута и возвращает объект тройки.
// Внешний ключ на справочник заменяется меткой справочника.
func (e *emitter) value(q *query, col *graph.Column) (string, bool) {
	if !col.IsForeignKey() {
		q.selectColumn(col.Name)
		return "{" + col.Name + "}^^" + xsdType(col.Type), true
	}
	lk := e.g.Node(col.References)
	if lk == nil || lk.Kind != graph.NodeLookup {
		return "", false
	}
	key, label := lookupColumns(lk)
	alias := q.joinLookup(lk, col.Name, key, !col.Nullable)
	as := strings.TrimSuffix(col.Name, "_id")
	q.items = append(q.items, ref{table: alias, column: label, as: as})
	return "{" + as + "}^^xsd:string", true
}

// restrict переводит экстент в условие WHERE.
func (e *emitter) restrict(q *query, ext *graph.Extent) {
	for _, alt := range ext.Alternatives {
		if len(alt) == 0 {
			q.all = true
			return
		}
	}
	inner := len(ext.Alternatives) == 1
	for _, alt := range ext.Alternatives {
		conds := make([]cond, 0, len(alt))
		for _, c := range alt {
			switch {
			case c.Flag:
				conds = append(conds, cond{ref: ref{column: c.Column}, value: e.opts.True})
			case c.Lookup != nil:
				alias := q.joinLookup(e.g.Node(c.Lookup.Node), c.Column, c.Lookup.KeyColumn, inner)
				conds = append(conds, cond{
					ref:   ref{table: alias, column: c.Lookup.LabelColumn},
					value: dialect.StringLiteral(c.Label),
				})
			default:
				conds = append(conds, cond{ref: ref{column: c.Column}, value: dialect.StringLiteral(c.Label)})
			}
		}
		q.alts = append(q.alts, conds)
	}
}

func (e *emitter) associationBlocks() []block {
	var res []block
	for _, a := range e.g.Associations() {
		holder := e.g.Node(a.Holder)
		if holder == nil {
			continue
		}
		switch a.Kind {
		case graph.RelationAssociation:
			if holder.Kind == graph.NodeAssociative {
				if b, ok := e.associativeBlock(a, holder); ok {
					res = append(res, b)
				}
				continue
			}
			res = append(res, e.foreignKeyBlock(a, holder))
		case graph.RelationAttribute:
			res = append(res, e.attributeBlocks(a, holder)...)
		}
	}
	return res
}

func predicate(a *graph.Association) string {
	if a.Name != "" {
		return a.Name
	}
	return "has" + a.TargetClass
}

// foreignKeyBlock связь, хранящаяся во внешнем ключе одной из таблиц.
func (e *emitter) foreignKeyBlock(a *graph.Association, holder *graph.Node) block {
	pred := predicate(a)
	pk := identifierName(holder)
	srcCol, tgtCol := a.Column, pk
	if a.Source == holder.ID {
		srcCol, tgtCol = pk, a.Column
	}

	q := newQuery(e.opts.Quote, holder.Name)
	q.selectColumn(srcCol)
	q.selectColumn(tgtCol)
	if p := holder.Property(a.Column); p != nil && p.Col().Nullable {
		q.notNull = append(q.notNull, ref{column: a.Column})
	}

	return block{
		ID:     e.mappingID(a.SourceClass + "_" + pred),
		Target: e.iri(e.g.Node(a.Source), srcCol) + " :" + pred + " " + e.iri(e.g.Node(a.Target), tgtCol) + " .",
		Source: q.String(),
	}
}

// associativeBlock связь N:M через таблицу связи.
func (e *emitter) associativeBlock(a *graph.Association, holder *graph.Node) (block, bool) {
	var ends []*graph.Association
	for _, j := range e.g.AssociationsOf(holder.ID) {
		if j.Kind == graph.RelationJoin && j.Holder == holder.ID {
			ends = append(ends, j)
		}
	}
	if len(ends) != 2 {
		return block{}, false
	}
	pred := predicate(a)
	subject := e.iri(e.g.Node(ends[0].Target), ends[0].Column)
	object := e.iri(e.g.Node(ends[1].Target), ends[1].Column)

	q := newQuery(e.opts.Quote, holder.Name)
	q.selectColumn(ends[0].Column)
	q.selectColumn(ends[1].Column)

	return block{
		ID:     e.mappingID(a.SourceClass + "_" + pred),
		Target: subject + " :" + pred + " " + object + " .",
		Source: q.String(),
	}, true
}

// attributeBlocks значения многозначного атрибута из вспомогательной таблицы.
func (e *emitter) attributeBlocks(a *graph.Association, holder *graph.Node) []block {
	owner := e.g.Node(a.Source)
	var res []block
	for _, p := range holder.Properties {
		col := p.Col()
		if col.Identifier || col.Name == a.Column {
			continue
		}
		q := newQuery(e.opts.Quote, holder.Name)
		q.selectColumn(a.Column)
		obj, ok := e.value(q, col)
		if !ok {
			continue
		}
		if fk := holder.Property(a.Column); fk != nil && fk.Col().Nullable {
			q.notNull = append(q.notNull, ref{column: a.Column})
		}
		res = append(res, block{
			ID:     e.mappingID(a.SourceClass + "_" + a.Name),
			Target: e.iri(owner, a.Column) + " :" + a.Name + " " + obj + " .",
			Source: q.String(),
		})
	}
	return res
}

func lookupColumns(lk *graph.Node) (key, label string) {
	key = identifierName(lk)
	for _, p := range lk.Properties {
		if !p.Col().Identifier {
			return key, p.Col().Name
		}
	}
	return key, key
}

func attributeName(col *graph.Column) string {
	if col.Attribute != "" {
		return col.Attribute
	}
	return col.Name
}

func containsAny(set mapset.Set[string], items []string) bool {
	for _, item := range items {
		if set.Contains(item) {
			return true
		}
	}
	return false
}
