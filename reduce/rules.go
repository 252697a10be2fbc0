package reduce

import (
	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Feresey/onto2db/errs"
	"github.com/Feresey/onto2db/graph"
)

// partition хранит состояние подъема одного disjoint+complete множества.
type partition struct {
	// shared колонки, которые есть у каждого члена множества с тем же типом.
	shared mapset.Set[string]
	// moved колонки, уже перенесенные в общий класс из членов множества.
	moved mapset.Set[string]
}

// lift добавляет в general дискриминатор для каждого подкласса и сливает
// подклассы в general.
func (w *rewriter) lift(general *graph.Node, members []*graph.Generalization, set *graph.GeneralizationSet) error {
	conds := make([]graph.Condition, len(members))
	var part *partition

	if set.IsPartition() {
		base := set.Name
		if base == "" {
			base = set.Categorizer
		}
		if base == "" {
			base = general.Name + "_type"
		}
		upper := cases.Upper(language.Und)
		labels := make([]string, 0, len(members))
		for _, m := range members {
			labels = append(labels, upper.String(w.g.Node(m.Specific).Name))
		}
		f := graph.NewEnumField(general.UniqueName(base+"_enum"), labels, false, general.Origin)
		f.Attribute = base
		f.Discriminator = true
		_ = general.AddProperty(f)
		for i := range members {
			conds[i] = graph.Condition{Column: f.Name, Label: labels[i]}
		}
		part = w.newPartition(members)
	} else {
		for i, m := range members {
			specific := w.g.Node(m.Specific)
			f := graph.NewField(general.UniqueName("is_"+specific.Name), graph.Boolean, true, general.Origin)
			f.Attribute = specific.Name
			f.Discriminator = true
			f.Default = "false"
			_ = general.AddProperty(f)
			conds[i] = graph.Condition{Column: f.Name, Flag: true}
		}
	}

	for i, m := range members {
		w.log.Debug("lift",
			zap.String("general", general.Name),
			zap.String("specific", w.g.Node(m.Specific).Name),
			zap.Stringer("condition", conds[i]),
		)
		if err := w.flatten(general, m, conds[i], part); err != nil {
			return err
		}
	}
	return nil
}

func (w *rewriter) newPartition(members []*graph.Generalization) *partition {
	types := make(map[string]graph.DataType)
	var shared mapset.Set[string]
	for _, m := range members {
		names := mapset.NewThreadUnsafeSet[string]()
		for _, p := range w.g.Node(m.Specific).Properties {
			c := p.Col()
			if c.Identifier || c.Discriminator {
				continue
			}
			if t, ok := types[c.Name]; ok && t != c.Type {
				continue
			}
			types[c.Name] = c.Type
			names.Add(c.Name)
		}
		if shared == nil {
			shared = names
		} else {
			shared = shared.Intersect(names)
		}
	}
	if shared == nil {
		shared = mapset.NewThreadUnsafeSet[string]()
	}
	return &partition{
		shared: shared,
		moved:  mapset.NewThreadUnsafeSet[string](),
	}
}

// flatten сливает специальный класс в общий: колонки, ассоциации, экстенты
// и трассировки переходят в general, сам узел и ребро удаляются.
func (w *rewriter) flatten(general *graph.Node, gen *graph.Generalization, cond graph.Condition, part *partition) error {
	specific := w.g.Node(gen.Specific)
	renames := make(map[string]string)

	for _, p := range specific.Properties {
		moved := p.Clone()
		col := moved.Col()
		if col.Identifier {
			continue
		}
		shared := part != nil && part.shared.Contains(col.Name)
		if !shared {
			col.Nullable = true
		}

		if existing := general.Property(col.Name); existing != nil {
			ec := existing.Col()
			switch {
			case ec.Attribute == col.Attribute && ec.Origin() == col.Origin():
				// одно и то же свойство пришло вторым путем
				w.log.Debug("drop duplicate property",
					zap.String("node", general.Name),
					zap.String("property", col.Name),
				)
				continue
			case shared && part.moved.Contains(col.Name) && ec.Type == col.Type:
				ec.Nullable = ec.Nullable || col.Nullable
				for _, o := range col.Origins {
					if !ec.HasOrigin(o) {
						ec.Origins = append(ec.Origins, o)
					}
				}
				continue
			default:
				newName := col.Origin() + "_" + col.Name
				if general.HasProperty(newName) {
					return errs.Model("attribute name collision cannot be resolved",
						general.Name+"."+col.Name, specific.Name+"."+col.Name, newName)
				}
				renames[col.Name] = newName
				col.Name = newName
				col.Nullable = true
			}
		}
		if err := general.AddProperty(moved); err != nil {
			panic(err)
		}
		if part != nil {
			part.moved.Add(col.Name)
		}
	}

	for _, a := range w.g.AssociationsOf(specific.ID) {
		if a.Source == specific.ID {
			a.Source = general.ID
			a.TargetCard = a.TargetCard.Optional()
		}
		if a.Target == specific.ID {
			a.Target = general.ID
			a.SourceCard = a.SourceCard.Optional()
		}
		w.mergeParallel(a, true)
	}

	for _, e := range specific.Extents {
		res := graph.Extent{Classifier: e.Classifier}
		for _, alt := range e.Alternatives {
			renamed := alt.With()
			for i := range renamed {
				if newName, ok := renames[renamed[i].Column]; ok {
					renamed[i].Column = newName
				}
			}
			res.Alternatives = append(res.Alternatives, renamed.With(cond))
		}
		general.MergeExtent(res)
	}

	w.tr.Propagate(specific.ID, general.ID)
	w.g.RemoveGeneralization(gen)
	w.g.RemoveNode(specific.ID)
	return nil
}

// pushDown раздает общий класс всем его потомкам и удаляет его.
func (w *rewriter) pushDown(general *graph.Node) error {
	children := w.g.Children(general.ID)
	w.log.Debug("push down",
		zap.String("general", general.Name),
		zap.Int("specifics", len(children)),
	)

	for _, gen := range children {
		specific := w.g.Node(gen.Specific)
		var pos int
		for _, p := range general.Properties {
			copied := p.Clone()
			col := copied.Col()
			if existing := specific.Property(col.Name); existing != nil {
				ec := existing.Col()
				if ec.Attribute == col.Attribute && ec.Origin() == col.Origin() {
					continue
				}
				newName := col.Origin() + "_" + col.Name
				if specific.HasProperty(newName) {
					return errs.Model("attribute name collision cannot be resolved",
						general.Name+"."+col.Name, specific.Name+"."+col.Name, newName)
				}
				col.Name = newName
			}
			if err := specific.InsertProperty(pos, copied); err != nil {
				panic(err)
			}
			pos++
		}
		for _, e := range general.Extents {
			specific.MergeExtent(e)
		}
		w.tr.Propagate(general.ID, specific.ID)
	}

	optional := len(children) > 1
	for _, a := range w.g.AssociationsOf(general.ID) {
		sources := []graph.NodeID{a.Source}
		if a.Source == general.ID {
			sources = specificsOf(children)
		}
		targets := []graph.NodeID{a.Target}
		if a.Target == general.ID {
			targets = specificsOf(children)
		}
		for _, src := range sources {
			for _, tgt := range targets {
				clone := *a
				clone.Source, clone.Target = src, tgt
				if optional && a.Source == general.ID {
					clone.SourceCard = clone.SourceCard.Optional()
				}
				if optional && a.Target == general.ID {
					clone.TargetCard = clone.TargetCard.Optional()
				}
				if clone.Kind == graph.RelationInheritance {
					w.g.Node(clone.Source).IsWeak = true
				}
				w.mergeParallel(w.g.AddAssociation(&clone), false)
			}
		}
		w.g.RemoveAssociation(a)
	}

	for _, gen := range children {
		w.g.RemoveGeneralization(gen)
	}
	w.g.RemoveNode(general.ID)
	return nil
}

func specificsOf(gens []*graph.Generalization) []graph.NodeID {
	res := make([]graph.NodeID, 0, len(gens))
	for _, gen := range gens {
		res = append(res, gen.Specific)
	}
	return res
}

// mergeParallel сливает a с ранее добавленной ассоциацией того же вида,
// имени и направления между той же парой узлов. Кратности расширяются.
// Безымянные ассоциации сливаются только при unnamed, то есть при
// переносе концов подкласса в общий класс.
func (w *rewriter) mergeParallel(a *graph.Association, unnamed bool) {
	if a.Kind != graph.RelationAssociation || (a.Name == "" && !unnamed) {
		return
	}
	for _, b := range w.g.Associations() {
		if b == a || b.Kind != a.Kind || b.Name != a.Name {
			continue
		}
		if b.Source != a.Source || b.Target != a.Target {
			continue
		}
		b.SourceCard = b.SourceCard.Widen(a.SourceCard)
		b.TargetCard = b.TargetCard.Widen(a.TargetCard)
		w.g.RemoveAssociation(a)
		w.log.Debug("associations merged",
			zap.String("name", b.Name),
			zap.Stringer("source_card", b.SourceCard),
			zap.Stringer("target_card", b.TargetCard),
		)
		return
	}
}
