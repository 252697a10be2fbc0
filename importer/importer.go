package importer

import (
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/Feresey/onto2db/errs"
	"github.com/Feresey/onto2db/graph"
	"github.com/Feresey/onto2db/model"
	"github.com/Feresey/onto2db/tracker"
)

// Importer строит рабочий граф из концептуальной модели один к одному.
type Importer struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Importer {
	return &Importer{log: log.Named("importer")}
}

type genKey struct {
	general  string
	specific string
}

type state struct {
	g       *graph.Graph
	tr      *tracker.Tracker
	classes map[string]*graph.Node
	gens    map[genKey]*graph.GeneralizationSet
}

func (i *Importer) Import(m model.Model) (*graph.Graph, *tracker.Tracker, error) {
	g := graph.New()
	s := &state{
		g:       g,
		tr:      tracker.New(g),
		classes: make(map[string]*graph.Node),
		gens:    make(map[genKey]*graph.GeneralizationSet),
	}

	for _, c := range m.AllClasses() {
		if err := s.addClass(c); err != nil {
			return nil, nil, err
		}
	}
	for _, c := range m.AllClasses() {
		if err := s.addAttributes(c); err != nil {
			return nil, nil, err
		}
	}
	if err := s.addGeneralizations(m); err != nil {
		return nil, nil, err
	}
	for _, r := range m.AllRelations() {
		if err := s.addRelation(r); err != nil {
			return nil, nil, err
		}
	}

	i.log.Debug("model imported",
		zap.Int("nodes", len(g.Nodes())),
		zap.Int("associations", len(g.Associations())),
		zap.Int("generalizations", len(g.Generalizations())),
	)
	return g, s.tr, nil
}

func (s *state) node(c model.Class) (*graph.Node, error) {
	if c == nil {
		return nil, errs.Model("reference to an empty class")
	}
	n, ok := s.classes[c.Name()]
	if !ok {
		return nil, errs.Modelf("class %q is not part of the model", c.Name())
	}
	return n, nil
}

func (s *state) addClass(c model.Class) error {
	n, err := s.g.AddNode(c.Name(), graph.NodeClass, c.Name())
	if err != nil {
		return errs.Error{Kind: errs.KindModel, Message: "duplicate class", Err: err, Elements: []any{c.Name()}}
	}
	n.Nature = graph.Nature{
		UltimateSortal: c.IsUltimateSortal(),
		Sortal:         c.IsSortal(),
		Abstract:       c.IsAbstract(),
	}
	n.Extents = []graph.Extent{{
		Classifier:   c.Name(),
		Alternatives: []graph.Predicate{{}},
	}}
	s.classes[c.Name()] = n
	s.tr.RecordTrace(c.Name(), n.ID)

	parents := make([]string, 0, len(c.Parents()))
	for _, p := range c.Parents() {
		parents = append(parents, p.Name())
	}
	s.g.SetLineage(c.Name(), parents)
	return nil
}

func attributeProperty(a model.Attribute, nullable bool, origin string) graph.Property {
	if a.IsEnumeration() {
		return graph.NewEnumField(a.Name, append([]string(nil), a.Literals...), nullable, origin)
	}
	return graph.NewField(a.Name, graph.ParseDataType(a.Type), nullable, origin)
}

func (s *state) addAttributes(c model.Class) error {
	n := s.classes[c.Name()]
	for _, a := range c.Attributes() {
		if !a.IsMultivalued() {
			if err := n.AddProperty(attributeProperty(a, a.Lower == 0, c.Name())); err != nil {
				return errs.Error{Kind: errs.KindModel, Message: "duplicate attribute", Err: err, Elements: []any{c.Name(), a.Name}}
			}
			continue
		}

		// многозначный атрибут сразу выносится в отдельную таблицу
		aux, err := s.g.AddNode(a.Name+"_"+c.Name(), graph.NodeAttribute, a.Name)
		if err != nil {
			return errs.Error{Kind: errs.KindModel, Message: "multivalued attribute table name is taken", Err: err, Elements: []any{c.Name(), a.Name}}
		}
		aux.Nature = graph.Nature{Sortal: true}
		if err := aux.AddProperty(attributeProperty(a, false, c.Name())); err != nil {
			return xerrors.Errorf("add value column: %w", err)
		}
		s.g.AddAssociation(&graph.Association{
			Name:        a.Name,
			Kind:        graph.RelationAttribute,
			Source:      n.ID,
			Target:      aux.ID,
			SourceCard:  graph.ExactlyOne,
			TargetCard:  graph.FromBounds(a.Lower, model.Many),
			SourceClass: c.Name(),
			TargetClass: c.Name(),
		})
		s.tr.RecordTrace(c.Name(), aux.ID)
	}
	return nil
}

func (s *state) addGeneralizations(m model.Model) error {
	for _, mgs := range m.AllGeneralizationSets() {
		if len(mgs.Generalizations) == 0 {
			return errs.Model("generalization set has no generalizations", mgs.Name)
		}
		set := &graph.GeneralizationSet{
			Name:     mgs.Name,
			Disjoint: mgs.Disjoint,
			Complete: mgs.Complete,
		}
		if mgs.Categorizer != nil {
			set.Categorizer = mgs.Categorizer.Name()
		}
		for _, mg := range mgs.Generalizations {
			if mg.General == nil || mg.Specific == nil {
				return errs.Model("generalization set references an empty generalization", mgs.Name)
			}
			key := genKey{general: mg.General.Name(), specific: mg.Specific.Name()}
			if other, ok := s.gens[key]; ok && other != set {
				return errs.Model("generalization belongs to two generalization sets",
					key.general+" -> "+key.specific, other.Name, mgs.Name)
			}
			s.gens[key] = set
		}
		s.g.AddGeneralizationSet(set)
	}

	added := make(map[genKey]struct{})
	add := func(mg model.Generalization) error {
		general, err := s.node(mg.General)
		if err != nil {
			return xerrors.Errorf("generalization general: %w", err)
		}
		specific, err := s.node(mg.Specific)
		if err != nil {
			return xerrors.Errorf("generalization specific: %w", err)
		}
		key := genKey{general: general.Name, specific: specific.Name}
		if _, ok := added[key]; ok {
			return nil
		}
		added[key] = struct{}{}
		s.g.AddGeneralization(general.ID, specific.ID, s.gens[key])
		return nil
	}

	for _, mg := range m.AllGeneralizations() {
		if err := add(mg); err != nil {
			return err
		}
	}
	// обобщения, которые перечислены только в множествах
	for _, mgs := range m.AllGeneralizationSets() {
		for _, mg := range mgs.Generalizations {
			if err := add(mg); err != nil {
				return xerrors.Errorf("set %q: %w", mgs.Name, err)
			}
		}
	}
	return nil
}

func (s *state) addRelation(r model.Relation) error {
	src, err := s.node(r.Source)
	if err != nil {
		return xerrors.Errorf("relation %q source: %w", r.Name, err)
	}
	tgt, err := s.node(r.Target)
	if err != nil {
		return xerrors.Errorf("relation %q target: %w", r.Name, err)
	}
	s.g.AddAssociation(&graph.Association{
		Name:        r.Name,
		Kind:        graph.RelationAssociation,
		Source:      src.ID,
		Target:      tgt.ID,
		SourceCard:  graph.FromBounds(r.SourceMult.Lower, r.SourceMult.Upper),
		TargetCard:  graph.FromBounds(r.TargetMult.Lower, r.TargetMult.Upper),
		SourceClass: src.Name,
		TargetClass: tgt.Name,
	})
	return nil
}
