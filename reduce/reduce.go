package reduce

import (
	"go.uber.org/zap"

	"github.com/Feresey/onto2db/errs"
	"github.com/Feresey/onto2db/graph"
	"github.com/Feresey/onto2db/tracker"
)

// Reducer переписывает граф, пока в нем остаются обобщения,
// после чего назначает первичные и внешние ключи.
type Reducer struct {
	log      *zap.Logger
	strategy Strategy
}

func New(log *zap.Logger, strategy Strategy) *Reducer {
	return &Reducer{
		log:      log.Named("reduce"),
		strategy: strategy,
	}
}

type rewriter struct {
	log *zap.Logger
	g   *graph.Graph
	tr  *tracker.Tracker
}

func (r *Reducer) Reduce(g *graph.Graph, tr *tracker.Tracker) error {
	w := &rewriter{log: r.log, g: g, tr: tr}

	var err error
	switch r.strategy {
	case OneTablePerKind:
		err = w.perKind()
	case OneTablePerClass:
		err = w.perClass()
	case OneTablePerConcreteClass:
		err = w.perConcreteClass()
	default:
		return errs.Config("undefined mapping strategy: %d", int(r.strategy))
	}
	if err != nil {
		return err
	}

	w.assignKeys()
	r.log.Debug("graph reduced",
		zap.Stringer("strategy", r.strategy),
		zap.Int("nodes", len(g.Nodes())),
		zap.Int("associations", len(g.Associations())),
	)
	return nil
}

// perKind поднимает подклассы до ближайшего kind, а не-сортальные
// обобщения раздает их потомкам.
func (w *rewriter) perKind() error {
	for len(w.g.Generalizations()) != 0 {
		if general := w.topMostGeneral(func(n *graph.Node) bool { return !n.Nature.Sortal }); general != nil {
			if err := w.pushDown(general); err != nil {
				return err
			}
			continue
		}

		lifted, err := w.liftLeaf()
		if err != nil {
			return err
		}
		if !lifted {
			return w.stuck()
		}
	}
	return nil
}

func (w *rewriter) perClass() error {
	for _, gen := range w.g.Generalizations() {
		w.toInheritance(gen)
	}
	return nil
}

// perConcreteClass раздает абстрактные классы конкретным потомкам,
// остальные обобщения превращает в связи по общему ключу.
func (w *rewriter) perConcreteClass() error {
	for len(w.g.Generalizations()) != 0 {
		if general := w.topMostGeneral(func(n *graph.Node) bool { return n.Nature.Abstract }); general != nil {
			if err := w.pushDown(general); err != nil {
				return err
			}
			continue
		}

		var converted bool
		for _, gen := range w.g.Generalizations() {
			if w.g.Node(gen.General).Nature.Abstract {
				continue
			}
			w.toInheritance(gen)
			converted = true
		}
		if !converted {
			return w.stuck()
		}
	}

	// абстрактный класс без потомков некому раздать, он остается таблицей
	for _, n := range w.g.Nodes() {
		if n.Nature.Abstract && n.Kind == graph.NodeClass {
			w.log.Debug("abstract class without specifics kept", zap.String("node", n.Name))
		}
	}
	return nil
}

// topMostGeneral ищет общий класс без родителей, подходящий под match.
func (w *rewriter) topMostGeneral(match func(n *graph.Node) bool) *graph.Node {
	for _, gen := range w.g.Generalizations() {
		general := w.g.Node(gen.General)
		if match(general) && len(w.g.Parents(general.ID)) == 0 {
			return general
		}
	}
	return nil
}

func (w *rewriter) isLeaf(id graph.NodeID) bool {
	return len(w.g.Children(id)) == 0 && len(w.g.Parents(id)) == 1
}

// liftLeaf поднимает один лист (или целое множество листьев) в сортального родителя.
func (w *rewriter) liftLeaf() (bool, error) {
	for _, gen := range w.g.Generalizations() {
		general := w.g.Node(gen.General)
		if !general.Nature.Sortal || !w.isLeaf(gen.Specific) {
			continue
		}
		members := []*graph.Generalization{gen}
		if gen.Set != nil {
			members = w.g.SetMembers(gen.Set)
			ready := true
			for _, m := range members {
				if !w.isLeaf(m.Specific) {
					ready = false
					break
				}
			}
			if !ready {
				continue
			}
		}
		return true, w.lift(general, members, gen.Set)
	}
	return false, nil
}

func (w *rewriter) toInheritance(gen *graph.Generalization) {
	general := w.g.Node(gen.General)
	specific := w.g.Node(gen.Specific)
	w.g.AddAssociation(&graph.Association{
		Kind:        graph.RelationInheritance,
		Source:      specific.ID,
		Target:      general.ID,
		SourceCard:  graph.ZeroOrOne,
		TargetCard:  graph.ExactlyOne,
		SourceClass: specific.Origin,
		TargetClass: general.Origin,
	})
	specific.IsWeak = true
	w.g.RemoveGeneralization(gen)
	w.log.Debug("generalization to inheritance",
		zap.String("general", general.Name),
		zap.String("specific", specific.Name),
	)
}

func (w *rewriter) stuck() error {
	edges := make([]any, 0, len(w.g.Generalizations()))
	for _, gen := range w.g.Generalizations() {
		edges = append(edges, w.g.Node(gen.General).Name+" -> "+w.g.Node(gen.Specific).Name)
	}
	return errs.Model("generalizations cannot be reduced", edges...)
}
