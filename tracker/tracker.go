package tracker

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/Feresey/onto2db/graph"
)

// Tracer связь исходного классификатора с узлом, в который он попал.
type Tracer struct {
	Source string
	Target graph.NodeID
}

// Tracker журнал происхождения таблиц. Записи только добавляются.
type Tracker struct {
	g       *graph.Graph
	traces  map[string]mapset.Set[Tracer]
	ordered []string
}

func New(g *graph.Graph) *Tracker {
	return &Tracker{
		g:      g,
		traces: make(map[string]mapset.Set[Tracer]),
	}
}

func (t *Tracker) RecordTrace(classifier string, node graph.NodeID) {
	set, ok := t.traces[classifier]
	if !ok {
		set = mapset.NewThreadUnsafeSet[Tracer]()
		t.traces[classifier] = set
		t.ordered = append(t.ordered, classifier)
	}
	set.Add(Tracer{Source: classifier, Target: node})
}

// ExistsTracer ищет трассировку по текущему имени узла.
func (t *Tracker) ExistsTracer(classifier, nodeName string) bool {
	n := t.g.NodeByName(nodeName)
	if n == nil {
		return false
	}
	set, ok := t.traces[classifier]
	if !ok {
		return false
	}
	return set.Contains(Tracer{Source: classifier, Target: n.ID})
}

// Propagate копирует все трассировки, указывающие на from, на узел to.
func (t *Tracker) Propagate(from, to graph.NodeID) {
	for _, classifier := range t.ordered {
		if t.traces[classifier].Contains(Tracer{Source: classifier, Target: from}) {
			t.RecordTrace(classifier, to)
		}
	}
}

// Targets живые узлы классификатора в порядке их создания.
func (t *Tracker) Targets(classifier string) []graph.NodeID {
	set, ok := t.traces[classifier]
	if !ok {
		return nil
	}
	res := make([]graph.NodeID, 0, set.Cardinality())
	set.Each(func(tr Tracer) bool {
		if t.g.Has(tr.Target) {
			res = append(res, tr.Target)
		}
		return false
	})
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// Classifiers в порядке первой записи.
func (t *Tracker) Classifiers() []string {
	return append([]string(nil), t.ordered...)
}

// TraceMap трассировки на живые узлы.
func (t *Tracker) TraceMap() map[string][]Tracer {
	res := make(map[string][]Tracer, len(t.traces))
	for _, classifier := range t.ordered {
		for _, target := range t.Targets(classifier) {
			res[classifier] = append(res[classifier], Tracer{Source: classifier, Target: target})
		}
	}
	return res
}

// Records все записи, включая трассировки на удаленные узлы.
func (t *Tracker) Records() int {
	var res int
	for _, set := range t.traces {
		res += set.Cardinality()
	}
	return res
}
