package graph

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/xerrors"
)

type RelationKind int

const (
	// RelationAssociation бинарная ассоциация модели.
	RelationAssociation RelationKind = iota
	// RelationInheritance связь подкласса с родителем по общему ключу.
	RelationInheritance
	// RelationAttribute связь класса с таблицей многозначного атрибута.
	RelationAttribute
	// RelationLookup ссылка на справочник перечисления.
	RelationLookup
	// RelationJoin ссылка таблицы связи N:M на одну из сторон.
	RelationJoin
)

func (k RelationKind) String() string {
	switch k {
	case RelationAssociation:
		return "association"
	case RelationInheritance:
		return "inheritance"
	case RelationAttribute:
		return "attribute"
	case RelationLookup:
		return "lookup"
	case RelationJoin:
		return "join"
	default:
		return "undefined"
	}
}

// Association будущий внешний ключ.
type Association struct {
	Name string
	Kind RelationKind

	Source NodeID
	Target NodeID
	// SourceCard кратность на стороне Source: сколько Source у одного Target.
	SourceCard Cardinality
	// TargetCard кратность на стороне Target: сколько Target у одного Source.
	TargetCard Cardinality

	// Исходные классификаторы концов, не меняются при слиянии узлов.
	SourceClass string
	TargetClass string

	// Holder и Column заполняются при назначении ключей.
	Holder NodeID
	Column string
}

// Other returns the opposite end of the association.
func (a *Association) Other(id NodeID) NodeID {
	if a.Source == id {
		return a.Target
	}
	return a.Source
}

func (a *Association) Touches(id NodeID) bool { return a.Source == id || a.Target == id }

type GeneralizationSet struct {
	Name        string
	Disjoint    bool
	Complete    bool
	Categorizer string
}

// IsPartition множество одновременно disjoint и complete.
func (s *GeneralizationSet) IsPartition() bool {
	return s != nil && s.Disjoint && s.Complete
}

// Generalization существует только во время редукции.
type Generalization struct {
	General  NodeID
	Specific NodeID
	Set      *GeneralizationSet
}

var ErrNodeNotFound = errors.New("node not found")

// Graph рабочая модель. Узлы хранятся в арене и адресуются по NodeID,
// ассоциации и трассировки хранят только ключи.
type Graph struct {
	nodes  map[NodeID]*Node
	order  []NodeID
	byName map[string]NodeID
	lastID NodeID

	associations    []*Association
	generalizations []*Generalization
	sets            []*GeneralizationSet

	// lineage прямые родители классификаторов концептуальной модели.
	lineage map[string][]string
}

func New() *Graph {
	return &Graph{
		nodes:   make(map[NodeID]*Node),
		byName:  make(map[string]NodeID),
		lineage: make(map[string][]string),
	}
}

// AddNode создает узел. Имя должно быть уникальным.
func (g *Graph) AddNode(name string, kind NodeKind, origin string) (*Node, error) {
	if _, ok := g.byName[name]; ok {
		return nil, xerrors.Errorf("node %q already exists", name)
	}
	g.lastID++
	n := &Node{
		ID:     g.lastID,
		Name:   name,
		Kind:   kind,
		Origin: origin,
	}
	g.nodes[n.ID] = n
	g.byName[name] = n.ID
	g.order = append(g.order, n.ID)
	return n, nil
}

// RemoveNode удаляет узел. Узел, на который еще ссылаются, удалять нельзя.
func (g *Graph) RemoveNode(id NodeID) {
	n, ok := g.nodes[id]
	if !ok {
		panic(fmt.Sprintf("remove node: %d: %v", id, ErrNodeNotFound))
	}
	for _, a := range g.associations {
		if a.Touches(id) || a.Holder == id {
			panic(fmt.Sprintf("remove node %q: still referenced by association %q", n.Name, a.Name))
		}
	}
	for _, gen := range g.generalizations {
		if gen.General == id || gen.Specific == id {
			panic(fmt.Sprintf("remove node %q: still referenced by generalization", n.Name))
		}
	}
	delete(g.nodes, id)
	delete(g.byName, n.Name)
	for i, nid := range g.order {
		if nid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

func (g *Graph) Node(id NodeID) *Node { return g.nodes[id] }

func (g *Graph) Has(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *Graph) NodeByName(name string) *Node {
	id, ok := g.byName[name]
	if !ok {
		return nil
	}
	return g.nodes[id]
}

// Nodes узлы в порядке добавления.
func (g *Graph) Nodes() []*Node {
	res := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		res = append(res, g.nodes[id])
	}
	return res
}

func (g *Graph) RenameNode(id NodeID, name string) error {
	n, ok := g.nodes[id]
	if !ok {
		return xerrors.Errorf("rename %d: %w", id, ErrNodeNotFound)
	}
	if n.Name == name {
		return nil
	}
	if _, ok := g.byName[name]; ok {
		return xerrors.Errorf("rename %q: node %q already exists", n.Name, name)
	}
	delete(g.byName, n.Name)
	n.Name = name
	g.byName[name] = id
	return nil
}

// RenameProperty переименовывает колонку и все ссылки на нее:
// условия экстентов, колонки ассоциаций и соединения со справочниками.
func (g *Graph) RenameProperty(id NodeID, oldName, newName string) error {
	n, ok := g.nodes[id]
	if !ok {
		return xerrors.Errorf("rename property %q: %d: %w", oldName, id, ErrNodeNotFound)
	}
	if oldName == newName {
		return nil
	}
	p := n.Property(oldName)
	if p == nil {
		return xerrors.Errorf("property %q not found in %q", oldName, n.Name)
	}
	if n.HasProperty(newName) {
		return xerrors.Errorf("property %q already exists in %q", newName, n.Name)
	}
	p.Col().Name = newName

	n.Conditions(func(c *Condition) {
		if c.Column == oldName {
			c.Column = newName
		}
	})
	for _, other := range g.nodes {
		other.Conditions(func(c *Condition) {
			if c.Lookup == nil || c.Lookup.Node != id {
				return
			}
			if c.Lookup.LabelColumn == oldName {
				c.Lookup.LabelColumn = newName
			}
			if c.Lookup.KeyColumn == oldName {
				c.Lookup.KeyColumn = newName
			}
		})
	}
	for _, a := range g.associations {
		if a.Holder == id && a.Column == oldName {
			a.Column = newName
		}
	}
	return nil
}

func (g *Graph) AddAssociation(a *Association) *Association {
	if !g.Has(a.Source) || !g.Has(a.Target) {
		panic(fmt.Sprintf("add association %q: %v", a.Name, ErrNodeNotFound))
	}
	g.associations = append(g.associations, a)
	return a
}

func (g *Graph) RemoveAssociation(a *Association) {
	for i, cur := range g.associations {
		if cur == a {
			g.associations = append(g.associations[:i], g.associations[i+1:]...)
			return
		}
	}
}

// Associations ассоциации в порядке добавления.
func (g *Graph) Associations() []*Association {
	return append([]*Association(nil), g.associations...)
}

// AssociationsOf ассоциации, один из концов которых id.
func (g *Graph) AssociationsOf(id NodeID) []*Association {
	var res []*Association
	for _, a := range g.associations {
		if a.Touches(id) {
			res = append(res, a)
		}
	}
	return res
}

func (g *Graph) AddGeneralizationSet(s *GeneralizationSet) *GeneralizationSet {
	g.sets = append(g.sets, s)
	return s
}

func (g *Graph) AddGeneralization(general, specific NodeID, set *GeneralizationSet) *Generalization {
	if !g.Has(general) || !g.Has(specific) {
		panic(fmt.Sprintf("add generalization %d -> %d: %v", general, specific, ErrNodeNotFound))
	}
	gen := &Generalization{General: general, Specific: specific, Set: set}
	g.generalizations = append(g.generalizations, gen)
	return gen
}

func (g *Graph) RemoveGeneralization(gen *Generalization) {
	for i, cur := range g.generalizations {
		if cur == gen {
			g.generalizations = append(g.generalizations[:i], g.generalizations[i+1:]...)
			return
		}
	}
}

func (g *Graph) Generalizations() []*Generalization {
	return append([]*Generalization(nil), g.generalizations...)
}

// GeneralizationSets множества, в которых еще остались обобщения.
func (g *Graph) GeneralizationSets() []*GeneralizationSet {
	var res []*GeneralizationSet
	for _, s := range g.sets {
		if len(g.SetMembers(s)) != 0 {
			res = append(res, s)
		}
	}
	return res
}

func (g *Graph) SetMembers(s *GeneralizationSet) []*Generalization {
	var res []*Generalization
	for _, gen := range g.generalizations {
		if gen.Set == s {
			res = append(res, gen)
		}
	}
	return res
}

// Parents обобщения, в которых id специальный класс.
func (g *Graph) Parents(id NodeID) []*Generalization {
	var res []*Generalization
	for _, gen := range g.generalizations {
		if gen.Specific == id {
			res = append(res, gen)
		}
	}
	return res
}

// Children обобщения, в которых id общий класс.
func (g *Graph) Children(id NodeID) []*Generalization {
	var res []*Generalization
	for _, gen := range g.generalizations {
		if gen.General == id {
			res = append(res, gen)
		}
	}
	return res
}

// SetLineage запоминает прямых родителей классификатора.
func (g *Graph) SetLineage(classifier string, parents []string) {
	g.lineage[classifier] = append([]string(nil), parents...)
}

// Ancestors все предки классификатора в концептуальной модели, по имени.
func (g *Graph) Ancestors(classifier string) []string {
	seen := make(map[string]struct{})
	var walk func(c string)
	walk = func(c string) {
		for _, p := range g.lineage[c] {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			walk(p)
		}
	}
	walk(classifier)

	res := make([]string, 0, len(seen))
	for c := range seen {
		res = append(res, c)
	}
	sort.Strings(res)
	return res
}
