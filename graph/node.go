package graph

import (
	"strconv"

	"golang.org/x/xerrors"
)

type NodeID int

type NodeKind int

const (
	// NodeClass таблица классификатора.
	NodeClass NodeKind = iota
	// NodeAttribute вспомогательная таблица многозначного атрибута.
	NodeAttribute
	// NodeAssociative таблица связи N:M.
	NodeAssociative
	// NodeLookup таблица-справочник перечисления.
	NodeLookup
)

func (k NodeKind) String() string {
	switch k {
	case NodeClass:
		return "class"
	case NodeAttribute:
		return "attribute"
	case NodeAssociative:
		return "associative"
	case NodeLookup:
		return "lookup"
	default:
		return "undefined"
	}
}

// Nature природа классификатора, породившего узел.
type Nature struct {
	UltimateSortal bool
	Sortal         bool
	Abstract       bool
}

// Node будущая таблица.
type Node struct {
	ID   NodeID
	Name string
	Kind NodeKind
	// Origin классификатор или атрибут, из которого появился узел.
	Origin string
	Nature Nature
	// IsWeak первичный ключ заимствован у другого узла.
	IsWeak bool

	// Properties порядок важен: это порядок колонок.
	Properties []Property
	// Rows начальные данные справочников.
	Rows    [][]string
	Extents []Extent
}

func (n *Node) String() string { return n.Name }

func (n *Node) Property(name string) Property {
	for _, p := range n.Properties {
		if p.Col().Name == name {
			return p
		}
	}
	return nil
}

func (n *Node) HasProperty(name string) bool { return n.Property(name) != nil }

func (n *Node) propertyIndex(name string) int {
	for i, p := range n.Properties {
		if p.Col().Name == name {
			return i
		}
	}
	return -1
}

// AddProperty добавляет колонку в конец таблицы.
func (n *Node) AddProperty(p Property) error {
	return n.InsertProperty(len(n.Properties), p)
}

func (n *Node) InsertProperty(pos int, p Property) error {
	name := p.Col().Name
	if n.HasProperty(name) {
		return xerrors.Errorf("property %q already exists in %q", name, n.Name)
	}
	if pos < 0 || pos > len(n.Properties) {
		pos = len(n.Properties)
	}
	n.Properties = append(n.Properties, nil)
	copy(n.Properties[pos+1:], n.Properties[pos:])
	n.Properties[pos] = p
	return nil
}

func (n *Node) RemoveProperty(name string) Property {
	idx := n.propertyIndex(name)
	if idx == -1 {
		return nil
	}
	p := n.Properties[idx]
	n.Properties = append(n.Properties[:idx], n.Properties[idx+1:]...)
	return p
}

// ReplaceProperty ставит p на место колонки name.
func (n *Node) ReplaceProperty(name string, p Property) error {
	idx := n.propertyIndex(name)
	if idx == -1 {
		return xerrors.Errorf("property %q not found in %q", name, n.Name)
	}
	if newName := p.Col().Name; newName != name && n.HasProperty(newName) {
		return xerrors.Errorf("property %q already exists in %q", newName, n.Name)
	}
	n.Properties[idx] = p
	return nil
}

// Identifier первичный ключ узла, nil до назначения ключей.
func (n *Node) Identifier() Property {
	for _, p := range n.Properties {
		if p.Col().Identifier {
			return p
		}
	}
	return nil
}

// ForeignKeys колонки-ссылки в порядке колонок.
func (n *Node) ForeignKeys() []Property {
	var res []Property
	for _, p := range n.Properties {
		if p.Col().IsForeignKey() {
			res = append(res, p)
		}
	}
	return res
}

// UniqueName returns base, or base with the smallest numeric suffix free in the node.
func (n *Node) UniqueName(base string) string {
	if !n.HasProperty(base) {
		return base
	}
	for i := 2; ; i++ {
		name := base + "_" + strconv.Itoa(i)
		if !n.HasProperty(name) {
			return name
		}
	}
}
