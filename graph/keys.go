package graph

import "strconv"

// IdentifierName имя первичного ключа узла.
func IdentifierName(nodeName string) string { return nodeName + "_id" }

// EnsureIdentifier ставит первичный ключ первой колонкой.
// Колонка модели с тем же именем получает числовой суффикс.
func (g *Graph) EnsureIdentifier(n *Node) *Field {
	if id := n.Identifier(); id != nil {
		return id.(*Field)
	}
	name := IdentifierName(n.Name)
	if p := n.Property(name); p != nil {
		newName := n.UniqueName(name)
		// the name is free, error is impossible
		_ = g.RenameProperty(n.ID, name, newName)
	}
	pk := &Field{Column: Column{
		Name:       name,
		Type:       Integer,
		Identifier: true,
		Origins:    []string{n.Origin},
	}}
	_ = n.InsertProperty(0, pk)
	return pk
}

// ForeignKeyName подбирает имя колонки-ссылки на target.
// Сначала "<target>_id", при конфликте "<prefix>_<target>_id", затем числовой суффикс.
func (g *Graph) ForeignKeyName(holder *Node, target NodeID, prefix string) string {
	base := IdentifierName(g.Node(target).Name)
	if !holder.HasProperty(base) && !holder.referencesNode(target) {
		return base
	}
	if prefix != "" {
		prefixed := prefix + "_" + base
		if !holder.HasProperty(prefixed) {
			return prefixed
		}
		base = prefixed
	}
	for i := 2; ; i++ {
		name := base + "_" + strconv.Itoa(i)
		if !holder.HasProperty(name) {
			return name
		}
	}
}

func (n *Node) referencesNode(target NodeID) bool {
	for _, p := range n.Properties {
		c := p.Col()
		if c.References == target && !c.Identifier {
			return true
		}
	}
	return false
}

// AddForeignKey добавляет колонку-ссылку в конец таблицы.
func (g *Graph) AddForeignKey(holder *Node, name string, target NodeID, nullable bool, origins ...string) *Field {
	fk := &Field{Column: Column{
		Name:       name,
		Type:       Integer,
		Nullable:   nullable,
		References: target,
		Origins:    origins,
	}}
	if err := holder.AddProperty(fk); err != nil {
		panic(err)
	}
	return fk
}
