package dialect

import (
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/xerrors"

	"github.com/Feresey/onto2db/graph"
)

//go:embed templates/*.tpl
var templates embed.FS

var tpl = template.Must(
	template.New("").
		Funcs(sprig.TxtFuncMap()).
		ParseFS(templates, "templates/*.tpl"),
)

type Options struct {
	// Indexes создавать индексы по колонкам-дискриминаторам.
	Indexes bool
}

type tableView struct {
	Name       string
	Columns    []string
	PrimaryKey string
}

type insertView struct {
	Table   string
	Columns []string
	Values  []string
}

type fkView struct {
	Table        string
	Column       string
	Target       string
	TargetColumn string
}

type indexView struct {
	Name    string
	Table   string
	Columns []string
}

type emitter struct {
	d Dialect
	g *graph.Graph
}

// Emit печатает DDL графа: таблицы, данные справочников, внешние ключи, индексы.
// Результат зависит только от графа и СУБД.
func Emit(g *graph.Graph, dbms DBMS, opts Options) (string, error) {
	d, ok := Dialects[dbms]
	if !ok {
		return "", xerrors.Errorf("undefined dialect: %s", dbms)
	}
	e := &emitter{d: d, g: g}

	nodes, err := g.TopologicalSort()
	if errors.Is(err, graph.ErrCycle) {
		// внешние ключи добавляются отдельными ALTER TABLE, порядок таблиц не важен
		nodes = g.Nodes()
	} else if err != nil {
		return "", xerrors.Errorf("sort tables: %w", err)
	}

	var tables, inserts, fks, indexes []string
	for _, n := range nodes {
		s, err := e.render("table", e.table(n))
		if err != nil {
			return "", err
		}
		tables = append(tables, s)
	}
	for _, n := range nodes {
		for _, row := range n.Rows {
			s, err := e.render("insert", e.insert(n, row))
			if err != nil {
				return "", err
			}
			inserts = append(inserts, s)
		}
	}
	for _, n := range nodes {
		for _, p := range n.ForeignKeys() {
			s, err := e.render("fk", e.foreignKey(n, p.Col()))
			if err != nil {
				return "", err
			}
			fks = append(fks, s)
		}
	}
	if opts.Indexes {
		for _, n := range nodes {
			for _, p := range n.Properties {
				if !p.Col().Discriminator {
					continue
				}
				s, err := e.render("index", e.index(n, p.Col()))
				if err != nil {
					return "", err
				}
				indexes = append(indexes, s)
			}
		}
	}

	var sections []string
	for _, section := range []struct {
		items []string
		sep   string
	}{
		{tables, "\n\n"},
		{inserts, "\n"},
		{fks, "\n"},
		{indexes, "\n"},
	} {
		if len(section.items) != 0 {
			sections = append(sections, strings.Join(section.items, section.sep))
		}
	}
	if len(sections) == 0 {
		return "", nil
	}
	return strings.Join(sections, "\n\n") + "\n", nil
}

func (e *emitter) render(name string, data any) (string, error) {
	var sb strings.Builder
	if err := tpl.ExecuteTemplate(&sb, name, data); err != nil {
		return "", xerrors.Errorf("execute template %q: %w", name, err)
	}
	return sb.String(), nil
}

func (e *emitter) table(n *graph.Node) tableView {
	v := tableView{Name: e.d.Ident(n.Name)}
	for _, p := range n.Properties {
		v.Columns = append(v.Columns, e.column(n, p))
		if p.Col().Identifier {
			v.PrimaryKey = e.d.Ident(p.Col().Name)
		}
	}
	return v
}

func (e *emitter) typeName(t graph.DataType) string {
	name := e.d.Types[t.Kind]
	if t.Kind == graph.TypeString {
		length := t.Length
		if length <= 0 {
			length = graph.DefaultStringLength
		}
		return fmt.Sprintf(name, length)
	}
	return name
}

func (e *emitter) labels(f *graph.EnumField) string {
	quoted := make([]string, 0, len(f.Labels))
	for _, l := range f.Labels {
		quoted = append(quoted, StringLiteral(l))
	}
	return strings.Join(quoted, ", ")
}

// column определение колонки: имя тип [DEFAULT] [IDENTITY] [NOT NULL] [IDENTITY] [CHECK].
func (e *emitter) column(n *graph.Node, p graph.Property) string {
	c := p.Col()
	name := e.d.Ident(c.Name)
	identity := c.Identifier && !n.IsWeak && n.Kind != graph.NodeLookup && c.References == 0

	var typ, check string
	switch p := p.(type) {
	case *graph.EnumField:
		if e.d.InlineEnum {
			typ = "ENUM(" + e.labels(p) + ")"
		} else {
			typ = e.typeName(graph.StringOf(p.MaxLabelLength()))
			check = "CHECK (" + name + " IN (" + e.labels(p) + "))"
		}
	case *graph.Field:
		typ = e.typeName(c.Type)
		if identity && e.d.IdentityType != "" {
			typ = e.d.IdentityType
		}
	}

	parts := []string{name, typ}
	if c.Default != "" {
		parts = append(parts, "DEFAULT "+e.d.Literal(c.Default))
	}
	if identity && e.d.Identity != "" && e.d.IdentityBeforeNotNull {
		parts = append(parts, e.d.Identity)
	}
	if !c.Nullable || c.Identifier {
		parts = append(parts, "NOT NULL")
	}
	if identity && e.d.Identity != "" && !e.d.IdentityBeforeNotNull {
		parts = append(parts, e.d.Identity)
	}
	if check != "" {
		parts = append(parts, check)
	}
	return strings.Join(parts, " ")
}

func (e *emitter) insert(n *graph.Node, row []string) insertView {
	v := insertView{Table: e.d.Ident(n.Name)}
	for i, p := range n.Properties {
		if i >= len(row) {
			break
		}
		v.Columns = append(v.Columns, e.d.Ident(p.Col().Name))
		switch p.Col().Type.Kind {
		case graph.TypeInteger, graph.TypeLong, graph.TypeFloat, graph.TypeDouble:
			v.Values = append(v.Values, row[i])
		default:
			v.Values = append(v.Values, StringLiteral(row[i]))
		}
	}
	return v
}

func (e *emitter) foreignKey(n *graph.Node, c *graph.Column) fkView {
	target := e.g.Node(c.References)
	return fkView{
		Table:        e.d.Ident(n.Name),
		Column:       e.d.Ident(c.Name),
		Target:       e.d.Ident(target.Name),
		TargetColumn: e.d.Ident(target.Identifier().Col().Name),
	}
}

func (e *emitter) index(n *graph.Node, c *graph.Column) indexView {
	name := "idx_" + n.Name + "_" + c.Name
	if len(name) > e.d.MaxIdentifier {
		suffix := "_" + strconv.Itoa(int(n.ID))
		name = name[:e.d.MaxIdentifier-len(suffix)] + suffix
	}
	columns := []string{e.d.Ident(c.Name)}
	if pk := n.Identifier(); pk != nil && pk.Col().Name != c.Name {
		columns = append(columns, e.d.Ident(pk.Col().Name))
	}
	return indexView{
		Name:    e.d.Ident(name),
		Table:   e.d.Ident(n.Name),
		Columns: columns,
	}
}
