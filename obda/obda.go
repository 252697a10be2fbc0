package obda

import (
	"embed"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"golang.org/x/xerrors"

	"github.com/Feresey/onto2db/graph"
	"github.com/Feresey/onto2db/tracker"
)

//go:embed templates/*.tpl
var templates embed.FS

var tpl = template.Must(
	template.New("").
		Funcs(sprig.TxtFuncMap()).
		ParseFS(templates, "templates/*.tpl"),
)

const DefaultBaseIRI = "http://example.org/ontology#"

// Options параметры файла отображений.
type Options struct {
	// BaseIRI пространство имен префикса ":".
	BaseIRI string
	// DatabaseName из него детерминированно строится sourceUri.
	DatabaseName string
	// Quote экранирует идентификаторы в SQL, по умолчанию без изменений.
	Quote func(string) string
	// True литерал истины для булевых дискриминаторов.
	True string
}

type prefix struct {
	Name string
	IRI  string
}

type document struct {
	Prefixes  []prefix
	SourceURI string
	Blocks    []string
}

// block одно отображение Ontop.
type block struct {
	ID     string
	Target string
	Source string
}

type emitter struct {
	g    *graph.Graph
	tr   *tracker.Tracker
	opts Options
	ids  mapset.Set[string]
}

// Emit строит файл отображений Ontop для графа после всех преобразований.
func Emit(g *graph.Graph, tr *tracker.Tracker, opts Options) (string, error) {
	if opts.BaseIRI == "" {
		opts.BaseIRI = DefaultBaseIRI
	}
	if opts.Quote == nil {
		opts.Quote = func(s string) string { return s }
	}
	if opts.True == "" {
		opts.True = "TRUE"
	}
	e := &emitter{g: g, tr: tr, opts: opts, ids: mapset.NewThreadUnsafeSet[string]()}

	blocks := e.classBlocks()
	blocks = append(blocks, e.associationBlocks()...)

	doc := document{
		Prefixes: []prefix{
			{Name: "", IRI: opts.BaseIRI},
			{Name: "owl", IRI: "http://www.w3.org/2002/07/owl#"},
			{Name: "rdf", IRI: "http://www.w3.org/1999/02/22-rdf-syntax-ns#"},
			{Name: "rdfs", IRI: "http://www.w3.org/2000/01/rdf-schema#"},
			{Name: "xsd", IRI: "http://www.w3.org/2001/XMLSchema#"},
		},
		SourceURI: uuid.NewSHA1(uuid.NameSpaceURL, []byte(opts.DatabaseName)).String(),
	}
	for _, b := range blocks {
		s, err := render("block", b)
		if err != nil {
			return "", err
		}
		doc.Blocks = append(doc.Blocks, s)
	}
	return render("document", doc)
}

func render(name string, data any) (string, error) {
	var sb strings.Builder
	if err := tpl.ExecuteTemplate(&sb, name, data); err != nil {
		return "", xerrors.Errorf("execute template %q: %w", name, err)
	}
	return sb.String(), nil
}

// mappingID уникальный идентификатор отображения.
func (e *emitter) mappingID(base string) string {
	id := base
	for i := 2; e.ids.Contains(id); i++ {
		id = base + "_" + strconv.Itoa(i)
	}
	e.ids.Add(id)
	return id
}

// root таблица, чей первичный ключ порождает IRI экземпляра.
// Слабые узлы наследуют ключ от родителя.
func (e *emitter) root(n *graph.Node) *graph.Node {
	seen := mapset.NewThreadUnsafeSet[graph.NodeID]()
	for seen.Add(n.ID) {
		pk := n.Identifier()
		if pk == nil || pk.Col().References == 0 {
			break
		}
		next := e.g.Node(pk.Col().References)
		if next == nil {
			break
		}
		n = next
	}
	return n
}

// iri шаблон IRI экземпляра узла n, ключ которого лежит в колонке column.
func (e *emitter) iri(n *graph.Node, column string) string {
	return ":" + e.root(n).Name + "/{" + column + "}"
}

func identifierName(n *graph.Node) string {
	if pk := n.Identifier(); pk != nil {
		return pk.Col().Name
	}
	return graph.IdentifierName(n.Name)
}

var xsdTypes = map[graph.TypeKind]string{
	graph.TypeString:      "string",
	graph.TypeInteger:     "integer",
	graph.TypeLong:        "long",
	graph.TypeFloat:       "float",
	graph.TypeDouble:      "double",
	graph.TypeDate:        "date",
	graph.TypeDateTime:    "dateTime",
	graph.TypeBoolean:     "boolean",
	graph.TypeEnumeration: "string",
}

func xsdType(t graph.DataType) string {
	if name, ok := xsdTypes[t.Kind]; ok {
		return "xsd:" + name
	}
	return "xsd:string"
}
