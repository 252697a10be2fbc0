package graph

import (
	"embed"
	"io"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/xerrors"
)

//go:embed templates/*.tpl
var dumptpl embed.FS

const DumpGraphTemplate = "graph.puml.tpl"

type dumpAssociation struct {
	*Association
	SourceName string
	TargetName string
}

type dumpGeneralization struct {
	General  string
	Specific string
	Set      string
}

// Dump рисует граф в формате PlantUML.
func (g *Graph) Dump(w io.Writer) error {
	data := struct {
		Nodes           []*Node
		Associations    []dumpAssociation
		Generalizations []dumpGeneralization
	}{
		Nodes: g.Nodes(),
	}
	for _, a := range g.associations {
		data.Associations = append(data.Associations, dumpAssociation{
			Association: a,
			SourceName:  g.Node(a.Source).Name,
			TargetName:  g.Node(a.Target).Name,
		})
	}
	for _, gen := range g.generalizations {
		dg := dumpGeneralization{
			General:  g.Node(gen.General).Name,
			Specific: g.Node(gen.Specific).Name,
		}
		if gen.Set != nil {
			dg.Set = gen.Set.Name
		}
		data.Generalizations = append(data.Generalizations, dg)
	}

	t := template.New("").
		Funcs(sprig.TxtFuncMap()).
		Funcs(template.FuncMap{
			"nodeName": func(id NodeID) string {
				if n := g.Node(id); n != nil {
					return n.Name
				}
				return ""
			},
			"labels": func(p Property) []string {
				switch p := p.(type) {
				case *EnumField:
					return p.Labels
				case *Field:
					return nil
				}
				return nil
			},
		})
	tpl, err := t.ParseFS(dumptpl, "templates/*.tpl")
	if err != nil {
		return xerrors.Errorf("parse templates: %w", err)
	}
	if err := tpl.ExecuteTemplate(w, DumpGraphTemplate, data); err != nil {
		return xerrors.Errorf("execute %s: %w", DumpGraphTemplate, err)
	}
	return nil
}
