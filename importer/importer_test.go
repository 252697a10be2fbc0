package importer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Feresey/onto2db/errs"
	"github.com/Feresey/onto2db/graph"
	"github.com/Feresey/onto2db/model"
)

func build(t *testing.T, doc model.Document) model.Model {
	t.Helper()
	m, err := doc.Build()
	require.NoError(t, err)
	return m
}

func TestImport(t *testing.T) {
	m := build(t, model.Document{
		Classes: []model.ClassDoc{
			{Name: "Person", Stereotype: "kind", Attributes: []model.AttributeDoc{
				{Name: "name", Type: "string"},
				{Name: "birthDate", Type: "date", Cardinality: "0..1"},
				{Name: "nationality", Type: "Nationality", Cardinality: "1..*"},
			}},
			{Name: "Child", Stereotype: "phase"},
			{Name: "Adult", Stereotype: "phase"},
			{Name: "Employment", Stereotype: "relator"},
		},
		Enumerations: []model.EnumerationDoc{{Name: "Nationality", Literals: []string{"BRAZILIAN", "ITALIAN"}}},
		GeneralizationSets: []model.GeneralizationSetDoc{
			{Name: "LifePhase", General: "Person", Specifics: []string{"Child", "Adult"}, Disjoint: true, Complete: true},
		},
		Relations: []model.RelationDoc{
			{Source: "Adult", Target: "Employment", SourceCardinality: "1", TargetCardinality: "0..*"},
		},
	})

	g, tr, err := New(zap.NewNop()).Import(m)
	require.NoError(t, err)

	var nodes []string
	for _, n := range g.Nodes() {
		nodes = append(nodes, n.Name)
	}
	assert.Equal(t, []string{"Person", "Child", "Adult", "Employment", "nationality_Person"}, nodes)

	person := g.NodeByName("Person")
	require.Len(t, person.Properties, 2)
	assert.False(t, person.Properties[0].Col().Nullable)
	assert.True(t, person.Properties[1].Col().Nullable)
	assert.Equal(t, graph.Date, person.Properties[1].Col().Type)
	assert.True(t, person.Nature.UltimateSortal)
	assert.NotNil(t, person.Extent("Person"))

	aux := g.NodeByName("nationality_Person")
	assert.Equal(t, graph.NodeAttribute, aux.Kind)
	require.Len(t, aux.Properties, 1)
	enum, ok := aux.Properties[0].(*graph.EnumField)
	require.True(t, ok)
	assert.Equal(t, []string{"BRAZILIAN", "ITALIAN"}, enum.Labels)

	assocs := g.Associations()
	require.Len(t, assocs, 2)
	assert.Equal(t, graph.RelationAttribute, assocs[0].Kind)
	assert.Equal(t, graph.OneOrMore, assocs[0].TargetCard)
	assert.Equal(t, graph.ExactlyOne, assocs[1].SourceCard)
	assert.Equal(t, graph.ZeroOrMore, assocs[1].TargetCard)

	gens := g.Generalizations()
	require.Len(t, gens, 2)
	require.NotNil(t, gens[0].Set)
	assert.True(t, gens[0].Set.IsPartition())
	assert.Same(t, gens[0].Set, gens[1].Set)

	assert.True(t, tr.ExistsTracer("Person", "Person"))
	assert.True(t, tr.ExistsTracer("Person", "nationality_Person"))
	assert.True(t, tr.ExistsTracer("Adult", "Adult"))
}

func TestImportMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  model.Document
	}{
		{
			name: "empty set",
			doc: model.Document{
				Classes:            []model.ClassDoc{{Name: "Person"}},
				GeneralizationSets: []model.GeneralizationSetDoc{{Name: "LifePhase", General: "Person"}},
			},
		},
		{
			name: "generalization in two sets",
			doc: model.Document{
				Classes: []model.ClassDoc{{Name: "Person"}, {Name: "Adult"}},
				GeneralizationSets: []model.GeneralizationSetDoc{
					{Name: "A", General: "Person", Specifics: []string{"Adult"}},
					{Name: "B", General: "Person", Specifics: []string{"Adult"}},
				},
			},
		},
		{
			name: "duplicate attribute",
			doc: model.Document{
				Classes: []model.ClassDoc{{Name: "Person", Attributes: []model.AttributeDoc{
					{Name: "name"}, {Name: "name"},
				}}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := New(zap.NewNop()).Import(build(t, tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrModel), "%v", err)
		})
	}
}
