package lookup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Feresey/onto2db/dialect"
	"github.com/Feresey/onto2db/errs"
	"github.com/Feresey/onto2db/graph"
)

func columns(n *graph.Node) []string {
	var res []string
	for _, p := range n.Properties {
		res = append(res, p.Col().Name)
	}
	return res
}

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	person, err := g.AddNode("person", graph.NodeClass, "Person")
	require.NoError(t, err)
	aux, err := g.AddNode("nationality_person", graph.NodeAttribute, "nationality")
	require.NoError(t, err)
	g.EnsureIdentifier(person)
	g.EnsureIdentifier(aux)

	require.NoError(t, person.AddProperty(graph.NewField("name", graph.String, false, "Person")))
	phase := graph.NewEnumField("life_phase_enum", []string{"CHILD", "ADULT"}, false, "Person")
	phase.Attribute = "LifePhase"
	phase.Discriminator = true
	require.NoError(t, person.AddProperty(phase))
	person.Extents = []graph.Extent{
		{Classifier: "Person", Alternatives: []graph.Predicate{{}}},
		{Classifier: "Adult", Alternatives: []graph.Predicate{{{Column: "life_phase_enum", Label: "ADULT"}}}},
	}

	require.NoError(t, aux.AddProperty(graph.NewEnumField("nationality", []string{"BRAZILIAN", "ITALIAN"}, false, "Person")))
	g.AddForeignKey(aux, "person_id", person.ID, false, "Person")
	return g
}

func TestExpand(t *testing.T) {
	g := testGraph(t)
	require.NoError(t, New(zap.NewNop()).Expand(g, dialect.H2))

	var names []string
	for _, n := range g.Nodes() {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"person", "nationality_person", "life_phase", "nationality"}, names)

	person := g.NodeByName("person")
	phase := g.NodeByName("life_phase")
	assert.Equal(t, []string{"person_id", "name", "life_phase_id"}, columns(person))
	assert.Equal(t, []string{"life_phase_id", "life_phase_enum"}, columns(phase))
	assert.Equal(t, [][]string{{"1", "CHILD"}, {"2", "ADULT"}}, phase.Rows)
	assert.Equal(t, graph.NodeLookup, phase.Kind)
	assert.Equal(t, graph.StringOf(5), phase.Property("life_phase_enum").Col().Type)

	fk := person.Property("life_phase_id").Col()
	assert.Equal(t, phase.ID, fk.References)
	assert.False(t, fk.Nullable)
	assert.True(t, fk.Discriminator)

	cond := person.Extent("Adult").Alternatives[0][0]
	assert.Equal(t, "life_phase_id", cond.Column)
	assert.Equal(t, "ADULT", cond.Label)
	require.NotNil(t, cond.Lookup)
	assert.Equal(t, graph.LookupJoin{Node: phase.ID, KeyColumn: "life_phase_id", LabelColumn: "life_phase_enum"}, *cond.Lookup)

	assert.Equal(t, []string{"nationality_person_id", "nationality_id", "person_id"}, columns(g.NodeByName("nationality_person")))

	var lookups int
	for _, a := range g.Associations() {
		if a.Kind == graph.RelationLookup {
			lookups++
			assert.Equal(t, a.Source, a.Holder)
		}
	}
	assert.Equal(t, 2, lookups)
}

func TestExpandReusesLookup(t *testing.T) {
	g := graph.New()
	for _, name := range []string{"person", "pet"} {
		n, err := g.AddNode(name, graph.NodeClass, name)
		require.NoError(t, err)
		g.EnsureIdentifier(n)
		require.NoError(t, n.AddProperty(graph.NewEnumField("color", []string{"RED", "BLUE"}, true, name)))
	}
	car, err := g.AddNode("car", graph.NodeClass, "Car")
	require.NoError(t, err)
	g.EnsureIdentifier(car)
	require.NoError(t, car.AddProperty(graph.NewEnumField("color", []string{"BLACK"}, true, "Car")))

	require.NoError(t, New(zap.NewNop()).Expand(g, dialect.Postgre))
	color := g.NodeByName("color")
	require.NotNil(t, color)
	assert.Equal(t, color.ID, g.NodeByName("pet").Property("color_id").Col().References)
	assert.True(t, g.NodeByName("pet").Property("color_id").Col().Nullable)

	carColor := g.NodeByName("color_car")
	require.NotNil(t, carColor)
	assert.Equal(t, carColor.ID, car.Property("color_car_id").Col().References)
}

func TestExpandGeneric(t *testing.T) {
	err := New(zap.NewNop()).Expand(testGraph(t), dialect.Generic)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrConfig))
	assert.EqualError(t, err, "It is not possible to make lookup field for GENERIC database.")
}
