package graph

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGraph(t *testing.T, refs map[string][]string, order []string) *Graph {
	t.Helper()
	g := New()
	for _, name := range order {
		_, err := g.AddNode(name, NodeClass, name)
		require.NoError(t, err)
	}
	for _, name := range order {
		n := g.NodeByName(name)
		for _, ref := range refs[name] {
			g.AddForeignKey(n, ref+"_id", g.NodeByName(ref).ID, true)
		}
	}
	return g
}

func names(nodes []*Node) []string {
	if len(nodes) == 0 {
		return nil
	}
	res := make([]string, 0, len(nodes))
	for _, n := range nodes {
		res = append(res, n.Name)
	}
	return res
}

func TestTopologicalSort(t *testing.T) {
	tables := []struct {
		name     string
		order    []string
		graph    map[string][]string
		expected []string
		wantErr  error
	}{
		{
			"Single Table",
			[]string{"1"},
			nil,
			[]string{"1"},
			nil,
		},
		{
			"No Tables",
			nil,
			nil,
			nil,
			nil,
		},
		{
			"No Relationships",
			[]string{"1", "2"},
			nil,
			[]string{"1", "2"},
			nil,
		},
		{
			"Referenced First",
			[]string{"person", "nationality_person", "life_phase", "nationality"},
			map[string][]string{
				"person":             {"life_phase"},
				"nationality_person": {"nationality", "person"},
			},
			[]string{"life_phase", "nationality", "person", "nationality_person"},
			nil,
		},
		{
			"Self Reference",
			[]string{"1", "2"},
			map[string][]string{
				"1": {"1", "2"},
			},
			[]string{"2", "1"},
			nil,
		},
		{
			"Simple Graph with One Cycle",
			[]string{"1", "2", "3"},
			map[string][]string{
				"1": {"2"},
				"2": {"1"},
				"3": {"1"},
			},
			nil,
			ErrCycle,
		},
	}

	for _, tt := range tables {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, tt.graph, tt.order)
			got, err := g.TopologicalSort()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names(got))
		})
	}
}

func TestAddNodeUnique(t *testing.T) {
	g := New()
	_, err := g.AddNode("person", NodeClass, "Person")
	require.NoError(t, err)
	_, err = g.AddNode("person", NodeClass, "Person")
	require.Error(t, err)
}

func TestRemoveReferencedNodePanics(t *testing.T) {
	g := New()
	person, err := g.AddNode("person", NodeClass, "Person")
	require.NoError(t, err)
	car, err := g.AddNode("car", NodeClass, "Car")
	require.NoError(t, err)
	a := g.AddAssociation(&Association{Source: person.ID, Target: car.ID})

	assert.Panics(t, func() { g.RemoveNode(car.ID) })

	g.RemoveAssociation(a)
	assert.NotPanics(t, func() { g.RemoveNode(car.ID) })
	assert.Nil(t, g.NodeByName("car"))
	assert.Equal(t, []string{"person"}, names(g.Nodes()))

	adult, err := g.AddNode("adult", NodeClass, "Adult")
	require.NoError(t, err)
	gen := g.AddGeneralization(person.ID, adult.ID, nil)
	assert.Panics(t, func() { g.RemoveNode(person.ID) })
	g.RemoveGeneralization(gen)
	assert.Empty(t, g.Generalizations())
}

func TestRenameProperty(t *testing.T) {
	g := New()
	person, err := g.AddNode("Person", NodeClass, "Person")
	require.NoError(t, err)
	lookup, err := g.AddNode("LifePhase", NodeLookup, "LifePhase")
	require.NoError(t, err)

	require.NoError(t, person.AddProperty(NewField("is_Adult", Boolean, true, "Person")))
	require.NoError(t, lookup.AddProperty(NewField("LifePhase_enum", String, false)))
	person.MergeExtent(Extent{
		Classifier: "Adult",
		Alternatives: []Predicate{{
			{Column: "is_Adult", Flag: true},
			{Column: "phase", Label: "ADULT", Lookup: &LookupJoin{Node: lookup.ID, LabelColumn: "LifePhase_enum"}},
		}},
	})

	require.NoError(t, g.RenameProperty(person.ID, "is_Adult", "is_adult"))
	require.NoError(t, g.RenameProperty(lookup.ID, "LifePhase_enum", "life_phase_enum"))
	require.Error(t, g.RenameProperty(person.ID, "missing", "other"))

	alt := person.Extent("Adult").Alternatives[0]
	assert.Equal(t, "is_adult", alt[0].Column)
	assert.Equal(t, "life_phase_enum", alt[1].Lookup.LabelColumn)
	assert.Equal(t, "is_adult = TRUE AND phase = 'ADULT'", alt.String())
}

func TestPropertyOrder(t *testing.T) {
	g := New()
	n, err := g.AddNode("person", NodeClass, "Person")
	require.NoError(t, err)
	require.NoError(t, n.AddProperty(NewField("name", String, false, "Person")))
	require.NoError(t, n.AddProperty(NewField("person_id", Integer, false, "Person")))
	require.Error(t, n.AddProperty(NewField("name", String, false, "Person")))

	pk := g.EnsureIdentifier(n)
	assert.Equal(t, "person_id", pk.Name)
	assert.Equal(t, pk, n.Identifier())

	var cols []string
	for _, p := range n.Properties {
		cols = append(cols, p.Col().Name)
	}
	assert.Equal(t, []string{"person_id", "name", "person_id_2"}, cols)
}

func TestForeignKeyName(t *testing.T) {
	g := New()
	person, err := g.AddNode("person", NodeClass, "Person")
	require.NoError(t, err)
	org, err := g.AddNode("organization", NodeClass, "Organization")
	require.NoError(t, err)

	first := g.ForeignKeyName(person, org.ID, "worksFor")
	assert.Equal(t, "organization_id", first)
	g.AddForeignKey(person, first, org.ID, true)

	second := g.ForeignKeyName(person, org.ID, "NamedEntity")
	assert.Equal(t, "NamedEntity_organization_id", second)
	g.AddForeignKey(person, second, org.ID, true)

	third := g.ForeignKeyName(person, org.ID, "NamedEntity")
	assert.Equal(t, "NamedEntity_organization_id_2", third)
}

func TestCardinality(t *testing.T) {
	tests := []struct {
		a, b  Cardinality
		widen Cardinality
	}{
		{ExactlyOne, ExactlyOne, ExactlyOne},
		{ExactlyOne, ZeroOrOne, ZeroOrOne},
		{ExactlyOne, OneOrMore, OneOrMore},
		{OneOrMore, ZeroOrOne, ZeroOrMore},
		{ZeroOrMore, ExactlyOne, ZeroOrMore},
	}
	for _, tt := range tests {
		t.Run(tt.a.String()+"+"+tt.b.String(), func(t *testing.T) {
			assert.Equal(t, tt.widen, tt.a.Widen(tt.b))
			assert.Equal(t, tt.widen, tt.b.Widen(tt.a))
		})
	}

	assert.Equal(t, ZeroOrOne, ExactlyOne.Optional())
	assert.Equal(t, ZeroOrMore, OneOrMore.Optional())
	assert.Equal(t, OneOrMore, FromBounds(1, 5))

	c, err := ParseCardinality("0..*")
	require.NoError(t, err)
	assert.Equal(t, ZeroOrMore, c)
	_, err = ParseCardinality("2..3")
	assert.Error(t, err)
}

func TestParseDataType(t *testing.T) {
	assert.Equal(t, Integer, ParseDataType("int"))
	assert.Equal(t, Boolean, ParseDataType("Boolean"))
	assert.Equal(t, DateTime, ParseDataType("datetime"))
	assert.Equal(t, String, ParseDataType("Nationality"))
	assert.Equal(t, "string(255)", ParseDataType("string").String())
}

func TestAncestors(t *testing.T) {
	g := New()
	g.SetLineage("Employee", []string{"Adult"})
	g.SetLineage("Adult", []string{"Person"})
	g.SetLineage("Person", []string{"NamedEntity", "Agent"})

	assert.Equal(t, []string{"Adult", "Agent", "NamedEntity", "Person"}, g.Ancestors("Employee"))
	assert.Empty(t, g.Ancestors("Agent"))
}

func TestDump(t *testing.T) {
	g := New()
	person, err := g.AddNode("person", NodeClass, "Person")
	require.NoError(t, err)
	require.NoError(t, person.AddProperty(NewEnumField("life_phase_enum", []string{"CHILD", "ADULT"}, false, "Person")))
	employment, err := g.AddNode("employment", NodeClass, "Employment")
	require.NoError(t, err)
	g.AddAssociation(&Association{
		Source:     person.ID,
		Target:     employment.ID,
		SourceCard: ExactlyOne,
		TargetCard: ZeroOrMore,
	})

	var buf bytes.Buffer
	require.NoError(t, g.Dump(&buf))
	out := buf.String()
	assert.Contains(t, out, "@startuml")
	assert.Contains(t, out, `entity "person" as person <<class>>`)
	assert.Contains(t, out, "life_phase_enum : enumeration CHILD|ADULT")
	assert.Contains(t, out, `person "1" -- "0..N" employment`)
}
