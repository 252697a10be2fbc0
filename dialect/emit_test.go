package dialect

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Feresey/onto2db/errs"
	"github.com/Feresey/onto2db/graph"
)

// personGraph: person с двумя флагами и employment со ссылкой на person.
func personGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	person, err := g.AddNode("person", graph.NodeClass, "Person")
	require.NoError(t, err)
	employment, err := g.AddNode("employment", graph.NodeClass, "Employment")
	require.NoError(t, err)

	g.EnsureIdentifier(person)
	g.EnsureIdentifier(employment)
	for _, name := range []string{"is_adult", "is_employee"} {
		f := graph.NewField(name, graph.Boolean, true, "Person")
		f.Default = "false"
		f.Discriminator = true
		require.NoError(t, person.AddProperty(f))
	}
	g.AddForeignKey(employment, "person_id", person.ID, false, "Employee")
	return g
}

func TestEmitH2(t *testing.T) {
	got, err := Emit(personGraph(t), H2, Options{Indexes: true})
	require.NoError(t, err)

	want := `CREATE TABLE person (
	person_id INTEGER NOT NULL IDENTITY,
	is_adult BOOLEAN DEFAULT FALSE,
	is_employee BOOLEAN DEFAULT FALSE,
	PRIMARY KEY (person_id)
);

CREATE TABLE employment (
	employment_id INTEGER NOT NULL IDENTITY,
	person_id INTEGER NOT NULL,
	PRIMARY KEY (employment_id)
);

ALTER TABLE employment ADD FOREIGN KEY (person_id) REFERENCES person (person_id);

CREATE INDEX idx_person_is_adult ON person (is_adult, person_id);
CREATE INDEX idx_person_is_employee ON person (is_employee, person_id);
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Emit() mismatch (-want +got):\n%s", diff)
	}
}

func TestEmitDialects(t *testing.T) {
	tests := []struct {
		dbms     DBMS
		pk       string
		flag     string
		identity bool
	}{
		{MySQL, "person_id INT NOT NULL AUTO_INCREMENT", "is_adult TINYINT(1) DEFAULT FALSE", true},
		{Oracle, "person_id NUMBER(10) GENERATED ALWAYS AS IDENTITY NOT NULL", "is_adult CHAR(1) DEFAULT '0'", true},
		{Postgre, "person_id SERIAL NOT NULL", "is_adult BOOLEAN DEFAULT FALSE", true},
		{SQLServer, "person_id INT NOT NULL IDENTITY(1,1)", "is_adult BIT DEFAULT 0", true},
		{Generic, "person_id INTEGER NOT NULL,", "is_adult BOOLEAN DEFAULT FALSE", false},
	}

	base, err := Emit(personGraph(t), H2, Options{})
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.dbms.String(), func(t *testing.T) {
			got, err := Emit(personGraph(t), tt.dbms, Options{})
			require.NoError(t, err)
			assert.Contains(t, got, tt.pk)
			assert.Contains(t, got, tt.flag)

			again, err := Emit(personGraph(t), tt.dbms, Options{})
			require.NoError(t, err)
			assert.Equal(t, got, again)

			// топология одинакова во всех диалектах
			assert.Equal(t, strings.Count(base, "CREATE TABLE"), strings.Count(got, "CREATE TABLE"))
			assert.Equal(t, strings.Count(base, "ADD FOREIGN KEY"), strings.Count(got, "ADD FOREIGN KEY"))
			assert.NotContains(t, got, "CREATE INDEX")
		})
	}
}

func TestEmitEnum(t *testing.T) {
	g := graph.New()
	person, err := g.AddNode("person", graph.NodeClass, "Person")
	require.NoError(t, err)
	g.EnsureIdentifier(person)
	require.NoError(t, person.AddProperty(graph.NewEnumField("life_phase_enum", []string{"CHILD", "ADULT"}, false, "Person")))
	require.NoError(t, person.AddProperty(graph.NewField("user", graph.StringOf(20), true, "Person")))

	tests := []struct {
		dbms DBMS
		want []string
	}{
		{H2, []string{`life_phase_enum ENUM('CHILD', 'ADULT') NOT NULL`, `"user" VARCHAR(20)`}},
		{MySQL, []string{`life_phase_enum ENUM('CHILD', 'ADULT') NOT NULL`, "`user` VARCHAR(20)"}},
		{Postgre, []string{`life_phase_enum VARCHAR(5) NOT NULL CHECK (life_phase_enum IN ('CHILD', 'ADULT'))`, `"user" VARCHAR(20)`}},
		{Oracle, []string{`life_phase_enum VARCHAR2(5) NOT NULL CHECK`, `"user" VARCHAR2(20)`}},
		{SQLServer, []string{`life_phase_enum VARCHAR(5) NOT NULL CHECK`, `[user] VARCHAR(20)`}},
	}
	for _, tt := range tests {
		t.Run(tt.dbms.String(), func(t *testing.T) {
			got, err := Emit(g, tt.dbms, Options{})
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestEmitLookupRows(t *testing.T) {
	g := graph.New()
	lookup, err := g.AddNode("life_phase", graph.NodeLookup, "life_phase")
	require.NoError(t, err)
	g.EnsureIdentifier(lookup)
	require.NoError(t, lookup.AddProperty(graph.NewField("life_phase_enum", graph.StringOf(5), false)))
	lookup.Rows = [][]string{{"1", "CHILD"}, {"2", "ADULT"}}

	got, err := Emit(g, Postgre, Options{})
	require.NoError(t, err)
	want := `CREATE TABLE life_phase (
	life_phase_id INTEGER NOT NULL,
	life_phase_enum VARCHAR(5) NOT NULL,
	PRIMARY KEY (life_phase_id)
);

INSERT INTO life_phase (life_phase_id, life_phase_enum) VALUES (1, 'CHILD');
INSERT INTO life_phase (life_phase_id, life_phase_enum) VALUES (2, 'ADULT');
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Emit() mismatch (-want +got):\n%s", diff)
	}
}

func TestEmitCycle(t *testing.T) {
	g := graph.New()
	a, err := g.AddNode("a", graph.NodeClass, "A")
	require.NoError(t, err)
	b, err := g.AddNode("b", graph.NodeClass, "B")
	require.NoError(t, err)
	g.EnsureIdentifier(a)
	g.EnsureIdentifier(b)
	g.AddForeignKey(a, "b_id", b.ID, true)
	g.AddForeignKey(b, "a_id", a.ID, true)

	got, err := Emit(g, H2, Options{})
	require.NoError(t, err)
	assert.Less(t, strings.Index(got, "CREATE TABLE a"), strings.Index(got, "CREATE TABLE b"))
	assert.Equal(t, 2, strings.Count(got, "ADD FOREIGN KEY"))
}

func TestConnection(t *testing.T) {
	got, err := Connection(Postgre, ConnectionOptions{
		DatabaseName: "people",
		User:         "onto",
		Password:     "secret",
	})
	require.NoError(t, err)
	want := `jdbc.url=jdbc:postgresql://localhost:5432/people
jdbc.driver=org.postgresql.Driver
jdbc.user=onto
jdbc.password=secret
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Connection() mismatch (-want +got):\n%s", diff)
	}

	got, err = Connection(SQLServer, ConnectionOptions{Host: "db", Port: 1444, DatabaseName: "people"})
	require.NoError(t, err)
	assert.Contains(t, got, "jdbc.url=jdbc:sqlserver://db:1444;databaseName=people\n")

	_, err = Connection(Generic, ConnectionOptions{})
	assert.True(t, errors.Is(err, errs.ErrConfig))
}

func TestDBMSText(t *testing.T) {
	for dbms, name := range dbmsNames {
		var got DBMS
		require.NoError(t, got.UnmarshalText([]byte(name)))
		assert.Equal(t, dbms, got)
	}
	var d DBMS
	require.NoError(t, d.UnmarshalText([]byte("postgresql")))
	assert.Equal(t, Postgre, d)
	assert.True(t, errors.Is(d.UnmarshalText([]byte("sqlite")), errs.ErrConfig))
}
