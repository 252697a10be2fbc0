package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Feresey/onto2db/dialect"
	"github.com/Feresey/onto2db/model"
	"github.com/Feresey/onto2db/reduce"
	"github.com/Feresey/onto2db/transform"
)

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "naming.lua")
	require.NoError(t, os.WriteFile(script, []byte(`function standardize(name, kind) return name end`), 0o600))

	conf := filepath.Join(dir, "onto2db.yml")
	require.NoError(t, os.WriteFile(conf, []byte(`
strategy: one_table_per_class
dbms: POSTGRES
lookupTables: true
generate:
  connection: true
connection:
  database: onto
  user: admin
baseIRI: http://onto.test#
namingScript: `+script+`
output: result
`), 0o600))

	c, err := ReadConfig(conf, true)
	require.NoError(t, err)

	opts := c.Transform
	assert.Equal(t, reduce.OneTablePerClass, opts.MappingStrategy)
	assert.Equal(t, dialect.Postgre, opts.TargetDBMS)
	assert.True(t, opts.EnumFieldToLookupTable)
	assert.True(t, opts.StandardizeNames)
	assert.True(t, opts.GenerateSchema)
	assert.True(t, opts.GenerateConnection)
	assert.True(t, opts.GenerateObdaFile)
	assert.Equal(t, "onto", opts.DatabaseName)
	assert.Equal(t, "admin", opts.User)
	assert.Equal(t, "http://onto.test#", opts.BaseIRI)
	assert.Contains(t, opts.NamingScript, "function standardize")
	assert.Equal(t, "result", c.Output)
}

func TestReadConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "onto2db.yml")

	c, err := ReadConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, transform.DefaultOptions(), c.Transform)
	assert.Equal(t, "out", c.Output)

	_, err = ReadConfig(path, true)
	require.Error(t, err)
}

func TestReadConfigWrongValue(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "onto2db.yml")
	require.NoError(t, os.WriteFile(conf, []byte("dbms: sqlite\n"), 0o600))

	_, err := ReadConfig(conf, true)
	require.Error(t, err)
}

func TestConvertTrace(t *testing.T) {
	doc := model.Document{
		Classes: []model.ClassDoc{
			{Name: "Person", Stereotype: "kind"},
			{Name: "Adult", Stereotype: "phase"},
		},
		Generalizations: []model.GeneralizationDoc{{General: "Person", Specific: "Adult"}},
	}
	m, err := doc.Build()
	require.NoError(t, err)
	res, err := transform.New(zap.NewNop()).Run(m, transform.DefaultOptions())
	require.NoError(t, err)

	var conv CSVConverter
	assert.Equal(t, [][]string{
		{"classifier", "table"},
		{"Person", "person"},
		{"Adult", "person"},
	}, conv.ConvertTrace(res.Graph, res.Tracker))
}
