package main

import (
	"errors"
	"io/fs"
	"os"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"

	"github.com/Feresey/onto2db/dialect"
	"github.com/Feresey/onto2db/reduce"
	"github.com/Feresey/onto2db/transform"
)

type FileConfig struct {
	Strategy         reduce.Strategy `yaml:"strategy"`
	DBMS             dialect.DBMS    `yaml:"dbms"`
	StandardizeNames bool            `yaml:"standardizeNames"`
	LookupTables     bool            `yaml:"lookupTables"`
	Generate         GenerateConfig  `yaml:"generate"`
	Connection       ConnConfig      `yaml:"connection"`
	BaseIRI          string          `yaml:"baseIRI"`
	NamingScript     string          `yaml:"namingScript"`
	Output           string          `yaml:"output"`
}

type GenerateConfig struct {
	Schema     bool `yaml:"schema"`
	Connection bool `yaml:"connection"`
	Obda       bool `yaml:"obda"`
	Indexes    bool `yaml:"indexes"`
}

type ConnConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type AppConfig struct {
	Transform transform.Options
	Output    string
}

func defaultFileConfig() FileConfig {
	opts := transform.DefaultOptions()
	return FileConfig{
		Strategy:         opts.MappingStrategy,
		DBMS:             opts.TargetDBMS,
		StandardizeNames: opts.StandardizeNames,
		Generate: GenerateConfig{
			Schema: opts.GenerateSchema,
			Obda:   opts.GenerateObdaFile,
		},
		Output: "out",
	}
}

func (fc FileConfig) Build() (*AppConfig, error) {
	opts := transform.Options{
		MappingStrategy:        fc.Strategy,
		TargetDBMS:             fc.DBMS,
		StandardizeNames:       fc.StandardizeNames,
		GenerateSchema:         fc.Generate.Schema,
		GenerateConnection:     fc.Generate.Connection,
		GenerateObdaFile:       fc.Generate.Obda,
		GenerateIndexes:        fc.Generate.Indexes,
		EnumFieldToLookupTable: fc.LookupTables,
		ConnectionOptions: dialect.ConnectionOptions{
			Host:         fc.Connection.Host,
			Port:         fc.Connection.Port,
			DatabaseName: fc.Connection.Database,
			User:         fc.Connection.User,
			Password:     fc.Connection.Password,
		},
		BaseIRI: fc.BaseIRI,
	}
	if fc.NamingScript != "" {
		script, err := os.ReadFile(fc.NamingScript)
		if err != nil {
			return nil, xerrors.Errorf("read naming script: %w", err)
		}
		opts.NamingScript = string(script)
	}
	return &AppConfig{
		Transform: opts,
		Output:    fc.Output,
	}, nil
}

// ReadConfig читает файл настроек. Отсутствие файла по умолчанию не ошибка.
func ReadConfig(confPath string, required bool) (*AppConfig, error) {
	fc := defaultFileConfig()
	file, err := os.ReadFile(confPath)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !required:
		return fc.Build()
	case err != nil:
		return nil, xerrors.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(file, &fc); err != nil {
		return nil, xerrors.Errorf("parse config: %w", err)
	}

	c, err := fc.Build()
	if err != nil {
		return nil, xerrors.Errorf("process config data: %w", err)
	}
	return c, nil
}
