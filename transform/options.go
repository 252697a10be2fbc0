package transform

import (
	"github.com/Feresey/onto2db/dialect"
	"github.com/Feresey/onto2db/errs"
	"github.com/Feresey/onto2db/reduce"
)

// Options настройки одного запуска преобразования.
type Options struct {
	MappingStrategy reduce.Strategy
	TargetDBMS      dialect.DBMS

	StandardizeNames       bool
	GenerateSchema         bool
	GenerateConnection     bool
	GenerateObdaFile       bool
	GenerateIndexes        bool
	EnumFieldToLookupTable bool

	dialect.ConnectionOptions

	// BaseIRI пространство имен онтологии в файле отображений.
	BaseIRI string
	// NamingScript исходный код Lua функции standardize(name, kind).
	NamingScript string
}

func DefaultOptions() Options {
	return Options{
		MappingStrategy:  reduce.OneTablePerKind,
		TargetDBMS:       dialect.H2,
		StandardizeNames: true,
		GenerateSchema:   true,
		GenerateObdaFile: true,
	}
}

// Validate проверяет сочетание настроек до начала работы.
func (o Options) Validate() error {
	if _, ok := dialect.Dialects[o.TargetDBMS]; !ok {
		return errs.Config("undefined target database: %d", int(o.TargetDBMS))
	}
	switch o.MappingStrategy {
	case reduce.OneTablePerKind, reduce.OneTablePerClass, reduce.OneTablePerConcreteClass:
	default:
		return errs.Config("undefined mapping strategy: %d", int(o.MappingStrategy))
	}
	if o.TargetDBMS == dialect.Generic {
		if o.EnumFieldToLookupTable {
			return errs.Config("It is not possible to make lookup field for GENERIC database.")
		}
		if o.GenerateConnection {
			return errs.Config("It is not possible to make connection properties for GENERIC database.")
		}
	}
	return nil
}
