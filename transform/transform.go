package transform

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"github.com/Feresey/onto2db/dialect"
	"github.com/Feresey/onto2db/graph"
	"github.com/Feresey/onto2db/importer"
	"github.com/Feresey/onto2db/lookup"
	"github.com/Feresey/onto2db/model"
	"github.com/Feresey/onto2db/naming"
	"github.com/Feresey/onto2db/obda"
	"github.com/Feresey/onto2db/reduce"
	"github.com/Feresey/onto2db/tracker"
)

const namingScriptName = "naming.lua"

// Transformer компилирует концептуальную модель в реляционную схему
// и сопровождающие ее файлы.
type Transformer struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Transformer {
	return &Transformer{log: log.Named("transform")}
}

// Result выходы запуска. Пустая строка означает, что выход не запрашивался.
type Result struct {
	Schema     string
	Connection string
	Mapping    string

	Graph   *graph.Graph
	Tracker *tracker.Tracker
}

// Run выполняет весь конвейер. Каждый запуск владеет своим графом,
// поэтому параллельные запуски независимы.
func (t *Transformer) Run(m model.Model, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	log := t.log.With(zap.Stringer("run", uuid.New()))
	log.Debug("transform started",
		zap.Stringer("strategy", opts.MappingStrategy),
		zap.Stringer("dbms", opts.TargetDBMS),
	)

	g, tr, err := importer.New(log).Import(m)
	if err != nil {
		return nil, xerrors.Errorf("import model: %w", err)
	}
	if err := reduce.New(log, opts.MappingStrategy).Reduce(g, tr); err != nil {
		return nil, xerrors.Errorf("reduce graph: %w", err)
	}
	if opts.StandardizeNames {
		var nopts []naming.Option
		if opts.NamingScript != "" {
			nopts = append(nopts, naming.WithScript(namingScriptName, opts.NamingScript))
		}
		if err := naming.New(log, nopts...).Standardize(g); err != nil {
			return nil, xerrors.Errorf("standardize names: %w", err)
		}
	}
	if opts.EnumFieldToLookupTable {
		if err := lookup.New(log).Expand(g, opts.TargetDBMS); err != nil {
			return nil, xerrors.Errorf("expand lookup tables: %w", err)
		}
	}

	res, err := t.emit(g, tr, opts)
	if err != nil {
		return nil, err
	}
	log.Info("transform finished",
		zap.Int("tables", len(g.Nodes())),
		zap.Int("associations", len(g.Associations())),
		zap.Int("classifiers", len(tr.Classifiers())),
	)
	return res, nil
}

// emit запускает генераторы параллельно, граф к этому моменту только читается.
func (t *Transformer) emit(g *graph.Graph, tr *tracker.Tracker, opts Options) (*Result, error) {
	res := &Result{Graph: g, Tracker: tr}
	d := dialect.Dialects[opts.TargetDBMS]

	var eg errgroup.Group
	if opts.GenerateSchema {
		eg.Go(func() (err error) {
			res.Schema, err = dialect.Emit(g, opts.TargetDBMS, dialect.Options{Indexes: opts.GenerateIndexes})
			if err != nil {
				return xerrors.Errorf("emit schema: %w", err)
			}
			return nil
		})
	}
	if opts.GenerateConnection {
		eg.Go(func() (err error) {
			res.Connection, err = dialect.Connection(opts.TargetDBMS, opts.ConnectionOptions)
			if err != nil {
				return xerrors.Errorf("emit connection: %w", err)
			}
			return nil
		})
	}
	if opts.GenerateObdaFile {
		eg.Go(func() (err error) {
			res.Mapping, err = obda.Emit(g, tr, obda.Options{
				BaseIRI:      opts.BaseIRI,
				DatabaseName: opts.DatabaseName,
				Quote:        d.Ident,
				True:         d.True,
			})
			if err != nil {
				return xerrors.Errorf("emit mapping: %w", err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
