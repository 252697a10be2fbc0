package main

import (
	"encoding/csv"
	"io"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/Feresey/onto2db/dialect"
	"github.com/Feresey/onto2db/reduce"
	"github.com/Feresey/onto2db/transform"
)

type transformFlags struct {
	flags
	model      ModelLoaderFlags
	outputPath *cli.StringFlag
	strategy   *cli.StringFlag
	dbms       *cli.StringFlag
	lookup     *cli.BoolFlag
	indexes    *cli.BoolFlag
}

func (f transformFlags) Set() []cli.Flag {
	return append(
		f.flags.Set(),
		f.model.modelPath,
		f.outputPath,
		f.strategy,
		f.dbms,
		f.lookup,
		f.indexes,
	)
}

type TransformCommand struct {
	flags transformFlags
	BaseCommand

	loader ModelLoader
}

func NewTransformCommand(f flags) *TransformCommand {
	return &TransformCommand{
		flags: transformFlags{
			flags: f,
			model: NewModelLoaderFlags(),
			outputPath: &cli.StringFlag{
				Name:    "output",
				Usage:   "-o outdir",
				Aliases: []string{"o"},
			},
			strategy: &cli.StringFlag{
				Name:  "strategy",
				Usage: "ONE_TABLE_PER_KIND, ONE_TABLE_PER_CLASS or ONE_TABLE_PER_CONCRETE_CLASS",
			},
			dbms: &cli.StringFlag{
				Name:  "dbms",
				Usage: "H2, MYSQL, ORACLE, POSTGRE, SQLSERVER or GENERIC_SCHEMA",
			},
			lookup: &cli.BoolFlag{
				Name:  "lookup",
				Usage: "replace enumerations with lookup tables",
			},
			indexes: &cli.BoolFlag{
				Name:  "indexes",
				Usage: "create indexes on discriminator columns",
			},
		},
	}
}

func (p *TransformCommand) Command() *cli.Command {
	return &cli.Command{
		Name:        "transform",
		Description: "compile model into schema, connection properties and mapping",
		Flags:       p.flags.Set(),
		Before:      p.Init,
		Action:      p.Transform,
	}
}

func (p *TransformCommand) Init(ctx *cli.Context) error {
	base, err := NewBase(ctx, p.flags.flags)
	if err != nil {
		return cli.Exit(err, 2)
	}
	if err := p.applyFlags(ctx, base.cnf); err != nil {
		return cli.Exit(err, 2)
	}
	p.BaseCommand = base
	p.loader = ModelLoader{BaseCommand: base}
	return nil
}

// applyFlags флаги командной строки важнее файла настроек.
func (p *TransformCommand) applyFlags(ctx *cli.Context, cnf *AppConfig) error {
	if ctx.IsSet(p.flags.strategy.Name) {
		var s reduce.Strategy
		if err := s.UnmarshalText([]byte(p.flags.strategy.Get(ctx))); err != nil {
			return err
		}
		cnf.Transform.MappingStrategy = s
	}
	if ctx.IsSet(p.flags.dbms.Name) {
		var d dialect.DBMS
		if err := d.UnmarshalText([]byte(p.flags.dbms.Get(ctx))); err != nil {
			return err
		}
		cnf.Transform.TargetDBMS = d
	}
	if ctx.IsSet(p.flags.lookup.Name) {
		cnf.Transform.EnumFieldToLookupTable = p.flags.lookup.Get(ctx)
	}
	if ctx.IsSet(p.flags.indexes.Name) {
		cnf.Transform.GenerateIndexes = p.flags.indexes.Get(ctx)
	}
	if ctx.IsSet(p.flags.outputPath.Name) {
		cnf.Output = p.flags.outputPath.Get(ctx)
	}
	return nil
}

func (p *TransformCommand) Transform(ctx *cli.Context) error {
	m, err := p.loader.GetModel(ctx, p.flags.model)
	if err != nil {
		return err
	}

	res, err := transform.New(p.log).Run(m, p.cnf.Transform)
	if err != nil {
		return p.report(xerrors.Errorf("transform model: %w", err))
	}
	return p.DumpResult(res, p.cnf.Output)
}

func (p *TransformCommand) DumpResult(res *transform.Result, dumpdir string) error {
	if dumpdir != "" {
		if err := createDirIfNotExist(dumpdir); err != nil {
			return xerrors.Errorf("create dump dir: %w", err)
		}
	}
	for _, out := range []struct {
		file    string
		content string
	}{
		{"schema.sql", res.Schema},
		{"connection.properties", res.Connection},
		{"mapping.obda", res.Mapping},
	} {
		if out.content == "" {
			continue
		}
		if err := dumpToFile(p.log, dumpdir, out.file, out.content, dumpString); err != nil {
			return xerrors.Errorf("dump %s: %w", out.file, err)
		}
	}

	var conv CSVConverter
	err := dumpToFile(p.log, dumpdir, "trace.csv", conv.ConvertTrace(res.Graph, res.Tracker), func(w io.Writer, records [][]string) error {
		return csv.NewWriter(w).WriteAll(records)
	})
	if err != nil {
		return xerrors.Errorf("dump trace: %w", err)
	}
	p.log.Info("transform results dumped", zap.String("output", dumpdir))
	return nil
}
