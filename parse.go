package main

import (
	"encoding/csv"
	"io"

	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/Feresey/onto2db/graph"
	"github.com/Feresey/onto2db/transform"
)

type inspectFlags struct {
	flags
	model      ModelLoaderFlags
	outputPath *cli.StringFlag
}

func (f *inspectFlags) Set() []cli.Flag {
	return append(f.flags.Set(),
		f.model.modelPath,
		f.outputPath,
	)
}

// inspectCommand запускает преобразование без генераторов и печатает
// промежуточный результат: граф или трассировки.
type inspectCommand struct {
	name        string
	description string
	file        string
	pf          inspectFlags
	BaseCommand

	loader ModelLoader
	dump   func(w io.Writer, res *transform.Result) error
}

func newInspectCommand(f flags) inspectCommand {
	return inspectCommand{
		pf: inspectFlags{
			flags: f,
			model: NewModelLoaderFlags(),
			outputPath: &cli.StringFlag{
				Name:    "output",
				Usage:   "-o outdir, stdout by default",
				Aliases: []string{"o"},
			},
		},
	}
}

func NewGraphCommand(f flags) *inspectCommand {
	c := newInspectCommand(f)
	c.name = "graph"
	c.description = "dump reduced graph as PlantUML"
	c.file = "graph.puml"
	c.dump = func(w io.Writer, res *transform.Result) error {
		return res.Graph.Dump(w)
	}
	return &c
}

func NewTraceCommand(f flags) *inspectCommand {
	c := newInspectCommand(f)
	c.name = "trace"
	c.description = "dump classifier to table traces as CSV"
	c.file = "trace.csv"
	c.dump = func(w io.Writer, res *transform.Result) error {
		var conv CSVConverter
		return csv.NewWriter(w).WriteAll(conv.ConvertTrace(res.Graph, res.Tracker))
	}
	return &c
}

func (p *inspectCommand) Command() *cli.Command {
	return &cli.Command{
		Name:        p.name,
		Description: p.description,
		Flags:       p.pf.Set(),
		Before:      p.init,
		Action:      p.run,
	}
}

func (p *inspectCommand) init(ctx *cli.Context) error {
	base, err := NewBase(ctx, p.pf.flags)
	if err != nil {
		return cli.Exit(err, 2)
	}
	p.BaseCommand = base
	p.loader = ModelLoader{BaseCommand: base}
	return nil
}

func (p *inspectCommand) run(ctx *cli.Context) error {
	m, err := p.loader.GetModel(ctx, p.pf.model)
	if err != nil {
		return err
	}

	opts := p.cnf.Transform
	opts.GenerateSchema = false
	opts.GenerateConnection = false
	opts.GenerateObdaFile = false
	res, err := transform.New(p.log).Run(m, opts)
	if err != nil {
		return p.report(xerrors.Errorf("transform model: %w", err))
	}
	if _, err := res.Graph.TopologicalSort(); err != nil && !xerrors.Is(err, graph.ErrCycle) {
		return xerrors.Errorf("try to determine tables order: %w", err)
	}

	dumpdir := p.pf.outputPath.Get(ctx)
	if dumpdir != "" {
		if err := createDirIfNotExist(dumpdir); err != nil {
			return xerrors.Errorf("create dump dir: %w", err)
		}
	}
	return dumpToFile(p.log, dumpdir, p.file, res, p.dump)
}
