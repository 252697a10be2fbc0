package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/xerrors"

	"github.com/Feresey/onto2db/errs"
)

func newLogger(debug bool) (*zap.Logger, error) {
	lc := zap.NewDevelopmentConfig()
	lc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	lc.DisableStacktrace = true
	if debug {
		lc.Level.SetLevel(zap.DebugLevel)
	} else {
		lc.Level.SetLevel(zap.InfoLevel)
	}
	return lc.Build()
}

type flags struct {
	configPath *cli.StringFlag
	debug      *cli.BoolFlag
}

func (f *flags) Set() []cli.Flag {
	return []cli.Flag{
		f.configPath,
		f.debug,
	}
}

const defaultConfigPath = "onto2db.yml"

func main() {
	f := flags{
		configPath: &cli.StringFlag{
			Name:      "config",
			Value:     defaultConfigPath,
			Usage:     "config file path",
			TakesFile: true,
			Aliases:   []string{"c"},
		},
		debug: &cli.BoolFlag{
			Name:   "debug",
			Value:  false,
			Usage:  "show debug information",
			Hidden: true,
		},
	}

	app := &cli.App{
		Name:        "onto2db",
		Description: "ontology to relational schema compiler",
		Flags:       f.Set(),
		Commands: []*cli.Command{
			NewTransformCommand(f).Command(),
			NewGraphCommand(f).Command(),
			NewTraceCommand(f).Command(),
		},
		ExitErrHandler: func(ctx *cli.Context, err error) {
			if err == nil {
				return
			}
			var exitErr cli.ExitCoder
			if errors.As(err, &exitErr) {
				fmt.Printf("%v\n", err)
				os.Exit(exitErr.ExitCode())
			}
			if f.debug.Get(ctx) {
				fmt.Printf("%+v\n", err)
			} else {
				fmt.Printf("%v\n", err)
			}
			os.Exit(1)
		},
		EnableBashCompletion: true,
	}
	if err := app.Run(os.Args); err != nil {
		println(err.Error())
		os.Exit(2)
	}
}

type BaseCommand struct {
	log *zap.Logger
	cnf *AppConfig
}

func NewBase(ctx *cli.Context, f flags) (BaseCommand, error) {
	var empty BaseCommand
	log, err := newLogger(f.debug.Get(ctx))
	if err != nil {
		return empty, xerrors.Errorf("create logger: %w", err)
	}
	zap.ReplaceGlobals(log)
	cnf, err := ReadConfig(f.configPath.Get(ctx), ctx.IsSet(f.configPath.Name))
	if err != nil {
		return empty, xerrors.Errorf("get config: %w", err)
	}
	log.Debug("config readed")

	return BaseCommand{
		log: log,
		cnf: cnf,
	}, nil
}

// report печатает элементы модели, на которых остановилось преобразование.
func (b *BaseCommand) report(err error) error {
	var tErr errs.Error
	if errors.As(err, &tErr) {
		b.log.Error(tErr.Pretty())
	}
	return err
}
