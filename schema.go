package main

import (
	"bytes"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/Feresey/onto2db/model"
)

type ModelLoaderFlags struct {
	modelPath *cli.StringFlag
}

func NewModelLoaderFlags() ModelLoaderFlags {
	return ModelLoaderFlags{
		modelPath: &cli.StringFlag{
			Name:     "model",
			Aliases:  []string{"m"},
			Usage:    "-m model.yml",
			Required: true,
			Action: func(ctx *cli.Context, fpath string) error {
				if fpath == stdinFileName {
					return nil
				}
				fileInfo, err := os.Stat(fpath)
				if os.IsNotExist(err) {
					return xerrors.Errorf("model file %q does not exist", fpath)
				}
				if fileInfo.IsDir() {
					return xerrors.Errorf("%q is a directory, expected file", fpath)
				}
				return nil
			},
		},
	}
}

const stdinFileName = "-"

type ModelLoader struct {
	BaseCommand
}

func (p *ModelLoader) GetModel(ctx *cli.Context, mflags ModelLoaderFlags) (m model.Model, err error) {
	filename := mflags.modelPath.Get(ctx)
	p.log.Debug("load model from file", zap.String("filename", filename))
	defer p.log.Info("model loaded", zap.Error(err), zap.String("filename", filename))

	var in io.Reader
	if filename == stdinFileName {
		in = os.Stdin
	} else {
		fileData, err := os.ReadFile(filename)
		if err != nil {
			return nil, xerrors.Errorf("read model file: %w", err)
		}
		in = bytes.NewReader(fileData)
	}
	doc, err := model.Load(in)
	if err != nil {
		return nil, err
	}
	m, err = doc.Build()
	if err != nil {
		return nil, xerrors.Errorf("build model: %w", err)
	}
	return m, nil
}
