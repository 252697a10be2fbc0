package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

func createDirIfNotExist(path string) error {
	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		// Папка не существует, создаем ее
		err = os.MkdirAll(path, 0o755) //nolint:gomnd // dir mode
		if err != nil {
			return err
		}
	} else if err != nil {
		return err
	} else if !fileInfo.IsDir() {
		// Это не папка, возвращаем ошибку
		return &os.PathError{Op: "mkdir", Path: path, Err: os.ErrExist}
	}
	return nil
}

// dumpToFile пишет data в dumpdir/fileName, либо в stdout, если dumpdir пустой.
func dumpToFile[T any](
	log *zap.Logger,
	dumpdir string,
	fileName string,
	data T,
	dumpFunc func(w io.Writer, data T) error,
) (err error) {
	log = log.WithOptions(zap.AddCallerSkip(1))
	dumpfile := filepath.Join(dumpdir, fileName)
	if dumpdir == "" {
		dumpfile = "stdout"
	}
	defer func() {
		log.Info("dumped",
			zap.String("dumpfile", dumpfile),
			zap.Error(err),
		)
	}()

	var out io.Writer
	if dumpdir == "" {
		out = os.Stdout
	} else {
		file, err := os.Create(dumpfile)
		if err != nil {
			return xerrors.Errorf("create output file: %w", err)
		}
		defer func() {
			err = errors.Join(err, file.Close())
		}()
		out = file
	}

	return dumpFunc(out, data)
}

func dumpString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}
