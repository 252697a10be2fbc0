//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

func Lint() error {
	return sh.RunV("golangci-lint", "run")
}

func Generate() error {
	return sh.RunV("go", "generate", "./...")
}

func Update() error {
	if err := sh.RunV("go", "get", "-u", "-v"); err != nil {
		return err
	}
	return sh.RunV("go", "mod", "tidy", "-v")
}

func Build() error {
	return sh.RunV("go", "build", "-o", "bin/onto2db", ".")
}

type Test mg.Namespace

func (Test) All() error {
	return sh.RunV("go", "test", "-v", "./...")
}

func (Test) Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

func (Test) Cover() error {
	if err := sh.RunV("go", "test", "-coverprofile", "cover.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func", "cover.out")
}

type Example mg.Namespace

// Person компилирует пример модели во все выходы для каждой СУБД.
func (Example) Person() error {
	mg.Deps(Build)
	for _, dbms := range []string{"H2", "MYSQL", "ORACLE", "POSTGRE", "SQLSERVER"} {
		err := sh.RunV("bin/onto2db", "transform",
			"-m", "model/testdata/person.yml",
			"--dbms", dbms,
			"--lookup",
			"-o", "out/"+dbms,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
