package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/jinxlang/jinx/compiler"
	"github.com/jinxlang/jinx/compiler/format"
	"github.com/jinxlang/jinx/compiler/parse"
)

func main() {
	runCmd := &cli.Command{
		Name:        "run",
		Description: "compile files and execute them right away",
		Action:      runAct,
		Args:        cli.Args{},
	}

	evalCmd := &cli.Command{
		Name:        "eval",
		Description: "compile and execute expressions given as arguments",
		Action:      evalAct,
		Args:        cli.Args{},
	}

	parseCmd := &cli.Command{
		Name:   "parse",
		Action: parseAct,
		Args:   cli.Args{},
	}

	fmtCmd := &cli.Command{
		Name:   "fmt",
		Action: fmtAct,
		Args:   cli.Args{},
	}

	app := &cli.Command{
		Name:        "jinx",
		Description: "jinx is a jit compiler for a tiny expression language",
		Commands: []*cli.Command{
			runCmd,
			evalCmd,
			parseCmd,
			fmtCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func runAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		res, err := compiler.RunFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "run %v", a)
		}

		fmt.Printf("%d\n", res)
	}

	return nil
}

func evalAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		res, err := compiler.Run(ctx, "args", []byte(a))
		if err != nil {
			return errors.Wrap(err, "run %v", a)
		}

		fmt.Printf("%d\n", res)
	}

	return nil
}

func parseAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		x, err := parse.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		repr.Println(x)
	}

	return nil
}

func fmtAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		x, err := parse.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		b, err := format.Format(ctx, nil, x)
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		b = append(b, '\n')

		_, err = os.Stdout.Write(b)
		if err != nil {
			return errors.Wrap(err, "write")
		}
	}

	return nil
}
