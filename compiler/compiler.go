package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/jinxlang/jinx/compiler/back"
	"github.com/jinxlang/jinx/compiler/front"
	"github.com/jinxlang/jinx/compiler/parse"
)

// RunFile compiles and executes one source file and returns the
// expression's 64-bit integer result.
func RunFile(ctx context.Context, name string) (res int64, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return 0, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Run(ctx, name, text)
}

// Run drives the whole pipeline: parse, translate, finalize, execute.
// The generated code runs on the calling thread.
func Run(ctx context.Context, name string, text []byte) (res int64, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "run expression", "name", name)
	defer tr.Finish("err", &err)

	x, err := parse.Parse(ctx, name, text)
	if err != nil {
		return 0, errors.Wrap(err, "parse text")
	}

	m, err := back.New(ctx, name)
	if err != nil {
		return 0, errors.Wrap(err, "create module")
	}

	defer m.Close()

	err = front.New(m).Compile(ctx, x)
	if err != nil {
		return 0, errors.Wrap(err, "compile")
	}

	if tr.If("ir") {
		tr.Printw("module ir", "ir", m.IR())
	}

	addr, err := m.FuncAddr(ctx, front.Entry)
	if err != nil {
		return 0, errors.Wrap(err, "find %v", front.Entry)
	}

	tr.Printw("entry point", "name", front.Entry, "addr", tlog.FormatNext("0x%x"), addr)

	res, err = m.Run(ctx, front.Entry)
	if err != nil {
		return 0, errors.Wrap(err, "run %v", front.Entry)
	}

	return res, nil
}
