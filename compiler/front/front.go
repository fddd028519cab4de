package front

import (
	"context"
	"fmt"
	"reflect"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/jinxlang/jinx/compiler/ast"
	"github.com/jinxlang/jinx/compiler/back"
)

type (
	// Front translates one expression into one back.Module.
	// It owns the binding environment and the name counters for
	// generated functions and data objects, all living for the whole
	// session, across nested function builds.
	Front struct {
		m *back.Module

		// Env is the binding environment. The flat default can be
		// replaced before Compile is called.
		Env Env

		lambdas int
		data    int
	}

	UnsupportedNodeError struct {
		T ast.Node
	}
)

// Entry is the exported symbol name of the top-level function.
const Entry = "main"

var (
	ErrUnboundIdent  = errors.New("unbound identifier")
	ErrUnsupportedOp = errors.New("unsupported operator")
	ErrNoValue       = errors.New("no value produced")
)

func New(m *back.Module) *Front {
	return &Front{
		m:   m,
		Env: NewEnv(),
	}
}

// Compile translates the expression into the entry function, defines
// it, and finalizes the module. Running it is a separate step.
func (c *Front) Compile(ctx context.Context, x ast.Node) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "front: compile expression", "typ", tlog.NextAsType, x)
	defer tr.Finish("err", &err)

	f, err := c.m.NewFunc(ctx, Entry, 0)
	if err != nil {
		return errors.Wrap(err, "declare %v", Entry)
	}

	defer f.Close()

	v, err := c.compileExpr(ctx, f, x)
	if err != nil {
		return errors.Wrap(err, "translate")
	}

	if v.IsNil() {
		return errors.Wrap(ErrNoValue, "return value")
	}

	f.Return(v)

	err = c.m.DefineFunc(ctx, f)
	if err != nil {
		return errors.Wrap(err, "define %v", Entry)
	}

	err = c.m.Finalize(ctx)
	if err != nil {
		return errors.Wrap(err, "finalize definitions")
	}

	return nil
}

func NewUnsupportedNode(x ast.Node) UnsupportedNodeError {
	return UnsupportedNodeError{
		T: x,
	}
}

func (e UnsupportedNodeError) Error() string {
	return fmt.Sprintf("unsupported node: %v", reflect.TypeOf(e.T))
}
