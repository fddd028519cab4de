package front

import (
	"context"
	"fmt"
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/jinxlang/jinx/compiler/ast"
	"github.com/jinxlang/jinx/compiler/back"
)

// compileExpr walks one node and emits instructions into f.
// A nil value with a nil error means the node produced no value.
func (c *Front) compileExpr(ctx context.Context, f *back.Func, x ast.Node) (v back.Value, err error) {
	switch x := x.(type) {
	case ast.Int:
		n, err := strconv.ParseInt(x.Text, 10, 64)
		if err != nil {
			return v, errors.Wrap(err, "parse int literal")
		}

		return f.ConstI64(uint64(n)), nil
	case ast.Float:
		n, err := strconv.ParseFloat(x.Text, 64)
		if err != nil {
			return v, errors.Wrap(err, "parse float literal")
		}

		return f.ConstF64(n), nil
	case ast.Ident:
		s, ok := c.Env.Lookup(x.Name)
		if !ok {
			return v, errors.Wrap(ErrUnboundIdent, "%v", x.Name)
		}

		return f.Load(s.Ptr, x.Name), nil
	case ast.BinOp:
		return c.compileBinOp(ctx, f, x)
	case ast.Let:
		return c.compileLet(ctx, f, x)
	case ast.Lambda:
		return c.compileLambda(ctx, f, x)
	case ast.Str:
		return c.compileStr(ctx, f, x)
	default:
		return v, NewUnsupportedNode(x)
	}
}

// compileBinOp translates the left operand fully before the right one.
// If either side produced no value the whole expression produces no
// value, after both sides' side effects already happened.
func (c *Front) compileBinOp(ctx context.Context, f *back.Func, x ast.BinOp) (v back.Value, err error) {
	l, err := c.compileExpr(ctx, f, x.Left)
	if err != nil {
		return v, errors.Wrap(err, "left")
	}

	r, err := c.compileExpr(ctx, f, x.Right)
	if err != nil {
		return v, errors.Wrap(err, "right")
	}

	if l.IsNil() || r.IsNil() {
		return back.Value{}, nil
	}

	switch x.Op {
	case "+":
		return f.Add(l, r), nil
	case "-":
		return f.Sub(l, r), nil
	case "*":
		return f.Mul(l, r), nil
	case "/":
		return f.UDiv(l, r), nil
	case "==", "!=", "<", "<=", ">", ">=":
		return f.CmpS(back.Cond(x.Op), l, r)
	case "&&":
		// eager bitwise and, both operands always evaluated
		return f.And(l, r), nil
	case "||":
		return f.Or(l, r), nil
	default:
		return v, errors.Wrap(ErrUnsupportedOp, "%v", x.Op)
	}
}

// compileLet stores each bind into its slot in source order. A bind
// only sees names declared strictly before it, including its own
// value expression.
func (c *Front) compileLet(ctx context.Context, f *back.Func, x ast.Let) (v back.Value, err error) {
	for _, b := range x.Binds {
		val, err := c.compileExpr(ctx, f, b.Value)
		if err != nil {
			return v, errors.Wrap(err, "bind %v", b.Name.Name)
		}

		if val.IsNil() {
			return v, errors.Wrap(ErrNoValue, "bind %v", b.Name.Name)
		}

		s := c.Env.Declare(f, b.Name.Name)

		f.Store(val, s.Ptr)
	}

	return c.compileExpr(ctx, f, x.Body)
}

// compileLambda builds a new one-parameter function as a side effect
// and registers it in the module. The parameter is not bound into the
// environment, and the enclosing expression receives no value.
func (c *Front) compileLambda(ctx context.Context, f *back.Func, x ast.Lambda) (v back.Value, err error) {
	name := fmt.Sprintf("lambda_%d", c.lambdas)
	c.lambdas++

	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "front: compile lambda", "name", name, "param", x.Param.Name)
	defer tr.Finish("err", &err)

	l, err := c.m.NewFunc(ctx, name, 1)
	if err != nil {
		return v, errors.Wrap(err, "declare %v", name)
	}

	defer l.Close()

	bv, err := c.compileExpr(ctx, l, x.Body)
	if err != nil {
		return v, errors.Wrap(err, "lambda body")
	}

	if bv.IsNil() {
		return v, errors.Wrap(ErrNoValue, "lambda body")
	}

	l.Return(bv)

	err = c.m.DefineFunc(ctx, l)
	if err != nil {
		return v, errors.Wrap(err, "define %v", name)
	}

	return back.Value{}, nil
}

// compileStr accumulates literal parts until the first interpolation.
// The first interpolation's value becomes the whole literal's result,
// dropping accumulated text and remaining parts. With no interpolation
// the accumulated bytes are committed as a data object and its address
// is the result.
func (c *Front) compileStr(ctx context.Context, f *back.Func, x ast.Str) (v back.Value, err error) {
	var buf []byte

	for _, p := range x.Parts {
		switch p := p.(type) {
		case ast.Text:
			buf = append(buf, p.Text...)
		case ast.Interp:
			return c.compileExpr(ctx, f, p.Expr)
		default:
			return v, NewUnsupportedNode(p)
		}
	}

	return c.emitData(ctx, f, buf)
}
