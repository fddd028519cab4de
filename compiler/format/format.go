package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/jinxlang/jinx/compiler/ast"
)

// Operator binding strength, loosest first.
// A child is parenthesized when its own level is below
// the level its position requires.
const (
	prExpr = iota // lambda, let
	prOr
	prAnd
	prCmp
	prSum
	prProd
	prUnary
	prAtom
)

// Format renders the expression back to source text appending it to b.
// The result parses into the same tree, positions aside.
func Format(ctx context.Context, b []byte, x ast.Node) ([]byte, error) {
	return format(ctx, b, x, prExpr)
}

func format(ctx context.Context, b []byte, x ast.Node, pr int) (_ []byte, err error) {
	switch x := x.(type) {
	case ast.Int:
		b = append(b, x.Text...)
	case ast.Float:
		b = append(b, x.Text...)
	case ast.Ident:
		b = append(b, x.Name...)
	case ast.BinOp:
		b, err = formatBinOp(ctx, b, x, pr)
	case ast.Unary:
		b, err = formatUnary(ctx, b, x, pr)
	case ast.Let:
		b, err = formatLet(ctx, b, x, pr)
	case ast.Lambda:
		b, err = formatLambda(ctx, b, x, pr)
	case ast.Str:
		b, err = formatStr(ctx, b, x)
	default:
		return nil, errors.New("unsupported node: %T", x)
	}

	return b, err
}

func formatBinOp(ctx context.Context, b []byte, x ast.BinOp, pr int) (_ []byte, err error) {
	p := opPrec(x.Op)
	if p == prAtom {
		return nil, errors.New("unsupported op: %v", x.Op)
	}

	if p < pr {
		b = append(b, '(')
	}

	lp, rp := p, p+1
	if p == prCmp {
		// comparisons do not chain
		lp = p + 1
	}

	b, err = format(ctx, b, x.Left, lp)
	if err != nil {
		return nil, errors.Wrap(err, "left")
	}

	b = hfmt.Appendf(b, " %s ", x.Op)

	b, err = format(ctx, b, x.Right, rp)
	if err != nil {
		return nil, errors.Wrap(err, "right")
	}

	if p < pr {
		b = append(b, ')')
	}

	return b, nil
}

func formatUnary(ctx context.Context, b []byte, x ast.Unary, pr int) (_ []byte, err error) {
	if prUnary < pr {
		b = append(b, '(')
	}

	b = hfmt.Appendf(b, "%s", x.Op)

	b, err = format(ctx, b, x.Expr, prUnary)
	if err != nil {
		return nil, errors.Wrap(err, "operand")
	}

	if prUnary < pr {
		b = append(b, ')')
	}

	return b, nil
}

func formatLet(ctx context.Context, b []byte, x ast.Let, pr int) (_ []byte, err error) {
	if pr > prExpr {
		b = append(b, '(')
	}

	b = append(b, "let "...)

	for _, bind := range x.Binds {
		b = hfmt.Appendf(b, "%s = ", bind.Name.Name)

		b, err = format(ctx, b, bind.Value, prExpr)
		if err != nil {
			return nil, errors.Wrap(err, "bind %v", bind.Name.Name)
		}

		b = append(b, "; "...)
	}

	b = append(b, "in "...)

	b, err = format(ctx, b, x.Body, prExpr)
	if err != nil {
		return nil, errors.Wrap(err, "let body")
	}

	if pr > prExpr {
		b = append(b, ')')
	}

	return b, nil
}

func formatLambda(ctx context.Context, b []byte, x ast.Lambda, pr int) (_ []byte, err error) {
	if pr > prExpr {
		b = append(b, '(')
	}

	b = hfmt.Appendf(b, "%s: ", x.Param.Name)

	b, err = format(ctx, b, x.Body, prExpr)
	if err != nil {
		return nil, errors.Wrap(err, "lambda body")
	}

	if pr > prExpr {
		b = append(b, ')')
	}

	return b, nil
}

func formatStr(ctx context.Context, b []byte, x ast.Str) (_ []byte, err error) {
	b = append(b, '"')

	for _, p := range x.Parts {
		switch p := p.(type) {
		case ast.Text:
			b = appendEscaped(b, p.Text)
		case ast.Interp:
			b = append(b, "${"...)

			b, err = format(ctx, b, p.Expr, prExpr)
			if err != nil {
				return nil, errors.Wrap(err, "interpolation")
			}

			b = append(b, '}')
		default:
			return nil, errors.New("unsupported string part: %T", p)
		}
	}

	b = append(b, '"')

	return b, nil
}

func appendEscaped(b []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		c := s[i]

		switch c {
		case '"', '\\', '$':
			b = append(b, '\\', c)
		case '\n':
			b = append(b, '\\', 'n')
		case '\r':
			b = append(b, '\\', 'r')
		case '\t':
			b = append(b, '\\', 't')
		default:
			b = append(b, c)
		}
	}

	return b
}

func opPrec(op ast.Op) int {
	switch op {
	case "||":
		return prOr
	case "&&":
		return prAnd
	case "==", "!=", "<", "<=", ">", ">=":
		return prCmp
	case "+", "-":
		return prSum
	case "*", "/":
		return prProd
	}

	return prAtom
}
