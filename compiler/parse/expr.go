package parse

import (
	"bytes"
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/jinxlang/jinx/compiler/ast"
)

func (s *State) parseExpr(ctx context.Context, st int) (x ast.Node, i int, err error) {
	tk, tst, i := s.next(ctx, st)

	switch tk := tk.(type) {
	case Keyword:
		if string(tk) == "let" {
			return s.parseLet(ctx, tst, i)
		}
	case Ident:
		tk2, _, e := s.next(ctx, i)
		if tk2 == Char(':') {
			par := ast.Ident{
				Base: ast.Base{Pos: tst, End: i},
				Name: string(tk),
			}

			return s.parseLambda(ctx, tst, par, e)
		}
	}

	return s.parseOr(ctx, st)
}

func (s *State) parseLet(ctx context.Context, st, vst int) (x ast.Node, i int, err error) {
	l := ast.Let{
		Base: ast.Base{Pos: st},
	}

	i = vst

loop:
	for {
		tk, tst, e := s.next(ctx, i)

		switch tk := tk.(type) {
		case Keyword:
			if string(tk) != "in" {
				return nil, tst, NewUnexpected(tk, Keyword("in"), Ident{})
			}

			i = e

			break loop
		case Ident:
			name := ast.Ident{
				Base: ast.Base{Pos: tst, End: e},
				Name: string(tk),
			}

			var b ast.Bind
			b, i, err = s.parseBind(ctx, tst, name, e)
			if err != nil {
				return nil, i, errors.Wrap(err, "bind %v", name.Name)
			}

			l.Binds = append(l.Binds, b)
		default:
			return nil, tst, NewUnexpected(tk, Keyword("in"), Ident{})
		}
	}

	l.Body, i, err = s.parseExpr(ctx, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "let body")
	}

	l.End = i

	tlog.V("parse").Printw("let", "binds", len(l.Binds), "pos", st)

	return l, i, nil
}

func (s *State) parseBind(ctx context.Context, st int, name ast.Ident, vst int) (b ast.Bind, i int, err error) {
	tk, tst, i := s.next(ctx, vst)
	if tk != Char('=') {
		return b, tst, NewUnexpected(tk, Char('='))
	}

	b.Value, i, err = s.parseExpr(ctx, i)
	if err != nil {
		return b, i, err
	}

	tk, tst, i = s.next(ctx, i)
	if tk != Char(';') {
		return b, tst, NewUnexpected(tk, Char(';'))
	}

	b.Base = ast.Base{Pos: st, End: i}
	b.Name = name

	return b, i, nil
}

func (s *State) parseLambda(ctx context.Context, st int, par ast.Ident, vst int) (x ast.Node, i int, err error) {
	body, i, err := s.parseExpr(ctx, vst)
	if err != nil {
		return nil, i, errors.Wrap(err, "lambda body")
	}

	tlog.V("parse").Printw("lambda", "param", par.Name, "pos", st)

	return ast.Lambda{
		Base:  ast.Base{Pos: st, End: i},
		Param: par,
		Body:  body,
	}, i, nil
}

func (s *State) parseOr(ctx context.Context, st int) (x ast.Node, i int, err error) {
	x, i, err = s.parseAnd(ctx, st)
	if err != nil {
		return
	}

	for {
		tk, tst, e := s.next(ctx, i)
		if op, ok := tk.(Op); !ok || string(op) != "||" {
			i = tst
			break
		}

		var r ast.Node
		r, i, err = s.parseAnd(ctx, e)
		if err != nil {
			return
		}

		x = ast.BinOp{
			Base:  ast.Base{Pos: st, End: i},
			Op:    "||",
			Left:  x,
			Right: r,
		}
	}

	return x, i, nil
}

func (s *State) parseAnd(ctx context.Context, st int) (x ast.Node, i int, err error) {
	x, i, err = s.parseCmp(ctx, st)
	if err != nil {
		return
	}

	for {
		tk, tst, e := s.next(ctx, i)
		if op, ok := tk.(Op); !ok || string(op) != "&&" {
			i = tst
			break
		}

		var r ast.Node
		r, i, err = s.parseCmp(ctx, e)
		if err != nil {
			return
		}

		x = ast.BinOp{
			Base:  ast.Base{Pos: st, End: i},
			Op:    "&&",
			Left:  x,
			Right: r,
		}
	}

	return x, i, nil
}

// parseCmp parses at most one comparison: they don't associate.
func (s *State) parseCmp(ctx context.Context, st int) (x ast.Node, i int, err error) {
	x, i, err = s.parseSum(ctx, st)
	if err != nil {
		return
	}

	tk, _, e := s.next(ctx, i)

	op, ok := tk.(Op)
	if !ok {
		return x, i, nil
	}

	switch string(op) {
	case "==", "!=", "<", "<=", ">", ">=":
	default:
		return x, i, nil
	}

	var r ast.Node
	r, i, err = s.parseSum(ctx, e)
	if err != nil {
		return
	}

	return ast.BinOp{
		Base:  ast.Base{Pos: st, End: i},
		Op:    ast.Op(op),
		Left:  x,
		Right: r,
	}, i, nil
}

func (s *State) parseSum(ctx context.Context, st int) (x ast.Node, i int, err error) {
	x, i, err = s.parseProduct(ctx, st)
	if err != nil {
		return
	}

	for {
		tk, tst, e := s.next(ctx, i)

		op, ok := tk.(Op)
		if !ok || string(op) != "+" && string(op) != "-" {
			i = tst
			break
		}

		var r ast.Node
		r, i, err = s.parseProduct(ctx, e)
		if err != nil {
			return
		}

		x = ast.BinOp{
			Base:  ast.Base{Pos: st, End: i},
			Op:    ast.Op(op),
			Left:  x,
			Right: r,
		}
	}

	return x, i, nil
}

func (s *State) parseProduct(ctx context.Context, st int) (x ast.Node, i int, err error) {
	x, i, err = s.parseUnary(ctx, st)
	if err != nil {
		return
	}

	for {
		tk, tst, e := s.next(ctx, i)

		op, ok := tk.(Op)
		if !ok || string(op) != "*" && string(op) != "/" {
			i = tst
			break
		}

		var r ast.Node
		r, i, err = s.parseUnary(ctx, e)
		if err != nil {
			return
		}

		x = ast.BinOp{
			Base:  ast.Base{Pos: st, End: i},
			Op:    ast.Op(op),
			Left:  x,
			Right: r,
		}
	}

	return x, i, nil
}

func (s *State) parseUnary(ctx context.Context, st int) (x ast.Node, i int, err error) {
	tk, tst, e := s.next(ctx, st)

	if op, ok := tk.(Op); ok && string(op) == "-" {
		x, i, err = s.parseUnary(ctx, e)
		if err != nil {
			return
		}

		return ast.Unary{
			Base: ast.Base{Pos: tst, End: i},
			Op:   "-",
			Expr: x,
		}, i, nil
	}

	return s.parseAtom(ctx, st)
}

func (s *State) parseAtom(ctx context.Context, st int) (x ast.Node, i int, err error) {
	tk, tst, i := s.next(ctx, st)

	switch tk := tk.(type) {
	case Number:
		if bytes.IndexByte(tk, '.') >= 0 {
			return ast.Float{
				Base: ast.Base{Pos: tst, End: i},
				Text: string(tk),
			}, i, nil
		}

		return ast.Int{
			Base: ast.Base{Pos: tst, End: i},
			Text: string(tk),
		}, i, nil
	case Ident:
		return ast.Ident{
			Base: ast.Base{Pos: tst, End: i},
			Name: string(tk),
		}, i, nil
	case Char:
		switch tk {
		case '(':
			x, i, err = s.parseExpr(ctx, i)
			if err != nil {
				return
			}

			tk2, tst2, e := s.next(ctx, i)
			if tk2 != Char(')') {
				return nil, tst2, NewUnexpected(tk2, Char(')'))
			}

			return x, e, nil
		case '"':
			return s.parseString(ctx, tst, i)
		}
	}

	return nil, tst, NewUnexpected(tk, Number{}, Ident{}, Char('('), Char('"'))
}

func (s *State) parseString(ctx context.Context, st, vst int) (x ast.Node, i int, err error) {
	r := ast.Str{
		Base: ast.Base{Pos: st},
	}

	var buf []byte

	i = vst
	bst := i

loop:
	for i < len(s.b) {
		c := s.b[i]

		switch {
		case c == '"':
			if len(buf) != 0 {
				r.Parts = append(r.Parts, ast.Text{
					Base: ast.Base{Pos: bst, End: i},
					Text: string(buf),
				})
			}

			i++
			r.End = i

			return r, i, nil
		case c == '\\':
			if i+1 == len(s.b) {
				break loop
			}

			switch q := s.b[i+1]; q {
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			default:
				buf = append(buf, q)
			}

			i += 2
		case c == '$' && i+1 < len(s.b) && s.b[i+1] == '{':
			if len(buf) != 0 {
				r.Parts = append(r.Parts, ast.Text{
					Base: ast.Base{Pos: bst, End: i},
					Text: string(buf),
				})

				buf = buf[:0]
			}

			pst := i

			var sub ast.Node
			sub, i, err = s.parseExpr(ctx, i+2)
			if err != nil {
				return nil, i, errors.Wrap(err, "interpolation")
			}

			tk, tst, e := s.next(ctx, i)
			if tk != Char('}') {
				return nil, tst, NewUnexpected(tk, Char('}'))
			}

			i = e

			r.Parts = append(r.Parts, ast.Interp{
				Base: ast.Base{Pos: pst, End: i},
				Expr: sub,
			})

			bst = i
		default:
			buf = append(buf, c)
			i++
		}
	}

	return nil, i, errors.New("unterminated string")
}
