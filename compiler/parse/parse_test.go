package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jinxlang/jinx/compiler/ast"
)

func testParse(t *testing.T, text string) ast.Node {
	t.Helper()

	x, err := Parse(context.Background(), t.Name(), []byte(text))
	require.NoError(t, err)

	return x
}

func TestInt(t *testing.T) {
	x := testParse(t, "100")

	n, ok := x.(ast.Int)
	require.True(t, ok, "%T", x)
	require.Equal(t, "100", n.Text)
	require.Equal(t, 0, n.Pos)
	require.Equal(t, 3, n.End)
}

func TestFloat(t *testing.T) {
	x := testParse(t, "12.5")

	n, ok := x.(ast.Float)
	require.True(t, ok, "%T", x)
	require.Equal(t, "12.5", n.Text)
}

func TestIdent(t *testing.T) {
	x := testParse(t, "foo'")

	n, ok := x.(ast.Ident)
	require.True(t, ok, "%T", x)
	require.Equal(t, "foo'", n.Name)
}

func TestPrecedence(t *testing.T) {
	x := testParse(t, "1 + 2 * 3")

	sum, ok := x.(ast.BinOp)
	require.True(t, ok, "%T", x)
	require.Equal(t, ast.Op("+"), sum.Op)

	mul, ok := sum.Right.(ast.BinOp)
	require.True(t, ok, "%T", sum.Right)
	require.Equal(t, ast.Op("*"), mul.Op)
}

func TestAssoc(t *testing.T) {
	x := testParse(t, "10 - 2 - 3")

	out, ok := x.(ast.BinOp)
	require.True(t, ok, "%T", x)
	require.Equal(t, ast.Op("-"), out.Op)

	in, ok := out.Left.(ast.BinOp)
	require.True(t, ok, "%T", out.Left)
	require.Equal(t, ast.Op("-"), in.Op)
}

func TestParens(t *testing.T) {
	x := testParse(t, "(1 + 2) * 3")

	mul, ok := x.(ast.BinOp)
	require.True(t, ok, "%T", x)
	require.Equal(t, ast.Op("*"), mul.Op)

	sum, ok := mul.Left.(ast.BinOp)
	require.True(t, ok, "%T", mul.Left)
	require.Equal(t, ast.Op("+"), sum.Op)
}

func TestCmp(t *testing.T) {
	x := testParse(t, "1 + 2 < 3 * 4")

	cmp, ok := x.(ast.BinOp)
	require.True(t, ok, "%T", x)
	require.Equal(t, ast.Op("<"), cmp.Op)
}

func TestCmpOnce(t *testing.T) {
	_, err := Parse(context.Background(), t.Name(), []byte("1 < 2 < 3"))

	var pe PartialReadError
	require.ErrorAs(t, err, &pe)
}

func TestLogical(t *testing.T) {
	x := testParse(t, "1 && 2 || 3 && 4")

	or, ok := x.(ast.BinOp)
	require.True(t, ok, "%T", x)
	require.Equal(t, ast.Op("||"), or.Op)
}

func TestLet(t *testing.T) {
	x := testParse(t, "let x = 1; y = x + 1; in x + y")

	l, ok := x.(ast.Let)
	require.True(t, ok, "%T", x)
	require.Len(t, l.Binds, 2)
	require.Equal(t, "x", l.Binds[0].Name.Name)
	require.Equal(t, "y", l.Binds[1].Name.Name)

	_, ok = l.Binds[1].Value.(ast.BinOp)
	require.True(t, ok, "%T", l.Binds[1].Value)

	_, ok = l.Body.(ast.BinOp)
	require.True(t, ok, "%T", l.Body)
}

func TestLetNested(t *testing.T) {
	x := testParse(t, "let x = let y = 1; in y; in x")

	l, ok := x.(ast.Let)
	require.True(t, ok, "%T", x)
	require.Len(t, l.Binds, 1)

	_, ok = l.Binds[0].Value.(ast.Let)
	require.True(t, ok, "%T", l.Binds[0].Value)
}

func TestLambda(t *testing.T) {
	x := testParse(t, "x: x + 1")

	f, ok := x.(ast.Lambda)
	require.True(t, ok, "%T", x)
	require.Equal(t, "x", f.Param.Name)

	_, ok = f.Body.(ast.BinOp)
	require.True(t, ok, "%T", f.Body)
}

func TestLambdaNested(t *testing.T) {
	x := testParse(t, "x: y: 1")

	f, ok := x.(ast.Lambda)
	require.True(t, ok, "%T", x)

	g, ok := f.Body.(ast.Lambda)
	require.True(t, ok, "%T", f.Body)
	require.Equal(t, "y", g.Param.Name)
}

func TestLambdaVsIdent(t *testing.T) {
	x := testParse(t, "x")

	_, ok := x.(ast.Ident)
	require.True(t, ok, "%T", x)
}

func TestLambdaInBind(t *testing.T) {
	x := testParse(t, "let f = a: a * 2; in 0")

	l, ok := x.(ast.Let)
	require.True(t, ok, "%T", x)
	require.Len(t, l.Binds, 1)

	_, ok = l.Binds[0].Value.(ast.Lambda)
	require.True(t, ok, "%T", l.Binds[0].Value)
}

func TestUnary(t *testing.T) {
	x := testParse(t, "-5")

	u, ok := x.(ast.Unary)
	require.True(t, ok, "%T", x)
	require.Equal(t, ast.Op("-"), u.Op)

	_, ok = u.Expr.(ast.Int)
	require.True(t, ok, "%T", u.Expr)
}

func TestUnaryInSum(t *testing.T) {
	x := testParse(t, "2 - -3")

	sub, ok := x.(ast.BinOp)
	require.True(t, ok, "%T", x)
	require.Equal(t, ast.Op("-"), sub.Op)

	_, ok = sub.Right.(ast.Unary)
	require.True(t, ok, "%T", sub.Right)
}

func TestString(t *testing.T) {
	x := testParse(t, `"hello"`)

	s, ok := x.(ast.Str)
	require.True(t, ok, "%T", x)
	require.Len(t, s.Parts, 1)

	p, ok := s.Parts[0].(ast.Text)
	require.True(t, ok, "%T", s.Parts[0])
	require.Equal(t, "hello", p.Text)
}

func TestStringEscapes(t *testing.T) {
	x := testParse(t, `"a\n\t\"\\\$b"`)

	s, ok := x.(ast.Str)
	require.True(t, ok, "%T", x)
	require.Len(t, s.Parts, 1)

	p, ok := s.Parts[0].(ast.Text)
	require.True(t, ok, "%T", s.Parts[0])
	require.Equal(t, "a\n\t\"\\$b", p.Text)
}

func TestStringInterp(t *testing.T) {
	x := testParse(t, `"a${x + 1}b"`)

	s, ok := x.(ast.Str)
	require.True(t, ok, "%T", x)
	require.Len(t, s.Parts, 3)

	_, ok = s.Parts[0].(ast.Text)
	require.True(t, ok, "%T", s.Parts[0])

	in, ok := s.Parts[1].(ast.Interp)
	require.True(t, ok, "%T", s.Parts[1])

	_, ok = in.Expr.(ast.BinOp)
	require.True(t, ok, "%T", in.Expr)

	tail, ok := s.Parts[2].(ast.Text)
	require.True(t, ok, "%T", s.Parts[2])
	require.Equal(t, "b", tail.Text)
}

func TestStringNested(t *testing.T) {
	x := testParse(t, `"${ "inner" }"`)

	s, ok := x.(ast.Str)
	require.True(t, ok, "%T", x)
	require.Len(t, s.Parts, 1)

	in, ok := s.Parts[0].(ast.Interp)
	require.True(t, ok, "%T", s.Parts[0])

	sub, ok := in.Expr.(ast.Str)
	require.True(t, ok, "%T", in.Expr)
	require.Len(t, sub.Parts, 1)
}

func TestComments(t *testing.T) {
	x := testParse(t, "# heading\n1 + 2 # trailing")

	_, ok := x.(ast.BinOp)
	require.True(t, ok, "%T", x)
}

func TestUnexpected(t *testing.T) {
	_, err := Parse(context.Background(), t.Name(), []byte("* 3"))
	require.ErrorContains(t, err, "unexpected token")

	_, err = Parse(context.Background(), t.Name(), []byte("1 +"))
	require.ErrorContains(t, err, "unexpected end of input")
}

func TestPartialRead(t *testing.T) {
	_, err := Parse(context.Background(), t.Name(), []byte("1 2"))

	var pe PartialReadError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, 2, pe.End)
}

func TestUnterminated(t *testing.T) {
	_, err := Parse(context.Background(), t.Name(), []byte(`"abc`))
	require.ErrorContains(t, err, "unterminated string")
}

func TestBindErrors(t *testing.T) {
	_, err := Parse(context.Background(), t.Name(), []byte("let x 1; in x"))
	require.ErrorContains(t, err, "bind x")

	_, err = Parse(context.Background(), t.Name(), []byte("let x = 1 in x"))
	require.ErrorContains(t, err, "bind x")

	_, err = Parse(context.Background(), t.Name(), []byte("let x = in; in 1"))
	require.ErrorContains(t, err, "bind x")
}
