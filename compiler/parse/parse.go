package parse

import (
	"context"
	"fmt"
	"os"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/jinxlang/jinx/compiler/ast"
)

type (
	State struct {
		b []byte // all files concatenated

		files []file
	}

	file struct {
		base int
		size int
		name string
	}

	Token interface{}

	Char    byte
	Keyword []byte
	Number  []byte
	Ident   []byte
	Op      []byte

	UnexpectedError struct {
		Token Token
		Want  []Token
	}

	PartialReadError struct {
		End int
	}
)

func ParseFile(ctx context.Context, name string) (ast.Node, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	return Parse(ctx, name, text)
}

func Parse(ctx context.Context, name string, text []byte) (ast.Node, error) {
	s := New()

	s.AddFile(ctx, name, text)

	return s.Parse(ctx)
}

func New() *State {
	return &State{}
}

func (s *State) AddFile(ctx context.Context, name string, text []byte) {
	f := file{
		base: len(s.b),
		size: len(text),
		name: name,
	}

	s.b = append(s.b, text...)

	s.files = append(s.files, f)
}

// Parse reads the whole input as a single expression.
// Trailing non-space input is an error.
func (s *State) Parse(ctx context.Context) (x ast.Node, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse: expression", "size", len(s.b))
	defer tr.Finish("err", &err)

	x, i, err := s.parseExpr(ctx, 0)
	if err != nil {
		return nil, errors.Wrap(err, "at pos 0x%x", i)
	}

	i = skipSpaces(s.b, i)

	if i != len(s.b) {
		return x, PartialReadError{End: i}
	}

	tr.Printw("expression", "typ", tlog.NextAsType, x, "x", x)

	return x, nil
}

func (s *State) next(ctx context.Context, st int) (tk Token, tst int, i int) {
	if tr := tlog.SpanFromContext(ctx); tr.If("next_token") {
		defer func(st int) {
			tr.Printw("next token", "st", st, "tk", tk, "tst", tst, "i", i, "from", loc.Callers(1, 3))
		}(st)
	}

	st = skipSpaces(s.b, st)
	i = st

	if i == len(s.b) {
		return nil, st, i
	}

	c := s.b[i]

	if i+1 < len(s.b) {
		switch string(s.b[i : i+2]) {
		case "==", "!=", "<=", ">=", "&&", "||":
			return Op(s.b[i : i+2]), st, i + 2
		}
	}

	switch c {
	case '+', '-', '*', '/', '<', '>':
		return Op(s.b[i : i+1]), st, i + 1
	case '(', ')', '{', '}', '=', ';', ':', '"':
		return Char(c), st, i + 1
	}

	switch {
	case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_':
		e := skipIdent(s.b, i)

		switch string(s.b[i:e]) {
		case "let", "in":
			return Keyword(s.b[i:e]), st, e
		}

		return Ident(s.b[i:e]), st, e
	case c >= '0' && c <= '9':
		e := skipNum(s.b, i)

		if e+1 < len(s.b) && s.b[e] == '.' && digit(s.b[e+1]) {
			e = skipNum(s.b, e+1)
		}

		return Number(s.b[i:e]), st, e
	default:
		return Char(c), st, i + 1
	}
}

func NewUnexpected(got Token, want ...Token) error {
	return UnexpectedError{
		Token: got,
		Want:  want,
	}
}

func (e UnexpectedError) Error() string {
	l := make([]string, len(e.Want))

	for i := range e.Want {
		l[i] = fmt.Sprintf("%T", e.Want[i])
	}

	if e.Token == nil {
		return fmt.Sprintf("unexpected end of input, want: %v", strings.Join(l, ", "))
	}

	return fmt.Sprintf("unexpected token: %q (%[1]T) want: %v", e.Token, strings.Join(l, ", "))
}

func (e PartialReadError) Error() string {
	return "partial read"
}

func skipNum(b []byte, i int) int {
	for i < len(b) && digit(b[i]) {
		i++
	}

	return i
}

func skipIdent(b []byte, i int) int {
	for i < len(b) && (b[i] >= 'a' && b[i] <= 'z' || b[i] >= 'A' && b[i] <= 'Z' || digit(b[i]) || b[i] == '_' || b[i] == '\'') {
		i++
	}

	return i
}

// skipSpaces also skips line comments, which run from # to the end of line.
func skipSpaces(b []byte, i int) int {
	for i < len(b) {
		switch b[i] {
		case ' ', '\t', '\r', '\n':
			i++
		case '#':
			for i < len(b) && b[i] != '\n' {
				i++
			}
		default:
			return i
		}
	}

	return i
}

func digit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (c Char) String() string {
	return string(c)
}
