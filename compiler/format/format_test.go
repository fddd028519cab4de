package format

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jinxlang/jinx/compiler/ast"
	"github.com/jinxlang/jinx/compiler/parse"
)

func TestRoundTrip(t *testing.T) {
	cases := []string{
		"1",
		"12.5",
		"x",
		"1 + 2 * 3",
		"(1 + 2) * 3",
		"10 - 2 - 3",
		"1 + (2 - 3) - 4",
		"2 - -3",
		"--x",
		"1 < 2",
		"1 && 2 || 3",
		"1 == 2 || 3 != 4",
		"(1 + 2) * (3 + 4)",
		"let x = 1; in x",
		"let x = 1; y = x; in x + y",
		"x: x + 1",
		"x: y: 1",
		"let f = a: a * 2; in 0",
		"(x: 1) + 2",
		`"hello"`,
		`"a${x}b"`,
		`"say \"hi\""`,
		`"\n\t\\\$"`,
	}

	for _, text := range cases {
		x, err := parse.Parse(context.Background(), t.Name(), []byte(text))
		require.NoError(t, err, "%v", text)

		b, err := Format(context.Background(), nil, x)
		require.NoError(t, err, "%v", text)
		require.Equal(t, text, string(b))
	}
}

func TestCanonical(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"1+2", "1 + 2"},
		{"((1))", "1"},
		{"1 + (2 * 3)", "1 + 2 * 3"},
		{"let x=1;in x", "let x = 1; in x"},
		{"x:x", "x: x"},
		{"# note\n1", "1"},
	}

	for _, tc := range cases {
		x, err := parse.Parse(context.Background(), t.Name(), []byte(tc.in))
		require.NoError(t, err, "%v", tc.in)

		b, err := Format(context.Background(), nil, x)
		require.NoError(t, err, "%v", tc.in)
		require.Equal(t, tc.out, string(b))
	}
}

func TestUnsupported(t *testing.T) {
	_, err := Format(context.Background(), nil, ast.BinOp{Op: "%", Left: ast.Int{Text: "1"}, Right: ast.Int{Text: "2"}})
	require.ErrorContains(t, err, "unsupported op")

	_, err = Format(context.Background(), nil, nil)
	require.ErrorContains(t, err, "unsupported node")
}
