package ast

type (
	Node interface {
	}

	Base struct {
		Pos int
		End int
	}

	// Op is the operator spelling as written in the source.
	Op string

	Int struct {
		Base `tlog:",embed"`

		Text string
	}

	Float struct {
		Base `tlog:",embed"`

		Text string
	}

	Ident struct {
		Base `tlog:",embed"`

		Name string
	}

	BinOp struct {
		Base `tlog:",embed"`

		Op Op

		Left  Node
		Right Node
	}

	Unary struct {
		Base `tlog:",embed"`

		Op Op

		Expr Node
	}

	Bind struct {
		Base `tlog:",embed"`

		Name  Ident
		Value Node
	}

	Let struct {
		Base `tlog:",embed"`

		Binds []Bind
		Body  Node
	}

	Lambda struct {
		Base `tlog:",embed"`

		Param Ident
		Body  Node
	}

	// Str is an interpolated string literal: an ordered sequence of
	// Text and Interp parts.
	Str struct {
		Base `tlog:",embed"`

		Parts []StrPart
	}

	StrPart interface {
	}

	// Text is a literal string part with escapes already resolved.
	Text struct {
		Base `tlog:",embed"`

		Text string
	}

	Interp struct {
		Base `tlog:",embed"`

		Expr Node
	}
)
