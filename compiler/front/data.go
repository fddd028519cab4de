package front

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/jinxlang/jinx/compiler/back"
)

// emitData commits bytes as a read-only data object and returns its
// address as a value in the active function. One object per call, no
// deduplication even for identical content. Symbol names come from the
// session counter, so repeated literals get distinct objects.
func (c *Front) emitData(ctx context.Context, f *back.Func, data []byte) (v back.Value, err error) {
	name := fmt.Sprintf("str_%d", c.data)
	c.data++

	g, err := c.m.DeclareData(ctx, name, len(data))
	if err != nil {
		return v, errors.Wrap(err, "declare data %v", name)
	}

	err = c.m.DefineData(ctx, g, data)
	if err != nil {
		return v, errors.Wrap(err, "define data %v", name)
	}

	err = c.m.Finalize(ctx)
	if err != nil {
		return v, errors.Wrap(err, "finalize definitions")
	}

	tlog.V("data").Printw("data object", "name", name, "size", len(data))

	return f.DataAddr(g), nil
}
