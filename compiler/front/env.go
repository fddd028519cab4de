package front

import (
	"tlog.app/go/loc"
	"tlog.app/go/tlog"
	"tlog.app/go/tlog/tlwire"

	"github.com/jinxlang/jinx/compiler/back"
)

type (
	// Env resolves source names to storage slots.
	Env interface {
		Declare(f *back.Func, name string) Slot
		Lookup(name string) (Slot, bool)
	}

	// Slot is one declared binding: a process-unique id and the stack
	// cell registered with the function that declared it.
	Slot struct {
		ID   int
		Name string
		Ptr  back.Value
	}

	// FlatEnv is the default environment: a single namespace for the
	// whole compilation, shared across nested functions and nested let
	// blocks. Redeclaring a name reuses its slot, the new value
	// overwrites the old one. No scope stack, no removal.
	FlatEnv struct {
		slots map[string]Slot
		next  int
	}
)

func NewEnv() *FlatEnv {
	return &FlatEnv{
		slots: map[string]Slot{},
	}
}

// Declare assigns a slot to the name. The slot's storage belongs to f,
// so only call it while f is the active build target.
func (e *FlatEnv) Declare(f *back.Func, name string) Slot {
	if s, ok := e.slots[name]; ok {
		tlog.V("vars").Printw("reuse var", "name", name, "slot", s, "from", loc.Callers(1, 3))

		return s
	}

	s := Slot{
		ID:   e.next,
		Name: name,
		Ptr:  f.NewSlot(name),
	}

	e.next++
	e.slots[name] = s

	tlog.V("vars,define").Printw("define var", "name", name, "slot", s, "from", loc.Callers(1, 3))

	return s
}

func (e *FlatEnv) Lookup(name string) (Slot, bool) {
	s, ok := e.slots[name]

	return s, ok
}

func (s Slot) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 2)
	b = e.AppendKeyInt(b, "id", s.ID)
	b = e.AppendKey(b, "name")
	b = e.AppendString(b, s.Name)

	return b
}
