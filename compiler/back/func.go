package back

import (
	"context"

	"tinygo.org/x/go-llvm"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type (
	// Func is a function under construction: one entry block, sealed
	// by construction (no other block ever branches into it),
	// instructions appended at the end, a single return.
	Func struct {
		m *Module

		name string
		fn   llvm.Value
		bld  llvm.Builder
		done bool
	}
)

// NewFunc declares an exported function taking params 64-bit integer
// arguments and returning one, and opens its entry block.
func (m *Module) NewFunc(ctx context.Context, name string, params int) (f *Func, err error) {
	if old := m.mod.NamedFunction(name); !old.IsNil() {
		return nil, errors.New("function already declared: %v", name)
	}

	args := make([]llvm.Type, params)

	for i := range args {
		args[i] = m.I64()
	}

	fn := llvm.AddFunction(m.mod, name, llvm.FunctionType(m.I64(), args, false))
	fn.SetLinkage(llvm.ExternalLinkage)

	bld := m.ctx.NewBuilder()
	bld.SetInsertPointAtEnd(m.ctx.AddBasicBlock(fn, "entry"))

	m.open++

	tlog.V("jit,func").Printw("declare func", "name", name, "params", params)

	f = &Func{
		m:    m,
		name: name,
		fn:   fn,
		bld:  bld,
	}

	return f, nil
}

// DefineFunc verifies the finished function body and commits it.
// The function cannot be changed after that, only called.
func (m *Module) DefineFunc(ctx context.Context, f *Func) (err error) {
	f.close()

	err = llvm.VerifyFunction(f.fn, llvm.ReturnStatusAction)
	if err != nil {
		return errors.Wrap(err, "verify %v", f.name)
	}

	tlog.V("jit,func").Printw("define func", "name", f.name)

	return nil
}

func (f *Func) Name() string {
	return f.name
}

// Close releases the instruction builder. The function itself stays in
// the module. An abandoned function counts as closed too.
func (f *Func) Close() error {
	f.close()

	f.bld.Dispose()

	return nil
}

func (f *Func) close() {
	if f.done {
		return
	}

	f.done = true
	f.m.open--
}

func (f *Func) Param(i int) Value {
	return f.fn.Param(i)
}

func (f *Func) Return(v Value) {
	f.bld.CreateRet(v)
}

func (f *Func) ConstI64(v uint64) Value {
	return llvm.ConstInt(f.m.I64(), v, false)
}

func (f *Func) ConstF64(v float64) Value {
	return llvm.ConstFloat(f.m.F64(), v)
}

func (f *Func) Add(l, r Value) Value {
	return f.bld.CreateAdd(l, r, "add")
}

func (f *Func) Sub(l, r Value) Value {
	return f.bld.CreateSub(l, r, "sub")
}

func (f *Func) Mul(l, r Value) Value {
	return f.bld.CreateMul(l, r, "mul")
}

// UDiv is unsigned integer division. There is no signed path.
func (f *Func) UDiv(l, r Value) Value {
	return f.bld.CreateUDiv(l, r, "quo")
}

func (f *Func) And(l, r Value) Value {
	return f.bld.CreateAnd(l, r, "and")
}

func (f *Func) Or(l, r Value) Value {
	return f.bld.CreateOr(l, r, "or")
}

// CmpS emits a signed comparison widened back to i64: the result is 1
// when the condition holds and 0 otherwise.
func (f *Func) CmpS(cond Cond, l, r Value) (Value, error) {
	var p llvm.IntPredicate

	switch cond {
	case "==":
		p = llvm.IntEQ
	case "!=":
		p = llvm.IntNE
	case "<":
		p = llvm.IntSLT
	case "<=":
		p = llvm.IntSLE
	case ">":
		p = llvm.IntSGT
	case ">=":
		p = llvm.IntSGE
	default:
		return Value{}, errors.New("unsupported condition: %v", cond)
	}

	c := f.bld.CreateICmp(p, l, r, "cmp")

	return f.bld.CreateZExt(c, f.m.I64(), "b2i"), nil
}

// NewSlot reserves one 64-bit stack cell in the function frame.
func (f *Func) NewSlot(name string) Value {
	return f.bld.CreateAlloca(f.m.I64(), name)
}

func (f *Func) Store(v, ptr Value) {
	f.bld.CreateStore(v, ptr)
}

func (f *Func) Load(ptr Value, name string) Value {
	return f.bld.CreateLoad(f.m.I64(), ptr, name)
}

// DataAddr materializes a data object's address as an i64 value inside
// the function.
func (f *Func) DataAddr(g Value) Value {
	return llvm.ConstPtrToInt(g, f.m.I64())
}
