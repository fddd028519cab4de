// Package back drives native code generation and execution.
//
// A Module is one jit session: functions and data objects are declared
// and defined into it, Finalize checks the whole thing, and the first
// address lookup or run links everything into executable memory.
// Instruction selection, register allocation, and relocation belong to
// llvm; nothing here reaches past the operations below.
//
// A Module is owned by a single compilation session. It is not safe for
// concurrent use.
package back

import (
	"context"
	"sync"

	"tinygo.org/x/go-llvm"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type (
	Module struct {
		ctx llvm.Context
		mod llvm.Module

		open int // functions under construction

		eng    llvm.ExecutionEngine
		linked bool
	}

	// Value is a typed value handle produced by one instruction.
	// It is only meaningful inside the function that produced it.
	// The zero Value means "no value".
	Value = llvm.Value

	// Cond is a comparison condition spelled as the source operator.
	Cond string
)

var (
	jitOnce sync.Once
	jitErr  error
)

func jitInit() error {
	jitOnce.Do(func() {
		llvm.LinkInMCJIT()

		jitErr = llvm.InitializeNativeTarget()
		if jitErr != nil {
			return
		}

		jitErr = llvm.InitializeNativeAsmPrinter()
	})

	return jitErr
}

func New(ctx context.Context, name string) (m *Module, err error) {
	err = jitInit()
	if err != nil {
		return nil, errors.Wrap(err, "init native target")
	}

	c := llvm.NewContext()

	m = &Module{
		ctx: c,
		mod: c.NewModule(name),
	}

	tlog.V("jit").Printw("new module", "name", name)

	return m, nil
}

// Close releases llvm resources. The execution engine owns the llvm
// module once created, so only one of them is disposed directly.
func (m *Module) Close() error {
	if m.linked {
		m.eng.Dispose()
	} else {
		m.mod.Dispose()
	}

	m.ctx.Dispose()

	return nil
}

func (m *Module) I64() llvm.Type {
	return m.ctx.Int64Type()
}

func (m *Module) F64() llvm.Type {
	return m.ctx.DoubleType()
}

// DeclareData creates a read-only byte object with an exported symbol.
// The name must not collide with an existing data object.
func (m *Module) DeclareData(ctx context.Context, name string, size int) (g llvm.Value, err error) {
	if old := m.mod.NamedGlobal(name); !old.IsNil() {
		return llvm.Value{}, errors.New("data already declared: %v", name)
	}

	g = llvm.AddGlobal(m.mod, llvm.ArrayType(m.ctx.Int8Type(), size), name)
	g.SetLinkage(llvm.ExternalLinkage)

	tlog.V("jit,data").Printw("declare data", "name", name, "size", size)

	return g, nil
}

func (m *Module) DefineData(ctx context.Context, g llvm.Value, data []byte) error {
	if !g.Initializer().IsNil() {
		return errors.New("data already defined")
	}

	el := make([]llvm.Value, len(data))

	for i, c := range data {
		el[i] = llvm.ConstInt(m.ctx.Int8Type(), uint64(c), false)
	}

	g.SetInitializer(llvm.ConstArray(m.ctx.Int8Type(), el))
	g.SetGlobalConstant(true)

	return nil
}

// Finalize verifies everything defined so far. The check is skipped
// while any function is still under construction, as its entry block
// has no terminator yet; finished functions are checked by DefineFunc.
// Actual linking is done once, on the first address lookup or run.
func (m *Module) Finalize(ctx context.Context) (err error) {
	if m.open == 0 {
		err = llvm.VerifyModule(m.mod, llvm.ReturnStatusAction)
		if err != nil {
			return errors.Wrap(err, "verify module")
		}
	}

	tlog.V("jit").Printw("module finalized", "open", m.open)

	return nil
}

func (m *Module) link(ctx context.Context) (err error) {
	if m.linked {
		return nil
	}

	opts := llvm.NewMCJITCompilerOptions()
	opts.SetMCJITOptimizationLevel(0)

	m.eng, err = llvm.NewMCJITCompiler(m.mod, opts)
	if err != nil {
		return errors.Wrap(err, "create execution engine")
	}

	m.linked = true

	tlog.V("jit").Printw("module linked")

	return nil
}

// FuncAddr links the module if needed and resolves a finalized
// function to its machine code address.
func (m *Module) FuncAddr(ctx context.Context, name string) (addr uintptr, err error) {
	err = m.link(ctx)
	if err != nil {
		return 0, err
	}

	fn := m.mod.NamedFunction(name)
	if fn.IsNil() {
		return 0, errors.New("no such function: %v", name)
	}

	return uintptr(m.eng.PointerToGlobal(fn)), nil
}

// Run invokes a finalized function with no arguments on the calling
// thread and returns its 64-bit integer result. The generated code runs
// unguarded: a machine trap inside it takes the process down.
func (m *Module) Run(ctx context.Context, name string) (res int64, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "jit: run", "name", name)
	defer tr.Finish("err", &err)

	err = m.link(ctx)
	if err != nil {
		return 0, err
	}

	fn := m.mod.NamedFunction(name)
	if fn.IsNil() {
		return 0, errors.New("no such function: %v", name)
	}

	gv := m.eng.RunFunction(fn, []llvm.GenericValue{})
	defer gv.Dispose()

	return int64(gv.Int(true)), nil
}

// IR renders the module as textual llvm ir. Debug helper.
func (m *Module) IR() string {
	return m.mod.String()
}
