package generate

import (
	"cayc/depm"
	"cayc/report"
	"cayc/typing"
	"cayc/util"
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// LLVMIdent is the payload of the code generator's local symbol table.
type LLVMIdent struct {
	// Type is the declared type of the local.
	Type typing.DataType

	// Storage is the stack slot holding the local's value.
	Storage value.Value

	// StorageName is the IR name of the stack slot, eg. `x.2`.
	StorageName string
}

// operand is a generated value together with its source type.
type operand struct {
	val value.Value
	typ typing.DataType
}

// Options configures code generation.
type Options struct {
	// TargetTriple is written into the module header if it is non-empty.
	TargetTriple string

	// SourceFilename is written into the module header if it is non-empty.
	SourceFilename string

	// EmitRuntime indicates whether the runtime support functions should be
	// defined in the module.  Otherwise, they are only declared and must be
	// linked in from elsewhere.
	EmitRuntime bool
}

// loopContext holds the jump targets of an enclosing loop.
type loopContext struct {
	breakBlock, continueBlock *ir.Block
}

// classFuncs holds the compiler-generated lifecycle functions of a class.
// Any of them may be nil if the class does not need it.
type classFuncs struct {
	fields, init, dtor, clinit *ir.Func
}

// Generator is responsible for converting the typed AST of every class into a
// single LLVM module.
type Generator struct {
	reg  *depm.TypeRegistry
	opts Options

	// mod is the LLVM module being generated.
	mod *ir.Module

	// rt holds the runtime support functions.
	rt *runtimeFuncs

	methods   map[*depm.MethodInfo]*ir.Func
	ctors     map[*depm.ConstructorInfo]*ir.Func
	lifecycle map[string]*classFuncs
	statics   map[*depm.FieldInfo]*ir.Global

	// natives maps the external symbol of each native method to its
	// declaration.
	natives map[string]*ir.Func

	// strings interns string constants by content.
	strings map[string]constant.Constant

	// globalCounter is a counter used to generate anonymous globals such as
	// those for interned strings.
	globalCounter int

	// The fields below describe the function being generated.

	// class is the class whose member is being generated.
	class *depm.ClassInfo

	// enclosingFunc is function enclosing the block being compiled.
	enclosingFunc *ir.Func

	// block stores the current block begin generated.
	block *ir.Block

	// thisSlot is the stack slot of the receiver or nil in static contexts.
	thisSlot *ir.InstAlloca

	// scopes is the stack of local scopes used during generation.
	scopes *util.ScopeStack[LLVMIdent]

	// returnType is the return type of the enclosing function.
	returnType typing.DataType

	// loops is the stack of loops enclosing the current statement.
	loops []loopContext

	// localCounter numbers the stack slots of the enclosing function.
	localCounter int
}

func newGenerator(reg *depm.TypeRegistry, opts Options) *Generator {
	mod := ir.NewModule()
	mod.TargetTriple = opts.TargetTriple
	mod.SourceFilename = opts.SourceFilename

	return &Generator{
		reg:       reg,
		opts:      opts,
		mod:       mod,
		methods:   make(map[*depm.MethodInfo]*ir.Func),
		ctors:     make(map[*depm.ConstructorInfo]*ir.Func),
		lifecycle: make(map[string]*classFuncs),
		statics:   make(map[*depm.FieldInfo]*ir.Global),
		natives:   make(map[string]*ir.Func),
		strings:   make(map[string]constant.Constant),
	}
}

// Generate converts every class in a validated, type checked, and laid out
// registry into an LLVM module.  If entry is non-empty, the module is given a
// C `main` function which runs static initialization and then calls the entry
// class's `main` method.  Generation only fails on internal errors.
func Generate(reg *depm.TypeRegistry, entry string, opts Options) (mod *ir.Module, err error) {
	defer report.CatchErrors(&err)

	if !reg.Finalized() {
		return nil, report.ICE(report.CodegenFailure, "generating code for a registry without a layout")
	}

	g := newGenerator(reg, opts)
	g.declareRuntime()

	// Every global and function is declared before any body is generated so
	// that definitions can refer to each other in any order.
	for _, ci := range reg.Classes() {
		g.declareClass(ci)
	}

	for _, ci := range reg.Classes() {
		g.genClass(ci)
	}

	if entry != "" {
		g.genEntryWrapper(entry)
	}

	return g.mod, nil
}

// -----------------------------------------------------------------------------

// beginFunc positions the generator at the start of the body of fn.  If
// hasThis is set, the first parameter of fn is the receiver and it is spilled
// into the `this_ptr` slot.  The remaining parameters are declared as locals.
func (g *Generator) beginFunc(ci *depm.ClassInfo, fn *ir.Func, hasThis bool, params []*depm.ParamInfo, rtType typing.DataType) {
	g.class = ci
	g.enclosingFunc = fn
	g.block = fn.NewBlock("entry")
	g.scopes = util.NewScopeStack[LLVMIdent]()
	g.returnType = rtType
	g.loops = nil
	g.localCounter = 0
	g.thisSlot = nil

	llParams := fn.Params
	if hasThis {
		g.thisSlot = g.block.NewAlloca(types.I8Ptr)
		g.thisSlot.SetName("this_ptr")
		g.block.NewStore(llParams[0], g.thisSlot)
		llParams = llParams[1:]
	}

	for i, param := range params {
		g.declareLocal(param.Name, param.Type, llParams[i])
	}
}

// endFunc terminates the last block of the enclosing function with an implicit
// return and resets the function state.
func (g *Generator) endFunc() {
	if g.block.Term == nil {
		if typing.Equals(g.returnType, typing.PrimVoid) {
			g.block.NewRet(nil)
		} else {
			g.block.NewRet(g.zeroValue(g.returnType))
		}
	}

	g.class = nil
	g.enclosingFunc = nil
	g.block = nil
	g.thisSlot = nil
	g.scopes = nil
}

// declareLocal allocates a stack slot for a local variable, stores its initial
// value, and declares it in the current scope.  The slot is placed in the entry
// block so that loops do not grow the stack.
func (g *Generator) declareLocal(name string, dt typing.DataType, init value.Value) *ir.InstAlloca {
	slot := g.enclosingFunc.Blocks[0].NewAlloca(g.convType(dt))

	storageName := fmt.Sprintf("%s.%d", name, g.localCounter)
	g.localCounter++
	slot.SetName(storageName)

	g.block.NewStore(init, slot)
	g.scopes.Declare(name, LLVMIdent{Type: dt, Storage: slot, StorageName: storageName})
	return slot
}

// appendBlock adds a new basic block to the current function.  It does *not*
// set the current block to this new block.
func (g *Generator) appendBlock() *ir.Block {
	return g.enclosingFunc.NewBlock(fmt.Sprintf("bb%d", len(g.enclosingFunc.Blocks)))
}
