package generate

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// runtimeFuncs holds the C library functions the generated code depends on and
// the string support functions of the runtime.  Every runtime function
// accepts null strings.
type runtimeFuncs struct {
	calloc, strlen, strncmp, snprintf, memcpy *ir.Func

	concat        *ir.Func
	intToString   *ir.Func
	floatToString *ir.Func
	boolToString  *ir.Func
	charToString  *ir.Func

	length, substring, indexOf, charAt, replace *ir.Func

	// emptyStr is a pointer to the shared empty string.
	emptyStr constant.Constant
}

var (
	i64Zero = constant.NewInt(types.I64, 0)
	i64One  = constant.NewInt(types.I64, 1)
	i32Zero = constant.NewInt(types.I32, 0)
	i8Zero  = constant.NewInt(types.I8, 0)
	nullPtr = constant.NewNull(types.I8Ptr)
)

// declareRuntime adds the runtime support functions to the module.  Their
// bodies are only generated if the runtime is to be emitted.
func (g *Generator) declareRuntime() {
	rt := &runtimeFuncs{}
	g.rt = rt

	rt.calloc = g.mod.NewFunc("calloc", types.I8Ptr, ir.NewParam("", types.I64), ir.NewParam("", types.I64))
	rt.strlen = g.mod.NewFunc("strlen", types.I64, ir.NewParam("", types.I8Ptr))
	rt.strncmp = g.mod.NewFunc(
		"strncmp",
		types.I32,
		ir.NewParam("", types.I8Ptr),
		ir.NewParam("", types.I8Ptr),
		ir.NewParam("", types.I64),
	)
	rt.snprintf = g.mod.NewFunc(
		"snprintf",
		types.I32,
		ir.NewParam("", types.I8Ptr),
		ir.NewParam("", types.I64),
		ir.NewParam("", types.I8Ptr),
	)
	rt.snprintf.Sig.Variadic = true
	rt.memcpy = g.mod.NewFunc(
		"llvm.memcpy.p0i8.p0i8.i64",
		types.Void,
		ir.NewParam("", types.I8Ptr),
		ir.NewParam("", types.I8Ptr),
		ir.NewParam("", types.I64),
		ir.NewParam("", types.I1),
	)

	rt.emptyStr = g.privateString(".cay_empty_str", "")

	rt.concat = g.mod.NewFunc("__cay_string_concat", types.I8Ptr, ir.NewParam("a", types.I8Ptr), ir.NewParam("b", types.I8Ptr))
	rt.intToString = g.mod.NewFunc("__cay_int_to_string", types.I8Ptr, ir.NewParam("value", types.I64))
	rt.floatToString = g.mod.NewFunc("__cay_float_to_string", types.I8Ptr, ir.NewParam("value", types.Double))
	rt.boolToString = g.mod.NewFunc("__cay_bool_to_string", types.I8Ptr, ir.NewParam("value", types.I1))
	rt.charToString = g.mod.NewFunc("__cay_char_to_string", types.I8Ptr, ir.NewParam("value", types.I8))
	rt.length = g.mod.NewFunc("__cay_string_length", types.I32, ir.NewParam("str", types.I8Ptr))
	rt.substring = g.mod.NewFunc(
		"__cay_string_substring",
		types.I8Ptr,
		ir.NewParam("str", types.I8Ptr),
		ir.NewParam("begin", types.I32),
		ir.NewParam("end", types.I32),
	)
	rt.indexOf = g.mod.NewFunc("__cay_string_indexof", types.I32, ir.NewParam("str", types.I8Ptr), ir.NewParam("needle", types.I8Ptr))
	rt.charAt = g.mod.NewFunc("__cay_string_charat", types.I8, ir.NewParam("str", types.I8Ptr), ir.NewParam("index", types.I32))
	rt.replace = g.mod.NewFunc(
		"__cay_string_replace",
		types.I8Ptr,
		ir.NewParam("str", types.I8Ptr),
		ir.NewParam("target", types.I8Ptr),
		ir.NewParam("replacement", types.I8Ptr),
	)

	if !g.opts.EmitRuntime {
		return
	}

	g.defineConcat()
	g.defineFormatter(rt.intToString, "%lld", 32)
	g.defineFormatter(rt.floatToString, "%f", 64)
	g.defineBoolToString()
	g.defineCharToString()
	g.defineLength()
	g.defineSubstring()
	g.defineIndexOf()
	g.defineCharAt()
	g.defineReplace()
}

// -----------------------------------------------------------------------------

// privateString defines a private, null-terminated string constant and returns
// a pointer to its first byte.
func (g *Generator) privateString(name, s string) constant.Constant {
	glob := g.mod.NewGlobalDef(name, constant.NewCharArrayFromString(s+"\x00"))
	glob.Immutable = true
	glob.Linkage = enum.LinkagePrivate
	glob.UnnamedAddr = enum.UnnamedAddrUnnamedAddr

	return constant.NewGetElementPtr(glob.ContentType, glob, i64Zero, i64Zero)
}

// stringConst returns a pointer to an interned string constant.
func (g *Generator) stringConst(s string) constant.Constant {
	if ptr, ok := g.strings[s]; ok {
		return ptr
	}

	ptr := g.privateString(fmt.Sprintf(".str.%d", g.globalCounter), s)
	g.globalCounter++
	g.strings[s] = ptr
	return ptr
}

// orEmpty replaces a null string with the empty string.
func (g *Generator) orEmpty(block *ir.Block, str value.Value) value.Value {
	isNull := block.NewICmp(enum.IPredEQ, str, nullPtr)
	return block.NewSelect(isNull, g.rt.emptyStr, str)
}

// copyBytes copies n bytes from src to dst.
func (g *Generator) copyBytes(block *ir.Block, dst, src, n value.Value) {
	block.NewCall(g.rt.memcpy, dst, src, n, constant.False)
}

// -----------------------------------------------------------------------------

func (g *Generator) defineConcat() {
	fn := g.rt.concat
	entry := fn.NewBlock("entry")
	fail := fn.NewBlock("fail")
	copyBlock := fn.NewBlock("copy")

	a := g.orEmpty(entry, fn.Params[0])
	b := g.orEmpty(entry, fn.Params[1])
	lenA := entry.NewCall(g.rt.strlen, a)
	lenB := entry.NewCall(g.rt.strlen, b)
	total := entry.NewAdd(lenA, lenB)
	result := entry.NewCall(g.rt.calloc, i64One, entry.NewAdd(total, i64One))
	entry.NewCondBr(entry.NewICmp(enum.IPredEQ, result, nullPtr), fail, copyBlock)

	fail.NewRet(g.rt.emptyStr)

	g.copyBytes(copyBlock, result, a, lenA)
	g.copyBytes(copyBlock, copyBlock.NewGetElementPtr(types.I8, result, lenA), b, lenB)
	copyBlock.NewRet(result)
}

// defineFormatter defines a conversion to string which formats its argument
// into a fresh buffer of the given size with snprintf.
func (g *Generator) defineFormatter(fn *ir.Func, format string, bufSize int64) {
	formatStr := g.privateString(fn.Name()+".fmt", format)

	entry := fn.NewBlock("entry")
	size := constant.NewInt(types.I64, bufSize)
	buf := entry.NewCall(g.rt.calloc, i64One, size)
	entry.NewCall(g.rt.snprintf, buf, size, formatStr, fn.Params[0])
	entry.NewRet(buf)
}

func (g *Generator) defineBoolToString() {
	fn := g.rt.boolToString
	entry := fn.NewBlock("entry")
	entry.NewRet(entry.NewSelect(fn.Params[0], g.privateString(".cay_true_str", "true"), g.privateString(".cay_false_str", "false")))
}

func (g *Generator) defineCharToString() {
	fn := g.rt.charToString
	entry := fn.NewBlock("entry")

	// The second byte is the terminator: calloc zeroes it.
	buf := entry.NewCall(g.rt.calloc, i64One, constant.NewInt(types.I64, 2))
	entry.NewStore(fn.Params[0], buf)
	entry.NewRet(buf)
}

func (g *Generator) defineLength() {
	fn := g.rt.length
	entry := fn.NewBlock("entry")

	n := entry.NewCall(g.rt.strlen, g.orEmpty(entry, fn.Params[0]))
	entry.NewRet(entry.NewTrunc(n, types.I32))
}

// defineSubstring defines substring extraction.  The bounds are clamped: begin
// is raised to 0, end is clamped into [0, len], and begin is lowered to end if
// it exceeds it which yields the empty string.
func (g *Generator) defineSubstring() {
	fn := g.rt.substring
	entry := fn.NewBlock("entry")

	str := g.orEmpty(entry, fn.Params[0])
	strLen := entry.NewTrunc(entry.NewCall(g.rt.strlen, str), types.I32)

	var begin value.Value = fn.Params[1]
	begin = entry.NewSelect(entry.NewICmp(enum.IPredSLT, begin, i32Zero), i32Zero, begin)

	var end value.Value = fn.Params[2]
	end = entry.NewSelect(entry.NewICmp(enum.IPredSGT, end, strLen), strLen, end)
	end = entry.NewSelect(entry.NewICmp(enum.IPredSLT, end, i32Zero), i32Zero, end)

	begin = entry.NewSelect(entry.NewICmp(enum.IPredSGT, begin, end), end, begin)

	subLen := entry.NewSExt(entry.NewSub(end, begin), types.I64)
	result := entry.NewCall(g.rt.calloc, i64One, entry.NewAdd(subLen, i64One))
	src := entry.NewGetElementPtr(types.I8, str, entry.NewSExt(begin, types.I64))
	g.copyBytes(entry, result, src, subLen)
	entry.NewRet(result)
}

// defineIndexOf defines substring search.  It returns -1 if either string is
// null or the needle is not found and 0 for an empty needle.
func (g *Generator) defineIndexOf() {
	fn := g.rt.indexOf
	str, needle := fn.Params[0], fn.Params[1]

	entry := fn.NewBlock("entry")
	notFound := fn.NewBlock("not_found")
	search := fn.NewBlock("search")
	loopSetup := fn.NewBlock("loop_setup")
	loopCheck := fn.NewBlock("loop_check")
	loopBody := fn.NewBlock("loop_body")
	found := fn.NewBlock("found")
	loopNext := fn.NewBlock("loop_next")

	eitherNull := entry.NewOr(
		entry.NewICmp(enum.IPredEQ, str, nullPtr),
		entry.NewICmp(enum.IPredEQ, needle, nullPtr),
	)
	entry.NewCondBr(eitherNull, notFound, search)

	notFound.NewRet(constant.NewInt(types.I32, -1))

	strLen := search.NewCall(g.rt.strlen, str)
	needleLen := search.NewCall(g.rt.strlen, needle)
	emptyNeedle := search.NewICmp(enum.IPredEQ, needleLen, i64Zero)
	search.NewCondBr(search.NewICmp(enum.IPredSGT, needleLen, strLen), notFound, loopSetup)

	maxPos := loopSetup.NewSub(strLen, needleLen)
	loopSetup.NewCondBr(emptyNeedle, found, loopCheck)

	i := loopCheck.NewPhi(ir.NewIncoming(i64Zero, loopSetup))
	loopCheck.NewCondBr(loopCheck.NewICmp(enum.IPredSLE, i, maxPos), loopBody, notFound)

	cmp := loopBody.NewCall(g.rt.strncmp, loopBody.NewGetElementPtr(types.I8, str, i), needle, needleLen)
	loopBody.NewCondBr(loopBody.NewICmp(enum.IPredEQ, cmp, i32Zero), found, loopNext)

	next := loopNext.NewAdd(i, i64One)
	i.Incs = append(i.Incs, ir.NewIncoming(next, loopNext))
	loopNext.NewBr(loopCheck)

	pos := found.NewPhi(ir.NewIncoming(i64Zero, loopSetup), ir.NewIncoming(i, loopBody))
	found.NewRet(found.NewTrunc(pos, types.I32))
}

// defineCharAt defines character access.  Out of range indices yield 0.
func (g *Generator) defineCharAt() {
	fn := g.rt.charAt
	entry := fn.NewBlock("entry")
	inRange := fn.NewBlock("in_range")
	outOfRange := fn.NewBlock("out_of_range")

	str := g.orEmpty(entry, fn.Params[0])
	strLen := entry.NewCall(g.rt.strlen, str)
	index := entry.NewSExt(fn.Params[1], types.I64)
	valid := entry.NewAnd(
		entry.NewICmp(enum.IPredSGE, index, i64Zero),
		entry.NewICmp(enum.IPredSLT, index, strLen),
	)
	entry.NewCondBr(valid, inRange, outOfRange)

	inRange.NewRet(inRange.NewLoad(types.I8, inRange.NewGetElementPtr(types.I8, str, index)))
	outOfRange.NewRet(i8Zero)
}

// defineReplace defines replacement of every occurrence of a target string.
// An empty or null target leaves the string unchanged.  It is built from the
// other runtime functions: each iteration appends the text before the next
// match and the replacement to the result.
func (g *Generator) defineReplace() {
	fn := g.rt.replace
	entry := fn.NewBlock("entry")
	unchanged := fn.NewBlock("unchanged")
	loop := fn.NewBlock("loop")
	match := fn.NewBlock("match")
	done := fn.NewBlock("done")

	str := g.orEmpty(entry, fn.Params[0])
	target := g.orEmpty(entry, fn.Params[1])
	targetLen := entry.NewCall(g.rt.strlen, target)
	entry.NewCondBr(entry.NewICmp(enum.IPredEQ, targetLen, i64Zero), unchanged, loop)

	unchanged.NewRet(str)

	result := loop.NewPhi(ir.NewIncoming(g.rt.emptyStr, entry))
	rest := loop.NewPhi(ir.NewIncoming(str, entry))
	pos := loop.NewCall(g.rt.indexOf, rest, target)
	loop.NewCondBr(loop.NewICmp(enum.IPredSLT, pos, i32Zero), done, match)

	prefix := match.NewCall(g.rt.substring, rest, i32Zero, pos)
	withPrefix := match.NewCall(g.rt.concat, result, prefix)
	withReplacement := match.NewCall(g.rt.concat, withPrefix, fn.Params[2])
	skip := match.NewAdd(match.NewSExt(pos, types.I64), targetLen)
	nextRest := match.NewGetElementPtr(types.I8, rest, skip)
	result.Incs = append(result.Incs, ir.NewIncoming(withReplacement, match))
	rest.Incs = append(rest.Incs, ir.NewIncoming(nextRest, match))
	match.NewBr(loop)

	done.NewRet(done.NewCall(g.rt.concat, result, rest))
}
