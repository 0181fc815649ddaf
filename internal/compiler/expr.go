package compiler

import (
	"github.com/VikingMew/quickpython/internal/ast"
	"github.com/VikingMew/quickpython/internal/compile"
)

// compileExpr emits code that leaves e's value on the stack. A CallExpr
// whose Func is an AttrExpr always compiles to CALLMETHOD, whatever the
// method name; the VM dispatches on the receiver's kind, and a module
// receiver's attribute lookup-then-call is handled the same way.
func (fc *funcCompiler) compileExpr(e ast.Expression) {
	switch n := e.(type) {
	case *ast.Ident:
		fc.emitLoad(n.Name)
	case *ast.IntLit:
		fc.emitA(compile.PUSHCONST, fc.addConst(n.Value))
	case *ast.FloatLit:
		fc.emitA(compile.PUSHCONST, fc.addConst(n.Value))
	case *ast.StringLit:
		fc.emitA(compile.PUSHCONST, fc.addConst(n.Value))
	case *ast.BoolLit:
		if n.Value {
			fc.emit(compile.PUSHTRUE)
		} else {
			fc.emit(compile.PUSHFALSE)
		}
	case *ast.NoneLit:
		fc.emit(compile.PUSHNONE)
	case *ast.FString:
		fc.compileFString(n)
	case *ast.UnaryExpr:
		fc.compileUnary(n)
	case *ast.BinaryExpr:
		fc.compileBinary(n)
	case *ast.CompareExpr:
		fc.compileCompare(n)
	case *ast.LogicalExpr:
		fc.compileLogical(n)
	case *ast.CallExpr:
		fc.compileCall(n)
	case *ast.AttrExpr:
		fc.compileExpr(n.X)
		fc.emitStr(compile.GETATTR, n.Name)
	case *ast.IndexExpr:
		fc.compileExpr(n.X)
		fc.compileExpr(n.Index)
		fc.emit(compile.GETITEM)
	case *ast.SliceExpr:
		fc.compileSlice(n)
	case *ast.ListLit:
		for _, el := range n.Elts {
			fc.compileExpr(el)
		}
		fc.emitA(compile.BUILDLIST, int32(len(n.Elts)))
	case *ast.TupleLit:
		for _, el := range n.Elts {
			fc.compileExpr(el)
		}
		fc.emitA(compile.BUILDTUPLE, int32(len(n.Elts)))
	case *ast.DictLit:
		for _, ent := range n.Entries {
			fc.compileExpr(ent.Key)
			fc.compileExpr(ent.Value)
		}
		fc.emitA(compile.BUILDDICT, int32(len(n.Entries)))
	case *ast.ListComp:
		fc.compileListComp(n)
	case *ast.DictComp:
		fc.compileDictComp(n)
	default:
		fc.fail(e.Pos(), "unsupported expression %T", e)
	}
}

func (fc *funcCompiler) compileUnary(n *ast.UnaryExpr) {
	fc.compileExpr(n.X)
	switch n.Op {
	case "-":
		fc.emit(compile.NEG)
	case "+":
		// unary plus is a no-op once the operand is on the stack
	case "not":
		fc.emit(compile.NOT)
	case "await":
		fc.emit(compile.AWAIT)
	default:
		fc.fail(n.Pos(), "unsupported unary operator %q", n.Op)
	}
}

var binOps = map[string]compile.Opcode{
	"+": compile.ADD, "-": compile.SUB, "*": compile.MUL, "/": compile.DIV, "%": compile.MOD,
}

func (fc *funcCompiler) compileBinary(n *ast.BinaryExpr) {
	op, ok := binOps[n.Op]
	if !ok {
		fc.fail(n.Pos(), "operator %q is not part of this engine's instruction set", n.Op)
	}
	fc.compileExpr(n.X)
	fc.compileExpr(n.Y)
	fc.emit(op)
}

// compileCompare lowers a (possibly chained) comparison. Python-style
// chaining (`a < b < c`) is lowered to the conjunction of adjacent
// pairwise tests; a single-pair comparison is the common case and
// compiles to one compare opcode with no extra control flow.
func (fc *funcCompiler) compileCompare(n *ast.CompareExpr) {
	if len(n.Ops) == 1 {
		fc.compileExpr(n.Operands[0])
		fc.compileExpr(n.Operands[1])
		fc.emit(compareOpcode(fc, n.Pos(), n.Ops[0]))
		return
	}
	// Chained comparisons thread each intermediate operand through a
	// pair of temporaries rather than stack-shuffling opcodes this
	// instruction set does not have (no DUP-below-top/rotate), since
	// every comparand except the first and last is read twice (once as
	// the right side of one test, once as the left side of the next).
	left := fc.newTemp()
	right := fc.newTemp()
	var endFixups []int
	fc.compileExpr(n.Operands[0])
	fc.emitStore(left)
	for i, op := range n.Ops {
		fc.compileExpr(n.Operands[i+1])
		fc.emitStore(right)
		fc.emitLoad(left)
		fc.emitLoad(right)
		fc.emit(compareOpcode(fc, n.Pos(), op))
		if i < len(n.Ops)-1 {
			endFixups = append(endFixups, fc.emitA(compile.JUMPIFFALSEORPOP, 0))
			fc.emitLoad(right)
			fc.emitStore(left)
		}
	}
	end := fc.here()
	for _, idx := range endFixups {
		fc.patch(idx, end)
	}
}

func compareOpcode(fc *funcCompiler, pos ast.Position, op string) compile.Opcode {
	switch op {
	case "==":
		return compile.EQ
	case "!=":
		return compile.NE
	case "<":
		return compile.LT
	case "<=":
		return compile.LE
	case ">":
		return compile.GT
	case ">=":
		return compile.GE
	case "in":
		return compile.CONTAINS
	case "notin":
		return compile.NOTCONTAINS
	case "is":
		return compile.IS
	case "isnot":
		return compile.ISNOT
	}
	fc.fail(pos, "unknown comparison operator %q", op)
	return 0
}

func (fc *funcCompiler) compileLogical(n *ast.LogicalExpr) {
	fc.compileExpr(n.X)
	var jidx int
	if n.Op == "and" {
		jidx = fc.emitA(compile.JUMPIFFALSEORPOP, 0)
	} else {
		jidx = fc.emitA(compile.JUMPIFTRUEORPOP, 0)
	}
	fc.compileExpr(n.Y)
	fc.patch(jidx, fc.here())
}

func (fc *funcCompiler) compileCall(n *ast.CallExpr) {
	if attr, ok := n.Func.(*ast.AttrExpr); ok {
		fc.compileExpr(attr.X)
		for _, a := range n.Args {
			fc.compileExpr(a)
		}
		fc.emitA(compile.CALLMETHOD, int32(len(n.Args)))
		fc.code[len(fc.code)-1].Str = attr.Name
		return
	}
	fc.compileExpr(n.Func)
	for _, a := range n.Args {
		fc.compileExpr(a)
	}
	fc.emitA(compile.CALL, int32(len(n.Args)))
}

func (fc *funcCompiler) compileSlice(n *ast.SliceExpr) {
	fc.compileExpr(n.X)
	pushOrNone := func(e ast.Expression) {
		if e != nil {
			fc.compileExpr(e)
		} else {
			fc.emit(compile.PUSHNONE)
		}
	}
	pushOrNone(n.Start)
	pushOrNone(n.Stop)
	pushOrNone(n.Step)
	fc.emit(compile.BUILDSLICE)
	fc.emit(compile.GETITEMSLICE)
}

// compileFString lowers an f-string to alternating string constants and
// str()-converted embedded expressions, gathered by FormatString, per
// spec.md §4.C.
func (fc *funcCompiler) compileFString(n *ast.FString) {
	argc := 0
	for i, part := range n.Parts {
		fc.emitA(compile.PUSHCONST, fc.addConst(part))
		argc++
		if i < len(n.Exprs) {
			fc.compileExpr(n.Exprs[i])
			argc++
		}
	}
	fc.emitA(compile.FORMATSTRING, int32(argc))
}

// compileListComp lowers `[Elt for Vars in Iter if Cond]` to an
// accumulator local plus a GetIter/ForIter loop, appending via
// CallMethod("append") rather than keeping the accumulator on the
// value stack (which would have to coexist there with the iterator
// and loop-scratch values across arbitrarily complex Elt expressions).
func (fc *funcCompiler) compileListComp(n *ast.ListComp) {
	acc := fc.newTemp()
	fc.emitA(compile.BUILDLIST, 0)
	fc.emitStore(acc)

	fc.compileExpr(n.Iter)
	fc.emit(compile.GETITER)
	start := fc.here()
	jExit := fc.emitA(compile.FORITER, 0)
	if len(n.Vars) == 1 {
		fc.emitStore(n.Vars[0])
	} else {
		fc.emitA(compile.UNPACKSEQUENCE, int32(len(n.Vars)))
		for _, v := range n.Vars {
			fc.emitStore(v)
		}
	}
	if n.Cond != nil {
		fc.compileExpr(n.Cond)
		jSkip := fc.emitA(compile.JUMPIFFALSE, 0)
		fc.emitListAppend(acc, n.Elt)
		fc.patch(jSkip, fc.here())
	} else {
		fc.emitListAppend(acc, n.Elt)
	}
	fc.emitA(compile.JUMP, int32(start))
	fc.patch(jExit, fc.here())
	fc.emitLoad(acc)
}

func (fc *funcCompiler) emitListAppend(acc string, elt ast.Expression) {
	fc.emitLoad(acc)
	fc.compileExpr(elt)
	fc.emitA(compile.CALLMETHOD, 1)
	fc.code[len(fc.code)-1].Str = "append"
	fc.emit(compile.POP)
}

// compileDictComp lowers `{Key: Value for Vars in Iter if Cond}`
// analogously, using SetItem directly (last value wins on collision,
// per spec.md §4.C).
func (fc *funcCompiler) compileDictComp(n *ast.DictComp) {
	acc := fc.newTemp()
	fc.emitA(compile.BUILDDICT, 0)
	fc.emitStore(acc)

	fc.compileExpr(n.Iter)
	fc.emit(compile.GETITER)
	start := fc.here()
	jExit := fc.emitA(compile.FORITER, 0)
	if len(n.Vars) == 1 {
		fc.emitStore(n.Vars[0])
	} else {
		fc.emitA(compile.UNPACKSEQUENCE, int32(len(n.Vars)))
		for _, v := range n.Vars {
			fc.emitStore(v)
		}
	}
	setEntry := func() {
		fc.emitLoad(acc)
		fc.compileExpr(n.Key)
		fc.compileExpr(n.Value)
		fc.emit(compile.SETITEM)
	}
	if n.Cond != nil {
		fc.compileExpr(n.Cond)
		jSkip := fc.emitA(compile.JUMPIFFALSE, 0)
		setEntry()
		fc.patch(jSkip, fc.here())
	} else {
		setEntry()
	}
	fc.emitA(compile.JUMP, int32(start))
	fc.patch(jExit, fc.here())
	fc.emitLoad(acc)
}
