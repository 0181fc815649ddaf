// Package compiler turns an internal/ast tree into internal/compile
// bytecode: a single linear instruction vector per function with a
// function-local-name scope pass, desugaring of the higher-level
// syntax (augmented assignment, short-circuit and/or, comprehensions,
// tuple unpacking, slicing, f-strings, async/await, generators) into
// the core instruction set, and forward-jump backpatching for control
// flow. The single-pass AST-visitor structure follows
// github.com/kristofer/smog's pkg/compiler; the lowering rules
// themselves are specific to this grammar and have no teacher
// precedent, since smog's Smalltalk dialect has no comprehensions,
// f-strings, or exception handling.
package compiler

import (
	"fmt"

	"github.com/VikingMew/quickpython/internal/ast"
	"github.com/VikingMew/quickpython/internal/compile"
)

// CompileError reports a construct the compiler does not implement,
// per spec.md §4.C: "the compiler reports a translation error and
// emits no code when it encounters syntax it does not implement".
type CompileError struct {
	Line, Col int
	Msg       string
}

func (e *CompileError) Error() string { return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg) }

// Compile compiles a parsed module into a Program.
func Compile(mod *ast.Module, filename string) (prog *compile.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*CompileError); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()
	prog = &compile.Program{Filename: filename}
	top := newFuncCompiler(prog, "<module>", nil, false)
	top.isModule = true
	top.compileStmts(mod.Body)
	top.emit(compile.PUSHNONE)
	top.emit(compile.RETURN)
	prog.Toplevel = top.finish()
	return prog, nil
}

type loopScope struct {
	continueTarget int
	breakFixups    []int
	tryDepth       int // len(fc.tryStack) when this loop was entered
	isFor          bool // a for loop: its iterator stays on the value stack until the loop exits
}

// tryScope tracks, for the span of one try statement's body and
// handlers, which protected-region blocks are live at the runtime
// block stack (quickpython/frame.go's block.kind) so that a nested
// break/continue can unwind them — see unwindTries — instead of
// jumping past their PopTry/PopFinally+finally-run sequence and
// leaving a stale block behind for a later exception to misread.
type tryScope struct {
	hasTry      bool
	hasFinally  bool
	finallyBody []ast.Statement
}

type funcCompiler struct {
	prog     *compile.Program
	parent   *funcCompiler
	isModule bool
	isAsync  bool
	isGen    bool

	name   string
	params []string

	code      []compile.Instruction
	lines     []int32
	consts    []compile.Value
	constIdx  map[compile.Value]int
	locals    []compile.Binding
	localIdx  map[string]int
	catches   []compile.Catch
	loopStack []*loopScope
	tryStack  []*tryScope
	tempCount int
}

func newFuncCompiler(prog *compile.Program, name string, params []string, isAsync bool) *funcCompiler {
	fc := &funcCompiler{
		prog:     prog,
		name:     name,
		params:   params,
		isAsync:  isAsync,
		constIdx: map[compile.Value]int{},
		localIdx: map[string]int{},
	}
	for _, p := range params {
		fc.addLocal(p)
	}
	return fc
}

func (fc *funcCompiler) fail(pos ast.Position, format string, args ...any) {
	panic(&CompileError{Line: pos.Line, Col: pos.Col, Msg: fmt.Sprintf(format, args...)})
}

func (fc *funcCompiler) addLocal(name string) int {
	if i, ok := fc.localIdx[name]; ok {
		return i
	}
	i := len(fc.locals)
	fc.locals = append(fc.locals, compile.Binding{Name: name})
	fc.localIdx[name] = i
	return i
}

func (fc *funcCompiler) isLocal(name string) (int, bool) {
	i, ok := fc.localIdx[name]
	return i, ok
}

func (fc *funcCompiler) newTemp() string {
	fc.tempCount++
	name := fmt.Sprintf("$t%d", fc.tempCount)
	if !fc.isModule {
		fc.addLocal(name)
	}
	return name
}

// emit appends an instruction and returns its index.
func (fc *funcCompiler) emit(op compile.Opcode) int {
	fc.code = append(fc.code, compile.Instruction{Op: op})
	fc.lines = append(fc.lines, 0)
	return len(fc.code) - 1
}

func (fc *funcCompiler) emitA(op compile.Opcode, a int32) int {
	fc.code = append(fc.code, compile.Instruction{Op: op, A: a})
	fc.lines = append(fc.lines, 0)
	return len(fc.code) - 1
}

func (fc *funcCompiler) emitStr(op compile.Opcode, s string) int {
	fc.code = append(fc.code, compile.Instruction{Op: op, Str: s})
	fc.lines = append(fc.lines, 0)
	return len(fc.code) - 1
}

func (fc *funcCompiler) emitStrNames(op compile.Opcode, s string, names []string) int {
	fc.code = append(fc.code, compile.Instruction{Op: op, Str: s, Names: names})
	fc.lines = append(fc.lines, 0)
	return len(fc.code) - 1
}

func (fc *funcCompiler) emitFunc(fn *compile.Funcode) int {
	fc.code = append(fc.code, compile.Instruction{Op: compile.MAKEFUNCTION, Func: fn})
	fc.lines = append(fc.lines, 0)
	return len(fc.code) - 1
}

func (fc *funcCompiler) here() int { return len(fc.code) }

func (fc *funcCompiler) patch(idx int, target int) {
	fc.code[idx].A = int32(target)
}

func (fc *funcCompiler) addConst(v compile.Value) int32 {
	if i, ok := fc.constIdx[v]; ok {
		return int32(i)
	}
	i := len(fc.consts)
	fc.consts = append(fc.consts, v)
	fc.constIdx[v] = i
	return int32(i)
}

func (fc *funcCompiler) finish() *compile.Funcode {
	return &compile.Funcode{
		Prog:        fc.prog,
		Name:        fc.name,
		Params:      fc.params,
		NumParams:   len(fc.params),
		IsAsync:     fc.isAsync,
		IsGenerator: fc.isGen,
		Locals:      fc.locals,
		Code:        fc.code,
		Consts:      fc.consts,
		Catches:     fc.catches,
		Lines:       fc.lines,
		MaxStack:    16,
	}
}

// emitLoad/emitStore resolve a name against this function's locals
// (falling back to globals), per spec.md §4.C's scope-resolution rule:
// locals use indexed Get/SetLocal, anything else uses name-keyed
// Get/SetGlobal. The top-level module body has no locals at all.
func (fc *funcCompiler) emitLoad(name string) {
	if !fc.isModule {
		if i, ok := fc.isLocal(name); ok {
			fc.emitA(compile.GETLOCAL, int32(i))
			return
		}
	}
	fc.emitStr(compile.GETGLOBAL, name)
}

func (fc *funcCompiler) emitStore(name string) {
	if !fc.isModule {
		if i, ok := fc.isLocal(name); ok {
			fc.emitA(compile.SETLOCAL, int32(i))
			return
		}
	}
	fc.emitStr(compile.SETGLOBAL, name)
}

// ---- pre-pass: collect function-local names ----

func collectLocals(fc *funcCompiler, body []ast.Statement) {
	var walkStmts func([]ast.Statement)
	var walkStmt func(ast.Statement)
	walkStmt = func(s ast.Statement) {
		switch n := s.(type) {
		case *ast.Assign:
			for _, t := range n.Targets {
				if id, ok := t.(*ast.Ident); ok {
					fc.addLocal(id.Name)
				}
			}
		case *ast.AugAssign:
			fc.addLocal(n.Target.Name)
		case *ast.For:
			for _, v := range n.Vars {
				fc.addLocal(v)
			}
			walkStmts(n.Body)
		case *ast.If:
			walkStmts(n.Then)
			walkStmts(n.Else)
		case *ast.While:
			walkStmts(n.Body)
		case *ast.Try:
			walkStmts(n.Body)
			for _, h := range n.Handlers {
				if h.Name != "" {
					fc.addLocal(h.Name)
				}
				walkStmts(h.Body)
			}
			walkStmts(n.Finally)
		case *ast.FuncDef:
			fc.addLocal(n.Name) // the def itself binds a name in the enclosing scope
		case *ast.Import:
			if n.As != "" {
				fc.addLocal(n.As)
			} else {
				fc.addLocal(n.Module)
			}
		case *ast.ImportFrom:
			for i, nm := range n.Names {
				if n.Aliases[i] != "" {
					fc.addLocal(n.Aliases[i])
				} else {
					fc.addLocal(nm)
				}
			}
		}
	}
	walkStmts = func(stmts []ast.Statement) {
		for _, s := range stmts {
			walkStmt(s)
		}
	}
	walkStmts(body)
}

// containsYield reports whether a yield appears anywhere in body
// (not descending into nested function defs), marking the enclosing
// function as a generator per spec.md §4.C.
func containsYield(body []ast.Statement) bool {
	found := false
	var walkStmts func([]ast.Statement)
	var walkStmt func(ast.Statement)
	walkStmt = func(s ast.Statement) {
		if found {
			return
		}
		switch n := s.(type) {
		case *ast.Yield:
			found = true
		case *ast.If:
			walkStmts(n.Then)
			walkStmts(n.Else)
		case *ast.While:
			walkStmts(n.Body)
		case *ast.For:
			walkStmts(n.Body)
		case *ast.Try:
			walkStmts(n.Body)
			for _, h := range n.Handlers {
				walkStmts(h.Body)
			}
			walkStmts(n.Finally)
		}
	}
	walkStmts = func(stmts []ast.Statement) {
		for _, s := range stmts {
			walkStmt(s)
			if found {
				return
			}
		}
	}
	walkStmts(body)
	return found
}

// ---- statements ----

func (fc *funcCompiler) compileStmts(stmts []ast.Statement) {
	if !fc.isModule && fc.locals == nil {
		// already seeded by params; nothing to do
	}
	for _, s := range stmts {
		fc.compileStmt(s)
	}
}

func (fc *funcCompiler) compileStmt(s ast.Statement) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		fc.compileExpr(n.X)
		fc.emit(compile.POP)
	case *ast.Assign:
		fc.compileAssign(n)
	case *ast.AugAssign:
		fc.emitLoad(n.Target.Name)
		fc.compileExpr(n.Value)
		fc.emit(binOpcode(n.Op))
		fc.emitStore(n.Target.Name)
	case *ast.If:
		fc.compileIf(n)
	case *ast.While:
		fc.compileWhile(n)
	case *ast.For:
		fc.compileFor(n)
	case *ast.Break:
		if len(fc.loopStack) == 0 {
			fc.fail(n.Pos(), "'break' outside loop")
		}
		ls := fc.loopStack[len(fc.loopStack)-1]
		fc.unwindTries(ls.tryDepth)
		if ls.isFor {
			fc.emit(compile.POP) // drop the iterator, as FORITER does on exhaustion
		}
		idx := fc.emitA(compile.JUMP, 0)
		ls.breakFixups = append(ls.breakFixups, idx)
	case *ast.Continue:
		if len(fc.loopStack) == 0 {
			fc.fail(n.Pos(), "'continue' outside loop")
		}
		ls := fc.loopStack[len(fc.loopStack)-1]
		fc.unwindTries(ls.tryDepth)
		fc.emitA(compile.JUMP, int32(ls.continueTarget))
	case *ast.Pass:
		// emits nothing, per spec.md §4.C
	case *ast.FuncDef:
		fc.compileFuncDef(n)
	case *ast.Return:
		if n.Value != nil {
			fc.compileExpr(n.Value)
		} else {
			fc.emit(compile.PUSHNONE)
		}
		fc.emit(compile.RETURN)
	case *ast.Yield:
		fc.compileExpr(n.Value)
		fc.emit(compile.YIELD)
		fc.emit(compile.POP)
	case *ast.Raise:
		fc.compileRaise(n)
	case *ast.Try:
		fc.compileTry(n)
	case *ast.Import:
		name := n.As
		if name == "" {
			name = n.Module
		}
		fc.emitStr(compile.IMPORT, n.Module)
		fc.emitStore(name)
	case *ast.ImportFrom:
		fc.emitStrNames(compile.IMPORTFROM, n.Module, n.Names)
		for i := len(n.Names) - 1; i >= 0; i-- {
			name := n.Aliases[i]
			if name == "" {
				name = n.Names[i]
			}
			fc.emitStore(name)
		}
	default:
		fc.fail(s.Pos(), "unsupported statement %T", s)
	}
}

func (fc *funcCompiler) compileAssign(n *ast.Assign) {
	if len(n.Targets) == 1 {
		switch t := n.Targets[0].(type) {
		case *ast.Ident:
			fc.compileExpr(n.Value)
			fc.emitStore(t.Name)
		case *ast.IndexExpr:
			fc.compileExpr(t.X)
			fc.compileExpr(t.Index)
			fc.compileExpr(n.Value)
			fc.emit(compile.SETITEM)
		default:
			fc.fail(n.Pos(), "unsupported assignment target")
		}
		return
	}
	fc.compileExpr(n.Value)
	fc.emitA(compile.UNPACKSEQUENCE, int32(len(n.Targets)))
	for _, t := range n.Targets {
		id, ok := t.(*ast.Ident)
		if !ok {
			fc.fail(n.Pos(), "tuple-unpacking targets must be simple names")
		}
		fc.emitStore(id.Name)
	}
}

func (fc *funcCompiler) compileRaise(n *ast.Raise) {
	kind, ok := compile.LookupExceptionKind(n.Kind)
	if !ok {
		fc.fail(n.Pos(), "unknown exception kind %q", n.Kind)
	}
	if n.Message != nil {
		fc.compileExpr(n.Message)
	} else {
		fc.emitA(compile.PUSHCONST, fc.addConst(""))
	}
	fc.emitA(compile.MAKEEXCEPTION, int32(kind))
	fc.emit(compile.RAISE)
}

func (fc *funcCompiler) compileIf(n *ast.If) {
	fc.compileExpr(n.Cond)
	jf := fc.emitA(compile.JUMPIFFALSE, 0)
	fc.compileStmts(n.Then)
	if len(n.Else) > 0 {
		jEnd := fc.emitA(compile.JUMP, 0)
		fc.patch(jf, fc.here())
		fc.compileStmts(n.Else)
		fc.patch(jEnd, fc.here())
	} else {
		fc.patch(jf, fc.here())
	}
}

// unwindTries emits, innermost first, the PopTry/PopFinally+finally-run
// sequence for every try/finally block opened since depth. A
// break/continue that jumps out of a protected region still has to
// leave the runtime block stack (quickpython/frame.go) exactly as
// balanced as falling off the end of the region would, and spec.md §8
// requires the finally body to run on every exit path including break
// and continue — so each live finally body is compiled again inline
// here rather than skipped.
func (fc *funcCompiler) unwindTries(depth int) {
	for i := len(fc.tryStack) - 1; i >= depth; i-- {
		ts := fc.tryStack[i]
		if ts.hasTry {
			fc.emit(compile.POPTRY)
		}
		if ts.hasFinally {
			fc.emit(compile.POPFINALLY)
			fc.compileStmts(ts.finallyBody)
		}
	}
}

func (fc *funcCompiler) compileWhile(n *ast.While) {
	start := fc.here()
	fc.compileExpr(n.Cond)
	jExit := fc.emitA(compile.JUMPIFFALSE, 0)
	ls := &loopScope{continueTarget: start, tryDepth: len(fc.tryStack)}
	fc.loopStack = append(fc.loopStack, ls)
	fc.compileStmts(n.Body)
	fc.emitA(compile.JUMP, int32(start))
	end := fc.here()
	fc.patch(jExit, end)
	for _, idx := range ls.breakFixups {
		fc.patch(idx, end)
	}
	fc.loopStack = fc.loopStack[:len(fc.loopStack)-1]
}

func (fc *funcCompiler) compileFor(n *ast.For) {
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
	ls := &loopScope{continueTarget: start, tryDepth: len(fc.tryStack), isFor: true}
	fc.loopStack = append(fc.loopStack, ls)
	fc.compileStmts(n.Body)
	fc.emitA(compile.JUMP, int32(start))
	end := fc.here()
	fc.patch(jExit, end)
	for _, idx := range ls.breakFixups {
		fc.patch(idx, end)
	}
	fc.loopStack = fc.loopStack[:len(fc.loopStack)-1]
}

func (fc *funcCompiler) compileFuncDef(n *ast.FuncDef) {
	nested := newFuncCompiler(fc.prog, n.Name, n.Params, n.IsAsync)
	collectLocals(nested, n.Body)
	nested.isGen = containsYield(n.Body)
	nested.compileStmts(n.Body)
	nested.emit(compile.PUSHNONE)
	nested.emit(compile.RETURN)
	fn := nested.finish()
	fc.emitFunc(fn)
	fc.emitStore(n.Name)
}

// compileTry follows spec.md §4.X verbatim: SetupFinally wraps
// SetupTry/handlers, and the normal path emits PopFinally + push-unit +
// jump-to-finally-body + EndFinally so the finally block runs exactly
// once regardless of path and discriminates on stack top. It also
// records each protected region's bounds in fc.catches — the block
// stack built from SetupTry/SetupFinally is still what the VM actually
// unwinds on, but the catch table mirrors it statically for
// Disassemble's catch-table listing.
func (fc *funcCompiler) compileTry(n *ast.Try) {
	var finallySetup, finallyPC0 int
	hasFinally := len(n.Finally) > 0
	hasHandlers := len(n.Handlers) > 0
	if hasFinally {
		finallySetup = fc.emitA(compile.SETUPFINALLY, 0)
		finallyPC0 = fc.here()
	}

	ts := &tryScope{hasFinally: hasFinally, finallyBody: n.Finally}
	fc.tryStack = append(fc.tryStack, ts)

	if hasHandlers {
		ts.hasTry = true
		trySetup := fc.emitA(compile.SETUPTRY, 0)
		bodyPC0 := fc.here()
		fc.compileStmts(n.Body)
		bodyPC1 := fc.here()
		fc.emit(compile.POPTRY)
		ts.hasTry = false // the runtime try-block is already popped once handlers run
		jAfter := fc.emitA(compile.JUMP, 0)

		handlerStart := fc.here()
		fc.patch(trySetup, handlerStart)
		fc.catches = append(fc.catches, compile.Catch{
			PC0: uint32(bodyPC0), PC1: uint32(bodyPC1), StartPC: uint32(handlerStart),
		})

		var afterFixups []int
		var nextFixup = -1
		for _, h := range n.Handlers {
			if nextFixup >= 0 {
				fc.patch(nextFixup, fc.here())
			}
			if h.Kind != "" && h.Kind != "exception" {
				kind, ok := compile.LookupExceptionKind(h.Kind)
				if !ok {
					fc.fail(n.Pos(), "unknown exception kind %q", h.Kind)
				}
				fc.emit(compile.GETEXCEPTIONTYPE)
				fc.emitA(compile.MATCHEXCEPTION, int32(kind))
				nextFixup = fc.emitA(compile.JUMPIFFALSE, 0)
			} else {
				nextFixup = -1
			}
			if h.Name != "" {
				fc.emitStore(h.Name)
			} else {
				fc.emit(compile.POP)
			}
			fc.compileStmts(h.Body)
			afterFixups = append(afterFixups, fc.emitA(compile.JUMP, 0))
		}
		if nextFixup >= 0 {
			fc.patch(nextFixup, fc.here())
			fc.emit(compile.RAISE)
		}
		after := fc.here()
		fc.patch(jAfter, after)
		for _, idx := range afterFixups {
			fc.patch(idx, after)
		}
	} else {
		fc.compileStmts(n.Body)
	}

	fc.tryStack = fc.tryStack[:len(fc.tryStack)-1]

	if hasFinally {
		finallyPC1 := fc.here()
		fc.emit(compile.POPFINALLY)
		fc.emit(compile.PUSHNONE)
		jBody := fc.emitA(compile.JUMP, 0)
		finallyStart := fc.here()
		fc.patch(finallySetup, finallyStart)
		fc.patch(jBody, finallyStart)
		fc.catches = append(fc.catches, compile.Catch{
			PC0: uint32(finallyPC0), PC1: uint32(finallyPC1), StartPC: uint32(finallyStart), Finally: true,
		})
		fc.compileStmts(n.Finally)
		fc.emit(compile.ENDFINALLY)
	}
}

func binOpcode(op string) compile.Opcode {
	if oc, ok := binOps[op]; ok {
		return oc
	}
	panic(&CompileError{Msg: fmt.Sprintf("unknown binary operator %q", op)})
}
