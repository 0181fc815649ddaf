// interp.go is the VM's dispatch loop: a single per-instruction step
// function driving whatever frame is on top of the shared frame stack,
// with the block stack consumed by propagate for try/except/finally
// unwinding. The dispatch-loop shape (a big opcode switch advancing an
// instruction pointer) follows
// github.com/canonical/starlark's starlark/interp.go; the unwinder
// generalizes the Catches.Covers(pc)/RUNDEFER sketch from
// github.com/mna/starlark-go's trimmed interp.go fragment into the
// full SetupTry/SetupFinally/Raise mechanism spec.md §4.X describes.
package quickpython

import (
	"fmt"
	"strings"
	"time"

	"github.com/VikingMew/quickpython/internal/compile"
)

// Thread is one execution context: a shared value stack and frame
// stack, plus a back-reference to the owning Context for globals and
// the module registry.
type Thread struct {
	ctx          *Context
	stack        []Value
	frames       []*frame
	pendingYield Value
	steps        int64
}

type stepResult int

const (
	stepContinue stepResult = iota
	stepYielded
)

func newThread(ctx *Context) *Thread {
	return &Thread{ctx: ctx}
}

// Run executes fn to completion (including any nested calls it makes)
// and returns its result, or the *Exception that escaped unhandled.
func (t *Thread) Run(fn *compile.Funcode, args []Value) (Value, *Exception) {
	base := len(t.stack)
	t.frames = append(t.frames, newFrame(fn, args, base))
	depth0 := len(t.frames) - 1
	for len(t.frames) > depth0 {
		res, exc := t.step()
		if exc != nil {
			if !t.propagate(exc, depth0) {
				return nil, exc
			}
			continue
		}
		if res == stepYielded {
			return nil, NewException(exceptionRuntime, "yield outside generator iteration")
		}
	}
	if len(t.stack) > base {
		v := t.stack[len(t.stack)-1]
		t.stack = t.stack[:base]
		return v, nil
	}
	return NoneValue, nil
}

func (t *Thread) resumeGenerator(g *Generator) (Value, bool, *Exception) {
	if g.done {
		return nil, false, nil
	}
	savedFrames, savedStack := t.frames, t.stack
	t.frames, t.stack = g.frames, g.stack
	defer func() {
		g.frames, g.stack = t.frames, t.stack
		t.frames, t.stack = savedFrames, savedStack
	}()
	for len(t.frames) > 0 {
		res, exc := t.step()
		if exc != nil {
			if !t.propagate(exc, 0) {
				g.done = true
				return nil, false, exc
			}
			continue
		}
		if res == stepYielded {
			return t.pendingYield, true, nil
		}
	}
	g.done = true
	return nil, false, nil
}

func (t *Thread) top() *frame { return t.frames[len(t.frames)-1] }

func (t *Thread) push(v Value) { t.stack = append(t.stack, v) }

func (t *Thread) pop() Value {
	v := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	return v
}

func (t *Thread) peek() Value { return t.stack[len(t.stack)-1] }

func (t *Thread) popN(n int32) []Value {
	if n == 0 {
		return nil
	}
	out := make([]Value, n)
	copy(out, t.stack[len(t.stack)-int(n):])
	t.stack = t.stack[:len(t.stack)-int(n)]
	return out
}

// propagate walks the block stack (see spec.md §4.X) looking for a
// handler; it returns true if dispatch should continue (a handler or
// finally block was engaged), false if exc has escaped the frames
// above floor and must be reported to the caller of Run/resumeGenerator.
func (t *Thread) propagate(exc *Exception, floor int) bool {
	for len(t.frames) > floor {
		f := t.top()
		if len(f.blocks) > 0 {
			blk := f.blocks[len(f.blocks)-1]
			f.blocks = f.blocks[:len(f.blocks)-1]
			t.stack = t.stack[:f.base+blk.stackDepth]
			t.push(exc)
			f.ip = blk.target
			return true
		}
		exc.pushFrame(f.fn.Name)
		t.stack = t.stack[:f.base]
		t.frames = t.frames[:len(t.frames)-1]
	}
	return false
}

// step executes exactly one instruction of the top frame.
func (t *Thread) step() (stepResult, *Exception) {
	if t.ctx.cfg.MaxSteps > 0 {
		t.steps++
		if t.steps > t.ctx.cfg.MaxSteps {
			return stepContinue, NewException(exceptionRuntime, "step budget exceeded")
		}
	}
	f := t.top()
	if f.ip >= len(f.fn.Code) {
		return t.doReturn(NoneValue), nil
	}
	ins := f.fn.Code[f.ip]
	switch ins.Op {
	case compile.NOP:
		f.ip++
	case compile.POP:
		t.pop()
		f.ip++
	case compile.DUP:
		t.push(t.peek())
		f.ip++
	case compile.PUSHNONE:
		t.push(NoneValue)
		f.ip++
	case compile.PUSHTRUE:
		t.push(Bool(true))
		f.ip++
	case compile.PUSHFALSE:
		t.push(Bool(false))
		f.ip++
	case compile.PUSHCONST:
		t.push(constToValue(f.fn.Consts[ins.A]))
		f.ip++

	case compile.ADD, compile.SUB, compile.MUL, compile.DIV, compile.MOD:
		b, a := t.pop(), t.pop()
		v, exc := arith(ins.Op, a, b)
		if exc != nil {
			return stepContinue, exc
		}
		t.push(v)
		f.ip++
	case compile.NEG:
		v, exc := Neg(t.pop())
		if exc != nil {
			return stepContinue, exc
		}
		t.push(v)
		f.ip++
	case compile.NOT:
		t.push(Bool(!t.pop().Truth()))
		f.ip++

	case compile.EQ:
		b, a := t.pop(), t.pop()
		t.push(Bool(ValuesEqual(a, b)))
		f.ip++
	case compile.NE:
		b, a := t.pop(), t.pop()
		t.push(Bool(!ValuesEqual(a, b)))
		f.ip++
	case compile.LT, compile.LE, compile.GT, compile.GE:
		b, a := t.pop(), t.pop()
		v, exc := Compare(compareSymbols[ins.Op], a, b)
		if exc != nil {
			return stepContinue, exc
		}
		t.push(v)
		f.ip++
	case compile.IS:
		b, a := t.pop(), t.pop()
		t.push(Bool(Identical(a, b)))
		f.ip++
	case compile.ISNOT:
		b, a := t.pop(), t.pop()
		t.push(Bool(!Identical(a, b)))
		f.ip++

	case compile.BUILDSLICE:
		step_, stop, start := t.pop(), t.pop(), t.pop()
		t.push(&Slice{Start: start, Stop: stop, Step: step_})
		f.ip++
	case compile.GETITEM:
		idx, recv := t.pop(), t.pop()
		v, exc := getItem(recv, idx)
		if exc != nil {
			return stepContinue, exc
		}
		t.push(v)
		f.ip++
	case compile.SETITEM:
		val, idx, recv := t.pop(), t.pop(), t.pop()
		if exc := setItem(recv, idx, val); exc != nil {
			return stepContinue, exc
		}
		f.ip++
	case compile.GETITEMSLICE:
		sl, recv := t.pop(), t.pop()
		v, exc := getItemSlice(recv, sl.(*Slice))
		if exc != nil {
			return stepContinue, exc
		}
		t.push(v)
		f.ip++
	case compile.CONTAINS:
		item, recv := t.pop(), t.pop()
		ok, exc := Contains(recv, item)
		if exc != nil {
			return stepContinue, exc
		}
		t.push(Bool(ok))
		f.ip++
	case compile.NOTCONTAINS:
		item, recv := t.pop(), t.pop()
		ok, exc := Contains(recv, item)
		if exc != nil {
			return stepContinue, exc
		}
		t.push(Bool(!ok))
		f.ip++
	case compile.LEN:
		v, exc := lengthOf(t.pop())
		if exc != nil {
			return stepContinue, exc
		}
		t.push(Int(v))
		f.ip++

	case compile.GETITER:
		v := t.pop()
		if g, ok := v.(*Generator); ok {
			t.push(&Iterator{next: func() (Value, bool, *Exception) {
				return t.resumeGenerator(g)
			}})
			f.ip++
			break
		}
		it, exc := GetIter(v)
		if exc != nil {
			return stepContinue, exc
		}
		t.push(it)
		f.ip++
	case compile.FORITER:
		it := t.peek().(*Iterator)
		v, ok, exc := it.Next()
		if exc != nil {
			return stepContinue, exc
		}
		if !ok {
			t.pop()
			f.ip = int(ins.A)
			return stepContinue, nil
		}
		t.push(v)
		f.ip++

	case compile.GETLOCAL:
		t.push(f.locals[ins.A])
		f.ip++
	case compile.SETLOCAL:
		f.locals[ins.A] = t.pop()
		f.ip++
	case compile.GETGLOBAL:
		v, ok := t.ctx.Get(ins.Str)
		if !ok {
			return stepContinue, NewException(exceptionRuntime, fmt.Sprintf("name '%s' is not defined", ins.Str))
		}
		t.push(v)
		f.ip++
	case compile.SETGLOBAL:
		t.ctx.Set(ins.Str, t.pop())
		f.ip++

	case compile.JUMP:
		f.ip = int(ins.A)
	case compile.JUMPIFFALSE:
		if !t.pop().Truth() {
			f.ip = int(ins.A)
		} else {
			f.ip++
		}
	case compile.JUMPIFFALSEORPOP:
		if !t.peek().Truth() {
			f.ip = int(ins.A)
		} else {
			t.pop()
			f.ip++
		}
	case compile.JUMPIFTRUEORPOP:
		if t.peek().Truth() {
			f.ip = int(ins.A)
		} else {
			t.pop()
			f.ip++
		}

	case compile.BUILDLIST:
		t.push(NewList(t.popN(ins.A)))
		f.ip++
	case compile.BUILDTUPLE:
		t.push(Tuple(t.popN(ins.A)))
		f.ip++
	case compile.BUILDDICT:
		items := t.popN(ins.A * 2)
		d := NewDict()
		for i := 0; i < len(items); i += 2 {
			if !IsValidKey(items[i]) {
				return stepContinue, NewException(exceptionType, fmt.Sprintf("unhashable dict key type '%s'", items[i].Type()))
			}
			d.Set(items[i], items[i+1])
		}
		t.push(d)
		f.ip++

	case compile.UNPACKSEQUENCE:
		seq, exc := toSlice(t.pop())
		if exc != nil {
			return stepContinue, exc
		}
		if len(seq) != int(ins.A) {
			return stepContinue, NewException(exceptionValue, fmt.Sprintf("expected %d values to unpack, got %d", ins.A, len(seq)))
		}
		for i := len(seq) - 1; i >= 0; i-- {
			t.push(seq[i])
		}
		f.ip++

	case compile.MAKEFUNCTION:
		t.push(&Function{Code: ins.Func})
		f.ip++

	case compile.CALL:
		args := t.popN(ins.A)
		callee := t.pop()
		f.ip++
		if exc := t.call(callee, args); exc != nil {
			return stepContinue, exc
		}

	case compile.CALLMETHOD:
		args := t.popN(ins.A)
		recv := t.pop()
		f.ip++
		v, exc := t.callMethod(recv, ins.Str, args)
		if exc != nil {
			return stepContinue, exc
		}
		t.push(v)

	case compile.GETATTR:
		recv := t.pop()
		v, exc := t.getAttr(recv, ins.Str)
		if exc != nil {
			return stepContinue, exc
		}
		t.push(v)
		f.ip++

	case compile.RETURN:
		return t.doReturn(t.pop()), nil

	case compile.AWAIT:
		v := t.pop()
		f.ip++
		switch x := v.(type) {
		case *Coroutine:
			code := x.Fn.Code
			if len(x.Args) != code.NumParams {
				return stepContinue, NewException(exceptionValue, fmt.Sprintf("%s() takes %d arguments but %d were given", code.Name, code.NumParams, len(x.Args)))
			}
			t.frames = append(t.frames, newFrame(code, x.Args, len(t.stack)))
		case *AsyncSleep:
			time.Sleep(time.Duration(x.Seconds * float64(time.Second)))
			t.push(NoneValue)
		default:
			return stepContinue, NewException(exceptionType, fmt.Sprintf("object %s is not awaitable", v.Type()))
		}

	case compile.YIELD:
		v := t.pop()
		f.ip++
		// This engine has no generator.send(); the statement-level
		// `yield expr` discards whatever value resuming would produce
		// (see compiler.go's Yield case, which follows YIELD with POP).
		// Push a placeholder now so that POP has something to consume
		// once this frame resumes.
		t.push(NoneValue)
		t.pendingYield = v
		return stepYielded, nil

	case compile.SETUPTRY:
		f.blocks = append(f.blocks, block{kind: blockTry, target: int(ins.A), stackDepth: len(t.stack) - f.base})
		f.ip++
	case compile.SETUPFINALLY:
		f.blocks = append(f.blocks, block{kind: blockFinally, target: int(ins.A), stackDepth: len(t.stack) - f.base})
		f.ip++
	case compile.POPTRY, compile.POPFINALLY:
		f.blocks = f.blocks[:len(f.blocks)-1]
		f.ip++
	case compile.ENDFINALLY:
		top := t.pop()
		if exc, ok := top.(*Exception); ok {
			return stepContinue, exc
		}
		f.ip++
	case compile.RAISE:
		exc := t.pop().(*Exception)
		return stepContinue, exc
	case compile.MAKEEXCEPTION:
		msg := t.pop()
		t.push(NewException(compile.ExceptionKind(ins.A), valueToMessage(msg)))
		f.ip++
	case compile.GETEXCEPTIONTYPE:
		exc := t.peek().(*Exception)
		t.push(Int(int32(exc.Kind)))
		f.ip++
	case compile.MATCHEXCEPTION:
		kind := t.pop().(Int)
		t.push(Bool(ins.A == int32(exceptionTop) || int32(kind) == ins.A))
		f.ip++

	case compile.IMPORT:
		m, exc := t.ctx.importModule(ins.Str)
		if exc != nil {
			return stepContinue, exc
		}
		t.push(m)
		f.ip++
	case compile.IMPORTFROM:
		m, exc := t.ctx.importModule(ins.Str)
		if exc != nil {
			return stepContinue, exc
		}
		// Pushed ascending so that the last-pushed (topmost) value is
		// for Names[len-1], matching compileStmt's store loop which
		// emits stores in descending index order (so the first store
		// executed, popping the top of stack, targets Names[len-1]).
		for i := 0; i < len(ins.Names); i++ {
			v, ok := m.Get(ins.Names[i])
			if !ok {
				return stepContinue, NewException(exceptionImport, fmt.Sprintf("cannot import name '%s' from '%s'", ins.Names[i], ins.Str))
			}
			t.push(v)
		}
		f.ip++

	case compile.PRINT:
		args := t.popN(ins.A)
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		fmt.Fprintln(t.ctx.Stdout, strings.Join(parts, " "))
		t.push(NoneValue)
		f.ip++
	case compile.FORMATSTRING:
		args := t.popN(ins.A)
		var sb strings.Builder
		for _, a := range args {
			sb.WriteString(a.String())
		}
		t.push(String(sb.String()))
		f.ip++

	default:
		return stepContinue, NewException(exceptionRuntime, fmt.Sprintf("unimplemented opcode %s", ins.Op))
	}
	return stepContinue, nil
}

// doReturn pops the current frame, propagating v to the caller; it
// reports stepYielded's sibling state by simply returning stepContinue
// since the loop's driving condition (len(frames) compared to a fixed
// floor) handles frame-stack shrinkage uniformly for Run and
// resumeGenerator alike.
func (t *Thread) doReturn(v Value) stepResult {
	f := t.top()
	t.stack = t.stack[:f.base]
	t.frames = t.frames[:len(t.frames)-1]
	t.push(v)
	return stepContinue
}

func (t *Thread) call(callee Value, args []Value) *Exception {
	switch fn := callee.(type) {
	case *Native:
		v, exc := fn.Fn(t, args)
		if exc != nil {
			return exc
		}
		t.push(v)
		return nil
	case *BoundMethod:
		v, exc := t.callMethod(fn.Receiver, fn.Name, args)
		if exc != nil {
			return exc
		}
		t.push(v)
		return nil
	case *Function:
		if fn.Code.IsAsync {
			t.push(&Coroutine{Fn: fn, Args: args})
			return nil
		}
		if fn.Code.IsGenerator {
			t.push(newGenerator(fn, args))
			return nil
		}
		if len(args) != fn.Code.NumParams {
			return NewException(exceptionValue, fmt.Sprintf("%s() takes %d arguments but %d were given", fn.Code.Name, fn.Code.NumParams, len(args)))
		}
		t.frames = append(t.frames, newFrame(fn.Code, args, len(t.stack)))
		return nil
	}
	return NewException(exceptionType, fmt.Sprintf("'%s' object is not callable", callee.Type()))
}

var compareSymbols = map[compile.Opcode]string{
	compile.LT: "<", compile.LE: "<=", compile.GT: ">", compile.GE: ">=",
}

func arith(op compile.Opcode, a, b Value) (Value, *Exception) {
	switch op {
	case compile.ADD:
		return Add(a, b)
	case compile.SUB:
		return Sub(a, b)
	case compile.MUL:
		return Mul(a, b)
	case compile.DIV:
		return Div(a, b)
	case compile.MOD:
		return Mod(a, b)
	}
	panic("unreachable")
}

func constToValue(c compile.Value) Value {
	switch v := c.(type) {
	case int32:
		return Int(v)
	case float64:
		return Float(v)
	case string:
		return String(v)
	}
	return NoneValue
}

func valueToMessage(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}
	return v.String()
}

func toSlice(v Value) ([]Value, *Exception) {
	switch x := v.(type) {
	case *List:
		return x.Slice(), nil
	case Tuple:
		return []Value(x), nil
	}
	return nil, NewException(exceptionType, fmt.Sprintf("cannot unpack non-sequence '%s'", v.Type()))
}
