package quickpython

import "github.com/VikingMew/quickpython/internal/compile"

type blockKind int

const (
	blockTry blockKind = iota
	blockFinally
)

// block is a protected-region record, pushed by SETUPTRY/SETUPFINALLY
// and popped by POPTRY/POPFINALLY on the normal path, or consumed by
// the unwinder in propagate when an exception is in flight.
type block struct {
	kind       blockKind
	target     int // handler_ip or finally_ip
	stackDepth int // value-stack depth (relative to frame.base) to truncate to
}

// frame is one activation record. locals are private to the frame;
// the value stack used for expression evaluation is shared globally
// (see Thread.stack) and frame.base marks where this frame's region of
// it begins.
type frame struct {
	fn     *compile.Funcode
	locals []Value
	ip     int
	base   int
	blocks []block
}

func newFrame(fn *compile.Funcode, args []Value, base int) *frame {
	locals := make([]Value, len(fn.Locals))
	for i := range locals {
		locals[i] = NoneValue
	}
	for i, a := range args {
		if i < len(locals) {
			locals[i] = a
		}
	}
	return &frame{fn: fn, locals: locals, base: base}
}
