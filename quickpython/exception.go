package quickpython

import (
	"fmt"

	"github.com/VikingMew/quickpython/internal/compile"
)

// Exception is an ordinary value: raising one pushes it onto the
// shared value stack and engages the block-stack unwinder (see
// Thread.propagate), rather than using a Go panic/recover pair.
// This is new relative to the teacher (Starlark has no raise/try/
// except at all); its shape is grounded on the teacher's own
// *EvalError (a message plus a backtrace) and on
// github.com/mna/starlark-go's unfinished Catches.Covers(pc) handler
// test, generalized into the full kind taxonomy spec.md §4.X names.
type Exception struct {
	Kind    compile.ExceptionKind
	Message string
	frames  []string // backtrace, innermost first; populated as the exception unwinds
}

func NewException(kind compile.ExceptionKind, message string) *Exception {
	return &Exception{Kind: kind, Message: message}
}

// Shorthand aliases for the taxonomy spec.md §4.X names, used
// throughout the VM and builtin implementations instead of the longer
// compile.Exception* spellings.
const (
	exceptionTop               = compile.ExceptionTop
	exceptionValue             = compile.ExceptionValue
	exceptionType              = compile.ExceptionType
	exceptionIndex             = compile.ExceptionIndex
	exceptionKey               = compile.ExceptionKey
	exceptionZeroDivision      = compile.ExceptionZeroDivision
	exceptionRuntime           = compile.ExceptionRuntime
	exceptionAttribute         = compile.ExceptionAttribute
	exceptionImport            = compile.ExceptionImport
	exceptionIO                = compile.ExceptionIO
	exceptionIterationViolation = compile.ExceptionIterationViolation
)

// Exported spellings of the same taxonomy, for builtin-module packages
// (modules/json, modules/os, modules/re) that raise engine exceptions
// but live outside this package.
const (
	ExceptionTop                = compile.ExceptionTop
	ExceptionValue              = compile.ExceptionValue
	ExceptionType                = compile.ExceptionType
	ExceptionIndex               = compile.ExceptionIndex
	ExceptionKey                 = compile.ExceptionKey
	ExceptionZeroDivision        = compile.ExceptionZeroDivision
	ExceptionRuntime             = compile.ExceptionRuntime
	ExceptionAttribute           = compile.ExceptionAttribute
	ExceptionImport              = compile.ExceptionImport
	ExceptionIO                  = compile.ExceptionIO
	ExceptionIterationViolation  = compile.ExceptionIterationViolation
)

func (*Exception) Type() string { return "exception" }
func (*Exception) Truth() bool  { return true }

func (e *Exception) String() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Matches reports whether e's kind satisfies a MatchException test for
// expected: the pseudo-top kind matches everything, and every kind
// matches itself.
func (e *Exception) Matches(expected compile.ExceptionKind) bool {
	return expected == compile.ExceptionTop || e.Kind == expected
}

func (e *Exception) Equal(other *Exception) bool {
	return e.Kind == other.Kind && e.Message == other.Message
}

// Backtrace returns the call chain recorded as the exception propagated
// through frames, innermost call first, for the embedding API surface
// named in spec.md §6 (EvalError::backtrace).
func (e *Exception) Backtrace() []string {
	out := make([]string, len(e.frames))
	copy(out, e.frames)
	return out
}

func (e *Exception) pushFrame(name string) {
	e.frames = append(e.frames, name)
}

// EvalError is the Go error returned to the host embedding API when
// program execution ends with an unhandled Exception, mirroring the
// teacher's own *EvalError{Msg, CallStack} shape (starlark/eval.go).
type EvalError struct {
	Exc *Exception
}

func (e *EvalError) Error() string { return e.Exc.String() }

// Backtrace exposes the frame names the exception passed through.
func (e *EvalError) Backtrace() []string { return e.Exc.Backtrace() }
