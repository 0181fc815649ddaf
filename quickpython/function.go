package quickpython

import (
	"fmt"

	"github.com/VikingMew/quickpython/internal/compile"
)

// Function is a compiled, callable value produced by MakeFunction.
type Function struct {
	Code *compile.Funcode
}

func (*Function) Type() string     { return "function" }
func (*Function) Truth() bool      { return true }
func (f *Function) String() string { return fmt.Sprintf("<function %s>", f.Code.Name) }

// NativeFunc is the signature every host-provided builtin or extension
// function implements, per spec.md §6's native function interface: it
// receives the already-evaluated argument values and either returns a
// result or an *Exception to raise.
type NativeFunc func(t *Thread, args []Value) (Value, *Exception)

// Native wraps a NativeFunc as a callable Value.
type Native struct {
	Name string
	Fn   NativeFunc
}

func (*Native) Type() string     { return "builtin_function" }
func (*Native) Truth() bool      { return true }
func (n *Native) String() string { return fmt.Sprintf("<built-in function %s>", n.Name) }

// BoundMethod binds a receiver to one of its container methods so it
// can be passed around as an ordinary callable (e.g. stored in a list
// and called later); CallMethod itself does not go through this path,
// it dispatches directly for efficiency.
type BoundMethod struct {
	Receiver Value
	Name     string
}

func (*BoundMethod) Type() string { return "bound_method" }
func (*BoundMethod) Truth() bool  { return true }
func (b *BoundMethod) String() string {
	return fmt.Sprintf("<bound method %s of %s>", b.Name, b.Receiver.Type())
}

// Module is a shared namespace of exported values, returned by the
// builtin/extension registry and by `import`.
type Module struct {
	Name    string
	Members map[string]Value
}

func NewModule(name string) *Module {
	return &Module{Name: name, Members: make(map[string]Value)}
}

func (*Module) Type() string     { return "module" }
func (*Module) Truth() bool      { return true }
func (m *Module) String() string { return fmt.Sprintf("<module %s>", m.Name) }

func (m *Module) Get(name string) (Value, bool) {
	v, ok := m.Members[name]
	return v, ok
}

// Coroutine is the value an async def call produces: a suspended
// activation that Await drives to completion synchronously (this
// engine has no real concurrency scheduler; async/await is purely
// sequencing sugar, per spec.md §5).
type Coroutine struct {
	Fn   *Function
	Args []Value
}

func (*Coroutine) Type() string     { return "coroutine" }
func (*Coroutine) Truth() bool      { return true }
func (*Coroutine) String() string { return "<coroutine>" }

// AsyncSleep is the marker value an `await`ed sleep builtin produces;
// Await blocks the host goroutine for Seconds before resuming.
type AsyncSleep struct {
	Seconds float64
}

func (*AsyncSleep) Type() string     { return "async_sleep" }
func (*AsyncSleep) Truth() bool      { return true }
func (*AsyncSleep) String() string { return "<async sleep>" }

// Generator is the value a generator-function call produces. It owns
// an independent frame stack and value stack (rather than sharing the
// driving thread's), since a generator can be suspended and later
// resumed from an arbitrarily different, unrelated call site than
// where it was created — a single contiguous shared stack (as for
// ordinary nested calls, see Thread.step's CALL/AWAIT handling) cannot
// represent that without the generator's region staying pinned at a
// fixed depth, which a resumable-anywhere generator cannot guarantee.
type Generator struct {
	fn     *Function
	frames []*frame
	stack  []Value
	done   bool
}

func newGenerator(fn *Function, args []Value) *Generator {
	return &Generator{fn: fn, frames: []*frame{newFrame(fn.Code, args, 0)}}
}

func (*Generator) Type() string     { return "generator" }
func (*Generator) Truth() bool      { return true }
func (*Generator) String() string { return "<generator>" }
