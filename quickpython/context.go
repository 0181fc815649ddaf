package quickpython

import (
	"fmt"
	"io"
	"os"

	"github.com/VikingMew/quickpython/internal/compile"
	"github.com/VikingMew/quickpython/internal/compiler"
	"github.com/VikingMew/quickpython/internal/config"
	"github.com/VikingMew/quickpython/internal/parser"
)

// Context is the embedding façade named in spec.md §6: one set of
// globals, one module registry, and the configuration that shapes
// both. It corresponds to the teacher's top-level *starlark.Thread +
// predeclared-globals pairing, collapsed into a single value since
// this engine has no separate "thread vs. module globals" split.
type Context struct {
	Globals map[string]Value
	Stdout  io.Writer
	cfg     *config.Config

	loaded     map[string]*Module
	builtins   map[string]func() *Module
	extensions map[string]func() *Module
}

// builtinModuleFactories is populated by each modules/* package's
// init() via RegisterBuiltinModule, so the builtin tier of the
// registry (json/os/re) exists without quickpython importing those
// packages directly (they import quickpython, not the other way
// round). A host that never blank-imports modules/* simply sees an
// empty builtin tier.
var builtinModuleFactories = make(map[string]func() *Module)

// RegisterBuiltinModule adds name to the process-wide builtin module
// tier every new Context inherits, distinct from RegisterExtensionModule
// which is per-Context and host-supplied. Called from modules/json,
// modules/os, and modules/re's init functions.
func RegisterBuiltinModule(name string, factory func() *Module) {
	builtinModuleFactories[name] = factory
}

// New creates a Context. A nil cfg uses config.Default().
func New(cfg *config.Config) *Context {
	if cfg == nil {
		cfg = config.Default()
	}
	ctx := &Context{
		Globals:    make(map[string]Value),
		Stdout:     os.Stdout,
		cfg:        cfg,
		loaded:     make(map[string]*Module),
		builtins:   make(map[string]func() *Module),
		extensions: make(map[string]func() *Module),
	}
	for name, factory := range builtinModuleFactories {
		ctx.builtins[name] = factory
	}
	ctx.installDefaultBuiltins()
	return ctx
}

// Get looks up a global by name.
func (c *Context) Get(name string) (Value, bool) {
	v, ok := c.Globals[name]
	return v, ok
}

// Set assigns a global.
func (c *Context) Set(name string, v Value) {
	c.Globals[name] = v
}

// RegisterExtensionModule pre-declares a host-supplied module factory
// under name, importable via `import name` exactly like a builtin
// module.
func (c *Context) RegisterExtensionModule(name string, factory func() *Module) {
	c.extensions[name] = factory
}

// importModule resolves a module by the three-tier registry spec.md
// §4.M describes: already-loaded cache, then builtins, then
// host-registered extensions, else an import error. One Context is
// owned by one Thread for the duration of an Eval (spec.md §5 — no
// concurrent callers), so the loaded-map check-then-populate below
// needs no locking or dedup beyond that.
func (c *Context) importModule(name string) (*Module, *Exception) {
	if m, ok := c.loaded[name]; ok {
		return m, nil
	}
	factory, ok := c.builtins[name]
	if !ok {
		factory, ok = c.extensions[name]
	}
	if !ok {
		return nil, NewException(exceptionImport, fmt.Sprintf("no module named '%s'", name))
	}
	m := factory()
	c.loaded[name] = m
	return m, nil
}

// Eval parses and compiles source under filename, then runs it to
// completion, returning the top-level body's result value.
func (c *Context) Eval(filename, source string) (Value, error) {
	mod, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	prog, err := compiler.Compile(mod, filename)
	if err != nil {
		return nil, err
	}
	return c.EvalBytecode(prog)
}

// EvalBytecode runs an already-compiled Program's top-level body.
func (c *Context) EvalBytecode(prog *compile.Program) (Value, error) {
	t := newThread(c)
	v, exc := t.Run(prog.Toplevel, nil)
	if exc != nil {
		return nil, &EvalError{Exc: exc}
	}
	return v, nil
}
