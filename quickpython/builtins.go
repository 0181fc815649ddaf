package quickpython

import (
	"fmt"
)

// installDefaultBuiltins wires the default builtin allowlist named in
// spec.md §4.M (len, range, int, float, str, print, isinstance, next)
// into c.Globals as Native values, gated by c.cfg.EnabledBuiltins, the
// same "allowlist decides what's predeclared" shape the teacher uses
// for its starlark.StringDict of predeclared names.
func (c *Context) installDefaultBuiltins() {
	all := map[string]NativeFunc{
		"len":        builtinLen,
		"range":      builtinRange,
		"int":        builtinInt,
		"float":      builtinFloat,
		"str":        builtinStr,
		"print":      builtinPrint,
		"isinstance": builtinIsinstance,
		"next":       builtinNext,
	}
	for name, fn := range all {
		if c.cfg.BuiltinEnabled(name) {
			c.Globals[name] = &Native{Name: name, Fn: fn}
		}
	}
}

func builtinLen(t *Thread, args []Value) (Value, *Exception) {
	if len(args) != 1 {
		return nil, NewException(exceptionValue, "len() takes exactly one argument")
	}
	n, exc := lengthOf(args[0])
	if exc != nil {
		return nil, exc
	}
	return Int(n), nil
}

func builtinRange(t *Thread, args []Value) (Value, *Exception) {
	var start, stop, step int32 = 0, 0, 1
	switch len(args) {
	case 1:
		stop = mustInt(args[0])
	case 2:
		start, stop = mustInt(args[0]), mustInt(args[1])
	case 3:
		start, stop, step = mustInt(args[0]), mustInt(args[1]), mustInt(args[2])
		if step == 0 {
			return nil, NewException(exceptionValue, "range() step argument must not be zero")
		}
	default:
		return nil, NewException(exceptionValue, "range() takes 1 to 3 arguments")
	}
	for _, a := range args {
		if _, ok := a.(Int); !ok {
			return nil, NewException(exceptionType, "range() arguments must be integers")
		}
	}
	return &Range{Start: start, Stop: stop, Step: step}, nil
}

func mustInt(v Value) int32 {
	if i, ok := v.(Int); ok {
		return int32(i)
	}
	return 0
}

func builtinInt(t *Thread, args []Value) (Value, *Exception) {
	if len(args) != 1 {
		return nil, NewException(exceptionValue, "int() takes exactly one argument")
	}
	switch x := args[0].(type) {
	case Int:
		return x, nil
	case Float:
		return Int(int32(x)), nil
	case Bool:
		if x {
			return Int(1), nil
		}
		return Int(0), nil
	case String:
		var n int64
		if _, err := fmt.Sscanf(string(x), "%d", &n); err != nil {
			return nil, NewException(exceptionValue, fmt.Sprintf("invalid literal for int(): %s", Repr(x)))
		}
		return Int(int32(n)), nil
	}
	return nil, NewException(exceptionType, fmt.Sprintf("int() argument must be a string or number, not '%s'", args[0].Type()))
}

func builtinFloat(t *Thread, args []Value) (Value, *Exception) {
	if len(args) != 1 {
		return nil, NewException(exceptionValue, "float() takes exactly one argument")
	}
	switch x := args[0].(type) {
	case Float:
		return x, nil
	case Int:
		return Float(x), nil
	case Bool:
		if x {
			return Float(1), nil
		}
		return Float(0), nil
	case String:
		var f float64
		if _, err := fmt.Sscanf(string(x), "%g", &f); err != nil {
			return nil, NewException(exceptionValue, fmt.Sprintf("could not convert string to float: %s", Repr(x)))
		}
		return Float(f), nil
	}
	return nil, NewException(exceptionType, fmt.Sprintf("float() argument must be a string or number, not '%s'", args[0].Type()))
}

func builtinStr(t *Thread, args []Value) (Value, *Exception) {
	if len(args) != 1 {
		return nil, NewException(exceptionValue, "str() takes exactly one argument")
	}
	return String(args[0].String()), nil
}

func builtinPrint(t *Thread, args []Value) (Value, *Exception) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	line := ""
	for i, p := range parts {
		if i > 0 {
			line += " "
		}
		line += p
	}
	fmt.Fprintln(t.ctx.Stdout, line)
	return NoneValue, nil
}

// typeNames covers exactly the ten kinds spec.md §3 names as
// isinstance's domain: int, float, bool, string, list, dict, tuple,
// none, function, module.
var typeNames = map[string]func(Value) bool{
	"int":      func(v Value) bool { _, ok := v.(Int); return ok },
	"float":    func(v Value) bool { _, ok := v.(Float); return ok },
	"bool":     func(v Value) bool { _, ok := v.(Bool); return ok },
	"str":      func(v Value) bool { _, ok := v.(String); return ok },
	"list":     func(v Value) bool { _, ok := v.(*List); return ok },
	"dict":     func(v Value) bool { _, ok := v.(*Dict); return ok },
	"tuple":    func(v Value) bool { _, ok := v.(Tuple); return ok },
	"none":     func(v Value) bool { _, ok := v.(noneType); return ok },
	"function": func(v Value) bool { _, ok := v.(*Function); return ok },
	"module":   func(v Value) bool { _, ok := v.(*Module); return ok },
}

func builtinIsinstance(t *Thread, args []Value) (Value, *Exception) {
	if len(args) != 2 {
		return nil, NewException(exceptionValue, "isinstance() takes exactly two arguments")
	}
	name, ok := args[1].(String)
	if !ok {
		return nil, NewException(exceptionType, "isinstance() second argument must be a type name string")
	}
	check, ok := typeNames[string(name)]
	if !ok {
		return nil, NewException(exceptionValue, fmt.Sprintf("unknown type name '%s'", name))
	}
	return Bool(check(args[0])), nil
}

// builtinNext drives an Iterator one step, per spec.md §4.M's listing
// of `next` among default builtins: an optional second argument
// supplies the value to return on exhaustion instead of raising.
func builtinNext(t *Thread, args []Value) (Value, *Exception) {
	if len(args) < 1 || len(args) > 2 {
		return nil, NewException(exceptionValue, "next() takes 1 or 2 arguments")
	}
	it, ok := args[0].(*Iterator)
	if !ok {
		return nil, NewException(exceptionType, fmt.Sprintf("'%s' object is not an iterator", args[0].Type()))
	}
	v, ok, exc := it.Next()
	if exc != nil {
		return nil, exc
	}
	if !ok {
		if len(args) == 2 {
			return args[1], nil
		}
		return nil, NewException(exceptionValue, "StopIteration")
	}
	return v, nil
}
