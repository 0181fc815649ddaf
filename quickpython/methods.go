package quickpython

import (
	"fmt"
	"strings"
)

// callMethod implements CALLMETHOD: spec.md §4.VM specifies that every
// `recv.name(args)` call — list/dict/string/tuple built-in methods and
// module-attribute function calls alike — compiles to this one
// instruction, so dispatch by receiver kind lives here rather than in
// a generic GetAttr-then-Call path.
func (t *Thread) callMethod(recv Value, name string, args []Value) (Value, *Exception) {
	switch x := recv.(type) {
	case *List:
		return callListMethod(x, name, args)
	case *Dict:
		return callDictMethod(x, name, args)
	case String:
		return callStringMethod(x, name, args)
	case Tuple:
		return callTupleMethod(x, name, args)
	case *Module:
		v, ok := x.Get(name)
		if !ok {
			return nil, NewException(exceptionAttribute, fmt.Sprintf("module '%s' has no attribute '%s'", x.Name, name))
		}
		exc := t.call(v, args)
		if exc != nil {
			return nil, exc
		}
		return t.pop(), nil
	}
	return nil, NewException(exceptionAttribute, fmt.Sprintf("'%s' object has no attribute '%s'", recv.Type(), name))
}

// getAttr implements GETATTR: plain attribute reads (not immediately
// called) on modules, used for `import m; f = m.func_name`-style
// aliasing and for exposing module constants.
func (t *Thread) getAttr(recv Value, name string) (Value, *Exception) {
	m, ok := recv.(*Module)
	if !ok {
		return nil, NewException(exceptionAttribute, fmt.Sprintf("'%s' object has no attribute '%s'", recv.Type(), name))
	}
	v, ok := m.Get(name)
	if !ok {
		return nil, NewException(exceptionAttribute, fmt.Sprintf("module '%s' has no attribute '%s'", m.Name, name))
	}
	return v, nil
}

func callListMethod(l *List, name string, args []Value) (Value, *Exception) {
	switch name {
	case "append":
		if len(args) != 1 {
			return nil, NewException(exceptionValue, "append() takes exactly one argument")
		}
		l.Append(args[0])
		return NoneValue, nil
	case "pop":
		if len(args) == 0 {
			v, ok := l.Pop()
			if !ok {
				return nil, NewException(exceptionIndex, "pop from empty list")
			}
			return v, nil
		}
		if len(args) == 1 {
			i, exc := normalizeIndex(args[0], l.Len())
			if exc != nil {
				return nil, exc
			}
			return l.RemoveAt(i), nil
		}
		return nil, NewException(exceptionValue, "pop() takes at most one argument")
	case "count":
		if len(args) != 1 {
			return nil, NewException(exceptionValue, "count() takes exactly one argument")
		}
		n := 0
		for _, e := range l.Slice() {
			if ValuesEqual(e, args[0]) {
				n++
			}
		}
		return Int(n), nil
	case "index":
		if len(args) != 1 {
			return nil, NewException(exceptionValue, "index() takes exactly one argument")
		}
		for i, e := range l.Slice() {
			if ValuesEqual(e, args[0]) {
				return Int(i), nil
			}
		}
		return nil, NewException(exceptionValue, fmt.Sprintf("%s is not in list", Repr(args[0])))
	case "extend":
		if len(args) != 1 {
			return nil, NewException(exceptionValue, "extend() takes exactly one argument")
		}
		items, exc := toSlice(args[0])
		if exc != nil {
			return nil, exc
		}
		for _, v := range items {
			l.Append(v)
		}
		return NoneValue, nil
	case "clear":
		l.Clear()
		return NoneValue, nil
	case "reverse":
		l.Reverse()
		return NoneValue, nil
	}
	return nil, NewException(exceptionAttribute, fmt.Sprintf("'list' object has no attribute '%s'", name))
}

func callDictMethod(d *Dict, name string, args []Value) (Value, *Exception) {
	switch name {
	case "keys":
		if len(args) != 0 {
			return nil, NewException(exceptionValue, "keys() takes no arguments")
		}
		return NewList(d.Keys()), nil
	case "values":
		if len(args) != 0 {
			return nil, NewException(exceptionValue, "values() takes no arguments")
		}
		keys := d.Keys()
		vals := make([]Value, len(keys))
		for i, k := range keys {
			vals[i], _ = d.Get(k)
		}
		return NewList(vals), nil
	case "items":
		if len(args) != 0 {
			return nil, NewException(exceptionValue, "items() takes no arguments")
		}
		keys := d.Keys()
		pairs := make([]Value, len(keys))
		for i, k := range keys {
			v, _ := d.Get(k)
			pairs[i] = Tuple{k, v}
		}
		return NewList(pairs), nil
	case "get":
		if len(args) < 1 || len(args) > 2 {
			return nil, NewException(exceptionValue, "get() takes 1 or 2 arguments")
		}
		if !IsValidKey(args[0]) {
			return nil, NewException(exceptionType, fmt.Sprintf("unhashable type: '%s'", args[0].Type()))
		}
		v, ok := d.Get(args[0])
		if ok {
			return v, nil
		}
		if len(args) == 2 {
			return args[1], nil
		}
		return NoneValue, nil
	case "pop":
		if len(args) < 1 || len(args) > 2 {
			return nil, NewException(exceptionValue, "pop() takes 1 or 2 arguments")
		}
		if v, ok := d.Get(args[0]); ok {
			d.deleteKey(args[0])
			return v, nil
		}
		if len(args) == 2 {
			return args[1], nil
		}
		return nil, NewException(exceptionKey, Repr(args[0]))
	}
	return nil, NewException(exceptionAttribute, fmt.Sprintf("'dict' object has no attribute '%s'", name))
}

func callTupleMethod(x Tuple, name string, args []Value) (Value, *Exception) {
	switch name {
	case "count":
		if len(args) != 1 {
			return nil, NewException(exceptionValue, "count() takes exactly one argument")
		}
		n := 0
		for _, e := range x {
			if ValuesEqual(e, args[0]) {
				n++
			}
		}
		return Int(n), nil
	case "index":
		if len(args) != 1 {
			return nil, NewException(exceptionValue, "index() takes exactly one argument")
		}
		for i, e := range x {
			if ValuesEqual(e, args[0]) {
				return Int(i), nil
			}
		}
		return nil, NewException(exceptionValue, fmt.Sprintf("%s is not in tuple", Repr(args[0])))
	}
	return nil, NewException(exceptionAttribute, fmt.Sprintf("'tuple' object has no attribute '%s'", name))
}

func callStringMethod(s String, name string, args []Value) (Value, *Exception) {
	str := string(s)
	switch name {
	case "split":
		sep := ""
		if len(args) == 1 {
			a, ok := args[0].(String)
			if !ok {
				return nil, NewException(exceptionType, "split() separator must be a string")
			}
			sep = string(a)
		} else if len(args) != 0 {
			return nil, NewException(exceptionValue, "split() takes 0 or 1 arguments")
		}
		var parts []string
		if sep == "" {
			parts = strings.Fields(str)
		} else {
			parts = strings.Split(str, sep)
		}
		out := make([]Value, len(parts))
		for i, p := range parts {
			out[i] = String(p)
		}
		return NewList(out), nil
	case "strip":
		return String(strings.TrimSpace(str)), nil
	case "lower":
		return String(strings.ToLower(str)), nil
	case "upper":
		return String(strings.ToUpper(str)), nil
	case "startswith":
		if len(args) != 1 {
			return nil, NewException(exceptionValue, "startswith() takes exactly one argument")
		}
		p, ok := args[0].(String)
		if !ok {
			return nil, NewException(exceptionType, "startswith() argument must be a string")
		}
		return Bool(strings.HasPrefix(str, string(p))), nil
	case "endswith":
		if len(args) != 1 {
			return nil, NewException(exceptionValue, "endswith() takes exactly one argument")
		}
		p, ok := args[0].(String)
		if !ok {
			return nil, NewException(exceptionType, "endswith() argument must be a string")
		}
		return Bool(strings.HasSuffix(str, string(p))), nil
	case "replace":
		if len(args) != 2 {
			return nil, NewException(exceptionValue, "replace() takes exactly two arguments")
		}
		old, ok1 := args[0].(String)
		new_, ok2 := args[1].(String)
		if !ok1 || !ok2 {
			return nil, NewException(exceptionType, "replace() arguments must be strings")
		}
		return String(strings.ReplaceAll(str, string(old), string(new_))), nil
	case "join":
		if len(args) != 1 {
			return nil, NewException(exceptionValue, "join() takes exactly one argument")
		}
		items, exc := toSlice(args[0])
		if exc != nil {
			return nil, exc
		}
		parts := make([]string, len(items))
		for i, v := range items {
			sv, ok := v.(String)
			if !ok {
				return nil, NewException(exceptionType, "join() sequence item is not a string")
			}
			parts[i] = string(sv)
		}
		return String(strings.Join(parts, str)), nil
	}
	return nil, NewException(exceptionAttribute, fmt.Sprintf("'str' object has no attribute '%s'", name))
}
