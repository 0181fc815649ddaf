// Package json provides the engine's builtin `json` module: loads/dumps
// converting between quickpython.Value and Go's encoding/json, exactly
// the codec wiring SPEC_FULL.md §5.3 names. It registers itself with
// quickpython's builtin-module tier from init, the same blank-import-
// to-activate convention the teacher uses for its lib/ extension
// packages (see lib/proto, lib/time's own registration pattern).
package json

import (
	"encoding/json"
	"fmt"

	"github.com/VikingMew/quickpython/quickpython"
)

func init() {
	quickpython.RegisterBuiltinModule("json", newModule)
}

func newModule() *quickpython.Module {
	m := quickpython.NewModule("json")
	m.Members["loads"] = &quickpython.Native{Name: "loads", Fn: loads}
	m.Members["dumps"] = &quickpython.Native{Name: "dumps", Fn: dumps}
	return m
}

func loads(t *quickpython.Thread, args []quickpython.Value) (quickpython.Value, *quickpython.Exception) {
	if len(args) != 1 {
		return nil, quickpython.NewException(quickpython.ExceptionValue, "loads() takes exactly one argument")
	}
	s, ok := args[0].(quickpython.String)
	if !ok {
		return nil, quickpython.NewException(quickpython.ExceptionType, "loads() argument must be a string")
	}
	var decoded interface{}
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return nil, quickpython.NewException(quickpython.ExceptionValue, fmt.Sprintf("invalid JSON: %s", err))
	}
	return fromGo(decoded), nil
}

func dumps(t *quickpython.Thread, args []quickpython.Value) (quickpython.Value, *quickpython.Exception) {
	if len(args) != 1 {
		return nil, quickpython.NewException(quickpython.ExceptionValue, "dumps() takes exactly one argument")
	}
	v, exc := toGo(args[0])
	if exc != nil {
		return nil, exc
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, quickpython.NewException(quickpython.ExceptionValue, fmt.Sprintf("cannot encode value: %s", err))
	}
	return quickpython.String(out), nil
}

func fromGo(v interface{}) quickpython.Value {
	switch x := v.(type) {
	case nil:
		return quickpython.NoneValue
	case bool:
		return quickpython.Bool(x)
	case float64:
		if x == float64(int32(x)) {
			return quickpython.Int(int32(x))
		}
		return quickpython.Float(x)
	case string:
		return quickpython.String(x)
	case []interface{}:
		elems := make([]quickpython.Value, len(x))
		for i, e := range x {
			elems[i] = fromGo(e)
		}
		return quickpython.NewList(elems)
	case map[string]interface{}:
		d := quickpython.NewDict()
		for k, e := range x {
			d.Set(quickpython.String(k), fromGo(e))
		}
		return d
	}
	return quickpython.NoneValue
}

func toGo(v quickpython.Value) (interface{}, *quickpython.Exception) {
	switch x := v.(type) {
	case quickpython.Int:
		return int32(x), nil
	case quickpython.Float:
		return float64(x), nil
	case quickpython.Bool:
		return bool(x), nil
	case quickpython.String:
		return string(x), nil
	case *quickpython.List:
		out := make([]interface{}, x.Len())
		for i := 0; i < x.Len(); i++ {
			e, exc := toGo(x.At(i))
			if exc != nil {
				return nil, exc
			}
			out[i] = e
		}
		return out, nil
	case quickpython.Tuple:
		out := make([]interface{}, len(x))
		for i, e := range x {
			ge, exc := toGo(e)
			if exc != nil {
				return nil, exc
			}
			out[i] = ge
		}
		return out, nil
	case *quickpython.Dict:
		out := make(map[string]interface{}, x.Len())
		for _, k := range x.Keys() {
			ks, ok := k.(quickpython.String)
			if !ok {
				return nil, quickpython.NewException(quickpython.ExceptionType, "json.dumps() requires string dict keys")
			}
			val, _ := x.Get(k)
			gv, exc := toGo(val)
			if exc != nil {
				return nil, exc
			}
			out[string(ks)] = gv
		}
		return out, nil
	}
	if v == quickpython.NoneValue {
		return nil, nil
	}
	return nil, quickpython.NewException(quickpython.ExceptionType, fmt.Sprintf("object of type '%s' is not JSON serializable", v.Type()))
}
