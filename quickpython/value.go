// Package quickpython implements the bytecode VM and embedding façade
// for the Python-syntax scripting engine: a tagged-union value model
// (scalars are Go values compared by Go equality; lists, dicts,
// modules, functions, iterators, exceptions, and coroutines are shared
// heap objects with Go-pointer identity) driving a single dispatch
// loop over a frame stack, a value stack shared across all frames, and
// a block stack for try/except/finally.
//
// The Value interface and its scalar/shared split follow
// github.com/canonical/starlark's starlark/value.go, narrowed to this
// engine's smaller type set (int32 rather than arbitrary-precision
// integers, no Set or Bytes types, dict keys restricted to
// string/int/bool).
package quickpython

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is any value the VM can hold on its stack, in a local slot, or
// in a container. Scalars (Int, Float, Bool, None, String) are Go
// value types compared with ==; shared variants are pointers whose Go
// identity IS the engine's allocation identity.
type Value interface {
	Type() string
	String() string
	Truth() bool
}

// Int is a 32-bit signed integer, per spec.md §7's decision that
// small-integer identity is not a distinguishable concept here: there
// is no boxing to cache, so "is" on two Ints is always value equality.
type Int int32

func (Int) Type() string       { return "int" }
func (v Int) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v Int) Truth() bool      { return v != 0 }

// Float is a 64-bit float.
type Float float64

func (Float) Type() string     { return "float" }
func (v Float) Truth() bool    { return v != 0 }
func (v Float) String() string {
	f := float64(v)
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	if math.IsNaN(f) {
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Bool is a boolean; per spec.md §4.V, identity on booleans is
// value-equality, so no pointer wrapping is needed.
type Bool bool

func (Bool) Type() string     { return "bool" }
func (v Bool) Truth() bool    { return bool(v) }
func (v Bool) String() string {
	if v {
		return "true"
	}
	return "false"
}

// String is an immutable text value.
type String string

func (String) Type() string   { return "string" }
func (v String) Truth() bool  { return len(v) > 0 }
func (v String) String() string { return string(v) }

// Repr renders v the way it would appear nested inside a list/dict/
// tuple str(), per spec.md §4.V ("each element's repr form (strings
// quoted)").
func Repr(v Value) string {
	if s, ok := v.(String); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}

// None is the engine's single unit value.
type noneType struct{}

func (noneType) Type() string   { return "none" }
func (noneType) Truth() bool    { return false }
func (noneType) String() string { return "none" }

// NoneValue is the sole instance of the unit type; identity on it is
// always true since there is exactly one.
var NoneValue Value = noneType{}

// Slice is the operand BuildSlice assembles and GetItemSlice consumes;
// any component may be None (meaning "unspecified").
type Slice struct {
	Start, Stop, Step Value
}

func (*Slice) Type() string   { return "slice" }
func (*Slice) Truth() bool    { return true }
func (s *Slice) String() string {
	return fmt.Sprintf("slice(%s, %s, %s)", s.Start, s.Stop, s.Step)
}

// AsciiCompare orders two strings lexicographically by Unicode scalar
// value, per spec.md §4.V.
func AsciiCompare(a, b string) int {
	return strings.Compare(a, b)
}

func truthy(v Value) bool { return v.Truth() }

// isNumber reports whether v is an Int or a Float, the numeric kinds
// that order against each other under spec.md §4.V's Ordering rule.
func isNumber(v Value) bool {
	switch v.(type) {
	case Int, Float:
		return true
	}
	return false
}

func asFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Float:
		return float64(n), true
	}
	return 0, false
}
