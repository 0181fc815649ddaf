package quickpython

import "fmt"

// Iterator is the shared value GetIter produces and ForIter drives.
// Each container kind gets its own Next implementation; the dispatch
// in GetIter below follows the per-type Iterate() methods of
// github.com/canonical/starlark's list/dict/tuple/string/range values,
// adapted to this engine's version-gated list scheme (see list.go).
type Iterator struct {
	next func() (Value, bool, *Exception)
}

func (*Iterator) Type() string     { return "iterator" }
func (*Iterator) Truth() bool      { return true }
func (*Iterator) String() string { return "<iterator>" }

// Next returns the next value, or ok=false at exhaustion, or a non-nil
// *Exception (e.g. an iteration-violation error) on fault.
func (it *Iterator) Next() (Value, bool, *Exception) { return it.next() }

// Range is the value the `range` builtin constructs.
type Range struct {
	Start, Stop, Step int32
}

func (*Range) Type() string { return "range" }
func (r *Range) Truth() bool {
	return rangeLen(r.Start, r.Stop, r.Step) > 0
}
func (r *Range) String() string {
	return fmt.Sprintf("range(%d, %d, %d)", r.Start, r.Stop, r.Step)
}

func rangeLen(start, stop, step int32) int {
	if step > 0 {
		if stop <= start {
			return 0
		}
		return int((stop-start+step-1)/step)
	}
	if step < 0 {
		if stop >= start {
			return 0
		}
		return int((start-stop-step-1) / -step)
	}
	return 0
}

// GetIter dispatches by value kind, producing the shared Iterator
// value the VM's GETITER opcode pushes. Generator iteration is not
// handled here: a generator's Next must drive the owning Thread's
// resumeGenerator, so Thread.step special-cases *Generator directly
// before falling back to GetIter for every other container kind.
func GetIter(v Value) (*Iterator, *Exception) {
	switch x := v.(type) {
	case *List:
		i := 0
		version := x.Version()
		return &Iterator{next: func() (Value, bool, *Exception) {
			if x.Version() != version {
				return nil, false, NewException(exceptionIterationViolation, "list changed size during iteration")
			}
			if i >= x.Len() {
				return nil, false, nil
			}
			v := x.At(i)
			i++
			return v, true, nil
		}}, nil
	case *Dict:
		keys := x.Keys()
		i := 0
		return &Iterator{next: func() (Value, bool, *Exception) {
			if i >= len(keys) {
				return nil, false, nil
			}
			k := keys[i]
			i++
			return k, true, nil
		}}, nil
	case Tuple:
		i := 0
		return &Iterator{next: func() (Value, bool, *Exception) {
			if i >= len(x) {
				return nil, false, nil
			}
			v := x[i]
			i++
			return v, true, nil
		}}, nil
	case String:
		runes := []rune(string(x))
		i := 0
		return &Iterator{next: func() (Value, bool, *Exception) {
			if i >= len(runes) {
				return nil, false, nil
			}
			v := String(string(runes[i]))
			i++
			return v, true, nil
		}}, nil
	case *Range:
		cur := x.Start
		return &Iterator{next: func() (Value, bool, *Exception) {
			if x.Step > 0 && cur >= x.Stop || x.Step < 0 && cur <= x.Stop {
				return nil, false, nil
			}
			v := Int(cur)
			cur += x.Step
			return v, true, nil
		}}, nil
	}
	return nil, NewException(exceptionType, fmt.Sprintf("'%s' object is not iterable", v.Type()))
}

// Contains implements the `in` operator across the container kinds the
// core defines membership for.
func Contains(container, item Value) (bool, *Exception) {
	switch c := container.(type) {
	case *List:
		for _, e := range c.Slice() {
			if ValuesEqual(e, item) {
				return true, nil
			}
		}
		return false, nil
	case Tuple:
		for _, e := range c {
			if ValuesEqual(e, item) {
				return true, nil
			}
		}
		return false, nil
	case *Dict:
		if !IsValidKey(item) {
			return false, nil
		}
		_, ok := c.Get(item)
		return ok, nil
	case String:
		sub, ok := item.(String)
		if !ok {
			return false, NewException(exceptionType, "'in <string>' requires string as left operand")
		}
		return containsSubstring(string(c), string(sub)), nil
	}
	return false, NewException(exceptionType, fmt.Sprintf("argument of type '%s' is not iterable", container.Type()))
}

func containsSubstring(s, sub string) bool {
	if len(sub) == 0 {
		return true
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
