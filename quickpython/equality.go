package quickpython

// ValuesEqual implements `==` per spec.md §4.V: same-variant content
// comparison, int/float promotion, recursive structural comparison for
// list/tuple/dict, and false for dissimilar variants (never a fault).
func ValuesEqual(a, b Value) bool {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return x == y
		case Float:
			return float64(x) == float64(y)
		}
		return false
	case Float:
		switch y := b.(type) {
		case Int:
			return float64(x) == float64(y)
		case Float:
			return x == y
		}
		return false
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case noneType:
		_, ok := b.(noneType)
		return ok
	case *List:
		y, ok := b.(*List)
		return ok && x.Equal(y)
	case Tuple:
		y, ok := b.(Tuple)
		return ok && x.Equal(y)
	case *Dict:
		y, ok := b.(*Dict)
		return ok && x.Equal(y)
	case *Exception:
		y, ok := b.(*Exception)
		return ok && x.Equal(y)
	}
	// Shared reference variants (function, module, iterator, native,
	// bound method, coroutine) compare by Go pointer identity, which is
	// also their notion of equality absent a more specific rule.
	return a == b
}

// Identical implements `is`/`is not` per spec.md §4.V: allocation
// identity for shared variants, true for the single unit value,
// value-equality for bool/int/string, false across dissimilar variants.
func Identical(a, b Value) bool {
	switch x := a.(type) {
	case noneType:
		_, ok := b.(noneType)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Tuple:
		// Tuple is represented as a Go value type ([]Value), not a
		// pointer, so it has no allocation identity to compare by; two
		// tuples are "is"-identical here iff they are "=="-equal. This
		// departs from treating tuple as an identity-bearing shared
		// variant and is recorded in DESIGN.md.
		y, ok := b.(Tuple)
		return ok && x.Equal(y)
	case *List:
		y, ok := b.(*List)
		return ok && x == y
	case *Dict:
		y, ok := b.(*Dict)
		return ok && x == y
	case *Iterator:
		y, ok := b.(*Iterator)
		return ok && x == y
	case *Module:
		y, ok := b.(*Module)
		return ok && x == y
	case *Native:
		y, ok := b.(*Native)
		return ok && x == y
	case *Function:
		y, ok := b.(*Function)
		return ok && x == y
	}
	return false
}
