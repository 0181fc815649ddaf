package quickpython

import "fmt"

// Add implements `+`, per spec.md §4.V: numeric with int/float
// promotion, string concatenation, list concatenation (producing a new
// list), everything else faults.
func Add(a, b Value) (Value, *Exception) {
	switch x := a.(type) {
	case String:
		if y, ok := b.(String); ok {
			return x + y, nil
		}
	case *List:
		if y, ok := b.(*List); ok {
			out := make([]Value, 0, x.Len()+y.Len())
			out = append(out, x.Slice()...)
			out = append(out, y.Slice()...)
			return NewList(out), nil
		}
	}
	if isNumber(a) && isNumber(b) {
		return numericBinOp(a, b, func(x, y int32) int32 { return x + y }, func(x, y float64) float64 { return x + y })
	}
	return nil, typeErrorBinOp("+", a, b)
}

func Sub(a, b Value) (Value, *Exception) {
	if isNumber(a) && isNumber(b) {
		return numericBinOp(a, b, func(x, y int32) int32 { return x - y }, func(x, y float64) float64 { return x - y })
	}
	return nil, typeErrorBinOp("-", a, b)
}

func Mul(a, b Value) (Value, *Exception) {
	if isNumber(a) && isNumber(b) {
		return numericBinOp(a, b, func(x, y int32) int32 { return x * y }, func(x, y float64) float64 { return x * y })
	}
	return nil, typeErrorBinOp("*", a, b)
}

// Div always yields a Float (true division), per spec.md §4.V.
func Div(a, b Value) (Value, *Exception) {
	if !isNumber(a) || !isNumber(b) {
		return nil, typeErrorBinOp("/", a, b)
	}
	bf, _ := asFloat(b)
	if bf == 0 {
		return nil, NewException(exceptionZeroDivision, "division by zero")
	}
	af, _ := asFloat(a)
	return Float(af / bf), nil
}

func Mod(a, b Value) (Value, *Exception) {
	if !isNumber(a) || !isNumber(b) {
		return nil, typeErrorBinOp("%", a, b)
	}
	ai, aInt := a.(Int)
	bi, bInt := b.(Int)
	if aInt && bInt {
		if bi == 0 {
			return nil, NewException(exceptionZeroDivision, "modulo by zero")
		}
		m := ai % bi
		if (m != 0) && ((m < 0) != (bi < 0)) {
			m += bi
		}
		return m, nil
	}
	af, _ := asFloat(a)
	bf, _ := asFloat(b)
	if bf == 0 {
		return nil, NewException(exceptionZeroDivision, "modulo by zero")
	}
	m := af - bf*float64(int64(af/bf))
	if m != 0 && (m < 0) != (bf < 0) {
		m += bf
	}
	return Float(m), nil
}

func Neg(a Value) (Value, *Exception) {
	switch x := a.(type) {
	case Int:
		return -x, nil
	case Float:
		return -x, nil
	}
	return nil, NewException(exceptionType, fmt.Sprintf("bad operand type for unary -: '%s'", a.Type()))
}

func numericBinOp(a, b Value, iop func(int32, int32) int32, fop func(float64, float64) float64) (Value, *Exception) {
	ai, aIsInt := a.(Int)
	bi, bIsInt := b.(Int)
	if aIsInt && bIsInt {
		return Int(iop(int32(ai), int32(bi))), nil
	}
	af, _ := asFloat(a)
	bf, _ := asFloat(b)
	return Float(fop(af, bf)), nil
}

func typeErrorBinOp(op string, a, b Value) *Exception {
	return NewException(exceptionType, fmt.Sprintf("unsupported operand type(s) for %s: '%s' and '%s'", op, a.Type(), b.Type()))
}

// Compare implements the ordering operators; per spec.md §4.V only
// same-kind numbers (with promotion) and string-to-string are ordered.
func Compare(op string, a, b Value) (Value, *Exception) {
	if isNumber(a) && isNumber(b) {
		af, _ := asFloat(a)
		bf, _ := asFloat(b)
		return Bool(compareOrdered(op, af < bf, af == bf)), nil
	}
	if as, ok := a.(String); ok {
		if bs, ok := b.(String); ok {
			c := AsciiCompare(string(as), string(bs))
			return Bool(compareOrdered(op, c < 0, c == 0)), nil
		}
	}
	return nil, NewException(exceptionType, fmt.Sprintf("'%s' not supported between instances of '%s' and '%s'", op, a.Type(), b.Type()))
}

func compareOrdered(op string, less, equal bool) bool {
	switch op {
	case "<":
		return less
	case "<=":
		return less || equal
	case ">":
		return !less && !equal
	case ">=":
		return !less
	}
	return false
}
