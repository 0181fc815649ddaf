package quickpython

import "fmt"

// getItem implements `recv[idx]` for the indexable variants; negative
// indices count from the end, Python-style, per spec.md §4.V.
func getItem(recv, idx Value) (Value, *Exception) {
	switch x := recv.(type) {
	case *List:
		i, exc := normalizeIndex(idx, x.Len())
		if exc != nil {
			return nil, exc
		}
		return x.At(i), nil
	case Tuple:
		i, exc := normalizeIndex(idx, len(x))
		if exc != nil {
			return nil, exc
		}
		return x[i], nil
	case String:
		runes := []rune(string(x))
		i, exc := normalizeIndex(idx, len(runes))
		if exc != nil {
			return nil, exc
		}
		return String(string(runes[i])), nil
	case *Dict:
		if !IsValidKey(idx) {
			return nil, NewException(exceptionType, fmt.Sprintf("unhashable type: '%s'", idx.Type()))
		}
		v, ok := x.Get(idx)
		if !ok {
			return nil, NewException(exceptionKey, fmt.Sprintf("%s", Repr(idx)))
		}
		return v, nil
	case *Module:
		name, ok := idx.(String)
		if !ok {
			return nil, NewException(exceptionType, "module subscript requires a string name")
		}
		v, ok := x.Get(string(name))
		if !ok {
			return nil, NewException(exceptionAttribute, fmt.Sprintf("module '%s' has no attribute '%s'", x.Name, name))
		}
		return v, nil
	}
	return nil, NewException(exceptionType, fmt.Sprintf("'%s' object is not subscriptable", recv.Type()))
}

func setItem(recv, idx, val Value) *Exception {
	switch x := recv.(type) {
	case *List:
		i, exc := normalizeIndex(idx, x.Len())
		if exc != nil {
			return exc
		}
		x.Set(i, val)
		return nil
	case *Dict:
		if !IsValidKey(idx) {
			return NewException(exceptionType, fmt.Sprintf("unhashable type: '%s'", idx.Type()))
		}
		x.Set(idx, val)
		return nil
	}
	return NewException(exceptionType, fmt.Sprintf("'%s' object does not support item assignment", recv.Type()))
}

func normalizeIndex(idx Value, length int) (int, *Exception) {
	i, ok := idx.(Int)
	if !ok {
		return 0, NewException(exceptionType, fmt.Sprintf("indices must be integers, not '%s'", idx.Type()))
	}
	n := int(i)
	if n < 0 {
		n += length
	}
	if n < 0 || n >= length {
		return 0, NewException(exceptionIndex, "index out of range")
	}
	return n, nil
}

// getItemSlice implements `recv[start:stop:step]`, per spec.md §4.V:
// lists and strings support slicing, producing a new list/string.
func getItemSlice(recv Value, sl *Slice) (Value, *Exception) {
	switch x := recv.(type) {
	case *List:
		start, stop, step, exc := resolveSlice(sl, x.Len())
		if exc != nil {
			return nil, exc
		}
		return NewList(sliceValues(x.Slice(), start, stop, step)), nil
	case String:
		runes := []rune(string(x))
		start, stop, step, exc := resolveSlice(sl, len(runes))
		if exc != nil {
			return nil, exc
		}
		out := make([]rune, 0)
		for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
			out = append(out, runes[i])
		}
		return String(string(out)), nil
	case Tuple:
		start, stop, step, exc := resolveSlice(sl, len(x))
		if exc != nil {
			return nil, exc
		}
		return Tuple(sliceValues([]Value(x), start, stop, step)), nil
	}
	return nil, NewException(exceptionType, fmt.Sprintf("'%s' object is not sliceable", recv.Type()))
}

func sliceValues(elems []Value, start, stop, step int) []Value {
	out := make([]Value, 0)
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		out = append(out, elems[i])
	}
	return out
}

func resolveSlice(sl *Slice, length int) (start, stop, step int, exc *Exception) {
	step = 1
	if sl.Step != NoneValue {
		si, ok := sl.Step.(Int)
		if !ok || si == 0 {
			return 0, 0, 0, NewException(exceptionValue, "slice step cannot be zero")
		}
		step = int(si)
	}
	if step > 0 {
		start, stop = 0, length
	} else {
		start, stop = length-1, -1
	}
	if sl.Start != NoneValue {
		if si, ok := sl.Start.(Int); ok {
			start = clampSliceIndex(int(si), length, step > 0)
		}
	}
	if sl.Stop != NoneValue {
		if si, ok := sl.Stop.(Int); ok {
			stop = clampSliceIndex(int(si), length, step > 0)
		}
	}
	return start, stop, step, nil
}

func clampSliceIndex(i, length int, forward bool) int {
	if i < 0 {
		i += length
	}
	if forward {
		if i < 0 {
			i = 0
		}
		if i > length {
			i = length
		}
	} else {
		if i < -1 {
			i = -1
		}
		if i >= length {
			i = length - 1
		}
	}
	return i
}

// lengthOf implements `len`.
func lengthOf(v Value) (int32, *Exception) {
	switch x := v.(type) {
	case *List:
		return int32(x.Len()), nil
	case Tuple:
		return int32(len(x)), nil
	case String:
		return int32(len([]rune(string(x)))), nil
	case *Dict:
		return int32(x.Len()), nil
	}
	return 0, NewException(exceptionType, fmt.Sprintf("object of type '%s' has no len()", v.Type()))
}
