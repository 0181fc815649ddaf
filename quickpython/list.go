package quickpython

import "strings"

// List is a shared, mutable sequence. Its version counter is bumped by
// every structural mutation (append, pop, indexed set, sort-in-place
// if ever added) and compared against the value an Iterator captured
// at GetIter time: a mismatch faults with an iteration-violation error
// at the next ForIter step.
//
// This is a deliberate departure from the teacher's own scheme
// (github.com/canonical/starlark's *List carries an `itercount int`
// incremented while ANY iterator is live and checked only at mutation
// time, forbidding mutation-during-iteration outright). spec.md §3
// invariant 3 and §8 instead require that *stale* iteration be
// detectable without forbidding mutation outright, which a monotonic
// version counter expresses more directly than a live-iterator count.
type List struct {
	elems   []Value
	version uint64
}

func NewList(elems []Value) *List { return &List{elems: elems} }

func (*List) Type() string { return "list" }
func (l *List) Truth() bool { return len(l.elems) > 0 }

func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range l.elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Repr(e))
	}
	sb.WriteByte(']')
	return sb.String()
}

func (l *List) Len() int          { return len(l.elems) }
func (l *List) Version() uint64   { return l.version }
func (l *List) At(i int) Value    { return l.elems[i] }
func (l *List) Slice() []Value    { return l.elems }

func (l *List) Set(i int, v Value) {
	l.elems[i] = v
	l.version++
}

func (l *List) Append(v Value) {
	l.elems = append(l.elems, v)
	l.version++
}

// Pop removes and returns the last element.
func (l *List) Pop() (Value, bool) {
	if len(l.elems) == 0 {
		return nil, false
	}
	v := l.elems[len(l.elems)-1]
	l.elems = l.elems[:len(l.elems)-1]
	l.version++
	return v, true
}

// RemoveAt removes and returns the element at index i.
func (l *List) RemoveAt(i int) Value {
	v := l.elems[i]
	l.elems = append(l.elems[:i], l.elems[i+1:]...)
	l.version++
	return v
}

// Clear empties the list in place.
func (l *List) Clear() {
	l.elems = nil
	l.version++
}

// Reverse reverses the list's elements in place.
func (l *List) Reverse() {
	for i, j := 0, len(l.elems)-1; i < j; i, j = i+1, j-1 {
		l.elems[i], l.elems[j] = l.elems[j], l.elems[i]
	}
	l.version++
}

func (l *List) Equal(other *List) bool {
	if len(l.elems) != len(other.elems) {
		return false
	}
	for i, e := range l.elems {
		if !ValuesEqual(e, other.elems[i]) {
			return false
		}
	}
	return true
}

// Tuple is an immutable, fixed-length sequence.
type Tuple []Value

func (Tuple) Type() string { return "tuple" }
func (t Tuple) Truth() bool { return len(t) > 0 }

func (t Tuple) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, e := range t {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Repr(e))
	}
	if len(t) == 1 {
		sb.WriteByte(',')
	}
	sb.WriteByte(')')
	return sb.String()
}

func (t Tuple) Equal(other Tuple) bool {
	if len(t) != len(other) {
		return false
	}
	for i, e := range t {
		if !ValuesEqual(e, other[i]) {
			return false
		}
	}
	return true
}
