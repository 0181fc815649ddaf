package quickpython

import "strings"

// Dict is a shared, mutable, insertion-ordered mapping. Keys are
// restricted to Int, Bool, and String, per spec.md §3: this keeps the
// key type directly usable as a Go map key (all three are comparable
// scalar types) without the bucket/probe machinery
// github.com/canonical/starlark's hashtable.go needs to support
// arbitrary hashable values including mutable-looking ones.
type Dict struct {
	m     map[Value]Value
	order []Value // insertion order, for Keys() and String()
}

func NewDict() *Dict {
	return &Dict{m: make(map[Value]Value)}
}

func (*Dict) Type() string  { return "dict" }
func (d *Dict) Truth() bool { return len(d.m) > 0 }

func (d *Dict) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range d.order {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(Repr(k))
		sb.WriteString(": ")
		sb.WriteString(Repr(d.m[k]))
	}
	sb.WriteByte('}')
	return sb.String()
}

// IsValidKey reports whether v is one of the restricted key kinds.
func IsValidKey(v Value) bool {
	switch v.(type) {
	case Int, Bool, String:
		return true
	}
	return false
}

func (d *Dict) Get(k Value) (Value, bool) {
	v, ok := d.m[k]
	return v, ok
}

func (d *Dict) Set(k, v Value) {
	if _, exists := d.m[k]; !exists {
		d.order = append(d.order, k)
	}
	d.m[k] = v
}

func (d *Dict) Len() int { return len(d.m) }

func (d *Dict) deleteKey(k Value) {
	delete(d.m, k)
	for i, ok := range d.order {
		if ValuesEqual(ok, k) {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Keys returns a snapshot of the key order at the moment of the call,
// used both by the keys() method and by GetIter (spec.md §4.I: dict
// iteration is over a snapshot, so concurrent mutation during
// iteration is not detected — a known, documented limitation distinct
// from List's version-gated iterators).
func (d *Dict) Keys() []Value {
	out := make([]Value, len(d.order))
	copy(out, d.order)
	return out
}

func (d *Dict) Equal(other *Dict) bool {
	if len(d.m) != len(other.m) {
		return false
	}
	for k, v := range d.m {
		ov, ok := other.m[k]
		if !ok || !ValuesEqual(v, ov) {
			return false
		}
	}
	return true
}
