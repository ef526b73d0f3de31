// Package value implements an immutable JSON value model.
//
// A Value is a tagged union of null, boolean, number, string, array and object.
// Numbers keep their exact decimal digits, objects keep member order and unique
// keys. Every update returns a new Value that shares the untouched subtrees of
// the original; no method ever modifies a Value in place.
//
// Number exponents are bounded by apd: a number whose exponent falls outside
// [apd.MinExponent, apd.MaxExponent] is rejected as malformed. Serialization
// writes numbers without an exponent unless that takes more than 4096 digits.
package value

import (
	"iter"
	"slices"

	"github.com/cockroachdb/apd/v3"
)

// Kind identifies the active variant of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the type name reported by type introspection.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Value is a JSON value. The zero Value is JSON null.
type Value struct {
	kind    Kind
	boolean bool
	str     string
	num     *apd.Decimal // never modified after construction
	elems   []Value
	members []Member
}

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

func Null() Value {
	return Value{}
}

func Bool(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number copies d into a number leaf. d must be finite.
func Number(d *apd.Decimal) Value {
	return Value{kind: KindNumber, num: new(apd.Decimal).Set(d)}
}

func Int(i int64) Value {
	return Value{kind: KindNumber, num: apd.New(i, 0)}
}

// Array builds an array holding elems in order.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, elems: slices.Clone(elems)}
}

// Object builds an object from members. When a key repeats, the first
// occurrence wins and the later ones are discarded.
func Object(members ...Member) Value {
	out := make([]Member, 0, len(members))
	seen := make(map[string]struct{}, len(members))
	for _, m := range members {
		if _, dup := seen[m.Key]; dup {
			continue
		}
		seen[m.Key] = struct{}{}
		out = append(out, m)
	}
	return Value{kind: KindObject, members: out}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsContainer reports whether v is an array or an object.
func (v Value) IsContainer() bool {
	return v.kind == KindArray || v.kind == KindObject
}

// AsBool returns the boolean of a KindBool value.
func (v Value) AsBool() bool {
	return v.boolean
}

// AsString returns the text of a KindString value.
func (v Value) AsString() string {
	return v.str
}

// Decimal returns a copy of the number of a KindNumber value, or nil.
func (v Value) Decimal() *apd.Decimal {
	if v.num == nil {
		return nil
	}
	return new(apd.Decimal).Set(v.num)
}

// Len returns the number of array elements or object members.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.elems)
	case KindObject:
		return len(v.members)
	}
	return 0
}

// Index returns the i-th element of an array.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.elems) {
		return Value{}, false
	}
	return v.elems[i], true
}

// Get returns the member named key of an object.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	if i := v.memberIndex(key); i >= 0 {
		return v.members[i].Value, true
	}
	return Value{}, false
}

func (v Value) memberIndex(key string) int {
	return slices.IndexFunc(v.members, func(m Member) bool { return m.Key == key })
}

// Elements iterates over array elements in order.
func (v Value) Elements() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		if v.kind != KindArray {
			return
		}
		for i, e := range v.elems {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Members iterates over object members in insertion order.
func (v Value) Members() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if v.kind != KindObject {
			return
		}
		for _, m := range v.members {
			if !yield(m.Key, m.Value) {
				return
			}
		}
	}
}

// Keys returns object keys in insertion order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.members))
	for i, m := range v.members {
		keys[i] = m.Key
	}
	return keys
}

// WithKey returns a copy of object v where key maps to x. An existing key keeps
// its position; a new key is appended. Non-objects are returned unchanged.
func (v Value) WithKey(key string, x Value) Value {
	if v.kind != KindObject {
		return v
	}
	if i := v.memberIndex(key); i >= 0 {
		members := slices.Clone(v.members)
		members[i].Value = x
		return Value{kind: KindObject, members: members}
	}
	members := make([]Member, len(v.members), len(v.members)+1)
	copy(members, v.members)
	return Value{kind: KindObject, members: append(members, Member{Key: key, Value: x})}
}

// WithoutKey returns a copy of object v without key.
func (v Value) WithoutKey(key string) Value {
	if v.kind != KindObject {
		return v
	}
	i := v.memberIndex(key)
	if i < 0 {
		return v
	}
	return Value{kind: KindObject, members: slices.Delete(slices.Clone(v.members), i, i+1)}
}

// WithIndex returns a copy of array v where element i is x. When i is past the
// end, the array is padded with nulls up to i.
func (v Value) WithIndex(i int, x Value) Value {
	if v.kind != KindArray || i < 0 {
		return v
	}
	elems := padded(v.elems, i+1)
	elems[i] = x
	return Value{kind: KindArray, elems: elems}
}

// WithoutIndex returns a copy of array v without element i; later elements
// shift down by one.
func (v Value) WithoutIndex(i int) Value {
	if v.kind != KindArray || i < 0 || i >= len(v.elems) {
		return v
	}
	return Value{kind: KindArray, elems: slices.Delete(slices.Clone(v.elems), i, i+1)}
}

// InsertAt returns a copy of array v with xs inserted before index i. When i is
// past the end, the array is padded with nulls up to i first.
func (v Value) InsertAt(i int, xs ...Value) Value {
	if v.kind != KindArray || i < 0 {
		return v
	}
	elems := padded(v.elems, i)
	return Value{kind: KindArray, elems: slices.Insert(elems, i, xs...)}
}

// Append returns a copy of array v with xs added at the end.
func (v Value) Append(xs ...Value) Value {
	return v.InsertAt(len(v.elems), xs...)
}

// padded clones elems and grows it with nulls to at least n elements.
func padded(elems []Value, n int) []Value {
	out := make([]Value, max(len(elems), n), max(len(elems), n)+1)
	copy(out, elems)
	return out
}
