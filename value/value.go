// Package value defines the in-memory representation shared by every stage
// of the conversion pipeline: parsers build a Value, filters rewrite it,
// encoders consume it.
package value

import (
	"fmt"

	om "github.com/wk8/go-ordered-map/v2"
)

// Kind discriminates the concrete shape of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the single currency between parsers, filters and encoders. The
// zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  *Object
}

// Object is an insertion-ordered string-keyed map. Insertion order is part
// of the value (spec §3) and must survive every filter and encoder.
type Object struct {
	m *om.OrderedMap[string, Value]
}

// NewObject returns an empty, insertion-ordered Object.
func NewObject() *Object {
	return &Object{m: om.New[string, Value]()}
}

// Set assigns key to v. A later call with a duplicate key replaces the
// value but keeps the key's original position (spec §3 invariant 1).
func (o *Object) Set(key string, v Value) {
	o.m.Set(key, v)
}

// Get returns the value for key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	return o.m.Get(key)
}

// Delete removes key, if present.
func (o *Object) Delete(key string) {
	o.m.Delete(key)
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil || o.m == nil {
		return 0
	}
	return o.m.Len()
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil || o.m == nil {
		return nil
	}
	keys := make([]string, 0, o.m.Len())
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Range calls fn for every key/value pair in insertion order. It stops
// early if fn returns false.
func (o *Object) Range(fn func(key string, v Value) bool) {
	if o == nil || o.m == nil {
		return
	}
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Clone deep-copies the object.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	out := NewObject()
	o.Range(func(k string, v Value) bool {
		out.Set(k, v.Clone())
		return true
	})
	return out
}

// Constructors.

// Null returns the Null Value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a Bool Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an Integer Value (signed 64-bit).
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a Float Value (64-bit binary float).
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a String Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns an Array Value wrapping elems directly (no copy); callers
// that don't own elems exclusively should pass a copy.
func Array(elems []Value) Value { return Value{kind: KindArray, arr: elems} }

// FromObject returns an Object Value wrapping obj directly.
func FromObject(obj *Object) Value {
	if obj == nil {
		obj = NewObject()
	}
	return Value{kind: KindObject, obj: obj}
}

// Accessors. Each panics if called on the wrong Kind; callers must check
// Kind() first.

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() bool {
	v.mustBe(KindBool)
	return v.b
}

func (v Value) Int() int64 {
	v.mustBe(KindInt)
	return v.i
}

func (v Value) Float() float64 {
	v.mustBe(KindFloat)
	return v.f
}

func (v Value) Str() string {
	v.mustBe(KindString)
	return v.s
}

func (v Value) Items() []Value {
	v.mustBe(KindArray)
	return v.arr
}

func (v Value) Obj() *Object {
	v.mustBe(KindObject)
	return v.obj
}

func (v Value) mustBe(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("value: called %s accessor on a %s Value", k, v.kind))
	}
}

// IsPrimitive reports whether v is Null, Bool, Int, Float or String — the
// set of Kinds a tabular TOON row, a CSV cell or a TSV cell may hold.
func (v Value) IsPrimitive() bool {
	switch v.kind {
	case KindNull, KindBool, KindInt, KindFloat, KindString:
		return true
	default:
		return false
	}
}

// Clone deep-copies v. Filters that conceptually mutate in place clone the
// root once and mutate the clone, honoring the by-value contract (spec §3
// invariant 3) without exposing shared structure to the caller.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		out := make([]Value, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Clone()
		}
		return Array(out)
	case KindObject:
		return FromObject(v.obj.Clone())
	default:
		return v
	}
}

// Equal reports deep, order-sensitive equality. Two Objects are equal only
// if their keys appear in the same order with equal values.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		ak, bk := a.obj.Keys(), b.obj.Keys()
		if len(ak) != len(bk) {
			return false
		}
		for i, k := range ak {
			if bk[i] != k {
				return false
			}
			av, _ := a.obj.Get(k)
			bv, _ := b.obj.Get(k)
			if !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// SummaryString renders the depth-filter placeholder form ("{…N keys}" or
// "[…N items]") for a collapsed Object or Array (spec §4.2).
func SummaryString(v Value) string {
	switch v.kind {
	case KindObject:
		return fmt.Sprintf("{…%d keys}", v.obj.Len())
	case KindArray:
		return fmt.Sprintf("[…%d items]", len(v.arr))
	default:
		return ""
	}
}
