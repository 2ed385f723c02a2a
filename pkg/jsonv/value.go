// Package jsonv defines the canonical JSON-like value produced by decoding a
// CRDT update and consumed by the tree renderer.
//
// A Value is one of Null, Bool, Number, String, Array or Object. Object keeps
// keys in insertion order. Values are immutable once built: callers must not
// modify the slices returned by Array or Object accessors.
package jsonv

import "fmt"

// Kind identifies the concrete variant of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

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
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is the closed JSON-like sum type.
type Value interface {
	Kind() Kind
	value()
}

// Null is the JSON null literal.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number. NaN and infinities render as null.
type Number float64

// String is a JSON string.
type String string

// Array is an ordered sequence of values.
type Array []Value

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is a string-keyed mapping that preserves insertion order.
type Object struct {
	members []Member
	index   map[string]int
}

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (Array) Kind() Kind  { return KindArray }
func (Object) Kind() Kind { return KindObject }

func (Null) value()   {}
func (Bool) value()   {}
func (Number) value() {}
func (String) value() {}
func (Array) value()  {}
func (Object) value() {}

// NewObject builds an Object from members. A repeated key keeps its first
// position and takes the last value, the same way a JavaScript object literal
// behaves.
func NewObject(members ...Member) Object {
	var b ObjectBuilder
	for _, m := range members {
		b.Set(m.Key, m.Value)
	}
	return b.Object()
}

// Len returns the number of members.
func (o Object) Len() int { return len(o.members) }

// Members returns the members in insertion order.
func (o Object) Members() []Member { return o.members }

// Keys returns the keys in insertion order.
func (o Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// Get returns the value stored under key.
func (o Object) Get(key string) (Value, bool) {
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// ObjectBuilder accumulates members for an Object. The zero value is ready to use.
type ObjectBuilder struct {
	members []Member
	index   map[string]int
}

// Set adds or replaces key.
func (b *ObjectBuilder) Set(key string, v Value) {
	if v == nil {
		v = Null{}
	}
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if i, ok := b.index[key]; ok {
		b.members[i].Value = v
		return
	}
	b.index[key] = len(b.members)
	b.members = append(b.members, Member{Key: key, Value: v})
}

// Len returns the number of members added so far.
func (b *ObjectBuilder) Len() int { return len(b.members) }

// Object returns the built Object. The builder must not be reused afterwards.
func (b *ObjectBuilder) Object() Object {
	if b.index == nil {
		return Object{index: map[string]int{}}
	}
	return Object{members: b.members, index: b.index}
}

// IsContainer reports whether v is an Array or an Object.
func IsContainer(v Value) bool {
	switch v.(type) {
	case Array, Object:
		return true
	}
	return false
}

// Len returns the number of entries of a container, or 0 for scalars.
func Len(v Value) int {
	switch c := v.(type) {
	case Array:
		return len(c)
	case Object:
		return c.Len()
	}
	return 0
}

// Equal reports whether a and b are structurally equal, including object key order.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av == b.(Bool)
	case Number:
		return av == b.(Number)
	case String:
		return av == b.(String)
	case Array:
		bv := b.(Array)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv := b.(Object)
		if av.Len() != bv.Len() {
			return false
		}
		for i, m := range av.members {
			o := bv.members[i]
			if m.Key != o.Key || !Equal(m.Value, o.Value) {
				return false
			}
		}
		return true
	}
	return false
}
