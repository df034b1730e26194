// Package jsonvalue holds the ordered JSON value model shared by the tree
// renderer, the reports and the exporters.
package jsonvalue

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies which branch of the union a Value holds.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "unknown"
}

// Value is an immutable JSON value. The zero Value is null.
//
// Objects keep their members in insertion order and never hold two members
// with the same key.
type Value struct {
	kind    Kind
	b       bool
	n       float64
	s       string
	items   []Value
	members []Member
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

func NewNull() Value              { return Value{} }
func NewBool(b bool) Value        { return Value{kind: Bool, b: b} }
func NewNumber(f float64) Value   { return Value{kind: Number, n: f} }
func NewString(s string) Value    { return Value{kind: String, s: s} }
func NewArray(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: Array, items: items}
}

// NewObject builds an object from members. A repeated key replaces the
// earlier value but keeps the earlier position.
func NewObject(members ...Member) Value {
	o := Value{kind: Object, members: make([]Member, 0, len(members))}
	for _, m := range members {
		o.members = setMember(o.members, m.Key, m.Value)
	}
	return o
}

func setMember(members []Member, key string, v Value) []Member {
	for i := range members {
		if members[i].Key == key {
			members[i].Value = v
			return members
		}
	}
	return append(members, Member{Key: key, Value: v})
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == Null }
func (v Value) IsScalar() bool { return v.kind != Array && v.kind != Object }

// Len returns the element count of an array or the key count of an object.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.members)
	}
	return 0
}

func (v Value) Bool() (bool, bool) { return v.b, v.kind == Bool }

func (v Value) Float() (float64, bool) { return v.n, v.kind == Number }

func (v Value) Str() (string, bool) { return v.s, v.kind == String }

func (v Value) Items() []Value { return v.items }

func (v Value) Members() []Member { return v.members }

func (v Value) Keys() []string {
	keys := make([]string, len(v.members))
	for i, m := range v.members {
		keys[i] = m.Key
	}
	return keys
}

// Get returns the member stored under key when v is an object.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Lookup walks nested objects by key.
func (v Value) Lookup(keys ...string) (Value, bool) {
	cur := v
	for _, k := range keys {
		next, ok := cur.Get(k)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// Truthy follows JavaScript truthiness.
func (v Value) Truthy() bool {
	switch v.kind {
	case Bool:
		return v.b
	case Number:
		return v.n != 0 && !math.IsNaN(v.n)
	case String:
		return v.s != ""
	case Array, Object:
		return true
	}
	return false
}

// ToNumber follows JavaScript Number() coercion. Unconvertible values give NaN.
func (v Value) ToNumber() float64 {
	switch v.kind {
	case Null:
		return 0
	case Bool:
		if v.b {
			return 1
		}
		return 0
	case Number:
		return v.n
	case String:
		return stringToNumber(v.s)
	case Array:
		return stringToNumber(v.String())
	}
	return math.NaN()
}

func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// String converts v to text the way JavaScript's String() does.
func (v Value) String() string {
	switch v.kind {
	case Bool:
		return strconv.FormatBool(v.b)
	case Number:
		return FormatNumber(v.n)
	case String:
		return v.s
	case Array:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			if !item.IsNull() {
				parts[i] = item.String()
			}
		}
		return strings.Join(parts, ",")
	case Object:
		return "[object Object]"
	}
	return "null"
}

// FormatNumber renders f in the shortest round-trippable form, switching to
// exponent notation outside [1e-6, 1e21) like JavaScript.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + exp[:1] + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
