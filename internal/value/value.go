package value

import (
	"slices"
	"strconv"
	"strings"
)

// Value is a sealed interface over decoded JSON values.
// Only Null, Bool, Number, String, Array, and Object implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents a JSON null.
// Using an explicit type keeps a present null distinct from an absent value (nil).
type Null struct{}

func (Null) value() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Bool represents a JSON boolean.
type Bool bool

func (Bool) value() {}

// Number represents a JSON number by its literal text.
// The literal is kept so integer and float subtypes can be told apart.
type Number string

func (Number) value() {}

// MarshalJSON implements json.Marshaler for Number.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n), nil
}

// IsInteger reports whether the literal has no fraction or exponent.
func (n Number) IsInteger() bool {
	return !strings.ContainsAny(string(n), ".eE")
}

// Float64 returns the number as a float64.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// Int64 returns the number as an int64 if it is an integer literal
// that fits without loss.
func (n Number) Int64() (int64, bool) {
	if !n.IsInteger() {
		return 0, false
	}
	i, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

// String represents a JSON string.
type String string

func (String) value() {}

// Array represents a JSON array.
type Array []Value

func (Array) value() {}

// Object represents a JSON object.
// Use SortedKeys() for deterministic iteration.
type Object map[string]Value

func (Object) value() {}

// Get returns the value stored under key and whether it was present.
func (obj Object) Get(key string) (Value, bool) {
	v, ok := obj[key]
	return v, ok
}

// SortedKeys returns keys in code point order.
// For UTF-8 strings this is plain byte order.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Kind classifies a Value by structural kind.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindNull:    "null",
	KindBool:    "boolean",
	KindNumber:  "number",
	KindString:  "string",
	KindArray:   "array",
	KindObject:  "object",
}

func (k Kind) String() string {
	return kindNames[k]
}

// KindOf returns the structural kind of v. A nil Value is KindInvalid.
func KindOf(v Value) Kind {
	switch v.(type) {
	case Null:
		return KindNull
	case Bool:
		return KindBool
	case Number:
		return KindNumber
	case String:
		return KindString
	case Array:
		return KindArray
	case Object:
		return KindObject
	default:
		return KindInvalid
	}
}

// KindName names the kind of v for diagnostics.
// With splitNumbers set, numbers are named "integer" or "float".
func KindName(v Value, splitNumbers bool) string {
	if n, ok := v.(Number); ok && splitNumbers {
		if n.IsInteger() {
			return "integer"
		}
		return "float"
	}
	return KindOf(v).String()
}
