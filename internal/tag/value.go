package tag

import (
	"reflect"
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface over the tag value categories.
// Only Absent, Bool, Int, String and Other implement it, along with
// pointers to them, which Reason and Kind dereference.
type Value interface {
	tagValue() // Sealed - only these types implement it
}

// Absent marks a missing value (null/none).
type Absent struct{}

func (Absent) tagValue() {}

// Bool is a boolean. Booleans are never valid tag values.
type Bool bool

func (Bool) tagValue() {}

// Int is an integer tag value. Always int64.
type Int int64

func (Int) tagValue() {}

// String is a string tag value.
type String string

func (String) tagValue() {}

// Other wraps any Go value that is not absent, boolean, integer or string:
// floats, slices, maps, structs and so on.
type Other struct {
	V any
}

func (Other) tagValue() {}

// Kind names for each variant, as reported by Kind.
const (
	KindAbsent = "absent"
	KindBool   = "bool"
	KindInt    = "int"
	KindString = "string"
	KindOther  = "other"
)

// Rejection reasons reported by Reason.
const (
	ReasonAbsent      = "absent"
	ReasonBoolean     = "boolean"
	ReasonEmptyString = "empty string"
	ReasonEmpty       = "empty"
)

// IsValid reports whether v may be sent as a tag value.
//
// Zero is valid, both as Int(0) and String("0"). String content is never
// inspected, so markup such as "<tags_in_values>" passes untouched.
func IsValid(v Value) bool {
	return Reason(v) == ""
}

// IsValidValue classifies an arbitrary Go value. It never panics.
func IsValidValue(x any) bool {
	return IsValid(Of(x))
}

// Reason returns why v is invalid, or "" when it is valid.
func Reason(v Value) string {
	switch val := v.(type) {
	case nil, Absent:
		return ReasonAbsent
	case Bool:
		return ReasonBoolean
	case Int:
		return ""
	case String:
		if len(val) == 0 {
			return ReasonEmptyString
		}
		return ""
	case Other:
		if val.isEmpty() {
			return ReasonEmpty
		}
		return ""
	default:
		// Pointers to the variants also satisfy Value.
		return Reason(Of(v))
	}
}

// Kind returns the variant name of v.
func Kind(v Value) string {
	switch v.(type) {
	case nil, Absent:
		return KindAbsent
	case Bool:
		return KindBool
	case Int:
		return KindInt
	case String:
		return KindString
	case Other:
		return KindOther
	default:
		return Kind(Of(v))
	}
}

// isEmpty reports whether the wrapped value is nil or has zero length.
func (o Other) isEmpty() bool {
	if o.V == nil {
		return true
	}
	rv := reflect.ValueOf(o.V)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	case reflect.Map, reflect.Slice:
		return rv.IsNil() || rv.Len() == 0
	case reflect.String, reflect.Array:
		return rv.Len() == 0
	default:
		return false
	}
}

// Set maps tag keys to values.
// Use SortedKeys() for deterministic iteration.
type Set map[string]Value

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings compares UTF-8 bytes, which orders some keys differently.
func (s Set) SortedKeys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings by UTF-16 code units.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	for i := 0; i < min(len(a16), len(b16)); i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}
