package tag

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
)

// maxPointerDepth bounds how many pointers and interfaces Of follows.
// Chains longer than this, cyclic ones included, become Other.
const maxPointerDepth = 32

// Of converts a Go value to a Value.
//
// Named types follow their underlying kind, so a `type Section string`
// becomes a String. Pointers are followed, pointers to Int or String
// included; a nil pointer is Absent. Anything that is not nil, boolean,
// integer or string becomes Other. The result is always one of the five
// variants, never a pointer to one.
func Of(x any) Value {
	return of(x, 0)
}

func of(x any, depth int) Value {
	switch val := x.(type) {
	case nil:
		return Absent{}
	case Absent, Bool, Int, String, Other:
		return val.(Value)
	case bool:
		return Bool(val)
	case string:
		return String(val)
	case int:
		return Int(val)
	case int64:
		return Int(val)
	case int32:
		return Int(val)
	case json.Number:
		return fromNumber(val)
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.String:
		return String(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Other{V: x}
		}
		return Int(int64(u))
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Absent{}
		}
		if depth >= maxPointerDepth {
			return Other{V: x}
		}
		return of(rv.Elem().Interface(), depth+1)
	default:
		return Other{V: x}
	}
}

// fromNumber keeps integers as Int and everything else as Other.
func fromNumber(n json.Number) Value {
	if i, err := n.Int64(); err == nil {
		return Int(i)
	}
	if f, err := n.Float64(); err == nil {
		return Other{V: f}
	}
	return Other{V: string(n)}
}

// ParseLiteral reads a command-line literal.
//
//	null         -> Absent
//	true, false  -> Bool
//	42, -7       -> Int
//	'0', "0"     -> String with the quotes stripped
//	anything else is a String as written
func ParseLiteral(s string) Value {
	switch s {
	case "null":
		return Absent{}
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}

	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' || first == '"') && first == last {
			return String(s[1 : len(s)-1])
		}
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}

	return String(s)
}
