package record

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Kind is the dynamic type tag of a field value.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "other"
	}
}

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined is the value of a field that is absent from a record.
// It is distinct from nil, which is an explicit null.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// KindOf classifies a value.
func KindOf(v any) Kind {
	switch x := v.(type) {
	case undefined:
		return KindUndefined
	case nil:
		return KindNull
	case bool:
		return KindBool
	case string:
		return KindString
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return KindNumber
	case []any:
		return KindSequence
	case map[string]any, *Record:
		return KindMapping
	default:
		rv := reflect.ValueOf(x)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			return KindSequence
		case reflect.Map:
			if rv.Type().Key().Kind() == reflect.String {
				return KindMapping
			}
		}
		return KindOther
	}
}

// Normalize folds every number to one canonical form (int64, uint64 or
// float64, see canonicalNumber) and recurses into sequences and mappings.
// Nothing else is coerced. Integers keep their exact value.
func Normalize(v any) any {
	if n, ok := canonicalNumber(v); ok {
		return n
	}
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = Normalize(item)
		}
		return out
	case *Record:
		if x == nil {
			return nil
		}
		return Normalize(x.Map())
	}
	return v
}

// Equal is strict equality: numbers compare by value regardless of Go
// type, everything else must have the same kind and content.
func Equal(a, b any) bool {
	return reflect.DeepEqual(Normalize(a), Normalize(b))
}

// Stringify renders a value as text. Used for pattern matching and group keys.
func Stringify(v any) string {
	switch x := v.(type) {
	case undefined:
		return "undefined"
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			if item == nil || IsUndefined(item) {
				continue
			}
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ",")
	case map[string]any, *Record:
		return "[object Object]"
	}
	if n, ok := canonicalNumber(v); ok {
		return formatNumber(n)
	}
	return fmt.Sprintf("%v", v)
}
