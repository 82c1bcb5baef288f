package urlutil

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/samber/lo"
)

// Value is a query parameter value for BuildURL. The zero Value is absent
// and is skipped, as is Null.
type Value struct {
	text    string
	present bool
}

// String is a value used as-is.
func String(s string) Value {
	return Value{text: s, present: true}
}

// Int is an integer written in base 10.
func Int(n int64) Value {
	return Value{text: strconv.FormatInt(n, 10), present: true}
}

// Float is written in its shortest decimal form, e.g. 1.5 or 100.
func Float(f float64) Value {
	return Value{text: strconv.FormatFloat(f, 'f', -1, 64), present: true}
}

// Bool is written as "true" or "false".
func Bool(b bool) Value {
	return Value{text: strconv.FormatBool(b), present: true}
}

// Null is skipped by BuildURL.
func Null() Value {
	return Value{}
}

// Present reports whether v should be written into a query.
func (v Value) Present() bool {
	return v.present
}

// Text returns the stringified value.
func (v Value) Text() string {
	return v.text
}

// Field is one key/value pair passed to BuildURL.
type Field struct {
	Key   string
	Value Value
}

// F is shorthand for Field{Key: key, Value: value}.
func F(key string, value Value) Field {
	return Field{Key: key, Value: value}
}

// ValueOf converts a dynamic value. nil becomes Null; strings, booleans,
// integers and floats map onto their constructors; anything else is an error.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Value{text: strconv.FormatUint(uint64(x), 10), present: true}, nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return Value{text: strconv.FormatUint(x, 10), present: true}, nil
	case float32:
		return Value{text: strconv.FormatFloat(float64(x), 'f', -1, 32), present: true}, nil
	case float64:
		return Float(x), nil
	default:
		return Value{}, fmt.Errorf("unsupported query value type %T", v)
	}
}

// FieldsFromMap converts a dynamic map into fields ordered by key.
func FieldsFromMap(m map[string]any) ([]Field, error) {
	keys := lo.Keys(m)
	sort.Strings(keys)

	fields := make([]Field, 0, len(keys))
	for _, key := range keys {
		value, err := ValueOf(m[key])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		fields = append(fields, F(key, value))
	}
	return fields, nil
}
