package docstore

import (
	"fmt"
	"reflect"
)

// Normalize converts v to the primitive set a Document may hold.
// Named string and bool types collapse to their base kind, every integer kind
// becomes int64 and every float kind becomes float64. fmt.Stringer values
// (decimal.Decimal, for one) are stored as their string form.
func Normalize(v any) any {
	if v == nil {
		return nil
	}
	switch x := v.(type) {
	case string, bool, int64, float64:
		return x
	case fmt.Stringer:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil
		}
		return x.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return v
}

// Equal compares two document values after normalization.
// Integers and floats compare numerically, so int64(3) equals float64(3).
func Equal(a, b any) bool {
	a, b = Normalize(a), Normalize(b)
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
		return false
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// Clone returns a shallow copy of doc.
func Clone(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

// Diff returns {key: {"old": ..., "new": ...}} for every key of next whose value
// differs from prev. Keys only in prev are not reported.
func Diff(prev, next Document) map[string]any {
	changes := make(map[string]any)
	for key, newVal := range next {
		oldVal, exists := prev[key]
		if !exists || !Equal(oldVal, newVal) {
			changes[key] = map[string]any{"old": oldVal, "new": newVal}
		}
	}
	return changes
}
