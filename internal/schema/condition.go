package schema

import "reflect"

// Visible reports whether field should be shown for config. Visibility never
// affects what is stored.
func Visible(field FieldDefinition, config map[string]any) bool {
	return field.Condition == nil || Evaluate(*field.Condition, config)
}

// VisibleFields filters the schema's fields down to those visible for config.
func VisibleFields(s *BlockSchema, config map[string]any) []FieldDefinition {
	all := s.AllFields()
	out := make([]FieldDefinition, 0, len(all))
	for _, field := range all {
		if Visible(field, config) {
			out = append(out, field)
		}
	}
	return out
}

// Evaluate applies cond against config. Unknown operators evaluate to true so
// a schema from a newer editor never hides fields unexpectedly.
func Evaluate(cond Condition, config map[string]any) bool {
	current := config[cond.Field]
	switch cond.Operator {
	case OpEquals:
		return looseEqual(current, cond.Value)
	case OpNotEquals:
		return !looseEqual(current, cond.Value)
	case OpIsNotEmpty:
		return !isEmpty(current)
	default:
		return true
	}
}

// looseEqual compares decoded JSON values, treating every numeric kind as
// float64 so 1 and 1.0 match.
func looseEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() == reflect.String && rb.Kind() == reflect.String {
		return ra.String() == rb.String()
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func isEmpty(v any) bool {
	switch typed := v.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case []any:
		return len(typed) == 0
	case map[string]any:
		return len(typed) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
