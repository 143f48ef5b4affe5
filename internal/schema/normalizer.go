package schema

// MaxNormalizeDepth bounds repeater recursion. Values nested deeper than this
// are still coerced to lists but their items are kept as they are.
const MaxNormalizeDepth = 32

// Normalize repairs config against s so that every repeater value is a list
// of items shaped by the repeater's item template. It never mutates its
// inputs and never fails: a nil config or schema returns config unchanged and
// non-repeater fields pass through as is.
//
// Item values resolve as existing value, then the sub-field default, then "".
func Normalize(config map[string]any, s *BlockSchema) map[string]any {
	return NormalizeDepth(config, s, MaxNormalizeDepth)
}

// NormalizeDepth is Normalize with an explicit nesting cap; values below one
// fall back to MaxNormalizeDepth.
func NormalizeDepth(config map[string]any, s *BlockSchema, maxDepth int) map[string]any {
	if config == nil || s == nil {
		return config
	}
	if maxDepth < 1 {
		maxDepth = MaxNormalizeDepth
	}
	out := make(map[string]any, len(config))
	for key, value := range config {
		out[key] = value
	}
	for _, field := range s.AllFields() {
		if !field.Type.IsStructural() || field.Name == "" {
			continue
		}
		out[field.Name] = normalizeRepeater(config[field.Name], field.Fields, 1, maxDepth)
	}
	return out
}

// NormalizeDocument parses doc and normalizes config against it.
func NormalizeDocument(config map[string]any, doc map[string]any) map[string]any {
	return Normalize(config, Parse(doc))
}

func normalizeRepeater(value any, itemFields []FieldDefinition, depth, maxDepth int) []any {
	items := coerceList(value)
	out := make([]any, 0, len(items))
	if depth > maxDepth {
		for _, item := range items {
			out = append(out, cloneValue(item))
		}
		return out
	}
	for _, raw := range items {
		item, _ := raw.(map[string]any)
		built := make(map[string]any, len(itemFields))
		for _, sub := range itemFields {
			if sub.Name == "" || sub.Type.IsDecorative() {
				continue
			}
			if sub.Type.IsStructural() {
				built[sub.Name] = normalizeRepeater(item[sub.Name], sub.Fields, depth+1, maxDepth)
				continue
			}
			built[sub.Name] = resolveItemValue(item, sub)
		}
		out = append(out, built)
	}
	return out
}

func resolveItemValue(item map[string]any, sub FieldDefinition) any {
	if value, ok := item[sub.Name]; ok && value != nil {
		return cloneValue(value)
	}
	if sub.Default != nil {
		return cloneValue(sub.Default)
	}
	return ""
}

// coerceList keeps lists, wraps any other truthy value and maps falsy values
// (nil, false, zero, "") to an empty list.
func coerceList(value any) []any {
	if list := asList(value); list != nil {
		return list
	}
	if value == nil || !truthy(value) {
		return []any{}
	}
	if isList(value) {
		return reflectList(value)
	}
	return []any{value}
}
