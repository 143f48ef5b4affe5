package schema

import (
	"fmt"
	"strings"
)

// Parse reads the document form of a block schema (as stored in jsonb
// columns and template records). Malformed entries are skipped rather than
// rejected; a nil or empty document yields nil.
func Parse(doc map[string]any) *BlockSchema {
	if len(doc) == 0 {
		return nil
	}
	_, hasFields := doc["fields"]
	_, hasTabs := doc["tabs"]
	if !hasFields && !hasTabs {
		return nil
	}
	out := &BlockSchema{Fields: parseFields(doc["fields"], 0)}
	for _, raw := range asList(doc["tabs"]) {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		out.Tabs = append(out.Tabs, Tab{
			ID:     stringValue(entry["id"]),
			Label:  stringValue(entry["label"]),
			Fields: parseFields(entry["fields"], 0),
		})
	}
	return out
}

// HasFields reports whether doc carries a field list or tabs, which is what
// makes a template schema "full" for reconciliation purposes.
func HasFields(doc map[string]any) bool {
	s := Parse(doc)
	if s == nil {
		return false
	}
	return len(s.AllFields()) > 0
}

func parseFields(raw any, depth int) []FieldDefinition {
	if depth > MaxNormalizeDepth {
		return nil
	}
	list := asList(raw)
	if len(list) == 0 {
		return nil
	}
	out := make([]FieldDefinition, 0, len(list))
	for _, item := range list {
		switch typed := item.(type) {
		case FieldDefinition:
			out = append(out, typed)
		case map[string]any:
			out = append(out, parseField(typed, depth))
		case string:
			// shorthand: a bare name is a text field
			if name := strings.TrimSpace(typed); name != "" {
				out = append(out, FieldDefinition{Name: name, Type: FieldText})
			}
		}
	}
	return out
}

func parseField(entry map[string]any, depth int) FieldDefinition {
	field := FieldDefinition{
		Name:     stringValue(entry["name"]),
		Type:     FieldType(stringValue(entry["type"])),
		Label:    stringValue(entry["label"]),
		Default:  entry["default"],
		Required: entry["required"] == true,
	}
	if !field.Type.Known() {
		// unknown and missing types are edited as plain text
		field.Type = FieldText
	}
	for _, raw := range asList(entry["options"]) {
		switch opt := raw.(type) {
		case map[string]any:
			field.Options = append(field.Options, Option{Label: stringValue(opt["label"]), Value: opt["value"]})
		default:
			field.Options = append(field.Options, Option{Label: fmt.Sprint(opt), Value: opt})
		}
	}
	if cond, ok := entry["condition"].(map[string]any); ok {
		field.Condition = &Condition{
			Field:    stringValue(cond["field"]),
			Operator: Operator(stringValue(cond["operator"])),
			Value:    cond["value"],
		}
	}
	if field.Type.IsStructural() {
		field.Fields = parseFields(entry["fields"], depth+1)
	}
	return field
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// asList accepts the slice shapes produced by JSON decoding and by Go callers.
func asList(v any) []any {
	switch typed := v.(type) {
	case []any:
		return typed
	case []map[string]any:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = typed[i]
		}
		return out
	case []FieldDefinition:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = typed[i]
		}
		return out
	case []string:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = typed[i]
		}
		return out
	}
	return nil
}
