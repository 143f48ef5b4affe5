package schema_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-composer/internal/schema"
)

func TestValidateDocumentAcceptsFieldsAndTabs(t *testing.T) {
	docs := []map[string]any{
		{"fields": []any{"title"}},
		{"fields": []map[string]any{
			{"name": "items", "type": "repeater", "fields": []any{map[string]any{"name": "label", "type": "text"}}},
			{"type": "separator"},
		}},
		{"tabs": []any{map[string]any{"id": "main", "label": "Main", "fields": []any{
			map[string]any{"name": "cta", "type": "url", "condition": map[string]any{"field": "title", "operator": "isNotEmpty"}},
		}}}},
	}
	for i, doc := range docs {
		if err := schema.ValidateDocument(doc); err != nil {
			t.Fatalf("doc %d: unexpected error %v", i, err)
		}
	}
}

func TestValidateDocumentRejectsMalformed(t *testing.T) {
	docs := []map[string]any{
		nil,
		{"title": "no fields"},
		{"fields": []any{map[string]any{"name": "x", "type": "wysiwyg"}}},
		{"fields": []any{map[string]any{"type": "text"}}},
		{"fields": []any{map[string]any{"name": "x", "type": "text", "condition": map[string]any{"field": "y", "operator": "contains"}}}},
	}
	for i, doc := range docs {
		err := schema.ValidateDocument(doc)
		if !errors.Is(err, schema.ErrInvalidDocument) {
			t.Fatalf("doc %d: expected ErrInvalidDocument, got %v", i, err)
		}
	}
}

func TestParseShapes(t *testing.T) {
	s := schema.Parse(map[string]any{
		"fields": []any{
			"title",
			map[string]any{"name": "style", "type": "select", "options": []any{"a", map[string]any{"label": "B", "value": "b"}}},
			42,
		},
		"tabs": []any{map[string]any{"id": "seo", "fields": []any{map[string]any{"name": "keywords", "type": "array"}}}},
	})
	if s == nil {
		t.Fatal("expected schema")
	}
	all := s.AllFields()
	if len(all) != 3 {
		t.Fatalf("expected 3 fields, got %+v", all)
	}
	if all[0].Type != schema.FieldText || all[1].Options[1].Value != "b" || all[2].Name != "keywords" {
		t.Fatalf("unexpected parse result %+v", all)
	}
	if schema.Parse(map[string]any{"other": 1}) != nil {
		t.Fatalf("expected nil for documents without fields or tabs")
	}
	if !schema.HasFields(map[string]any{"fields": []any{"title"}}) {
		t.Fatalf("expected HasFields")
	}
}

func TestParseDefaultsUnknownFieldTypesToText(t *testing.T) {
	s := schema.Parse(map[string]any{"fields": []any{
		map[string]any{"name": "title"},
		map[string]any{"name": "rating", "type": "stars"},
		map[string]any{"name": "items", "type": "repeater", "fields": []any{
			map[string]any{"name": "when", "type": "datetime"},
		}},
	}})
	fields := s.AllFields()
	if fields[0].Type != schema.FieldText || fields[1].Type != schema.FieldText {
		t.Fatalf("expected unknown and missing types to become text, got %+v", fields)
	}
	if fields[2].Type != schema.FieldRepeater || fields[2].Fields[0].Type != schema.FieldText {
		t.Fatalf("expected nested unknown type to become text, got %+v", fields[2])
	}
	if !schema.FieldSeparator.Known() || schema.FieldType("stars").Known() {
		t.Fatalf("unexpected Known result")
	}
}
