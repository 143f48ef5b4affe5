package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidDocument reports a block schema document that does not describe
// fields or tabs in the expected shape.
var ErrInvalidDocument = errors.New("schema: invalid block schema document")

// documentMetaSchema describes the block schema document itself. It checks the
// structure of field definitions; it is never applied to block configuration.
const documentMetaSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "fields": {"$ref": "#/$defs/fieldList"},
    "tabs": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "fields"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "label": {"type": "string"},
          "fields": {"$ref": "#/$defs/fieldList"}
        }
      }
    }
  },
  "anyOf": [{"required": ["fields"]}, {"required": ["tabs"]}],
  "$defs": {
    "fieldList": {
      "type": "array",
      "items": {"anyOf": [{"type": "string", "minLength": 1}, {"$ref": "#/$defs/field"}]}
    },
    "field": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "name": {"type": "string"},
        "type": {"enum": ["text", "textarea", "number", "select", "checkbox", "color", "slider",
                          "image", "url", "richtext", "array", "repeater", "heading", "separator"]},
        "label": {"type": "string"},
        "required": {"type": "boolean"},
        "options": {"type": "array"},
        "condition": {
          "type": "object",
          "required": ["field", "operator"],
          "properties": {
            "field": {"type": "string", "minLength": 1},
            "operator": {"enum": ["equals", "notEquals", "isNotEmpty"]}
          }
        },
        "fields": {"$ref": "#/$defs/fieldList"}
      },
      "if": {"properties": {"type": {"enum": ["heading", "separator"]}}},
      "else": {"required": ["name"], "properties": {"name": {"minLength": 1}}}
    }
  }
}`

var (
	metaOnce     sync.Once
	metaCompiled *jsonschema.Schema
	metaErr      error
)

func compiledMetaSchema() (*jsonschema.Schema, error) {
	metaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("block-schema.json", strings.NewReader(documentMetaSchema)); err != nil {
			metaErr = err
			return
		}
		metaCompiled, metaErr = compiler.Compile("block-schema.json")
	})
	return metaCompiled, metaErr
}

// ValidateDocument checks that doc is a well formed block schema document.
// Catalogs call it when templates are registered.
func ValidateDocument(doc map[string]any) error {
	if len(doc) == 0 {
		return fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}
	meta, err := compiledMetaSchema()
	if err != nil {
		return fmt.Errorf("schema: compile meta schema: %w", err)
	}
	// the validator expects values in their JSON decoded form
	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	var decoded any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := meta.Validate(decoded); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("%w: %s", ErrInvalidDocument, describe(validationErr))
		}
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

func describe(err *jsonschema.ValidationError) string {
	var parts []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			location := node.InstanceLocation
			if location == "" {
				location = "/"
			}
			parts = append(parts, location+": "+node.Message)
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return strings.Join(parts, "; ")
}
