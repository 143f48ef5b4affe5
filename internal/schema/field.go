package schema

// FieldType identifies how a configuration field is edited.
type FieldType string

const (
	FieldText      FieldType = "text"
	FieldTextarea  FieldType = "textarea"
	FieldNumber    FieldType = "number"
	FieldSelect    FieldType = "select"
	FieldCheckbox  FieldType = "checkbox"
	FieldColor     FieldType = "color"
	FieldSlider    FieldType = "slider"
	FieldImage     FieldType = "image"
	FieldURL       FieldType = "url"
	FieldRichtext  FieldType = "richtext"
	FieldArray     FieldType = "array"
	FieldRepeater  FieldType = "repeater"
	FieldHeading   FieldType = "heading"
	FieldSeparator FieldType = "separator"
)

// FieldTypes lists every known field type in declaration order.
var FieldTypes = []FieldType{
	FieldText, FieldTextarea, FieldNumber, FieldSelect, FieldCheckbox, FieldColor, FieldSlider,
	FieldImage, FieldURL, FieldRichtext, FieldArray, FieldRepeater, FieldHeading, FieldSeparator,
}

// IsDecorative reports whether the field is layout only and carries no value.
func (t FieldType) IsDecorative() bool {
	return t == FieldHeading || t == FieldSeparator
}

// IsStructural reports whether the field holds a list of nested configs.
func (t FieldType) IsStructural() bool {
	return t == FieldRepeater
}

// Known reports whether t is one of FieldTypes.
func (t FieldType) Known() bool {
	for _, candidate := range FieldTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// Operator is a condition comparison.
type Operator string

const (
	OpEquals     Operator = "equals"
	OpNotEquals  Operator = "notEquals"
	OpIsNotEmpty Operator = "isNotEmpty"
)

// Condition makes a field visible depending on a sibling field's value. It
// never affects what is stored.
type Condition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value,omitempty"`
}

// Option is a choice offered by select fields.
type Option struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// FieldDefinition describes one editable field. Fields is only meaningful for
// repeaters, where it is the item template.
type FieldDefinition struct {
	Name      string            `json:"name"`
	Type      FieldType         `json:"type"`
	Label     string            `json:"label,omitempty"`
	Required  bool              `json:"required,omitempty"`
	Default   any               `json:"default,omitempty"`
	Options   []Option          `json:"options,omitempty"`
	Condition *Condition        `json:"condition,omitempty"`
	Fields    []FieldDefinition `json:"fields,omitempty"`
}

// Tab groups fields under a label.
type Tab struct {
	ID     string            `json:"id"`
	Label  string            `json:"label"`
	Fields []FieldDefinition `json:"fields"`
}

// BlockSchema is the editable shape of a block configuration, either flat or
// grouped into tabs. A loaded schema is treated as immutable.
type BlockSchema struct {
	Fields []FieldDefinition `json:"fields,omitempty"`
	Tabs   []Tab             `json:"tabs,omitempty"`
}

// AllFields returns the flat field list, or the concatenation of every tab's
// fields when the schema is tabbed.
func (s *BlockSchema) AllFields() []FieldDefinition {
	if s == nil {
		return nil
	}
	if len(s.Tabs) == 0 {
		return s.Fields
	}
	out := make([]FieldDefinition, 0, len(s.Fields))
	out = append(out, s.Fields...)
	for _, tab := range s.Tabs {
		out = append(out, tab.Fields...)
	}
	return out
}
