package blocks

import (
	"github.com/goliatone/go-composer/internal/schema"
)

// PlacedBlock is a template instance positioned on a page.
type PlacedBlock struct {
	ID         BlockID
	TemplateID string
	Config     map[string]any
	Order      int
	Template   *Template
}

// Clone deep copies the block, including its config and template.
func (b PlacedBlock) Clone() PlacedBlock {
	b.Config = schema.CloneConfig(b.Config)
	b.Template = b.Template.Clone()
	return b
}

// CloneList deep copies a block list. A nil list stays nil.
func CloneList(list []PlacedBlock) []PlacedBlock {
	if list == nil {
		return nil
	}
	out := make([]PlacedBlock, len(list))
	for i := range list {
		out[i] = list[i].Clone()
	}
	return out
}

// IndexOf returns the position of the block with id, or -1.
func IndexOf(list []PlacedBlock, id BlockID) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

// Renumber rewrites Order so that it equals the slice position.
func Renumber(list []PlacedBlock) {
	for i := range list {
		list[i].Order = i
	}
}

// NormalizedConfig applies the template schema to config when the template
// carries one; otherwise config is returned as is.
func NormalizedConfig(config map[string]any, tmpl *Template) map[string]any {
	if !tmpl.HasFullSchema() {
		return config
	}
	return schema.Normalize(config, tmpl.Schema())
}
