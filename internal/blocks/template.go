package blocks

import (
	"github.com/goliatone/go-composer/internal/schema"
	"github.com/goliatone/go-composer/pkg/interfaces"
)

// Template is a catalog entry a block is instantiated from.
type Template struct {
	ID            string
	Name          string
	Slug          string
	DefaultConfig map[string]any
	ConfigSchema  map[string]any
}

// HasFullSchema reports whether the template carries a usable field list.
// Thin metadata returned by some stores does not.
func (t *Template) HasFullSchema() bool {
	return t != nil && schema.HasFields(t.ConfigSchema)
}

// Schema parses the template's schema document.
func (t *Template) Schema() *schema.BlockSchema {
	if t == nil {
		return nil
	}
	return schema.Parse(t.ConfigSchema)
}

// Clone deep copies the template.
func (t *Template) Clone() *Template {
	if t == nil {
		return nil
	}
	return &Template{
		ID:            t.ID,
		Name:          t.Name,
		Slug:          t.Slug,
		DefaultConfig: schema.CloneConfig(t.DefaultConfig),
		ConfigSchema:  schema.CloneConfig(t.ConfigSchema),
	}
}

// Record converts the template to its collaborator form.
func (t *Template) Record() interfaces.TemplateRecord {
	if t == nil {
		return interfaces.TemplateRecord{}
	}
	return interfaces.TemplateRecord{
		ID:            t.ID,
		Name:          t.Name,
		Slug:          t.Slug,
		DefaultConfig: schema.CloneConfig(t.DefaultConfig),
		ConfigSchema:  schema.CloneConfig(t.ConfigSchema),
	}
}

// TemplateFromRecord converts a collaborator record. A nil record yields nil.
func TemplateFromRecord(record *interfaces.TemplateRecord) *Template {
	if record == nil {
		return nil
	}
	return &Template{
		ID:            record.ID,
		Name:          record.Name,
		Slug:          record.Slug,
		DefaultConfig: schema.CloneConfig(record.DefaultConfig),
		ConfigSchema:  schema.CloneConfig(record.ConfigSchema),
	}
}

// TemplateIndex looks templates up by id.
type TemplateIndex map[string]*Template

// IndexTemplates builds an index from catalog records.
func IndexTemplates(records []interfaces.TemplateRecord) TemplateIndex {
	index := make(TemplateIndex, len(records))
	for i := range records {
		if records[i].ID == "" {
			continue
		}
		index[records[i].ID] = TemplateFromRecord(&records[i])
	}
	return index
}

// Lookup returns the template for id, or nil.
func (idx TemplateIndex) Lookup(id string) *Template {
	if idx == nil {
		return nil
	}
	return idx[id]
}
