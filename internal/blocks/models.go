package blocks

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TemplateModel is the persisted form of a catalog template.
type TemplateModel struct {
	bun.BaseModel `bun:"table:composer_templates,alias:ct"`

	ID            uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Name          string         `bun:"name,notnull" json:"name"`
	Slug          string         `bun:"slug,notnull,unique" json:"slug"`
	DefaultConfig map[string]any `bun:"default_config,type:jsonb" json:"default_config,omitempty"`
	ConfigSchema  map[string]any `bun:"config_schema,type:jsonb" json:"config_schema,omitempty"`
	CreatedAt     time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Template converts the model to the domain form.
func (m *TemplateModel) Template() *Template {
	if m == nil {
		return nil
	}
	return &Template{
		ID:            m.ID.String(),
		Name:          m.Name,
		Slug:          m.Slug,
		DefaultConfig: m.DefaultConfig,
		ConfigSchema:  m.ConfigSchema,
	}
}
