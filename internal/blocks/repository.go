package blocks

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewTemplateRepository creates a repository for TemplateModel records.
func NewTemplateRepository(db *bun.DB) repository.Repository[*TemplateModel] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*TemplateModel]{
		NewRecord:          func() *TemplateModel { return &TemplateModel{} },
		GetID:              func(m *TemplateModel) uuid.UUID { return m.ID },
		SetID:              func(m *TemplateModel, id uuid.UUID) { m.ID = id },
		GetIdentifier:      func() string { return "slug" },
		GetIdentifierValue: func(m *TemplateModel) string { return m.Slug },
	})
}
