package interfaces

import "context"

// TemplateRecord describes a block template as exchanged with collaborators.
// ConfigSchema holds the schema document (`fields` or `tabs`) and may be nil
// when a collaborator only returns thin metadata.
type TemplateRecord struct {
	ID            string         `json:"id"`
	Name          string         `json:"name,omitempty"`
	Slug          string         `json:"slug,omitempty"`
	DefaultConfig map[string]any `json:"default_config,omitempty"`
	ConfigSchema  map[string]any `json:"config_schema,omitempty"`
}

// BlockPayload is a block as sent to the page store. ID is empty for blocks
// that were never persisted.
type BlockPayload struct {
	ID         string         `json:"id,omitempty"`
	TemplateID string         `json:"template_id"`
	Config     map[string]any `json:"config"`
	Order      int            `json:"order"`
}

// StoredBlock is a block as returned by the authoritative page store.
type StoredBlock struct {
	ID         string          `json:"id"`
	TemplateID string          `json:"template_id"`
	Config     map[string]any  `json:"config"`
	Order      int             `json:"order"`
	Template   *TemplateRecord `json:"template,omitempty"`
}

// PageSnapshot is the last saved remote state of a page.
type PageSnapshot struct {
	PageID string         `json:"page_id"`
	Fields map[string]any `json:"fields"`
	Blocks []StoredBlock  `json:"blocks"`
}

// PageStore is the authoritative remote store for pages and their blocks.
type PageStore interface {
	LoadPage(ctx context.Context, pageID string) (*PageSnapshot, error)
	UpdatePageFields(ctx context.Context, pageID string, fields map[string]any) error
	// ReplaceBlocks swaps the full block list of a page and returns the
	// stored list including permanent identifiers.
	ReplaceBlocks(ctx context.Context, pageID string, blocks []BlockPayload) ([]StoredBlock, error)
}

// TemplateCatalog lists the block templates available to the editor.
type TemplateCatalog interface {
	List(ctx context.Context) ([]TemplateRecord, error)
}

// Notifier reports the outcome of manual saves to the operator.
type Notifier interface {
	Success(ctx context.Context, message string)
	Failure(ctx context.Context, message string, err error)
}
