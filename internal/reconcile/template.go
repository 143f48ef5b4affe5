package reconcile

import (
	"github.com/goliatone/go-composer/internal/blocks"
	"github.com/goliatone/go-composer/pkg/interfaces"
)

// TemplateSource names where a reconciled block's template came from.
type TemplateSource string

const (
	SourceServer   TemplateSource = "server"
	SourcePrevious TemplateSource = "previous"
	SourceCatalog  TemplateSource = "catalog"
	SourcePartial  TemplateSource = "partial"
	SourceNone     TemplateSource = "none"
)

// TemplateLookup finds catalog templates by id. blocks.TemplateIndex
// implements it.
type TemplateLookup interface {
	Lookup(id string) *blocks.Template
}

// ResolveTemplate picks the template for a reconciled block: the store's
// template when it carries a full schema, then the previous in memory
// template when it does, then the catalog entry for templateID, and finally
// whatever thin metadata is available. It never fails.
func ResolveTemplate(server *interfaces.TemplateRecord, previous *blocks.Template, catalog TemplateLookup, templateID string) (*blocks.Template, TemplateSource) {
	fromServer := blocks.TemplateFromRecord(server)
	if fromServer.HasFullSchema() {
		return fromServer, SourceServer
	}
	if previous.HasFullSchema() {
		return previous.Clone(), SourcePrevious
	}
	if catalog != nil && templateID != "" {
		if found := catalog.Lookup(templateID); found != nil {
			return found.Clone(), SourceCatalog
		}
	}
	if fromServer != nil {
		return fromServer, SourcePartial
	}
	if previous != nil {
		return previous.Clone(), SourcePartial
	}
	return nil, SourceNone
}
