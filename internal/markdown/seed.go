package markdown

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-composer/internal/blocks"
	"github.com/goliatone/go-composer/internal/editor"
	"github.com/goliatone/go-composer/internal/logging"
	"github.com/goliatone/go-composer/internal/schema"
	"github.com/goliatone/go-composer/pkg/interfaces"
)

// RichTextTemplate is the template id (or slug) receiving the rendered body.
const RichTextTemplate = "richtext"

var (
	ErrTemplateMissing = errors.New("markdown: seed block has no template")
	ErrUnknownTemplate = errors.New("markdown: unknown block template")
)

// SeedDocument is a parsed seed document.
type SeedDocument struct {
	Seed editor.Seed
	// SkippedFields lists frontmatter keys whose values are not scalars.
	SkippedFields []string
	// BodyDropped is set when the body had content but the catalog has no
	// rich text template to hold it.
	BodyDropped bool
}

var defaultRenderer Renderer = NewGoldmarkParser(ParseOptions{})

// ParseSeed parses source against the given templates.
func ParseSeed(source []byte, templates blocks.TemplateIndex) (*SeedDocument, error) {
	return buildSeed(source, templates, defaultRenderer)
}

func buildSeed(source []byte, templates blocks.TemplateIndex, renderer Renderer) (*SeedDocument, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	pageData, skipped := fm.ScalarFields()
	doc := &SeedDocument{
		Seed:          editor.Seed{PageData: editor.PageData(pageData)},
		SkippedFields: skipped,
	}

	for i, entry := range fm.Blocks {
		key := strings.TrimSpace(entry.Template)
		if key == "" {
			return nil, fmt.Errorf("%w: entry %d", ErrTemplateMissing, i)
		}
		tmpl := findTemplate(templates, key)
		if tmpl == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, key)
		}
		doc.Seed.Blocks = append(doc.Seed.Blocks, placeSeedBlock(tmpl, entry.Config, len(doc.Seed.Blocks)))
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return doc, nil
	}
	tmpl := findTemplate(templates, RichTextTemplate)
	if tmpl == nil {
		doc.BodyDropped = true
		return doc, nil
	}
	html, err := renderer.Parse(body)
	if err != nil {
		return nil, err
	}
	content := map[string]any{"content": string(html)}
	doc.Seed.Blocks = append(doc.Seed.Blocks, placeSeedBlock(tmpl, content, len(doc.Seed.Blocks)))
	return doc, nil
}

func findTemplate(templates blocks.TemplateIndex, key string) *blocks.Template {
	if tmpl := templates.Lookup(key); tmpl != nil {
		return tmpl
	}
	for _, tmpl := range templates {
		if tmpl != nil && tmpl.Slug == key {
			return tmpl
		}
	}
	return nil
}

// placeSeedBlock overlays config on the template defaults.
func placeSeedBlock(tmpl *blocks.Template, config map[string]any, order int) blocks.PlacedBlock {
	merged := schema.CloneConfig(tmpl.DefaultConfig)
	if merged == nil {
		merged = map[string]any{}
	}
	for key, value := range config {
		merged[key] = value
	}
	return blocks.PlacedBlock{
		TemplateID: tmpl.ID,
		Config:     blocks.NormalizedConfig(merged, tmpl),
		Order:      order,
		Template:   tmpl.Clone(),
	}
}

// Importer parses seeds against a live template catalog.
type Importer struct {
	catalog  interfaces.TemplateCatalog
	renderer Renderer
	logger   interfaces.Logger
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithRenderer replaces the goldmark renderer used for bodies.
func WithRenderer(renderer Renderer) ImporterOption {
	return func(i *Importer) {
		if renderer != nil {
			i.renderer = renderer
		}
	}
}

// WithLogger sets the importer logger.
func WithLogger(logger interfaces.Logger) ImporterOption {
	return func(i *Importer) {
		i.logger = logging.Ensure(logger)
	}
}

// NewImporter returns an importer resolving templates through catalog. A nil
// catalog only accepts seeds without blocks or body.
func NewImporter(catalog interfaces.TemplateCatalog, opts ...ImporterOption) *Importer {
	importer := &Importer{
		catalog:  catalog,
		renderer: defaultRenderer,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(importer)
		}
	}
	return importer
}

// Import lists the catalog and parses source against it.
func (i *Importer) Import(ctx context.Context, source []byte) (*SeedDocument, error) {
	var records []interfaces.TemplateRecord
	if i.catalog != nil {
		listed, err := i.catalog.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("markdown: list templates: %w", err)
		}
		records = listed
	}

	doc, err := buildSeed(source, blocks.IndexTemplates(records), i.renderer)
	if err != nil {
		i.logger.Warn("markdown.seed.rejected", "error", err)
		return nil, err
	}
	if len(doc.SkippedFields) > 0 {
		i.logger.Debug("markdown.seed.fields_skipped", "fields", doc.SkippedFields)
	}
	if doc.BodyDropped {
		i.logger.Warn("markdown.seed.body_dropped", "template", RichTextTemplate)
	}
	i.logger.Info("markdown.seed.parsed", "blocks", len(doc.Seed.Blocks), "page_fields", len(doc.Seed.PageData))
	return doc, nil
}
