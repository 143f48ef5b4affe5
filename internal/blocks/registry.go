package blocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-composer/internal/identity"
	"github.com/goliatone/go-composer/internal/schema"
	"github.com/goliatone/go-composer/pkg/interfaces"
	"github.com/goliatone/go-slug"
)

// RegisterTemplateInput describes a template to add to a catalog. ID and Slug
// are derived from Name when empty.
type RegisterTemplateInput struct {
	ID            string
	Name          string
	Slug          string
	DefaultConfig map[string]any
	ConfigSchema  map[string]any
}

// PrepareTemplate validates input and fills derived values: the slug, a
// deterministic id and the default config normalized against the schema.
func PrepareTemplate(input RegisterTemplateInput) (*Template, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTemplateNameRequired
	}
	slugValue := templateSlug(input.Slug, name)
	if len(input.ConfigSchema) > 0 {
		if err := schema.ValidateDocument(input.ConfigSchema); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateSchemaInvalid, slugValue, err)
		}
	}
	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = identity.TemplateUUID(slugValue).String()
	}
	defaults := schema.CloneConfig(input.DefaultConfig)
	if defaults == nil {
		defaults = map[string]any{}
	}
	tmpl := &Template{
		ID:           id,
		Name:         name,
		Slug:         slugValue,
		ConfigSchema: schema.CloneConfig(input.ConfigSchema),
	}
	tmpl.DefaultConfig = NormalizedConfig(defaults, tmpl)
	return tmpl, nil
}

func templateSlug(candidate, name string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		candidate = name
	}
	normalized, err := slug.Default().Normalize(candidate)
	if err != nil || normalized == "" {
		return strings.ToLower(candidate)
	}
	return normalized
}

// Registry is an in memory template catalog.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]*Template
	bySlug map[string]string
}

// NewRegistry constructs an empty catalog.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[string]*Template),
		bySlug: make(map[string]string),
	}
}

// Register adds a template. Registering a slug twice is rejected unless the
// id matches, in which case the entry is replaced.
func (r *Registry) Register(input RegisterTemplateInput) (*Template, error) {
	tmpl, err := PrepareTemplate(input)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.bySlug[tmpl.Slug]; ok && existing != tmpl.ID {
		return nil, fmt.Errorf("%w: %s", ErrTemplateExists, tmpl.Slug)
	}
	r.byID[tmpl.ID] = tmpl
	r.bySlug[tmpl.Slug] = tmpl.ID
	return tmpl.Clone(), nil
}

// MustRegister is Register for static catalogs; it panics on error.
func (r *Registry) MustRegister(input RegisterTemplateInput) *Template {
	tmpl, err := r.Register(input)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// Get returns the template with id.
func (r *Registry) Get(id string) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tmpl, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "template", Key: id}
	}
	return tmpl.Clone(), nil
}

// GetBySlug returns the template registered under slug.
func (r *Registry) GetBySlug(value string) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySlug[templateSlug(value, value)]
	if !ok {
		return nil, &NotFoundError{Resource: "template", Key: value}
	}
	return r.byID[id].Clone(), nil
}

// Templates returns every template ordered by slug.
func (r *Registry) Templates() []*Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Template, 0, len(r.byID))
	for _, tmpl := range r.byID {
		out = append(out, tmpl.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// List implements interfaces.TemplateCatalog.
func (r *Registry) List(_ context.Context) ([]interfaces.TemplateRecord, error) {
	templates := r.Templates()
	out := make([]interfaces.TemplateRecord, 0, len(templates))
	for _, tmpl := range templates {
		out = append(out, tmpl.Record())
	}
	return out, nil
}

var _ interfaces.TemplateCatalog = (*Registry)(nil)
