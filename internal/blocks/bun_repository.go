package blocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-composer/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunTemplateRepository is a SQL backed template catalog with optional
// caching.
type BunTemplateRepository struct {
	repo repository.Repository[*TemplateModel]
	// store bypasses the cache for the lookups that guard writes.
	store repository.Repository[*TemplateModel]
	now   func() time.Time
}

// NewBunTemplateRepository creates a template repository without caching.
func NewBunTemplateRepository(db *bun.DB) *BunTemplateRepository {
	return NewBunTemplateRepositoryWithCache(db, nil, nil)
}

// NewBunTemplateRepositoryWithCache creates a template repository with caching services.
func NewBunTemplateRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunTemplateRepository {
	base := NewTemplateRepository(db)
	repo := base
	if cacheService != nil && serializer != nil {
		repo = repositorycache.New(base, cacheService, serializer)
	}
	return &BunTemplateRepository{repo: repo, store: base, now: time.Now}
}

// Register validates input and inserts the template, or updates the row that
// already holds its slug.
func (r *BunTemplateRepository) Register(ctx context.Context, input RegisterTemplateInput) (*Template, error) {
	tmpl, err := PrepareTemplate(input)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(tmpl.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: template id %q is not a uuid", ErrTemplateSchemaInvalid, tmpl.ID)
	}
	model := &TemplateModel{
		ID:            id,
		Name:          tmpl.Name,
		Slug:          tmpl.Slug,
		DefaultConfig: tmpl.DefaultConfig,
		ConfigSchema:  tmpl.ConfigSchema,
		UpdatedAt:     r.now().UTC(),
	}

	existing, err := r.getBySlug(ctx, r.store, tmpl.Slug)
	if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
		model.CreatedAt = model.UpdatedAt
		created, err := r.repo.Create(ctx, model)
		if err != nil {
			return nil, fmt.Errorf("template repository error: %w", err)
		}
		return created.Template(), nil
	}

	if existing.ID != model.ID {
		return nil, fmt.Errorf("%w: %s", ErrTemplateExists, tmpl.Slug)
	}
	updated, err := r.repo.Update(ctx, model,
		repository.UpdateByID(model.ID.String()),
		repository.UpdateColumns("name", "default_config", "config_schema", "updated_at"),
	)
	if err != nil {
		return nil, fmt.Errorf("template repository error: %w", err)
	}
	return updated.Template(), nil
}

// Get returns the template with id.
func (r *BunTemplateRepository) Get(ctx context.Context, id string) (*Template, error) {
	record, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err, "template", id)
	}
	return record.Template(), nil
}

// GetBySlug returns the template stored under slug.
func (r *BunTemplateRepository) GetBySlug(ctx context.Context, value string) (*Template, error) {
	record, err := r.getBySlug(ctx, r.repo, templateSlug(value, value))
	if err != nil {
		return nil, err
	}
	return record.Template(), nil
}

func (r *BunTemplateRepository) getBySlug(ctx context.Context, repo repository.Repository[*TemplateModel], value string) (*TemplateModel, error) {
	records, _, err := repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", value)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "template", value)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "template", Key: value}
	}
	return records[0], nil
}

// Delete removes the template with id.
func (r *BunTemplateRepository) Delete(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return &NotFoundError{Resource: "template", Key: id}
	}
	return r.repo.Delete(ctx, &TemplateModel{ID: parsed})
}

// List implements interfaces.TemplateCatalog, ordered by slug.
func (r *BunTemplateRepository) List(ctx context.Context) ([]interfaces.TemplateRecord, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.slug ASC")
	}))
	if err != nil {
		return nil, mapRepositoryError(err, "template", "")
	}
	out := make([]interfaces.TemplateRecord, 0, len(records))
	for _, record := range records {
		out = append(out, record.Template().Record())
	}
	return out, nil
}

var _ interfaces.TemplateCatalog = (*BunTemplateRepository)(nil)

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}
