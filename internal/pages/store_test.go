package pages_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-composer/internal/blocks"
	"github.com/goliatone/go-composer/internal/pages"
	"github.com/goliatone/go-composer/pkg/interfaces"
	"github.com/goliatone/go-composer/pkg/testsupport"
)

func storeFactories(t *testing.T, opts ...pages.Option) map[string]interfaces.PageStore {
	t.Helper()
	db := testsupport.NewSQLiteBunDB(t, pages.Models()...)
	return map[string]interfaces.PageStore{
		"memory": pages.NewMemoryStore(opts...),
		"bun":    pages.NewBunStore(db, opts...),
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, store := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.LoadPage(ctx, "home"); !pages.IsNotFound(err) {
				t.Fatalf("expected not found, got %v", err)
			}
			if err := store.UpdatePageFields(ctx, "home", map[string]any{"title": "Home"}); err != nil {
				t.Fatalf("update fields: %v", err)
			}
			if err := store.UpdatePageFields(ctx, "home", map[string]any{"title": "Start"}); err != nil {
				t.Fatalf("update fields again: %v", err)
			}

			first, err := store.ReplaceBlocks(ctx, "home", []interfaces.BlockPayload{
				{TemplateID: "text", Config: map[string]any{"body": "b"}, Order: 1},
				{TemplateID: "hero", Config: map[string]any{"title": "a"}, Order: 0},
			})
			if err != nil {
				t.Fatalf("replace blocks: %v", err)
			}
			if len(first) != 2 || first[0].TemplateID != "hero" || first[0].ID == "" || first[1].Order != 1 {
				t.Fatalf("unexpected stored blocks %+v", first)
			}

			second, err := store.ReplaceBlocks(ctx, "home", []interfaces.BlockPayload{
				{ID: first[1].ID, TemplateID: "text", Config: map[string]any{"body": "c"}, Order: 0},
				{ID: "not-on-this-page", TemplateID: "hero", Config: map[string]any{}, Order: 1},
			})
			if err != nil {
				t.Fatalf("replace blocks again: %v", err)
			}
			if second[0].ID != first[1].ID {
				t.Fatalf("expected existing id kept, got %s want %s", second[0].ID, first[1].ID)
			}
			if second[1].ID == "not-on-this-page" || second[1].ID == first[0].ID {
				t.Fatalf("expected a fresh id for foreign block, got %s", second[1].ID)
			}

			snapshot, err := store.LoadPage(ctx, "home")
			if err != nil {
				t.Fatalf("load page: %v", err)
			}
			if snapshot.Fields["title"] != "Start" {
				t.Fatalf("expected updated title, got %v", snapshot.Fields["title"])
			}
			if len(snapshot.Blocks) != 2 || snapshot.Blocks[0].Config["body"] != "c" {
				t.Fatalf("unexpected snapshot blocks %+v", snapshot.Blocks)
			}

			empty, err := store.ReplaceBlocks(ctx, "home", nil)
			if err != nil || len(empty) != 0 {
				t.Fatalf("expected empty replace to clear blocks, got %v %v", empty, err)
			}
		})
	}
}

func TestStoreAttachesCatalogTemplates(t *testing.T) {
	ctx := context.Background()
	registry := blocks.NewRegistry()
	hero := registry.MustRegister(blocks.RegisterTemplateInput{
		Name:         "hero",
		ConfigSchema: map[string]any{"fields": []any{"title"}},
	})

	for name, store := range storeFactories(t, pages.WithTemplateCatalog(registry)) {
		t.Run(name, func(t *testing.T) {
			stored, err := store.ReplaceBlocks(ctx, "landing", []interfaces.BlockPayload{
				{TemplateID: hero.ID, Config: map[string]any{"title": "x"}, Order: 0},
				{TemplateID: "unknown", Config: map[string]any{}, Order: 1},
			})
			if err != nil {
				t.Fatalf("replace: %v", err)
			}
			if stored[0].Template == nil || stored[0].Template.Slug != "hero" {
				t.Fatalf("expected template attached, got %+v", stored[0].Template)
			}
			if stored[1].Template != nil {
				t.Fatalf("expected no template for unknown id")
			}
		})
	}
}

func TestStoreRejectsEmptyPageID(t *testing.T) {
	ctx := context.Background()
	for name, store := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.UpdatePageFields(ctx, " ", nil); err != pages.ErrPageIDRequired {
				t.Fatalf("expected ErrPageIDRequired, got %v", err)
			}
		})
	}
}
