package blocks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-composer/internal/blocks"
	"github.com/goliatone/go-composer/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
)

func TestBunTemplateRepositoryWithCache(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewSQLiteBunDB(t, (*blocks.TemplateModel)(nil))

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	repo := blocks.NewBunTemplateRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer())

	hero, err := repo.Register(ctx, heroInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := repo.Register(ctx, blocks.RegisterTemplateInput{Name: "Divider"}); err != nil {
		t.Fatalf("register divider: %v", err)
	}

	loaded, err := repo.Get(ctx, hero.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !loaded.HasFullSchema() || loaded.Slug != "hero-banner" {
		t.Fatalf("unexpected template %+v", loaded)
	}
	if _, err := repo.Get(ctx, hero.ID); err != nil {
		t.Fatalf("cached get: %v", err)
	}

	input := heroInput()
	input.DefaultConfig = map[string]any{"title": "Updated"}
	updated, err := repo.Register(ctx, input)
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if updated.ID != hero.ID || updated.DefaultConfig["title"] != "Updated" {
		t.Fatalf("expected update in place, got %+v", updated)
	}

	bySlug, err := repo.GetBySlug(ctx, "hero-banner")
	if err != nil || bySlug.ID != hero.ID {
		t.Fatalf("get by slug: %v %+v", err, bySlug)
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 || records[0].Slug != "divider" {
		t.Fatalf("unexpected catalog %+v", records)
	}

	var nf *blocks.NotFoundError
	if _, err := repo.GetBySlug(ctx, "missing"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
