package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goliatone/go-composer"
)

func main() {
	ctx := context.Background()

	cfg := composer.DefaultConfig()
	cfg.Storage.Provider = "bun"
	cfg.Storage.Dialect = "sqlite"
	cfg.Storage.DSN = "file:composer_example?mode=memory&cache=shared"
	cfg.DraftCache.Provider = "bun"
	cfg.Cache.Enabled = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "console"
	cfg.Logging.Level = "info"
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.DraftCache.Provider = "redis"
		cfg.DraftCache.RedisAddr = addr
	}

	module, err := composer.New(cfg)
	if err != nil {
		log.Fatalf("composer: %v", err)
	}
	defer module.Close()

	hero, err := module.RegisterTemplate(ctx, composer.RegisterTemplateInput{
		Name:          "Hero",
		DefaultConfig: map[string]any{"title": "Welcome", "links": []any{}},
		ConfigSchema: map[string]any{
			"tabs": []any{
				map[string]any{"id": "content", "label": "Content", "fields": []any{
					map[string]any{"name": "title", "type": "text"},
					map[string]any{"name": "links", "type": "repeater", "fields": []any{
						map[string]any{"name": "label", "type": "text"},
						map[string]any{"name": "url", "type": "text"},
					}},
				}},
			},
		},
	})
	if err != nil {
		log.Fatalf("register hero: %v", err)
	}
	if _, err := module.RegisterTemplate(ctx, composer.RegisterTemplateInput{
		Name:          "Rich text",
		Slug:          "richtext",
		DefaultConfig: map[string]any{"content": ""},
	}); err != nil {
		log.Fatalf("register richtext: %v", err)
	}

	seed := []byte(`---
title: Landing
blocks:
  - template: hero
    config:
      title: Compose pages from blocks
---
Pages are *lists of blocks*. Edit them, undo, redo, save.
`)
	session, err := module.ImportMarkdown(ctx, "landing", seed)
	if err != nil {
		log.Fatalf("import: %v", err)
	}

	duplicate, err := session.DuplicateBlock(session.State().Blocks[0].ID)
	if err != nil {
		log.Fatalf("duplicate: %v", err)
	}
	if err := session.UpdateBlockConfig(duplicate, map[string]any{
		"title": "Second hero",
		"links": []any{map[string]any{"label": "Docs"}},
	}); err != nil {
		log.Fatalf("update: %v", err)
	}
	if _, err := session.AddBlock(hero); err != nil {
		log.Fatalf("add: %v", err)
	}
	if err := session.Undo(); err != nil {
		log.Fatalf("undo: %v", err)
	}
	// let the debounced config checkpoint settle before saving
	time.Sleep(cfg.Editor.CheckpointDelay + 50*time.Millisecond)

	result, err := module.Save(ctx, "landing")
	if err != nil {
		log.Fatalf("save: %v", err)
	}
	fmt.Printf("saved %d blocks, %d ids mapped\n", result.Blocks, len(result.Mapping))

	printState(session.State())
}

func printState(state composer.State) {
	type block struct {
		ID       string         `json:"id"`
		Template string         `json:"template_id"`
		Order    int            `json:"order"`
		Config   map[string]any `json:"config"`
	}
	out := struct {
		PageID   string         `json:"page_id"`
		PageData map[string]any `json:"page_data"`
		Blocks   []block        `json:"blocks"`
		Dirty    bool           `json:"dirty"`
		CanUndo  bool           `json:"can_undo"`
	}{PageID: state.PageID, PageData: state.PageData, Dirty: state.Dirty, CanUndo: state.CanUndo}
	for _, b := range state.Blocks {
		out.Blocks = append(out.Blocks, block{ID: b.ID.String(), Template: b.TemplateID, Order: b.Order, Config: b.Config})
	}
	encoded, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(encoded))
}
