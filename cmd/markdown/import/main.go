package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-composer"
	editorcmd "github.com/goliatone/go-composer/internal/commands/editor"
	"github.com/goliatone/go-composer/pkg/interfaces"
)

var moduleBuilder = func(cfg composer.Config) (*composer.Module, error) {
	return composer.New(cfg)
}

func main() {
	if err := runImport(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("markdown import: %v", err)
	}
}

func runImport(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("markdown-import", flag.ContinueOnError)
	seedDir := fs.String("seed-dir", "seeds", "Directory holding the markdown seed documents")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering seed files")
	recursive := fs.Bool("recursive", true, "Walk sub-directories of the seed directory")
	dsn := fs.String("dsn", "", "SQLite DSN for the page store; empty keeps pages in memory")
	templates := fs.String("templates", "", "JSON file listing the block templates to register")
	dryRun := fs.Bool("dry-run", false, "Parse seeds without saving them")
	logLevel := fs.String("log-level", "warn", "Log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := composer.DefaultConfig()
	cfg.Markdown.Pattern = *pattern
	cfg.Markdown.Recursive = *recursive
	cfg.DraftCache.Provider = "none"
	cfg.Logging.Level = *logLevel
	if strings.TrimSpace(*dsn) != "" {
		cfg.Storage.Provider = "bun"
		cfg.Storage.Dialect = "sqlite"
		cfg.Storage.DSN = *dsn
	}

	module, err := moduleBuilder(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	ctx := context.Background()
	if *templates != "" {
		if err := registerTemplates(ctx, module, *templates); err != nil {
			return err
		}
	}

	sessions, err := module.ImportMarkdownDir(ctx, os.DirFS(*seedDir), ".")
	if err != nil {
		return err
	}

	for _, session := range sessions {
		state := session.State()
		if !*dryRun {
			if err := module.Commands().Save.Execute(ctx, editorcmd.SaveSessionCommand{PageID: state.PageID}); err != nil {
				return fmt.Errorf("save %s: %w", state.PageID, err)
			}
		}
		fmt.Fprintf(out, "%s\t%d blocks\t%d fields\n", state.PageID, len(state.Blocks), len(state.PageData))
	}
	if *dryRun {
		fmt.Fprintf(out, "dry run: %d seeds parsed, nothing saved\n", len(sessions))
	}
	return nil
}

func registerTemplates(ctx context.Context, module *composer.Module, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read templates: %w", err)
	}
	var records []interfaces.TemplateRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return fmt.Errorf("decode templates: %w", err)
	}
	for _, record := range records {
		_, err := module.RegisterTemplate(ctx, composer.RegisterTemplateInput{
			ID:            record.ID,
			Name:          record.Name,
			Slug:          record.Slug,
			DefaultConfig: record.DefaultConfig,
			ConfigSchema:  record.ConfigSchema,
		})
		if err != nil {
			return fmt.Errorf("register template %s: %w", record.Name, err)
		}
	}
	return nil
}
