package markdown_test

import (
	"context"
	"os"
	"testing"

	"github.com/goliatone/go-composer/internal/identity"
	"github.com/goliatone/go-composer/internal/markdown"
)

func TestLoaderLoadDirectory(t *testing.T) {
	loader := markdown.NewLoader(os.DirFS("testdata"), markdown.LoaderConfig{})

	files, err := loader.LoadDirectory(context.Background(), "seeds")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 top-level seeds, got %d", len(files))
	}
	if files[0].Path != "seeds/about.md" || files[1].Path != "seeds/pricing.md" {
		t.Fatalf("unexpected order %s, %s", files[0].Path, files[1].Path)
	}
	if files[0].PageID != identity.PageUUID("about").String() {
		t.Fatalf("expected file name derived page id, got %s", files[0].PageID)
	}
	if files[1].PageID != "pricing-page" {
		t.Fatalf("expected frontmatter page id, got %s", files[1].PageID)
	}
	if len(files[0].Checksum) != 32 || len(files[0].Source) == 0 {
		t.Fatalf("expected checksum and source to be populated")
	}
}

func TestLoaderRecursiveUsesSlug(t *testing.T) {
	loader := markdown.NewLoader(os.DirFS("testdata"), markdown.LoaderConfig{Recursive: true})

	files, err := loader.LoadDirectory(context.Background(), "seeds")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 seeds, got %d", len(files))
	}
	team := files[1]
	if team.Path != "seeds/nested/team.md" {
		t.Fatalf("unexpected second path %s", team.Path)
	}
	if team.PageID == identity.PageUUID("team").String() {
		t.Fatalf("expected slug to win over the file name")
	}
}

func TestLoaderHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := markdown.NewLoader(os.DirFS("testdata"), markdown.LoaderConfig{})
	if _, err := loader.LoadFile(ctx, "home.md"); err == nil {
		t.Fatalf("expected cancelled context error")
	}
}
