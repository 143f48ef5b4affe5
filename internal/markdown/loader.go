package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-composer/internal/identity"
)

// LoaderConfig configures seed discovery.
type LoaderConfig struct {
	// Pattern limits discovered files (defaults to "*.md"). Patterns without a
	// slash match the file name only.
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// SeedFile is a seed document read from a filesystem.
type SeedFile struct {
	Path string
	// PageID is the frontmatter `page_id` when present, otherwise a
	// deterministic id derived from the frontmatter `slug` or the file name.
	PageID   string
	Source   []byte
	Checksum []byte
	Modified time.Time
}

// Loader reads seed documents from a filesystem.
type Loader struct {
	fs        fs.FS
	pattern   string
	recursive bool
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}
	return &Loader{fs: filesystem, pattern: pattern, recursive: cfg.Recursive}
}

// LoadFile reads a single seed document.
func (l *Loader) LoadFile(ctx context.Context, name string) (*SeedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name = path.Clean(strings.TrimPrefix(name, "/"))
	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", name, err)
	}
	info, err := fs.Stat(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", name, err)
	}
	fm, _, err := ParseFrontMatter(data)
	if err != nil {
		return nil, fmt.Errorf("markdown loader %s: %w", name, err)
	}

	sum := sha256.Sum256(data)
	return &SeedFile{
		Path:     name,
		PageID:   seedPageID(name, fm),
		Source:   data,
		Checksum: sum[:],
		Modified: info.ModTime(),
	}, nil
}

// LoadDirectory reads every matching seed under dir, sorted by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*SeedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := path.Clean(strings.TrimPrefix(dir, "/"))
	if root == "" {
		root = "."
	}

	var results []*SeedFile
	walkErr := fs.WalkDir(l.fs, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if current != root && !l.recursive {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !l.matches(current) {
			return nil
		}
		result, err := l.LoadFile(ctx, current)
		if err != nil {
			return err
		}
		results = append(results, result)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results, nil
}

func (l *Loader) matches(name string) bool {
	pattern := strings.ReplaceAll(l.pattern, "**/", "")
	target := name
	if !strings.Contains(pattern, "/") {
		target = path.Base(name)
	}
	match, err := path.Match(pattern, target)
	return err == nil && match
}

func seedPageID(name string, fm FrontMatter) string {
	if id, ok := fm.Fields["page_id"].(string); ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id)
	}
	key, _ := fm.Fields["slug"].(string)
	if strings.TrimSpace(key) == "" {
		key = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}
	if normalized, err := slug.Default().Normalize(key); err == nil && normalized != "" {
		key = normalized
	}
	return identity.PageUUID(key).String()
}
