package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// ParseOptions controls how seed bodies are rendered.
type ParseOptions struct {
	// Extensions names goldmark extensions ("gfm", "table", "footnote",
	// "typographer", ...). Empty selects GFM, linkify and task lists.
	Extensions []string
	HardWraps  bool
	// SafeMode drops raw HTML from the body.
	SafeMode bool
}

// Renderer renders a markdown body to HTML.
type Renderer interface {
	Parse(markdown []byte) ([]byte, error)
}

// GoldmarkParser renders seed bodies with goldmark. The engine for its
// default options is built once; it is safe for concurrent use.
type GoldmarkParser struct {
	defaults ParseOptions
	engine   goldmark.Markdown
}

// NewGoldmarkParser returns a parser rendering with defaults unless
// ParseWithOptions overrides them.
func NewGoldmarkParser(defaults ParseOptions) *GoldmarkParser {
	return &GoldmarkParser{defaults: defaults, engine: buildEngine(defaults)}
}

// Parse renders markdown with the parser defaults.
func (p *GoldmarkParser) Parse(markdown []byte) ([]byte, error) {
	return render(p.engine, markdown)
}

// ParseWithOptions renders markdown with a one-off engine built for opts.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error) {
	return render(buildEngine(opts), markdown)
}

func render(engine goldmark.Markdown, markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown: render body: %w", err)
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}

func buildEngine(opts ParseOptions) goldmark.Markdown {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}
	return goldmark.New(
		goldmark.WithExtensions(extensionsFor(opts.Extensions)...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
	)
}

var namedExtensions = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

var extensionAliases = map[string]string{
	"tables":   "table",
	"autolink": "linkify",
}

// extensionsFor resolves extension names, skipping unknown and repeated ones.
func extensionsFor(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM, extension.Linkify, extension.TaskList}
	}
	seen := make(map[string]bool, len(names))
	out := make([]goldmark.Extender, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if alias, ok := extensionAliases[key]; ok {
			key = alias
		}
		ext, ok := namedExtensions[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ext)
	}
	return out
}
