package markdown

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the decoded header of a seed document.
type FrontMatter struct {
	// Fields holds every key except `blocks`, with nested YAML maps converted
	// to map[string]any.
	Fields map[string]any
	Blocks []SeedBlock
}

// SeedBlock is one entry of the frontmatter `blocks` list. Template is
// matched against the catalog by id first, then by slug.
type SeedBlock struct {
	Template string
	Config   map[string]any
}

// ParseFrontMatter splits source into its frontmatter and markdown body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var env frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &env)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	fm := FrontMatter{Fields: make(map[string]any, len(env.Fields))}
	for key, value := range env.Fields {
		fm.Fields[key] = normalizeYAML(value)
	}
	for _, block := range env.Blocks {
		config, _ := normalizeYAML(block.Config).(map[string]any)
		fm.Blocks = append(fm.Blocks, SeedBlock{Template: block.Template, Config: config})
	}
	return fm, body, nil
}

// ScalarFields returns the frontmatter keys whose values are scalars, plus the
// sorted names of the keys that were left out.
func (fm FrontMatter) ScalarFields() (map[string]any, []string) {
	scalars := make(map[string]any, len(fm.Fields))
	var skipped []string
	for key, value := range fm.Fields {
		switch v := value.(type) {
		case nil, string, bool, int, int64, uint64, float64:
			scalars[key] = v
		case time.Time:
			scalars[key] = v.UTC().Format(time.RFC3339)
		default:
			skipped = append(skipped, key)
		}
	}
	sort.Strings(skipped)
	return scalars, skipped
}

type frontMatterEnvelope struct {
	Blocks []blockEnvelope `yaml:"blocks"`
	Fields map[string]any  `yaml:",inline"`
}

type blockEnvelope struct {
	Template string `yaml:"template"`
	Config   any    `yaml:"config"`
}

// normalizeYAML converts the map[any]any values produced by the YAML decoder
// into map[string]any, recursively.
func normalizeYAML(value any) any {
	switch v := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalizeYAML(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalizeYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return v
	}
}
