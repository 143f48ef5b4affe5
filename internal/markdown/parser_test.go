package markdown

import (
	"strings"
	"testing"
)

func TestGoldmarkParser_Parse(t *testing.T) {
	parser := NewGoldmarkParser(ParseOptions{})

	html, err := parser.Parse([]byte("# Heading\n\nHello **world**"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := string(html)
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Heading</h1>") {
		t.Fatalf("expected rendered HTML to include <h1>Heading</h1>, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected rendered HTML to include <strong>, got %q", got)
	}
}

func TestGoldmarkParser_ParseWithOptions(t *testing.T) {
	parser := NewGoldmarkParser(ParseOptions{})

	html, err := parser.ParseWithOptions([]byte("line one\nline two"), ParseOptions{
		HardWraps: true,
	})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}

	if !strings.Contains(string(html), "line one<br>") {
		t.Fatalf("expected hard wraps in HTML output, got %q", string(html))
	}
}

func TestGoldmarkParser_SafeModeDropsRawHTML(t *testing.T) {
	parser := NewGoldmarkParser(ParseOptions{SafeMode: true})

	html, err := parser.Parse([]byte("<script>alert(1)</script>\n\ntext"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if strings.Contains(string(html), "<script>") {
		t.Fatalf("expected raw HTML to be omitted, got %q", string(html))
	}
}

func TestExtensionsForResolvesAliasesOnce(t *testing.T) {
	got := extensionsFor([]string{"Tables", "table", " autolink ", "unknown", ""})
	if len(got) != 2 {
		t.Fatalf("expected table and linkify only, got %d extensions", len(got))
	}
	if len(extensionsFor(nil)) != 3 {
		t.Fatalf("expected the default extension set")
	}
}

func TestGoldmarkParser_TypographerOnRequest(t *testing.T) {
	parser := NewGoldmarkParser(ParseOptions{})

	plain, err := parser.Parse([]byte("wait -- what"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fancy, err := parser.ParseWithOptions([]byte("wait -- what"), ParseOptions{Extensions: []string{"typographer"}})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if !strings.Contains(string(plain), "--") || strings.Contains(string(fancy), " -- ") {
		t.Fatalf("expected dashes replaced only with typographer, got %q and %q", plain, fancy)
	}
}

func TestNormalizeYAMLConvertsNestedMaps(t *testing.T) {
	input := map[any]any{
		"outer": map[any]any{"inner": []any{map[any]any{1: "one"}}},
	}

	out, ok := normalizeYAML(input).(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", normalizeYAML(input))
	}
	outer := out["outer"].(map[string]any)
	list := outer["inner"].([]any)
	if list[0].(map[string]any)["1"] != "one" {
		t.Fatalf("unexpected nested conversion %#v", out)
	}
}
