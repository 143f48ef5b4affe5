package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// UpdateGoldenEnv names the environment variable that makes WriteGolden
// rewrite golden files instead of leaving them alone.
const UpdateGoldenEnv = "COMPOSER_UPDATE_GOLDEN"

// MustReadFixture returns the bytes of a testdata file or fails the test.
func MustReadFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}

// MustLoadGolden decodes a JSON golden file into v or fails the test.
func MustLoadGolden(tb testing.TB, path string, v any) {
	tb.Helper()
	if err := json.Unmarshal(MustReadFixture(tb, path), v); err != nil {
		tb.Fatalf("decode golden %s: %v", path, err)
	}
}

// WriteGolden stores v as indented JSON at path when UpdateGoldenEnv is set.
// It reports whether the file was written.
func WriteGolden(tb testing.TB, path string, v any) bool {
	tb.Helper()
	if os.Getenv(UpdateGoldenEnv) == "" {
		return false
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		tb.Fatalf("encode golden %s: %v", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("create golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		tb.Fatalf("write golden %s: %v", path, err)
	}
	return true
}
