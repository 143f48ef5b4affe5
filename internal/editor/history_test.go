package editor_test

import (
	"testing"

	"github.com/goliatone/go-composer/internal/blocks"
	"github.com/goliatone/go-composer/internal/editor"
)

func entry(n int) editor.HistoryEntry {
	return editor.HistoryEntry{PageData: editor.PageData{"n": n}}
}

func TestHistoryCommitTruncatesRedoBranch(t *testing.T) {
	h := editor.NewHistory(10)
	h.Reset(entry(0))
	h.Commit(entry(1))
	h.Commit(entry(2))

	if _, ok := h.Undo(); !ok {
		t.Fatalf("expected undo")
	}
	h.Commit(entry(3))

	if h.CanRedo() {
		t.Fatalf("redo branch should be discarded")
	}
	if h.Len() != 3 || h.Index() != 2 {
		t.Fatalf("expected len 3 index 2, got %d %d", h.Len(), h.Index())
	}
	current, _ := h.Current()
	if current.PageData["n"] != 3 {
		t.Fatalf("expected entry 3 current, got %v", current.PageData)
	}
}

func TestHistoryEvictionKeepsIndexOnNewestEntry(t *testing.T) {
	h := editor.NewHistory(editor.MaxHistory)
	h.Reset(entry(0))
	for i := 1; i <= 60; i++ {
		h.Commit(entry(i))
		if h.Index() != h.Len()-1 {
			t.Fatalf("commit %d: index %d not on newest of %d", i, h.Index(), h.Len())
		}
	}
	if h.Len() != 50 || h.Index() != 49 {
		t.Fatalf("expected len 50 index 49, got %d %d", h.Len(), h.Index())
	}
	current, _ := h.Current()
	if current.PageData["n"] != 60 {
		t.Fatalf("expected newest entry current, got %v", current.PageData)
	}

	// evicting from a rewound position keeps the index inside bounds
	for i := 0; i < 10; i++ {
		h.Undo()
	}
	h.Commit(entry(99))
	if h.Index() != h.Len()-1 || h.Len() != 41 {
		t.Fatalf("unexpected state after rewind commit: len %d index %d", h.Len(), h.Index())
	}
}

func TestHistoryEntriesAreIsolated(t *testing.T) {
	h := editor.NewHistory(5)
	list := []blocks.PlacedBlock{{ID: blocks.TempID(1), Config: map[string]any{"title": "a"}}}
	h.Reset(editor.HistoryEntry{Blocks: list})

	list[0].Config["title"] = "mutated"
	current, _ := h.Current()
	if current.Blocks[0].Config["title"] != "a" {
		t.Fatalf("history shares config with caller")
	}
	current.Blocks[0].Config["title"] = "again"
	again, _ := h.Current()
	if again.Blocks[0].Config["title"] != "a" {
		t.Fatalf("history leaks its entries")
	}
}
