package editor

import (
	"github.com/goliatone/go-composer/internal/blocks"
	"github.com/goliatone/go-composer/internal/schema"
)

// MaxHistory is the default number of undo checkpoints kept per session.
const MaxHistory = 50

// PageData holds the page level scalar fields of a draft.
type PageData map[string]any

// Clone deep copies the page data.
func (p PageData) Clone() PageData {
	return PageData(schema.CloneConfig(p))
}

// HistoryEntry is an immutable snapshot of a draft.
type HistoryEntry struct {
	Blocks   []blocks.PlacedBlock
	PageData PageData
}

func (e HistoryEntry) clone() HistoryEntry {
	return HistoryEntry{Blocks: blocks.CloneList(e.Blocks), PageData: e.PageData.Clone()}
}

// History is a bounded linear undo stack. It is not safe for concurrent use.
type History struct {
	entries []HistoryEntry
	index   int
	max     int
}

// NewHistory returns an empty history keeping at most max entries.
func NewHistory(max int) *History {
	if max < 1 {
		max = MaxHistory
	}
	return &History{index: -1, max: max}
}

// Reset replaces the history with a single entry.
func (h *History) Reset(entry HistoryEntry) {
	h.entries = []HistoryEntry{entry.clone()}
	h.index = 0
}

// Commit drops the redo branch, appends entry and points at it. When the cap
// is exceeded the oldest entry is evicted; the index always ends on the entry
// just appended.
func (h *History) Commit(entry HistoryEntry) {
	h.entries = append(h.entries[:h.index+1], entry.clone())
	if overflow := len(h.entries) - h.max; overflow > 0 {
		h.entries = append(h.entries[:0], h.entries[overflow:]...)
	}
	h.index = len(h.entries) - 1
}

// Current returns a copy of the entry at the index.
func (h *History) Current() (HistoryEntry, bool) {
	if h.index < 0 {
		return HistoryEntry{}, false
	}
	return h.entries[h.index].clone(), true
}

// Undo moves back one entry and returns it.
func (h *History) Undo() (HistoryEntry, bool) {
	if !h.CanUndo() {
		return HistoryEntry{}, false
	}
	h.index--
	return h.entries[h.index].clone(), true
}

// Redo moves forward one entry and returns it.
func (h *History) Redo() (HistoryEntry, bool) {
	if !h.CanRedo() {
		return HistoryEntry{}, false
	}
	h.index++
	return h.entries[h.index].clone(), true
}

func (h *History) CanUndo() bool { return h.index > 0 }

func (h *History) CanRedo() bool { return h.index >= 0 && h.index < len(h.entries)-1 }

func (h *History) Len() int { return len(h.entries) }

func (h *History) Index() int { return h.index }

// Remap rewrites block ids in every entry, so undo after a save restores
// blocks under their permanent ids.
func (h *History) Remap(apply func([]blocks.PlacedBlock) int) {
	for i := range h.entries {
		apply(h.entries[i].Blocks)
	}
}
