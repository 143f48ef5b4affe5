package interfaces

import (
	"context"
	"time"
)

// DraftBlock is the cached form of a placed block. ID is empty for blocks
// that only carried a session-local identifier.
type DraftBlock struct {
	ID         string         `json:"id,omitempty"`
	TemplateID string         `json:"template_id"`
	Config     map[string]any `json:"config"`
	Order      int            `json:"order"`
}

// DraftSnapshot is an unsaved editor state mirrored for crash recovery.
type DraftSnapshot struct {
	Blocks    []DraftBlock   `json:"blocks"`
	PageData  map[string]any `json:"page_data"`
	Timestamp time.Time      `json:"timestamp"`
}

// DraftCache is a non-authoritative store used to recover unsaved drafts.
// A missing entry is reported with found == false and a nil error.
type DraftCache interface {
	Get(ctx context.Context, pageID string) (snapshot *DraftSnapshot, found bool, err error)
	Set(ctx context.Context, pageID string, snapshot DraftSnapshot) error
	Remove(ctx context.Context, pageID string) error
}
