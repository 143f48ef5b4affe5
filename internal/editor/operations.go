package editor

import (
	"maps"

	"github.com/goliatone/go-composer/internal/blocks"
	"github.com/goliatone/go-composer/internal/schema"
)

// AddBlock appends a block built from tmpl, selects it and commits a
// checkpoint. Structural edits first commit any pending debounced checkpoint
// so the preceding edit keeps its own undo step.
func (s *Session) AddBlock(tmpl *blocks.Template) (blocks.BlockID, error) {
	if tmpl == nil || tmpl.ID == "" {
		return blocks.BlockID{}, ErrTemplateRequired
	}
	var id blocks.BlockID
	err := s.mutate(func() error {
		s.flushCheckpointsLocked()
		id = s.ids.Next()
		config := schema.CloneConfig(tmpl.DefaultConfig)
		if config == nil {
			config = map[string]any{}
		}
		s.blocks = append(s.blocks, blocks.PlacedBlock{
			ID:         id,
			TemplateID: tmpl.ID,
			Config:     blocks.NormalizedConfig(config, tmpl),
			Order:      len(s.blocks),
			Template:   tmpl.Clone(),
		})
		s.selected = id
		s.commitLocked()
		s.logger.Debug("editor.block.added", "block_id", id.String(), "template_id", tmpl.ID)
		return nil
	})
	return id, err
}

// UpdateBlockConfig replaces the config of block id. The undo checkpoint is
// debounced so a burst of edits produces one entry.
func (s *Session) UpdateBlockConfig(id blocks.BlockID, config map[string]any) error {
	return s.mutate(func() error {
		idx := blocks.IndexOf(s.blocks, id)
		if idx < 0 {
			return ErrBlockNotFound
		}
		next := schema.CloneConfig(config)
		if next == nil {
			next = map[string]any{}
		}
		s.blocks[idx].Config = blocks.NormalizedConfig(next, s.blocks[idx].Template)
		s.configCheckpoint.Trigger()
		return nil
	})
}

// RemoveBlock deletes block id and commits a checkpoint. Remaining blocks are
// renumbered and the selection is cleared when it pointed at the block.
func (s *Session) RemoveBlock(id blocks.BlockID) error {
	return s.mutate(func() error {
		idx := blocks.IndexOf(s.blocks, id)
		if idx < 0 {
			return ErrBlockNotFound
		}
		s.flushCheckpointsLocked()
		s.blocks = append(s.blocks[:idx:idx], s.blocks[idx+1:]...)
		blocks.Renumber(s.blocks)
		if s.selected == id {
			s.selected = blocks.BlockID{}
		}
		s.commitLocked()
		s.logger.Debug("editor.block.removed", "block_id", id.String())
		return nil
	})
}

// DuplicateBlock inserts a copy of block id right after it, selects the copy
// and commits a checkpoint.
func (s *Session) DuplicateBlock(id blocks.BlockID) (blocks.BlockID, error) {
	var dup blocks.BlockID
	err := s.mutate(func() error {
		idx := blocks.IndexOf(s.blocks, id)
		if idx < 0 {
			return ErrBlockNotFound
		}
		s.flushCheckpointsLocked()
		copied := s.blocks[idx].Clone()
		dup = s.ids.Next()
		copied.ID = dup

		next := make([]blocks.PlacedBlock, 0, len(s.blocks)+1)
		next = append(next, s.blocks[:idx+1]...)
		next = append(next, copied)
		next = append(next, s.blocks[idx+1:]...)
		blocks.Renumber(next)
		s.blocks = next
		s.selected = dup
		s.commitLocked()
		s.logger.Debug("editor.block.duplicated", "block_id", dup.String(), "source_id", id.String())
		return nil
	})
	return dup, err
}

// ReorderBlocks arranges blocks in the order of ids, which must name every
// block exactly once, and commits a checkpoint.
func (s *Session) ReorderBlocks(ids []blocks.BlockID) error {
	return s.mutate(func() error {
		if len(ids) != len(s.blocks) {
			return ErrInvalidOrder
		}
		next := make([]blocks.PlacedBlock, 0, len(ids))
		seen := make(map[blocks.BlockID]bool, len(ids))
		for _, id := range ids {
			idx := blocks.IndexOf(s.blocks, id)
			if idx < 0 || seen[id] {
				return ErrInvalidOrder
			}
			seen[id] = true
			next = append(next, s.blocks[idx])
		}
		s.flushCheckpointsLocked()
		blocks.Renumber(next)
		s.blocks = next
		s.commitLocked()
		return nil
	})
}

// UpdatePageData sets one page level field. The undo checkpoint is debounced
// on its own timer.
func (s *Session) UpdatePageData(field string, value any) error {
	return s.mutate(func() error {
		next := maps.Clone(s.pageData)
		if next == nil {
			next = PageData{}
		}
		next[field] = value
		s.pageData = next
		s.pageCheckpoint.Trigger()
		return nil
	})
}

// Undo restores the previous checkpoint. A pending debounced checkpoint is
// committed first so the settled edit can be redone.
func (s *Session) Undo() error {
	return s.mutate(func() error {
		s.flushCheckpointsLocked()
		entry, ok := s.history.Undo()
		if !ok {
			return ErrNothingToUndo
		}
		s.restoreLocked(entry)
		return nil
	})
}

// Redo re-applies the next checkpoint.
func (s *Session) Redo() error {
	return s.mutate(func() error {
		s.flushCheckpointsLocked()
		entry, ok := s.history.Redo()
		if !ok {
			return ErrNothingToRedo
		}
		s.restoreLocked(entry)
		return nil
	})
}

func (s *Session) restoreLocked(entry HistoryEntry) {
	s.blocks = entry.Blocks
	if s.blocks == nil {
		s.blocks = []blocks.PlacedBlock{}
	}
	s.pageData = entry.PageData
	if s.pageData == nil {
		s.pageData = PageData{}
	}
	if !s.selected.IsZero() && blocks.IndexOf(s.blocks, s.selected) < 0 {
		s.selected = blocks.BlockID{}
	}
}

// Select marks block id as selected. The zero id clears the selection.
func (s *Session) Select(id blocks.BlockID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if !id.IsZero() && blocks.IndexOf(s.blocks, id) < 0 {
		return ErrBlockNotFound
	}
	s.selected = id
	return nil
}
