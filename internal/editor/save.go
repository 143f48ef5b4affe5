package editor

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-composer/internal/blocks"
	"github.com/goliatone/go-composer/internal/logging"
	"github.com/goliatone/go-composer/internal/reconcile"
	"github.com/goliatone/go-composer/pkg/interfaces"
)

const (
	saveKindManual   = "manual"
	saveKindAutosave = "autosave"
)

// SaveResult summarises a save.
type SaveResult struct {
	// Skipped is set when an autosave found nothing new since the last save.
	Skipped    bool
	Mapping    reconcile.Mapping
	Unresolved []blocks.BlockID
	Blocks     int
	// Clean reports that no mutation happened while the save was in flight,
	// so the session is no longer dirty.
	Clean   bool
	SavedAt time.Time
}

// Save persists the draft: page fields first, then the full block list. The
// store response is reconciled into the session. A failure of the page field
// write aborts before blocks are sent; a failure of the block write leaves the
// page fields committed. Manual saves report through the notifier, autosaves
// through the autosave status.
//
// An autosave whose draft equals the last committed state makes no store call.
func (s *Session) Save(ctx context.Context, autoSave bool) (*SaveResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	kind := saveKindManual
	if autoSave {
		kind = saveKindAutosave
	}
	logger := logging.WithPage(s.logger, "", kind)

	s.mu.Lock()
	if s.store == nil {
		s.mu.Unlock()
		return nil, ErrPageStoreMissing
	}
	if autoSave && serializeState(s.blocks, s.pageData) == s.baseline {
		s.mu.Unlock()
		logger.Debug("editor.save.skipped", "reason", "unchanged")
		return &SaveResult{Skipped: true}, nil
	}
	sent := blocks.CloneList(s.blocks)
	pageData := s.pageData.Clone()
	selected := s.selected
	revision := s.revision
	s.inFlight++
	if autoSave {
		s.setStatusLocked(AutosaveSaving)
	}
	s.mu.Unlock()

	logger.Debug("editor.save.started", "blocks", len(sent), "revision", revision)
	outcome, err := s.persist(ctx, sent, pageData, selected)
	if err != nil {
		s.finishFailed(ctx, autoSave, err, logger)
		return nil, err
	}
	return s.finishSaved(ctx, autoSave, revision, pageData, outcome, logger), nil
}

func (s *Session) persist(ctx context.Context, sent []blocks.PlacedBlock, pageData PageData, selected blocks.BlockID) (reconcile.Result, error) {
	if err := s.store.UpdatePageFields(ctx, s.pageID, pageData); err != nil {
		return reconcile.Result{}, &PersistenceError{Step: StepPageFields, Err: err}
	}

	payload := make([]interfaces.BlockPayload, 0, len(sent))
	for _, block := range sent {
		payload = append(payload, interfaces.BlockPayload{
			ID:         block.ID.Permanent(),
			TemplateID: block.TemplateID,
			Config:     block.Config,
			Order:      block.Order,
		})
	}
	returned, err := s.store.ReplaceBlocks(ctx, s.pageID, payload)
	if err != nil {
		return reconcile.Result{}, &PersistenceError{Step: StepBlocks, Err: err}
	}

	return reconcile.Reconcile(reconcile.Input{
		Sent:     sent,
		Returned: returned,
		Catalog:  &catalogLookup{ctx: ctx, session: s},
		Selected: selected,
	}), nil
}

func (s *Session) finishSaved(ctx context.Context, autoSave bool, revision uint64, pageData PageData, outcome reconcile.Result, logger interfaces.Logger) *SaveResult {
	s.mu.Lock()
	s.inFlight--
	clean := s.revision == revision
	if clean {
		s.blocks = outcome.Blocks
		s.selected = outcome.Selected
		s.dirty = false
	} else {
		// edits made during the save stay; only identities and templates move
		outcome.Mapping.Apply(s.blocks)
		for i := range s.blocks {
			if s.blocks[i].Template.HasFullSchema() {
				continue
			}
			if idx := blocks.IndexOf(outcome.Blocks, s.blocks[i].ID); idx >= 0 && outcome.Blocks[idx].Template != nil {
				s.blocks[i].Template = outcome.Blocks[idx].Template.Clone()
			}
		}
		s.selected = reconcile.CarrySelection(s.selected, outcome.Mapping, s.blocks)
	}
	s.history.Remap(outcome.Mapping.Apply)
	s.baseline = serializeState(outcome.Blocks, pageData)
	s.lastSavedAt = s.clock.Now()
	savedAt := s.lastSavedAt
	if autoSave {
		s.setStatusLocked(AutosaveSaved)
	}
	s.mu.Unlock()

	if clean {
		s.dropDraft(revision)
	}
	if len(outcome.Unresolved) > 0 {
		ids := make([]string, 0, len(outcome.Unresolved))
		for _, id := range outcome.Unresolved {
			ids = append(ids, id.String())
		}
		logger.Warn("editor.reconcile.unresolved", "block_ids", ids)
	}
	logger.Info("editor.save.completed", "blocks", len(outcome.Blocks), "mapped", len(outcome.Mapping), "clean", clean)
	if !autoSave && s.notifier != nil {
		s.notifier.Success(ctx, "Page saved")
	}

	return &SaveResult{
		Mapping:    outcome.Mapping,
		Unresolved: outcome.Unresolved,
		Blocks:     len(outcome.Blocks),
		Clean:      clean,
		SavedAt:    savedAt,
	}
}

func (s *Session) finishFailed(ctx context.Context, autoSave bool, err error, logger interfaces.Logger) {
	s.mu.Lock()
	s.inFlight--
	if autoSave {
		s.setStatusLocked(AutosaveError)
	}
	s.mu.Unlock()

	logger.Error("editor.save.failed", "error", err)
	if !autoSave && s.notifier != nil {
		s.notifier.Failure(ctx, "Page save failed", err)
	}
}

// catalogLookup serves templates from the catalog snapshot taken at open and
// lists the catalog again, once, when an id is missing from it.
type catalogLookup struct {
	ctx       context.Context
	session   *Session
	once      sync.Once
	refreshed blocks.TemplateIndex
}

func (c *catalogLookup) Lookup(id string) *blocks.Template {
	if tmpl := c.session.templates.Lookup(id); tmpl != nil {
		return tmpl
	}
	if c.session.catalog == nil {
		return nil
	}
	c.once.Do(func() {
		records, err := c.session.catalog.List(c.ctx)
		if err != nil {
			c.session.logger.Warn("editor.catalog.list_failed", "error", err)
			return
		}
		c.refreshed = blocks.IndexTemplates(records)
	})
	return c.refreshed.Lookup(id)
}
