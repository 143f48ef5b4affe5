package editor

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-composer/internal/blocks"
	"github.com/goliatone/go-composer/internal/logging"
	"github.com/goliatone/go-composer/internal/schema"
	"github.com/goliatone/go-composer/pkg/interfaces"
)

// ErrPageIDRequired is returned when a session is opened without a page.
var ErrPageIDRequired = errors.New("editor: page id required")

// AutosaveStatus is the autosave indicator shown to the operator.
type AutosaveStatus string

const (
	AutosaveIdle   AutosaveStatus = "idle"
	AutosaveSaving AutosaveStatus = "saving"
	AutosaveSaved  AutosaveStatus = "saved"
	AutosaveError  AutosaveStatus = "error"
)

// Seed is the last saved remote state a session starts from.
type Seed struct {
	Blocks   []blocks.PlacedBlock
	PageData PageData
}

// SeedFromSnapshot converts a page store snapshot into a Seed.
func SeedFromSnapshot(snapshot *interfaces.PageSnapshot) Seed {
	if snapshot == nil {
		return Seed{}
	}
	seed := Seed{PageData: PageData(schema.CloneConfig(snapshot.Fields))}
	for _, stored := range snapshot.Blocks {
		seed.Blocks = append(seed.Blocks, blocks.PlacedBlock{
			ID:         blocks.PermanentID(stored.ID),
			TemplateID: stored.TemplateID,
			Config:     schema.CloneConfig(stored.Config),
			Order:      stored.Order,
			Template:   blocks.TemplateFromRecord(stored.Template),
		})
	}
	return seed
}

// State is a read only view of a session.
type State struct {
	PageID         string
	Blocks         []blocks.PlacedBlock
	PageData       PageData
	Selected       blocks.BlockID
	Dirty          bool
	Saving         bool
	AutosaveStatus AutosaveStatus
	HistoryLength  int
	HistoryIndex   int
	CanUndo        bool
	CanRedo        bool
	LastSavedAt    time.Time
	Restored       bool
}

// Session is the in memory draft of one page being edited. All mutations go
// through its methods; it is safe for concurrent use.
type Session struct {
	mu     sync.Mutex
	pageID string
	ctx    context.Context

	clock    Clock
	logger   interfaces.Logger
	store    interfaces.PageStore
	cache    interfaces.DraftCache
	catalog  interfaces.TemplateCatalog
	notifier interfaces.Notifier
	ids      blocks.TempIDSource

	maxHistory      int
	checkpointDelay time.Duration
	autosaveEnabled bool
	autosaveDelay   time.Duration
	savedResetDelay time.Duration

	blocks      []blocks.PlacedBlock
	pageData    PageData
	selected    blocks.BlockID
	dirty       bool
	inFlight    int
	status      AutosaveStatus
	history     *History
	revision    uint64
	baseline    string
	lastSavedAt time.Time
	restored    bool
	closed      bool
	templates   blocks.TemplateIndex

	configCheckpoint *Debouncer
	pageCheckpoint   *Debouncer
	autosave         *Debouncer
	statusReset      Timer

	mirrorMu sync.Mutex
	mirrored uint64
}

// Open starts a session for pageID. A draft found in the durable cache takes
// precedence over seed and leaves the session dirty; otherwise seed becomes
// the first history entry and the session is clean.
func Open(ctx context.Context, pageID string, seed Seed, opts ...Option) (*Session, error) {
	pageID = strings.TrimSpace(pageID)
	if pageID == "" {
		return nil, ErrPageIDRequired
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s := &Session{
		pageID:          pageID,
		ctx:             context.WithoutCancel(ctx),
		clock:           SystemClock(),
		logger:          logging.NoOp(),
		maxHistory:      MaxHistory,
		checkpointDelay: DefaultCheckpointDelay,
		autosaveDelay:   DefaultAutosaveDelay,
		savedResetDelay: DefaultSavedResetDelay,
		status:          AutosaveIdle,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.logger = logging.WithPage(s.logger, pageID, "")
	s.history = NewHistory(s.maxHistory)
	s.configCheckpoint = NewDebouncer(&s.mu, s.clock, s.checkpointDelay, s.fireCheckpoint)
	s.pageCheckpoint = NewDebouncer(&s.mu, s.clock, s.checkpointDelay, s.fireCheckpoint)
	s.autosave = NewDebouncer(&s.mu, s.clock, s.autosaveDelay, s.fireAutosave)

	s.templates = s.loadCatalog(ctx)
	s.blocks = s.prepareBlocks(seed.Blocks, nil)
	s.pageData = seed.PageData.Clone()
	if s.pageData == nil {
		s.pageData = PageData{}
	}
	s.baseline = serializeState(s.blocks, s.pageData)

	if draft := s.loadDraft(ctx); draft != nil {
		s.blocks = s.prepareBlocks(draftBlocks(draft.Blocks), seed.Blocks)
		s.pageData = PageData(schema.CloneConfig(draft.PageData))
		if s.pageData == nil {
			s.pageData = PageData{}
		}
		s.dirty = true
		s.restored = true
		s.logger.Info("editor.session.restored", "blocks", len(s.blocks), "draft_timestamp", draft.Timestamp)
	}
	s.history.Reset(s.snapshotLocked())
	if s.dirty && s.autosaveEnabled {
		s.mu.Lock()
		s.autosave.Trigger()
		s.mu.Unlock()
	}
	s.logger.Debug("editor.session.opened", "blocks", len(s.blocks), "dirty", s.dirty)
	return s, nil
}

func (s *Session) loadCatalog(ctx context.Context) blocks.TemplateIndex {
	if s.catalog == nil {
		return nil
	}
	records, err := s.catalog.List(ctx)
	if err != nil {
		s.logger.Warn("editor.catalog.list_failed", "error", err)
		return nil
	}
	return blocks.IndexTemplates(records)
}

func (s *Session) loadDraft(ctx context.Context) *interfaces.DraftSnapshot {
	if s.cache == nil {
		return nil
	}
	draft, found, err := s.cache.Get(ctx, s.pageID)
	if err != nil {
		s.logger.Warn("editor.draft.read_failed", "error", err)
		return nil
	}
	if !found || draft == nil {
		return nil
	}
	return draft
}

func draftBlocks(list []interfaces.DraftBlock) []blocks.PlacedBlock {
	out := make([]blocks.PlacedBlock, 0, len(list))
	for _, entry := range list {
		block := blocks.PlacedBlock{
			TemplateID: entry.TemplateID,
			Config:     schema.CloneConfig(entry.Config),
			Order:      entry.Order,
		}
		if entry.ID != "" {
			block.ID = blocks.PermanentID(entry.ID)
		}
		out = append(out, block)
	}
	return out
}

// prepareBlocks sorts by order, renumbers, mints ids for blocks that have
// none, attaches templates and normalizes configs.
func (s *Session) prepareBlocks(list []blocks.PlacedBlock, known []blocks.PlacedBlock) []blocks.PlacedBlock {
	out := blocks.CloneList(list)
	if out == nil {
		out = []blocks.PlacedBlock{}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	blocks.Renumber(out)

	byTemplate := make(map[string]*blocks.Template)
	for _, block := range known {
		if block.Template != nil {
			byTemplate[block.TemplateID] = block.Template
		}
	}
	for i := range out {
		if out[i].ID.IsZero() {
			out[i].ID = s.ids.Next()
		}
		if out[i].Template == nil {
			if tmpl := byTemplate[out[i].TemplateID]; tmpl != nil {
				out[i].Template = tmpl.Clone()
			} else if tmpl := s.templates.Lookup(out[i].TemplateID); tmpl != nil {
				out[i].Template = tmpl.Clone()
			}
		}
		if out[i].Config == nil {
			out[i].Config = map[string]any{}
		}
		out[i].Config = blocks.NormalizedConfig(out[i].Config, out[i].Template)
	}
	return out
}

// PageID returns the page the session edits.
func (s *Session) PageID() string {
	return s.pageID
}

// State returns a deep copy of the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		PageID:         s.pageID,
		Blocks:         blocks.CloneList(s.blocks),
		PageData:       s.pageData.Clone(),
		Selected:       s.selected,
		Dirty:          s.dirty,
		Saving:         s.inFlight > 0,
		AutosaveStatus: s.status,
		HistoryLength:  s.history.Len(),
		HistoryIndex:   s.history.Index(),
		CanUndo:        s.history.CanUndo() || s.checkpointPendingLocked(),
		CanRedo:        s.history.CanRedo() && !s.checkpointPendingLocked(),
		LastSavedAt:    s.lastSavedAt,
		Restored:       s.restored,
	}
}

// CanUndo reports whether Undo would move the draft.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo() || s.checkpointPendingLocked()
}

// CanRedo reports whether Redo would move the draft.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo() && !s.checkpointPendingLocked()
}

// Close cancels every pending timer. Later mutations return
// ErrSessionClosed; an in flight save still completes.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.configCheckpoint.Cancel()
	s.pageCheckpoint.Cancel()
	s.autosave.Cancel()
	if s.statusReset != nil {
		s.statusReset.Stop()
		s.statusReset = nil
	}
	s.logger.Debug("editor.session.closed", "dirty", s.dirty)
	return nil
}

// mutate runs fn under the session lock and, when it succeeds, marks the
// draft dirty, arms autosave and mirrors the draft to the durable cache.
func (s *Session) mutate(fn func() error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if err := fn(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.revision++
	s.dirty = true
	if s.autosaveEnabled {
		s.autosave.Trigger()
	}
	draft, revision := s.draftLocked(), s.revision
	s.mu.Unlock()

	s.mirror(draft, revision)
	return nil
}

func (s *Session) snapshotLocked() HistoryEntry {
	return HistoryEntry{Blocks: s.blocks, PageData: s.pageData}
}

func (s *Session) commitLocked() {
	s.history.Commit(s.snapshotLocked())
	s.logger.Trace("editor.checkpoint.committed", "history_length", s.history.Len(), "history_index", s.history.Index())
}

func (s *Session) checkpointPendingLocked() bool {
	return s.configCheckpoint.Pending() || s.pageCheckpoint.Pending()
}

// flushCheckpointsLocked commits a pending debounced checkpoint right away.
func (s *Session) flushCheckpointsLocked() {
	if !s.checkpointPendingLocked() {
		return
	}
	s.configCheckpoint.Cancel()
	s.pageCheckpoint.Cancel()
	s.commitSettledLocked()
}

func (s *Session) fireCheckpoint() func() {
	if s.closed {
		return nil
	}
	s.commitSettledLocked()
	return nil
}

// commitSettledLocked records a debounced checkpoint unless the draft still
// equals the entry at the history index, which happens when an immediate
// commit or the other checkpoint timer already captured the edit.
func (s *Session) commitSettledLocked() {
	if current, ok := s.history.Current(); ok {
		if serializeState(current.Blocks, current.PageData) == serializeState(s.blocks, s.pageData) {
			return
		}
	}
	s.commitLocked()
}

func (s *Session) draftLocked() interfaces.DraftSnapshot {
	draft := interfaces.DraftSnapshot{
		Blocks:    make([]interfaces.DraftBlock, 0, len(s.blocks)),
		PageData:  schema.CloneConfig(s.pageData),
		Timestamp: s.clock.Now().UTC(),
	}
	for _, block := range s.blocks {
		draft.Blocks = append(draft.Blocks, interfaces.DraftBlock{
			ID:         block.ID.Permanent(),
			TemplateID: block.TemplateID,
			Config:     schema.CloneConfig(block.Config),
			Order:      block.Order,
		})
	}
	return draft
}

// mirror writes draft to the durable cache unless a newer revision was
// already written. Cache failures never interrupt editing.
func (s *Session) mirror(draft interfaces.DraftSnapshot, revision uint64) {
	if s.cache == nil {
		return
	}
	s.mirrorMu.Lock()
	defer s.mirrorMu.Unlock()
	if revision <= s.mirrored {
		return
	}
	if err := s.cache.Set(s.ctx, s.pageID, draft); err != nil {
		s.logger.Warn("editor.draft.write_failed", "error", err, "revision", revision)
		return
	}
	s.mirrored = revision
}

// dropDraft removes the cached draft once revision is committed remotely.
func (s *Session) dropDraft(revision uint64) {
	if s.cache == nil {
		return
	}
	s.mirrorMu.Lock()
	defer s.mirrorMu.Unlock()
	if revision < s.mirrored {
		return
	}
	if err := s.cache.Remove(s.ctx, s.pageID); err != nil {
		s.logger.Warn("editor.draft.remove_failed", "error", err)
		return
	}
	s.mirrored = revision
}
