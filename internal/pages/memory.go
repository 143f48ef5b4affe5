package pages

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-composer/internal/schema"
	"github.com/goliatone/go-composer/pkg/interfaces"
	"github.com/google/uuid"
)

// Option configures a store.
type Option func(*options)

type options struct {
	catalog interfaces.TemplateCatalog
	newID   func() string
}

// WithTemplateCatalog makes the store attach catalog records to returned
// blocks, the way a store that joins template rows would.
func WithTemplateCatalog(catalog interfaces.TemplateCatalog) Option {
	return func(o *options) {
		o.catalog = catalog
	}
}

// WithIDGenerator overrides how permanent block ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// NewMemoryStore constructs an "in memory" page store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		opts:  buildOptions(opts),
		pages: make(map[string]*memoryPage),
	}
}

// MemoryStore keeps pages in process. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	opts  options
	pages map[string]*memoryPage
}

type memoryPage struct {
	fields map[string]any
	blocks []interfaces.StoredBlock
}

func (m *MemoryStore) LoadPage(ctx context.Context, pageID string) (*interfaces.PageSnapshot, error) {
	pageID = strings.TrimSpace(pageID)
	m.mu.RLock()
	page, ok := m.pages[pageID]
	var snapshot *interfaces.PageSnapshot
	if ok {
		snapshot = &interfaces.PageSnapshot{
			PageID: pageID,
			Fields: schema.CloneConfig(page.fields),
			Blocks: cloneStored(page.blocks),
		}
	}
	m.mu.RUnlock()

	if !ok {
		return nil, &NotFoundError{Key: pageID}
	}
	if err := attachTemplates(ctx, m.opts.catalog, snapshot.Blocks); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// UpdatePageFields replaces the page fields, creating the page when needed.
func (m *MemoryStore) UpdatePageFields(_ context.Context, pageID string, fields map[string]any) error {
	pageID = strings.TrimSpace(pageID)
	if pageID == "" {
		return ErrPageIDRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	page := m.pageLocked(pageID)
	page.fields = schema.CloneConfig(fields)
	return nil
}

// ReplaceBlocks swaps the block list. Ids already stored on the page are
// kept; every other block gets a fresh permanent id.
func (m *MemoryStore) ReplaceBlocks(ctx context.Context, pageID string, payload []interfaces.BlockPayload) ([]interfaces.StoredBlock, error) {
	pageID = strings.TrimSpace(pageID)
	if pageID == "" {
		return nil, ErrPageIDRequired
	}

	m.mu.Lock()
	page := m.pageLocked(pageID)
	existing := make(map[string]bool, len(page.blocks))
	for _, block := range page.blocks {
		existing[block.ID] = true
	}
	stored := make([]interfaces.StoredBlock, 0, len(payload))
	for _, entry := range sortedPayload(payload) {
		id := entry.ID
		if id == "" || !existing[id] {
			id = m.opts.newID()
		}
		stored = append(stored, interfaces.StoredBlock{
			ID:         id,
			TemplateID: entry.TemplateID,
			Config:     schema.CloneConfig(entry.Config),
			Order:      entry.Order,
		})
	}
	page.blocks = stored
	out := cloneStored(stored)
	m.mu.Unlock()

	if err := attachTemplates(ctx, m.opts.catalog, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MemoryStore) pageLocked(pageID string) *memoryPage {
	page, ok := m.pages[pageID]
	if !ok {
		page = &memoryPage{fields: map[string]any{}}
		m.pages[pageID] = page
	}
	return page
}

var _ interfaces.PageStore = (*MemoryStore)(nil)

func sortedPayload(payload []interfaces.BlockPayload) []interfaces.BlockPayload {
	out := make([]interfaces.BlockPayload, len(payload))
	copy(out, payload)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func cloneStored(list []interfaces.StoredBlock) []interfaces.StoredBlock {
	out := make([]interfaces.StoredBlock, len(list))
	for i, block := range list {
		block.Config = schema.CloneConfig(block.Config)
		block.Template = nil
		out[i] = block
	}
	return out
}

func attachTemplates(ctx context.Context, catalog interfaces.TemplateCatalog, list []interfaces.StoredBlock) error {
	if catalog == nil || len(list) == 0 {
		return nil
	}
	records, err := catalog.List(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]interfaces.TemplateRecord, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}
	for i := range list {
		if record, ok := byID[list[i].TemplateID]; ok {
			copied := record
			list[i].Template = &copied
		}
	}
	return nil
}
