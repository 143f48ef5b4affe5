package editor_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-composer/internal/blocks"
	"github.com/goliatone/go-composer/internal/draftcache"
	"github.com/goliatone/go-composer/internal/editor"
	"github.com/goliatone/go-composer/internal/pages"
	"github.com/goliatone/go-composer/pkg/interfaces"
)

var epoch = time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)

// countingStore wraps a page store, counts calls and injects failures.
type countingStore struct {
	mu          sync.Mutex
	inner       interfaces.PageStore
	fieldCalls  int
	blockCalls  int
	failFields  error
	failBlocks  error
	lastPayload []interfaces.BlockPayload
	beforeReply func()
	rewrite     func([]interfaces.StoredBlock) []interfaces.StoredBlock
}

func newCountingStore(opts ...pages.Option) *countingStore {
	return &countingStore{inner: pages.NewMemoryStore(opts...)}
}

func (c *countingStore) LoadPage(ctx context.Context, pageID string) (*interfaces.PageSnapshot, error) {
	return c.inner.LoadPage(ctx, pageID)
}

func (c *countingStore) UpdatePageFields(ctx context.Context, pageID string, fields map[string]any) error {
	c.mu.Lock()
	c.fieldCalls++
	fail := c.failFields
	c.mu.Unlock()
	if fail != nil {
		return fail
	}
	return c.inner.UpdatePageFields(ctx, pageID, fields)
}

func (c *countingStore) ReplaceBlocks(ctx context.Context, pageID string, payload []interfaces.BlockPayload) ([]interfaces.StoredBlock, error) {
	c.mu.Lock()
	c.blockCalls++
	c.lastPayload = payload
	fail := c.failBlocks
	hook := c.beforeReply
	rewrite := c.rewrite
	c.mu.Unlock()
	if fail != nil {
		return nil, fail
	}
	stored, err := c.inner.ReplaceBlocks(ctx, pageID, payload)
	if err != nil {
		return nil, err
	}
	if hook != nil {
		hook()
	}
	if rewrite != nil {
		stored = rewrite(stored)
	}
	return stored, nil
}

func (c *countingStore) calls() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fieldCalls, c.blockCalls
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []error
}

func (n *recordingNotifier) Success(_ context.Context, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Failure(_ context.Context, _ string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, err)
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (*interfaces.DraftSnapshot, bool, error) {
	return nil, false, errors.New("cache offline")
}

func (failingCache) Set(context.Context, string, interfaces.DraftSnapshot) error {
	return errors.New("cache offline")
}

func (failingCache) Remove(context.Context, string) error { return errors.New("cache offline") }

func heroTemplate() *blocks.Template {
	return &blocks.Template{
		ID:            "hero",
		Name:          "Hero",
		DefaultConfig: map[string]any{"title": "Welcome", "links": nil},
		ConfigSchema: map[string]any{"fields": []any{
			map[string]any{"name": "title", "type": "text"},
			map[string]any{"name": "links", "type": "repeater", "fields": []any{
				map[string]any{"name": "label", "type": "text"},
			}},
		}},
	}
}

func textTemplate() *blocks.Template {
	return &blocks.Template{ID: "text", Name: "Text", DefaultConfig: map[string]any{"body": ""}}
}

type harness struct {
	clock    *editor.ManualClock
	store    *countingStore
	cache    *draftcache.MemoryCache
	notifier *recordingNotifier
	session  *editor.Session
}

func newHarness(t *testing.T, seed editor.Seed, opts ...editor.Option) *harness {
	t.Helper()
	h := &harness{
		clock:    editor.NewManualClock(epoch),
		store:    newCountingStore(),
		cache:    draftcache.NewMemoryCache(),
		notifier: &recordingNotifier{},
	}
	base := []editor.Option{
		editor.WithClock(h.clock),
		editor.WithPageStore(h.store),
		editor.WithDraftCache(h.cache),
		editor.WithNotifier(h.notifier),
	}
	session, err := editor.Open(context.Background(), "page-1", seed, append(base, opts...)...)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	h.session = session
	return h
}

func mustAdd(t *testing.T, s *editor.Session, tmpl *blocks.Template) blocks.BlockID {
	t.Helper()
	id, err := s.AddBlock(tmpl)
	if err != nil {
		t.Fatalf("add block: %v", err)
	}
	return id
}
