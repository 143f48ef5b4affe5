package draftcache

import (
	"context"
	"sync"

	"github.com/goliatone/go-composer/pkg/interfaces"
)

// MemoryCache keeps drafts as encoded snapshots so callers never share state
// with the cache.
type MemoryCache struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

// NewMemoryCache constructs an "in memory" draft cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{drafts: make(map[string][]byte)}
}

func (m *MemoryCache) Get(_ context.Context, pageID string) (*interfaces.DraftSnapshot, bool, error) {
	m.mu.RLock()
	raw, ok := m.drafts[pageID]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	snapshot, err := decodeSnapshot(raw)
	if err != nil {
		return nil, false, err
	}
	return snapshot, true, nil
}

func (m *MemoryCache) Set(_ context.Context, pageID string, snapshot interfaces.DraftSnapshot) error {
	raw, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[pageID] = raw
	return nil
}

func (m *MemoryCache) Remove(_ context.Context, pageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, pageID)
	return nil
}

var _ interfaces.DraftCache = (*MemoryCache)(nil)
