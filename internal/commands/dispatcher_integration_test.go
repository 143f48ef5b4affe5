package commands

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

// flakyStore rejects writes until it has failed the configured number of times.
type flakyStore struct {
	mu       sync.Mutex
	failures int
	attempts int
	saved    []string
}

func (s *flakyStore) write(pageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if s.attempts <= s.failures {
		return errors.New("page store unavailable")
	}
	s.saved = append(s.saved, pageID)
	return nil
}

type retriedSave struct{ PageID string }

func (retriedSave) Type() string { return "composer.test.dispatch.retried_save" }

func (retriedSave) Validate() error { return nil }

type exhaustedSave struct{ PageID string }

func (exhaustedSave) Type() string { return "composer.test.dispatch.exhausted_save" }

func (exhaustedSave) Validate() error { return nil }

func TestDispatchedSaveRetriesTransientStoreFailure(t *testing.T) {
	store := &flakyStore{failures: 1}
	handler := NewHandler(func(_ context.Context, msg retriedSave) error {
		return store.write(msg.PageID)
	}, WithTimeout[retriedSave](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), retriedSave{PageID: "home"}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if store.attempts != 2 || len(store.saved) != 1 || store.saved[0] != "home" {
		t.Fatalf("expected one retry then a save, got attempts=%d saved=%v", store.attempts, store.saved)
	}
}

func TestDispatchedSaveSurfacesErrorAfterRetries(t *testing.T) {
	store := &flakyStore{failures: 10}
	handler := NewHandler(func(_ context.Context, msg exhaustedSave) error {
		return store.write(msg.PageID)
	}, WithTimeout[exhaustedSave](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), exhaustedSave{PageID: "home"}); err == nil {
		t.Fatalf("expected error once retries are exhausted")
	}
	if store.attempts != 3 || len(store.saved) != 0 {
		t.Fatalf("expected initial attempt plus two retries, got attempts=%d saved=%v", store.attempts, store.saved)
	}
}
