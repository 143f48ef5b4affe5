package editor

import (
	"time"

	"github.com/goliatone/go-composer/internal/logging"
	"github.com/goliatone/go-composer/pkg/interfaces"
)

const (
	DefaultCheckpointDelay = 500 * time.Millisecond
	DefaultAutosaveDelay   = 3 * time.Second
	DefaultSavedResetDelay = 2 * time.Second
)

// Option configures a Session.
type Option func(*Session)

// WithClock sets the time source used by timers.
func WithClock(clock Clock) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Session) {
		s.logger = logging.Ensure(logger)
	}
}

// WithPageStore sets the remote store saves are sent to.
func WithPageStore(store interfaces.PageStore) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithDraftCache mirrors unsaved drafts to cache and restores them on open.
func WithDraftCache(cache interfaces.DraftCache) Option {
	return func(s *Session) {
		s.cache = cache
	}
}

// WithTemplateCatalog sets the catalog used to attach templates to restored
// blocks and as the last reconciliation fallback.
func WithTemplateCatalog(catalog interfaces.TemplateCatalog) Option {
	return func(s *Session) {
		s.catalog = catalog
	}
}

// WithNotifier sets where manual save outcomes are reported.
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(s *Session) {
		s.notifier = notifier
	}
}

// WithMaxHistory caps the undo history.
func WithMaxHistory(max int) Option {
	return func(s *Session) {
		if max > 0 {
			s.maxHistory = max
		}
	}
}

// WithCheckpointDelay sets the quiet period before a debounced checkpoint.
func WithCheckpointDelay(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.checkpointDelay = d
		}
	}
}

// WithAutosave enables autosave after delay of inactivity.
func WithAutosave(enabled bool, delay time.Duration) Option {
	return func(s *Session) {
		s.autosaveEnabled = enabled
		if delay > 0 {
			s.autosaveDelay = delay
		}
	}
}

// WithSavedResetDelay sets how long the saved or error status is shown before
// returning to idle.
func WithSavedResetDelay(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.savedResetDelay = d
		}
	}
}
