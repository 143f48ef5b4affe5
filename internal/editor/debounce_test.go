package editor_test

import (
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-composer/internal/editor"
)

func TestDebouncerCollapsesBursts(t *testing.T) {
	var mu sync.Mutex
	clock := editor.NewManualClock(epoch)
	fired := 0
	d := editor.NewDebouncer(&mu, clock, 500*time.Millisecond, func() func() {
		fired++
		return nil
	})

	for i := 0; i < 10; i++ {
		mu.Lock()
		d.Trigger()
		mu.Unlock()
		clock.Advance(40 * time.Millisecond)
	}
	if fired != 0 {
		t.Fatalf("fired before quiet period elapsed")
	}
	clock.Advance(500 * time.Millisecond)
	if fired != 1 {
		t.Fatalf("expected exactly one run, got %d", fired)
	}
	if clock.Pending() != 0 {
		t.Fatalf("expected no armed timers, got %d", clock.Pending())
	}
}

func TestDebouncerCancelAndAfterHook(t *testing.T) {
	var mu sync.Mutex
	clock := editor.NewManualClock(epoch)
	afterRan := false
	d := editor.NewDebouncer(&mu, clock, time.Second, func() func() {
		return func() {
			// runs without the lock held
			mu.Lock()
			afterRan = true
			mu.Unlock()
		}
	})

	mu.Lock()
	d.Trigger()
	d.Cancel()
	pending := d.Pending()
	mu.Unlock()
	if pending {
		t.Fatalf("expected cancel to clear pending state")
	}
	clock.Advance(2 * time.Second)
	if afterRan {
		t.Fatalf("cancelled run executed")
	}

	mu.Lock()
	d.Trigger()
	mu.Unlock()
	clock.Advance(time.Second)
	if !afterRan {
		t.Fatalf("expected after hook to run")
	}
}
