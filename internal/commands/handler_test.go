package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-composer/pkg/interfaces"
)

type savePage struct {
	PageID string
}

func (savePage) Type() string { return "composer.test.save_page" }

func (m savePage) Validate() error {
	if strings.TrimSpace(m.PageID) == "" {
		return errors.New("page id required")
	}
	return nil
}

type logEntry struct {
	level string
	msg   string
}

type recordingLogger struct {
	mu      *sync.Mutex
	entries *[]logEntry
}

func newRecordingLogger() recordingLogger {
	return recordingLogger{mu: &sync.Mutex{}, entries: &[]logEntry{}}
}

func (r recordingLogger) record(level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = append(*r.entries, logEntry{level: level, msg: msg})
}

func (r recordingLogger) has(level, msg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range *r.entries {
		if entry.level == level && entry.msg == msg {
			return true
		}
	}
	return false
}

func (r recordingLogger) Trace(msg string, _ ...any) { r.record("trace", msg) }
func (r recordingLogger) Debug(msg string, _ ...any) { r.record("debug", msg) }
func (r recordingLogger) Info(msg string, _ ...any)  { r.record("info", msg) }
func (r recordingLogger) Warn(msg string, _ ...any)  { r.record("warn", msg) }
func (r recordingLogger) Error(msg string, _ ...any) { r.record("error", msg) }
func (r recordingLogger) Fatal(msg string, _ ...any) { r.record("fatal", msg) }

func (r recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

func capture(info *TelemetryInfo) HandlerOption[savePage] {
	return WithTelemetry(func(_ context.Context, _ savePage, got TelemetryInfo) { *info = got })
}

func TestHandlerCompletedRunCarriesMessageFields(t *testing.T) {
	var info TelemetryInfo
	var saved string
	h := NewHandler(func(_ context.Context, msg savePage) error {
		saved = msg.PageID
		return nil
	},
		WithOperation[savePage]("editor.save"),
		WithMessageFields(func(msg savePage) map[string]any { return map[string]any{"page_id": msg.PageID} }),
		capture(&info),
	)

	if err := h.Execute(context.Background(), savePage{PageID: "home"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if saved != "home" {
		t.Fatalf("expected wrapped function to run, got %q", saved)
	}
	if info.Outcome != OutcomeCompleted || info.Operation != "editor.save" {
		t.Fatalf("unexpected telemetry %+v", info)
	}
	if info.Fields["page_id"] != "home" || info.Fields["command"] != "composer.test.save_page" {
		t.Fatalf("expected message fields, got %#v", info.Fields)
	}
	if info.Logger == nil || info.Started.IsZero() {
		t.Fatalf("expected logger and start time, got %+v", info)
	}
}

func TestHandlerRejectsInvalidMessage(t *testing.T) {
	var info TelemetryInfo
	called := false
	h := NewHandler(func(context.Context, savePage) error {
		called = true
		return nil
	}, capture(&info))

	err := h.Execute(context.Background(), savePage{PageID: "  "})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatalf("invalid messages must not run")
	}
	if info.Outcome != OutcomeRejected || info.Command != "composer.test.save_page" {
		t.Fatalf("expected rejected telemetry, got %+v", info)
	}
}

func TestHandlerSkipsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler(func(context.Context, savePage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, savePage{PageID: "home"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled command error, got %v", err)
	}
	if called {
		t.Fatalf("cancelled runs must not execute")
	}
}

func TestHandlerTagsMissingTarget(t *testing.T) {
	var info TelemetryInfo
	h := NewHandler(func(_ context.Context, msg savePage) error {
		return fmt.Errorf("session %s: %w", msg.PageID, ErrTargetNotFound)
	}, capture(&info))

	err := h.Execute(context.Background(), savePage{PageID: "ghost"})
	if !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("expected not found cause to survive wrapping, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if info.Outcome != OutcomeFailed || info.Error != err {
		t.Fatalf("expected failed telemetry with the returned error, got %+v", info)
	}
}

func TestHandlerTimeoutIsInterrupted(t *testing.T) {
	var info TelemetryInfo
	h := NewHandler(func(ctx context.Context, _ savePage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	}, WithTimeout[savePage](10*time.Millisecond), capture(&info))

	err := h.Execute(context.Background(), savePage{PageID: "home"})
	if !errors.Is(err, context.DeadlineExceeded) || !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected deadline command error, got %v", err)
	}
	if info.Outcome != OutcomeInterrupted {
		t.Fatalf("expected interrupted outcome, got %s", info.Outcome)
	}
}

func TestHandlerLogsOutcomeWithoutTelemetry(t *testing.T) {
	logger := newRecordingLogger()
	h := NewHandler(func(context.Context, savePage) error {
		return errors.New("store offline")
	}, WithLogger[savePage](logger))

	if err := h.Execute(context.Background(), savePage{PageID: "home"}); err == nil {
		t.Fatalf("expected failure")
	}
	if err := h.Execute(context.Background(), savePage{}); err == nil {
		t.Fatalf("expected rejection")
	}
	if !logger.has("error", "command.failed") || !logger.has("warn", "command.rejected") {
		t.Fatalf("expected failed and rejected entries, got %+v", *logger.entries)
	}
}

func TestDefaultTelemetryFlagsSlowRuns(t *testing.T) {
	logger := newRecordingLogger()
	report := DefaultTelemetry[savePage](logger, time.Second)

	report(context.Background(), savePage{}, TelemetryInfo{Outcome: OutcomeCompleted, Duration: 10 * time.Millisecond})
	report(context.Background(), savePage{}, TelemetryInfo{Outcome: OutcomeCompleted, Duration: 2 * time.Second})
	report(context.Background(), savePage{}, TelemetryInfo{Outcome: OutcomeInterrupted, Error: context.Canceled})

	for _, want := range []logEntry{{"info", "command.completed"}, {"warn", "command.slow"}, {"error", "command.interrupted"}} {
		if !logger.has(want.level, want.msg) {
			t.Fatalf("expected %s %s, got %+v", want.level, want.msg, *logger.entries)
		}
	}
}
