package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-composer/pkg/interfaces"
)

type recordingLogger struct {
	fields []map[string]any
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, fields)
	return r
}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "composer.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger.WithContext(context.Background()).Info("noop")
}

func TestModuleLoggerAttachesModuleField(t *testing.T) {
	recorder := &recordingLogger{}
	provider := &stubProvider{logger: recorder}

	EditorLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != editorModule {
		t.Fatalf("expected provider to be asked for %q, got %v", editorModule, provider.requested)
	}
	if len(recorder.fields) != 1 || recorder.fields[0]["module"] != editorModule {
		t.Fatalf("expected module field, got %v", recorder.fields)
	}
}

func TestModuleLoggerDefaultsRootModule(t *testing.T) {
	provider := &stubProvider{logger: &recordingLogger{}}
	ModuleLogger(provider, "  ")
	if provider.requested[0] != rootModule {
		t.Fatalf("expected root module, got %q", provider.requested[0])
	}
}

func TestWithPageSkipsEmptyValues(t *testing.T) {
	recorder := &recordingLogger{}
	WithPage(recorder, "page-1", "")
	if len(recorder.fields) != 1 {
		t.Fatalf("expected a single WithFields call, got %d", len(recorder.fields))
	}
	got := recorder.fields[0]
	if got[fieldPageID] != "page-1" {
		t.Fatalf("expected page id field, got %v", got)
	}
	if _, ok := got[fieldSaveKind]; ok {
		t.Fatalf("expected save kind to be omitted, got %v", got)
	}
}
