package editorcmd_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-composer/internal/commands"
	editorcmd "github.com/goliatone/go-composer/internal/commands/editor"
	"github.com/goliatone/go-composer/internal/editor"
	"github.com/goliatone/go-composer/internal/markdown"
	"github.com/goliatone/go-composer/internal/pages"
	"github.com/goliatone/go-composer/pkg/interfaces"
)

type sessionMap struct {
	mu       sync.Mutex
	store    *pages.MemoryStore
	sessions map[string]*editor.Session
}

func newSessionMap() *sessionMap {
	return &sessionMap{store: pages.NewMemoryStore(), sessions: map[string]*editor.Session{}}
}

func (m *sessionMap) Session(pageID string) (*editor.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[pageID]
	return session, ok
}

func (m *sessionMap) OpenSessionWithSeed(ctx context.Context, pageID string, seed editor.Seed) (*editor.Session, error) {
	session, err := editor.Open(ctx, pageID, seed, editor.WithPageStore(m.store))
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[pageID] = session
	return session, nil
}

func (m *sessionMap) CloseSession(pageID string) error {
	m.mu.Lock()
	session, ok := m.sessions[pageID]
	delete(m.sessions, pageID)
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return session.Close()
}

type registryStub struct {
	handlers []any
}

func (r *registryStub) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

type catalogStub []interfaces.TemplateRecord

func (c catalogStub) List(context.Context) ([]interfaces.TemplateRecord, error) {
	return c, nil
}

func newHandlers(t *testing.T) (*sessionMap, *editorcmd.HandlerSet) {
	t.Helper()
	sessions := newSessionMap()
	importer := markdown.NewImporter(catalogStub{
		{ID: "richtext", Name: "Rich text", DefaultConfig: map[string]any{"content": ""}},
	})
	reg := &registryStub{}
	set, err := editorcmd.RegisterEditorCommands(reg, sessions, importer, nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(reg.handlers) != 3 {
		t.Fatalf("expected 3 registered handlers, got %d", len(reg.handlers))
	}
	return sessions, set
}

func TestImportThenSave(t *testing.T) {
	sessions, set := newHandlers(t)
	ctx := context.Background()

	err := set.Import.Execute(ctx, editorcmd.ImportSeedCommand{
		PageID: "home",
		Source: []byte("---\ntitle: Home\n---\nHello **there**\n"),
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	session, ok := sessions.Session("home")
	if !ok {
		t.Fatal("expected session to be registered")
	}
	state := session.State()
	if len(state.Blocks) != 1 || state.Blocks[0].TemplateID != "richtext" || state.PageData["title"] != "Home" {
		t.Fatalf("unexpected seeded state %+v", state)
	}

	if err := session.UpdatePageData("title", "Home v2"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := set.Save.Execute(ctx, editorcmd.SaveSessionCommand{PageID: "home"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	snapshot, err := sessions.store.LoadPage(ctx, "home")
	if err != nil {
		t.Fatalf("load page: %v", err)
	}
	if snapshot.Fields["title"] != "Home v2" || len(snapshot.Blocks) != 1 {
		t.Fatalf("unexpected stored page %+v", snapshot)
	}
	if session.State().Dirty {
		t.Fatal("expected clean session after save")
	}

	if err := set.Close.Execute(ctx, editorcmd.CloseSessionCommand{PageID: "home"}); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, ok := sessions.Session("home"); ok {
		t.Fatal("expected session to be removed")
	}
}

func TestSaveUnknownSession(t *testing.T) {
	_, set := newHandlers(t)

	err := set.Save.Execute(context.Background(), editorcmd.SaveSessionCommand{PageID: "missing"})
	if !errors.Is(err, commands.ErrTargetNotFound) {
		t.Fatalf("expected target not found, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestImportRejectsInvalidMessage(t *testing.T) {
	_, set := newHandlers(t)

	err := set.Import.Execute(context.Background(), editorcmd.ImportSeedCommand{PageID: "home"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestImportRejectsUnknownTemplate(t *testing.T) {
	sessions, set := newHandlers(t)

	err := set.Import.Execute(context.Background(), editorcmd.ImportSeedCommand{
		PageID: "home",
		Source: []byte("---\nblocks:\n  - template: gallery\n---\n"),
	})
	if !errors.Is(err, markdown.ErrUnknownTemplate) {
		t.Fatalf("expected unknown template error, got %v", err)
	}
	if _, ok := sessions.Session("home"); ok {
		t.Fatal("failed import must not open a session")
	}
}

func TestRegisterRequiresCollaborators(t *testing.T) {
	if _, err := editorcmd.RegisterEditorCommands(nil, nil, markdown.NewImporter(nil), nil); err == nil {
		t.Fatal("expected error for nil sessions")
	}
}
