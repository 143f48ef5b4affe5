package composer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-composer/internal/blocks"
	"github.com/goliatone/go-composer/internal/commands"
	editorcmd "github.com/goliatone/go-composer/internal/commands/editor"
	"github.com/goliatone/go-composer/internal/di"
	"github.com/goliatone/go-composer/internal/editor"
	"github.com/goliatone/go-composer/internal/logging"
	"github.com/goliatone/go-composer/internal/markdown"
	"github.com/goliatone/go-composer/internal/pages"
	"github.com/goliatone/go-composer/pkg/interfaces"
)

type (
	Session               = editor.Session
	Seed                  = editor.Seed
	State                 = editor.State
	PageData              = editor.PageData
	SaveResult            = editor.SaveResult
	AutosaveStatus        = editor.AutosaveStatus
	PersistenceError      = editor.PersistenceError
	BlockID               = blocks.BlockID
	PlacedBlock           = blocks.PlacedBlock
	Template              = blocks.Template
	RegisterTemplateInput = blocks.RegisterTemplateInput
	TemplateRecord        = interfaces.TemplateRecord
	CommandHandlers       = editorcmd.HandlerSet
)

var (
	ErrSessionOpen      = errors.New("composer: a session is already open for this page")
	ErrSessionNotFound  = fmt.Errorf("composer: no open session for this page: %w", commands.ErrTargetNotFound)
	ErrModuleClosed     = errors.New("composer: module closed")
	ErrCatalogReadOnly  = errors.New("composer: template catalog does not accept registrations")
	ErrPageFieldsSave   = editor.ErrPageFieldsSave
	ErrBlocksSave       = editor.ErrBlocksSave
	ErrBlockNotFound    = editor.ErrBlockNotFound
	ErrNothingToUndo    = editor.ErrNothingToUndo
	ErrNothingToRedo    = editor.ErrNothingToRedo
	ErrUnknownTemplate  = markdown.ErrUnknownTemplate
	ErrTemplateRequired = editor.ErrTemplateRequired
)

// Module is the composer runtime: it owns the wired collaborators and the
// open edit sessions, one per page.
type Module struct {
	container *di.Container
	handlers  *editorcmd.HandlerSet
	logger    interfaces.Logger

	mu       sync.Mutex
	sessions map[string]*editor.Session
	closed   bool
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}

	m := &Module{
		container: container,
		logger:    logging.ModuleLogger(container.LoggerProvider(), "composer"),
		sessions:  map[string]*editor.Session{},
	}

	timeout := cfg.Commands.Timeout
	handlers, err := editorcmd.RegisterEditorCommands(nil, m, container.Importer(), container.LoggerProvider(),
		editorcmd.WithSaveHandlerOptions(commands.WithTimeout[editorcmd.SaveSessionCommand](timeout)),
		editorcmd.WithImportHandlerOptions(commands.WithTimeout[editorcmd.ImportSeedCommand](timeout)),
		editorcmd.WithCloseHandlerOptions(commands.WithTimeout[editorcmd.CloseSessionCommand](timeout)),
	)
	if err != nil {
		_ = container.Close()
		return nil, err
	}
	m.handlers = handlers
	return m, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Commands returns the go-command handlers bound to this module.
func (m *Module) Commands() *CommandHandlers {
	return m.handlers
}

// RegisterCommands registers the command handlers with reg.
func (m *Module) RegisterCommands(reg editorcmd.CommandRegistry) error {
	for _, handler := range []any{m.handlers.Save, m.handlers.Import, m.handlers.Close} {
		if err := reg.RegisterCommand(handler); err != nil {
			return err
		}
	}
	return nil
}

// RegisterTemplate adds or replaces a template in the configured catalog.
func (m *Module) RegisterTemplate(ctx context.Context, input RegisterTemplateInput) (*Template, error) {
	if registry := m.container.Registry(); registry != nil {
		return registry.Register(input)
	}
	if repo := m.container.TemplateRepository(); repo != nil {
		return repo.Register(ctx, input)
	}
	return nil, ErrCatalogReadOnly
}

// Templates lists the catalog.
func (m *Module) Templates(ctx context.Context) ([]TemplateRecord, error) {
	return m.container.TemplateCatalog().List(ctx)
}

// OpenSession opens an edit session for pageID seeded from the page store.
// A page the store does not know yet opens empty.
func (m *Module) OpenSession(ctx context.Context, pageID string) (*Session, error) {
	seed := editor.Seed{}
	snapshot, err := m.container.PageStore().LoadPage(ctx, pageID)
	switch {
	case err == nil:
		seed = editor.SeedFromSnapshot(snapshot)
	case pages.IsNotFound(err):
	default:
		return nil, fmt.Errorf("composer: load page %s: %w", pageID, err)
	}
	return m.OpenSessionWithSeed(ctx, pageID, seed)
}

// OpenSessionWithSeed opens an edit session for pageID from seed. A cached
// draft for the page takes precedence over the seed.
func (m *Module) OpenSessionWithSeed(ctx context.Context, pageID string, seed Seed) (*Session, error) {
	pageID = strings.TrimSpace(pageID)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrModuleClosed
	}
	if _, ok := m.sessions[pageID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionOpen, pageID)
	}

	session, err := editor.Open(ctx, pageID, seed, m.container.SessionOptions()...)
	if err != nil {
		return nil, err
	}
	m.sessions[pageID] = session
	state := session.State()
	m.logger.Info("composer.session.opened", "page_id", pageID, "blocks", len(state.Blocks), "restored", state.Restored)
	return session, nil
}

// ImportMarkdown parses source as a markdown seed and opens a session for
// pageID from it.
func (m *Module) ImportMarkdown(ctx context.Context, pageID string, source []byte) (*Session, error) {
	doc, err := m.container.Importer().Import(ctx, source)
	if err != nil {
		return nil, err
	}
	return m.OpenSessionWithSeed(ctx, pageID, doc.Seed)
}

// ImportMarkdownDir opens a session for every seed document under dir,
// matched with the configured pattern. Page ids come from the documents.
func (m *Module) ImportMarkdownDir(ctx context.Context, fsys fs.FS, dir string) ([]*Session, error) {
	cfg := m.container.Config.Markdown
	loader := markdown.NewLoader(fsys, markdown.LoaderConfig{Pattern: cfg.Pattern, Recursive: cfg.Recursive})
	files, err := loader.LoadDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}

	opened := make([]*Session, 0, len(files))
	for _, file := range files {
		session, err := m.ImportMarkdown(ctx, file.PageID, file.Source)
		if err != nil {
			return opened, fmt.Errorf("composer: import %s: %w", file.Path, err)
		}
		opened = append(opened, session)
	}
	return opened, nil
}

// Session returns the open session for pageID.
func (m *Module) Session(pageID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[strings.TrimSpace(pageID)]
	return session, ok
}

// OpenPages lists the page ids with an open session.
func (m *Module) OpenPages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Save saves the open session of pageID.
func (m *Module) Save(ctx context.Context, pageID string) (*SaveResult, error) {
	session, ok := m.Session(pageID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, pageID)
	}
	return session.Save(ctx, false)
}

// CloseSession closes and forgets the session of pageID. Unsaved edits stay
// in the draft cache.
func (m *Module) CloseSession(pageID string) error {
	pageID = strings.TrimSpace(pageID)
	m.mu.Lock()
	session, ok := m.sessions[pageID]
	delete(m.sessions, pageID)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, pageID)
	}
	m.logger.Info("composer.session.closed", "page_id", pageID)
	return session.Close()
}

// Close closes every session and releases the container's connections.
func (m *Module) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	sessions := m.sessions
	m.sessions = map[string]*editor.Session{}
	m.mu.Unlock()

	var errs []error
	for _, session := range sessions {
		errs = append(errs, session.Close())
	}
	errs = append(errs, m.container.Close())
	return errors.Join(errs...)
}
