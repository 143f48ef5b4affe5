package editorcmd

import (
	"errors"

	"github.com/goliatone/go-composer/internal/commands"
	"github.com/goliatone/go-composer/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the handlers built by RegisterEditorCommands.
type HandlerSet struct {
	Save   *SaveSessionHandler
	Import *ImportSeedHandler
	Close  *CloseSessionHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	saveOpts   []commands.HandlerOption[SaveSessionCommand]
	importOpts []commands.HandlerOption[ImportSeedCommand]
	closeOpts  []commands.HandlerOption[CloseSessionCommand]
}

// WithSaveHandlerOptions forwards options to the save handler.
func WithSaveHandlerOptions(opts ...commands.HandlerOption[SaveSessionCommand]) Option {
	return func(cfg *options) {
		cfg.saveOpts = append(cfg.saveOpts, opts...)
	}
}

// WithImportHandlerOptions forwards options to the import handler.
func WithImportHandlerOptions(opts ...commands.HandlerOption[ImportSeedCommand]) Option {
	return func(cfg *options) {
		cfg.importOpts = append(cfg.importOpts, opts...)
	}
}

// WithCloseHandlerOptions forwards options to the close handler.
func WithCloseHandlerOptions(opts ...commands.HandlerOption[CloseSessionCommand]) Option {
	return func(cfg *options) {
		cfg.closeOpts = append(cfg.closeOpts, opts...)
	}
}

// RegisterEditorCommands builds the editor handlers and registers them with
// reg when it is non-nil.
func RegisterEditorCommands(reg CommandRegistry, sessions Sessions, importer SeedImporter, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if sessions == nil {
		return nil, errors.New("editor command registration: sessions is nil")
	}
	if importer == nil {
		return nil, errors.New("editor command registration: importer is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "editor")
	set := &HandlerSet{
		Save:   NewSaveSessionHandler(sessions, logger, cfg.saveOpts...),
		Import: NewImportSeedHandler(sessions, importer, logger, cfg.importOpts...),
		Close:  NewCloseSessionHandler(sessions, logger, cfg.closeOpts...),
	}

	if reg != nil {
		for _, handler := range []any{set.Save, set.Import, set.Close} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}
