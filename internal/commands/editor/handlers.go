package editorcmd

import (
	"context"
	"fmt"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-composer/internal/commands"
	"github.com/goliatone/go-composer/internal/editor"
	"github.com/goliatone/go-composer/internal/logging"
	"github.com/goliatone/go-composer/internal/markdown"
	"github.com/goliatone/go-composer/pkg/interfaces"
)

const (
	saveOperation   = "editor.save"
	importOperation = "editor.import_seed"
	closeOperation  = "editor.close"
)

// runs slower than these are logged as warnings
const (
	slowSave   = 5 * time.Second
	slowImport = 2 * time.Second
)

var (
	_ command.Commander[SaveSessionCommand]  = (*SaveSessionHandler)(nil)
	_ command.Commander[ImportSeedCommand]   = (*ImportSeedHandler)(nil)
	_ command.Commander[CloseSessionCommand] = (*CloseSessionHandler)(nil)
)

// Sessions is the session registry the handlers act on.
type Sessions interface {
	Session(pageID string) (*editor.Session, bool)
	OpenSessionWithSeed(ctx context.Context, pageID string, seed editor.Seed) (*editor.Session, error)
	CloseSession(pageID string) error
}

// SeedImporter parses markdown seeds.
type SeedImporter interface {
	Import(ctx context.Context, source []byte) (*markdown.SeedDocument, error)
}

func lookup(sessions Sessions, pageID string) (*editor.Session, error) {
	session, ok := sessions.Session(pageID)
	if !ok {
		return nil, fmt.Errorf("editor session %q: %w", pageID, commands.ErrTargetNotFound)
	}
	return session, nil
}

func pageFields(pageID string) map[string]any {
	return map[string]any{"page_id": pageID}
}

// SaveSessionHandler saves an open session.
type SaveSessionHandler struct {
	inner *commands.Handler[SaveSessionCommand]
}

// NewSaveSessionHandler creates a save handler over sessions.
func NewSaveSessionHandler(sessions Sessions, logger interfaces.Logger, opts ...commands.HandlerOption[SaveSessionCommand]) *SaveSessionHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg SaveSessionCommand) error {
		session, err := lookup(sessions, msg.PageID)
		if err != nil {
			return err
		}
		result, err := session.Save(ctx, msg.AutoSave)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"page_id":    msg.PageID,
			"skipped":    result.Skipped,
			"mapped":     len(result.Mapping),
			"unresolved": len(result.Unresolved),
			"clean":      result.Clean,
		}).Info("editor.command.save.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[SaveSessionCommand]{
		commands.WithLogger[SaveSessionCommand](baseLogger),
		commands.WithOperation[SaveSessionCommand](saveOperation),
		commands.WithMessageFields(func(msg SaveSessionCommand) map[string]any {
			fields := pageFields(msg.PageID)
			if msg.AutoSave {
				fields["auto_save"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SaveSessionCommand](baseLogger, slowSave)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SaveSessionHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SaveSessionCommand].
func (h *SaveSessionHandler) Execute(ctx context.Context, msg SaveSessionCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ImportSeedHandler opens a session seeded from a markdown document.
type ImportSeedHandler struct {
	inner *commands.Handler[ImportSeedCommand]
}

// NewImportSeedHandler creates an import handler.
func NewImportSeedHandler(sessions Sessions, importer SeedImporter, logger interfaces.Logger, opts ...commands.HandlerOption[ImportSeedCommand]) *ImportSeedHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg ImportSeedCommand) error {
		doc, err := importer.Import(ctx, msg.Source)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		session, err := sessions.OpenSessionWithSeed(ctx, msg.PageID, doc.Seed)
		if err != nil {
			return err
		}
		state := session.State()
		logging.WithFields(baseLogger, map[string]any{
			"page_id":  msg.PageID,
			"blocks":   len(state.Blocks),
			"restored": state.Restored,
		}).Info("editor.command.import_seed.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportSeedCommand]{
		commands.WithLogger[ImportSeedCommand](baseLogger),
		commands.WithOperation[ImportSeedCommand](importOperation),
		commands.WithMessageFields(func(msg ImportSeedCommand) map[string]any {
			fields := pageFields(msg.PageID)
			fields["source_bytes"] = len(msg.Source)
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportSeedCommand](baseLogger, slowImport)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportSeedHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportSeedCommand].
func (h *ImportSeedHandler) Execute(ctx context.Context, msg ImportSeedCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CloseSessionHandler closes an open session.
type CloseSessionHandler struct {
	inner *commands.Handler[CloseSessionCommand]
}

// NewCloseSessionHandler creates a close handler. With Save set, a failed
// save keeps the session open.
func NewCloseSessionHandler(sessions Sessions, logger interfaces.Logger, opts ...commands.HandlerOption[CloseSessionCommand]) *CloseSessionHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg CloseSessionCommand) error {
		session, err := lookup(sessions, msg.PageID)
		if err != nil {
			return err
		}
		if msg.Save && session.State().Dirty {
			if _, err := session.Save(ctx, false); err != nil {
				return err
			}
		}
		return sessions.CloseSession(msg.PageID)
	}

	handlerOpts := []commands.HandlerOption[CloseSessionCommand]{
		commands.WithLogger[CloseSessionCommand](baseLogger),
		commands.WithOperation[CloseSessionCommand](closeOperation),
		commands.WithMessageFields(func(msg CloseSessionCommand) map[string]any {
			return pageFields(msg.PageID)
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CloseSessionHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CloseSessionCommand].
func (h *CloseSessionHandler) Execute(ctx context.Context, msg CloseSessionCommand) error {
	return h.inner.Execute(ctx, msg)
}
