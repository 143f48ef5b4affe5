package editor

import (
	"errors"
	"fmt"
)

var (
	ErrSessionClosed    = errors.New("editor: session closed")
	ErrBlockNotFound    = errors.New("editor: block not found")
	ErrTemplateRequired = errors.New("editor: template required")
	ErrInvalidOrder     = errors.New("editor: reorder list must contain every block exactly once")
	ErrNothingToUndo    = errors.New("editor: nothing to undo")
	ErrNothingToRedo    = errors.New("editor: nothing to redo")
	ErrPageStoreMissing = errors.New("editor: page store not configured")
	ErrPageFieldsSave   = errors.New("editor: saving page fields failed")
	ErrBlocksSave       = errors.New("editor: saving blocks failed")
)

// SaveStep identifies the remote call a save failed in.
type SaveStep string

const (
	StepPageFields SaveStep = "page_fields"
	StepBlocks     SaveStep = "blocks"
)

// PersistenceError reports a remote store failure during a save. It matches
// both the step sentinel and the store error with errors.Is.
type PersistenceError struct {
	Step SaveStep
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("editor: save failed at %s: %v", e.Step, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{e.sentinel(), e.Err}
}

func (e *PersistenceError) sentinel() error {
	if e.Step == StepPageFields {
		return ErrPageFieldsSave
	}
	return ErrBlocksSave
}

// TextCode is the stable code surfaced by the command layer.
func (e *PersistenceError) TextCode() string {
	if e.Step == StepPageFields {
		return "SAVE_PAGE_FIELDS_FAILED"
	}
	return "SAVE_BLOCKS_FAILED"
}
