package editorcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	saveSessionMessageType  = "composer.editor.save"
	importSeedMessageType   = "composer.editor.import_seed"
	closeSessionMessageType = "composer.editor.close"
)

// SaveSessionCommand saves the open session of PageID.
type SaveSessionCommand struct {
	PageID string `json:"page_id"`
	// AutoSave runs the save as an autosave: skipped when nothing changed
	// since the last save and reported through the autosave status.
	AutoSave bool `json:"auto_save,omitempty"`
}

// Type implements command.Message.
func (SaveSessionCommand) Type() string { return saveSessionMessageType }

// Validate ensures a page id is present.
func (cmd SaveSessionCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.PageID, validation.Required, validation.By(notBlank("composer.editor.save.page_id_required", "page id is required"))),
	)
}

// ImportSeedCommand parses a markdown seed and opens a session for PageID
// from it.
type ImportSeedCommand struct {
	PageID string `json:"page_id"`
	Source []byte `json:"source"`
}

// Type implements command.Message.
func (ImportSeedCommand) Type() string { return importSeedMessageType }

// Validate ensures a page id and a non-empty source are present.
func (cmd ImportSeedCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.PageID, validation.Required, validation.By(notBlank("composer.editor.import_seed.page_id_required", "page id is required"))),
		validation.Field(&cmd.Source, validation.Required),
	)
}

// CloseSessionCommand closes the open session of PageID, optionally saving
// it first.
type CloseSessionCommand struct {
	PageID string `json:"page_id"`
	Save   bool   `json:"save,omitempty"`
}

// Type implements command.Message.
func (CloseSessionCommand) Type() string { return closeSessionMessageType }

// Validate ensures a page id is present.
func (cmd CloseSessionCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.PageID, validation.Required, validation.By(notBlank("composer.editor.close.page_id_required", "page id is required"))),
	)
}

func notBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
