package blocks

import (
	"errors"
	"fmt"
)

var (
	ErrTemplateNameRequired  = errors.New("blocks: template name required")
	ErrTemplateSchemaInvalid = errors.New("blocks: template schema invalid")
	ErrTemplateExists        = errors.New("blocks: template slug already registered")
)

// NotFoundError is returned when a catalog entry does not exist.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
