package logging

import (
	"maps"

	"github.com/goliatone/go-composer/pkg/interfaces"
)

// WithFields attaches fields to logger when it implements FieldsLogger and
// returns it untouched otherwise. The map is copied before being handed over.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	return fieldsLogger.WithFields(maps.Clone(fields))
}
