package commands

import (
	"strings"

	"github.com/goliatone/go-composer/internal/logging"
	"github.com/goliatone/go-composer/pkg/interfaces"
)

// CommandLogger returns the logger shared by a group of handlers, named
// "composer.commands.<group>". A blank group falls back to "core".
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	group = strings.TrimSpace(group)
	if group == "" {
		group = "core"
	}
	return logging.WithFields(
		logging.ModuleLogger(provider, "composer.commands."+group),
		map[string]any{"command_group": group},
	)
}
