package commands

import (
	"context"
	"time"
)

// DefaultCommandTimeout bounds a command run unless a handler overrides it.
// Saves talk to the remote page store, so it is generous.
const DefaultCommandTimeout = 30 * time.Second

// commandContext returns ctx (or Background) bounded by timeout. A zero or
// negative timeout leaves the context unbounded.
func commandContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// messageFields builds the log fields attached to every entry of one run.
func messageFields(commandType, operation string, extra map[string]any) map[string]any {
	fields := make(map[string]any, len(extra)+2)
	for key, value := range extra {
		fields[key] = value
	}
	fields["command"] = commandType
	if operation != "" {
		fields["operation"] = operation
	}
	return fields
}
