package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-composer/internal/logging"
	"github.com/goliatone/go-composer/pkg/interfaces"
)

// Outcome classifies a command run.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	// OutcomeRejected means the message failed validation and never ran.
	OutcomeRejected Outcome = "rejected"
	OutcomeFailed   Outcome = "failed"
	// OutcomeInterrupted covers cancellation and deadline expiry.
	OutcomeInterrupted Outcome = "interrupted"
)

// TelemetryInfo describes one run for telemetry callbacks.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Started   time.Time
	Duration  time.Duration
	Outcome   Outcome
	Error     error
	Logger    interfaces.Logger
}

// Telemetry is invoked once per run, rejected runs included.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs each run at a level matching its outcome. Runs slower
// than slow (when positive) are flagged with a warning.
func DefaultTelemetry[T command.Message](logger interfaces.Logger, slow time.Duration) Telemetry[T] {
	logger = logging.Ensure(logger)
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := logging.WithFields(logger, info.Fields)
		args := []any{"duration_ms", info.Duration.Milliseconds()}
		switch info.Outcome {
		case OutcomeCompleted:
			if slow > 0 && info.Duration > slow {
				entry.Warn("command.slow", args...)
				return
			}
			entry.Info("command.completed", args...)
		case OutcomeRejected:
			entry.Warn("command.rejected", "error", info.Error)
		case OutcomeInterrupted:
			entry.Error("command.interrupted", append(args, "error", info.Error)...)
		default:
			entry.Error("command.failed", append(args, "error", info.Error)...)
		}
	}
}

func outcomeOf(execErr, ctxErr error) Outcome {
	switch {
	case execErr != nil && isContextError(execErr):
		return OutcomeInterrupted
	case execErr != nil:
		return OutcomeFailed
	case ctxErr != nil:
		return OutcomeInterrupted
	default:
		return OutcomeCompleted
	}
}
