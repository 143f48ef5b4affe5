package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-composer/internal/logging"
	"github.com/goliatone/go-composer/pkg/interfaces"
)

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler adapts a CommandFunc into a go-command Commander that validates,
// times out, tags errors and reports each run.
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	fields    func(T) map[string]any
	telemetry Telemetry[T]
}

// NewHandler creates a handler that satisfies go-command's Commander interface.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: DefaultCommandTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute validates msg, bounds the context, runs the wrapped function and
// reports the outcome. Errors come back tagged with go-errors categories.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	commandType := command.GetMessageType(msg)
	var extra map[string]any
	if h.fields != nil {
		extra = h.fields(msg)
	}
	fields := messageFields(commandType, h.operation, extra)
	logger := logging.WithFields(h.logger, fields)
	started := time.Now()

	if err := command.ValidateMessage(msg); err != nil {
		err = wrapValidationError(err)
		h.report(ctx, msg, logger, TelemetryInfo{Fields: fields, Started: started, Outcome: OutcomeRejected, Error: err})
		return err
	}

	ctx, cancel := commandContext(ctx, h.timeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return wrapContextError(err)
	}

	logger.Debug("command.started")
	err := h.exec(ctx, msg)
	outcome := outcomeOf(err, ctx.Err())
	switch {
	case err != nil:
		err = wrapExecuteError(err)
	case outcome == OutcomeInterrupted:
		err = wrapContextError(ctx.Err())
	}

	h.report(ctx, msg, logger, TelemetryInfo{
		Command:   commandType,
		Operation: h.operation,
		Fields:    fields,
		Started:   started,
		Duration:  time.Since(started),
		Outcome:   outcome,
		Error:     err,
	})
	return err
}

func (h *Handler[T]) report(ctx context.Context, msg T, logger interfaces.Logger, info TelemetryInfo) {
	info.Logger = logger
	if info.Command == "" {
		info.Command = command.GetMessageType(msg)
		info.Operation = h.operation
	}
	if h.telemetry != nil {
		h.telemetry(ctx, msg, info)
		return
	}
	switch info.Outcome {
	case OutcomeCompleted:
		logger.Info("command.completed")
	case OutcomeRejected:
		logger.Warn("command.rejected", "error", info.Error)
	case OutcomeInterrupted:
		logger.Error("command.interrupted", "error", info.Error)
	default:
		logger.Error("command.failed", "error", info.Error)
	}
}

// WithTimeout overrides the default execution timeout. Zero or negative
// disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		if timeout <= 0 {
			h.timeout = 0
			return
		}
		h.timeout = timeout
	}
}

// WithLogger injects the logger used during execution. Defaults to a no-op logger.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = logging.Ensure(logger)
	}
}

// WithOperation sets a human-friendly operation name emitted with every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields derives extra log fields from each message.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.fields = fn
	}
}

// WithTelemetry replaces the outcome logging with fn.
func WithTelemetry[T command.Message](fn Telemetry[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.telemetry = fn
	}
}
