package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// ErrTargetNotFound marks executions whose target (a session, a page) does
// not exist. Handlers wrap it with %w.
var ErrTargetNotFound = errors.New("commands: target not found")

const (
	codeValidation     = "COMMAND_VALIDATION_FAILED"
	codeCanceled       = "COMMAND_CONTEXT_CANCELED"
	codeTimeout        = "COMMAND_CONTEXT_TIMEOUT"
	codeContext        = "COMMAND_CONTEXT_ERROR"
	codeExecution      = "COMMAND_EXECUTION_FAILED"
	codeTargetNotFound = "COMMAND_TARGET_NOT_FOUND"
)

// textCoder is implemented by domain errors that carry their own code, such
// as a failed save step.
type textCoder interface {
	TextCode() string
}

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(codeValidation)
}

// tag wraps err in the command category unless it is already a go-errors
// error.
func tag(err error, message, code string) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(code)
}

func wrapContextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return tag(err, "command execution cancelled", codeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return tag(err, "command execution deadline exceeded", codeTimeout)
	default:
		return tag(err, "command context error", codeContext)
	}
}

func wrapExecuteError(err error) error {
	if isContextError(err) {
		return wrapContextError(err)
	}
	if errors.Is(err, ErrTargetNotFound) {
		return tag(err, "command target not found", codeTargetNotFound)
	}
	var coded textCoder
	if errors.As(err, &coded) && coded.TextCode() != "" {
		return tag(err, "command execution failed", coded.TextCode())
	}
	return tag(err, "command execution failed", codeExecution)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
