// Package errorhandler runs cobra commands and turns their failures into
// normalised errors with process exit codes.
package errorhandler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devantler-tech/obsail/pkg/io/configmanager"
	"github.com/devantler-tech/obsail/pkg/svc/orchestrator"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	// ExitOK is returned when the command succeeded.
	ExitOK = 0
	// ExitFailure is returned for runtime failures.
	ExitFailure = 1
	// ExitUsage is returned for invalid arguments, flags or configuration.
	ExitUsage = 2
	// ExitInterrupted is returned when the command was cancelled by a signal.
	ExitInterrupted = 130
)

// ErrUsage marks invalid flags, arguments or subcommands.
var ErrUsage = errors.New("invalid usage")

// Executor coordinates cobra execution, capturing stderr output and surfacing aggregated errors.
type Executor struct {
	normalizer DefaultNormalizer
}

// NewExecutor constructs an Executor.
func NewExecutor() *Executor {
	return &Executor{normalizer: DefaultNormalizer{}}
}

// Execute runs cmd with a background context. See ExecuteContext.
func (e *Executor) Execute(cmd *cobra.Command) error {
	return e.ExecuteContext(context.Background(), cmd)
}

// ExecuteContext runs cmd while intercepting cobra's error stream.
// It returns nil on success, or a *CommandError holding the normalised stderr
// output and the original error.
func (e *Executor) ExecuteContext(ctx context.Context, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	var errBuf bytes.Buffer

	originalErrWriter := cmd.ErrOrStderr()

	cmd.SetErr(&errBuf)
	defer cmd.SetErr(originalErrWriter)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	return &CommandError{
		message: e.normalizer.Normalize(errBuf.String()),
		cause:   err,
	}
}

// CommandError is a cobra execution failure augmented with normalised stderr output.
type CommandError struct {
	message string
	cause   error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause == nil:
		return e.message
	case e.message != "":
		if strings.Contains(e.message, e.cause.Error()) {
			return e.message
		}

		return e.message + ": " + e.cause.Error()
	default:
		return e.cause.Error()
	}
}

// Unwrap exposes the underlying cause for errors.Is/errors.As consumers.
func (e *CommandError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}

	switch {
	case errors.Is(err, ErrUsage),
		strings.Contains(err.Error(), "unknown command"),
		errors.Is(err, orchestrator.ErrMissingArgument),
		errors.Is(err, orchestrator.ErrInvalidArguments),
		errors.Is(err, orchestrator.ErrUnknownStep),
		errors.Is(err, orchestrator.ErrInvalidTopology),
		errors.Is(err, configmanager.ErrInvalidConfig):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// FlagErrorFunc marks flag parsing failures with ErrUsage. Install it with
// cobra.Command.SetFlagErrorFunc.
func FlagErrorFunc(_ *cobra.Command, err error) error {
	return fmt.Errorf("%w: %w", ErrUsage, err)
}

// ExactArgs is cobra.ExactArgs with failures marked as ErrUsage.
func ExactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		err := cobra.ExactArgs(n)(cmd, args)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}

		return nil
	}
}

// DefaultNormalizer strips cobra's decoration from captured stderr.
type DefaultNormalizer struct{}

// Normalize trims whitespace, removes the redundant "Error:" prefix, and drops
// usage help that cobra appends after flag errors.
func (DefaultNormalizer) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	if before, _, found := strings.Cut(trimmed, "\nUsage:"); found {
		trimmed = strings.TrimSpace(before)
	}

	lines := strings.Split(trimmed, "\n")
	lines[0] = strings.TrimPrefix(strings.TrimSpace(lines[0]), "Error: ")

	return strings.Join(lines, "\n")
}
