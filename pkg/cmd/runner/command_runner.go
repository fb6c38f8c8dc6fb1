// Package runner executes external command-line programs with a hard timeout
// and captures their output as a structured CommandResult.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds long-running cluster operations when a Command sets no timeout.
const DefaultTimeout = 300 * time.Second

// defaultWaitDelay is how long Run keeps waiting for output pipes after the
// process was signalled. Descendants that inherited the pipes may keep running.
const defaultWaitDelay = 5 * time.Second

// Sentinel errors for command execution.
var (
	// ErrEmptyCommand is returned when no argument vector was supplied.
	ErrEmptyCommand = errors.New("empty command")
	// ErrCommandNotFound is returned when the target binary does not exist.
	ErrCommandNotFound = errors.New("command not found")
	// ErrCommandTimeout is returned when the command exceeded its timeout.
	ErrCommandTimeout = errors.New("command timed out")
)

// Command describes one external program invocation.
// Arguments are always passed as a discrete vector, never through a shell string.
type Command struct {
	// Argv is the program followed by its arguments.
	Argv []string
	// Timeout bounds the execution; zero means DefaultTimeout.
	Timeout time.Duration
	// Env holds extra KEY=VALUE entries layered over the current environment.
	Env []string
	// Stdin is written to the process standard input when non-empty.
	Stdin string
	// Dir is the working directory; empty means the current one.
	Dir string
}

// String renders the argument vector for messages.
func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}

// CommandResult captures the outcome of a command that ran to completion.
type CommandResult struct {
	// Succeeded mirrors a zero exit code.
	Succeeded bool
	Stdout    string
	Stderr    string
	ExitCode  int
}

// CommandRunner runs external commands to completion.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (CommandResult, error)
}

// ExecRunner executes commands on the local host through os/exec.
type ExecRunner struct {
	waitDelay time.Duration
}

// NewExecRunner creates a runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{waitDelay: defaultWaitDelay}
}

// Run executes the command and waits for it to finish.
//
// It returns ErrCommandNotFound when the binary is absent and ErrCommandTimeout
// when the timeout elapses; the process is signalled on timeout but children it
// spawned are not guaranteed to stop. A non-zero exit is not an error: it is
// reported through CommandResult.Succeeded and ExitCode.
func (r *ExecRunner) Run(ctx context.Context, command Command) (CommandResult, error) {
	if len(command.Argv) == 0 || strings.TrimSpace(command.Argv[0]) == "" {
		return CommandResult{}, ErrEmptyCommand
	}

	timeout := command.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // G204: argv is assembled by callers from fixed programs and validated values.
	cmd := exec.CommandContext(execCtx, command.Argv[0], command.Argv[1:]...)
	cmd.Dir = command.Dir
	cmd.WaitDelay = r.waitDelay

	if len(command.Env) > 0 {
		cmd.Env = append(os.Environ(), command.Env...)
	}

	if command.Stdin != "" {
		cmd.Stdin = strings.NewReader(command.Stdin)
	}

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	switch {
	case err == nil:
		result.Succeeded = true
		result.ExitCode = 0

		return result, nil
	case isNotFound(err):
		return CommandResult{}, fmt.Errorf("%w: %s", ErrCommandNotFound, command.Argv[0])
	case errors.Is(execCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		return result, fmt.Errorf("%w after %s: %s", ErrCommandTimeout, timeout, command.Argv[0])
	case ctx.Err() != nil:
		return result, fmt.Errorf("run %s: %w", command.Argv[0], ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()

		return result, nil
	}

	return result, fmt.Errorf("run %s: %w", command.Argv[0], err)
}

func isNotFound(err error) bool {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return errors.Is(execErr.Err, exec.ErrNotFound) || errors.Is(execErr.Err, fs.ErrNotExist)
	}

	var pathErr *fs.PathError

	return errors.As(err, &pathErr) && errors.Is(pathErr.Err, fs.ErrNotExist)
}

// TailLines returns at most the last n non-trailing lines of s.
func TailLines(s string, n int) string {
	trimmed := strings.TrimRight(s, "\n")
	if n <= 0 || trimmed == "" {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	return strings.Join(lines, "\n")
}
