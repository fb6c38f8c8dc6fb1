package orchestrator

import (
	"fmt"
	"strings"

	"github.com/devantler-tech/obsail/pkg/cmd/runner"
	"github.com/devantler-tech/obsail/pkg/utils/notify"
	"github.com/sirupsen/logrus"
)

// outputTailLines bounds tool output quoted in outcome strings.
const outputTailLines = 40

// deployChecklist is appended to every deploy failure.
var deployChecklist = []string{
	"Check that:",
	"- every node is reachable over SSH with the given user credentials",
	"- ports 2881, 2882 and 2886 are free on every node",
	"- every node has enough free disk for datafile_size and log_disk_size",
}

// succeed logs the reached state and formats a success outcome.
func (o *Orchestrator) succeed(step Step, format string, args ...any) string {
	entry := o.logger.WithField("step", string(step))
	if state, ok := step.Establishes(); ok {
		entry = entry.WithField("state", state.String())
	}

	entry.Info("step succeeded")

	return strings.TrimRight(notify.Format(notify.SuccessType, format, args...), "\n")
}

// fail logs stepErr and formats it as an error outcome followed by extra lines.
func (o *Orchestrator) fail(stepErr *StepError, extra ...string) string {
	entry := o.logger.WithFields(logrus.Fields{
		"step": string(stepErr.Step),
		"kind": stepErr.Kind.String(),
	})
	if stepErr.Err != nil {
		entry = entry.WithError(stepErr.Err)
	}

	entry.Warn("step failed")

	return notify.Lines(append([]string{notify.Format(notify.ErrorType, "%s", stepErr.Detail)}, extra...)...)
}

// commandFailure classifies a failed command. err is the runner error, if any.
func commandFailure(step Step, summary string, result runner.CommandResult, err error) *StepError {
	if err != nil {
		return &StepError{
			Step:   step,
			Kind:   classify(err),
			Detail: fmt.Sprintf("%s: %v", summary, err),
			Err:    err,
		}
	}

	return &StepError{
		Step:   step,
		Kind:   KindExternalCommandFailed,
		Detail: fmt.Sprintf("%s (exit code %d)", summary, result.ExitCode),
	}
}

// output returns trimmed, tail-bounded tool output.
func output(text string) string {
	return runner.TailLines(strings.TrimSpace(text), outputTailLines)
}

// indented prefixes every line of text so it nests under an outcome line.
func indented(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}

	return strings.Join(lines, "\n")
}
