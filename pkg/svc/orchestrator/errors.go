package orchestrator

import (
	"errors"
	"fmt"

	"github.com/devantler-tech/obsail/pkg/cmd/runner"
)

// ErrorKind classifies step failures.
type ErrorKind int

const (
	// KindMissingArgument means a required step parameter is absent.
	KindMissingArgument ErrorKind = iota + 1
	// KindToolNotInstalled means the target binary is absent.
	KindToolNotInstalled
	// KindExternalCommandFailed means a command exited non-zero.
	KindExternalCommandFailed
	// KindTimeout means a command or poll exceeded its deadline.
	KindTimeout
	// KindConnectivityUnavailable means no public endpoint was reachable.
	KindConnectivityUnavailable
	// KindInvalidTopology means the node list cannot form a cluster.
	KindInvalidTopology
)

// Sentinel errors, one per ErrorKind.
var (
	ErrMissingArgument         = errors.New("missing argument")
	ErrToolNotInstalled        = errors.New("tool not installed")
	ErrExternalCommandFailed   = errors.New("external command failed")
	ErrTimeout                 = errors.New("timeout")
	ErrConnectivityUnavailable = errors.New("connectivity unavailable")
	ErrInvalidTopology         = errors.New("invalid topology")
)

// ErrNilRunner is returned by New without a command runner.
var ErrNilRunner = errors.New("command runner is required")

// ErrInvalidArguments is returned by Dispatch when arguments cannot be decoded.
var ErrInvalidArguments = errors.New("invalid arguments")

// Sentinel returns the sentinel error of k.
func (k ErrorKind) Sentinel() error {
	switch k {
	case KindMissingArgument:
		return ErrMissingArgument
	case KindToolNotInstalled:
		return ErrToolNotInstalled
	case KindExternalCommandFailed:
		return ErrExternalCommandFailed
	case KindTimeout:
		return ErrTimeout
	case KindConnectivityUnavailable:
		return ErrConnectivityUnavailable
	case KindInvalidTopology:
		return ErrInvalidTopology
	default:
		return nil
	}
}

func (k ErrorKind) String() string {
	switch k {
	case KindMissingArgument:
		return "MissingArgument"
	case KindToolNotInstalled:
		return "ToolNotInstalled"
	case KindExternalCommandFailed:
		return "ExternalCommandFailed"
	case KindTimeout:
		return "Timeout"
	case KindConnectivityUnavailable:
		return "ConnectivityUnavailable"
	case KindInvalidTopology:
		return "InvalidTopology"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// StepError is a classified step failure.
//
// Detail carries a human-readable explanation, usually the tail of the failed
// command's stderr. Err is the underlying cause, if any.
type StepError struct {
	Step   Step
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Step, e.Kind.Sentinel())
	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	return msg
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is and errors.As.
func (e *StepError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if sentinel := e.Kind.Sentinel(); sentinel != nil {
		errs = append(errs, sentinel)
	}

	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

// KindOf returns the kind of the first *StepError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Kind, true
	}

	return 0, false
}

func missingArgument(step Step, name string) *StepError {
	return &StepError{Step: step, Kind: KindMissingArgument, Detail: name + " is required"}
}

// invalidArgument reports a parameter that is present but unusable.
func invalidArgument(step Step, detail string, err error) *StepError {
	return &StepError{Step: step, Kind: KindMissingArgument, Detail: detail, Err: err}
}

// classify maps a runner error onto an ErrorKind.
func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, runner.ErrCommandNotFound):
		return KindToolNotInstalled
	case errors.Is(err, runner.ErrCommandTimeout):
		return KindTimeout
	default:
		return KindExternalCommandFailed
	}
}
