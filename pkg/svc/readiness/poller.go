package readiness

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devantler-tech/obsail/pkg/cmd/runner"
	"github.com/siderolabs/go-retry/retry"
)

// DefaultTailLines is the number of log lines kept on timeout.
const DefaultTailLines = 50

// errSampleFailed stops the retryer once a sample settled as Failed.
var errSampleFailed = errors.New("sample failed")

// Sample is one observation of the polled resource.
type Sample struct {
	// Status is the raw status reported by the resource owner (e.g. "running").
	Status string
	// Running reports whether the status counts as running/healthy.
	Running bool
	// Logs is the log output observed so far.
	Logs string
}

// CheckFunc samples the resource once.
type CheckFunc func(ctx context.Context) (Sample, error)

// Options configures one Await call.
type Options struct {
	// SuccessMarker must appear in the logs for the resource to be Ready.
	SuccessMarker string
	// Timeout bounds the polling loop.
	Timeout time.Duration
	// Interval is the fixed wait between samples.
	Interval time.Duration
	// TailLines bounds LastLogs on timeout; zero means DefaultTailLines.
	TailLines int
}

// Validate reports the first invalid option.
func (o Options) Validate() error {
	if strings.TrimSpace(o.SuccessMarker) == "" {
		return ErrMissingMarker
	}

	if o.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, o.Timeout)
	}

	if o.Interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, o.Interval)
	}

	return nil
}

// RetryerFactory builds the retryer that paces samples.
type RetryerFactory func(timeout, interval time.Duration) retry.Retryer

// ConstantRetryer samples at a fixed interval until timeout.
func ConstantRetryer(timeout, interval time.Duration) retry.Retryer {
	return retry.Constant(timeout, retry.WithUnits(interval))
}

// Poller waits for resources to become ready.
type Poller struct {
	retryer RetryerFactory
}

// Option customises a Poller.
type Option func(*Poller)

// WithRetryer replaces the constant-interval retryer.
func WithRetryer(factory RetryerFactory) Option {
	return func(p *Poller) {
		if factory != nil {
			p.retryer = factory
		}
	}
}

// NewPoller creates a poller pacing samples with ConstantRetryer unless overridden.
func NewPoller(opts ...Option) *Poller {
	poller := &Poller{retryer: ConstantRetryer}
	for _, opt := range opts {
		opt(poller)
	}

	return poller
}

// Await samples check until the marker appears, the resource fails, or the
// timeout elapses. The first sample is taken immediately, and a Ready sample
// returns without waiting for the next interval.
//
// An error is returned only for invalid options; every polling result is an Outcome.
func (p *Poller) Await(ctx context.Context, check CheckFunc, opts Options) (Outcome, error) {
	if check == nil {
		return Outcome{}, ErrNilCheck
	}

	err := opts.Validate()
	if err != nil {
		return Outcome{}, err
	}

	tailLines := opts.TailLines
	if tailLines <= 0 {
		tailLines = DefaultTailLines
	}

	marker := strings.TrimSpace(opts.SuccessMarker)
	start := time.Now()
	state := pollState{}

	retryErr := p.retryer(opts.Timeout, opts.Interval).RetryWithContext(ctx, func(ctx context.Context) error {
		outcome, done := pollOnce(ctx, check, marker, &state)
		if !done {
			return retry.ExpectedError(fmt.Errorf("marker %q not seen yet", marker))
		}

		state.settled = &outcome
		if outcome.Kind == Failed {
			return errSampleFailed
		}

		return nil
	})

	elapsed := time.Since(start)

	switch {
	case state.settled != nil:
		outcome := *state.settled
		outcome.Elapsed = elapsed
		outcome.Attempts = state.attempts

		return outcome, nil
	case ctx.Err() != nil:
		return Outcome{
			Kind:     Failed,
			Reason:   fmt.Sprintf("poll wait interrupted: %v", ctx.Err()),
			Elapsed:  elapsed,
			Attempts: state.attempts,
		}, nil
	case retryErr == nil:
		// The retryer reported success without a settled sample.
		return Outcome{Kind: Failed, Reason: "poll ended without a result", Elapsed: elapsed, Attempts: state.attempts}, nil
	}

	return Outcome{
		Kind:     TimedOut,
		LastLogs: runner.TailLines(state.lastLogs, tailLines),
		Elapsed:  elapsed,
		Attempts: state.attempts,
	}, nil
}

// pollState tracks state across poll iterations.
type pollState struct {
	attempts int
	lastLogs string
	settled  *Outcome
}

// pollOnce performs a single poll iteration.
// Returns (outcome, true) when polling is finished, or (_, false) to continue.
func pollOnce(ctx context.Context, check CheckFunc, marker string, state *pollState) (Outcome, bool) {
	state.attempts++

	sample, err := check(ctx)
	if err != nil {
		return Outcome{Kind: Failed, Reason: err.Error()}, true
	}

	state.lastLogs = sample.Logs

	if !sample.Running {
		status := sample.Status
		if status == "" {
			status = "unknown"
		}

		return Outcome{Kind: Failed, Status: status, Reason: "resource status: " + status}, true
	}

	if line, ok := findMarker(sample.Logs, marker); ok {
		return Outcome{Kind: Ready, Detail: line}, true
	}

	return Outcome{}, false
}

// findMarker returns the first log line containing marker, ignoring case.
func findMarker(logs, marker string) (string, bool) {
	needle := strings.ToLower(marker)
	if !strings.Contains(strings.ToLower(logs), needle) {
		return "", false
	}

	for line := range strings.SplitSeq(logs, "\n") {
		if strings.Contains(strings.ToLower(line), needle) {
			return strings.TrimSpace(line), true
		}
	}

	return marker, true
}
