package readiness

import (
	"fmt"
	"time"
)

// OutcomeKind tags the terminal result of a poll.
type OutcomeKind int

const (
	// Ready means the success marker appeared in the logs.
	Ready OutcomeKind = iota
	// Failed means the resource left the running state or could not be sampled.
	Failed
	// TimedOut means the timeout elapsed before the marker appeared.
	TimedOut
)

// String returns the outcome kind name.
func (k OutcomeKind) String() string {
	switch k {
	case Ready:
		return "Ready"
	case Failed:
		return "Failed"
	case TimedOut:
		return "TimedOut"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the terminal result of Poller.Await.
// Exactly one of Detail, Reason and LastLogs is meaningful, selected by Kind.
type Outcome struct {
	Kind OutcomeKind
	// Detail is the log line that contained the marker (Ready).
	Detail string
	// Reason explains why the resource is considered failed (Failed).
	Reason string
	// Status is the last non-running status observed, if that caused the failure.
	Status string
	// LastLogs holds the trailing log lines of the last sample (TimedOut).
	LastLogs string
	// Elapsed is the time spent polling.
	Elapsed time.Duration
	// Attempts counts the samples taken.
	Attempts int
}
