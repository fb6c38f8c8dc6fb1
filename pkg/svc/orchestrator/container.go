package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devantler-tech/obsail/pkg/svc/container"
	"github.com/devantler-tech/obsail/pkg/svc/readiness"
	"github.com/devantler-tech/obsail/pkg/utils/notify"
)

const portAllocated = "port is already allocated"

// StartContainer runs a single-node database container and waits for its boot marker.
//
// Invalid arguments are returned as a KindMissingArgument *StepError before
// anything runs. Every other failure is reported in the outcome string.
func (o *Orchestrator) StartContainer(ctx context.Context, args ContainerArgs) (string, error) {
	switch {
	case args.TimeoutSeconds < 0:
		return "", invalidArgument(StepStartContainer, "timeout_seconds must not be negative", nil)
	case args.IntervalSeconds < 0:
		return "", invalidArgument(StepStartContainer, "interval_seconds must not be negative", nil)
	case args.Port < 0:
		return "", invalidArgument(StepStartContainer, "port must not be negative", nil)
	}

	result, err := o.starter.Start(ctx, container.Options{
		Name:         args.Name,
		RootPassword: args.RootPassword,
		Port:         args.Port,
		Image:        args.Image,
		ReadyMarker:  args.ReadyMarker,
		StartTimeout: time.Duration(args.TimeoutSeconds) * time.Second,
		PollInterval: time.Duration(args.IntervalSeconds) * time.Second,
	})
	if errors.Is(err, container.ErrInvalidOptions) {
		return "", invalidArgument(StepStartContainer, err.Error(), err)
	}

	return o.containerOutcome(result, err), nil
}

func (o *Orchestrator) containerOutcome(result container.Result, err error) string {
	if err != nil {
		return o.fail(&StepError{
			Step:   StepStartContainer,
			Kind:   KindExternalCommandFailed,
			Detail: "container start failed: " + err.Error(),
			Err:    err,
		})
	}

	if !result.Started() {
		return o.containerRunFailure(result)
	}

	switch result.Outcome.Kind {
	case readiness.Ready:
		return notify.Lines(
			o.succeed(StepStartContainer, "OceanBase container started, container id: %s", result.ContainerID),
			notify.Format(
				notify.InfoType,
				"connect with: mysql -h127.0.0.1 -P%d -uroot", result.Options.Port,
			),
		)
	case readiness.Failed:
		detail := "container readiness check failed: " + result.Outcome.Reason
		if result.Outcome.Status != "" {
			detail = "container status abnormal: " + result.Outcome.Status
		}

		return o.fail(&StepError{Step: StepStartContainer, Kind: KindExternalCommandFailed, Detail: detail})
	case readiness.TimedOut:
		logsHeader := "no container logs captured"
		if result.Outcome.LastLogs != "" {
			logsHeader = fmt.Sprintf("last %d log lines:", strings.Count(result.Outcome.LastLogs, "\n")+1)
		}

		return o.fail(
			&StepError{
				Step:   StepStartContainer,
				Kind:   KindTimeout,
				Detail: fmt.Sprintf("startup timed out after %s", result.Options.StartTimeout),
			},
			notify.Format(notify.InfoType, "%s", strings.Join([]string{
				"Check that:",
				"- the image " + result.Options.Image + " could be pulled",
				"- the host has at least 2GB of free memory",
				"- `docker logs " + result.Options.Name + "` shows no errors",
			}, "\n")),
			logsHeader,
			indented(result.Outcome.LastLogs),
		)
	default:
		return o.fail(&StepError{
			Step:   StepStartContainer,
			Kind:   KindExternalCommandFailed,
			Detail: "unexpected readiness outcome " + result.Outcome.Kind.String(),
		})
	}
}

func (o *Orchestrator) containerRunFailure(result container.Result) string {
	stepErr := commandFailure(StepStartContainer, "container start failed", result.Run, result.RunErr)

	hint := ""
	if strings.Contains(result.Run.Stderr, portAllocated) {
		hint = notify.Format(
			notify.InfoType,
			"port %d is already in use: pass another port or stop the process using it", result.Options.Port,
		)
	}

	return o.fail(
		stepErr,
		"  command: "+result.CommandLine,
		indented(output(result.Run.Stderr)),
		hint,
	)
}
