package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	obssh "github.com/devantler-tech/obsail/pkg/client/ssh"
	"github.com/devantler-tech/obsail/pkg/cmd/runner"
	"github.com/devantler-tech/obsail/pkg/utils/notify"
	"github.com/devantler-tech/obsail/pkg/utils/parallel"
)

const dockerProbeTimeout = 30 * time.Second

// CheckConnectivity reports whether any public endpoint accepts a TCP connection.
// It never fails; an unreachable network is reported in the outcome string.
func (o *Orchestrator) CheckConnectivity(ctx context.Context) string {
	result := o.checker.Check(ctx)
	if result.Connected {
		return o.succeed(StepCheckConnectivity, "connected to the internet (reached %s)", result.Endpoint)
	}

	return o.fail(&StepError{
		Step: StepCheckConnectivity,
		Kind: KindConnectivityUnavailable,
		Detail: fmt.Sprintf(
			"not connected to the internet: none of %s is reachable",
			strings.Join(o.checker.Endpoints(), ", "),
		),
	})
}

// CheckDocker reports whether the docker binary runs.
func (o *Orchestrator) CheckDocker(ctx context.Context) string {
	result, err := o.runner.Run(ctx, runner.Command{
		Argv:    []string{o.config.Docker.Binary, "--version"},
		Timeout: dockerProbeTimeout,
	})
	if err != nil || !result.Succeeded {
		stepErr := commandFailure(StepCheckDocker, "no usable docker environment", result, err)
		stepErr.Kind = KindToolNotInstalled

		return o.fail(stepErr, indented(output(result.Stderr)))
	}

	return o.succeed(StepCheckDocker, "docker environment available: %s", firstLine(result.Stdout))
}

// CheckNodes logs into every node over SSH, a few at a time, and reports
// one line per node in input order.
func (o *Orchestrator) CheckNodes(ctx context.Context, args NodesArgs) (string, error) {
	if len(args.Nodes) == 0 {
		return "", missingArgument(StepCheckNodes, "nodes")
	}

	creds, err := obssh.CredentialsFromMap(args.UserConfig)
	if err != nil {
		return "", &StepError{Step: StepCheckNodes, Kind: KindMissingArgument, Detail: err.Error(), Err: err}
	}

	if creds.Username == "" {
		return "", missingArgument(StepCheckNodes, "user_config.username")
	}

	probes, err := parallel.Map(ctx, o.executor, args.Nodes, func(ctx context.Context, node v1alpha1.ServerNode) error {
		return o.prober.Probe(ctx, node.IP, creds)
	})
	if err != nil {
		return "", fmt.Errorf("probe nodes: %w", err)
	}

	lines := make([]string, 0, len(args.Nodes)+1)
	failed := 0

	for index, node := range args.Nodes {
		if probeErr := probes[index]; probeErr != nil {
			failed++

			lines = append(lines, notify.Format(notify.ErrorType, "%s (%s): %v", node.IP, node.Zone, probeErr))

			continue
		}

		lines = append(lines, notify.Format(notify.SuccessType, "%s (%s) reachable as %s", node.IP, node.Zone, creds.Username))
	}

	if failed > 0 {
		header := o.fail(&StepError{
			Step:   StepCheckNodes,
			Kind:   KindExternalCommandFailed,
			Detail: fmt.Sprintf("%d of %d node(s) unreachable over SSH", failed, len(args.Nodes)),
		})

		return notify.Lines(append([]string{header}, lines...)...), nil
	}

	header := o.succeed(StepCheckNodes, "all %d node(s) reachable over SSH", len(args.Nodes))

	return notify.Lines(append([]string{header}, lines...)...), nil
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")

	return line
}
