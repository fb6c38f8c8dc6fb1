package orchestrator

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/devantler-tech/obsail/pkg/cmd/runner"
	"github.com/devantler-tech/obsail/pkg/svc/topology"
	"github.com/devantler-tech/obsail/pkg/utils/notify"
)

// startScript raises the open file limit, capped at the hard limit, and execs
// the start command. Values arrive as positional parameters, never spliced
// into the script. A missing binary exits with exitCommandNotFound.
const startScript = `limit="$1"
hard="$(ulimit -Hn)"
if [ "$hard" != unlimited ] && [ "$hard" -lt "$limit" ]; then
  echo "obsail-start: ` + fileLimitCapped + ` $hard" >&2
  limit="$hard"
fi
command -v "$2" >/dev/null 2>&1 || { echo "obsail-start: command not found: $2" >&2; exit 127; }
ulimit -n "$limit" && exec "$2" cluster start "$3"`

const (
	// exitCommandNotFound is the shell's exit code for a missing command.
	exitCommandNotFound = 127
	fileLimitCapped     = "open file limit capped at"
)

// Deploy builds the topology for args.Nodes, writes it to a temporary
// descriptor and deploys the cluster with it. The descriptor is removed once
// the deploy command returns. Failures always carry the deploy checklist.
func (o *Orchestrator) Deploy(ctx context.Context, args DeployArgs) (string, error) {
	if strings.TrimSpace(args.ClusterName) == "" {
		return "", missingArgument(StepDeploy, "cluster_name")
	}

	if len(args.Nodes) == 0 {
		return "", &StepError{
			Step:   StepDeploy,
			Kind:   KindInvalidTopology,
			Detail: "nodes is required: at least one node",
			Err:    ErrMissingArgument,
		}
	}

	built, err := topology.Build(args.Nodes, topology.Overrides{
		Global:  args.GlobalConfig,
		PerNode: args.ServerCommonConfig,
		User:    args.UserConfig,
	})
	if err != nil {
		return "", &StepError{Step: StepDeploy, Kind: KindInvalidTopology, Detail: err.Error(), Err: err}
	}

	content, err := topology.Marshal(built, o.config.Obd.ProductName)
	if err != nil {
		return "", fmt.Errorf("render topology for %s: %w", args.ClusterName, err)
	}

	path, cleanup, err := topology.WriteTempFile(o.tempDir, args.ClusterName, content)
	if err != nil {
		return "", fmt.Errorf("write topology for %s: %w", args.ClusterName, err)
	}
	defer cleanup()

	o.logger.WithField("cluster", args.ClusterName).WithField("descriptor", path).Debug("topology written")

	home := o.home()

	result, err := o.runner.Run(ctx, o.obdCommand(home, "cluster", "deploy", args.ClusterName, "-c", path))
	if err != nil || !result.Succeeded {
		return o.fail(
			commandFailure(StepDeploy, "failed to deploy cluster "+args.ClusterName, result, err),
			indented(output(result.Stderr)),
			notify.Format(notify.InfoType, "%s", strings.Join(deployChecklist, "\n")),
		), nil
	}

	return o.succeed(
		StepDeploy,
		"cluster %s deployed with %d node(s)\n%s", args.ClusterName, len(args.Nodes), output(result.Stdout),
	), nil
}

// Start raises the open file limit and starts the cluster.
func (o *Orchestrator) Start(ctx context.Context, clusterName string) (string, error) {
	if strings.TrimSpace(clusterName) == "" {
		return "", missingArgument(StepStart, "cluster_name")
	}

	home := o.home()
	binary := o.obdBinary(home)
	cmd := runner.Command{
		Argv: []string{
			"bash", "-c", startScript, "obsail-start",
			strconv.Itoa(o.config.Obd.FileLimit), binary, clusterName,
		},
		Timeout: o.config.Obd.CommandTimeout,
		Env:     []string{"HOME=" + home},
	}

	summary := "failed to start cluster " + clusterName

	result, err := o.runner.Run(ctx, cmd)
	if err == nil && !result.Succeeded && result.ExitCode == exitCommandNotFound {
		err = fmt.Errorf("%w: %s", runner.ErrCommandNotFound, binary)

		return o.fail(commandFailure(StepStart, summary, result, err)), nil
	}

	if err != nil || !result.Succeeded {
		return o.fail(
			commandFailure(StepStart, summary, result, err),
			indented(output(result.Stderr)),
		), nil
	}

	return notify.Lines(
		o.succeed(StepStart, "cluster %s started\n%s", clusterName, output(result.Stdout)),
		fileLimitWarning(result.Stderr),
	), nil
}

// fileLimitWarning surfaces the start script's notice that the file limit was capped.
func fileLimitWarning(stderr string) string {
	for line := range strings.SplitSeq(stderr, "\n") {
		_, limit, found := strings.Cut(line, fileLimitCapped)
		if found {
			return notify.Format(
				notify.WarningType,
				"open file limit capped at the hard limit %s; raise it for production use", strings.TrimSpace(limit),
			)
		}
	}

	return ""
}

// CheckStatus displays the cluster status.
func (o *Orchestrator) CheckStatus(ctx context.Context, clusterName string) (string, error) {
	if strings.TrimSpace(clusterName) == "" {
		return "", missingArgument(StepCheckStatus, "cluster_name")
	}

	result, err := o.runner.Run(ctx, o.obdCommand(o.home(), "cluster", "display", clusterName))
	if err != nil || !result.Succeeded {
		return o.fail(
			commandFailure(StepCheckStatus, "failed to get status of cluster "+clusterName, result, err),
			indented(output(result.Stdout)),
			indented(output(result.Stderr)),
		), nil
	}

	return o.succeed(StepCheckStatus, "cluster %s status\n%s", clusterName, output(result.Stdout)), nil
}

// CreateTenant creates a tenant. Unset sizing options are left to the tool's defaults.
func (o *Orchestrator) CreateTenant(ctx context.Context, args TenantArgs) (string, error) {
	if strings.TrimSpace(args.ClusterName) == "" {
		return "", missingArgument(StepCreateTenant, "cluster_name")
	}

	if strings.TrimSpace(args.TenantName) == "" {
		return "", missingArgument(StepCreateTenant, "tenant_name")
	}

	cmdArgs := []string{"cluster", "tenant", "create", args.ClusterName, "-n", args.TenantName}

	if args.MaxCPU > 0 {
		cmdArgs = append(cmdArgs, "--max-cpu="+strconv.FormatFloat(args.MaxCPU, 'f', -1, 64))
	}

	if args.MemorySize != "" {
		cmdArgs = append(cmdArgs, "--memory-size="+args.MemorySize)
	}

	if args.LogDiskSize != "" {
		cmdArgs = append(cmdArgs, "--log-disk-size="+args.LogDiskSize)
	}

	if args.Optimize != "" {
		cmdArgs = append(cmdArgs, "--optimize="+args.Optimize)
	}

	result, err := o.runner.Run(ctx, o.obdCommand(o.home(), cmdArgs...))
	if err != nil || !result.Succeeded {
		return o.fail(
			commandFailure(
				StepCreateTenant,
				fmt.Sprintf("failed to create tenant %s in cluster %s", args.TenantName, args.ClusterName),
				result,
				err,
			),
			indented(output(result.Stderr)),
		), nil
	}

	return o.succeed(
		StepCreateTenant,
		"tenant %s created in cluster %s\n%s", args.TenantName, args.ClusterName, output(result.Stdout),
	), nil
}
