package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/devantler-tech/obsail/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/obsail/pkg/di"
	"github.com/devantler-tech/obsail/pkg/svc/orchestrator"
	"github.com/spf13/cobra"
)

const (
	containerNameFlag = "name"
	rootPasswordFlag  = "root-password"
	portFlag          = "port"
	imageFlag         = "image"
	startTimeoutFlag  = "timeout"
	pollIntervalFlag  = "interval"
	readyMarkerFlag   = "ready-marker"
	rootPasswordEnv   = "OBSAIL_DOCKER_ROOTPASSWORD"
)

// NewDockerCmd creates the docker command group.
func NewDockerCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "docker",
		Short:        "Run a single-node OceanBase in docker",
		Args:         cobra.NoArgs,
		RunE:         helpRunE,
		SilenceUsage: true,
	}

	cmd.AddCommand(newDockerCheckCmd(runtimeContainer))
	cmd.AddCommand(newDockerStartCmd(runtimeContainer))

	return cmd
}

func newDockerCheckCmd(runtimeContainer *di.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:          "check",
		Short:        "Check for a usable docker environment",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		Annotations:  stepAnnotations(orchestrator.StepCheckDocker, false),
		RunE: runStep(runtimeContainer, func(cmd *cobra.Command, orch *orchestrator.Orchestrator) (string, error) {
			return orch.CheckDocker(cmd.Context()), nil
		}),
	}
}

func newDockerStartCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start an OceanBase container and wait for it to boot",
		Long: `Start an OceanBase container in slim mode and poll its logs until the
ready marker appears, the container stops, or the timeout elapses.

Unset flags fall back to the docker section of the configuration. The root
password defaults to docker.rootPassword (` + rootPasswordEnv + `).`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		Annotations:  stepAnnotations(orchestrator.StepStartContainer, true),
	}

	cmd.Flags().String(containerNameFlag, "", "Container name (generated when empty)")
	cmd.Flags().String(rootPasswordFlag, "", "Root password of the database")
	cmd.Flags().Int(portFlag, 0, "Host port mapped to the SQL port 2881")
	cmd.Flags().String(imageFlag, "", "Container image")
	cmd.Flags().Duration(startTimeoutFlag, 0, "Maximum time to wait for the boot")
	cmd.Flags().Duration(pollIntervalFlag, 0, "Time between readiness samples")
	cmd.Flags().String(readyMarkerFlag, "", "Log text that signals a finished boot")

	cmd.RunE = runStep(runtimeContainer, func(cmd *cobra.Command, orch *orchestrator.Orchestrator) (string, error) {
		flags := cmd.Flags()

		var args orchestrator.ContainerArgs

		args.Name, _ = flags.GetString(containerNameFlag)
		args.RootPassword, _ = flags.GetString(rootPasswordFlag)
		args.Port, _ = flags.GetInt(portFlag)
		args.Image, _ = flags.GetString(imageFlag)
		args.ReadyMarker, _ = flags.GetString(readyMarkerFlag)

		var err error

		args.TimeoutSeconds, err = wholeSeconds(flags.GetDuration(startTimeoutFlag))
		if err != nil {
			return "", fmt.Errorf("%w: --%s %w", errorhandler.ErrUsage, startTimeoutFlag, err)
		}

		args.IntervalSeconds, err = wholeSeconds(flags.GetDuration(pollIntervalFlag))
		if err != nil {
			return "", fmt.Errorf("%w: --%s %w", errorhandler.ErrUsage, pollIntervalFlag, err)
		}

		return orch.StartContainer(cmd.Context(), args)
	})

	return cmd
}

var (
	errNegativeDuration = errors.New("must not be negative")
	errFractionalSecond = errors.New("must be a whole number of seconds")
)

// wholeSeconds converts a duration flag into the seconds the step accepts.
func wholeSeconds(value time.Duration, err error) (int, error) {
	if err != nil {
		return 0, err
	}

	if value < 0 {
		return 0, fmt.Errorf("%w: %s", errNegativeDuration, value)
	}

	if value%time.Second != 0 {
		return 0, fmt.Errorf("%w: %s", errFractionalSecond, value)
	}

	return int(value / time.Second), nil
}
