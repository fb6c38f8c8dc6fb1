package cmd

import (
	"github.com/devantler-tech/obsail/pkg/di"
	"github.com/devantler-tech/obsail/pkg/svc/orchestrator"
	"github.com/spf13/cobra"
)

// NewConnectivityCmd creates the connectivity command.
func NewConnectivityCmd(runtimeContainer *di.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:          "connectivity",
		Short:        "Check internet access",
		Long:         "Check whether any configured public endpoint accepts a TCP connection.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		Annotations:  stepAnnotations(orchestrator.StepCheckConnectivity, false),
		RunE: runStep(runtimeContainer, func(cmd *cobra.Command, orch *orchestrator.Orchestrator) (string, error) {
			return orch.CheckConnectivity(cmd.Context()), nil
		}),
	}
}
