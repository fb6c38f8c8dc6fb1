package cmd

import (
	"fmt"

	"github.com/devantler-tech/obsail/pkg/di"
	"github.com/devantler-tech/obsail/pkg/svc/orchestrator"
	"github.com/spf13/cobra"
)

// NewNodesCmd creates the nodes command group.
func NewNodesCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "nodes",
		Short:        "Inspect deployment targets",
		Args:         cobra.NoArgs,
		RunE:         helpRunE,
		SilenceUsage: true,
	}

	cmd.AddCommand(newNodesCheckCmd(runtimeContainer))

	return cmd
}

func newNodesCheckCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "check",
		Short:        "Check SSH reachability of deployment targets",
		Example:      "  obsail nodes check --node 10.0.0.1:zone1 --user username=admin --user key_file=~/.ssh/id_ed25519",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		Annotations:  stepAnnotations(orchestrator.StepCheckNodes, false),
	}

	cmd.Flags().StringArray(nodeFlag, nil, "Target node as ip:zone (repeatable)")
	cmd.Flags().StringToString(userFlag, nil, "SSH user setting as key=value (username, password, key_file, port, timeout)")

	cmd.RunE = runStep(runtimeContainer, func(cmd *cobra.Command, orch *orchestrator.Orchestrator) (string, error) {
		rawNodes, err := cmd.Flags().GetStringArray(nodeFlag)
		if err != nil {
			return "", fmt.Errorf("read --%s: %w", nodeFlag, err)
		}

		nodes, err := parseNodes(rawNodes)
		if err != nil {
			return "", err
		}

		user, err := cmd.Flags().GetStringToString(userFlag)
		if err != nil {
			return "", fmt.Errorf("read --%s: %w", userFlag, err)
		}

		return orch.CheckNodes(cmd.Context(), orchestrator.NodesArgs{
			Nodes:      nodes,
			UserConfig: parseUserSettings(user),
		})
	})

	return cmd
}
