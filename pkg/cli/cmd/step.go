package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/devantler-tech/obsail/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/obsail/pkg/di"
	"github.com/devantler-tech/obsail/pkg/svc/orchestrator"
	"github.com/spf13/cobra"
)

const argsFlag = "args"

// NewStepCmd creates the step command, which runs any step by name.
func NewStepCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step [NAME]",
		Short: "Run a provisioning step by name",
		Long: `Run a provisioning step by name with JSON arguments, exactly as an MCP
client would call it. Without a name, the available steps are listed.`,
		Example: `  obsail step check_oceanbase_cluster_status --args '{"cluster_name":"demo"}'
  obsail step`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			names := make([]string, 0, len(orchestrator.Steps()))
			for _, step := range orchestrator.Steps() {
				names = append(names, string(step))
			}

			return names, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().String(argsFlag, "", "Step arguments as a JSON object")

	run := runStep(runtimeContainer, func(cmd *cobra.Command, orch *orchestrator.Orchestrator) (string, error) {
		step, err := orchestrator.ParseStep(cmd.Flags().Arg(0))
		if err != nil {
			return "", fmt.Errorf("%w: %w", errorhandler.ErrUsage, err)
		}

		args, err := stepArgs(cmd)
		if err != nil {
			return "", err
		}

		return orch.Dispatch(cmd.Context(), step, args)
	})

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			listSteps(cmd.OutOrStdout())

			return nil
		}

		return run(cmd, args)
	}

	return cmd
}

func stepArgs(cmd *cobra.Command) (map[string]any, error) {
	raw, err := cmd.Flags().GetString(argsFlag)
	if err != nil {
		return nil, fmt.Errorf("read --%s: %w", argsFlag, err)
	}

	if raw == "" {
		return nil, nil //nolint:nilnil // no arguments
	}

	var args map[string]any

	err = json.Unmarshal([]byte(raw), &args)
	if err != nil {
		return nil, fmt.Errorf("%w: --%s is not a JSON object: %w", errorhandler.ErrUsage, argsFlag, err)
	}

	return args, nil
}

func listSteps(writer io.Writer) {
	for _, step := range orchestrator.Steps() {
		_, _ = fmt.Fprintf(writer, "%-32s %s\n", step, step.Description())
	}
}
