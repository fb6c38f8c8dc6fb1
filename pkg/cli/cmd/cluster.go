package cmd

import (
	"fmt"

	"github.com/devantler-tech/obsail/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/obsail/pkg/di"
	"github.com/devantler-tech/obsail/pkg/svc/orchestrator"
	"github.com/spf13/cobra"
)

const (
	nodeFlag   = "node"
	globalFlag = "global"
	serverFlag = "server"
	userFlag   = "user"

	tenantNameFlag  = "name"
	maxCPUFlag      = "max-cpu"
	memorySizeFlag  = "memory-size"
	logDiskSizeFlag = "log-disk-size"
	optimizeFlag    = "optimize"
)

// NewClusterCmd creates the cluster command group.
func NewClusterCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cluster",
		Short:        "Deploy and operate OceanBase clusters through obd",
		Args:         cobra.NoArgs,
		RunE:         helpRunE,
		SilenceUsage: true,
	}

	cmd.AddCommand(newClusterDeployCmd(runtimeContainer))
	cmd.AddCommand(newClusterStartCmd(runtimeContainer))
	cmd.AddCommand(newClusterStatusCmd(runtimeContainer))
	cmd.AddCommand(newClusterTenantCmd(runtimeContainer))

	return cmd
}

func newClusterDeployCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy CLUSTER",
		Short: "Generate a topology and deploy a cluster",
		Long: `Generate the deployment descriptor for the given nodes and run obd cluster deploy.

Nodes are named server1, server2, ... in the order given. Settings passed with
--global and --server replace the built-in defaults key by key.`,
		Example: `  obsail cluster deploy demo \
    --node 10.0.0.1:zone1 --node 10.0.0.2:zone2 \
    --global memory_limit=8G --user username=admin --user password=secret`,
		Args:         errorhandler.ExactArgs(1),
		SilenceUsage: true,
		Annotations:  stepAnnotations(orchestrator.StepDeploy, true),
	}

	cmd.Flags().StringArray(nodeFlag, nil, "Target node as ip:zone (repeatable, in server order)")
	cmd.Flags().StringToString(globalFlag, nil, "Global setting override as key=value")
	cmd.Flags().StringToString(serverFlag, nil, "Per-node setting override as key=value")
	cmd.Flags().StringToString(userFlag, nil, "SSH user setting as key=value (username, password, key_file, port, timeout)")

	cmd.RunE = runStep(runtimeContainer, func(cmd *cobra.Command, orch *orchestrator.Orchestrator) (string, error) {
		args, err := deployArgs(cmd)
		if err != nil {
			return "", err
		}

		return orch.Deploy(cmd.Context(), args)
	})

	return cmd
}

func deployArgs(cmd *cobra.Command) (orchestrator.DeployArgs, error) {
	rawNodes, err := cmd.Flags().GetStringArray(nodeFlag)
	if err != nil {
		return orchestrator.DeployArgs{}, fmt.Errorf("read --%s: %w", nodeFlag, err)
	}

	nodes, err := parseNodes(rawNodes)
	if err != nil {
		return orchestrator.DeployArgs{}, err
	}

	settings := make(map[string]map[string]any, 3)

	for _, name := range []string{globalFlag, serverFlag, userFlag} {
		values, err := cmd.Flags().GetStringToString(name)
		if err != nil {
			return orchestrator.DeployArgs{}, fmt.Errorf("read --%s: %w", name, err)
		}

		if name == userFlag {
			settings[name] = parseUserSettings(values)

			continue
		}

		settings[name] = parseSettings(values)
	}

	return orchestrator.DeployArgs{
		ClusterName:        cmd.Flags().Arg(0),
		Nodes:              nodes,
		GlobalConfig:       settings[globalFlag],
		ServerCommonConfig: settings[serverFlag],
		UserConfig:         settings[userFlag],
	}, nil
}

func newClusterStartCmd(runtimeContainer *di.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:          "start CLUSTER",
		Short:        "Start a deployed cluster",
		Args:         errorhandler.ExactArgs(1),
		SilenceUsage: true,
		Annotations:  stepAnnotations(orchestrator.StepStart, true),
		RunE: runStep(runtimeContainer, func(cmd *cobra.Command, orch *orchestrator.Orchestrator) (string, error) {
			return orch.Start(cmd.Context(), cmd.Flags().Arg(0))
		}),
	}
}

func newClusterStatusCmd(runtimeContainer *di.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:          "status CLUSTER",
		Short:        "Display the status of a cluster",
		Args:         errorhandler.ExactArgs(1),
		SilenceUsage: true,
		Annotations:  stepAnnotations(orchestrator.StepCheckStatus, false),
		RunE: runStep(runtimeContainer, func(cmd *cobra.Command, orch *orchestrator.Orchestrator) (string, error) {
			return orch.CheckStatus(cmd.Context(), cmd.Flags().Arg(0))
		}),
	}
}

func newClusterTenantCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "tenant CLUSTER",
		Short:        "Create a tenant in a running cluster",
		Long:         "Create a tenant. Sizing options that are not set are left to obd's defaults.",
		Example:      "  obsail cluster tenant demo --name app --max-cpu 2 --memory-size 4G",
		Args:         errorhandler.ExactArgs(1),
		SilenceUsage: true,
		Annotations:  stepAnnotations(orchestrator.StepCreateTenant, true),
	}

	cmd.Flags().String(tenantNameFlag, "", "Tenant name (required)")
	cmd.Flags().Float64(maxCPUFlag, 0, "Maximum CPU cores of the tenant")
	cmd.Flags().String(memorySizeFlag, "", "Memory of the tenant (e.g. 4G)")
	cmd.Flags().String(logDiskSizeFlag, "", "Log disk of the tenant (e.g. 8G)")
	cmd.Flags().String(optimizeFlag, "", "Workload profile (express_oltp, complex_oltp, olap, htap, kv)")

	cmd.RunE = runStep(runtimeContainer, func(cmd *cobra.Command, orch *orchestrator.Orchestrator) (string, error) {
		flags := cmd.Flags()

		args := orchestrator.TenantArgs{ClusterName: flags.Arg(0)}
		args.TenantName, _ = flags.GetString(tenantNameFlag)
		args.MaxCPU, _ = flags.GetFloat64(maxCPUFlag)
		args.MemorySize, _ = flags.GetString(memorySizeFlag)
		args.LogDiskSize, _ = flags.GetString(logDiskSizeFlag)
		args.Optimize, _ = flags.GetString(optimizeFlag)

		return orch.CreateTenant(cmd.Context(), args)
	})

	return cmd
}
