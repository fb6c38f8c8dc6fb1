package cmd

import (
	"fmt"
	"log/slog"

	"github.com/devantler-tech/obsail/pkg/di"
	mcpsvc "github.com/devantler-tech/obsail/pkg/svc/mcp"
	"github.com/devantler-tech/obsail/pkg/svc/orchestrator"
	"github.com/spf13/cobra"
)

const (
	transportFlag = "transport"
	addressFlag   = "address"
)

// NewMCPCmd creates and returns the mcp command.
func NewMCPCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start an MCP server",
		Long: `Start an MCP server that exposes every provisioning step as a tool.

With --transport stdio (the default) the server talks over stdin/stdout and
runs until the client disconnects. With --transport http it serves the
streamable HTTP transport on --address at /mcp, with /metrics and /healthz.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}

	cmd.Flags().String(transportFlag, "stdio", "Transport (stdio, http)")
	cmd.Flags().String(addressFlag, ":8000", "Listen address of the http transport")

	cmd.RunE = di.RunEWithRuntime(runtimeContainer, di.WithOrchestrator(runMCPServer))

	return cmd
}

// runMCPServer serves the steps until the client disconnects or the context ends.
func runMCPServer(cmd *cobra.Command, injector di.Injector, orch *orchestrator.Orchestrator) error {
	config, err := di.ResolveConfig(injector)
	if err != nil {
		return err
	}

	version := "dev"
	if v, ok := cmd.Root().Annotations["version"]; ok && v != "" {
		version = v
	}

	cfg := mcpsvc.DefaultConfig(orch, version)
	cfg.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

	err = mcpsvc.Run(cmd.Context(), cfg, config.MCP.Transport, config.MCP.Address)
	if err != nil {
		return fmt.Errorf("running MCP server: %w", err)
	}

	return nil
}
