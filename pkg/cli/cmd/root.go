package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/devantler-tech/obsail/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/obsail/pkg/di"
	"github.com/devantler-tech/obsail/pkg/io/configmanager"
	"github.com/spf13/cobra"
)

// Persistent flag names.
const (
	configFlag    = "config"
	logLevelFlag  = "log-level"
	logFormatFlag = "log-format"
	obdHomeFlag   = "obd-home"
)

// flagBindings maps flag names to configuration keys. Commands that define a
// flag listed here get it bound before they run.
func flagBindings() map[string]string {
	return map[string]string{
		logLevelFlag:  configmanager.KeyLogLevel,
		logFormatFlag: configmanager.KeyLogFormat,
		obdHomeFlag:   configmanager.KeyObdHome,
		transportFlag: configmanager.KeyMCPTransport,
		addressFlag:   configmanager.KeyMCPAddress,
	}
}

type rootOptions struct {
	configPaths []string
	logWriter   io.Writer
	modules     []di.Module
}

// RootOption customises NewRootCmd.
type RootOption func(*rootOptions)

// WithConfigPaths replaces the directories searched for obsail.yaml.
func WithConfigPaths(paths ...string) RootOption {
	return func(o *rootOptions) {
		o.configPaths = paths
	}
}

// WithLogWriter sends log output to writer instead of stderr.
func WithLogWriter(writer io.Writer) RootOption {
	return func(o *rootOptions) {
		if writer != nil {
			o.logWriter = writer
		}
	}
}

// WithModules adds dependency modules applied after the defaults.
func WithModules(modules ...di.Module) RootOption {
	return func(o *rootOptions) {
		o.modules = append(o.modules, modules...)
	}
}

// NewRootCmd creates and returns the root command with version info and subcommands.
func NewRootCmd(version, commit, date string, opts ...RootOption) *cobra.Command {
	options := rootOptions{logWriter: os.Stderr}
	for _, opt := range opts {
		opt(&options)
	}

	manager := configmanager.NewConfigManager(io.Discard, options.configPaths)
	runtimeContainer := di.NewRuntime(manager, options.logWriter, options.modules...)

	cmd := &cobra.Command{
		Use:   "obsail",
		Short: "obsail provisions OceanBase clusters through obd or docker",
		Long: `obsail drives the OceanBase deployment tool (obd) and docker through the
provisioning steps: connectivity check, obd install, node preflight, deploy,
start, status and tenant creation, or a single-node container quick start.

Every step is also served as an MCP tool by "obsail mcp".`,
		RunE:         handleRootRunE,
		SilenceUsage: true,
		Annotations:  map[string]string{"version": version},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindConfig(cmd, manager)
		},
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)
	cmd.SetFlagErrorFunc(errorhandler.FlagErrorFunc)

	cmd.PersistentFlags().String(configFlag, "", "Path to obsail.yaml (default ./obsail.yaml or ~/.config/obsail/obsail.yaml)")
	cmd.PersistentFlags().String(logLevelFlag, "info", "Log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().String(logFormatFlag, "text", "Log format (text, json)")
	cmd.PersistentFlags().String(obdHomeFlag, "", "Home directory holding the per-user obd install (default $HOME)")

	cmd.AddCommand(NewConnectivityCmd(runtimeContainer))
	cmd.AddCommand(NewObdCmd(runtimeContainer))
	cmd.AddCommand(NewNodesCmd(runtimeContainer))
	cmd.AddCommand(NewClusterCmd(runtimeContainer))
	cmd.AddCommand(NewDockerCmd(runtimeContainer))
	cmd.AddCommand(NewStepCmd(runtimeContainer))
	cmd.AddCommand(NewMCPCmd(runtimeContainer))
	cmd.AddCommand(NewConfigCmd())

	return cmd
}

// Execute runs the provided root command and handles errors.
func Execute(ctx context.Context, cmd *cobra.Command) error {
	executor := errorhandler.NewExecutor()

	err := executor.ExecuteContext(ctx, cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// --- internals ---

// bindConfig applies --config and binds the flags of the running command.
func bindConfig(cmd *cobra.Command, manager *configmanager.ConfigManager) error {
	configFile, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return fmt.Errorf("read --%s: %w", configFlag, err)
	}

	manager.SetConfigFile(configFile)

	bindings := make(map[string]string)

	for flagName, key := range flagBindings() {
		if cmd.Flags().Lookup(flagName) != nil {
			bindings[flagName] = key
		}
	}

	err = manager.BindFlags(cmd.Flags(), bindings)
	if err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	return nil
}

// handleRootRunE handles the root command.
func handleRootRunE(cmd *cobra.Command, _ []string) error {
	// The err can safely be ignored, as it can never fail at runtime.
	_ = cmd.Help()

	return nil
}
