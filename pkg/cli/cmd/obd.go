package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/devantler-tech/obsail/pkg/di"
	"github.com/devantler-tech/obsail/pkg/svc/orchestrator"
	"github.com/spf13/cobra"
)

const (
	passwordStdinFlag = "password-stdin"
	// sudoPasswordEnv is read when --password-stdin is not set.
	sudoPasswordEnv = "OBSAIL_SUDO_PASSWORD"
)

// NewObdCmd creates the obd command group.
func NewObdCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "obd",
		Short:        "Manage the OceanBase deployment tool",
		Args:         cobra.NoArgs,
		RunE:         helpRunE,
		SilenceUsage: true,
	}

	cmd.AddCommand(newObdInstallCmd(runtimeContainer))

	return cmd
}

func newObdInstallCmd(runtimeContainer *di.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install obd with the online installer",
		Long: `Install obd with the OceanBase all-in-one online installer.

The installer runs through sudo. The password is read from stdin with
--password-stdin, or from the ` + sudoPasswordEnv + ` environment variable.
It is never passed on a command line.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		Annotations:  stepAnnotations(orchestrator.StepInstallTool, true),
	}

	cmd.Flags().Bool(passwordStdinFlag, false, "Read the sudo password from stdin")

	cmd.RunE = runStep(runtimeContainer, func(cmd *cobra.Command, orch *orchestrator.Orchestrator) (string, error) {
		password, err := sudoPassword(cmd)
		if err != nil {
			return "", err
		}

		return orch.InstallTool(cmd.Context(), password)
	})

	return cmd
}

func sudoPassword(cmd *cobra.Command) (string, error) {
	fromStdin, err := cmd.Flags().GetBool(passwordStdinFlag)
	if err != nil {
		return "", fmt.Errorf("read --%s: %w", passwordStdinFlag, err)
	}

	if !fromStdin {
		return os.Getenv(sudoPasswordEnv), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}
