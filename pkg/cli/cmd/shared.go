package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	"github.com/devantler-tech/obsail/pkg/cli/annotations"
	"github.com/devantler-tech/obsail/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/obsail/pkg/di"
	"github.com/devantler-tech/obsail/pkg/svc/orchestrator"
	"github.com/devantler-tech/obsail/pkg/utils/notify"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ErrStepFailed is returned after a failure outcome was printed.
var ErrStepFailed = errors.New("step failed")

// stepHandler runs one step and returns its outcome string.
type stepHandler func(cmd *cobra.Command, orch *orchestrator.Orchestrator) (string, error)

// runStep adapts handler into a RunE that prints the outcome and fails on ✗ outcomes.
func runStep(runtimeContainer *di.Runtime, handler stepHandler) func(*cobra.Command, []string) error {
	return di.RunEWithRuntime(runtimeContainer, di.WithOrchestrator(
		func(cmd *cobra.Command, _ di.Injector, orch *orchestrator.Orchestrator) error {
			outcome, err := handler(cmd, orch)
			if err != nil {
				return err
			}

			notify.Outcome(cmd.OutOrStdout(), outcome)

			if notify.Failed(outcome) {
				return ErrStepFailed
			}

			return nil
		},
	))
}

// stepAnnotations tags a command with the step it runs.
func stepAnnotations(step orchestrator.Step, write bool) map[string]string {
	values := map[string]string{annotations.AnnotationStep: string(step)}
	if write {
		values[annotations.AnnotationPermission] = annotations.PermissionWrite
	}

	return values
}

// helpRunE shows help for parent commands without their own action.
func helpRunE(cmd *cobra.Command, _ []string) error {
	err := cmd.Help()
	if err != nil {
		return fmt.Errorf("displaying %s command help: %w", cmd.Name(), err)
	}

	return nil
}

// parseNodes parses "ip:zone" pairs.
func parseNodes(values []string) ([]v1alpha1.ServerNode, error) {
	nodes := make([]v1alpha1.ServerNode, 0, len(values))

	for _, value := range values {
		ip, zone, found := strings.Cut(value, ":")
		if !found || strings.TrimSpace(ip) == "" || strings.TrimSpace(zone) == "" {
			return nil, fmt.Errorf("%w: --node %q must be ip:zone", errorhandler.ErrUsage, value)
		}

		nodes = append(nodes, v1alpha1.ServerNode{IP: strings.TrimSpace(ip), Zone: strings.TrimSpace(zone)})
	}

	return nodes, nil
}

// parseSettings turns key=value flag values into typed settings, so "8" becomes
// an integer and "false" a boolean in the generated descriptor.
func parseSettings(values map[string]string) map[string]any {
	if len(values) == 0 {
		return nil
	}

	settings := make(map[string]any, len(values))

	for key, raw := range values {
		var value any

		err := yaml.Unmarshal([]byte(raw), &value)
		if err != nil || value == nil {
			value = raw
		}

		settings[key] = value
	}

	return settings
}

// userNumericKeys are the SSH user settings that obd reads as integers.
var userNumericKeys = map[string]bool{"port": true, "timeout": true}

// parseUserSettings keeps SSH user values as strings, so a password such as
// "0x10" or "123456" is never retyped. Only port and timeout become integers.
func parseUserSettings(values map[string]string) map[string]any {
	if len(values) == 0 {
		return nil
	}

	settings := make(map[string]any, len(values))

	for key, raw := range values {
		if userNumericKeys[key] {
			number, err := strconv.Atoi(strings.TrimSpace(raw))
			if err == nil {
				settings[key] = number

				continue
			}
		}

		settings[key] = raw
	}

	return settings
}
