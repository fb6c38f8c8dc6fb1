package di

import (
	"fmt"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	"github.com/devantler-tech/obsail/pkg/cmd/runner"
	"github.com/devantler-tech/obsail/pkg/svc/orchestrator"
	"github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Dependency resolvers.

// ResolveConfig retrieves the configuration with consistent error handling.
func ResolveConfig(injector Injector) (*v1alpha1.Config, error) {
	config, err := do.Invoke[*v1alpha1.Config](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve config dependency: %w", err)
	}

	return config, nil
}

// ResolveLogger retrieves the logger with consistent error handling.
func ResolveLogger(injector Injector) (*logrus.Logger, error) {
	logger, err := do.Invoke[*logrus.Logger](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve logger dependency: %w", err)
	}

	return logger, nil
}

// ResolveRunner retrieves the command runner with consistent error handling.
func ResolveRunner(injector Injector) (runner.CommandRunner, error) {
	commandRunner, err := do.Invoke[runner.CommandRunner](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve runner dependency: %w", err)
	}

	return commandRunner, nil
}

// ResolveOrchestrator retrieves the orchestrator with consistent error handling.
func ResolveOrchestrator(injector Injector) (*orchestrator.Orchestrator, error) {
	orch, err := do.Invoke[*orchestrator.Orchestrator](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve orchestrator dependency: %w", err)
	}

	return orch, nil
}

// Handler decorators.

// WithOrchestrator decorates a handler to automatically resolve the orchestrator.
func WithOrchestrator(
	handler func(cmd *cobra.Command, injector Injector, orch *orchestrator.Orchestrator) error,
) func(cmd *cobra.Command, injector Injector) error {
	return func(cmd *cobra.Command, injector Injector) error {
		orch, err := ResolveOrchestrator(injector)
		if err != nil {
			return err
		}

		return handler(cmd, injector, orch)
	}
}
