package di

import (
	"fmt"
	"io"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	"github.com/devantler-tech/obsail/pkg/client/docker"
	"github.com/devantler-tech/obsail/pkg/cmd/runner"
	"github.com/devantler-tech/obsail/pkg/io/configmanager"
	"github.com/devantler-tech/obsail/pkg/svc/container"
	"github.com/devantler-tech/obsail/pkg/svc/orchestrator"
	"github.com/devantler-tech/obsail/pkg/svc/readiness"
	"github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
)

// Dependency providers.

// NewRuntime constructs the shared runtime container used by the root command.
// Configuration comes from loader and log output goes to logWriter. Extra
// modules run after the defaults and may override them with do.Override.
func NewRuntime(
	loader configmanager.Loader[v1alpha1.Config],
	logWriter io.Writer,
	extra ...Module,
) *Runtime {
	return New(append([]Module{
		provideConfig(loader),
		provideLogger(logWriter),
		provideRunner,
		provideOrchestrator,
	}, extra...)...)
}

// provideConfig registers the loaded configuration.
func provideConfig(loader configmanager.Loader[v1alpha1.Config]) Module {
	return func(i Injector) error {
		do.Provide(i, func(Injector) (*v1alpha1.Config, error) {
			if loader == nil {
				return v1alpha1.NewConfig(), nil
			}

			config, err := loader.Load(configmanager.LoadOptions{Silent: true})
			if err != nil {
				return nil, fmt.Errorf("load configuration: %w", err)
			}

			return config, nil
		})

		return nil
	}
}

// provideLogger registers a logrus logger configured from log.level and log.format.
func provideLogger(writer io.Writer) Module {
	return func(i Injector) error {
		do.Provide(i, func(injector Injector) (*logrus.Logger, error) {
			config, err := ResolveConfig(injector)
			if err != nil {
				return nil, err
			}

			return NewLogger(writer, config.Log)
		})

		return nil
	}
}

// provideRunner registers the os/exec backed command runner.
func provideRunner(i Injector) error {
	do.Provide(i, func(Injector) (runner.CommandRunner, error) {
		return runner.NewExecRunner(), nil
	})

	return nil
}

// provideOrchestrator registers the step orchestrator built from the other dependencies.
func provideOrchestrator(i Injector) error {
	do.Provide(i, func(injector Injector) (*orchestrator.Orchestrator, error) {
		config, err := ResolveConfig(injector)
		if err != nil {
			return nil, err
		}

		logger, err := ResolveLogger(injector)
		if err != nil {
			return nil, err
		}

		commandRunner, err := ResolveRunner(injector)
		if err != nil {
			return nil, err
		}

		samplers, err := samplerFactory(commandRunner, config.Docker)
		if err != nil {
			return nil, err
		}

		starter := container.NewStarter(
			commandRunner,
			config.Docker,
			container.WithSamplerFactory(samplers),
			container.WithLogger(logger),
		)

		orch, err := orchestrator.New(
			commandRunner,
			config,
			orchestrator.WithLogger(logger),
			orchestrator.WithContainerStarter(starter),
		)
		if err != nil {
			return nil, fmt.Errorf("create orchestrator: %w", err)
		}

		return orch, nil
	})

	return nil
}

// NewLogger builds a logger writing to writer with the configured level and format.
func NewLogger(writer io.Writer, options v1alpha1.LogOptions) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(writer)

	level, err := logrus.ParseLevel(options.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	logger.SetLevel(level)

	if options.Format == v1alpha1.LogFormatJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger, nil
}

// samplerFactory selects how container status and logs are read during start-up.
func samplerFactory(
	commandRunner runner.CommandRunner,
	options v1alpha1.DockerOptions,
) (container.SamplerFactory, error) {
	if options.Probe != v1alpha1.ProbeModeEngine {
		return container.NewCLISamplerFactory(commandRunner, options.Binary), nil
	}

	apiClient, err := docker.GetDockerClient()
	if err != nil {
		return nil, fmt.Errorf("create docker engine client: %w", err)
	}

	return func(containerName string) (readiness.CheckFunc, error) {
		return docker.NewContainerSampler(apiClient, containerName)
	}, nil
}
