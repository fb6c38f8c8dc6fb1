package container

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devantler-tech/obsail/pkg/cmd/runner"
	"github.com/devantler-tech/obsail/pkg/svc/readiness"
)

const (
	statusRunning = "running"
	sampleTimeout = 30 * time.Second
)

// SamplerFactory builds the readiness check for a started container.
type SamplerFactory func(containerName string) (readiness.CheckFunc, error)

// NewCLISamplerFactory samples containers with `inspect` and `logs` through the docker binary.
func NewCLISamplerFactory(commandRunner runner.CommandRunner, binary string) SamplerFactory {
	return func(containerName string) (readiness.CheckFunc, error) {
		return NewCLISampler(commandRunner, binary, containerName), nil
	}
}

// NewCLISampler returns a readiness check reading the container state and logs
// through the docker CLI. Logs are read only while the container is running.
func NewCLISampler(commandRunner runner.CommandRunner, binary, containerName string) readiness.CheckFunc {
	return func(ctx context.Context) (readiness.Sample, error) {
		inspect, err := commandRunner.Run(ctx, runner.Command{
			Argv:    []string{binary, "inspect", "--format={{.State.Status}}", containerName},
			Timeout: sampleTimeout,
		})
		if err != nil {
			return readiness.Sample{}, fmt.Errorf("inspect container %s: %w", containerName, err)
		}

		if !inspect.Succeeded {
			return readiness.Sample{Status: "inspect failed: " + strings.TrimSpace(inspect.Stderr)}, nil
		}

		status := strings.TrimSpace(inspect.Stdout)
		sample := readiness.Sample{Status: status, Running: status == statusRunning}

		if !sample.Running {
			return sample, nil
		}

		logs, err := commandRunner.Run(ctx, runner.Command{
			Argv:    []string{binary, "logs", containerName},
			Timeout: sampleTimeout,
		})
		if err != nil {
			return readiness.Sample{}, fmt.Errorf("read logs of container %s: %w", containerName, err)
		}

		// the database writes boot progress to both streams
		sample.Logs = logs.Stdout + logs.Stderr

		return sample, nil
	}
}
