package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/devantler-tech/obsail/pkg/svc/readiness"
	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
)

const (
	statusRunning  = "running"
	statusNotFound = "not found"
	logsTailAll    = "all"
)

// ContainerAPI is the subset of client.APIClient used to sample a container.
type ContainerAPI interface {
	ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error)
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
}

// NewContainerSampler returns a readiness check that reads the container state
// and its combined stdout/stderr log through the Engine API.
//
// A container that no longer exists is reported as a non-running sample rather
// than an error, so the poller fails fast with a readable status.
func NewContainerSampler(apiClient ContainerAPI, containerName string) (readiness.CheckFunc, error) {
	if apiClient == nil {
		return nil, ErrAPIClientNil
	}

	return func(ctx context.Context) (readiness.Sample, error) {
		inspect, err := apiClient.ContainerInspect(ctx, containerName)
		if err != nil {
			if cerrdefs.IsNotFound(err) {
				return readiness.Sample{Status: statusNotFound}, nil
			}

			return readiness.Sample{}, fmt.Errorf("inspect container %s: %w", containerName, err)
		}

		status := ""
		if inspect.ContainerJSONBase != nil && inspect.State != nil {
			status = string(inspect.State.Status)
		}

		sample := readiness.Sample{Status: status, Running: status == statusRunning}
		if !sample.Running {
			return sample, nil
		}

		logs, err := readLogs(ctx, apiClient, containerName)
		if err != nil {
			return readiness.Sample{}, err
		}

		sample.Logs = logs

		return sample, nil
	}, nil
}

func readLogs(ctx context.Context, apiClient ContainerAPI, containerName string) (string, error) {
	reader, err := apiClient.ContainerLogs(ctx, containerName, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       logsTailAll,
	})
	if err != nil {
		return "", fmt.Errorf("read logs of container %s: %w", containerName, err)
	}

	defer func() { _ = reader.Close() }()

	var stdout, stderr bytes.Buffer

	_, err = stdcopy.StdCopy(&stdout, &stderr, reader)
	if err != nil {
		return "", fmt.Errorf("demultiplex logs of container %s: %w", containerName, err)
	}

	return stdout.String() + stderr.String(), nil
}
