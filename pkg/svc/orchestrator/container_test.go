package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	"github.com/devantler-tech/obsail/pkg/cmd/runner"
	"github.com/devantler-tech/obsail/pkg/svc/container"
	"github.com/devantler-tech/obsail/pkg/svc/orchestrator"
	"github.com/devantler-tech/obsail/pkg/svc/readiness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newContainerOrchestrator(
	t *testing.T,
	mockRunner *runner.MockCommandRunner,
	opts ...container.StarterOption,
) *orchestrator.Orchestrator {
	t.Helper()

	docker := v1alpha1.NewConfig().Docker
	docker.StartTimeout = 60 * time.Millisecond
	docker.PollInterval = 10 * time.Millisecond
	docker.LogTailLines = 2

	base := []container.StarterOption{
		container.WithNameGenerator(func() string { return "oceanbase0001" }),
	}
	starter := container.NewStarter(mockRunner, docker, append(base, opts...)...)

	return newTestOrchestrator(t, mockRunner, orchestrator.WithContainerStarter(starter))
}

func TestStartContainer_Ready(t *testing.T) {
	t.Parallel()

	mockRunner := runner.NewMockCommandRunner()
	mockRunner.On("Run", mock.Anything, runner.ArgvPrefix("docker", "run")).
		Return(runner.CommandResult{Succeeded: true, Stdout: "f00d\n"}, nil).Once()
	mockRunner.On("Run", mock.Anything, runner.ArgvPrefix("docker", "inspect")).
		Return(runner.CommandResult{Succeeded: true, Stdout: "running"}, nil)
	mockRunner.On("Run", mock.Anything, runner.ArgvPrefix("docker", "logs")).
		Return(runner.CommandResult{Succeeded: true, Stdout: "boot success!"}, nil)

	orch := newContainerOrchestrator(t, mockRunner)

	outcome, err := orch.StartContainer(context.Background(), orchestrator.ContainerArgs{Port: 3306})

	require.NoError(t, err)
	assert.Equal(t, "✔ OceanBase container started, container id: f00d\n"+
		"ℹ connect with: mysql -h127.0.0.1 -P3306 -uroot", outcome)
}

func TestStartContainer_AbnormalStatus(t *testing.T) {
	t.Parallel()

	mockRunner := runner.NewMockCommandRunner()
	mockRunner.On("Run", mock.Anything, runner.ArgvPrefix("docker", "run")).
		Return(runner.CommandResult{Succeeded: true, Stdout: "f00d"}, nil).Once()
	mockRunner.On("Run", mock.Anything, runner.ArgvPrefix("docker", "inspect")).
		Return(runner.CommandResult{Succeeded: true, Stdout: "exited\n"}, nil)

	orch := newContainerOrchestrator(t, mockRunner)

	outcome, err := orch.StartContainer(context.Background(), orchestrator.ContainerArgs{})

	require.NoError(t, err)
	assert.Equal(t, "✗ container status abnormal: exited", outcome)
}

func TestStartContainer_TimeoutShowsChecklistAndLogTail(t *testing.T) {
	t.Parallel()

	mockRunner := runner.NewMockCommandRunner()
	mockRunner.On("Run", mock.Anything, runner.ArgvPrefix("docker", "run")).
		Return(runner.CommandResult{Succeeded: true, Stdout: "f00d"}, nil).Once()
	mockRunner.On("Run", mock.Anything, runner.ArgvPrefix("docker", "inspect")).
		Return(runner.CommandResult{Succeeded: true, Stdout: "running"}, nil)
	mockRunner.On("Run", mock.Anything, runner.ArgvPrefix("docker", "logs")).
		Return(runner.CommandResult{Succeeded: true, Stdout: "one\ntwo\nthree\n"}, nil)

	orch := newContainerOrchestrator(t, mockRunner)

	outcome, err := orch.StartContainer(context.Background(), orchestrator.ContainerArgs{})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(outcome, "✗ startup timed out after 60ms"), outcome)
	assert.Contains(t, outcome, "the image "+v1alpha1.DefaultDockerImage+" could be pulled")
	assert.Contains(t, outcome, "at least 2GB of free memory")
	assert.Contains(t, outcome, "`docker logs oceanbase0001`")
	assert.True(t, strings.HasSuffix(outcome, "last 2 log lines:\n  two\n  three"), outcome)
	assert.NotContains(t, outcome, "  one")
}

func TestStartContainer_PortAllocatedHint(t *testing.T) {
	t.Parallel()

	mockRunner := runner.NewMockCommandRunner()
	mockRunner.On("Run", mock.Anything, runner.ArgvPrefix("docker", "run")).Return(runner.CommandResult{
		ExitCode: 125,
		Stderr:   "docker: Error response from daemon: Bind for 0.0.0.0:2881 failed: port is already allocated.",
	}, nil).Once()

	orch := newContainerOrchestrator(t, mockRunner)

	outcome, err := orch.StartContainer(context.Background(), orchestrator.ContainerArgs{RootPassword: "hunter2"})

	require.NoError(t, err)
	lines := strings.Split(outcome, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "✗ container start failed (exit code 125)", lines[0])
	assert.Equal(t, "  command: docker run -d --name oceanbase0001 -p 2881:2881 -e MODE=SLIM "+
		"-e MYSQL_ROOT_PASSWORD=****** "+v1alpha1.DefaultDockerImage, lines[1])
	assert.Contains(t, lines[2], "port is already allocated")
	assert.Equal(t, "ℹ port 2881 is already in use: pass another port or stop the process using it", lines[3])
	assert.NotContains(t, outcome, "hunter2")
	mockRunner.AssertNumberOfCalls(t, "Run", 1)
}

func TestStartContainer_SamplerUnavailable(t *testing.T) {
	t.Parallel()

	mockRunner := runner.NewMockCommandRunner()
	mockRunner.On("Run", mock.Anything, runner.ArgvPrefix("docker", "run")).
		Return(runner.CommandResult{Succeeded: true, Stdout: "f00d"}, nil).Once()

	orch := newContainerOrchestrator(t, mockRunner, container.WithSamplerFactory(
		func(string) (readiness.CheckFunc, error) { return nil, errors.New("engine down") },
	))

	outcome, err := orch.StartContainer(context.Background(), orchestrator.ContainerArgs{})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(outcome, "✗ container start failed: "), outcome)
	assert.Contains(t, outcome, "engine down")
}

func TestStartContainer_RejectsInvalidArgumentsBeforeRunning(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		args   orchestrator.ContainerArgs
		detail string
	}{
		{
			name:   "negative timeout",
			args:   orchestrator.ContainerArgs{TimeoutSeconds: -1},
			detail: "timeout_seconds must not be negative",
		},
		{
			name:   "negative interval",
			args:   orchestrator.ContainerArgs{IntervalSeconds: -1},
			detail: "interval_seconds must not be negative",
		},
		{
			name:   "negative port",
			args:   orchestrator.ContainerArgs{Port: -1},
			detail: "port must not be negative",
		},
		{
			name:   "port above range",
			args:   orchestrator.ContainerArgs{Port: 70000},
			detail: "port 70000 out of range",
		},
		{
			name:   "blank ready marker",
			args:   orchestrator.ContainerArgs{ReadyMarker: " "},
			detail: readiness.ErrMissingMarker.Error(),
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			mockRunner := runner.NewMockCommandRunner()
			orch := newContainerOrchestrator(t, mockRunner)

			outcome, err := orch.StartContainer(context.Background(), testCase.args)

			require.ErrorIs(t, err, orchestrator.ErrMissingArgument)
			assert.Empty(t, outcome)
			assert.Contains(t, err.Error(), testCase.detail)

			kind, ok := orchestrator.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, orchestrator.KindMissingArgument, kind)
			mockRunner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
		})
	}
}

func TestDispatch_StartContainerRejectsNegativeTimeout(t *testing.T) {
	t.Parallel()

	mockRunner := runner.NewMockCommandRunner()
	orch := newContainerOrchestrator(t, mockRunner)

	_, err := orch.Dispatch(context.Background(), orchestrator.StepStartContainer, map[string]any{
		"timeout_seconds": -5,
	})

	require.ErrorIs(t, err, orchestrator.ErrMissingArgument)
	mockRunner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}
