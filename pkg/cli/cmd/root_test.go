package cmd_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/devantler-tech/obsail/pkg/cli/annotations"
	"github.com/devantler-tech/obsail/pkg/cli/cmd"
	"github.com/devantler-tech/obsail/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/obsail/pkg/cmd/runner"
	"github.com/devantler-tech/obsail/pkg/di"
	"github.com/devantler-tech/obsail/pkg/svc/orchestrator"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newTestRoot builds a root command whose command runner is replaced by mockRunner.
func newTestRoot(t *testing.T, mockRunner *runner.MockCommandRunner) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	root := cmd.NewRootCmd(
		"1.2.3", "abc123", "2025-08-17",
		cmd.WithConfigPaths(t.TempDir()),
		cmd.WithLogWriter(io.Discard),
		cmd.WithModules(func(i di.Injector) error {
			do.Override(i, func(di.Injector) (runner.CommandRunner, error) {
				return mockRunner, nil
			})

			return nil
		}),
	)

	var out bytes.Buffer

	root.SetOut(&out)
	root.SetErr(io.Discard)

	return root, &out
}

func execute(t *testing.T, root *cobra.Command, args ...string) error {
	t.Helper()

	root.SetArgs(append(args, "--obd-home", t.TempDir()))

	return cmd.Execute(context.Background(), root)
}

func TestNewRootCmdVersionFormatting(t *testing.T) {
	t.Parallel()

	root := cmd.NewRootCmd("1.2.3", "abc123", "2025-08-17")

	assert.Equal(t, "1.2.3 (Built on 2025-08-17 from Git SHA abc123)", root.Version)
}

func TestExecuteShowsHelp(t *testing.T) {
	t.Parallel()

	root, out := newTestRoot(t, runner.NewMockCommandRunner())
	root.SetArgs([]string{})

	require.NoError(t, cmd.Execute(context.Background(), root))

	for _, name := range []string{"connectivity", "obd", "nodes", "cluster", "docker", "step", "mcp"} {
		assert.Contains(t, out.String(), name)
	}
}

func TestEveryStepHasACommand(t *testing.T) {
	t.Parallel()

	root := cmd.NewRootCmd("", "", "")

	found := map[string]bool{}

	var walk func(*cobra.Command)

	walk = func(c *cobra.Command) {
		if step, ok := c.Annotations[annotations.AnnotationStep]; ok {
			found[step] = true
		}

		for _, child := range c.Commands() {
			walk(child)
		}
	}

	walk(root)

	for _, step := range orchestrator.Steps() {
		assert.True(t, found[string(step)], "no command runs %s", step)
	}
}

func TestDockerCheck_PrintsOutcome(t *testing.T) {
	t.Parallel()

	mockRunner := runner.NewMockCommandRunner()
	mockRunner.On("Run", mock.Anything, runner.ArgvPrefix("docker", "--version")).
		Return(runner.CommandResult{Succeeded: true, Stdout: "Docker version 27.3.1, build ce12230\n"}, nil).
		Once()

	root, out := newTestRoot(t, mockRunner)

	err := execute(t, root, "docker", "check")

	require.NoError(t, err)
	assert.Equal(t, "✔ docker environment available: Docker version 27.3.1, build ce12230\n", out.String())
	mockRunner.AssertExpectations(t)
}

func TestDockerCheck_FailureOutcomeFailsCommand(t *testing.T) {
	t.Parallel()

	mockRunner := runner.NewMockCommandRunner()
	mockRunner.On("Run", mock.Anything, runner.ArgvPrefix("docker", "--version")).
		Return(runner.CommandResult{}, runner.ErrCommandNotFound).
		Once()

	root, out := newTestRoot(t, mockRunner)

	err := execute(t, root, "docker", "check")

	require.ErrorIs(t, err, cmd.ErrStepFailed)
	assert.Equal(t, errorhandler.ExitFailure, errorhandler.ExitCode(err))
	assert.Contains(t, out.String(), "✗ ")
	assert.Contains(t, out.String(), "no usable docker environment")
}

func TestDockerStart_RejectsUnusableDurations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "sub-second interval", args: []string{"--interval", "500ms"}},
		{name: "fractional timeout", args: []string{"--timeout", "1500ms"}},
		{name: "negative timeout", args: []string{"--timeout", "-1s"}},
		{name: "negative interval", args: []string{"--interval", "-5s"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			mockRunner := runner.NewMockCommandRunner()
			root, _ := newTestRoot(t, mockRunner)

			err := execute(t, root, append([]string{"docker", "start"}, testCase.args...)...)

			require.ErrorIs(t, err, errorhandler.ErrUsage)
			assert.Equal(t, errorhandler.ExitUsage, errorhandler.ExitCode(err))
			mockRunner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
		})
	}
}

func TestDockerStart_InvalidPortIsUsageError(t *testing.T) {
	t.Parallel()

	mockRunner := runner.NewMockCommandRunner()
	root, _ := newTestRoot(t, mockRunner)

	err := execute(t, root, "docker", "start", "--port", "70000")

	require.ErrorIs(t, err, orchestrator.ErrMissingArgument)
	assert.Equal(t, errorhandler.ExitUsage, errorhandler.ExitCode(err))
	mockRunner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestClusterStart_RequiresClusterName(t *testing.T) {
	t.Parallel()

	mockRunner := runner.NewMockCommandRunner()
	root, _ := newTestRoot(t, mockRunner)

	err := execute(t, root, "cluster", "start")

	require.ErrorIs(t, err, errorhandler.ErrUsage)
	assert.Equal(t, errorhandler.ExitUsage, errorhandler.ExitCode(err))
	mockRunner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestClusterTenant_PassesOnlySetOptions(t *testing.T) {
	t.Parallel()

	mockRunner := runner.NewMockCommandRunner()
	mockRunner.On("Run", mock.Anything, mock.MatchedBy(func(command runner.Command) bool {
		return assert.ObjectsAreEqual([]string{
			"obd", "cluster", "tenant", "create", "demo", "-n", "app", "--max-cpu=2", "--memory-size=4G",
		}, command.Argv)
	})).Return(runner.CommandResult{Succeeded: true}, nil).Once()

	root, out := newTestRoot(t, mockRunner)

	err := execute(t, root, "cluster", "tenant", "demo", "--name", "app", "--max-cpu", "2", "--memory-size", "4G")

	require.NoError(t, err)
	assert.Contains(t, out.String(), "✔ tenant app created in cluster demo")
	mockRunner.AssertExpectations(t)
}

func TestClusterTenant_MissingNameIsUsageError(t *testing.T) {
	t.Parallel()

	root, _ := newTestRoot(t, runner.NewMockCommandRunner())

	err := execute(t, root, "cluster", "tenant", "demo")

	require.ErrorIs(t, err, orchestrator.ErrMissingArgument)
	assert.Equal(t, errorhandler.ExitUsage, errorhandler.ExitCode(err))
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	t.Parallel()

	root, _ := newTestRoot(t, runner.NewMockCommandRunner())

	err := execute(t, root, "connectivity", "--bogus")

	require.ErrorIs(t, err, errorhandler.ErrUsage)
}

func TestConfigSchema_PrintsJSONSchema(t *testing.T) {
	t.Parallel()

	root, out := newTestRoot(t, runner.NewMockCommandRunner())

	require.NoError(t, execute(t, root, "config", "schema"))

	assert.Contains(t, out.String(), `"title": "obsail Configuration"`)
	assert.Contains(t, out.String(), `"readyMarker"`)
}
