package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	"github.com/devantler-tech/obsail/pkg/cmd/runner"
	"github.com/devantler-tech/obsail/pkg/svc/orchestrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testHome = "/home/tester"

func testConfig() *v1alpha1.Config {
	cfg := v1alpha1.NewConfig()
	cfg.Obd.Home = testHome

	return cfg
}

func newTestOrchestrator(
	t *testing.T,
	commandRunner runner.CommandRunner,
	opts ...orchestrator.Option,
) *orchestrator.Orchestrator {
	t.Helper()

	base := []orchestrator.Option{
		orchestrator.WithFileExists(func(string) bool { return false }),
		orchestrator.WithTempDir(t.TempDir()),
	}

	orch, err := orchestrator.New(commandRunner, testConfig(), append(base, opts...)...)
	require.NoError(t, err)

	return orch
}

func argvEquals(want ...string) any {
	return mock.MatchedBy(func(cmd runner.Command) bool {
		return assert.ObjectsAreEqual(want, cmd.Argv)
	})
}

func TestNew_RequiresRunner(t *testing.T) {
	t.Parallel()

	orch, err := orchestrator.New(nil, nil)

	require.ErrorIs(t, err, orchestrator.ErrNilRunner)
	assert.Nil(t, orch)
}

func TestNew_NilConfigUsesDefaults(t *testing.T) {
	t.Parallel()

	mockRunner := runner.NewMockCommandRunner()
	mockRunner.On("Run", mock.Anything, argvEquals("docker", "--version")).
		Return(runner.CommandResult{Succeeded: true, Stdout: "Docker version 27.0.3\n"}, nil)

	orch, err := orchestrator.New(mockRunner, nil)
	require.NoError(t, err)

	assert.Equal(t, "✔ docker environment available: Docker version 27.0.3", orch.CheckDocker(context.Background()))
}

func TestOrchestrator_HomeResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		home     string
		envHome  string
		envSet   bool
		perUser  bool
		wantEnv  string
		wantArgv string
	}{
		{name: "configured home", home: "/opt/ob", wantEnv: "HOME=/opt/ob", wantArgv: "obd"},
		{name: "environment home", envHome: "/home/a", envSet: true, wantEnv: "HOME=/home/a", wantArgv: "obd"},
		{name: "fallback home", wantEnv: "HOME=/root", wantArgv: "obd"},
		{
			name:     "per-user binary preferred",
			home:     "/opt/ob",
			perUser:  true,
			wantEnv:  "HOME=/opt/ob",
			wantArgv: "/opt/ob/.oceanbase-all-in-one/obd/usr/bin/obd",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var seen runner.Command

			mockRunner := runner.NewMockCommandRunner()
			mockRunner.On("Run", mock.Anything, mock.Anything).
				Run(func(args mock.Arguments) { seen = args.Get(1).(runner.Command) }).
				Return(runner.CommandResult{Succeeded: true, Stdout: "ok"}, nil)

			cfg := v1alpha1.NewConfig()
			cfg.Obd.Home = testCase.home

			orch, err := orchestrator.New(
				mockRunner,
				cfg,
				orchestrator.WithLookupEnv(func(string) (string, bool) { return testCase.envHome, testCase.envSet }),
				orchestrator.WithFileExists(func(path string) bool {
					return testCase.perUser && path == testCase.wantArgv
				}),
			)
			require.NoError(t, err)

			_, err = orch.CheckStatus(context.Background(), "c1")
			require.NoError(t, err)

			assert.Equal(t, []string{testCase.wantEnv}, seen.Env)
			assert.Equal(t, []string{testCase.wantArgv, "cluster", "display", "c1"}, seen.Argv)
		})
	}
}

func TestStepError_MatchesKindSentinelAndCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := error(&orchestrator.StepError{
		Step:   orchestrator.StepDeploy,
		Kind:   orchestrator.KindTimeout,
		Detail: "took too long",
		Err:    cause,
	})

	require.ErrorIs(t, err, orchestrator.ErrTimeout)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, "deploy_oceanbase_via_obd: timeout: took too long", err.Error())

	kind, ok := orchestrator.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, orchestrator.KindTimeout, kind)

	_, ok = orchestrator.KindOf(cause)
	assert.False(t, ok)
}

func TestErrorKind_StringAndSentinel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind     orchestrator.ErrorKind
		name     string
		sentinel error
	}{
		{orchestrator.KindMissingArgument, "MissingArgument", orchestrator.ErrMissingArgument},
		{orchestrator.KindToolNotInstalled, "ToolNotInstalled", orchestrator.ErrToolNotInstalled},
		{orchestrator.KindExternalCommandFailed, "ExternalCommandFailed", orchestrator.ErrExternalCommandFailed},
		{orchestrator.KindTimeout, "Timeout", orchestrator.ErrTimeout},
		{orchestrator.KindConnectivityUnavailable, "ConnectivityUnavailable", orchestrator.ErrConnectivityUnavailable},
		{orchestrator.KindInvalidTopology, "InvalidTopology", orchestrator.ErrInvalidTopology},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.name, testCase.kind.String())
		assert.Equal(t, testCase.sentinel, testCase.kind.Sentinel())
	}

	assert.Nil(t, orchestrator.ErrorKind(0).Sentinel())
	assert.Equal(t, "ErrorKind(99)", orchestrator.ErrorKind(99).String())
}

func TestSteps_ClosedSet(t *testing.T) {
	t.Parallel()

	steps := orchestrator.Steps()
	require.Len(t, steps, 9)

	for _, step := range steps {
		parsed, err := orchestrator.ParseStep(string(step))
		require.NoError(t, err)
		assert.Equal(t, step, parsed)
		assert.NotEmpty(t, step.Description())
	}

	_, err := orchestrator.ParseStep("drop_database")
	require.ErrorIs(t, err, orchestrator.ErrUnknownStep)
}

func TestStep_Establishes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		step  orchestrator.Step
		state orchestrator.State
		ok    bool
	}{
		{orchestrator.StepCheckConnectivity, orchestrator.StateConnectivityVerified, true},
		{orchestrator.StepInstallTool, orchestrator.StateToolInstalled, true},
		{orchestrator.StepDeploy, orchestrator.StateDeployed, true},
		{orchestrator.StepStart, orchestrator.StateStarted, true},
		{orchestrator.StepCheckStatus, orchestrator.StateVerified, true},
		{orchestrator.StepCreateTenant, orchestrator.StateTenantCreated, true},
		{orchestrator.StepCheckDocker, orchestrator.StateUnchecked, false},
		{orchestrator.StepStartContainer, orchestrator.StateUnchecked, false},
		{orchestrator.StepCheckNodes, orchestrator.StateUnchecked, false},
	}

	for _, testCase := range tests {
		state, ok := testCase.step.Establishes()
		assert.Equal(t, testCase.state, state, testCase.step)
		assert.Equal(t, testCase.ok, ok, testCase.step)
	}

	assert.Equal(t, "TenantCreated", orchestrator.StateTenantCreated.String())
	assert.Equal(t, "Unchecked", orchestrator.StateUnchecked.String())
}

func readDirNames(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	return names
}
