package errorhandler_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/devantler-tech/obsail/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/obsail/pkg/io/configmanager"
	"github.com/devantler-tech/obsail/pkg/svc/orchestrator"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errTestBoom = errors.New("boom")
	errWrapped  = errors.New("wrapped")
)

func TestExecutorExecuteSuccess(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{
		Use:  "test",
		RunE: func(*cobra.Command, []string) error { return nil },
	}

	require.NoError(t, errorhandler.NewExecutor().Execute(cmd))
}

func TestExecutorExecuteNilCommand(t *testing.T) {
	t.Parallel()

	require.NoError(t, errorhandler.NewExecutor().Execute(nil))
}

func TestExecutorExecuteWrapsFailure(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{
		Use:          "test",
		SilenceUsage: true,
		RunE:         func(*cobra.Command, []string) error { return errTestBoom },
	}

	err := errorhandler.NewExecutor().Execute(cmd)

	var commandErr *errorhandler.CommandError
	require.ErrorAs(t, err, &commandErr)
	require.ErrorIs(t, err, errTestBoom)
	assert.Equal(t, "boom", err.Error())
}

func TestExecutorExecuteContextPropagatesContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := &cobra.Command{
		Use:           "test",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return fmt.Errorf("run: %w", cmd.Context().Err())
		},
	}

	err := errorhandler.NewExecutor().ExecuteContext(ctx, cmd)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, errorhandler.ExitInterrupted, errorhandler.ExitCode(err))
}

func TestExecutorExecuteFlagErrorIsUsage(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{
		Use:          "test",
		SilenceUsage: true,
		RunE:         func(*cobra.Command, []string) error { return nil },
	}
	cmd.SetFlagErrorFunc(errorhandler.FlagErrorFunc)
	cmd.SetArgs([]string{"--nope"})

	err := errorhandler.NewExecutor().Execute(cmd)

	require.ErrorIs(t, err, errorhandler.ErrUsage)
	assert.Contains(t, err.Error(), "unknown flag: --nope")
	assert.Equal(t, errorhandler.ExitUsage, errorhandler.ExitCode(err))
}

func TestExactArgs(t *testing.T) {
	t.Parallel()

	validate := errorhandler.ExactArgs(1)

	require.NoError(t, validate(&cobra.Command{}, []string{"c1"}))

	err := validate(&cobra.Command{}, nil)
	require.ErrorIs(t, err, errorhandler.ErrUsage)
	assert.Contains(t, err.Error(), "accepts 1 arg(s), received 0")
}

func TestCommandErrorError(t *testing.T) {
	t.Parallel()

	var nilErr *errorhandler.CommandError

	assert.Empty(t, nilErr.Error())
	assert.Empty(t, (&errorhandler.CommandError{}).Error())
	require.NoError(t, nilErr.Unwrap())
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: errorhandler.ExitOK},
		{name: "runtime failure", err: errWrapped, want: errorhandler.ExitFailure},
		{
			name: "missing argument",
			err:  fmt.Errorf("step: %w", orchestrator.ErrMissingArgument),
			want: errorhandler.ExitUsage,
		},
		{
			name: "invalid topology",
			err:  fmt.Errorf("step: %w", orchestrator.ErrInvalidTopology),
			want: errorhandler.ExitUsage,
		},
		{
			name: "invalid configuration",
			err:  fmt.Errorf("load: %w", configmanager.ErrInvalidConfig),
			want: errorhandler.ExitUsage,
		},
		{
			name: "unknown subcommand",
			err:  errors.New(`unknown command "nope" for "obsail"`), //nolint:err113 // cobra formats this dynamically
			want: errorhandler.ExitUsage,
		},
		{name: "cancelled", err: context.Canceled, want: errorhandler.ExitInterrupted},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, errorhandler.ExitCode(tc.err))
		})
	}
}

func TestDefaultNormalizerNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "  \n", want: ""},
		{name: "strips prefix", raw: "Error: boom\n", want: "boom"},
		{name: "keeps detail lines", raw: "Error: boom\n  detail", want: "boom\n  detail"},
		{name: "drops usage", raw: "Error: bad flag\nUsage:\n  obsail [flags]\n", want: "bad flag"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, errorhandler.DefaultNormalizer{}.Normalize(tc.raw))
		})
	}
}
