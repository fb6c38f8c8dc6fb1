package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/devantler-tech/obsail/pkg/cli/ui/errorhandler"
	"github.com/stretchr/testify/assert"
)

func TestRunSafely_ReturnsRunnerExitCode(t *testing.T) {
	t.Parallel()

	var gotArgs []string

	code := runSafely(context.Background(), []string{"docker", "check"}, func(_ context.Context, args []string) int {
		gotArgs = args

		return errorhandler.ExitUsage
	}, &bytes.Buffer{})

	assert.Equal(t, errorhandler.ExitUsage, code)
	assert.Equal(t, []string{"docker", "check"}, gotArgs)
}

func TestRunSafely_RecoversPanic(t *testing.T) {
	t.Parallel()

	var errOut bytes.Buffer

	code := runSafely(context.Background(), nil, func(context.Context, []string) int {
		panic("boom")
	}, &errOut)

	assert.Equal(t, errorhandler.ExitFailure, code)
	assert.Contains(t, errOut.String(), "panic recovered: boom")
}

func TestRunWithArgs_UsageErrorExitCode(t *testing.T) {
	t.Parallel()

	code := runWithArgs(context.Background(), []string{"--definitely-not-a-flag"})

	assert.Equal(t, errorhandler.ExitUsage, code)
}

func TestRunWithArgs_Help(t *testing.T) {
	t.Parallel()

	code := runWithArgs(context.Background(), []string{"--help"})

	assert.Equal(t, errorhandler.ExitOK, code)
}
