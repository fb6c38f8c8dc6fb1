package runner

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCommandRunner is a mock implementation of CommandRunner for testing.
type MockCommandRunner struct {
	mock.Mock
}

// NewMockCommandRunner creates a new MockCommandRunner instance.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{}
}

// Run mocks running a command.
func (m *MockCommandRunner) Run(ctx context.Context, cmd Command) (CommandResult, error) {
	args := m.Called(ctx, cmd)

	result, ok := args.Get(0).(CommandResult)
	if !ok {
		return CommandResult{}, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
	}

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ArgvPrefix returns a matcher for commands whose argument vector starts with prefix.
func ArgvPrefix(prefix ...string) any {
	return mock.MatchedBy(func(cmd Command) bool {
		if len(cmd.Argv) < len(prefix) {
			return false
		}

		for i, arg := range prefix {
			if cmd.Argv[i] != arg {
				return false
			}
		}

		return true
	})
}
