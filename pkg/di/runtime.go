// Package di wires obsail's runtime dependencies with samber/do.
package di

import (
	"slices"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Injector is the dependency scope handed to modules and handlers.
type Injector = do.Injector

// Module registers dependencies with an injector.
type Module func(Injector) error

// Runtime builds a fresh injector per invocation from its base modules.
type Runtime struct {
	modules []Module
}

// New creates a runtime with the given base modules. Nil modules are skipped.
func New(modules ...Module) *Runtime {
	return &Runtime{modules: modules}
}

// Invoke creates an injector, applies the base modules followed by extra, runs
// handler and shuts the injector down afterwards.
func (r *Runtime) Invoke(handler func(Injector) error, extra ...Module) error {
	injector := do.New()
	defer injector.Shutdown()

	for _, module := range slices.Concat(r.modules, extra) {
		if module == nil {
			continue
		}

		err := module(injector)
		if err != nil {
			return err
		}
	}

	return handler(injector)
}

// RunEWithRuntime adapts a handler into a cobra RunE running inside the runtime.
func RunEWithRuntime(
	runtime *Runtime,
	handler func(cmd *cobra.Command, injector Injector) error,
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return runtime.Invoke(func(injector Injector) error {
			return handler(cmd, injector)
		})
	}
}
