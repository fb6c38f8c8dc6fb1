package orchestrator

import (
	"context"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Dispatch runs step with loosely typed arguments, as received from a tool call.
//
// Arguments are decoded into the step's argument struct; unknown keys are
// ignored and scalar strings are converted where possible.
func (o *Orchestrator) Dispatch(ctx context.Context, step Step, args map[string]any) (string, error) {
	switch step {
	case StepCheckConnectivity:
		return o.CheckConnectivity(ctx), nil
	case StepInstallTool:
		return dispatch(step, args, func(a InstallArgs) (string, error) { return o.InstallTool(ctx, a.Password) })
	case StepDeploy:
		return dispatch(step, args, func(a DeployArgs) (string, error) { return o.Deploy(ctx, a) })
	case StepStart:
		return dispatch(step, args, func(a ClusterArgs) (string, error) { return o.Start(ctx, a.ClusterName) })
	case StepCheckStatus:
		return dispatch(step, args, func(a ClusterArgs) (string, error) { return o.CheckStatus(ctx, a.ClusterName) })
	case StepCreateTenant:
		return dispatch(step, args, func(a TenantArgs) (string, error) { return o.CreateTenant(ctx, a) })
	case StepCheckDocker:
		return o.CheckDocker(ctx), nil
	case StepStartContainer:
		return dispatch(step, args, func(a ContainerArgs) (string, error) { return o.StartContainer(ctx, a) })
	case StepCheckNodes:
		return dispatch(step, args, func(a NodesArgs) (string, error) { return o.CheckNodes(ctx, a) })
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStep, step)
	}
}

func dispatch[T any](step Step, args map[string]any, run func(T) (string, error)) (string, error) {
	decoded, err := DecodeArgs[T](args)
	if err != nil {
		return "", fmt.Errorf("%w for %s: %w", ErrInvalidArguments, step, err)
	}

	return run(decoded)
}

// DecodeArgs decodes loosely typed tool arguments into T.
func DecodeArgs[T any](args map[string]any) (T, error) {
	var decoded T

	if len(args) == 0 {
		return decoded, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &decoded,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return decoded, fmt.Errorf("create argument decoder: %w", err)
	}

	err = decoder.Decode(args)
	if err != nil {
		return decoded, fmt.Errorf("decode arguments: %w", err)
	}

	return decoded, nil
}
