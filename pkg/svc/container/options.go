package container

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	"github.com/devantler-tech/obsail/pkg/svc/readiness"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// ErrInvalidOptions is returned when resolved start options cannot be used.
var ErrInvalidOptions = errors.New("invalid container options")

const maxPort = 65535

// Options are the per-call start settings. Zero fields fall back to configuration.
type Options struct {
	Name         string
	RootPassword string
	Port         int
	Image        string
	ReadyMarker  string
	StartTimeout time.Duration
	PollInterval time.Duration
	LogTailLines int
}

// NameGenerator returns a fresh container name for every call.
type NameGenerator func() string

// DefaultNameGenerator returns the container prefix followed by a random hex identifier.
func DefaultNameGenerator() string {
	return v1alpha1.DefaultContainerPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// resolve layers requested over the configured defaults.
func resolve(defaults v1alpha1.DockerOptions, requested Options) (Options, error) {
	var resolved Options

	err := copier.Copy(&resolved, &defaults)
	if err != nil {
		return Options{}, fmt.Errorf("apply configured docker defaults: %w", err)
	}

	err = copier.CopyWithOption(&resolved, &requested, copier.Option{IgnoreEmpty: true})
	if err != nil {
		return Options{}, fmt.Errorf("apply requested docker options: %w", err)
	}

	return resolved, nil
}

// validate rejects resolved options that would start a container nobody can wait for.
func validate(opts Options) error {
	if opts.Port < 1 || opts.Port > maxPort {
		return fmt.Errorf("%w: port %d out of range 1-%d", ErrInvalidOptions, opts.Port, maxPort)
	}

	if strings.TrimSpace(opts.Image) == "" {
		return fmt.Errorf("%w: image is required", ErrInvalidOptions)
	}

	err := opts.readiness().Validate()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	return nil
}

func (o Options) readiness() readiness.Options {
	return readiness.Options{
		SuccessMarker: o.ReadyMarker,
		Timeout:       o.StartTimeout,
		Interval:      o.PollInterval,
		TailLines:     o.LogTailLines,
	}
}
