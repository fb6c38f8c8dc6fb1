package configmanager

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	"github.com/sirupsen/logrus"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

const maxPort = 65535

// Validate checks enum values, durations, ports and the docker ready marker. All failures are joined
// into one error wrapping ErrInvalidConfig.
func Validate(config *v1alpha1.Config) error {
	var errs []error

	check := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	check(config.Docker.Probe.Validate())
	check(config.MCP.Transport.Validate())
	check(config.Log.Format.Validate())

	_, err := logrus.ParseLevel(config.Log.Level)
	if err != nil {
		check(fmt.Errorf("%s: %w", KeyLogLevel, err))
	}

	check(positiveDuration(KeyObdCommandTimeout, config.Obd.CommandTimeout.Seconds()))
	check(positiveDuration(KeyObdInstallTimeout, config.Obd.InstallTimeout.Seconds()))
	check(positiveDuration(KeyDockerStartTimeout, config.Docker.StartTimeout.Seconds()))
	check(positiveDuration(KeyDockerPollInterval, config.Docker.PollInterval.Seconds()))
	check(positiveDuration(KeyConnectivityTimeout, config.Connectivity.Timeout.Seconds()))

	if config.Docker.Port <= 0 || config.Docker.Port > maxPort {
		check(fmt.Errorf("%s: port %d out of range", KeyDockerPort, config.Docker.Port))
	}

	if strings.TrimSpace(config.Docker.ReadyMarker) == "" {
		check(fmt.Errorf("%s: must not be empty", KeyDockerReadyMarker))
	}

	if config.Obd.FileLimit <= 0 {
		check(fmt.Errorf("%s: must be positive, got %d", KeyObdFileLimit, config.Obd.FileLimit))
	}

	if len(config.Connectivity.Endpoints) == 0 {
		check(fmt.Errorf("%s: at least one endpoint is required", KeyConnectivityEndpoints))
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func positiveDuration(key string, seconds float64) error {
	if seconds > 0 {
		return nil
	}

	return fmt.Errorf("%s: must be a positive duration", key)
}
