package orchestrator

import (
	"context"
	"regexp"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/devantler-tech/obsail/pkg/cmd/runner"
	"github.com/devantler-tech/obsail/pkg/utils/notify"
)

const (
	probeTimeout = 60 * time.Second

	// installScript fetches and runs the installer; the URL arrives as $1.
	installScript = `bash -c "$(curl -s "$1")"`
	// sourceScript sources the environment script given as $1.
	sourceScript = `source "$1"`
)

var versionPattern = regexp.MustCompile(`v?\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?`)

// InstallTool installs the deployment tool online with sudo.
//
// An existing install (probed with its version command under the effective
// home directory) short-circuits the step. The password is fed to sudo on stdin.
func (o *Orchestrator) InstallTool(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", missingArgument(StepInstallTool, "password")
	}

	home := o.home()

	if version, ok := o.installedVersion(ctx, home); ok {
		return o.succeed(StepInstallTool, "obd is already installed%s: %s", version, o.obdBinary(home)), nil
	}

	install := runner.Command{
		Argv: []string{
			"sudo", "-S", "bash", "-c", installScript, "obsail-install", o.config.Obd.InstallerURL,
		},
		Timeout: o.config.Obd.InstallTimeout,
		Stdin:   password + "\n",
	}

	result, err := o.runner.Run(ctx, install)
	if err != nil || !result.Succeeded {
		return o.fail(
			commandFailure(StepInstallTool, "obd installation failed", result, err),
			indented(output(result.Stderr)),
		), nil
	}

	env, err := o.runner.Run(ctx, runner.Command{
		Argv:    []string{"bash", "-c", sourceScript, "obsail-env", envScript(home)},
		Timeout: probeTimeout,
		Env:     []string{"HOME=" + home},
	})

	warning := ""
	if err != nil || !env.Succeeded {
		warning = notify.Format(notify.WarningType, "could not source %s; open a new shell before using obd", envScript(home))
	}

	version, _ := o.installedVersion(ctx, home)

	return notify.Lines(
		o.succeed(StepInstallTool, "obd installed successfully%s: %s", version, o.obdBinary(home)),
		warning,
	), nil
}

// installedVersion probes the tool and returns a " (version X)" suffix when parseable.
func (o *Orchestrator) installedVersion(ctx context.Context, home string) (string, bool) {
	result, err := o.runner.Run(ctx, o.probeCommand(home))
	if err != nil || !result.Succeeded {
		return "", false
	}

	version := parseVersion(result.Stdout)
	if version == nil {
		return "", true
	}

	return " (version " + version.String() + ")", true
}

func (o *Orchestrator) probeCommand(home string) runner.Command {
	cmd := o.obdCommand(home, "--version")
	cmd.Timeout = probeTimeout

	return cmd
}

// parseVersion extracts the first semantic version in text.
func parseVersion(text string) *semver.Version {
	match := versionPattern.FindString(text)
	if match == "" {
		return nil
	}

	version, err := semver.NewVersion(match)
	if err != nil {
		return nil
	}

	return version
}
