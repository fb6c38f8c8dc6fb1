package container

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	"github.com/devantler-tech/obsail/pkg/cmd/runner"
	"github.com/devantler-tech/obsail/pkg/svc/readiness"
	"github.com/sirupsen/logrus"
)

const (
	// containerSQLPort is the SQL port exposed inside the image.
	containerSQLPort = 2881
	redacted         = "******"
	rootPasswordEnv  = "MYSQL_ROOT_PASSWORD="
)

// Result describes one start attempt.
type Result struct {
	// Options are the resolved settings used for the attempt.
	Options Options
	// CommandLine is the run command with the password redacted.
	CommandLine string
	// Run is the result of the run command.
	Run runner.CommandResult
	// RunErr is set when the run command could not complete (binary missing, timeout).
	RunErr error
	// ContainerID is the identifier printed by a successful run command.
	ContainerID string
	// Polled reports whether readiness polling took place.
	Polled bool
	// Outcome is the readiness result when Polled is true.
	Outcome readiness.Outcome
}

// Started reports whether the run command itself succeeded.
func (r Result) Started() bool {
	return r.RunErr == nil && r.Run.Succeeded
}

// Starter runs a container and waits for it to boot.
type Starter struct {
	runner   runner.CommandRunner
	poller   *readiness.Poller
	defaults v1alpha1.DockerOptions
	names    NameGenerator
	samplers SamplerFactory
	logger   logrus.FieldLogger
}

// StarterOption configures a Starter.
type StarterOption func(*Starter)

// WithNameGenerator replaces the container name generator.
func WithNameGenerator(names NameGenerator) StarterOption {
	return func(s *Starter) {
		if names != nil {
			s.names = names
		}
	}
}

// WithSamplerFactory replaces the CLI sampler.
func WithSamplerFactory(samplers SamplerFactory) StarterOption {
	return func(s *Starter) {
		if samplers != nil {
			s.samplers = samplers
		}
	}
}

// WithPoller replaces the readiness poller.
func WithPoller(poller *readiness.Poller) StarterOption {
	return func(s *Starter) {
		if poller != nil {
			s.poller = poller
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) StarterOption {
	return func(s *Starter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStarter creates a Starter with defaults taken from the docker configuration.
func NewStarter(
	commandRunner runner.CommandRunner,
	defaults v1alpha1.DockerOptions,
	opts ...StarterOption,
) *Starter {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	binary := defaults.Binary
	if binary == "" {
		binary = v1alpha1.DefaultDockerBinary
	}

	defaults.Binary = binary

	starter := &Starter{
		runner:   commandRunner,
		poller:   readiness.NewPoller(),
		defaults: defaults,
		names:    DefaultNameGenerator,
		samplers: NewCLISamplerFactory(commandRunner, binary),
		logger:   logger,
	}

	for _, opt := range opts {
		opt(starter)
	}

	return starter
}

// Start runs the container and polls it until it boots, fails or times out.
//
// Process failures are reported through Result. An error is returned only when
// the options cannot be resolved, are invalid (ErrInvalidOptions, nothing is
// run), or the readiness sampler cannot be built.
func (s *Starter) Start(ctx context.Context, requested Options) (Result, error) {
	opts, err := resolve(s.defaults, requested)
	if err != nil {
		return Result{}, err
	}

	err = validate(opts)
	if err != nil {
		return Result{Options: opts}, err
	}

	if opts.Name == "" {
		opts.Name = s.names()
	}

	argv := s.runArgv(opts)
	result := Result{
		Options:     opts,
		CommandLine: strings.Join(redact(argv), " "),
	}

	log := s.logger.WithField("container", opts.Name)
	log.WithField("image", opts.Image).Info("starting container")

	run, err := s.runner.Run(ctx, runner.Command{Argv: argv})
	result.Run = run

	if err != nil {
		result.RunErr = err

		return result, nil
	}

	if !run.Succeeded {
		log.WithField("exitCode", run.ExitCode).Warn("container run failed")

		return result, nil
	}

	result.ContainerID = strings.TrimSpace(run.Stdout)

	check, err := s.samplers(opts.Name)
	if err != nil {
		return result, fmt.Errorf("build readiness sampler for %s: %w", opts.Name, err)
	}

	outcome, err := s.poller.Await(ctx, check, opts.readiness())
	if err != nil {
		return result, fmt.Errorf("await container %s: %w", opts.Name, err)
	}

	result.Polled = true
	result.Outcome = outcome

	log.WithFields(logrus.Fields{
		"outcome":  outcome.Kind.String(),
		"attempts": outcome.Attempts,
	}).Info("container readiness settled")

	return result, nil
}

func (s *Starter) runArgv(opts Options) []string {
	return []string{
		s.defaults.Binary, "run", "-d",
		"--name", opts.Name,
		"-p", strconv.Itoa(opts.Port) + ":" + strconv.Itoa(containerSQLPort),
		"-e", "MODE=SLIM",
		"-e", rootPasswordEnv + opts.RootPassword,
		opts.Image,
	}
}

// redact returns argv with the root password value masked.
func redact(argv []string) []string {
	masked := make([]string, len(argv))

	for i, arg := range argv {
		if strings.HasPrefix(arg, rootPasswordEnv) {
			arg = rootPasswordEnv + redacted
		}

		masked[i] = arg
	}

	return masked
}
