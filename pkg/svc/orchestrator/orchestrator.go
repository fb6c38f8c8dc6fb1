package orchestrator

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	obssh "github.com/devantler-tech/obsail/pkg/client/ssh"
	"github.com/devantler-tech/obsail/pkg/cmd/runner"
	"github.com/devantler-tech/obsail/pkg/svc/connectivity"
	"github.com/devantler-tech/obsail/pkg/svc/container"
	"github.com/devantler-tech/obsail/pkg/utils/parallel"
	"github.com/sirupsen/logrus"
)

// installDir is the per-user install prefix of the deployment tool, relative to the home directory.
const installDir = ".oceanbase-all-in-one"

// NodeProber checks SSH reachability of one host.
type NodeProber interface {
	Probe(ctx context.Context, host string, creds obssh.Credentials) error
}

// Orchestrator runs provisioning steps. It holds configuration only; no
// per-cluster state survives a call.
type Orchestrator struct {
	runner     runner.CommandRunner
	config     v1alpha1.Config
	logger     logrus.FieldLogger
	checker    *connectivity.Checker
	starter    *container.Starter
	prober     NodeProber
	executor   *parallel.Executor
	tempDir    string
	lookupEnv  func(key string) (string, bool)
	fileExists func(path string) bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. Nil keeps the discard logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithConnectivityChecker replaces the checker built from configuration.
func WithConnectivityChecker(checker *connectivity.Checker) Option {
	return func(o *Orchestrator) {
		if checker != nil {
			o.checker = checker
		}
	}
}

// WithContainerStarter replaces the starter built from configuration.
func WithContainerStarter(starter *container.Starter) Option {
	return func(o *Orchestrator) {
		if starter != nil {
			o.starter = starter
		}
	}
}

// WithNodeProber replaces the SSH prober.
func WithNodeProber(prober NodeProber) Option {
	return func(o *Orchestrator) {
		if prober != nil {
			o.prober = prober
		}
	}
}

// WithMaxConcurrency bounds how many nodes are probed at once.
func WithMaxConcurrency(limit int64) Option {
	return func(o *Orchestrator) {
		o.executor = parallel.NewExecutor(limit)
	}
}

// WithTempDir sets the directory for generated topology descriptors.
func WithTempDir(dir string) Option {
	return func(o *Orchestrator) {
		o.tempDir = dir
	}
}

// WithLookupEnv replaces the environment lookup used to resolve the home directory.
func WithLookupEnv(lookupEnv func(key string) (string, bool)) Option {
	return func(o *Orchestrator) {
		if lookupEnv != nil {
			o.lookupEnv = lookupEnv
		}
	}
}

// WithFileExists replaces the check for the per-user tool install.
func WithFileExists(fileExists func(path string) bool) Option {
	return func(o *Orchestrator) {
		if fileExists != nil {
			o.fileExists = fileExists
		}
	}
}

// New creates an Orchestrator. A nil cfg uses the built-in defaults.
func New(commandRunner runner.CommandRunner, cfg *v1alpha1.Config, opts ...Option) (*Orchestrator, error) {
	if commandRunner == nil {
		return nil, ErrNilRunner
	}

	if cfg == nil {
		cfg = v1alpha1.NewConfig()
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	orchestrator := &Orchestrator{
		runner:     commandRunner,
		config:     withObdDefaults(*cfg),
		logger:     discard,
		prober:     obssh.NewProber(),
		executor:   parallel.NewExecutor(0),
		lookupEnv:  os.LookupEnv,
		fileExists: regularFileExists,
	}

	for _, opt := range opts {
		opt(orchestrator)
	}

	if orchestrator.checker == nil {
		orchestrator.checker = connectivity.NewChecker(
			connectivity.WithEndpoints(cfg.Connectivity.Endpoints...),
			connectivity.WithTimeout(cfg.Connectivity.Timeout),
			connectivity.WithLogger(orchestrator.logger),
		)
	}

	if orchestrator.starter == nil {
		orchestrator.starter = container.NewStarter(
			commandRunner,
			cfg.Docker,
			container.WithLogger(orchestrator.logger),
		)
	}

	return orchestrator, nil
}

func withObdDefaults(cfg v1alpha1.Config) v1alpha1.Config {
	defaults := v1alpha1.NewConfig().Obd

	if cfg.Obd.Binary == "" {
		cfg.Obd.Binary = defaults.Binary
	}

	if cfg.Obd.InstallerURL == "" {
		cfg.Obd.InstallerURL = defaults.InstallerURL
	}

	if cfg.Obd.CommandTimeout <= 0 {
		cfg.Obd.CommandTimeout = defaults.CommandTimeout
	}

	if cfg.Obd.InstallTimeout <= 0 {
		cfg.Obd.InstallTimeout = defaults.InstallTimeout
	}

	if cfg.Obd.FileLimit <= 0 {
		cfg.Obd.FileLimit = defaults.FileLimit
	}

	if cfg.Obd.ProductName == "" {
		cfg.Obd.ProductName = defaults.ProductName
	}

	if cfg.Docker.Binary == "" {
		cfg.Docker.Binary = v1alpha1.DefaultDockerBinary
	}

	return cfg
}

// home returns the effective home directory for locating the per-user install.
func (o *Orchestrator) home() string {
	if o.config.Obd.Home != "" {
		return o.config.Obd.Home
	}

	if home, ok := o.lookupEnv("HOME"); ok && home != "" {
		return home
	}

	return v1alpha1.DefaultFallbackHome
}

// obdBinary prefers the per-user install under home over the configured binary.
func (o *Orchestrator) obdBinary(home string) string {
	perUser := filepath.Join(home, installDir, "obd", "usr", "bin", "obd")
	if o.fileExists(perUser) {
		return perUser
	}

	return o.config.Obd.Binary
}

func envScript(home string) string {
	return filepath.Join(home, installDir, "bin", "env.sh")
}

// obdCommand builds a deployment tool invocation with the home directory override.
func (o *Orchestrator) obdCommand(home string, args ...string) runner.Command {
	return runner.Command{
		Argv:    append([]string{o.obdBinary(home)}, args...),
		Timeout: o.config.Obd.CommandTimeout,
		Env:     []string{"HOME=" + home},
	}
}

func regularFileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
