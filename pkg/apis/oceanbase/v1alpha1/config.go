package v1alpha1

import "time"

// --- Runtime Configuration Types ---

// Config is the obsail runtime configuration (obsail.yaml, OBSAIL_* env, flags).
type Config struct {
	Obd          ObdOptions          `json:"obd,omitzero"          mapstructure:"obd"`
	Docker       DockerOptions       `json:"docker,omitzero"       mapstructure:"docker"`
	Connectivity ConnectivityOptions `json:"connectivity,omitzero" mapstructure:"connectivity"`
	MCP          MCPOptions          `json:"mcp,omitzero"          mapstructure:"mcp"`
	Log          LogOptions          `json:"log,omitzero"          mapstructure:"log"`
}

// ObdOptions configures the deployment tool.
type ObdOptions struct {
	// Binary is the deployment tool executable used when no per-user install is found.
	Binary string `json:"binary,omitzero" mapstructure:"binary"`
	// Home overrides the home directory used to locate the per-user install prefix.
	// Empty means $HOME, falling back to DefaultFallbackHome.
	Home string `json:"home,omitzero" mapstructure:"home"`
	// InstallerURL is the online installer script.
	InstallerURL string `json:"installerURL,omitzero" mapstructure:"installerURL"`
	// CommandTimeout bounds deploy/start/display/tenant commands.
	CommandTimeout time.Duration `json:"commandTimeout,omitzero" mapstructure:"commandTimeout"`
	// InstallTimeout bounds the online install.
	InstallTimeout time.Duration `json:"installTimeout,omitzero" mapstructure:"installTimeout"`
	// FileLimit is the open file limit raised before cluster start.
	FileLimit int `json:"fileLimit,omitzero" mapstructure:"fileLimit"`
	// ProductName is the top-level key of the deployment descriptor.
	ProductName string `json:"productName,omitzero" mapstructure:"productName"`
}

// DockerOptions configures the container quick-start workflow.
type DockerOptions struct {
	Binary       string        `json:"binary,omitzero"       mapstructure:"binary"`
	Image        string        `json:"image,omitzero"        mapstructure:"image"`
	Port         int           `json:"port,omitzero"         mapstructure:"port"`
	RootPassword string        `json:"rootPassword,omitzero" mapstructure:"rootPassword"`
	ReadyMarker  string        `json:"readyMarker,omitzero"  mapstructure:"readyMarker"`
	StartTimeout time.Duration `json:"startTimeout,omitzero" mapstructure:"startTimeout"`
	PollInterval time.Duration `json:"pollInterval,omitzero" mapstructure:"pollInterval"`
	LogTailLines int           `json:"logTailLines,omitzero" mapstructure:"logTailLines"`
	Probe        ProbeMode     `json:"probe,omitzero"        mapstructure:"probe"`
}

// ConnectivityOptions configures the public network probe.
type ConnectivityOptions struct {
	Endpoints []string      `json:"endpoints,omitzero" mapstructure:"endpoints"`
	Timeout   time.Duration `json:"timeout,omitzero"   mapstructure:"timeout"`
}

// MCPOptions configures the tool server.
type MCPOptions struct {
	Transport Transport `json:"transport,omitzero" mapstructure:"transport"`
	Address   string    `json:"address,omitzero"   mapstructure:"address"`
}

// LogOptions configures the process logger.
type LogOptions struct {
	Level  string    `json:"level,omitzero"  mapstructure:"level"`
	Format LogFormat `json:"format,omitzero" mapstructure:"format"`
}

// NewConfig returns a Config populated with the built-in defaults.
func NewConfig() *Config {
	return &Config{
		Obd: ObdOptions{
			Binary:         DefaultObdBinary,
			InstallerURL:   DefaultInstallerURL,
			CommandTimeout: DefaultCommandTimeout,
			InstallTimeout: DefaultInstallTimeout,
			FileLimit:      DefaultFileLimit,
			ProductName:    ProductName,
		},
		Docker: DockerOptions{
			Binary:       DefaultDockerBinary,
			Image:        DefaultDockerImage,
			Port:         DefaultDockerPort,
			RootPassword: DefaultDockerRootPassword,
			ReadyMarker:  DefaultReadyMarker,
			StartTimeout: DefaultStartTimeout,
			PollInterval: DefaultPollInterval,
			LogTailLines: DefaultLogTailLines,
			Probe:        ProbeModeCLI,
		},
		Connectivity: ConnectivityOptions{
			Endpoints: DefaultConnectivityEndpoints(),
			Timeout:   DefaultConnectivityTimeout,
		},
		MCP: MCPOptions{
			Transport: TransportStdio,
			Address:   DefaultMCPAddress,
		},
		Log: LogOptions{
			Level:  DefaultLogLevel,
			Format: LogFormatText,
		},
	}
}
