package configmanager

import (
	"strings"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix of every environment variable read by obsail.
	EnvPrefix = "OBSAIL"
	// ConfigName is the config file name without extension.
	ConfigName = "obsail"
	// ConfigType is the config file format.
	ConfigType = "yaml"
	// UserConfigPath is searched after the working directory.
	UserConfigPath = "$HOME/.config/obsail"
)

// Configuration keys.
const (
	KeyObdBinary         = "obd.binary"
	KeyObdHome           = "obd.home"
	KeyObdInstallerURL   = "obd.installerURL"
	KeyObdCommandTimeout = "obd.commandTimeout"
	KeyObdInstallTimeout = "obd.installTimeout"
	KeyObdFileLimit      = "obd.fileLimit"
	KeyObdProductName    = "obd.productName"

	KeyDockerBinary       = "docker.binary"
	KeyDockerImage        = "docker.image"
	KeyDockerPort         = "docker.port"
	KeyDockerRootPassword = "docker.rootPassword"
	KeyDockerReadyMarker  = "docker.readyMarker"
	KeyDockerStartTimeout = "docker.startTimeout"
	KeyDockerPollInterval = "docker.pollInterval"
	KeyDockerLogTailLines = "docker.logTailLines"
	KeyDockerProbe        = "docker.probe"

	KeyConnectivityEndpoints = "connectivity.endpoints"
	KeyConnectivityTimeout   = "connectivity.timeout"

	KeyMCPTransport = "mcp.transport"
	KeyMCPAddress   = "mcp.address"

	KeyLogLevel  = "log.level"
	KeyLogFormat = "log.format"
)

// InitializeViper returns a viper instance with obsail's search paths, environment
// handling and built-in defaults. Nested keys map to variables such as
// OBSAIL_DOCKER_PORT.
func InitializeViper(configPaths ...string) *viper.Viper {
	viperInstance := viper.New()

	viperInstance.SetConfigName(ConfigName)
	viperInstance.SetConfigType(ConfigType)

	if len(configPaths) == 0 {
		configPaths = []string{".", UserConfigPath}
	}

	for _, path := range configPaths {
		viperInstance.AddConfigPath(path)
	}

	viperInstance.SetEnvPrefix(EnvPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viperInstance.AutomaticEnv()

	setDefaults(viperInstance, v1alpha1.NewConfig())

	return viperInstance
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(viperInstance *viper.Viper, defaults *v1alpha1.Config) {
	values := map[string]any{
		KeyObdBinary:         defaults.Obd.Binary,
		KeyObdHome:           defaults.Obd.Home,
		KeyObdInstallerURL:   defaults.Obd.InstallerURL,
		KeyObdCommandTimeout: defaults.Obd.CommandTimeout,
		KeyObdInstallTimeout: defaults.Obd.InstallTimeout,
		KeyObdFileLimit:      defaults.Obd.FileLimit,
		KeyObdProductName:    defaults.Obd.ProductName,

		KeyDockerBinary:       defaults.Docker.Binary,
		KeyDockerImage:        defaults.Docker.Image,
		KeyDockerPort:         defaults.Docker.Port,
		KeyDockerRootPassword: defaults.Docker.RootPassword,
		KeyDockerReadyMarker:  defaults.Docker.ReadyMarker,
		KeyDockerStartTimeout: defaults.Docker.StartTimeout,
		KeyDockerPollInterval: defaults.Docker.PollInterval,
		KeyDockerLogTailLines: defaults.Docker.LogTailLines,
		KeyDockerProbe:        string(defaults.Docker.Probe),

		KeyConnectivityEndpoints: defaults.Connectivity.Endpoints,
		KeyConnectivityTimeout:   defaults.Connectivity.Timeout,

		KeyMCPTransport: string(defaults.MCP.Transport),
		KeyMCPAddress:   defaults.MCP.Address,

		KeyLogLevel:  defaults.Log.Level,
		KeyLogFormat: string(defaults.Log.Format),
	}

	for key, value := range values {
		viperInstance.SetDefault(key, value)
	}
}
