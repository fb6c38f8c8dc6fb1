package configmanager

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	"github.com/devantler-tech/obsail/pkg/utils/envvar"
	"github.com/devantler-tech/obsail/pkg/utils/notify"
	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrUnknownFlag is returned when a flag binding names a flag that is not defined.
var ErrUnknownFlag = errors.New("unknown flag")

// ConfigManager loads v1alpha1.Config through viper.
type ConfigManager struct {
	Viper  *viper.Viper
	Config *v1alpha1.Config
	// Writer receives loading notifications.
	Writer io.Writer

	configFile      string
	configLoaded    bool
	configFileFound bool
}

// Compile-time interface compliance verification.
var _ Loader[v1alpha1.Config] = (*ConfigManager)(nil)

// Option customises a ConfigManager.
type Option func(*ConfigManager)

// WithConfigFile reads the given file instead of searching the config paths.
func WithConfigFile(path string) Option {
	return func(m *ConfigManager) {
		m.SetConfigFile(path)
	}
}

// SetConfigFile reads path instead of searching the config paths. A missing
// explicit file is an error. Empty paths are ignored.
func (m *ConfigManager) SetConfigFile(path string) {
	if path == "" {
		return
	}

	m.configFile = path
	m.Viper.SetConfigFile(path)
}

// NewConfigManager creates a configuration manager writing notifications to writer.
// configPaths replace the default search paths (working directory, then UserConfigPath).
func NewConfigManager(writer io.Writer, configPaths []string, opts ...Option) *ConfigManager {
	if writer == nil {
		writer = io.Discard
	}

	manager := &ConfigManager{
		Viper:  InitializeViper(configPaths...),
		Config: v1alpha1.NewConfig(),
		Writer: writer,
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

// BindFlags binds command-line flags to configuration keys. bindings maps flag
// names to keys; a flag only overrides its key when it was set explicitly.
func (m *ConfigManager) BindFlags(flags *pflag.FlagSet, bindings map[string]string) error {
	for flagName, key := range bindings {
		flag := flags.Lookup(flagName)
		if flag == nil {
			return fmt.Errorf("%w: --%s", ErrUnknownFlag, flagName)
		}

		err := m.Viper.BindPFlag(key, flag)
		if err != nil {
			return fmt.Errorf("bind --%s to %s: %w", flagName, key, err)
		}
	}

	return nil
}

// ConfigFileUsed returns the config file that was read, or "" when none was found.
func (m *ConfigManager) ConfigFileUsed() string {
	if !m.configFileFound {
		return ""
	}

	return m.Viper.ConfigFileUsed()
}

// Load loads the configuration from files, environment variables and flags.
// Returns the loaded config (either freshly loaded or previously cached) and an error if loading failed.
// Returns nil config on error.
func (m *ConfigManager) Load(opts LoadOptions) (*v1alpha1.Config, error) {
	if m.configLoaded {
		return m.Config, nil
	}

	if !opts.Silent {
		m.notify(notify.ActivityType, "loading obsail config")
	}

	if !opts.IgnoreConfigFile {
		err := m.readConfig(opts.Silent)
		if err != nil {
			return nil, err
		}
	}

	err := m.unmarshal()
	if err != nil {
		return nil, err
	}

	if !opts.SkipValidation {
		err = Validate(m.Config)
		if err != nil {
			return nil, err
		}
	}

	if !opts.Silent {
		m.notify(notify.SuccessType, "config loaded")
	}

	m.configLoaded = true

	return m.Config, nil
}

func (m *ConfigManager) readConfig(silent bool) error {
	err := m.Viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if m.configFile != "" || !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		m.configFileFound = false

		if !silent {
			m.notify(notify.ActivityType, "using default config")
		}

		return nil
	}

	m.configFileFound = true

	if !silent {
		m.notify(notify.ActivityType, "'%s' found", m.Viper.ConfigFileUsed())
	}

	return nil
}

func (m *ConfigManager) unmarshal() error {
	decoderConfig := func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			expandEnvHook(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}

	config := v1alpha1.NewConfig()

	err := m.Viper.Unmarshal(config, decoderConfig)
	if err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	m.Config = config

	return nil
}

func (m *ConfigManager) notify(msgType notify.MessageType, content string, args ...any) {
	notify.WriteMessage(notify.Message{
		Type:    msgType,
		Content: content,
		Args:    args,
		Writer:  m.Writer,
	})
}

// expandEnvHook expands ${VAR} placeholders in every string value before decoding.
func expandEnvHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}

		value := reflect.ValueOf(data).String()
		if !envvar.Contains(value) {
			return data, nil
		}

		return envvar.Expand(value), nil
	}
}
