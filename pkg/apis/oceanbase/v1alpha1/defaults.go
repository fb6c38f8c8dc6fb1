package v1alpha1

import "time"

// Built-in global settings for a deployment descriptor.
const (
	DefaultMemoryLimit        = "6G"
	DefaultSystemMemory       = "1G"
	DefaultDatafileSize       = "2G"
	DefaultDatafileNext       = "2G"
	DefaultDatafileMaxSize    = "20G"
	DefaultLogDiskSize        = "14G"
	DefaultCPUCount           = 16
	DefaultMaxSyslogFileCount = 4
)

// Built-in per-node settings for a deployment descriptor.
const (
	DefaultMySQLPort   = 2881
	DefaultRPCPort     = 2882
	DefaultOBShellPort = 2886
	DefaultHomePath    = "/root/observer"
)

// Runtime defaults.
const (
	DefaultObdBinary      = "obd"
	DefaultInstallerURL   = "https://obbusiness-private.oss-cn-shanghai.aliyuncs.com/download-center/opensource/oceanbase-all-in-one/installer.sh"
	DefaultCommandTimeout = 300 * time.Second
	DefaultInstallTimeout = 600 * time.Second
	DefaultFileLimit      = 65535
	DefaultFallbackHome   = "/root"

	DefaultDockerBinary       = "docker"
	DefaultDockerImage        = "oceanbase/oceanbase-ce:latest"
	DefaultDockerPort         = 2881
	DefaultDockerRootPassword = "root"
	DefaultReadyMarker        = "boot success"
	DefaultStartTimeout       = 240 * time.Second
	DefaultPollInterval       = 5 * time.Second
	DefaultLogTailLines       = 50
	DefaultContainerPrefix    = "oceanbase"

	DefaultConnectivityTimeout = 3 * time.Second
	DefaultSSHTimeout          = 30 * time.Second
	DefaultSSHPort             = 22

	DefaultMCPAddress = ":8000"
	DefaultLogLevel   = "info"
)

// DefaultConnectivityEndpoints are the public resolvers probed by the connectivity check.
func DefaultConnectivityEndpoints() []string {
	return []string{
		"8.8.8.8:53",
		"114.114.114.114:53",
		"223.5.5.5:53",
	}
}

// DefaultGlobalSettings returns a fresh copy of the built-in global settings.
func DefaultGlobalSettings() map[string]any {
	return map[string]any{
		"memory_limit":          DefaultMemoryLimit,
		"system_memory":         DefaultSystemMemory,
		"datafile_size":         DefaultDatafileSize,
		"datafile_next":         DefaultDatafileNext,
		"datafile_maxsize":      DefaultDatafileMaxSize,
		"log_disk_size":         DefaultLogDiskSize,
		"cpu_count":             DefaultCPUCount,
		"production_mode":       false,
		"enable_syslog_wf":      false,
		"max_syslog_file_count": DefaultMaxSyslogFileCount,
	}
}

// DefaultPerNodeSettings returns a fresh copy of the built-in per-node settings.
func DefaultPerNodeSettings() map[string]any {
	return map[string]any{
		"mysql_port":   DefaultMySQLPort,
		"rpc_port":     DefaultRPCPort,
		"obshell_port": DefaultOBShellPort,
		"home_path":    DefaultHomePath,
	}
}
