package orchestrator

import (
	"fmt"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
)

// NoArgs is the argument set of steps that take no parameters.
type NoArgs struct{}

// InstallArgs are the arguments of StepInstallTool.
type InstallArgs struct {
	Password string `json:"password" jsonschema:"description=sudo password used to run the online installer" mapstructure:"password"`
}

// DeployArgs are the arguments of StepDeploy.
type DeployArgs struct {
	ClusterName string                `json:"cluster_name" jsonschema:"description=Name of the cluster to deploy"                      mapstructure:"cluster_name"`
	Nodes       []v1alpha1.ServerNode `json:"nodes"        jsonschema:"description=Target hosts in order; the first becomes server1" mapstructure:"nodes"`
	//nolint:lll // struct tags
	GlobalConfig map[string]any `json:"global_config,omitempty" jsonschema:"description=Global settings that replace the defaults key by key" mapstructure:"global_config"`
	//nolint:lll // struct tags
	ServerCommonConfig map[string]any `json:"server_common_config,omitempty" jsonschema:"description=Per-node settings that replace the defaults key by key" mapstructure:"server_common_config"`
	//nolint:lll // struct tags
	UserConfig map[string]any `json:"user_config,omitempty" jsonschema:"description=SSH user block (username/password/key_file/port/timeout)" mapstructure:"user_config"`
}

// ClusterArgs are the arguments of StepStart and StepCheckStatus.
type ClusterArgs struct {
	ClusterName string `json:"cluster_name" jsonschema:"description=Name of a cluster deployed with obd" mapstructure:"cluster_name"`
}

// TenantArgs are the arguments of StepCreateTenant. Zero optional fields are not passed on.
type TenantArgs struct {
	ClusterName string  `json:"cluster_name"            jsonschema:"description=Name of a running cluster"         mapstructure:"cluster_name"`
	TenantName  string  `json:"tenant_name"             jsonschema:"description=Name of the tenant to create"      mapstructure:"tenant_name"`
	MaxCPU      float64 `json:"max_cpu,omitempty"       jsonschema:"description=Maximum CPU cores of the tenant"   mapstructure:"max_cpu"`
	MemorySize  string  `json:"memory_size,omitempty"   jsonschema:"description=Memory of the tenant (e.g. 4G)"    mapstructure:"memory_size"`
	LogDiskSize string  `json:"log_disk_size,omitempty" jsonschema:"description=Log disk of the tenant (e.g. 8G)"  mapstructure:"log_disk_size"`
	//nolint:lll // struct tags
	Optimize string `json:"optimize,omitempty" jsonschema:"description=Workload profile,enum=express_oltp,enum=complex_oltp,enum=olap,enum=htap,enum=kv" mapstructure:"optimize"`
}

// ContainerArgs are the arguments of StepStartContainer. Zero fields use configuration.
type ContainerArgs struct {
	Name            string `json:"name,omitempty"             jsonschema:"description=Container name (generated when empty)"     mapstructure:"name"`
	RootPassword    string `json:"root_password,omitempty"    jsonschema:"description=Root password of the database"            mapstructure:"root_password"`
	Port            int    `json:"port,omitempty"             jsonschema:"description=Host port mapped to the SQL port 2881"    mapstructure:"port"`
	Image           string `json:"image,omitempty"            jsonschema:"description=Container image"                          mapstructure:"image"`
	TimeoutSeconds  int    `json:"timeout_seconds,omitempty"  jsonschema:"description=Maximum seconds to wait for the boot"     mapstructure:"timeout_seconds"`
	IntervalSeconds int    `json:"interval_seconds,omitempty" jsonschema:"description=Seconds between readiness samples"        mapstructure:"interval_seconds"`
	ReadyMarker     string `json:"ready_marker,omitempty"     jsonschema:"description=Log text that signals a finished boot"    mapstructure:"ready_marker"`
}

// NodesArgs are the arguments of StepCheckNodes.
type NodesArgs struct {
	Nodes      []v1alpha1.ServerNode `json:"nodes"       jsonschema:"description=Target hosts to check"                                 mapstructure:"nodes"`
	UserConfig map[string]any        `json:"user_config" jsonschema:"description=SSH user block (username/password/key_file/port/timeout)" mapstructure:"user_config"`
}

// ArgsOf returns a zero value of the argument struct that step accepts.
func ArgsOf(step Step) (any, error) {
	switch step {
	case StepCheckConnectivity, StepCheckDocker:
		return NoArgs{}, nil
	case StepInstallTool:
		return InstallArgs{}, nil
	case StepDeploy:
		return DeployArgs{}, nil
	case StepStart, StepCheckStatus:
		return ClusterArgs{}, nil
	case StepCreateTenant:
		return TenantArgs{}, nil
	case StepStartContainer:
		return ContainerArgs{}, nil
	case StepCheckNodes:
		return NodesArgs{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStep, step)
	}
}
