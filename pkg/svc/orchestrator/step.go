package orchestrator

import (
	"errors"
	"fmt"
)

// ErrUnknownStep is returned by ParseStep and Dispatch for names outside the closed step set.
var ErrUnknownStep = errors.New("unknown step")

// Step identifies one provisioning operation.
type Step string

const (
	// StepCheckConnectivity probes public endpoints for internet access.
	StepCheckConnectivity Step = "check_internet_connection"
	// StepInstallTool installs the deployment tool online.
	StepInstallTool Step = "install_obd_online"
	// StepDeploy generates the topology descriptor and deploys the cluster.
	StepDeploy Step = "deploy_oceanbase_via_obd"
	// StepStart starts a deployed cluster.
	StepStart Step = "start_oceanbase_via_obd"
	// StepCheckStatus displays the cluster status.
	StepCheckStatus Step = "check_oceanbase_cluster_status"
	// StepCreateTenant creates a tenant inside a running cluster.
	StepCreateTenant Step = "create_oceanbase_tenant"
	// StepCheckDocker checks for a usable container runtime.
	StepCheckDocker Step = "docker_env_check"
	// StepStartContainer starts a single-node cluster in a container.
	StepStartContainer Step = "start_docker_ob"
	// StepCheckNodes checks SSH reachability of deployment targets.
	StepCheckNodes Step = "check_node_ssh"
)

// Steps returns every step in provisioning order.
func Steps() []Step {
	return []Step{
		StepCheckConnectivity,
		StepInstallTool,
		StepCheckNodes,
		StepDeploy,
		StepStart,
		StepCheckStatus,
		StepCreateTenant,
		StepCheckDocker,
		StepStartContainer,
	}
}

// ParseStep returns the step named name.
func ParseStep(name string) (Step, error) {
	for _, step := range Steps() {
		if string(step) == name {
			return step, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownStep, name)
}

// Description is a one-line summary of what the step does.
func (s Step) Description() string {
	switch s {
	case StepCheckConnectivity:
		return "Check whether the host can reach the public internet (required for the online install)."
	case StepInstallTool:
		return "Install the OceanBase deployment tool (obd) online with sudo; skipped when obd is already installed."
	case StepDeploy:
		return "Generate a cluster topology for the given nodes and deploy an OceanBase cluster with obd."
	case StepStart:
		return "Start an OceanBase cluster previously deployed with obd."
	case StepCheckStatus:
		return "Display the status of an OceanBase cluster managed by obd."
	case StepCreateTenant:
		return "Create a tenant in a running OceanBase cluster; omitted sizing options use obd defaults."
	case StepCheckDocker:
		return "Check whether a usable Docker environment is available on the host."
	case StepStartContainer:
		return "Start a single-node OceanBase database in Docker and wait until it has booted."
	case StepCheckNodes:
		return "Check that every deployment target accepts SSH logins with the given user credentials."
	default:
		return ""
	}
}

// State is a point in the provisioning sequence.
type State int

const (
	// StateUnchecked is the state before any step ran.
	StateUnchecked State = iota
	// StateConnectivityVerified follows a successful connectivity check.
	StateConnectivityVerified
	// StateToolInstalled follows a successful tool install.
	StateToolInstalled
	// StateDeployed follows a successful deploy.
	StateDeployed
	// StateStarted follows a successful start.
	StateStarted
	// StateVerified follows a successful status check.
	StateVerified
	// StateTenantCreated follows a successful tenant creation.
	StateTenantCreated
)

func (s State) String() string {
	switch s {
	case StateUnchecked:
		return "Unchecked"
	case StateConnectivityVerified:
		return "ConnectivityVerified"
	case StateToolInstalled:
		return "ToolInstalled"
	case StateDeployed:
		return "Deployed"
	case StateStarted:
		return "Started"
	case StateVerified:
		return "Verified"
	case StateTenantCreated:
		return "TenantCreated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Establishes returns the state a successful run of s reaches.
// Steps outside the cluster sequence report false.
func (s Step) Establishes() (State, bool) {
	switch s {
	case StepCheckConnectivity:
		return StateConnectivityVerified, true
	case StepInstallTool:
		return StateToolInstalled, true
	case StepDeploy:
		return StateDeployed, true
	case StepStart:
		return StateStarted, true
	case StepCheckStatus:
		return StateVerified, true
	case StepCreateTenant:
		return StateTenantCreated, true
	case StepCheckDocker, StepStartContainer, StepCheckNodes:
		return StateUnchecked, false
	default:
		return StateUnchecked, false
	}
}
