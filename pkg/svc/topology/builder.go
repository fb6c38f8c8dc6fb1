package topology

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
)

var (
	// ErrInvalidTopology is returned when the node list cannot form a cluster.
	ErrInvalidTopology = errors.New("invalid topology")
	// ErrInvalidNode is returned alongside ErrInvalidTopology for a node missing its ip or zone.
	ErrInvalidNode = errors.New("invalid node")
)

// zoneKey is the per-node key that always carries the node's own zone.
const zoneKey = "zone"

// Overrides are caller-supplied settings layered over the defaults.
type Overrides struct {
	// Global replaces default global settings key by key.
	Global map[string]any
	// PerNode replaces default per-node settings key by key.
	PerNode map[string]any
	// User holds optional SSH credentials for the deployment tool.
	User map[string]any
}

// Build creates a topology for nodes with overrides merged over the defaults.
//
// It fails with ErrInvalidTopology when nodes is empty or a node lacks an IP or zone.
// The returned maps are fresh copies; overrides are not modified.
func Build(nodes []v1alpha1.ServerNode, overrides Overrides) (*v1alpha1.ClusterTopology, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: at least one node is required", ErrInvalidTopology)
	}

	for i, node := range nodes {
		if strings.TrimSpace(node.IP) == "" {
			return nil, fmt.Errorf("%w: %w: node %d has no ip", ErrInvalidTopology, ErrInvalidNode, i+1)
		}

		if strings.TrimSpace(node.Zone) == "" {
			return nil, fmt.Errorf(
				"%w: %w: node %d (%s) has no zone", ErrInvalidTopology, ErrInvalidNode, i+1, node.IP,
			)
		}
	}

	topology := &v1alpha1.ClusterTopology{
		GlobalSettings:  merge(v1alpha1.DefaultGlobalSettings(), overrides.Global),
		PerNodeSettings: merge(v1alpha1.DefaultPerNodeSettings(), overrides.PerNode),
		Nodes:           append([]v1alpha1.ServerNode(nil), nodes...),
	}

	if len(overrides.User) > 0 {
		topology.UserCredentials = maps.Clone(overrides.User)
	}

	return topology, nil
}

// ServerName returns the positional name of the node at index (0-based).
func ServerName(index int) string {
	return v1alpha1.ServerNamePrefix + strconv.Itoa(index+1)
}

// merge shallow-merges override over defaults. Every override key wins.
func merge(defaults, override map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults)+len(override))
	maps.Copy(merged, defaults)
	maps.Copy(merged, override)

	return merged
}
