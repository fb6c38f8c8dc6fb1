package v1alpha1

const (
	// ProductName is the top-level key of the deployment descriptor.
	ProductName = "oceanbase-ce"
	// ServerNamePrefix prefixes the positional node names (server1, server2, ...).
	ServerNamePrefix = "server"
)

// --- Topology Types ---

// ServerNode identifies one machine/zone pair in a cluster topology.
// Its position in the node list determines its generated name.
type ServerNode struct {
	IP   string `json:"ip"   jsonschema:"description=IPv4 address of the target host" mapstructure:"ip"   yaml:"ip"`
	Zone string `json:"zone" jsonschema:"description=Zone the observer joins"         mapstructure:"zone" yaml:"zone"`
}

// ClusterTopology is the merged input for one deployment.
//
// It is built fresh for every deploy call and must not be modified once handed
// to the deploy step.
type ClusterTopology struct {
	// GlobalSettings are cluster-wide settings (memory, cpu, disk, logging).
	GlobalSettings map[string]any
	// PerNodeSettings are copied into every server record together with its zone.
	PerNodeSettings map[string]any
	// Nodes are the target hosts in input order.
	Nodes []ServerNode
	// UserCredentials is the optional SSH user block for reaching the hosts.
	UserCredentials map[string]any
}

// NamedServer is one entry of the descriptor's servers list.
type NamedServer struct {
	Name string `yaml:"name"`
	IP   string `yaml:"ip"`
}
