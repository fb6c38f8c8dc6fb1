// Package v1alpha1 contains the obsail API types.
//
// It holds the cluster topology model handed to the deployment tool
// (ServerNode, ClusterTopology and their built-in defaults) and the runtime
// configuration model loaded by the config manager (Config and its options).
package v1alpha1
