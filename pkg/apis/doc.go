// Package apis provides API type definitions for obsail.
//
// This package contains versioned API types:
//
//   - oceanbase: cluster topology, server nodes and runtime configuration
//
// The API types are designed to be serializable to YAML and JSON.
package apis
