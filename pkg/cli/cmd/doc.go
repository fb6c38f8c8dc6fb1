// Package cmd provides the obsail command-line interface.
//
// Every provisioning step has a command:
//   - connectivity: check internet access
//   - obd install: install the deployment tool online
//   - nodes check: SSH preflight of deployment targets
//   - cluster deploy|start|status|tenant: cluster lifecycle through obd
//   - docker check|start: single-node quick start in a container
//   - step: run any step with JSON arguments
//   - mcp: serve every step as an MCP tool
package cmd
