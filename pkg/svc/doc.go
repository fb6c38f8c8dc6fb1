// Package svc provides service layer components for obsail.
//
// This package contains the business logic that coordinates between the CLI
// commands, the MCP server and the external tools.
//
// Subpackages:
//   - connectivity: public network reachability probe
//   - container: single-node container quick start
//   - mcp: Model Context Protocol server exposing every step as a tool
//   - orchestrator: provisioning steps and their outcome messages
//   - readiness: log-marker readiness polling
//   - topology: cluster topology building and descriptor rendering
package svc
