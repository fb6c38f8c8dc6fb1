// Package cli provides the command-line surface of obsail.
//
// Subpackages:
//
//   - cli/annotations: command annotation keys shared with the MCP server
//   - cli/cmd: the cobra command tree
//   - cli/ui/errorhandler: command execution, error normalisation and exit codes
package cli
