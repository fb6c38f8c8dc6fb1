// Package utils provides utility packages for common operations.
//
// This package contains subpackages with utility functions used across
// the obsail codebase:
//
//   - envvar: ${VAR} and ${VAR:-default} expansion in configuration values
//   - notify: glyph-prefixed message formatting with colour on terminals
//   - parallel: bounded-concurrency task execution
package utils
