// Package container starts a single-node database container and waits for it to boot.
//
// Starter runs the container through the docker CLI and then polls it with a
// readiness sampler, either CLI-backed (inspect + logs) or Engine API backed.
package container
