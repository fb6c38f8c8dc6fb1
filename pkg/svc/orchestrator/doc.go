// Package orchestrator sequences the provisioning steps of a database cluster.
//
// Every step is one blocking call: it validates its arguments, drives the
// deployment tool or the container runtime through a runner.CommandRunner, and
// returns a single human-readable outcome string. Argument validation failures
// are returned as *StepError before any process is spawned; failures of the
// external tools are folded into the outcome string instead.
//
// The orchestrator keeps no state between calls. Each step re-derives what it
// needs from the external tools, and callers decide the order in which steps run.
package orchestrator
