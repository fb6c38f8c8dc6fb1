// Package readiness blocks until an asynchronously started resource reports a
// success marker in its logs.
//
// The poller samples the resource at a fixed interval. Each sample carries the
// resource status and its log output:
//   - a non-running status ends polling with a Failed outcome,
//   - a log containing the success marker (case-insensitive) ends it with Ready,
//   - otherwise the poller sleeps and samples again until the timeout elapses,
//     then returns TimedOut with the trailing log lines of the last sample.
//
// Readiness requires the explicit marker; the absence of failure is never
// treated as success.
package readiness
