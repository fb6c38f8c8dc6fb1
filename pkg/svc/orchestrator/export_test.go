package orchestrator

// StartScript exposes the cluster start script to the external test package.
const StartScript = startScript
