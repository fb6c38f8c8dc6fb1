// Package client provides clients for systems obsail talks to directly
// rather than through an external binary:
//
//   - docker: Docker Engine API access for container readiness sampling
//   - ssh: SSH reachability probing of deployment targets
package client
