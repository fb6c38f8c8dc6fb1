// Package topology turns an ordered list of target nodes into the deployment
// descriptor consumed by the deployment tool.
//
// Build merges caller overrides over the built-in defaults (shallow: an override
// key replaces the default key of the same name) and names nodes positionally
// (server1..serverN). Render and Marshal produce the YAML document, and
// WriteTempFile hands it to the deployment tool through a temporary file.
package topology
