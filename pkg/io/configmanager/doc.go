// Package configmanager loads the obsail runtime configuration.
//
// Values are layered with the priority defaults < obsail.yaml < OBSAIL_* environment
// variables < bound command-line flags, and string values may reference environment
// variables through ${VAR} placeholders.
package configmanager
