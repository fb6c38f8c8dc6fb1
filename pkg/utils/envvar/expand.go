// Package envvar expands environment variable placeholders in configuration values.
package envvar

import (
	"os"
	"regexp"
)

// pattern matches ${VAR_NAME} and ${VAR_NAME:-fallback} placeholders.
var pattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::-([^}]*))?\}`)

// Expand replaces ${VAR_NAME} placeholders with their environment variable values.
// An unset or empty variable expands to the fallback of ${VAR_NAME:-fallback},
// or to an empty string when no fallback is given.
func Expand(value string) string {
	if value == "" {
		return value
	}

	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		groups := pattern.FindStringSubmatch(match)

		resolved, ok := os.LookupEnv(groups[1])
		if ok && resolved != "" {
			return resolved
		}

		return groups[2]
	})
}

// Contains reports whether value holds at least one placeholder.
func Contains(value string) bool {
	return pattern.MatchString(value)
}
