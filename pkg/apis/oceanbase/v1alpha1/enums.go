package v1alpha1

import (
	"fmt"
	"slices"
	"strings"
)

// EnumValuer is implemented by string-based enum types to provide their valid values.
type EnumValuer interface {
	// ValidValues returns all valid string values for this enum type.
	ValidValues() []string
}

// --- Probe Modes ---

// ProbeMode selects how container status and logs are sampled.
type ProbeMode string

const (
	// ProbeModeCLI samples through `docker inspect` and `docker logs`.
	ProbeModeCLI ProbeMode = "cli"
	// ProbeModeEngine samples through the Docker Engine API.
	ProbeModeEngine ProbeMode = "engine"
)

// ValidValues returns all valid probe modes.
func (p *ProbeMode) ValidValues() []string {
	return []string{string(ProbeModeCLI), string(ProbeModeEngine)}
}

// Validate reports whether the probe mode is known.
func (p *ProbeMode) Validate() error {
	return validateEnum(ErrInvalidProbeMode, string(*p), p.ValidValues())
}

// --- Transports ---

// Transport selects how the MCP server talks to its client.
type Transport string

const (
	// TransportStdio serves over stdin/stdout.
	TransportStdio Transport = "stdio"
	// TransportHTTP serves the streamable HTTP transport.
	TransportHTTP Transport = "http"
)

// ValidValues returns all valid transports.
func (t *Transport) ValidValues() []string {
	return []string{string(TransportStdio), string(TransportHTTP)}
}

// Validate reports whether the transport is known.
func (t *Transport) Validate() error {
	return validateEnum(ErrInvalidTransport, string(*t), t.ValidValues())
}

// --- Log Formats ---

// LogFormat selects the logrus formatter.
type LogFormat string

const (
	// LogFormatText uses the logrus text formatter.
	LogFormatText LogFormat = "text"
	// LogFormatJSON uses the logrus JSON formatter.
	LogFormatJSON LogFormat = "json"
)

// ValidValues returns all valid log formats.
func (f *LogFormat) ValidValues() []string {
	return []string{string(LogFormatText), string(LogFormatJSON)}
}

// Validate reports whether the log format is known.
func (f *LogFormat) Validate() error {
	return validateEnum(ErrInvalidLogFormat, string(*f), f.ValidValues())
}

func validateEnum(sentinel error, value string, valid []string) error {
	if slices.Contains(valid, value) {
		return nil
	}

	return fmt.Errorf("%w: %q (valid options: %s)", sentinel, value, strings.Join(valid, ", "))
}
