package v1alpha1

import "errors"

// ErrInvalidProbeMode is returned when an unknown container probe mode is configured.
var ErrInvalidProbeMode = errors.New("invalid probe mode")

// ErrInvalidTransport is returned when an unknown MCP transport is configured.
var ErrInvalidTransport = errors.New("invalid transport")

// ErrInvalidLogFormat is returned when an unknown log format is configured.
var ErrInvalidLogFormat = errors.New("invalid log format")
