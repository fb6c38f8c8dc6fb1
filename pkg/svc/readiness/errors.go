package readiness

import "errors"

// ErrMissingMarker is returned when no success marker is configured.
var ErrMissingMarker = errors.New("success marker is required")

// ErrInvalidTimeout is returned when the timeout is not positive.
var ErrInvalidTimeout = errors.New("timeout must be positive")

// ErrInvalidInterval is returned when the poll interval is not positive.
var ErrInvalidInterval = errors.New("poll interval must be positive")

// ErrNilCheck is returned when no status check is supplied.
var ErrNilCheck = errors.New("status check is required")
