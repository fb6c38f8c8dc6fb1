// Package connectivity probes a fixed set of public TCP endpoints to decide
// whether the host can reach the internet.
package connectivity

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	"github.com/sirupsen/logrus"
)

// Dialer opens TCP connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Attempt records the result of probing one endpoint.
type Attempt struct {
	Endpoint string
	Err      error
}

// Result is the outcome of a connectivity check.
type Result struct {
	// Connected is true when any endpoint accepted a connection.
	Connected bool
	// Endpoint is the endpoint that accepted the connection.
	Endpoint string
	// Attempts lists every probe in order, including the successful one.
	Attempts []Attempt
}

// Checker probes endpoints sequentially until one connects.
type Checker struct {
	dialer    Dialer
	endpoints []string
	timeout   time.Duration
	logger    logrus.FieldLogger
}

// Option configures a Checker.
type Option func(*Checker)

// WithDialer replaces the network dialer.
func WithDialer(dialer Dialer) Option {
	return func(c *Checker) {
		if dialer != nil {
			c.dialer = dialer
		}
	}
}

// WithEndpoints replaces the probed endpoints. An empty list keeps the defaults.
func WithEndpoints(endpoints ...string) Option {
	return func(c *Checker) {
		if len(endpoints) > 0 {
			c.endpoints = append([]string(nil), endpoints...)
		}
	}
}

// WithTimeout sets the per-endpoint dial timeout. Non-positive values keep the default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Checker) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets the logger used for per-endpoint debug output.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChecker creates a Checker probing the public resolver endpoints.
func NewChecker(opts ...Option) *Checker {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	checker := &Checker{
		dialer:    &net.Dialer{},
		endpoints: v1alpha1.DefaultConnectivityEndpoints(),
		timeout:   v1alpha1.DefaultConnectivityTimeout,
		logger:    discard,
	}

	for _, opt := range opts {
		opt(checker)
	}

	return checker
}

// Endpoints returns a copy of the probed endpoints.
func (c *Checker) Endpoints() []string {
	return append([]string(nil), c.endpoints...)
}

// Check dials each endpoint in order and stops at the first success.
// It never returns an error; failures are recorded in Result.Attempts.
func (c *Checker) Check(ctx context.Context) Result {
	result := Result{Attempts: make([]Attempt, 0, len(c.endpoints))}

	for _, endpoint := range c.endpoints {
		if ctx.Err() != nil {
			result.Attempts = append(result.Attempts, Attempt{Endpoint: endpoint, Err: ctx.Err()})

			break
		}

		err := c.probe(ctx, endpoint)
		result.Attempts = append(result.Attempts, Attempt{Endpoint: endpoint, Err: err})

		if err == nil {
			c.logger.WithField("endpoint", endpoint).Debug("endpoint reachable")

			result.Connected = true
			result.Endpoint = endpoint

			return result
		}

		c.logger.WithField("endpoint", endpoint).WithError(err).Debug("endpoint unreachable")
	}

	return result
}

func (c *Checker) probe(ctx context.Context, endpoint string) error {
	dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dialer.DialContext(dialCtx, "tcp", endpoint)
	if err != nil {
		return err //nolint:wrapcheck // recorded per attempt, never returned to callers
	}

	_ = conn.Close()

	return nil
}
