// Package mcp exposes the provisioning steps as MCP tools.
//
// Tool names are the step identifiers and input schemas are reflected from the
// step argument structs. Every call is routed through a Dispatcher.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/devantler-tech/obsail/pkg/apis/oceanbase/v1alpha1"
	"github.com/devantler-tech/obsail/pkg/svc/orchestrator"
	"github.com/gorilla/mux"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp" //nolint:depguard // MCP SDK is required for MCP server
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// Server configuration constants.
const (
	serverKeepAlive   = 30 * time.Second
	serverPageSize    = 100
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// HTTP routes served by the streamable transport.
const (
	RouteMCP     = "/mcp"
	RouteMetrics = "/metrics"
	RouteHealth  = "/healthz"
)

// ErrNilDispatcher is returned when no step dispatcher was configured.
var ErrNilDispatcher = errors.New("dispatcher is required")

// Dispatcher runs one provisioning step from loosely typed tool arguments.
type Dispatcher interface {
	Dispatch(ctx context.Context, step orchestrator.Step, args map[string]any) (string, error)
}

// ServerConfig contains configuration for the MCP server.
type ServerConfig struct {
	// Name is the server name.
	Name string
	// Version is the server version.
	Version string
	// Dispatcher executes the steps behind every tool.
	Dispatcher Dispatcher
	// Logger is the logger for the server (optional).
	Logger *slog.Logger
	// Metrics records tool calls (optional).
	Metrics *Metrics
}

// DefaultConfig returns a default server configuration logging to stderr.
func DefaultConfig(dispatcher Dispatcher, version string) ServerConfig {
	return ServerConfig{
		Name:       "obsail-mcp",
		Version:    version,
		Dispatcher: dispatcher,
		Logger:     slog.New(slog.NewTextHandler(os.Stderr, nil)),
		Metrics:    NewMetrics(),
	}
}

// NewServer creates an MCP server with one tool per provisioning step.
func NewServer(cfg ServerConfig) (*mcpsdk.Server, error) {
	if cfg.Dispatcher == nil {
		return nil, ErrNilDispatcher
	}

	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &mcpsdk.ServerOptions{
		Instructions: "obsail MCP server - installs, deploys, starts and verifies OceanBase clusters " +
			"through obd or a single docker container",
		Logger:    cfg.Logger,
		KeepAlive: serverKeepAlive,
		PageSize:  serverPageSize,
	})

	for _, step := range orchestrator.Steps() {
		err := addStepTool(server, step, cfg)
		if err != nil {
			return nil, err
		}
	}

	return server, nil
}

// addStepTool registers the tool backing step.
func addStepTool(server *mcpsdk.Server, step orchestrator.Step, cfg ServerConfig) error {
	schema, err := InputSchema(step)
	if err != nil {
		return err
	}

	tool := &mcpsdk.Tool{
		Name:        string(step),
		Description: step.Description(),
		InputSchema: schema,
	}

	handler := func(
		ctx context.Context,
		_ *mcpsdk.CallToolRequest,
		input map[string]any,
	) (*mcpsdk.CallToolResult, any, error) {
		started := time.Now()
		outcome, err := cfg.Dispatcher.Dispatch(ctx, step, input)
		cfg.Metrics.observe(string(step), started, err)

		if err != nil {
			// Step errors go back to the client as tool errors, not protocol errors.
			return &mcpsdk.CallToolResult{
				IsError: true,
				Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
			}, nil, nil
		}

		return &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: outcome}},
		}, nil, nil
	}

	mcpsdk.AddTool(server, tool, handler)

	return nil
}

// Run serves the tools over transport until ctx is cancelled or the client disconnects.
// address is only used by the HTTP transport.
func Run(ctx context.Context, cfg ServerConfig, transport v1alpha1.Transport, address string) error {
	err := transport.Validate()
	if err != nil {
		return fmt.Errorf("select transport: %w", err)
	}

	server, err := NewServer(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	if transport == v1alpha1.TransportHTTP {
		return serveHTTP(ctx, NewHTTPHandler(server, cfg.Metrics), address)
	}

	err = server.Run(ctx, &mcpsdk.StdioTransport{})
	if err != nil {
		return fmt.Errorf("running server: %w", err)
	}

	return nil
}

// NewHTTPHandler routes the streamable MCP endpoint, metrics and a health probe.
func NewHTTPHandler(server *mcpsdk.Server, metrics *Metrics) http.Handler {
	router := mux.NewRouter()

	router.Handle(RouteMCP, mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
		return server
	}, nil))

	if metrics != nil {
		router.Handle(RouteMetrics, promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})).
			Methods(http.MethodGet)
	}

	router.HandleFunc(RouteHealth, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	return router
}

func serveHTTP(ctx context.Context, handler http.Handler, address string) error {
	httpServer := &http.Server{
		Addr:              address,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve %s: %w", address, err)
		}

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		err := httpServer.Shutdown(shutdownCtx)
		if err != nil {
			return fmt.Errorf("shut down http server: %w", err)
		}

		return nil
	})

	err := group.Wait()
	if err != nil {
		return fmt.Errorf("running server: %w", err)
	}

	return nil
}
