// ABOUTME: Startup assembly and run loop for the secure-endpoint-mcp server.
// ABOUTME: Either the full operation set loads and binds, or the process does not serve.

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/2389/secure-endpoint-mcp/internal/config"
	"github.com/2389/secure-endpoint-mcp/internal/flags"
	"github.com/2389/secure-endpoint-mcp/internal/mcp"
	"github.com/2389/secure-endpoint-mcp/internal/openapi"
	"github.com/2389/secure-endpoint-mcp/internal/policy"
	"github.com/2389/secure-endpoint-mcp/internal/signing"
	"github.com/2389/secure-endpoint-mcp/internal/tools"
)

// shutdownTimeout bounds the graceful drain on exit.
const shutdownTimeout = 5 * time.Second

// Server is the assembled process.
type Server struct {
	config     *config.Config
	logger     *slog.Logger
	registry   *flags.Registry
	tools      *tools.Registry
	mcpServer  *mcp.Server
	httpServer *http.Server
}

// Version is stamped into MCP serverInfo; overridden at build time.
var Version = "dev"

// New builds the full server. It fetches the upstream OpenAPI document, so
// it needs a live context; any failure here is fatal and the process must
// not proceed to serve.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	client, err := signing.NewClient(signing.Config{
		Credential: signing.Credential{
			KeyID:  cfg.API.Key,
			Secret: []byte(cfg.API.Secret),
		},
		APIHost: cfg.API.Host,
		Timeout: cfg.API.Timeout,
		Logger:  logger.With("component", "signing"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating signing client: %w", err)
	}

	data, err := openapi.Fetch(ctx, &http.Client{Timeout: cfg.API.Timeout}, cfg.API.Host)
	if err != nil {
		return nil, err
	}
	doc, err := openapi.Parse(data)
	if err != nil {
		return nil, err
	}
	ops := doc.Operations()
	logger.Info("openapi document loaded", "operations", len(ops))

	registry := flags.NewRegistry(cfg.FeatureFlags)
	openapi.RegisterGroups(ops, registry, logger.With("component", "flags"))
	logger.Info("feature flag state",
		"enabled_groups", registry.EnabledGroups(),
		"disabled_groups", registry.DisabledGroups(),
	)

	engine := policy.NewEngine(registry, cfg.Policy.DisableAdvancedBlocklist)
	if cfg.Policy.DisableAdvancedBlocklist {
		logger.Warn("advanced API blocklist is disabled")
	}

	toolRegistry, err := tools.Bind(ops, engine, client, logger.With("component", "tools"))
	if err != nil {
		return nil, fmt.Errorf("binding tools: %w", err)
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Tools:   toolRegistry,
		Logger:  logger.With("component", "mcp"),
		Version: Version,
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}

	srv := &Server{
		config:    cfg,
		logger:    logger,
		registry:  registry,
		tools:     toolRegistry,
		mcpServer: mcpServer,
	}

	if cfg.Server.Transport == config.TransportHTTP {
		mux := http.NewServeMux()
		mcpServer.RegisterRoutes(mux)
		mux.HandleFunc("/health", srv.handleHealth)

		srv.httpServer = &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return srv, nil
}

// Run serves until the context is canceled. Returns nil on graceful
// shutdown, or the first server error.
func (s *Server) Run(ctx context.Context) error {
	if s.config.Server.Transport == config.TransportStdio {
		s.logger.Info("serving MCP over stdio")
		return s.mcpServer.ServeStdio(ctx, os.Stdin, os.Stdout)
	}
	return s.runHTTP(ctx)
}

func (s *Server) runHTTP(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.config.Server.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case serveErr = <-errCh:
	}

	// Fresh context: the run context is already canceled by the time we drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	shutdownErr := s.httpServer.Shutdown(shutdownCtx)

	if serveErr != nil {
		return serveErr
	}
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status":          "ok",
		"tools":           s.tools.Len(),
		"enabled_groups":  s.registry.EnabledGroups(),
		"disabled_groups": s.registry.DisabledGroups(),
	}); err != nil {
		s.logger.Error("failed to encode health response", "error", err)
	}
}
