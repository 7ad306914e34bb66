// ABOUTME: Entry point for the secure-endpoint-mcp server.
// ABOUTME: Exposes the Secure Endpoint API as MCP tools behind signing and policy gates.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/secure-endpoint-mcp/internal/config"
	"github.com/2389/secure-endpoint-mcp/internal/server"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                                                       _             _       _
 ___  ___  ___ _   _ _ __ ___        ___ _ __   __| |_ __   ___ (_)_ __ | |_
/ __|/ _ \/ __| | | | '__/ _ \_____ / _ \ '_ \ / _' | '_ \ / _ \| | '_ \| __|
\__ \  __/ (__| |_| | | |  __/_____|  __/ | | | (_| | |_) | (_) | | | | | |_
|___/\___|\___|\__,_|_|  \___|      \___|_| |_|\__,_| .__/ \___/|_|_| |_|\__|
                                                    |_|
`

// getConfigPath returns the path to the config file.
// Priority: ABS_MCP_CONFIG env var > XDG_CONFIG_HOME > ~/.config.
func getConfigPath() string {
	if envPath := os.Getenv("ABS_MCP_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "secure-endpoint-mcp", "config.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: secure-endpoint-mcp <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve    Start the MCP server")
		fmt.Println("  init     Create a starter config file")
		fmt.Println("  health   Check server health")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging, cfg.Server.Transport)

	// The stdio transport owns stdout; keep the banner off it.
	if cfg.Server.Transport != config.TransportStdio {
		cyan := color.New(color.FgCyan)
		cyan.Print(banner)
		gray := color.New(color.FgHiBlack)
		gray.Printf("    version: %s\n\n", version)

		green := color.New(color.FgGreen)
		green.Print("    ▶ ")
		fmt.Printf("Config:    %s\n", configPath)
		green.Print("    ▶ ")
		fmt.Printf("API host:  %s\n", cfg.API.Host)
		green.Print("    ▶ ")
		fmt.Printf("Listen:    %s\n", cfg.Server.Addr)
		fmt.Println()
	}

	logger.Info("starting secure-endpoint-mcp",
		"config", configPath,
		"api_host", cfg.API.Host,
		"transport", cfg.Server.Transport,
	)

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return srv.Run(ctx)
}

const starterConfig = `api:
  host: https://api.absolute.com
  key: ${ABS_API_KEY}
  secret: ${ABS_API_SECRET}
  timeout: 30s

server:
  addr: 0.0.0.0:8000
  transport: http

policy:
  disable_advanced_api_blocklist: false

logging:
  level: info
  format: text
`

func runInit() error {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Print("✓ ")
	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Set ABS_API_KEY and ABS_API_SECRET, then run: secure-endpoint-mcp serve")
	return nil
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	url := fmt.Sprintf("http://%s/health", cfg.Server.Addr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading health response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: %s: %s", resp.Status, body)
	}

	green := color.New(color.FgGreen)
	green.Print("✓ ")
	fmt.Printf("healthy: %s", body)
	return nil
}
