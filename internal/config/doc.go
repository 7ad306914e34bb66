// ABOUTME: Configuration loading for secure-endpoint-mcp.
// ABOUTME: YAML files with env var expansion, env overrides, and ABS_FEATURE_* flag parsing.

// Package config loads the server configuration. Values come from an
// optional YAML file (with ${VAR} expansion), environment overrides for the
// API credential, and ABS_FEATURE_* environment variables for the feature
// flag state. Configuration is loaded once at process start and treated as
// immutable afterwards.
package config
