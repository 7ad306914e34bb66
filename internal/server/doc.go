// ABOUTME: Wires configuration, document loading, policy, and transports together.
// ABOUTME: Owns the process lifecycle: startup is all-or-nothing, shutdown is graceful.

// Package server assembles the secure-endpoint-mcp process: it builds the
// signing client, fetches and parses the upstream OpenAPI document, derives
// feature groups, binds admitted operations as tools, and serves them over
// the configured MCP transport.
package server
