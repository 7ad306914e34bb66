// ABOUTME: MCP server exposing bound API operations as tools.
// ABOUTME: Supports Streamable HTTP and stdio transports.

// Package mcp implements the Model Context Protocol surface of the server:
// JSON-RPC 2.0 over Streamable HTTP (spec 2025-11-25) with session
// management, plus a newline-delimited stdio transport for local clients.
// The tool set is fixed at startup; tools/list and tools/call only read it.
package mcp
