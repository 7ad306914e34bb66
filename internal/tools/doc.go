// ABOUTME: Binds admitted API operations to callable MCP tools.
// ABOUTME: Excluded operations are never bound, so they are simply invisible to clients.

// Package tools turns the policy-filtered operation set into callable tool
// definitions. Each admitted operation becomes one tool whose invocation
// splits the caller's arguments into path, query, and body parts and
// dispatches them through the signing client. The registry is built once at
// startup and read-only afterwards.
package tools
