// ABOUTME: Loads the upstream OpenAPI document and derives operations and feature groups.
// ABOUTME: Runs once at startup; the rest of the process never re-reads the document.

// Package openapi is the boundary to the externally supplied interface
// description. It fetches the upstream OpenAPI document, strips HTML from
// human-readable description fields, enumerates the declared operations, and
// registers each operation's tags as feature groups. Startup is
// all-or-nothing: if the document cannot be fetched or parsed, the process
// must not serve any operations.
package openapi
