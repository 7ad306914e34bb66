// ABOUTME: Feature flag registry mapping capability groups to API operations.
// ABOUTME: Group membership is derived from OpenAPI tags at startup.

// Package flags holds the named boolean feature flags and the mapping from
// capability groups to the (path, method) pairs that belong to them.
//
// The registry is populated once at startup and read-only afterwards, so
// concurrent readers need no synchronization. Gated groups fail closed: a
// group with no explicit flag entry is disabled. Operations outside any
// group fail open and are enabled by default.
package flags
