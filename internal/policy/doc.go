// ABOUTME: Route admission decisions for discovered API operations.
// ABOUTME: Combines the advanced-path blocklist, feature flags, and method classification.

// Package policy decides, per discovered API operation, whether it is
// exposed as a callable tool. Three rules apply in strict priority order:
// the advanced-operation blocklist, the feature flag lookup, and HTTP method
// classification. Decisions are pure and stateless; nothing is persisted.
package policy
