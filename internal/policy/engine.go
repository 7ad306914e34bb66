// ABOUTME: Admission engine applying blocklist, flag, and method rules in priority order.
// ABOUTME: Blocked paths short-circuit before any flag lookup happens.

package policy

import (
	"strings"
)

// Decision is the admission verdict for one operation.
type Decision int

const (
	// Default defers to the caller's own classification.
	Default Decision = iota

	// Excluded hides the operation entirely; it never becomes callable.
	Excluded

	// Tool exposes the operation as a callable tool.
	Tool
)

func (d Decision) String() string {
	switch d {
	case Excluded:
		return "excluded"
	case Tool:
		return "tool"
	default:
		return "default"
	}
}

// AdvancedMarker identifies paths belonging to the advanced API tier, which
// the blocklist excludes unless explicitly disabled by configuration.
const AdvancedMarker = "-advanced"

// IsAdvanced reports whether the path belongs to the advanced API tier.
func IsAdvanced(path string) bool {
	return strings.Contains(path, AdvancedMarker)
}

// toolMethods are the verbs exposed as callable tools. Every verb in this
// set maps to the same tool kind.
var toolMethods = map[string]struct{}{
	"GET":    {},
	"POST":   {},
	"PUT":    {},
	"PATCH":  {},
	"DELETE": {},
}

// FlagChecker is the flag registry surface the engine depends on.
type FlagChecker interface {
	IsEnabled(path, method string) bool
}

// Engine produces admission decisions. It holds only the flag registry
// reference and the blocklist toggle, so it is safe for concurrent use.
type Engine struct {
	flags           FlagChecker
	blocklistActive bool
}

// NewEngine creates an admission engine. The advanced-operation blocklist is
// active unless disableAdvancedBlocklist is set.
func NewEngine(flags FlagChecker, disableAdvancedBlocklist bool) *Engine {
	return &Engine{
		flags:           flags,
		blocklistActive: !disableAdvancedBlocklist,
	}
}

// Decide returns the admission verdict for one (path, method) pair.
// fallback is returned unchanged for methods the engine does not classify.
func (e *Engine) Decide(path, method string, fallback Decision) Decision {
	// Blocklist wins outright; the flag lookup is intentionally skipped for
	// blocked paths.
	if e.blocklistActive && IsAdvanced(path) {
		return Excluded
	}

	if !e.flags.IsEnabled(path, method) {
		return Excluded
	}

	if _, ok := toolMethods[strings.ToUpper(method)]; ok {
		return Tool
	}

	return fallback
}
