// ABOUTME: Unit tests for the route admission engine.
// ABOUTME: Verifies rule priority, blocklist short-circuit, and method classification.

package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// countingFlags records IsEnabled calls so tests can observe whether the
// flag lookup happened at all.
type countingFlags struct {
	enabled bool
	calls   int
}

func (c *countingFlags) IsEnabled(path, method string) bool {
	c.calls++
	return c.enabled
}

func TestEngine_BlocklistSkipsFlagLookup(t *testing.T) {
	flags := &countingFlags{enabled: true}
	engine := NewEngine(flags, false)

	got := engine.Decide("/v3/devices-advanced/search", "GET", Default)

	assert.Equal(t, Excluded, got)
	assert.Zero(t, flags.calls, "blocked paths must not trigger a flag lookup")
}

func TestEngine_BlocklistDisabledFallsThrough(t *testing.T) {
	flags := &countingFlags{enabled: true}
	engine := NewEngine(flags, true)

	got := engine.Decide("/v3/devices-advanced/search", "GET", Default)

	assert.Equal(t, Tool, got)
	assert.Equal(t, 1, flags.calls)
}

func TestEngine_DisabledFlagExcludes(t *testing.T) {
	engine := NewEngine(&countingFlags{enabled: false}, false)

	got := engine.Decide("/v3/reporting/software", "GET", Default)

	assert.Equal(t, Excluded, got)
}

func TestEngine_MethodClassification(t *testing.T) {
	tests := []struct {
		method string
		want   Decision
	}{
		{method: "GET", want: Tool},
		{method: "POST", want: Tool},
		{method: "PUT", want: Tool},
		{method: "PATCH", want: Tool},
		{method: "DELETE", want: Tool},
		{method: "get", want: Tool},
		{method: "delete", want: Tool},
		{method: "OPTIONS", want: Default},
		{method: "HEAD", want: Default},
		{method: "TRACE", want: Default},
	}

	engine := NewEngine(&countingFlags{enabled: true}, false)
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			got := engine.Decide("/v3/devices", tt.method, Default)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_FallbackPassthrough(t *testing.T) {
	engine := NewEngine(&countingFlags{enabled: true}, false)

	// Unrecognized methods defer to whatever the caller supplied.
	assert.Equal(t, Tool, engine.Decide("/v3/devices", "OPTIONS", Tool))
	assert.Equal(t, Excluded, engine.Decide("/v3/devices", "OPTIONS", Excluded))
}

func TestIsAdvanced(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/v3/devices-advanced", want: true},
		{path: "/v3/devices-advanced/search", want: true},
		{path: "/v3/devices", want: false},
		{path: "/v3/advanced", want: false}, // marker includes the leading dash
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAdvanced(tt.path))
		})
	}
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "excluded", Excluded.String())
	assert.Equal(t, "tool", Tool.String())
	assert.Equal(t, "default", Default.String())
}
