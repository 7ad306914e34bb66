// ABOUTME: Immutable, name-keyed collection of bound tools.
// ABOUTME: Preserves binding order for stable tools/list output.

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrDuplicateTool indicates two operations produced the same tool name.
var ErrDuplicateTool = errors.New("duplicate tool name")

// Tool is one callable, admitted API operation.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage

	// Call invokes the operation with the given MCP arguments and returns
	// the upstream response body as text.
	Call func(ctx context.Context, args json.RawMessage) (string, error)
}

// Registry holds the bound tool set. Built once at startup; read-only
// afterwards, so concurrent readers need no synchronization.
type Registry struct {
	order []string
	tools map[string]*Tool
}

// NewRegistry builds a registry from the given tools, rejecting duplicate
// names.
func NewRegistry(list []*Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]*Tool, len(list))}
	for _, tool := range list {
		if _, exists := r.tools[tool.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, tool.Name)
		}
		r.tools[tool.Name] = tool
		r.order = append(r.order, tool.Name)
	}
	return r, nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (*Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// All returns the tools in binding order.
func (r *Registry) All() []*Tool {
	list := make([]*Tool, len(r.order))
	for i, name := range r.order {
		list[i] = r.tools[name]
	}
	return list
}

// Len returns the number of bound tools.
func (r *Registry) Len() int {
	return len(r.order)
}
