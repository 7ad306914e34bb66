// ABOUTME: Operation and parameter types enumerated from the OpenAPI document.
// ABOUTME: Builds MCP tool names and JSON-Schema input schemas per operation.

package openapi

import (
	"encoding/json"
	"sort"
	"strings"
)

// Operation is one declared API operation: a path, an upper-cased HTTP
// method, and zero or more tags. Read-only once enumerated.
type Operation struct {
	Path        string
	Method      string
	ID          string
	Summary     string
	Description string
	Tags        []string
	Parameters  []Parameter

	HasBody      bool
	BodyRequired bool
	BodySchema   json.RawMessage
}

// Parameter is a path or query parameter declared on an operation.
type Parameter struct {
	Name        string
	In          string
	Required    bool
	Description string
	Schema      json.RawMessage
}

// ToolName returns the MCP tool name for the operation: the operationId when
// declared, otherwise a name derived from the method and path.
func (o Operation) ToolName() string {
	if o.ID != "" {
		return o.ID
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(o.Method))
	lastUnderscore := false
	for _, r := range o.Path {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimRight(b.String(), "_")
}

// ToolDescription returns the human-readable description for the tool,
// preferring the operation summary.
func (o Operation) ToolDescription() string {
	if o.Summary != "" {
		return o.Summary
	}
	if o.Description != "" {
		return o.Description
	}
	return strings.ToUpper(o.Method) + " " + o.Path
}

// bodySchemaObject is the subset of a JSON-Schema object needed to flatten
// request body properties into the tool input schema.
type bodySchemaObject struct {
	Properties map[string]json.RawMessage `json:"properties"`
	Required   []string                   `json:"required"`
}

// InputSchema builds the JSON-Schema object describing the tool's arguments:
// path and query parameters plus flattened request body properties. When the
// body schema is not a plain object, it surfaces as a single "body" argument.
func (o Operation) InputSchema() json.RawMessage {
	properties := make(map[string]json.RawMessage)
	var required []string

	for _, p := range o.Parameters {
		properties[p.Name] = p.Schema
		if p.Required {
			required = append(required, p.Name)
		}
	}

	if o.HasBody {
		var body bodySchemaObject
		if err := json.Unmarshal(o.BodySchema, &body); err == nil && len(body.Properties) > 0 {
			for name, schema := range body.Properties {
				if _, exists := properties[name]; !exists {
					properties[name] = schema
				}
			}
			for _, name := range body.Required {
				if !contains(required, name) {
					required = append(required, name)
				}
			}
		} else {
			properties["body"] = o.BodySchema
			if o.BodyRequired {
				required = append(required, "body")
			}
		}
	}

	sort.Strings(required)

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}

	data, err := json.Marshal(schema)
	if err != nil {
		return json.RawMessage(`{"type":"object"}`)
	}
	return data
}

// ParamNames returns the declared parameter names, used to split tool
// arguments from body fields at call time.
func (o Operation) ParamNames() map[string]string {
	names := make(map[string]string, len(o.Parameters))
	for _, p := range o.Parameters {
		names[p.Name] = p.In
	}
	return names
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
