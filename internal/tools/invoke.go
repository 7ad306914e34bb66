// ABOUTME: Call-time translation from MCP tool arguments to a signed API request.
// ABOUTME: Splits arguments into path substitutions, query parameters, and body fields.

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/2389/secure-endpoint-mcp/internal/openapi"
	"github.com/2389/secure-endpoint-mcp/internal/signing"
)

// maxResponseBody caps how much of an upstream response is returned to the
// MCP client (4MB).
const maxResponseBody = 4 << 20

// newInvoker builds the call closure for one admitted operation.
func newInvoker(op openapi.Operation, client *signing.Client) func(ctx context.Context, args json.RawMessage) (string, error) {
	paramLocations := op.ParamNames()

	return func(ctx context.Context, args json.RawMessage) (string, error) {
		var arguments map[string]json.RawMessage
		if len(args) > 0 {
			if err := json.Unmarshal(args, &arguments); err != nil {
				return "", fmt.Errorf("decoding tool arguments: %w", err)
			}
		}

		path := op.Path
		query := url.Values{}
		body := make(map[string]json.RawMessage)

		for name, value := range arguments {
			switch paramLocations[name] {
			case "path":
				path = strings.ReplaceAll(path, "{"+name+"}", argString(value))
			case "query":
				query.Set(name, argString(value))
			default:
				body[name] = value
			}
		}

		req := signing.Request{
			Method: op.Method,
			Path:   path,
			Query:  query,
		}
		if op.HasBody && len(body) > 0 {
			encoded, err := json.Marshal(body)
			if err != nil {
				return "", fmt.Errorf("encoding request body: %w", err)
			}
			req.Body = encoded
		}

		resp, err := client.Do(ctx, req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
		if err != nil {
			return "", fmt.Errorf("reading response body: %w", err)
		}

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return "", fmt.Errorf("upstream returned %s: %s", resp.Status, strings.TrimSpace(string(data)))
		}

		return string(data), nil
	}
}

// argString renders one argument value for use in a path segment or query
// parameter. JSON strings lose their quotes; everything else keeps its JSON
// text form.
func argString(value json.RawMessage) string {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}
	return string(value)
}
