// ABOUTME: Newline-delimited JSON-RPC transport over stdin/stdout.
// ABOUTME: Single-client mode for local MCP integrations; no sessions involved.

package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ServeStdio reads JSON-RPC requests line by line from r and writes one
// response line per request to w. Notifications are consumed silently.
// Returns when r is exhausted or the context is canceled.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxRequestBodySize)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req JSONRPCRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			if err := encoder.Encode(errorResponse(nil, JSONRPCParseError, "invalid JSON")); err != nil {
				return fmt.Errorf("writing response: %w", err)
			}
			continue
		}

		if req.JSONRPC != "2.0" {
			if err := encoder.Encode(errorResponse(req.ID, JSONRPCInvalidRequest, "invalid JSON-RPC version")); err != nil {
				return fmt.Errorf("writing response: %w", err)
			}
			continue
		}

		// Notifications get no response on stdio either
		if len(req.ID) == 0 || string(req.ID) == "null" {
			s.logger.Debug("accepted MCP notification", "method", req.Method)
			continue
		}

		resp := s.dispatch(ctx, req)
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}
	return nil
}
