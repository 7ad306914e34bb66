// ABOUTME: Applies admission decisions to the operation set and binds survivors as tools.
// ABOUTME: One policy decision per operation, taken once at startup.

package tools

import (
	"log/slog"

	"github.com/2389/secure-endpoint-mcp/internal/openapi"
	"github.com/2389/secure-endpoint-mcp/internal/policy"
	"github.com/2389/secure-endpoint-mcp/internal/signing"
)

// Bind asks the policy engine for an admission decision on every operation
// and binds the admitted ones to the signing client. Excluded operations are
// dropped silently; operations with unclassified methods fall through to the
// Default decision and are not exposed either.
func Bind(ops []openapi.Operation, engine *policy.Engine, client *signing.Client, logger *slog.Logger) (*Registry, error) {
	var bound []*Tool

	for _, op := range ops {
		decision := engine.Decide(op.Path, op.Method, policy.Default)
		if decision != policy.Tool {
			logger.Debug("operation not exposed",
				"method", op.Method,
				"path", op.Path,
				"decision", decision.String(),
			)
			continue
		}

		bound = append(bound, &Tool{
			Name:        op.ToolName(),
			Description: op.ToolDescription(),
			InputSchema: op.InputSchema(),
			Call:        newInvoker(op, client),
		})
	}

	registry, err := NewRegistry(bound)
	if err != nil {
		return nil, err
	}

	logger.Info("tools bound",
		"operations", len(ops),
		"exposed", registry.Len(),
	)
	return registry, nil
}
