// ABOUTME: One-time derivation of feature groups from operation tags.
// ABOUTME: Must run after the document is fully loaded and before any admission decision.

package openapi

import (
	"log/slog"

	"github.com/2389/secure-endpoint-mcp/internal/flags"
)

// RegisterGroups registers every operation's (path, method) pair under the
// feature group derived from each of its tags. Operations with no tags join
// no group and stay enabled by default.
func RegisterGroups(ops []Operation, registry *flags.Registry, logger *slog.Logger) {
	for _, op := range ops {
		for _, tag := range op.Tags {
			group := flags.GroupName(tag)
			registry.RegisterMember(group, op.Path, op.Method)
			logger.Debug("registered route",
				"method", op.Method,
				"path", op.Path,
				"group", group,
			)
		}
	}

	logger.Info("feature groups registered",
		"groups", registry.GroupCount(),
		"operations", len(ops),
	)
}
