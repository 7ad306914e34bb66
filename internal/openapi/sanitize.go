// ABOUTME: Strips HTML markup from description fields in the raw OpenAPI document.
// ABOUTME: Cosmetic only; shrinks tool descriptions before they reach MCP clients.

package openapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jaytaylor/html2text"
)

// SanitizeDescriptions walks the raw JSON document and converts every
// "description" string from HTML to plain text. All other fields pass
// through untouched.
func SanitizeDescriptions(data []byte) ([]byte, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding openapi document: %w", err)
	}

	stripHTML(doc)

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("re-encoding openapi document: %w", err)
	}
	return out, nil
}

func stripHTML(node any) {
	switch v := node.(type) {
	case map[string]any:
		for key, value := range v {
			if key == "description" {
				if s, ok := value.(string); ok {
					v[key] = renderText(s)
					continue
				}
			}
			stripHTML(value)
		}
	case []any:
		for _, item := range v {
			stripHTML(item)
		}
	}
}

// renderText converts HTML to plain text, keeping the original string when
// conversion fails. Sanitization must never abort startup.
func renderText(s string) string {
	text, err := html2text.FromString(s, html2text.Options{
		OmitLinks: true,
		TextOnly:  true,
	})
	if err != nil {
		return s
	}
	return strings.TrimSpace(text)
}
