// ABOUTME: Fetches and parses the remote OpenAPI document into an operation list.
// ABOUTME: Fetch failures are fatal to startup; there is no partial-success mode.

package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// SpecPath is where the upstream publishes its OpenAPI document.
const SpecPath = "/api-doc/spec/openapi.json"

// Document wraps the parsed OpenAPI document and its enumerated operations.
type Document struct {
	doc *openapi3.T
	ops []Operation
}

// Fetch retrieves the raw OpenAPI document from the API host.
func Fetch(ctx context.Context, client *http.Client, apiHost string) ([]byte, error) {
	specURL := strings.TrimRight(apiHost, "/") + SpecPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, specURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building openapi document request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching openapi document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching openapi document: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading openapi document: %w", err)
	}
	return data, nil
}

// Parse sanitizes description fields and parses the document, enumerating
// every declared operation in deterministic (path, method) order.
func Parse(data []byte) (*Document, error) {
	sanitized, err := SanitizeDescriptions(data)
	if err != nil {
		return nil, err
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(sanitized)
	if err != nil {
		return nil, fmt.Errorf("parsing openapi document: %w", err)
	}

	return &Document{doc: doc, ops: enumerate(doc)}, nil
}

// Operations returns the declared operations sorted by path then method.
func (d *Document) Operations() []Operation {
	return d.ops
}

func enumerate(doc *openapi3.T) []Operation {
	var ops []Operation
	if doc.Paths == nil {
		return ops
	}

	for path, item := range doc.Paths.Map() {
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			ops = append(ops, buildOperation(path, method, item, op))
		}
	}

	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Path != ops[j].Path {
			return ops[i].Path < ops[j].Path
		}
		return ops[i].Method < ops[j].Method
	})
	return ops
}

func buildOperation(path, method string, item *openapi3.PathItem, op *openapi3.Operation) Operation {
	out := Operation{
		Path:        path,
		Method:      strings.ToUpper(method),
		ID:          op.OperationID,
		Summary:     op.Summary,
		Description: op.Description,
		Tags:        append([]string(nil), op.Tags...),
	}

	// Path-level parameters apply to every operation on the path.
	for _, ref := range item.Parameters {
		if p := buildParameter(ref); p != nil {
			out.Parameters = append(out.Parameters, *p)
		}
	}
	for _, ref := range op.Parameters {
		if p := buildParameter(ref); p != nil {
			out.Parameters = append(out.Parameters, *p)
		}
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		out.BodyRequired = op.RequestBody.Value.Required
		if media := op.RequestBody.Value.Content.Get("application/json"); media != nil {
			out.HasBody = true
			out.BodySchema = schemaJSON(media.Schema)
		}
	}

	return out
}

func buildParameter(ref *openapi3.ParameterRef) *Parameter {
	if ref == nil || ref.Value == nil {
		return nil
	}
	p := ref.Value
	if p.In != openapi3.ParameterInPath && p.In != openapi3.ParameterInQuery {
		// Header and cookie parameters are not exposed as tool arguments.
		return nil
	}
	return &Parameter{
		Name:        p.Name,
		In:          p.In,
		Required:    p.Required,
		Description: p.Description,
		Schema:      schemaJSON(p.Schema),
	}
}

// schemaJSON renders a schema reference as raw JSON Schema. Parameters
// without a declared schema default to plain strings.
func schemaJSON(ref *openapi3.SchemaRef) json.RawMessage {
	if ref == nil || ref.Value == nil {
		return json.RawMessage(`{"type":"string"}`)
	}
	data, err := json.Marshal(ref.Value)
	if err != nil {
		return json.RawMessage(`{"type":"string"}`)
	}
	return data
}
