// ABOUTME: Tests for OpenAPI document parsing and operation enumeration.
// ABOUTME: Uses a small in-memory document shaped like the upstream one.

package openapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocument = `{
  "openapi": "3.0.0",
  "info": {"title": "Secure Endpoint API", "version": "3.0"},
  "paths": {
    "/v3/reporting/devices": {
      "get": {
        "operationId": "getDevices",
        "summary": "List devices",
        "tags": ["Device Reporting"],
        "parameters": [
          {"name": "limit", "in": "query", "schema": {"type": "integer"}},
          {"name": "after", "in": "query", "schema": {"type": "string"}}
        ],
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/v3/reporting/devices/{deviceUid}": {
      "get": {
        "operationId": "getDevice",
        "summary": "Get one device",
        "tags": ["Device Reporting"],
        "parameters": [
          {"name": "deviceUid", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/v3/actions/freeze": {
      "post": {
        "operationId": "freezeDevices",
        "summary": "Freeze devices",
        "tags": ["Device Actions"],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {
                  "deviceUids": {"type": "array", "items": {"type": "string"}},
                  "message": {"type": "string"}
                },
                "required": ["deviceUids"]
              }
            }
          }
        },
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/v3/software-advanced/search": {
      "get": {
        "operationId": "searchSoftwareAdvanced",
        "tags": ["Software Reporting"],
        "responses": {"200": {"description": "OK"}}
      }
    }
  }
}`

func parseTestDocument(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse([]byte(testDocument))
	require.NoError(t, err)
	return doc
}

func TestParse_EnumeratesOperationsInOrder(t *testing.T) {
	doc := parseTestDocument(t)
	ops := doc.Operations()
	require.Len(t, ops, 4)

	// Sorted by path then method.
	assert.Equal(t, "/v3/actions/freeze", ops[0].Path)
	assert.Equal(t, "POST", ops[0].Method)
	assert.Equal(t, "/v3/reporting/devices", ops[1].Path)
	assert.Equal(t, "/v3/reporting/devices/{deviceUid}", ops[2].Path)
	assert.Equal(t, "/v3/software-advanced/search", ops[3].Path)
}

func TestParse_OperationDetails(t *testing.T) {
	doc := parseTestDocument(t)
	ops := doc.Operations()

	devices := ops[1]
	assert.Equal(t, "getDevices", devices.ID)
	assert.Equal(t, []string{"Device Reporting"}, devices.Tags)
	require.Len(t, devices.Parameters, 2)
	assert.Equal(t, "limit", devices.Parameters[0].Name)
	assert.Equal(t, "query", devices.Parameters[0].In)
	assert.False(t, devices.HasBody)

	freeze := ops[0]
	assert.True(t, freeze.HasBody)
	assert.True(t, freeze.BodyRequired)
}

func TestOperation_ToolName(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		want string
	}{
		{
			name: "operation id wins",
			op:   Operation{ID: "getDevices", Method: "GET", Path: "/v3/reporting/devices"},
			want: "getDevices",
		},
		{
			name: "derived from method and path",
			op:   Operation{Method: "GET", Path: "/v3/reporting/devices"},
			want: "get_v3_reporting_devices",
		},
		{
			name: "path template placeholders collapse",
			op:   Operation{Method: "DELETE", Path: "/v3/devices/{deviceUid}"},
			want: "delete_v3_devices_deviceUid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.ToolName())
		})
	}
}

func TestOperation_InputSchema(t *testing.T) {
	doc := parseTestDocument(t)
	ops := doc.Operations()

	// Query parameters become schema properties.
	var schema struct {
		Type       string                     `json:"type"`
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                   `json:"required"`
	}
	require.NoError(t, json.Unmarshal(ops[1].InputSchema(), &schema))
	assert.Equal(t, "object", schema.Type)
	assert.Contains(t, schema.Properties, "limit")
	assert.Contains(t, schema.Properties, "after")
	assert.Empty(t, schema.Required)

	// Body object properties are flattened into the tool schema.
	require.NoError(t, json.Unmarshal(ops[0].InputSchema(), &schema))
	assert.Contains(t, schema.Properties, "deviceUids")
	assert.Contains(t, schema.Properties, "message")
	assert.Equal(t, []string{"deviceUids"}, schema.Required)

	// Required path parameters are required arguments.
	require.NoError(t, json.Unmarshal(ops[2].InputSchema(), &schema))
	assert.Equal(t, []string{"deviceUid"}, schema.Required)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != SpecPath {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(testDocument))
	}))
	defer srv.Close()

	data, err := Fetch(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.JSONEq(t, testDocument, string(data))
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.Client(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestParse_InvalidDocument(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	require.Error(t, err)
}
