// ABOUTME: HTTP client that signs requests and redirects them to the JWS validation endpoint.
// ABOUTME: Wraps a plain http.Client; callers keep ordinary method/path/body semantics.

package signing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// APIVersionPrefix is prepended to request paths before signing.
	APIVersionPrefix = "/v3"

	// ValidatePath is the single endpoint that accepts signed envelopes.
	ValidatePath = "/jws/validate"

	// The envelope is opaque to the transport, so the physical request never
	// carries the logical JSON content type.
	envelopeContentType = "text/plain"
)

// ErrMissingAPIHost indicates the client was constructed without an API host.
var ErrMissingAPIHost = errors.New("api host is required")

// Request describes one logical API call. Method and Path describe the
// operation being signed; the physical transport call is always a POST of
// the envelope to the validation endpoint.
type Request struct {
	Method string
	Path   string

	// Query parameters to merge into any query string already present in Path.
	Query url.Values

	// Body is the JSON request body, or nil for bodiless calls. It is signed
	// byte-for-byte as supplied.
	Body json.RawMessage

	// Header holds extra headers for the transport call. Content-Type entries
	// are ignored; the envelope content type always wins.
	Header http.Header

	// Endpoint overrides the configured validation endpoint for this call.
	Endpoint string
}

// Config holds construction parameters for Client.
type Config struct {
	Credential Credential
	APIHost    string
	Timeout    time.Duration

	// HTTPClient overrides the default transport. When set, Timeout is ignored.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client signs outbound requests and dispatches them through an underlying
// http.Client. The credential is immutable and a fresh envelope is built per
// call, so a single Client is safe for arbitrarily many concurrent calls.
type Client struct {
	http     *http.Client
	cred     Credential
	endpoint string
	logger   *slog.Logger
}

// NewClient validates the credential and builds a signing client.
// A missing or malformed credential is a construction-time error, never a
// per-call one.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Credential.validate(); err != nil {
		return nil, err
	}
	if cfg.APIHost == "" {
		return nil, ErrMissingAPIHost
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		http:     httpClient,
		cred:     cfg.Credential,
		endpoint: strings.TrimRight(cfg.APIHost, "/") + ValidatePath,
		logger:   logger,
	}, nil
}

// NormalizePath ensures the path carries the API version prefix exactly once.
func NormalizePath(path string) string {
	if strings.HasPrefix(path, APIVersionPrefix) {
		return path
	}
	return APIVersionPrefix + path
}

// MergeQuery appends URL-encoded params to an existing query string.
func MergeQuery(queryString string, params url.Values) string {
	if len(params) == 0 {
		return queryString
	}
	encoded := params.Encode()
	if queryString == "" {
		return encoded
	}
	return queryString + "&" + encoded
}

// Do signs the logical request and POSTs the envelope to the validation
// endpoint. The raw transport response is returned unmodified; network
// failures and non-2xx statuses propagate to the caller with no retries.
func (c *Client) Do(ctx context.Context, req Request) (*http.Response, error) {
	normalized := NormalizePath(req.Path)
	parsed, err := url.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("parsing request path: %w", err)
	}

	path := parsed.Path
	query := MergeQuery(parsed.RawQuery, req.Query)

	signed, err := Sign(req.Method, path, query, req.Body, c.cred)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("signed request",
		"method", strings.ToUpper(req.Method),
		"uri", path,
		"jws", signed,
	)

	endpoint := c.endpoint
	if req.Endpoint != "" {
		endpoint = req.Endpoint
	}

	out, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(signed))
	if err != nil {
		return nil, fmt.Errorf("building validation request: %w", err)
	}
	out.Header.Set("Content-Type", envelopeContentType)
	for key, values := range req.Header {
		if strings.EqualFold(key, "Content-Type") {
			continue
		}
		for _, v := range values {
			out.Header.Add(key, v)
		}
	}

	return c.http.Do(out)
}
