// ABOUTME: Request signing for the Absolute Secure Endpoint API.
// ABOUTME: Builds compact HS256 JWS envelopes and redirects calls to the validation endpoint.

// Package signing implements the JWS request-signing scheme used by the
// Secure Endpoint API. Instead of bearer tokens, every outbound call is
// transformed into a compact JWS envelope describing the logical request
// (method, path, query string, body) and POSTed to a single validation
// endpoint, which verifies the signature and executes the described call.
//
// Client wraps a plain http.Client so that callers keep ordinary
// method/path/body semantics; the envelope indirection is fully internal.
package signing
