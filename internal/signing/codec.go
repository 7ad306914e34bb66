// ABOUTME: Canonical JWS envelope construction for outbound API requests.
// ABOUTME: Deterministic given identical inputs and timestamp; HS256 compact serialization.

package signing

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The validation endpoint only accepts HS256 envelopes with a JSON content
// type declared in the protected header.
const (
	algorithm       = "HS256"
	jsonContentType = "application/json"
)

// Credential errors surfaced at client construction time.
var (
	ErrMissingKeyID  = errors.New("signing key id is required")
	ErrMissingSecret = errors.New("signing secret is required")
)

// Credential holds the API token pair used to sign requests. The key id
// travels in the envelope header; the secret never leaves this package and
// is never logged.
type Credential struct {
	KeyID  string
	Secret []byte
}

func (c Credential) validate() error {
	if c.KeyID == "" {
		return ErrMissingKeyID
	}
	if len(c.Secret) == 0 {
		return ErrMissingSecret
	}
	return nil
}

// envelopeHeader is the JWS protected header. Field order is part of the
// canonical serialization and must not change.
type envelopeHeader struct {
	Alg         string `json:"alg"`
	Kid         string `json:"kid"`
	Method      string `json:"method"`
	ContentType string `json:"content-type"`
	URI         string `json:"uri"`
	QueryString string `json:"query-string"`
	IssuedAt    int64  `json:"issuedAt"`
}

// Sign produces the compact JWS envelope for one outbound request. The
// timestamp is captured at call time, so two calls with identical inputs
// still produce distinct signatures.
func Sign(method, path, queryString string, body json.RawMessage, cred Credential) (string, error) {
	return signAt(method, path, queryString, body, cred, time.Now())
}

func signAt(method, path, queryString string, body json.RawMessage, cred Credential, now time.Time) (string, error) {
	if err := cred.validate(); err != nil {
		return "", err
	}
	if method == "" {
		return "", errors.New("method is required")
	}

	header := envelopeHeader{
		Alg:         algorithm,
		Kid:         cred.KeyID,
		Method:      strings.ToUpper(method),
		ContentType: jsonContentType,
		URI:         path,
		QueryString: queryString,
		IssuedAt:    now.UnixMilli(),
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("encoding envelope header: %w", err)
	}

	signingInput := base64.RawURLEncoding.EncodeToString(headerJSON) +
		"." + base64.RawURLEncoding.EncodeToString(payloadBytes(body))

	sig, err := jwt.SigningMethodHS256.Sign(signingInput, cred.Secret)
	if err != nil {
		return "", fmt.Errorf("signing request: %w", err)
	}

	return signingInput + "." + base64.RawURLEncoding.EncodeToString(sig), nil
}

// payloadBytes wraps the caller's JSON body verbatim. The validation endpoint
// computes the MAC over these exact bytes, so the body is never re-encoded.
// A request with no body signs the fixed empty-object form.
func payloadBytes(body json.RawMessage) []byte {
	if len(body) == 0 {
		return []byte(`{"data": {}}`)
	}
	buf := make([]byte, 0, len(body)+len(`{"data": }`))
	buf = append(buf, `{"data": `...)
	buf = append(buf, body...)
	buf = append(buf, '}')
	return buf
}
