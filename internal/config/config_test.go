// ABOUTME: Unit tests for configuration loading and feature flag parsing.
// ABOUTME: Covers YAML parsing, env expansion, overrides, defaults, and validation errors.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
api:
  host: https://api.example.com
  key: key-123
  secret: secret-456
  timeout: 45s
server:
  addr: 127.0.0.1:9000
  transport: http
policy:
  disable_advanced_api_blocklist: true
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.Host)
	assert.Equal(t, "key-123", cfg.API.Key)
	assert.Equal(t, "secret-456", cfg.API.Secret)
	assert.Equal(t, 45*time.Second, cfg.API.Timeout)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.True(t, cfg.Policy.DisableAdvancedBlocklist)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ABS_API_KEY", "env-key")
	t.Setenv("ABS_API_SECRET", "env-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIHost, cfg.API.Host)
	assert.Equal(t, DefaultTimeout, cfg.API.Timeout)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, TransportHTTP, cfg.Server.Transport)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_SECRET_VALUE", "expanded-secret")
	path := writeConfig(t, `
api:
  key: key-123
  secret: ${TEST_SECRET_VALUE}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "expanded-secret", cfg.API.Secret)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("ABS_API_KEY", "env-key")
	path := writeConfig(t, `
api:
  key: file-key
  secret: file-secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.API.Key)
	assert.Equal(t, "file-secret", cfg.API.Secret)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "missing key",
			content: "api:\n  secret: s\n",
			wantMsg: "api.key is required",
		},
		{
			name:    "missing secret",
			content: "api:\n  key: k\n",
			wantMsg: "api.secret is required",
		},
		{
			name:    "bad transport",
			content: "api:\n  key: k\n  secret: s\nserver:\n  transport: websocket\n",
			wantMsg: "server.transport",
		},
		{
			name:    "bad timeout",
			content: "api:\n  key: k\n  secret: s\n  timeout: soon\n",
			wantMsg: "parsing api.timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFeatureFlagsFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		environ []string
		want    map[string]bool
	}{
		{
			name:    "no flags defaults to device-reporting",
			environ: []string{"PATH=/usr/bin", "HOME=/root"},
			want:    map[string]bool{"device-reporting": true},
		},
		{
			name:    "enabled flag",
			environ: []string{"ABS_FEATURE_DEVICE_REPORTING=enabled"},
			want:    map[string]bool{"device-reporting": true},
		},
		{
			name:    "disabled flag",
			environ: []string{"ABS_FEATURE_DEVICE_REPORTING=disabled"},
			want:    map[string]bool{"device-reporting": false},
		},
		{
			name:    "anything but enabled means disabled",
			environ: []string{"ABS_FEATURE_SOFTWARE_REPORTING=true"},
			want:    map[string]bool{"software-reporting": false},
		},
		{
			name:    "value case-insensitive",
			environ: []string{"ABS_FEATURE_SOFTWARE_REPORTING=Enabled"},
			want:    map[string]bool{"software-reporting": true},
		},
		{
			name: "multiple flags",
			environ: []string{
				"ABS_FEATURE_DEVICE_REPORTING=enabled",
				"ABS_FEATURE_SOFTWARE_REPORTING=disabled",
			},
			want: map[string]bool{
				"device-reporting":   true,
				"software-reporting": false,
			},
		},
		{
			name:    "explicit flags suppress the default group",
			environ: []string{"ABS_FEATURE_SOFTWARE_REPORTING=enabled"},
			want:    map[string]bool{"software-reporting": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FeatureFlagsFromEnv(tt.environ))
		})
	}
}
