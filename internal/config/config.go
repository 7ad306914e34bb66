// ABOUTME: Configuration structures and loading for the secure-endpoint-mcp server.
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing.

package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport modes supported by the MCP server.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Defaults applied before file and environment values.
const (
	DefaultAPIHost    = "https://api.absolute.com"
	DefaultServerAddr = "0.0.0.0:8000"
	DefaultTimeout    = 30 * time.Second
)

// featureFlagPrefix marks environment variables carrying feature flag state.
const featureFlagPrefix = "ABS_FEATURE_"

// defaultFeatureGroup is the single group enabled when no ABS_FEATURE_*
// variables are present at all.
const defaultFeatureGroup = "device-reporting"

// Config represents the complete secure-endpoint-mcp configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Server  ServerConfig  `yaml:"server"`
	Policy  PolicyConfig  `yaml:"policy"`
	Logging LoggingConfig `yaml:"logging"`

	// FeatureFlags is sourced from ABS_FEATURE_* environment variables, not
	// from the file. Immutable for the process lifetime.
	FeatureFlags map[string]bool `yaml:"-"`
}

// APIConfig holds the upstream API host and signing credential.
type APIConfig struct {
	Host   string `yaml:"host"`
	Key    string `yaml:"key"`
	Secret string `yaml:"secret"`

	Timeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	TimeoutRaw string `yaml:"timeout"`
}

// ServerConfig holds the MCP server address and transport mode.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	Transport string `yaml:"transport"`
}

// PolicyConfig holds route admission configuration.
type PolicyConfig struct {
	// DisableAdvancedBlocklist turns off the blocklist that excludes
	// "-advanced" API paths.
	DisableAdvancedBlocklist bool `yaml:"disable_advanced_api_blocklist"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads configuration from the given path (optional: an empty path or
// a missing file yields defaults), applies environment overrides, and parses
// the feature flag state from the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{
		API: APIConfig{
			Host:    DefaultAPIHost,
			Timeout: DefaultTimeout,
		},
		Server: ServerConfig{
			Addr:      DefaultServerAddr,
			Transport: TransportHTTP,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else {
			// Expand environment variables in the raw YAML content
			expanded := expandEnvVars(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
			if err := parseDurations(cfg); err != nil {
				return nil, fmt.Errorf("parsing durations: %w", err)
			}
		}
	}

	applyEnvOverrides(cfg)
	cfg.FeatureFlags = FeatureFlagsFromEnv(os.Environ())

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.API.Host == "" {
		return fmt.Errorf("api.host is required")
	}
	if c.API.Key == "" {
		return fmt.Errorf("api.key is required (or set ABS_API_KEY)")
	}
	if c.API.Secret == "" {
		return fmt.Errorf("api.secret is required (or set ABS_API_SECRET)")
	}
	if c.Server.Transport != TransportHTTP && c.Server.Transport != TransportStdio {
		return fmt.Errorf("server.transport must be %q or %q, got %q", TransportHTTP, TransportStdio, c.Server.Transport)
	}
	if c.Server.Transport == TransportHTTP && c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required for the http transport")
	}
	return nil
}

// FeatureFlagsFromEnv parses ABS_FEATURE_* variables from the given
// environment into a group-name-to-enabled map. Variable names convert from
// UPPER_SNAKE_CASE to lower-case-with-dashes; a value of "enabled" (any
// case) turns the group on, anything else turns it off.
//
// When no flag variables are present at all, only the device-reporting group
// defaults on.
func FeatureFlagsFromEnv(environ []string) map[string]bool {
	result := make(map[string]bool)
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, featureFlagPrefix) {
			continue
		}
		name := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, featureFlagPrefix)), "_", "-")
		if name == "" {
			continue
		}
		result[name] = strings.EqualFold(value, "enabled")
	}

	if len(result) == 0 {
		result[defaultFeatureGroup] = true
	}

	return result
}

// applyEnvOverrides lets the credential and host come straight from the
// environment, taking precedence over file values.
func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("ABS_API_HOST"); host != "" {
		cfg.API.Host = host
	}
	if key := os.Getenv("ABS_API_KEY"); key != "" {
		cfg.API.Key = key
	}
	if secret := os.Getenv("ABS_API_SECRET"); secret != "" {
		cfg.API.Secret = secret
	}
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment
// variable values. Unset variables expand to the empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.API.TimeoutRaw != "" {
		timeout, err := time.ParseDuration(cfg.API.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing api.timeout %q: %w", cfg.API.TimeoutRaw, err)
		}
		cfg.API.Timeout = timeout
	}
	return nil
}
