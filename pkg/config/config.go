package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/impersonate-auth"
	ConfigFileName    = "impersonate-auth.yml"

	DefaultSeparator = ":"
)

// ValidAuthenticators is the list of valid authenticator names
var ValidAuthenticators = []string{"authn", "authn-impersonate"}

// DefaultAuthenticators is the chain order used when none is configured.
// Impersonation runs first so a composite secret is never tried as a plain password.
var DefaultAuthenticators = []string{"authn-impersonate", "authn"}

// Config holds all impersonate-auth configuration settings
type Config struct {
	// Separator splits a composite secret into impersonator username and password
	Separator string `yaml:"impersonate_auth_separator" json:"impersonate_auth_separator"`

	// Authenticators is the ordered list of enabled authenticators
	Authenticators []string `yaml:"authenticators" json:"authenticators"`

	// AuditEnabled turns RFC5424 audit logging on or off
	AuditEnabled bool `yaml:"audit_enabled" json:"audit_enabled"`

	// LogLevel is the zerolog level name
	LogLevel string `yaml:"log_level" json:"log_level"`

	// TrustedProxies is a list of CIDR ranges allowed to set X-Forwarded-For
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// fileConfig distinguishes unset keys from zero values in the YAML file
type fileConfig struct {
	Separator      *string  `yaml:"impersonate_auth_separator"`
	Authenticators []string `yaml:"authenticators"`
	AuditEnabled   *bool    `yaml:"audit_enabled"`
	LogLevel       string   `yaml:"log_level"`
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment.
// On error, including a failed Validate, the previous configuration stays in place.
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	Set(cfg)
	return nil
}

// Set replaces the global configuration. A nil config resets it so the next
// Get loads from file and environment again.
func Set(cfg *Config) {
	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		Separator:      DefaultSeparator,
		Authenticators: append([]string(nil), DefaultAuthenticators...),
		AuditEnabled:   true,
		LogLevel:       zerolog.LevelInfoValue,
		TrustedProxies: []string{},
		sources:        make(map[string]string),
	}
}

// New returns a default config, for tests and embedding.
func New() *Config {
	cfg := newDefault()
	for _, name := range attributeNames() {
		cfg.sources[name] = "default"
	}
	return cfg
}

// Path returns the config file path from IMPERSONATE_AUTH_CONFIG_PATH or the default
func Path() string {
	configPath := os.Getenv("IMPERSONATE_AUTH_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	return filepath.Join(configPath, ConfigFileName)
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := New()
	config.configFilePath = Path()

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&file)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"impersonate_auth_separator", "authenticators", "audit_enabled",
		"log_level", "trusted_proxies",
	}
}

func (c *Config) applyFileConfig(file *fileConfig) {
	if file.Separator != nil {
		c.Separator = *file.Separator
		c.sources["impersonate_auth_separator"] = "file"
	}
	if len(file.Authenticators) > 0 {
		c.Authenticators = file.Authenticators
		c.sources["authenticators"] = "file"
	}
	if file.AuditEnabled != nil {
		c.AuditEnabled = *file.AuditEnabled
		c.sources["audit_enabled"] = "file"
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
		c.sources["log_level"] = "file"
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	// Separator may legitimately be whitespace, so it is not trimmed
	if val, ok := os.LookupEnv("IMPERSONATE_AUTH_SEPARATOR"); ok && val != "" {
		c.Separator = val
		c.sources["impersonate_auth_separator"] = "environment"
	}
	if val := os.Getenv("IMPERSONATE_AUTH_AUTHENTICATORS"); val != "" {
		c.Authenticators = splitAndTrim(val)
		c.sources["authenticators"] = "environment"
	}
	if val := os.Getenv("IMPERSONATE_AUTH_AUDIT_ENABLED"); val != "" {
		c.AuditEnabled = val == "true" || val == "1"
		c.sources["audit_enabled"] = "environment"
	}
	if val := os.Getenv("IMPERSONATE_AUTH_LOG_LEVEL"); val != "" {
		c.LogLevel = val
		c.sources["log_level"] = "environment"
	}
	if val := os.Getenv("IMPERSONATE_AUTH_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// IsAuthenticatorEnabled checks if an authenticator is enabled
func (c *Config) IsAuthenticatorEnabled(authenticator string) bool {
	for _, a := range c.Authenticators {
		if a == authenticator {
			return true
		}
	}
	return false
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *Config) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Separator == "" {
		return fmt.Errorf("impersonate_auth_separator must not be empty")
	}

	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}

	if len(c.Authenticators) == 0 {
		return fmt.Errorf("authenticators must name at least one authenticator")
	}

	validAuthenticators := make(map[string]bool)
	for _, a := range ValidAuthenticators {
		validAuthenticators[a] = true
	}
	seen := make(map[string]bool)
	for _, auth := range c.Authenticators {
		if !validAuthenticators[auth] {
			return fmt.Errorf("invalid authenticator type: %s", auth)
		}
		if seen[auth] {
			return fmt.Errorf("duplicate authenticator: %s", auth)
		}
		seen[auth] = true
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}

	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "impersonate_auth_separator", Value: c.Separator, Source: c.Source("impersonate_auth_separator")},
		{Name: "authenticators", Value: strings.Join(c.Authenticators, ","), Source: c.Source("authenticators")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.AuditEnabled), Source: c.Source("audit_enabled")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
