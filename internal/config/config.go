// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/cloudnein/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete cloudnein configuration.
type Config struct {
	Version string `toml:"version"`

	// Ledger holds local financial database settings.
	Ledger LedgerConfig `toml:"ledger"`

	// Local holds on-device model runtime settings.
	Local LocalConfig `toml:"local"`

	// Cloud holds hosted model settings.
	Cloud CloudConfig `toml:"cloud"`

	// Router holds routing pipeline tuning.
	Router RouterConfig `toml:"router"`
}

// LedgerConfig configures the local financial database.
type LedgerConfig struct {
	// Path to the SQLite database file. ":memory:" for an ephemeral store.
	Path string `toml:"path"`
	// SeedDemoData populates the demo books on first open.
	SeedDemoData bool `toml:"seed_demo_data"`
}

// LocalConfig configures the on-device model runtime.
type LocalConfig struct {
	// BaseURL of the local runtime API.
	BaseURL string `toml:"base_url"`
	// Model is the local tool-calling model tag.
	Model string `toml:"model"`
	// TimeoutSecs per local completion request.
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxTokens per local completion.
	MaxTokens int `toml:"max_tokens"`
}

// CloudConfig configures the hosted model client.
type CloudConfig struct {
	// APIKey authenticates cloud requests. Empty disables cloud paths.
	APIKey string `toml:"api_key"`
	// BaseURL of the OpenAI-compatible API.
	BaseURL string `toml:"base_url"`
	// Models is the ordered failover list.
	Models []string `toml:"models"`
	// MaxRetries per model for transient failures.
	MaxRetries int `toml:"max_retries"`
	// RequestsPerSecond is the client-side rate limit.
	RequestsPerSecond float64 `toml:"requests_per_second"`
	// TimeoutSecs per cloud request.
	TimeoutSecs int `toml:"timeout_secs"`
}

// RouterConfig configures the routing pipeline.
type RouterConfig struct {
	// ConfidenceThreshold is the minimum local tool-calling confidence
	// required to execute without consulting the cloud.
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	// SensitivityKeywords extends the built-in sensitive term list used by
	// the sensitivity scorer. Empty keeps the defaults.
	SensitivityKeywords []string `toml:"sensitivity_keywords"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with built-in default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Ledger: LedgerConfig{
			Path:         "", // resolved to ~/.cloudnein/ledger.db by SetDefaults
			SeedDemoData: true,
		},

		Local: LocalConfig{
			BaseURL:     "http://127.0.0.1:11434",
			Model:       "functiongemma:270m",
			TimeoutSecs: 30,
			MaxTokens:   128,
		},

		Cloud: CloudConfig{
			APIKey:            "",
			BaseURL:           "https://generativelanguage.googleapis.com/v1beta/openai",
			Models:            []string{"gemini-2.0-flash", "gemini-2.0-flash-lite"},
			MaxRetries:        3,
			RequestsPerSecond: 2,
			TimeoutSecs:       60,
		},

		Router: RouterConfig{
			ConfidenceThreshold: 0.5,
		},
	}
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// Dir returns the cloudnein configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".cloudnein"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureDir ensures the config directory exists.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads configuration from the default file location, falling back to
// defaults when no file exists. Environment overrides apply last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := decodeTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.SetDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath reads configuration from a specific file with full
// validation. Environment overrides apply last.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := decodeTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.SetDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// decodeTOML decodes path over cfg, keeping defaults for absent keys.
// Config files hold an API key, so permissions are tightened to 0600.
func decodeTOML(cfg *Config, path string) error {
	if info, err := os.Stat(path); err == nil && info.Mode().Perm() != 0o600 {
		if err := os.Chmod(path, 0o600); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not fix permissions on %s: %v\n", path, err)
		}
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// SetDefaults fills in any zero values left after decoding.
func (c *Config) SetDefaults() error {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Ledger.Path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		c.Ledger.Path = filepath.Join(dir, "ledger.db")
	}
	if c.Local.BaseURL == "" {
		c.Local.BaseURL = defaults.Local.BaseURL
	}
	if c.Local.Model == "" {
		c.Local.Model = defaults.Local.Model
	}
	if c.Local.TimeoutSecs == 0 {
		c.Local.TimeoutSecs = defaults.Local.TimeoutSecs
	}
	if c.Local.MaxTokens == 0 {
		c.Local.MaxTokens = defaults.Local.MaxTokens
	}
	if c.Cloud.BaseURL == "" {
		c.Cloud.BaseURL = defaults.Cloud.BaseURL
	}
	if len(c.Cloud.Models) == 0 {
		c.Cloud.Models = defaults.Cloud.Models
	}
	if c.Cloud.MaxRetries == 0 {
		c.Cloud.MaxRetries = defaults.Cloud.MaxRetries
	}
	if c.Cloud.RequestsPerSecond == 0 {
		c.Cloud.RequestsPerSecond = defaults.Cloud.RequestsPerSecond
	}
	if c.Cloud.TimeoutSecs == 0 {
		c.Cloud.TimeoutSecs = defaults.Cloud.TimeoutSecs
	}
	if c.Router.ConfidenceThreshold == 0 {
		c.Router.ConfidenceThreshold = defaults.Router.ConfidenceThreshold
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies CLOUDNEIN_* environment variables over the
// loaded configuration. GEMINI_API_KEY is honored as a fallback for the
// cloud key.
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("CLOUDNEIN_API_KEY"); key != "" {
		c.Cloud.APIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" && c.Cloud.APIKey == "" {
		c.Cloud.APIKey = key
	}

	if u := os.Getenv("CLOUDNEIN_RUNTIME_URL"); u != "" {
		c.Local.BaseURL = u
	}
	if model := os.Getenv("CLOUDNEIN_MODEL"); model != "" {
		c.Local.Model = model
	}
	if path := os.Getenv("CLOUDNEIN_LEDGER_PATH"); path != "" {
		c.Ledger.Path = path
	}
	if raw := os.Getenv("CLOUDNEIN_CONFIDENCE_THRESHOLD"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			c.Router.ConfidenceThreshold = v
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError is a single configuration validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects validation failures.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for values that would break at runtime.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if _, err := url.ParseRequestURI(c.Local.BaseURL); err != nil {
		errs = append(errs, ValidationError{"local.base_url", "not a valid URL"})
	}
	if c.Local.TimeoutSecs <= 0 {
		errs = append(errs, ValidationError{"local.timeout_secs", "must be positive"})
	}
	if _, err := url.ParseRequestURI(c.Cloud.BaseURL); err != nil {
		errs = append(errs, ValidationError{"cloud.base_url", "not a valid URL"})
	}
	if c.Cloud.MaxRetries < 0 {
		errs = append(errs, ValidationError{"cloud.max_retries", "must not be negative"})
	}
	if c.Cloud.RequestsPerSecond <= 0 {
		errs = append(errs, ValidationError{"cloud.requests_per_second", "must be positive"})
	}
	if c.Router.ConfidenceThreshold < 0 || c.Router.ConfidenceThreshold > 1 {
		errs = append(errs, ValidationError{"router.confidence_threshold", "must be between 0 and 1"})
	}
	if c.Ledger.Path == "" {
		errs = append(errs, ValidationError{"ledger.path", "must not be empty"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the configuration to the default TOML file atomically with
// 0600 permissions.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the configuration to a specific path.
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# cloudnein configuration file\n")
	buf.WriteString("# Generated by cloudnein - edit with care\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
