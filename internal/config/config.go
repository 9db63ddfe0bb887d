// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Document source
	Resume    string `json:"resume,omitempty"`     // Path to the CV document (markdown, plain text, or HTML)
	ResumeURL string `json:"resume_url,omitempty"` // URL to fetch the CV document from

	// Server
	Port     int    `json:"port,omitempty"`      // HTTP listen port
	LogLevel string `json:"log_level,omitempty"` // debug, info, warn, error

	// Notification channel (values here are defaults; SMTP_* env vars win)
	SMTPHost     string `json:"smtp_host,omitempty"`
	SMTPPort     int    `json:"smtp_port,omitempty"`
	SMTPUsername string `json:"smtp_username,omitempty"`
	SMTPPassword string `json:"smtp_password,omitempty"`
	SMTPFrom     string `json:"smtp_from,omitempty"`

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Use headless browser for JS-rendered CV pages
	Verbose    bool `json:"verbose,omitempty"`     // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	// Validate mutually exclusive fields
	if c.Resume != "" && c.ResumeURL != "" {
		return fmt.Errorf("config error: 'resume' and 'resume_url' are mutually exclusive")
	}

	// Validate numeric ranges
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.SMTPPort < 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("config error: 'smtp_port' must be between 0 and 65535")
	}

	// Validate log level (if specified)
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config error: 'log_level' must be one of debug, info, warn, error")
	}

	// Validate file paths exist (if specified)
	if c.Resume != "" {
		if _, err := os.Stat(c.Resume); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", c.Resume)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Resume == "" {
		result.Resume = defaults.Resume
	}
	if result.ResumeURL == "" {
		result.ResumeURL = defaults.ResumeURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.SMTPHost == "" {
		result.SMTPHost = defaults.SMTPHost
	}
	if result.SMTPUsername == "" {
		result.SMTPUsername = defaults.SMTPUsername
	}
	if result.SMTPPassword == "" {
		result.SMTPPassword = defaults.SMTPPassword
	}
	if result.SMTPFrom == "" {
		result.SMTPFrom = defaults.SMTPFrom
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.SMTPPort == 0 {
		result.SMTPPort = defaults.SMTPPort
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
