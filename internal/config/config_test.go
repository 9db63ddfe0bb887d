package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"resume_url": "https://example.com/cv",
		"port": 9090,
		"log_level": "debug",
		"smtp_host": "smtp.example.com",
		"smtp_port": 587,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://example.com/cv", cfg.ResumeURL)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "smtp.example.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_MutuallyExclusive(t *testing.T) {
	resumeFile := filepath.Join(t.TempDir(), "cv.md")
	require.NoError(t, os.WriteFile(resumeFile, []byte("# Ada"), 0644))

	cfg := &Config{
		Resume:    resumeFile,
		ResumeURL: "https://example.com/cv",
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestValidate_PortRange(t *testing.T) {
	cfg := &Config{Port: 70000}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "port")

	cfg = &Config{Port: -1}
	assert.Error(t, cfg.Validate())
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := &Config{LogLevel: "loud"}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")

	for _, level := range []string{"", "debug", "info", "warn", "error"} {
		cfg := &Config{LogLevel: level}
		assert.NoError(t, cfg.Validate())
	}
}

func TestValidate_ResumeFileMissing(t *testing.T) {
	cfg := &Config{Resume: "/nonexistent/cv.md"}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "resume file not found")
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		ResumeURL: "https://example.com/cv",
		Port:      8080,
		LogLevel:  "info",
	}

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		ResumeURL: "https://example.com/cv",
		Port:      8080,
		LogLevel:  "info",
		SMTPHost:  "smtp.example.com",
		SMTPPort:  587,
	}

	partial := Config{
		LogLevel: "debug",
	}

	merged := partial.MergeWithDefaults(defaults)

	// Custom values should be preserved
	assert.Equal(t, "debug", merged.LogLevel)

	// Default values should fill in empty fields
	assert.Equal(t, "https://example.com/cv", merged.ResumeURL)
	assert.Equal(t, 8080, merged.Port)
	assert.Equal(t, "smtp.example.com", merged.SMTPHost)
	assert.Equal(t, 587, merged.SMTPPort)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{
		Resume: "cv.md",
		Port:   9999,
	}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "cv.md", merged.Resume)
	assert.Equal(t, 9999, merged.Port)
}
