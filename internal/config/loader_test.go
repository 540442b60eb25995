package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnvString(t *testing.T) {
	// Set test environment variables
	os.Setenv("TEST_API_KEY", "secret-key-123")
	os.Setenv("TEST_PATH", "/path/to/data")
	defer os.Unsetenv("TEST_API_KEY")
	defer os.Unsetenv("TEST_PATH")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "expand ${VAR} syntax",
			input:    "${TEST_API_KEY}",
			expected: "secret-key-123",
		},
		{
			name:     "expand $VAR syntax",
			input:    "$TEST_API_KEY",
			expected: "secret-key-123",
		},
		{
			name:     "expand in middle of string",
			input:    "key:${TEST_API_KEY}:end",
			expected: "key:secret-key-123:end",
		},
		{
			name:     "expand multiple variables",
			input:    "${TEST_API_KEY}:${TEST_PATH}",
			expected: "secret-key-123:/path/to/data",
		},
		{
			name:     "leave non-existent var unchanged",
			input:    "${NONEXISTENT_VAR}",
			expected: "${NONEXISTENT_VAR}",
		},
		{
			name:     "handle empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "handle string without variables",
			input:    "plain-text",
			expected: "plain-text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandEnvString(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TEST_GEMINI_HOST", "https://proxy.internal")
	os.Setenv("TEST_TIMEOUT", "90s")
	defer os.Unsetenv("TEST_GEMINI_HOST")
	defer os.Unsetenv("TEST_TIMEOUT")

	cfg := Config{
		Model: "gemini-pro-latest",
		Gemini: GeminiConfig{
			BaseURL: "${TEST_GEMINI_HOST}",
			Timeout: "$TEST_TIMEOUT",
		},
		GitHub: GitHubConfig{
			Timeout: "${TEST_TIMEOUT}",
		},
		Logging: LoggingConfig{
			Level: "${NONEXISTENT_LEVEL}",
		},
	}

	expanded := expandEnvVars(cfg)

	assert.Equal(t, "https://proxy.internal", expanded.Gemini.BaseURL)
	assert.Equal(t, "90s", expanded.Gemini.Timeout)
	assert.Equal(t, "90s", expanded.GitHub.Timeout)
	assert.Equal(t, "${NONEXISTENT_LEVEL}", expanded.Logging.Level)
}

func TestApplyEnvironment(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "token-abc")
	t.Setenv("GEMINI_API_KEY", "key-xyz")
	t.Setenv("GITHUB_EVENT_PATH", "/github/workflow/event.json")
	t.Setenv("GITHUB_REPOSITORY", "octo/hello")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-flash")

	cfg := Config{Model: "gemini-pro-latest"}
	applyEnvironment(&cfg)

	assert.Equal(t, "token-abc", cfg.GitHubToken)
	assert.Equal(t, "key-xyz", cfg.GeminiAPIKey)
	assert.Equal(t, "/github/workflow/event.json", cfg.EventPath)
	assert.Equal(t, "octo/hello", cfg.Repository)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
}

func TestApplyEnvironmentKeepsModelWhenUnset(t *testing.T) {
	t.Setenv("GEMINI_MODEL", "")

	cfg := Config{Model: "gemini-pro-latest"}
	applyEnvironment(&cfg)

	assert.Equal(t, "gemini-pro-latest", cfg.Model)
}

func TestLocateConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "diffsentry.yaml")
	require.NoError(t, os.WriteFile(file, []byte("model: test\n"), 0o600))

	found := locateConfigFile("diffsentry", []string{dir})
	assert.Equal(t, file, found)
}

func TestLocateConfigFileMissing(t *testing.T) {
	dir := t.TempDir()

	found := locateConfigFile("diffsentry", []string{dir})
	assert.Empty(t, found)
}

func TestLocateConfigFileSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "diffsentry.yaml"), 0o755))

	found := locateConfigFile("diffsentry", []string{dir})
	assert.Empty(t, found)
}
