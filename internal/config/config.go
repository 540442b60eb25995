package config

import (
	"fmt"
	"strings"
)

// Config is the merged application configuration. Tunables come from an
// optional YAML file with environment overrides; credentials and CI
// trigger context come from the environment only.
type Config struct {
	Model     string          `yaml:"model"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	GitHub    GitHubConfig    `yaml:"github"`
	Logging   LoggingConfig   `yaml:"logging"`
	Redaction RedactionConfig `yaml:"redaction"`

	// Environment-sourced values, never read from the config file.
	GitHubToken  string `yaml:"-" mapstructure:"-"`
	GeminiAPIKey string `yaml:"-" mapstructure:"-"`
	EventPath    string `yaml:"-" mapstructure:"-"`
	Repository   string `yaml:"-" mapstructure:"-"`
}

// GeminiConfig holds settings for the Gemini API client.
type GeminiConfig struct {
	BaseURL         string  `yaml:"baseURL"`
	Timeout         string  `yaml:"timeout"`
	Temperature     float64 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"maxOutputTokens"`
	UseSeed         bool    `yaml:"useSeed"`
}

// GitHubConfig holds settings for the GitHub API client.
type GitHubConfig struct {
	BaseURL           string  `yaml:"baseURL"`
	Timeout           string  `yaml:"timeout"`
	MaxRetries        int     `yaml:"maxRetries"`
	InitialBackoff    string  `yaml:"initialBackoff"`
	MaxBackoff        string  `yaml:"maxBackoff"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`
}

// LoggingConfig controls structured log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // auto, console, json
}

// RedactionConfig controls secret scrubbing of patch text before it is
// included in a review prompt.
type RedactionConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ValidateRun checks the inputs the CI review path requires. All four
// Actions-provided environment variables must be present; missing ones
// are reported together so a broken workflow can be fixed in one pass.
func (c Config) ValidateRun() error {
	var missing []string
	if c.GitHubToken == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if c.EventPath == "" {
		missing = append(missing, "GITHUB_EVENT_PATH")
	}
	if c.Repository == "" {
		missing = append(missing, "GITHUB_REPOSITORY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateLocal checks the inputs a local review requires. Local runs
// never talk to GitHub, so only the model credential is needed.
func (c Config) ValidateLocal() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("missing required environment variable: GEMINI_API_KEY")
	}
	return nil
}

// ParseRepository splits the owner/name form of Repository. GitHub
// Actions always supplies this shape in GITHUB_REPOSITORY.
func (c Config) ParseRepository() (owner, repo string, err error) {
	parts := strings.Split(c.Repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/repo", c.Repository)
	}
	return parts[0], parts[1], nil
}
