package http

import (
	"time"

	"github.com/diffsentry/diffsentry/internal/config"
)

// ParseTimeout parses a configured timeout string, falling back to
// defaultVal when the value is empty or invalid. Negative durations are
// rejected (would cause runtime panic in http.Client.Timeout).
func ParseTimeout(value string, defaultVal time.Duration) time.Duration {
	if value != "" {
		if d, err := time.ParseDuration(value); err == nil && d >= 0 {
			return d
		}
	}

	// Use default (should always be >= 0)
	if defaultVal < 0 {
		return 60 * time.Second // Fallback to safe default
	}
	return defaultVal
}

// BuildRetryConfig creates a RetryConfig from the GitHub client config.
func BuildRetryConfig(cfg config.GitHubConfig) RetryConfig {
	initialBackoff := parseDuration(cfg.InitialBackoff, 2*time.Second)
	maxBackoff := parseDuration(cfg.MaxBackoff, 32*time.Second)

	return RetryConfig{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: initialBackoff,
		MaxBackoff:     maxBackoff,
		Multiplier:     cfg.BackoffMultiplier,
	}
}

// parseDuration parses a duration string with a fallback default.
// Negative durations are rejected to prevent invalid backoff values.
func parseDuration(value string, defaultVal time.Duration) time.Duration {
	if value != "" {
		if d, err := time.ParseDuration(value); err == nil && d >= 0 {
			return d
		}
	}

	if defaultVal < 0 {
		return 2 * time.Second // Safe fallback for backoff
	}
	return defaultVal
}
