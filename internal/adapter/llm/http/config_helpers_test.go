package http_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	llmhttp "github.com/diffsentry/diffsentry/internal/adapter/llm/http"
	"github.com/diffsentry/diffsentry/internal/config"
)

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		defaultVal time.Duration
		expected   time.Duration
	}{
		{
			name:       "valid duration",
			value:      "45s",
			defaultVal: 30 * time.Second,
			expected:   45 * time.Second,
		},
		{
			name:       "empty value uses default",
			value:      "",
			defaultVal: 30 * time.Second,
			expected:   30 * time.Second,
		},
		{
			name:       "invalid value uses default",
			value:      "not-a-duration",
			defaultVal: 30 * time.Second,
			expected:   30 * time.Second,
		},
		{
			name:       "negative value uses default",
			value:      "-5s",
			defaultVal: 30 * time.Second,
			expected:   30 * time.Second,
		},
		{
			name:       "negative default falls back to safe value",
			value:      "",
			defaultVal: -1 * time.Second,
			expected:   60 * time.Second,
		},
		{
			name:       "zero duration is allowed",
			value:      "0s",
			defaultVal: 30 * time.Second,
			expected:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := llmhttp.ParseTimeout(tt.value, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestBuildRetryConfig(t *testing.T) {
	cfg := config.GitHubConfig{
		MaxRetries:        4,
		InitialBackoff:    "500ms",
		MaxBackoff:        "10s",
		BackoffMultiplier: 3.0,
	}

	retry := llmhttp.BuildRetryConfig(cfg)

	assert.Equal(t, 4, retry.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, retry.InitialBackoff)
	assert.Equal(t, 10*time.Second, retry.MaxBackoff)
	assert.Equal(t, 3.0, retry.Multiplier)
}

func TestBuildRetryConfigFallsBackOnInvalidDurations(t *testing.T) {
	cfg := config.GitHubConfig{
		MaxRetries:        3,
		InitialBackoff:    "garbage",
		MaxBackoff:        "",
		BackoffMultiplier: 2.0,
	}

	retry := llmhttp.BuildRetryConfig(cfg)

	assert.Equal(t, 2*time.Second, retry.InitialBackoff)
	assert.Equal(t, 32*time.Second, retry.MaxBackoff)
}
