package http_test

import (
	"strings"
	"testing"

	llmhttp "github.com/diffsentry/diffsentry/internal/adapter/llm/http"
	"github.com/stretchr/testify/assert"
)

func TestTruncateForLogging_ShortResponse(t *testing.T) {
	response := "short response"
	assert.Equal(t, response, llmhttp.TruncateForLogging(response))
}

func TestTruncateForLogging_LongResponse(t *testing.T) {
	response := strings.Repeat("x", 500)

	truncated := llmhttp.TruncateForLogging(response)

	assert.True(t, strings.HasPrefix(truncated, strings.Repeat("x", llmhttp.MaxLoggedResponseLength)))
	assert.Contains(t, truncated, "[truncated, total length=500 bytes]")
	assert.Less(t, len(truncated), len(response))
}

func TestTruncateForLogging_ExactBoundary(t *testing.T) {
	response := strings.Repeat("y", llmhttp.MaxLoggedResponseLength)
	assert.Equal(t, response, llmhttp.TruncateForLogging(response))
}

func TestRedactURLSecrets(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "gemini key parameter",
			input:    "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro-latest:generateContent?key=AIzaSecret123",
			expected: "https://generativelanguage.googleapis.com/v1beta/models/gemini-pro-latest:generateContent?key=[REDACTED]",
		},
		{
			name:     "key with trailing parameter",
			input:    "https://api.example.com/endpoint?key=secret123&foo=bar",
			expected: "https://api.example.com/endpoint?key=[REDACTED]&foo=bar",
		},
		{
			name:     "token parameter",
			input:    "https://api.example.com/endpoint?token=ghp_abc123",
			expected: "https://api.example.com/endpoint?token=[REDACTED]",
		},
		{
			name:     "access_token parameter",
			input:    "https://api.example.com/endpoint?access_token=tok123",
			expected: "https://api.example.com/endpoint?access_token=[REDACTED]",
		},
		{
			name:     "no secrets unchanged",
			input:    "https://api.example.com/endpoint?page=2&per_page=100",
			expected: "https://api.example.com/endpoint?page=2&per_page=100",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "secret inside error text",
			input:    `request failed: Post "https://host/path?key=abc": connection refused`,
			expected: `request failed: Post "https://host/path?key=[REDACTED]": connection refused`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, llmhttp.RedactURLSecrets(tt.input))
		})
	}
}

func TestRedactAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{"long key keeps last four", "AIzaSyExample1234", "[REDACTED-1234]"},
		{"short key fully hidden", "abcd", "[REDACTED]"},
		{"empty key fully hidden", "", "[REDACTED]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, llmhttp.RedactAPIKey(tt.key))
		})
	}
}
