package http

import (
	"fmt"
	"regexp"
)

const (
	// MaxLoggedResponseLength caps how much response text reaches the
	// logs. Patches and model output routinely contain source code that
	// does not belong in log aggregators.
	MaxLoggedResponseLength = 200
)

// TruncateForLogging shortens a response string for log output, keeping
// the first MaxLoggedResponseLength characters plus a truncation marker.
func TruncateForLogging(response string) string {
	if len(response) <= MaxLoggedResponseLength {
		return response
	}
	return response[:MaxLoggedResponseLength] + fmt.Sprintf("... [truncated, total length=%d bytes]", len(response))
}

// secretQueryParams are the query-parameter names whose values are
// scrubbed from URLs before they appear in errors or logs. The Gemini
// endpoint carries its API key as ?key=.
var secretQueryParams = []struct {
	pattern *regexp.Regexp
	name    string
}{
	{regexp.MustCompile(`key=([^&"\s]+)`), "key"},
	{regexp.MustCompile(`apiKey=([^&"\s]+)`), "apiKey"},
	{regexp.MustCompile(`api_key=([^&"\s]+)`), "api_key"},
	{regexp.MustCompile(`token=([^&"\s]+)`), "token"},
	{regexp.MustCompile(`access_token=([^&"\s]+)`), "access_token"},
}

// RedactURLSecrets replaces secret query-parameter values in text with a
// redaction marker. Error messages that embed request URLs pass through
// here before logging.
//
//	input:  "https://api.example.com/endpoint?key=secret123&foo=bar"
//	output: "https://api.example.com/endpoint?key=[REDACTED]&foo=bar"
func RedactURLSecrets(text string) string {
	if text == "" {
		return text
	}

	result := text
	for _, p := range secretQueryParams {
		result = p.pattern.ReplaceAllString(result, p.name+"=[REDACTED]")
	}
	return result
}

// RedactAPIKey keeps only the last 4 characters of an API key so log
// lines can still distinguish which credential was used.
func RedactAPIKey(key string) string {
	if len(key) <= 4 {
		return "[REDACTED]"
	}
	return fmt.Sprintf("[REDACTED-%s]", key[len(key)-4:])
}
