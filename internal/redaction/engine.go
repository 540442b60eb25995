// Package redaction scrubs credential-shaped strings from patch text
// before it leaves the process for the review service.
package redaction

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
)

// Engine performs regex-based secret detection and replacement.
type Engine struct {
	patterns []*regexp.Regexp
}

// NewEngine creates an engine with the default secret patterns.
func NewEngine() *Engine {
	return &Engine{patterns: defaultPatterns()}
}

// Redact replaces secrets in input with stable placeholders. The same
// secret always maps to the same placeholder, so repeated occurrences stay
// correlated for the reviewer. Patterns apply in a fixed order, left to
// right, keeping the output identical across runs for identical input.
func (e *Engine) Redact(input string) string {
	if input == "" {
		return input
	}

	placeholders := make(map[string]string)
	result := input
	for _, pattern := range e.patterns {
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			placeholder, ok := placeholders[match]
			if !ok {
				placeholder = placeholderFor(match)
				placeholders[match] = placeholder
			}
			return placeholder
		})
	}
	return result
}

// placeholderFor derives a stable placeholder from the secret's hash.
func placeholderFor(secret string) string {
	hash := sha256.Sum256([]byte(secret))
	return fmt.Sprintf("<REDACTED:%s>", hex.EncodeToString(hash[:])[:8])
}

// defaultPatterns returns the secret shapes scrubbed from patches. The
// patterns are unanchored so the +/- markers on patch lines do not defeat
// them.
func defaultPatterns() []*regexp.Regexp {
	patterns := []string{
		// sk- style API keys (OpenAI, Anthropic, project-scoped variants)
		`sk-[a-zA-Z0-9_\-]{20,}`,
		// AWS access key IDs
		`AKIA[0-9A-Z]{16}`,
		// AWS secret keys assigned near an aws-prefixed name
		`aws.{0,20}?['\"][0-9a-zA-Z/+]{40}['\"]`,
		// GitHub tokens (PAT, OAuth, app, refresh)
		`gh[posr]_[a-zA-Z0-9]{20,}`,
		// Google API keys, the shape of the Gemini credential itself
		`AIza[0-9A-Za-z\-_]{35}`,
		// JWTs
		`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`,
		// PEM private keys, algorithm prefix optional (PKCS#8 has none)
		`-----BEGIN\s+(?:(?:RSA|EC|OPENSSH|DSA|ENCRYPTED)\s+)?PRIVATE\s+KEY-----[\s\S]*?-----END\s+(?:(?:RSA|EC|OPENSSH|DSA|ENCRYPTED)\s+)?PRIVATE\s+KEY-----`,
		// Slack tokens
		`xox[baprs]-[a-zA-Z0-9\-]{10,}`,
		// Bearer credentials in header material
		`Bearer\s+[a-zA-Z0-9_\-\.]+`,
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		compiled = append(compiled, regexp.MustCompile(pattern))
	}
	return compiled
}
