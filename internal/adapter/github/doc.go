// Package github provides the HTTP client for the GitHub pull request
// APIs this tool consumes.
//
// The adapter fetches PR metadata, the commit list, and the changed
// files, and submits a single review with inline comments anchored to
// new-side line numbers. All requests carry retry/backoff behaviour and
// map GitHub error responses to the shared typed errors, so callers can
// distinguish auth failures from rate limits from transient outages.
package github
