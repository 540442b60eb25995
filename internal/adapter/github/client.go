package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	llmhttp "github.com/diffsentry/diffsentry/internal/adapter/llm/http"
	"github.com/diffsentry/diffsentry/internal/domain"
)

const (
	defaultBaseURL        = "https://api.github.com"
	defaultTimeout        = 30 * time.Second
	defaultMaxRetries     = 3
	defaultInitialBackoff = 2 * time.Second

	// maxPaginationPages bounds list fetches. GitHub reports at most 3000
	// changed files per PR, which is 30 pages at 100 per page.
	maxPaginationPages = 30

	perPage = 100

	// maxResponseSize limits how much data we read from a response body.
	maxResponseSize = 10 * 1024 * 1024 // 10 MB
)

// pathSegmentRegex validates that owner/repo names only contain safe characters.
// GitHub allows alphanumeric, hyphens, underscores, and dots (but not leading dots).
var pathSegmentRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// pathTraversalPattern detects path traversal attempts.
var pathTraversalPattern = regexp.MustCompile(`\.\.`)

// Client is an HTTP client for the GitHub pull request APIs.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	retryConf  llmhttp.RetryConfig
}

// NewClient creates a new GitHub API client with the given token.
// The token should be a GitHub personal access token or GITHUB_TOKEN from Actions.
func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			// Disable redirects so a same-host pagination URL cannot
			// bounce the token to another endpoint.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		retryConf: llmhttp.RetryConfig{
			MaxRetries:     defaultMaxRetries,
			InitialBackoff: defaultInitialBackoff,
			MaxBackoff:     32 * time.Second,
			Multiplier:     2.0,
		},
	}
}

// SetBaseURL sets a custom base URL (for testing or GitHub Enterprise).
// Trailing slashes are trimmed to avoid double-slash request paths.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// SetTimeout sets the HTTP timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// SetRetryConfig replaces the retry/backoff settings.
func (c *Client) SetRetryConfig(conf llmhttp.RetryConfig) {
	c.retryConf = conf
}

// GetPullRequest fetches pull request metadata.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (domain.PullRequest, error) {
	if err := validateIdentifiers(owner, repo, number); err != nil {
		return domain.PullRequest{}, err
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s/pulls/%d",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), number)

	body, _, err := c.doRequest(ctx, "GET", apiURL, nil)
	if err != nil {
		return domain.PullRequest{}, err
	}

	var pr PullRequestResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return domain.PullRequest{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return domain.PullRequest{
		Number:  pr.Number,
		Title:   pr.Title,
		HeadSHA: pr.Head.SHA,
	}, nil
}

// ListCommits returns the SHAs of the pull request's commits in
// chronological order. The last entry is the head commit a review
// should anchor to.
func (c *Client) ListCommits(ctx context.Context, owner, repo string, number int) ([]string, error) {
	if err := validateIdentifiers(owner, repo, number); err != nil {
		return nil, err
	}

	firstURL := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/commits?per_page=%d",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), number, perPage)

	var shas []string
	err := c.forEachPage(ctx, firstURL, func(body []byte) error {
		var commits []CommitResponse
		if err := json.Unmarshal(body, &commits); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		for _, commit := range commits {
			shas = append(shas, commit.SHA)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return shas, nil
}

// ListFiles returns the pull request's changed files, including the
// per-file unified diff patches GitHub serves inline.
func (c *Client) ListFiles(ctx context.Context, owner, repo string, number int) ([]domain.ChangedFile, error) {
	if err := validateIdentifiers(owner, repo, number); err != nil {
		return nil, err
	}

	firstURL := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/files?per_page=%d",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), number, perPage)

	var files []domain.ChangedFile
	err := c.forEachPage(ctx, firstURL, func(body []byte) error {
		var page []FileResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		for _, f := range page {
			files = append(files, domain.ChangedFile{
				Filename: f.Filename,
				Status:   f.Status,
				Patch:    f.Patch,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// CreateReviewInput contains all data needed to create a PR review.
type CreateReviewInput struct {
	Owner      string
	Repo       string
	PullNumber int
	CommitSHA  string
	Event      ReviewEvent
	Body       string
	Comments   []domain.AcceptedComment
}

// CreateReview posts a pull request review with inline comments.
// Returns an error if the request fails after all retries.
func (c *Client) CreateReview(ctx context.Context, input CreateReviewInput) (*CreateReviewResponse, error) {
	if err := validateIdentifiers(input.Owner, input.Repo, input.PullNumber); err != nil {
		return nil, err
	}

	reqBody := CreateReviewRequest{
		CommitID: input.CommitSHA,
		Event:    input.Event,
		Body:     input.Body,
		Comments: BuildReviewComments(input.Comments),
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/reviews",
		c.baseURL, url.PathEscape(input.Owner), url.PathEscape(input.Repo), input.PullNumber)

	respBody, _, err := c.doRequest(ctx, "POST", apiURL, jsonData)
	if err != nil {
		return nil, err
	}

	var reviewResp CreateReviewResponse
	if err := json.Unmarshal(respBody, &reviewResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &reviewResp, nil
}

// forEachPage walks a paginated listing, invoking handle with every page body.
func (c *Client) forEachPage(ctx context.Context, firstURL string, handle func(body []byte) error) error {
	visited := make(map[string]bool) // Prevent infinite pagination loops
	nextURL := firstURL

	for page := 0; nextURL != ""; page++ {
		if page >= maxPaginationPages {
			return fmt.Errorf("pagination limit exceeded (%d pages)", maxPaginationPages)
		}
		if visited[nextURL] {
			return fmt.Errorf("pagination loop detected: URL already visited")
		}
		visited[nextURL] = true

		body, next, err := c.doRequest(ctx, "GET", nextURL, nil)
		if err != nil {
			return err
		}
		if err := handle(body); err != nil {
			return err
		}

		// Validate next URL before following (SSRF protection)
		if next != "" && !c.isValidPaginationURL(next) {
			return fmt.Errorf("unsafe pagination URL in Link header: host mismatch")
		}
		nextURL = next
	}

	return nil
}

type requestResult struct {
	body       []byte
	linkHeader string
}

// doRequest executes an HTTP request with retry logic and error handling.
// It returns the response body and the next page URL parsed from the
// Link header, if any.
func (c *Client) doRequest(ctx context.Context, method, apiURL string, payload []byte) ([]byte, string, error) {
	var result *requestResult

	err := llmhttp.RetryWithBackoff(ctx, func(ctx context.Context) error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, reqErr := http.NewRequestWithContext(ctx, method, apiURL, reader)
		if reqErr != nil {
			return &llmhttp.Error{
				Type:      llmhttp.ErrTypeUnknown,
				Message:   reqErr.Error(),
				Retryable: false,
				Provider:  providerName,
			}
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, callErr := c.httpClient.Do(req)
		if callErr != nil {
			// Could be timeout or network error
			return &llmhttp.Error{
				Type:      llmhttp.ErrTypeTimeout,
				Message:   callErr.Error(),
				Retryable: true,
				Provider:  providerName,
			}
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			bodyBytes, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
			if readErr != nil {
				return &llmhttp.Error{
					Type:       llmhttp.ErrTypeUnknown,
					Message:    fmt.Sprintf("HTTP %d (failed to read response: %v)", resp.StatusCode, readErr),
					StatusCode: resp.StatusCode,
					Retryable:  resp.StatusCode >= 500,
					Provider:   providerName,
				}
			}
			return MapHTTPError(resp.StatusCode, bodyBytes, resp.Header)
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if readErr != nil {
			return &llmhttp.Error{
				Type:      llmhttp.ErrTypeUnknown,
				Message:   fmt.Sprintf("failed to read response: %v", readErr),
				Retryable: true,
				Provider:  providerName,
			}
		}

		result = &requestResult{
			body:       body,
			linkHeader: resp.Header.Get("Link"),
		}
		return nil
	}, c.retryConf)

	if err != nil {
		return nil, "", err
	}
	if result == nil {
		return nil, "", fmt.Errorf("no response after retries")
	}

	return result.body, parseNextPageURL(result.linkHeader), nil
}

// isValidPaginationURL checks that a pagination URL is safe to follow.
// It must match the configured baseURL's host to prevent SSRF attacks.
func (c *Client) isValidPaginationURL(nextURL string) bool {
	next, err := url.Parse(nextURL)
	if err != nil {
		return false
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return false
	}

	// Require same scheme and host
	return next.Scheme == base.Scheme && next.Host == base.Host
}

// parseNextPageURL extracts the "next" URL from a GitHub Link header.
// Link header format: <url>; rel="next", <url>; rel="last"
func parseNextPageURL(linkHeader string) string {
	if linkHeader == "" {
		return ""
	}

	// Split by comma to get individual links
	links := strings.Split(linkHeader, ",")
	for _, link := range links {
		// Each link is: <url>; rel="type"
		parts := strings.Split(strings.TrimSpace(link), ";")
		if len(parts) < 2 {
			continue
		}

		// Check if this is the "next" link
		relPart := strings.TrimSpace(parts[1])
		if relPart == `rel="next"` {
			// Extract URL from <url>
			urlPart := strings.TrimSpace(parts[0])
			if strings.HasPrefix(urlPart, "<") && strings.HasSuffix(urlPart, ">") {
				return urlPart[1 : len(urlPart)-1]
			}
		}
	}

	return ""
}

// validateIdentifiers checks the repository coordinates used to build URLs.
func validateIdentifiers(owner, repo string, number int) error {
	if err := validatePathSegment(owner, "owner"); err != nil {
		return err
	}
	if err := validatePathSegment(repo, "repo"); err != nil {
		return err
	}
	if number <= 0 {
		return fmt.Errorf("invalid pull request number: %d", number)
	}
	return nil
}

// validatePathSegment validates that a path segment contains only safe characters.
// Uses whitelist validation to prevent path traversal and injection attacks.
func validatePathSegment(value, name string) error {
	if value == "" {
		return fmt.Errorf("invalid %s: must not be empty", name)
	}
	if pathTraversalPattern.MatchString(value) {
		return fmt.Errorf("invalid %s: must not contain '..'", name)
	}
	if !pathSegmentRegex.MatchString(value) {
		return fmt.Errorf("invalid %s: must contain only alphanumeric characters, hyphens, underscores, and dots (not leading)", name)
	}
	return nil
}
