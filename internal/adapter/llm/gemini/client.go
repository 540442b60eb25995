package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/diffsentry/diffsentry/internal/adapter/llm"
	llmhttp "github.com/diffsentry/diffsentry/internal/adapter/llm/http"
	"github.com/diffsentry/diffsentry/internal/config"
)

const (
	defaultBaseURL         = "https://generativelanguage.googleapis.com"
	defaultTimeout         = 120 * time.Second
	defaultMaxOutputTokens = 8192
	listModelsPageSize     = 100
)

// HTTPClient is an HTTP client for the Google Gemini API.
type HTTPClient struct {
	apiKey          string
	baseURL         string
	temperature     float64
	maxOutputTokens int
	client          *http.Client

	// Observability components
	logger  llmhttp.Logger
	metrics llmhttp.Metrics
}

// NewHTTPClient creates a new Gemini HTTP client.
func NewHTTPClient(apiKey string, cfg config.GeminiConfig) *HTTPClient {
	timeout := llmhttp.ParseTimeout(cfg.Timeout, defaultTimeout)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &HTTPClient{
		apiKey:          apiKey,
		baseURL:         baseURL,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		client:          &http.Client{Timeout: timeout},
	}
}

// SetBaseURL sets a custom base URL (for testing).
func (c *HTTPClient) SetBaseURL(url string) {
	c.baseURL = url
}

// SetTimeout sets the HTTP timeout.
func (c *HTTPClient) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// SetLogger sets the logger for this client.
func (c *HTTPClient) SetLogger(logger llmhttp.Logger) {
	c.logger = logger
}

// SetMetrics sets the metrics tracker for this client.
func (c *HTTPClient) SetMetrics(metrics llmhttp.Metrics) {
	c.metrics = metrics
}

// APIResponse represents the parsed response from the API.
type APIResponse struct {
	Text         string
	Usage        llm.UsageMetadata
	FinishReason string
}

// Call makes a single request to the Gemini generateContent API.
// Review requests are never retried; the caller treats a failed file as
// skipped and moves on to the next one.
func (c *HTTPClient) Call(ctx context.Context, req Request) (*APIResponse, error) {
	startTime := time.Now()

	// Log request (if logger configured)
	if c.logger != nil {
		c.logger.LogRequest(ctx, llmhttp.RequestLog{
			Provider:    providerName,
			Model:       req.Model,
			Timestamp:   startTime,
			PromptChars: len(req.Prompt),
			APIKey:      c.apiKey,
		})
	}

	// Record request metric
	if c.metrics != nil {
		c.metrics.RecordRequest(providerName, req.Model)
	}

	reqBody := GenerateContentRequest{
		Contents: []Content{
			{
				Parts: []Part{
					{Text: req.Prompt},
				},
				Role: "user",
			},
		},
		GenerationConfig: &GenerationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxOutputTokens,
			CandidateCount:  1,
			Seed:            req.Seed,
		},
		// Block only high severity so code-review content about security
		// flaws is not rejected outright.
		SafetySettings: []SafetySetting{
			{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_ONLY_HIGH"},
			{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_ONLY_HIGH"},
			{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_ONLY_HIGH"},
			{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_ONLY_HIGH"},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, req.Model, c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, c.observeError(ctx, req.Model, startTime, &llmhttp.Error{
			Type:      llmhttp.ErrTypeUnknown,
			Message:   llmhttp.RedactURLSecrets(err.Error()),
			Retryable: false,
			Provider:  providerName,
		})
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		// Transport errors carry the request URL, which embeds the key.
		return nil, c.observeError(ctx, req.Model, startTime, &llmhttp.Error{
			Type:      llmhttp.ErrTypeTimeout,
			Message:   llmhttp.RedactURLSecrets(err.Error()),
			Retryable: false,
			Provider:  providerName,
		})
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, c.observeError(ctx, req.Model, startTime, c.handleErrorResponse(resp.StatusCode, bodyBytes))
	}

	duration := time.Since(startTime)

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var genResp GenerateContentResponse
	if err := json.Unmarshal(bodyBytes, &genResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(genResp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	candidate := genResp.Candidates[0]

	// Check for content filtering
	if candidate.FinishReason == "SAFETY" {
		return nil, c.observeError(ctx, req.Model, startTime, &llmhttp.Error{
			Type:      llmhttp.ErrTypeContentFiltered,
			Message:   "Content blocked by safety filters",
			Retryable: false,
			Provider:  providerName,
		})
	}

	// Extract text from parts
	var textParts []string
	for _, part := range candidate.Content.Parts {
		textParts = append(textParts, part.Text)
	}

	response := &APIResponse{
		Text: strings.Join(textParts, ""),
		Usage: llm.UsageMetadata{
			TokensIn:  genResp.UsageMetadata.PromptTokenCount,
			TokensOut: genResp.UsageMetadata.CandidatesTokenCount,
		},
		FinishReason: candidate.FinishReason,
	}

	// Log response
	if c.logger != nil {
		c.logger.LogResponse(ctx, llmhttp.ResponseLog{
			Provider:     providerName,
			Model:        req.Model,
			Timestamp:    time.Now(),
			Duration:     duration,
			TokensIn:     response.Usage.TokensIn,
			TokensOut:    response.Usage.TokensOut,
			StatusCode:   resp.StatusCode,
			FinishReason: response.FinishReason,
		})
	}

	// Record metrics
	if c.metrics != nil {
		c.metrics.RecordDuration(providerName, req.Model, duration)
		c.metrics.RecordTokens(providerName, req.Model, response.Usage.TokensIn, response.Usage.TokensOut)
	}

	return response, nil
}

// ListModels fetches the models available to the configured API key.
// Used to build a hint when the configured model does not exist.
func (c *HTTPClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	url := fmt.Sprintf("%s/v1beta/models?key=%s&pageSize=%d", c.baseURL, c.apiKey, listModelsPageSize)

	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &llmhttp.Error{
			Type:      llmhttp.ErrTypeTimeout,
			Message:   llmhttp.RedactURLSecrets(err.Error()),
			Retryable: false,
			Provider:  providerName,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, c.handleErrorResponse(resp.StatusCode, bodyBytes)
	}

	var listResp ListModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return listResp.Models, nil
}

// observeError reports a typed error to the logger and metrics before
// returning it.
func (c *HTTPClient) observeError(ctx context.Context, model string, startTime time.Time, err error) error {
	var httpErr *llmhttp.Error
	if !errors.As(err, &httpErr) {
		return err
	}

	if c.logger != nil {
		c.logger.LogError(ctx, llmhttp.ErrorLog{
			Provider:   providerName,
			Model:      model,
			Timestamp:  time.Now(),
			Duration:   time.Since(startTime),
			Error:      err,
			ErrorType:  httpErr.Type,
			StatusCode: httpErr.StatusCode,
			Retryable:  httpErr.Retryable,
		})
	}
	if c.metrics != nil {
		c.metrics.RecordError(providerName, model, httpErr.Type)
	}

	return err
}

// handleErrorResponse maps HTTP status codes to typed errors.
func (c *HTTPClient) handleErrorResponse(statusCode int, body []byte) error {
	// Try to parse Gemini error format
	var errResp ErrorResponse
	message := fmt.Sprintf("HTTP %d", statusCode)

	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	// Map status codes to error types
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &llmhttp.Error{
			Type:       llmhttp.ErrTypeAuthentication,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Provider:   providerName,
		}
	case http.StatusTooManyRequests:
		return &llmhttp.Error{
			Type:       llmhttp.ErrTypeRateLimit,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  true,
			Provider:   providerName,
		}
	case http.StatusBadRequest:
		return &llmhttp.Error{
			Type:       llmhttp.ErrTypeInvalidRequest,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Provider:   providerName,
		}
	case http.StatusNotFound:
		return &llmhttp.Error{
			Type:       llmhttp.ErrTypeModelNotFound,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Provider:   providerName,
		}
	case http.StatusServiceUnavailable, http.StatusInternalServerError:
		return &llmhttp.Error{
			Type:       llmhttp.ErrTypeServiceUnavailable,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  true,
			Provider:   providerName,
		}
	default:
		return &llmhttp.Error{
			Type:       llmhttp.ErrTypeUnknown,
			Message:    message,
			StatusCode: statusCode,
			Retryable:  false,
			Provider:   providerName,
		}
	}
}
