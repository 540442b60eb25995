package gemini_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffsentry/diffsentry/internal/adapter/llm/gemini"
	llmhttp "github.com/diffsentry/diffsentry/internal/adapter/llm/http"
	"github.com/diffsentry/diffsentry/internal/config"
)

func testGeminiConfig() config.GeminiConfig {
	return config.GeminiConfig{
		Timeout:         "5s",
		Temperature:     0.2,
		MaxOutputTokens: 2048,
	}
}

func successResponse(text string) gemini.GenerateContentResponse {
	return gemini.GenerateContentResponse{
		Candidates: []gemini.Candidate{
			{
				Content: gemini.Content{
					Parts: []gemini.Part{{Text: text}},
					Role:  "model",
				},
				FinishReason: "STOP",
			},
		},
		UsageMetadata: gemini.UsageMetadata{
			PromptTokenCount:     100,
			CandidatesTokenCount: 200,
			TotalTokenCount:      300,
		},
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := gemini.NewHTTPClient("test-api-key", testGeminiConfig())

	assert.NotNil(t, client)
}

func TestHTTPClient_Call_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request
		assert.Equal(t, "POST", r.Method)
		assert.True(t, strings.Contains(r.URL.Path, "/v1beta/models/gemini-pro-latest:generateContent"))
		assert.Equal(t, "test-api-key", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		// Parse request body
		var req gemini.GenerateContentRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)

		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 1)
		assert.Equal(t, "review this diff please", req.Contents[0].Parts[0].Text)

		require.NotNil(t, req.GenerationConfig)
		assert.Equal(t, 0.2, req.GenerationConfig.Temperature)
		assert.Equal(t, 2048, req.GenerationConfig.MaxOutputTokens)
		assert.Equal(t, 1, req.GenerationConfig.CandidateCount)
		assert.Equal(t, int64(12345), req.GenerationConfig.Seed)

		require.Len(t, req.SafetySettings, 4)
		for _, setting := range req.SafetySettings {
			assert.Equal(t, "BLOCK_ONLY_HIGH", setting.Threshold)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(successResponse("test response from gemini"))
	}))
	defer server.Close()

	client := gemini.NewHTTPClient("test-api-key", testGeminiConfig())
	client.SetBaseURL(server.URL)

	resp, err := client.Call(context.Background(), gemini.Request{
		Model:  "gemini-pro-latest",
		Prompt: "review this diff please",
		Seed:   12345,
	})

	require.NoError(t, err)
	assert.Equal(t, "test response from gemini", resp.Text)
	assert.Equal(t, 100, resp.Usage.TokensIn)
	assert.Equal(t, 200, resp.Usage.TokensOut)
	assert.Equal(t, "STOP", resp.FinishReason)
}

func TestHTTPClient_Call_SingleAttempt(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := gemini.NewHTTPClient("test-api-key", testGeminiConfig())
	client.SetBaseURL(server.URL)

	_, err := client.Call(context.Background(), gemini.Request{Model: "gemini-pro-latest", Prompt: "hi"})

	require.Error(t, err)
	assert.Equal(t, int32(1), requests.Load())
}

func TestHTTPClient_Call_TemperatureZeroSerialized(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(successResponse("ok"))
	}))
	defer server.Close()

	cfg := testGeminiConfig()
	cfg.Temperature = 0.0
	client := gemini.NewHTTPClient("test-api-key", cfg)
	client.SetBaseURL(server.URL)

	_, err := client.Call(context.Background(), gemini.Request{Model: "gemini-pro-latest", Prompt: "hi"})

	require.NoError(t, err)
	assert.Contains(t, string(body), `"temperature":0`)
}

func TestHTTPClient_Call_SeedOmittedWhenZero(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(successResponse("ok"))
	}))
	defer server.Close()

	client := gemini.NewHTTPClient("test-api-key", testGeminiConfig())
	client.SetBaseURL(server.URL)

	_, err := client.Call(context.Background(), gemini.Request{Model: "gemini-pro-latest", Prompt: "hi"})

	require.NoError(t, err)
	assert.NotContains(t, string(body), `"seed"`)
}

func TestHTTPClient_Call_AuthenticationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(gemini.ErrorResponse{
			Error: gemini.ErrorDetail{Code: 401, Message: "API key not valid", Status: "UNAUTHENTICATED"},
		})
	}))
	defer server.Close()

	client := gemini.NewHTTPClient("bad-key", testGeminiConfig())
	client.SetBaseURL(server.URL)

	_, err := client.Call(context.Background(), gemini.Request{Model: "gemini-pro-latest", Prompt: "hi"})

	require.Error(t, err)
	var httpErr *llmhttp.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, llmhttp.ErrTypeAuthentication, httpErr.Type)
	assert.Equal(t, "API key not valid", httpErr.Message)
	assert.False(t, httpErr.Retryable)
}

func TestHTTPClient_Call_RateLimitError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(gemini.ErrorResponse{
			Error: gemini.ErrorDetail{Code: 429, Message: "Resource exhausted", Status: "RESOURCE_EXHAUSTED"},
		})
	}))
	defer server.Close()

	client := gemini.NewHTTPClient("test-api-key", testGeminiConfig())
	client.SetBaseURL(server.URL)

	_, err := client.Call(context.Background(), gemini.Request{Model: "gemini-pro-latest", Prompt: "hi"})

	require.Error(t, err)
	var httpErr *llmhttp.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, llmhttp.ErrTypeRateLimit, httpErr.Type)
	assert.True(t, httpErr.Retryable)
}

func TestHTTPClient_Call_ModelNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(gemini.ErrorResponse{
			Error: gemini.ErrorDetail{Code: 404, Message: "models/gemini-nonexistent is not found", Status: "NOT_FOUND"},
		})
	}))
	defer server.Close()

	client := gemini.NewHTTPClient("test-api-key", testGeminiConfig())
	client.SetBaseURL(server.URL)

	_, err := client.Call(context.Background(), gemini.Request{Model: "gemini-nonexistent", Prompt: "hi"})

	require.Error(t, err)
	var httpErr *llmhttp.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, llmhttp.ErrTypeModelNotFound, httpErr.Type)
	assert.False(t, httpErr.Retryable)
}

func TestHTTPClient_Call_InvalidRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(gemini.ErrorResponse{
			Error: gemini.ErrorDetail{Code: 400, Message: "Invalid request payload", Status: "INVALID_ARGUMENT"},
		})
	}))
	defer server.Close()

	client := gemini.NewHTTPClient("test-api-key", testGeminiConfig())
	client.SetBaseURL(server.URL)

	_, err := client.Call(context.Background(), gemini.Request{Model: "gemini-pro-latest", Prompt: "hi"})

	require.Error(t, err)
	var httpErr *llmhttp.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, llmhttp.ErrTypeInvalidRequest, httpErr.Type)
	assert.Equal(t, "Invalid request payload", httpErr.Message)
}

func TestHTTPClient_Call_ContentFiltered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(gemini.GenerateContentResponse{
			Candidates: []gemini.Candidate{
				{FinishReason: "SAFETY"},
			},
		})
	}))
	defer server.Close()

	client := gemini.NewHTTPClient("test-api-key", testGeminiConfig())
	client.SetBaseURL(server.URL)

	_, err := client.Call(context.Background(), gemini.Request{Model: "gemini-pro-latest", Prompt: "hi"})

	require.Error(t, err)
	var httpErr *llmhttp.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, llmhttp.ErrTypeContentFiltered, httpErr.Type)
}

func TestHTTPClient_Call_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(gemini.GenerateContentResponse{})
	}))
	defer server.Close()

	client := gemini.NewHTTPClient("test-api-key", testGeminiConfig())
	client.SetBaseURL(server.URL)

	_, err := client.Call(context.Background(), gemini.Request{Model: "gemini-pro-latest", Prompt: "hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestHTTPClient_Call_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	client := gemini.NewHTTPClient("test-api-key", testGeminiConfig())
	client.SetBaseURL(server.URL)

	_, err := client.Call(context.Background(), gemini.Request{Model: "gemini-pro-latest", Prompt: "hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestHTTPClient_Call_MultiplePartsConcatenation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(gemini.GenerateContentResponse{
			Candidates: []gemini.Candidate{
				{
					Content: gemini.Content{
						Parts: []gemini.Part{{Text: "[{\"line\": 1,"}, {Text: " \"message\": \"split\"}]"}},
					},
					FinishReason: "STOP",
				},
			},
		})
	}))
	defer server.Close()

	client := gemini.NewHTTPClient("test-api-key", testGeminiConfig())
	client.SetBaseURL(server.URL)

	resp, err := client.Call(context.Background(), gemini.Request{Model: "gemini-pro-latest", Prompt: "hi"})

	require.NoError(t, err)
	assert.Equal(t, `[{"line": 1, "message": "split"}]`, resp.Text)
}

func TestHTTPClient_Call_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(successResponse("ok"))
	}))
	defer server.Close()

	client := gemini.NewHTTPClient("test-api-key", testGeminiConfig())
	client.SetBaseURL(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Call(ctx, gemini.Request{Model: "gemini-pro-latest", Prompt: "hi"})

	require.Error(t, err)
}

func TestHTTPClient_ListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1beta/models"))
		assert.Equal(t, "test-api-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(gemini.ListModelsResponse{
			Models: []gemini.ModelInfo{
				{Name: "models/gemini-pro-latest", SupportedGenerationMethods: []string{"generateContent"}},
				{Name: "models/embedding-001", SupportedGenerationMethods: []string{"embedContent"}},
			},
		})
	}))
	defer server.Close()

	client := gemini.NewHTTPClient("test-api-key", testGeminiConfig())
	client.SetBaseURL(server.URL)

	models, err := client.ListModels(context.Background())

	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "models/gemini-pro-latest", models[0].Name)
}

func TestHTTPClient_ListModels_AuthenticationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(gemini.ErrorResponse{
			Error: gemini.ErrorDetail{Code: 401, Message: "API key not valid", Status: "UNAUTHENTICATED"},
		})
	}))
	defer server.Close()

	client := gemini.NewHTTPClient("bad-key", testGeminiConfig())
	client.SetBaseURL(server.URL)

	_, err := client.ListModels(context.Background())

	require.Error(t, err)
	var httpErr *llmhttp.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, llmhttp.ErrTypeAuthentication, httpErr.Type)
}
