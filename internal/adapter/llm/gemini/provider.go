package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diffsentry/diffsentry/internal/adapter/llm"
	llmhttp "github.com/diffsentry/diffsentry/internal/adapter/llm/http"
	"github.com/diffsentry/diffsentry/internal/usecase/review"
)

const providerName = "gemini"

// Client abstracts the Google Gemini HTTP client behaviour we need.
type Client interface {
	Call(ctx context.Context, req Request) (*APIResponse, error)
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// Request represents the outbound payload for the Gemini provider.
type Request struct {
	Model  string
	Prompt string
	Seed   int64
}

// Provider implements the usecase Provider port.
type Provider struct {
	model  string
	client Client
}

// NewProvider constructs a Provider for the supplied model.
func NewProvider(model string, client Client) *Provider {
	return &Provider{
		model:  model,
		client: client,
	}
}

// Review sends the prompt to Gemini and parses candidate comments from
// the response text.
func (p *Provider) Review(ctx context.Context, req review.ProviderRequest) (review.ProviderResult, error) {
	if p.client == nil {
		return review.ProviderResult{}, fmt.Errorf("gemini client missing")
	}

	response, err := p.client.Call(ctx, Request{
		Model:  p.model,
		Prompt: req.Prompt,
		Seed:   req.Seed,
	})
	if err != nil {
		return review.ProviderResult{}, p.describeModelError(ctx, err)
	}

	candidates, err := llmhttp.ParseCandidates(response.Text)
	if err != nil {
		return review.ProviderResult{}, err
	}

	return review.ProviderResult{
		ModelName:  p.model,
		Candidates: candidates,
		TokensIn:   response.Usage.TokensIn,
		TokensOut:  response.Usage.TokensOut,
	}, nil
}

// describeModelError appends the models available to the API key when the
// configured model does not exist. All other errors pass through unchanged.
func (p *Provider) describeModelError(ctx context.Context, err error) error {
	var httpErr *llmhttp.Error
	if !errors.As(err, &httpErr) || httpErr.Type != llmhttp.ErrTypeModelNotFound {
		return err
	}

	models, listErr := p.client.ListModels(ctx)
	if listErr != nil {
		return err
	}

	var names []string
	for _, m := range models {
		for _, method := range m.SupportedGenerationMethods {
			if method == "generateContent" {
				names = append(names, strings.TrimPrefix(m.Name, "models/"))
				break
			}
		}
	}
	if len(names) == 0 {
		return err
	}

	return fmt.Errorf("model %q not available (supported models: %s): %w",
		p.model, strings.Join(names, ", "), err)
}

// EstimateTokens returns an estimated token count using tiktoken.
// Gemini uses a different tokenizer, but cl100k_base is a reasonable approximation.
func (p *Provider) EstimateTokens(text string) int {
	return llm.EstimateTokens(text)
}
