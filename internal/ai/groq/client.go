// Package groq implements the Groq content generator. Groq serves an
// OpenAI-compatible chat-completions API, so the client is the OpenAI SDK
// pointed at Groq's base URL. Preferred provider: fast, generous limits.
package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/repofit/repofit/internal/apperr"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama-3.3-70b-versatile"

	maxCompletionTokens = 500
	temperature         = 0.3
)

// Generator wraps the OpenAI client configured against the Groq endpoint.
type Generator struct {
	client    openai.Client
	modelName string
}

// NewGenerator creates a Generator for the Groq backend. An empty baseURL
// selects the public Groq endpoint; tests point it at a local server.
func NewGenerator(apiKey, model, baseURL string) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("groq api key is required")
	}

	if baseURL = strings.TrimSpace(baseURL); baseURL == "" {
		baseURL = defaultBaseURL
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	// The SDK retries 429s on its own; backoff is handled by the caller.
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)

	return &Generator{client: client, modelName: model}, nil
}

// GenerateContent sends the prompt as a single user message and returns the
// completion text. Throttled calls surface as apperr.ErrRateLimit.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil {
		return "", errors.New("groq generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	params := openai.ChatCompletionNewParams{
		Model: g.modelName,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(maxCompletionTokens),
		Temperature:         openai.Float(temperature),
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return "", apperr.Wrap(apperr.ErrRateLimit, err)
		}
		return "", fmt.Errorf("groq chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("groq api returned no choices")
	}

	output := strings.TrimSpace(resp.Choices[0].Message.Content)
	if output == "" {
		return "", errors.New("groq api returned empty response")
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
