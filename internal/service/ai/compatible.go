package ai

import (
	"context"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// CompatibleProvider implements Provider for OpenAI-compatible APIs.
// This supports services like OpenRouter, Azure OpenAI, Ollama, etc.
type CompatibleProvider struct {
	client openai.Client
	model  string
}

// NewCompatibleProvider creates a new OpenAI-compatible provider.
// title and referer are forwarded as the X-Title and HTTP-Referer headers OpenRouter uses for attribution.
func NewCompatibleProvider(apiKey, baseURL, model, title, referer string, httpClient *http.Client) (*CompatibleProvider, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if referer != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", referer))
	}
	if title != "" {
		opts = append(opts, option.WithHeader("X-Title", title))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &CompatibleProvider{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

// Name returns the provider name.
func (p *CompatibleProvider) Name() string {
	return ProviderCompatible
}

// Complete generates a response without streaming.
func (p *CompatibleProvider) Complete(ctx context.Context, systemPrompt, content string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    chatMessages(systemPrompt, content),
		Temperature: openai.Float(Temperature),
		MaxTokens:   openai.Int(MaxOutputTokens),
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	return firstChoice(resp), nil
}
