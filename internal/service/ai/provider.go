package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

//go:generate mockgen -source=provider.go -destination=mock/mock_provider.go -package=mock

// Provider defines the interface for summarization providers.
type Provider interface {
	// Name returns the provider name.
	Name() string
	// Complete sends one system/user exchange and returns the model's text.
	Complete(ctx context.Context, systemPrompt, content string) (string, error)
}

// Config holds the configuration for a summarization provider.
type Config struct {
	Provider   string // openai, anthropic, compatible, gemini
	APIKey     string
	BaseURL    string // optional for openai/anthropic/gemini, required for compatible
	Model      string
	Title      string // X-Title header for compatible gateways
	Referer    string // HTTP-Referer header for compatible gateways
	HTTPClient *http.Client
}

// Generation parameters shared by every provider.
const (
	Temperature     = 0.2
	MaxOutputTokens = 2048
)

// ProviderType constants
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderCompatible = "compatible"
	ProviderGemini     = "gemini"
)

var (
	ErrInvalidProvider = errors.New("invalid provider")
	ErrMissingAPIKey   = errors.New("API key is required")
	ErrMissingBaseURL  = errors.New("base URL is required for compatible provider")
	ErrMissingModel    = errors.New("model is required")
)

// NewProvider creates a new provider based on the config.
func NewProvider(cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		return nil, ErrMissingModel
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.HTTPClient)
	case ProviderAnthropic:
		return NewAnthropicProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.HTTPClient)
	case ProviderCompatible:
		if cfg.BaseURL == "" {
			return nil, ErrMissingBaseURL
		}
		return NewCompatibleProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Title, cfg.Referer, cfg.HTTPClient)
	case ProviderGemini:
		return NewGeminiProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.HTTPClient)
	default:
		return nil, ErrInvalidProvider
	}
}

// errRequestFailed is reported for failures that carry no provider message,
// such as transport errors, so request URLs never reach clients.
const errRequestFailed = "summarization request failed"

// ErrorMessage extracts the provider's own error text when the SDK exposes one.
func ErrorMessage(err error) string {
	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		if openaiErr.Message != "" {
			return openaiErr.Message
		}
		return errRequestFailed
	}

	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		var body anthropic.ErrorResponse
		if json.Unmarshal([]byte(anthropicErr.RawJSON()), &body) == nil && body.Error.Message != "" {
			return body.Error.Message
		}
		return errRequestFailed
	}

	var geminiErr genai.APIError
	if errors.As(err, &geminiErr) && geminiErr.Message != "" && !json.Valid([]byte(geminiErr.Message)) {
		return geminiErr.Message
	}

	return errRequestFailed
}
