package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/tenwave/medassist/config"
)

// Provider generates completions for prompts.
type Provider interface {
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
	GetProviderType() string
}

// NewProvider creates a completion provider from config.
func NewProvider(cfg *config.LLMConfig) (Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("llm config is nil")
	}
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

type openAIProvider struct {
	client openai.Client
	cfg    config.LLMConfig
}

func newOpenAIProvider(cfg *config.LLMConfig) *openAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &openAIProvider{client: openai.NewClient(opts...), cfg: *cfg}
}

func (p *openAIProvider) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if p.cfg.Temperature > 0 {
		params.Temperature = openai.Float(p.cfg.Temperature)
	}
	if p.cfg.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.cfg.MaxTokens))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion failed, err: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *openAIProvider) GetProviderType() string {
	return "openai"
}
