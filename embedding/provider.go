package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/tenwave/medassist/config"
)

// Provider turns text into embedding vectors.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// NewProvider creates an embedding provider from config.
func NewProvider(cfg *config.EmbeddingConfig) (Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("embedding config is nil")
	}
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

type openAIProvider struct {
	client openai.Client
	cfg    config.EmbeddingConfig
}

func newOpenAIProvider(cfg *config.EmbeddingConfig) *openAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &openAIProvider{client: openai.NewClient(opts...), cfg: *cfg}
}

func (p *openAIProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(p.cfg.Model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	}
	if p.cfg.Dimensions > 0 {
		params.Dimensions = openai.Int(int64(p.cfg.Dimensions))
	}

	resp, err := p.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("embedding failed, err: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding returned %d vectors for %d inputs", len(resp.Data), len(texts))
	}
	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (p *openAIProvider) Dimensions() int {
	return p.cfg.Dimensions
}
