package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/tenwave/medassist/common/httpx"
	"github.com/tenwave/medassist/config"
	"github.com/tenwave/medassist/embedding"
	"github.com/tenwave/medassist/schema"
)

// Retriever is one retrieval backend over the document corpus.
type Retriever interface {
	Type() string
	Search(ctx context.Context, query string, opts schema.SearchOptions) ([]schema.SearchResult, error)
}

// New builds the retriever selected by config.
func New(cfg *config.Config, hc *httpx.Client) (Retriever, error) {
	switch strings.ToLower(cfg.Search.Provider) {
	case "cortex":
		return &CortexRetriever{
			Endpoint: cfg.Search.Endpoint,
			APIKey:   cfg.Search.APIKey,
			Client:   hc,
		}, nil
	case "milvus":
		embedder, err := embedding.NewProvider(&cfg.Embedding)
		if err != nil {
			return nil, fmt.Errorf("create embedding provider failed, err: %w", err)
		}
		return NewMilvusRetriever(&cfg.VectorDB, embedder)
	default:
		return nil, fmt.Errorf("unsupported search provider: %s", cfg.Search.Provider)
	}
}
