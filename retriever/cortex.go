package retriever

import (
	"context"
	"fmt"

	"github.com/tenwave/medassist/common/httpx"
	"github.com/tenwave/medassist/config"
	"github.com/tenwave/medassist/schema"
)

// CortexRetriever queries a Cortex-style search service over HTTP.
// The service ranks pre-chunked documents and returns passages with
// their source path and category.
type CortexRetriever struct {
	Endpoint string
	APIKey   string
	Client   *httpx.Client
	MaxLimit int
}

func (r *CortexRetriever) Type() string { return "cortex" }

var searchColumns = []string{"chunk", "relative_path", "category"}

type cortexSearchRequest struct {
	Query   string                 `json:"query"`
	Columns []string               `json:"columns"`
	Filter  map[string]interface{} `json:"filter,omitempty"`
	Limit   int                    `json:"limit"`
}

type cortexResult struct {
	Chunk        string  `json:"chunk"`
	RelativePath string  `json:"relative_path"`
	Category     string  `json:"category"`
	Score        float64 `json:"score"`
}

type cortexSearchResponse struct {
	Results []cortexResult `json:"results"`
}

func (r *CortexRetriever) Search(ctx context.Context, query string, opts schema.SearchOptions) ([]schema.SearchResult, error) {
	if r.Endpoint == "" {
		return nil, fmt.Errorf("cortex endpoint not configured")
	}
	if r.Client == nil {
		return nil, fmt.Errorf("cortex http client not configured")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	if r.MaxLimit > 0 && r.MaxLimit < limit {
		limit = r.MaxLimit
	}

	req := cortexSearchRequest{
		Query:   query,
		Columns: searchColumns,
		Limit:   limit,
	}
	if opts.Category != "" && opts.Category != config.CategoryAll {
		req.Filter = map[string]interface{}{
			"@eq": map[string]interface{}{"category": opts.Category},
		}
	}

	var headers map[string]string
	if r.APIKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + r.APIKey}
	}
	var resp cortexSearchResponse
	if err := r.Client.PostJSON(ctx, r.Endpoint, headers, req, &resp); err != nil {
		return nil, fmt.Errorf("cortex search failed, err: %w", err)
	}

	out := make([]schema.SearchResult, 0, len(resp.Results))
	for _, res := range resp.Results {
		out = append(out, schema.SearchResult{
			Chunk:        res.Chunk,
			RelativePath: res.RelativePath,
			Category:     res.Category,
			Score:        res.Score,
		})
	}
	return out, nil
}
