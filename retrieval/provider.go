package retrieval

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/tenwave/medassist/cache"
	"github.com/tenwave/medassist/common/logger"
	"github.com/tenwave/medassist/config"
	"github.com/tenwave/medassist/metrics"
	"github.com/tenwave/medassist/retriever"
	"github.com/tenwave/medassist/schema"
)

// Provider executes one retrieval call and shapes the outcome for
// prompt assembly.
type Provider interface {
	Search(ctx context.Context, query, category string, limit int) (*schema.PromptContext, error)
}

type defaultProvider struct {
	ret      retriever.Retriever
	l1       cache.Cache
	cacheTTL time.Duration
}

// NewProvider wraps a retriever with result caching and citation
// bookkeeping. Pass a nil cache to disable the L1 layer.
func NewProvider(ret retriever.Retriever, cfg *config.CacheConfig) Provider {
	p := &defaultProvider{ret: ret}
	if cfg != nil && cfg.L1 != nil && cfg.L1.Enable {
		ttl := time.Duration(cfg.L1.TTLSeconds) * time.Second
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		p.l1 = cache.NewLRU(cfg.L1.MaxEntries, ttl)
		p.cacheTTL = ttl
	}
	return p
}

func (p *defaultProvider) Search(ctx context.Context, query, category string, limit int) (*schema.PromptContext, error) {
	if limit <= 0 {
		limit = 10
	}
	if category == "" {
		category = config.CategoryAll
	}

	key := cacheKey(query, category, limit)
	if p.l1 != nil {
		if v, ok := p.l1.Get(key); ok {
			metrics.IncCache("retrieval_l1", "hit")
			return clonePromptContext(v.(*schema.PromptContext)), nil
		}
		metrics.IncCache("retrieval_l1", "miss")
	}

	start := time.Now()
	results, err := p.ret.Search(ctx, query, schema.SearchOptions{Category: category, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("retrieval failed, err: %w", err)
	}
	metrics.ObserveRetriever(p.ret.Type(), start, len(results))
	logger.Debugf("retrieval: %s returned %d passages for %q (category=%s)",
		p.ret.Type(), len(results), query, category)

	pc := &schema.PromptContext{
		Results:   results,
		Citations: citationSet(results),
	}
	if p.l1 != nil {
		p.l1.Set(key, clonePromptContext(pc), p.cacheTTL)
	}
	return pc, nil
}

// citationSet returns the sorted distinct relative paths of results.
// Order of the input does not matter.
func citationSet(results []schema.SearchResult) []string {
	seen := make(map[string]struct{}, len(results))
	var out []string
	for _, r := range results {
		if r.RelativePath == "" {
			continue
		}
		if _, ok := seen[r.RelativePath]; ok {
			continue
		}
		seen[r.RelativePath] = struct{}{}
		out = append(out, r.RelativePath)
	}
	sort.Strings(out)
	return out
}

func cacheKey(query, category string, limit int) string {
	h := sha1.Sum([]byte(fmt.Sprintf("%s|%s|%d", query, category, limit)))
	return hex.EncodeToString(h[:])
}

// clonePromptContext guards cached entries against caller mutation.
func clonePromptContext(pc *schema.PromptContext) *schema.PromptContext {
	out := &schema.PromptContext{
		Results:   make([]schema.SearchResult, len(pc.Results)),
		Citations: make([]string, len(pc.Citations)),
	}
	copy(out.Results, pc.Results)
	copy(out.Citations, pc.Citations)
	return out
}
