package resolver

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/tenwave/medassist/cache"
	"github.com/tenwave/medassist/common/httpx"
	"github.com/tenwave/medassist/common/logger"
	"github.com/tenwave/medassist/config"
	"github.com/tenwave/medassist/metrics"
	"github.com/tenwave/medassist/schema"
)

// Resolver maps a document's relative path to a presigned URL.
type Resolver interface {
	Resolve(ctx context.Context, relativePath string) (string, error)
}

// HTTPResolver asks the document service for a presigned URL.
type HTTPResolver struct {
	Endpoint      string
	APIKey        string
	ExpirySeconds int
	Client        *httpx.Client
}

// NewHTTPResolver builds the resolver from config. Returns nil when no
// endpoint is configured; callers treat a nil resolver as disabled.
func NewHTTPResolver(cfg *config.ResolverConfig, hc *httpx.Client) *HTTPResolver {
	if cfg == nil || cfg.Endpoint == "" {
		return nil
	}
	return &HTTPResolver{
		Endpoint:      cfg.Endpoint,
		APIKey:        cfg.APIKey,
		ExpirySeconds: cfg.ExpirySeconds,
		Client:        hc,
	}
}

type presignedResponse struct {
	URL string `json:"url"`
}

func (r *HTTPResolver) Resolve(ctx context.Context, relativePath string) (string, error) {
	if relativePath == "" {
		return "", fmt.Errorf("relative path is empty")
	}
	expiry := r.ExpirySeconds
	if expiry <= 0 {
		expiry = 3600
	}
	q := url.Values{}
	q.Set("path", relativePath)
	q.Set("expiry", fmt.Sprintf("%d", expiry))

	var headers map[string]string
	if r.APIKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + r.APIKey}
	}
	var resp presignedResponse
	if err := r.Client.GetJSON(ctx, r.Endpoint+"?"+q.Encode(), headers, &resp); err != nil {
		return "", fmt.Errorf("resolve %s failed, err: %w", relativePath, err)
	}
	if resp.URL == "" {
		return "", fmt.Errorf("resolve %s returned empty url", relativePath)
	}
	return resp.URL, nil
}

// CachedResolver wraps a Resolver with a TTL cache. The TTL should sit
// below the presigned expiry so cached URLs never outlive their grant.
type CachedResolver struct {
	inner Resolver
	c     cache.Cache
	ttl   time.Duration
}

// NewCachedResolver caches successful resolutions. Failures are not
// cached so transient errors retry on the next turn.
func NewCachedResolver(inner Resolver, maxEntries int, ttl time.Duration) *CachedResolver {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedResolver{inner: inner, c: cache.NewLRU(maxEntries, ttl), ttl: ttl}
}

func (r *CachedResolver) Resolve(ctx context.Context, relativePath string) (string, error) {
	if v, ok := r.c.Get(relativePath); ok {
		metrics.IncCache("resolver", "hit")
		return v.(string), nil
	}
	metrics.IncCache("resolver", "miss")
	u, err := r.inner.Resolve(ctx, relativePath)
	if err != nil {
		return "", err
	}
	r.c.Set(relativePath, u, r.ttl)
	return u, nil
}

// ResolveAll resolves every citation independently. A failure fills the
// document's Err field and never aborts the batch; with a nil resolver
// all documents carry just their path.
func ResolveAll(ctx context.Context, r Resolver, paths []string) []schema.Document {
	docs := make([]schema.Document, 0, len(paths))
	for _, p := range paths {
		doc := schema.Document{RelativePath: p}
		if r != nil {
			u, err := r.Resolve(ctx, p)
			if err != nil {
				logger.Warnf("resolver: %v", err)
				metrics.IncResolverFailure()
				doc.Err = err.Error()
			} else {
				doc.URL = u
			}
		}
		docs = append(docs, doc)
	}
	return docs
}
