package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the assistant.
type Config struct {
	Chat      ChatConfig      `json:"chat" yaml:"chat"`
	LLM       LLMConfig       `json:"llm" yaml:"llm"`
	Embedding EmbeddingConfig `json:"embedding,omitempty" yaml:"embedding,omitempty"`
	Search    SearchConfig    `json:"search" yaml:"search"`
	VectorDB  VectorDBConfig  `json:"vectordb,omitempty" yaml:"vectordb,omitempty"`
	Resolver  ResolverConfig  `json:"resolver,omitempty" yaml:"resolver,omitempty"`
	Splitter  SplitterConfig  `json:"splitter,omitempty" yaml:"splitter,omitempty"`
	Session   SessionConfig   `json:"session,omitempty" yaml:"session,omitempty"`
	// Cache controls L1 caching of retrieval results and resolved URLs.
	Cache *CacheConfig `json:"cache,omitempty" yaml:"cache,omitempty"`
	// HTTP holds global defaults for outbound calls (search service, resolver).
	HTTP   *HTTPClientConfig `json:"http,omitempty" yaml:"http,omitempty"`
	Server ServerConfig      `json:"server,omitempty" yaml:"server,omitempty"`
}

// ChatConfig tunes the conversational turn loop.
type ChatConfig struct {
	// SlideWindow is the number of trailing transcript messages folded into
	// query reformulation. Zero or negative disables history.
	SlideWindow int `json:"slide_window,omitempty" yaml:"slide_window,omitempty"`
	// NumChunks is the default retrieval result limit.
	NumChunks int `json:"num_chunks,omitempty" yaml:"num_chunks,omitempty"`
	// DefaultCategory filters retrieval; the literal "ALL" disables filtering.
	DefaultCategory string `json:"default_category,omitempty" yaml:"default_category,omitempty"`
	// InitialSuggestions seed a fresh session before the first turn.
	InitialSuggestions []string `json:"initial_suggestions,omitempty" yaml:"initial_suggestions,omitempty"`
	// MaxSuggestions caps extracted follow-up questions per turn.
	MaxSuggestions int `json:"max_suggestions,omitempty" yaml:"max_suggestions,omitempty"`
}

// LLMConfig defines configuration for the completion model
type LLMConfig struct {
	Provider    string  `json:"provider" yaml:"provider"` // Available options: openai
	APIKey      string  `json:"api_key,omitempty" yaml:"api_key"`
	BaseURL     string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// EmbeddingConfig defines configuration for embedding models
type EmbeddingConfig struct {
	Provider   string `json:"provider" yaml:"provider"` // Available options: openai
	APIKey     string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL    string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
	Dimensions int    `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
}

// SearchConfig selects and configures the retrieval backend.
type SearchConfig struct {
	Provider string `json:"provider" yaml:"provider"` // Available options: cortex, milvus
	// Endpoint is the search service URL for the cortex provider.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	APIKey   string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// VectorDBConfig configures the milvus backend.
type VectorDBConfig struct {
	Host       string `json:"host,omitempty" yaml:"host,omitempty"`
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`
	Database   string `json:"database,omitempty" yaml:"database,omitempty"`
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`
	Username   string `json:"username,omitempty" yaml:"username,omitempty"`
	Password   string `json:"password,omitempty" yaml:"password,omitempty"`
	// MetricType for vector search, e.g., IP or L2.
	MetricType string `json:"metric_type,omitempty" yaml:"metric_type,omitempty"`
}

// ResolverConfig configures presigned document URL resolution.
// An empty endpoint disables resolution; citations are then returned
// without URLs.
type ResolverConfig struct {
	Endpoint      string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	APIKey        string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	ExpirySeconds int    `json:"expiry_seconds,omitempty" yaml:"expiry_seconds,omitempty"`
}

// SplitterConfig defines document splitter configuration for ingest.
type SplitterConfig struct {
	ChunkSize    int    `json:"chunk_size,omitempty" yaml:"chunk_size,omitempty"`
	ChunkOverlap int    `json:"chunk_overlap,omitempty" yaml:"chunk_overlap,omitempty"`
	Encoding     string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
}

// SessionConfig controls session retention.
type SessionConfig struct {
	TTLSeconds int `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Addr                   string `json:"addr,omitempty" yaml:"addr,omitempty"`
	ShutdownTimeoutSeconds int    `json:"shutdown_timeout_seconds,omitempty" yaml:"shutdown_timeout_seconds,omitempty"`
}

type CacheConfig struct {
	L1 *CacheLayerConfig `json:"l1,omitempty" yaml:"l1,omitempty"`
}

type CacheLayerConfig struct {
	Enable     bool `json:"enable,omitempty" yaml:"enable,omitempty"`
	MaxEntries int  `json:"max_entries,omitempty" yaml:"max_entries,omitempty"`
	TTLSeconds int  `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
}

// HTTPClientConfig defines common options for outbound HTTP calls.
type HTTPClientConfig struct {
	TimeoutMs              int      `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	Retry                  int      `json:"retry,omitempty" yaml:"retry,omitempty"`
	BackoffMinMs           int      `json:"backoff_min_ms,omitempty" yaml:"backoff_min_ms,omitempty"`
	BackoffMaxMs           int      `json:"backoff_max_ms,omitempty" yaml:"backoff_max_ms,omitempty"`
	HostAllowlist          []string `json:"host_allowlist,omitempty" yaml:"host_allowlist,omitempty"`
	MaxConsecutiveFailures int      `json:"max_consecutive_failures,omitempty" yaml:"max_consecutive_failures,omitempty"`
	CircuitOpenSeconds     int      `json:"circuit_open_seconds,omitempty" yaml:"circuit_open_seconds,omitempty"`
	MaxBodyBytes           int64    `json:"max_body_bytes,omitempty" yaml:"max_body_bytes,omitempty"`
}

// CategoryAll is the sentinel category that disables retrieval filtering.
const CategoryAll = "ALL"

// DefaultInitialSuggestions seed new sessions before the first turn.
var DefaultInitialSuggestions = []string{
	"What patient profile and admission details are on record?",
	"What was the final diagnosis for the patient?",
	"Which treatment and medication protocols were followed?",
	"What does the discharge summary and follow-up plan say?",
}

// Load reads a YAML config file, applies defaults and environment
// fallbacks, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config failed, err: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config failed, err: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills unset fields with working defaults.
func (c *Config) SetDefaults() {
	if c.Chat.SlideWindow == 0 {
		c.Chat.SlideWindow = 7
	}
	if c.Chat.NumChunks <= 0 {
		c.Chat.NumChunks = 10
	}
	if c.Chat.DefaultCategory == "" {
		c.Chat.DefaultCategory = CategoryAll
	}
	if len(c.Chat.InitialSuggestions) == 0 {
		c.Chat.InitialSuggestions = append([]string(nil), DefaultInitialSuggestions...)
	}
	if c.Chat.MaxSuggestions <= 0 {
		c.Chat.MaxSuggestions = 4
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "llama3.3-70b"
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("MEDASSIST_LLM_API_KEY")
	}
	if c.Embedding.APIKey == "" {
		c.Embedding.APIKey = os.Getenv("MEDASSIST_EMBEDDING_API_KEY")
	}
	if c.Search.Provider == "" {
		c.Search.Provider = "cortex"
	}
	if c.Resolver.ExpirySeconds <= 0 {
		c.Resolver.ExpirySeconds = 3600
	}
	if c.Splitter.ChunkSize <= 0 {
		c.Splitter.ChunkSize = 1512
	}
	if c.Splitter.ChunkOverlap < 0 || (c.Splitter.ChunkOverlap == 0 && c.Splitter.ChunkSize > 256) {
		c.Splitter.ChunkOverlap = 256
	}
	if c.Session.TTLSeconds <= 0 {
		c.Session.TTLSeconds = 24 * 3600
	}
	if c.VectorDB.MetricType == "" {
		c.VectorDB.MetricType = "IP"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		c.Server.ShutdownTimeoutSeconds = 10
	}
	if c.Cache == nil {
		c.Cache = &CacheConfig{L1: &CacheLayerConfig{Enable: true, MaxEntries: 256, TTLSeconds: 300}}
	}
}
