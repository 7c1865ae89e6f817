package medassist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tenwave/medassist/common/httpx"
	"github.com/tenwave/medassist/common/logger"
	"github.com/tenwave/medassist/config"
	"github.com/tenwave/medassist/llm"
	"github.com/tenwave/medassist/orchestrator"
	"github.com/tenwave/medassist/post"
	"github.com/tenwave/medassist/resolver"
	"github.com/tenwave/medassist/retrieval"
	"github.com/tenwave/medassist/retriever"
	"github.com/tenwave/medassist/schema"
	"github.com/tenwave/medassist/textsplitter"
)

// Client wires the assistant together: sessions, the turn
// orchestrator, retrieval, ingest and document resolution.
type Client struct {
	cfg         *config.Config
	llmProvider llm.Provider
	ret         retriever.Retriever
	orch        *orchestrator.Orchestrator
	sessions    SessionStore
	docResolver resolver.Resolver
	splitter    *textsplitter.Splitter

	// turnLocks serializes turns within one session; turns across
	// sessions run concurrently.
	turnLocks sync.Map
}

// TurnResult is a completed turn plus everything a host needs to
// render it.
type TurnResult struct {
	orchestrator.Turn
	SessionID string `json:"session_id"`
	// DisplayResponse is the cleaned rendering of Response.
	DisplayResponse string            `json:"display_response"`
	Documents       []schema.Document `json:"documents"`
}

// NewClient creates a fully wired assistant client.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	c := &Client{cfg: cfg, sessions: NewMemSessionStore()}

	hc := httpx.NewFromConfig(cfg.HTTP)

	llmProvider, err := llm.NewProvider(&cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create llm provider failed, err: %w", err)
	}
	c.llmProvider = llmProvider

	ret, err := retriever.New(cfg, hc)
	if err != nil {
		return nil, fmt.Errorf("create retriever failed, err: %w", err)
	}
	c.ret = ret

	retrievalProvider := retrieval.NewProvider(ret, cfg.Cache)
	orch, err := orchestrator.New(cfg.Chat, llmProvider, retrievalProvider)
	if err != nil {
		return nil, fmt.Errorf("create orchestrator failed, err: %w", err)
	}
	c.orch = orch

	if httpResolver := resolver.NewHTTPResolver(&cfg.Resolver, hc); httpResolver != nil {
		// cache lifetime stays under the presigned expiry
		ttl := time.Duration(cfg.Resolver.ExpirySeconds) * time.Second * 9 / 10
		c.docResolver = resolver.NewCachedResolver(httpResolver, 512, ttl)
	}

	splitter, err := textsplitter.New(&cfg.Splitter)
	if err != nil {
		return nil, fmt.Errorf("create text splitter failed, err: %w", err)
	}
	c.splitter = splitter

	return c, nil
}

// NewSession opens a session seeded with the configured initial
// suggestions. An empty category uses the configured default.
func (c *Client) NewSession(category string) *Session {
	if category == "" {
		category = c.cfg.Chat.DefaultCategory
	}
	s := c.sessions.Create(category, c.cfg.Chat.InitialSuggestions)
	logger.Infof("session %s created (category=%s)", s.ID, category)
	return s
}

// GetSession returns a snapshot of a session.
func (c *Client) GetSession(id string) (*Session, bool) {
	return c.sessions.Get(id)
}

// DeleteSession removes a session and its turn lock.
func (c *Client) DeleteSession(id string) bool {
	ok := c.sessions.Delete(id)
	if ok {
		c.turnLocks.Delete(id)
	}
	return ok
}

// ListSessions returns session snapshots ordered by recency.
func (c *Client) ListSessions() []*Session {
	return c.sessions.List()
}

// ResetSession clears a session's transcript and restores the initial
// suggestions, keeping the session id stable.
func (c *Client) ResetSession(id string) bool {
	return c.sessions.Reset(id, c.cfg.Chat.InitialSuggestions)
}

// CleanSessions drops sessions idle past the configured TTL and the
// turn locks of sessions that no longer exist.
func (c *Client) CleanSessions() {
	ttl := time.Duration(c.cfg.Session.TTLSeconds) * time.Second
	if err := c.sessions.Clean(ttl, 0); err != nil {
		logger.Warnf("session clean failed: %v", err)
	}
	c.turnLocks.Range(func(key, _ any) bool {
		if _, ok := c.sessions.Get(key.(string)); !ok {
			c.turnLocks.Delete(key)
		}
		return true
	})
}

// Chat runs one conversational turn in a session: the question and the
// response are appended to the transcript and the session's
// suggestions are replaced. Turns within one session are serialized.
func (c *Client) Chat(ctx context.Context, sessionID, question, category string) (*TurnResult, error) {
	mu := c.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	s, ok := c.sessions.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	if category == "" {
		category = s.Category
	}

	turn, err := c.orch.Respond(ctx, orchestrator.TurnRequest{
		SessionID: sessionID,
		History:   s.Messages,
		Question:  question,
		Category:  category,
	})
	if err != nil {
		return nil, err
	}

	c.sessions.AddMessage(sessionID, schema.Message{Role: schema.RoleUser, Content: question})
	c.sessions.AddMessage(sessionID, schema.Message{Role: schema.RoleAssistant, Content: turn.Response})
	c.sessions.SetSuggestions(sessionID, turn.Suggestions)

	return &TurnResult{
		Turn:            *turn,
		SessionID:       sessionID,
		DisplayResponse: post.CleanForDisplay(turn.Response),
		Documents:       resolver.ResolveAll(ctx, c.docResolver, turn.Citations),
	}, nil
}

// Search runs a bare retrieval call without touching any session.
func (c *Client) Search(ctx context.Context, query, category string, limit int) ([]schema.SearchResult, error) {
	if category == "" {
		category = c.cfg.Chat.DefaultCategory
	}
	if limit <= 0 {
		limit = c.cfg.Chat.NumChunks
	}
	return c.ret.Search(ctx, query, schema.SearchOptions{Category: category, Limit: limit})
}

// ResolveDocuments resolves citations to presigned URLs. Failures are
// carried per document.
func (c *Client) ResolveDocuments(ctx context.Context, paths []string) []schema.Document {
	return resolver.ResolveAll(ctx, c.docResolver, paths)
}

// IngestText splits text into chunks and indexes them. Requires the
// milvus backend; the cortex service owns its own indexing.
func (c *Client) IngestText(ctx context.Context, text, relativePath, category string) ([]schema.Chunk, error) {
	parts := c.splitter.Split(text)
	if len(parts) == 0 {
		return nil, fmt.Errorf("no content to ingest")
	}
	chunks := make([]schema.Chunk, len(parts))
	for i, p := range parts {
		chunks[i] = schema.Chunk{
			ID:           uuid.New().String(),
			Text:         p,
			RelativePath: relativePath,
			Category:     category,
		}
	}

	mr, ok := c.ret.(*retriever.MilvusRetriever)
	if !ok {
		return nil, fmt.Errorf("ingest requires the milvus search provider, have %s", c.ret.Type())
	}
	if err := mr.InsertChunks(ctx, chunks); err != nil {
		return nil, err
	}
	logger.Infof("ingested %d chunks from %s (category=%s)", len(chunks), relativePath, category)
	return chunks, nil
}

// Close releases backend connections.
func (c *Client) Close() error {
	if mr, ok := c.ret.(*retriever.MilvusRetriever); ok {
		return mr.Close()
	}
	return nil
}

func (c *Client) sessionLock(id string) *sync.Mutex {
	v, _ := c.turnLocks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}
