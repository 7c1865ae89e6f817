package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tenwave/medassist/common/logger"
	"github.com/tenwave/medassist/config"
	"github.com/tenwave/medassist/llm"
	"github.com/tenwave/medassist/metrics"
	"github.com/tenwave/medassist/post"
	"github.com/tenwave/medassist/retrieval"
	"github.com/tenwave/medassist/schema"
)

// Orchestrator runs one conversational turn: fold history into a
// retrieval query, retrieve, assemble the answer prompt, generate,
// and post-process.
type Orchestrator struct {
	cfg       config.ChatConfig
	llm       llm.Provider
	retrieval retrieval.Provider
	extractor *post.Extractor
}

// TurnRequest describes one turn. History is the full session
// transcript before the question; the orchestrator windows it itself.
// Zero Category, Limit and Window fall back to configured defaults; a
// negative Window disables history.
type TurnRequest struct {
	SessionID string
	History   []schema.Message
	Question  string
	Category  string
	Limit     int
	Window    int
}

// Turn is the outcome of one request. Response holds the raw model
// output; hosts clean it for display with post.CleanForDisplay so the
// stored transcript keeps everything the model said.
type Turn struct {
	Question       string                `json:"question"`
	RetrievalQuery string                `json:"retrieval_query"`
	Response       string                `json:"response"`
	Suggestions    []string              `json:"suggestions"`
	Citations      []string              `json:"citations"`
	Results        []schema.SearchResult `json:"results,omitempty"`
}

// New creates an orchestrator. All collaborators are required.
func New(cfg config.ChatConfig, llmProvider llm.Provider, retrievalProvider retrieval.Provider) (*Orchestrator, error) {
	if llmProvider == nil {
		return nil, fmt.Errorf("llm provider is required")
	}
	if retrievalProvider == nil {
		return nil, fmt.Errorf("retrieval provider is required")
	}
	return &Orchestrator{
		cfg:       cfg,
		llm:       llmProvider,
		retrieval: retrievalProvider,
		extractor: post.NewExtractor(cfg.MaxSuggestions),
	}, nil
}

// Respond executes one turn. Upstream failures (LLM, retrieval) are
// returned as-is with no orchestration-level retry; suggestion
// extraction never fails the turn.
func (o *Orchestrator) Respond(ctx context.Context, req TurnRequest) (*Turn, error) {
	start := time.Now()
	tm := metrics.NewTurnMetrics(req.SessionID)

	window := req.Window
	if window == 0 {
		window = o.cfg.SlideWindow
	}
	limit := req.Limit
	if limit <= 0 {
		limit = o.cfg.NumChunks
	}
	category := req.Category
	if category == "" {
		category = o.cfg.DefaultCategory
	}
	tm.Category, tm.Limit = category, limit

	windowed := schema.Window(req.History, window)
	tm.WindowSize = len(windowed)

	query, err := o.reformulate(ctx, windowed, req.Question, tm)
	if err != nil {
		tm.ErrorMsg = err.Error()
		tm.Log()
		return nil, err
	}
	query = post.StripQuotes(query)

	retrieveStart := time.Now()
	pc, err := o.retrieval.Search(ctx, query, category, limit)
	if err != nil {
		tm.ErrorMsg = err.Error()
		tm.Log()
		return nil, err
	}
	tm.RetrieveMs = time.Since(retrieveStart).Milliseconds()
	tm.ResultCount = len(pc.Results)
	tm.CitationCount = len(pc.Citations)

	contextText := renderContext(pc.Results)
	answerStart := time.Now()
	raw, err := o.llm.GenerateCompletion(ctx, buildAnswerPrompt(windowed, contextText, req.Question))
	metrics.ObserveLLM("answer", answerStart)
	if err != nil {
		tm.ErrorMsg = err.Error()
		tm.Log()
		return nil, fmt.Errorf("answer generation failed, err: %w", err)
	}
	tm.AnswerMs = time.Since(answerStart).Milliseconds()

	response := post.StripQuotes(post.RewriteVideoLinks(raw))
	suggestions := o.extractor.Extract(response, joinChunks(pc.Results))

	tm.SuggestionCount = len(suggestions)
	tm.TotalMs = time.Since(start).Milliseconds()
	tm.Success = true
	tm.Log()
	metrics.ObserveTurn(start)
	metrics.ObserveSuggestions(len(suggestions))

	return &Turn{
		Question:       req.Question,
		RetrievalQuery: query,
		Response:       response,
		Suggestions:    suggestions,
		Citations:      pc.Citations,
		Results:        pc.Results,
	}, nil
}

// reformulate produces the retrieval query. With an empty window the
// LLM call is skipped entirely; an empty reformulation falls back to
// the raw question rather than searching for nothing.
func (o *Orchestrator) reformulate(ctx context.Context, windowed []schema.Message, question string, tm *metrics.TurnMetrics) (string, error) {
	if len(windowed) == 0 {
		return question, nil
	}

	tm.ReformulationUsed = true
	llmStart := time.Now()
	out, err := o.llm.GenerateCompletion(ctx, buildReformulatePrompt(windowed, question))
	metrics.ObserveLLM("reformulate", llmStart)
	tm.ReformulateMs = time.Since(llmStart).Milliseconds()
	if err != nil {
		return "", fmt.Errorf("query reformulation failed, err: %w", err)
	}

	query := strings.TrimSpace(out)
	if query == "" {
		logger.Warnf("orchestrator: empty reformulation, falling back to raw question")
		tm.FallbackToRaw = true
		return question, nil
	}
	return query, nil
}

// joinChunks concatenates passage text for the suggestion extractor.
// The extractor's section patterns match on raw newlines, so this must
// stay plain text rather than the JSON-escaped prompt rendering.
func joinChunks(results []schema.SearchResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Chunk)
	}
	return strings.Join(parts, " ")
}

// renderContext serializes retrieved passages as JSON for the prompt.
func renderContext(results []schema.SearchResult) string {
	if len(results) == 0 {
		return "[]"
	}
	data, err := json.Marshal(results)
	if err != nil {
		logger.Errorf("orchestrator: context serialization failed: %v", err)
		return "[]"
	}
	return string(data)
}
