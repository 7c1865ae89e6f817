package metrics

import (
	"encoding/json"
	"time"

	"github.com/tenwave/medassist/common/logger"
)

// TurnMetrics records the complete telemetry of one conversational turn.
type TurnMetrics struct {
	SessionID string    `json:"session_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// reformulation
	WindowSize        int   `json:"window_size"`
	ReformulationUsed bool  `json:"reformulation_used"`
	ReformulateMs     int64 `json:"reformulate_ms,omitempty"`
	// FallbackToRaw is set when a reformulation came back empty and the
	// raw question was used instead.
	FallbackToRaw bool `json:"fallback_to_raw,omitempty"`

	// retrieval
	Category      string `json:"category"`
	Limit         int    `json:"limit"`
	ResultCount   int    `json:"result_count"`
	CitationCount int    `json:"citation_count"`
	CacheHit      bool   `json:"cache_hit,omitempty"`
	RetrieveMs    int64  `json:"retrieve_ms,omitempty"`

	// generation
	AnswerMs        int64 `json:"answer_ms,omitempty"`
	SuggestionCount int   `json:"suggestion_count"`

	TotalMs  int64  `json:"total_ms"`
	Success  bool   `json:"success"`
	ErrorMsg string `json:"error_msg,omitempty"`
}

// NewTurnMetrics creates a metrics record stamped with the current time.
func NewTurnMetrics(sessionID string) *TurnMetrics {
	return &TurnMetrics{SessionID: sessionID, Timestamp: time.Now()}
}

// Log emits the record as one JSON log line.
func (m *TurnMetrics) Log() {
	if data, err := json.Marshal(m); err == nil {
		logger.Infof("[TURN_METRICS] %s", string(data))
	}
}
