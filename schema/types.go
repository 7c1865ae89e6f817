package schema

import "time"

// Message roles within a conversation transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a conversation transcript.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// SearchResult is one retrieved passage.
type SearchResult struct {
	Chunk        string  `json:"chunk"`
	RelativePath string  `json:"relative_path"`
	Category     string  `json:"category,omitempty"`
	Score        float64 `json:"score,omitempty"`
}

// SearchOptions narrows a retrieval call. Category "ALL" disables
// filtering; Limit <= 0 lets the backend choose its default.
type SearchOptions struct {
	Category string
	Limit    int
}

// PromptContext is the retrieval outcome handed to prompt assembly.
// Citations holds the sorted distinct relative paths of Results.
type PromptContext struct {
	Results   []SearchResult `json:"results"`
	Citations []string       `json:"citations"`
}

// Document is one resolved citation for display. A resolution failure
// fills Err and leaves URL empty; it never fails the turn.
type Document struct {
	RelativePath string `json:"relative_path"`
	URL          string `json:"url,omitempty"`
	Err          string `json:"error,omitempty"`
}

// Chunk is one ingest unit produced by the splitter.
type Chunk struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	RelativePath string `json:"relative_path,omitempty"`
	Category     string `json:"category,omitempty"`
}
