package post

import (
	"regexp"
	"strings"
)

// ====== Suggested Question Extraction ======
//
// Extraction is a cascade of strategies in fixed order: explicit
// response sections first, then headed sections of the retrieved
// context, then a general scan of the response. Later strategies only
// run while fewer than minQuestions candidates survived the filters,
// so a malformed response degrades to the next source instead of
// failing the turn.

const (
	// DefaultMaxSuggestions caps the suggestions shown per turn.
	DefaultMaxSuggestions = 4
	// minQuestions is the cascade advance threshold.
	minQuestions = 3
	// maxQuestionLen rejects run-on candidates.
	maxQuestionLen = 100
)

// Strategy produces candidate questions from one source. Candidates
// pass through the shared filters afterwards, so strategies stay dumb.
type Strategy struct {
	Name    string
	Extract func(response, contextText string) []string
}

var (
	responseSectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)Related Questions:(.*?)(?:\n\n|\z)`),
		regexp.MustCompile(`(?is)Common Issues:(.*?)(?:\n\n|\z)`),
		regexp.MustCompile(`(?is)Common Issues and Solutions:(.*?)(?:\n\n|\z)`),
		regexp.MustCompile(`(?is)Scenario-Based Questions:(.*?)(?:\n\n|\z)`),
		regexp.MustCompile(`(?is)Follow-up Questions:(.*?)(?:\n\n|\z)`),
		regexp.MustCompile(`(?is)You might also want to know:(.*?)(?:\n\n|\z)`),
	}

	contextSectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)Common Issues?:(.*?)(?:\n\n|\z)`),
		regexp.MustCompile(`(?is)Scenarios?:(.*?)(?:\n\n|\z)`),
		regexp.MustCompile(`(?is)Use Cases?:(.*?)(?:\n\n|\z)`),
		regexp.MustCompile(`(?is)Common Queries:(.*?)(?:\n\n|\z)`),
	}

	bulletQuestion   = regexp.MustCompile(`[-•*]\s*(.*?\?)`)
	numberedQuestion = regexp.MustCompile(`\d+\.\s*(.*?\?)`)
	sentenceQuestion = regexp.MustCompile(`([A-Z][^.!?]*\?)`)
)

// DefaultStrategies returns the extraction cascade in execution order.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "response_sections", Extract: extractResponseSections},
		{Name: "context_sections", Extract: extractContextSections},
		{Name: "general_scan", Extract: extractGeneralScan},
	}
}

func extractResponseSections(response, _ string) []string {
	var out []string
	for _, p := range responseSectionPatterns {
		for _, m := range p.FindAllStringSubmatch(response, -1) {
			out = append(out, itemQuestions(m[1])...)
		}
	}
	return out
}

func extractContextSections(_, contextText string) []string {
	var out []string
	for _, p := range contextSectionPatterns {
		for _, m := range p.FindAllStringSubmatch(contextText, -1) {
			section := m[1]
			items := itemQuestions(section)
			if len(items) == 0 {
				// no bullets, fall back to capitalized sentences
				for _, sm := range sentenceQuestion.FindAllStringSubmatch(section, -1) {
					items = append(items, sm[1])
				}
			}
			out = append(out, items...)
		}
	}
	return out
}

func extractGeneralScan(response, _ string) []string {
	var out []string
	for _, m := range sentenceQuestion.FindAllStringSubmatch(response, -1) {
		if len(strings.TrimSpace(m[1])) >= 10 {
			out = append(out, m[1])
		}
	}
	return out
}

// itemQuestions pulls bulleted and numbered question items from a
// section body.
func itemQuestions(section string) []string {
	var out []string
	for _, m := range bulletQuestion.FindAllStringSubmatch(section, -1) {
		out = append(out, m[1])
	}
	for _, m := range numberedQuestion.FindAllStringSubmatch(section, -1) {
		out = append(out, m[1])
	}
	return out
}

// Extractor runs the suggestion cascade with a configurable cap.
type Extractor struct {
	Max        int
	Strategies []Strategy
}

// NewExtractor returns an extractor with the default cascade.
func NewExtractor(max int) *Extractor {
	if max <= 0 {
		max = DefaultMaxSuggestions
	}
	return &Extractor{Max: max, Strategies: DefaultStrategies()}
}

// Extract returns up to Max suggested questions, deduplicated in first
// occurrence order. Candidates mentioning videos or running past
// maxQuestionLen characters are dropped at every tier.
func (e *Extractor) Extract(response, contextText string) []string {
	questions := make([]string, 0, e.Max)
	seen := make(map[string]struct{})

	for _, s := range e.Strategies {
		if len(questions) >= minQuestions {
			break
		}
		for _, q := range s.Extract(response, contextText) {
			q = strings.TrimSpace(q)
			if q == "" {
				continue
			}
			if strings.Contains(strings.ToLower(q), "video") {
				continue
			}
			if len(q) >= maxQuestionLen {
				continue
			}
			if _, dup := seen[q]; dup {
				continue
			}
			seen[q] = struct{}{}
			questions = append(questions, q)
			if len(questions) >= e.Max {
				return questions
			}
		}
	}
	return questions
}

// ExtractSuggestedQuestions runs the default cascade with the default
// cap of four.
func ExtractSuggestedQuestions(response, contextText string) []string {
	return NewExtractor(DefaultMaxSuggestions).Extract(response, contextText)
}
