package post

import (
	"regexp"
	"strings"
)

// ====== Display Cleaning ======

// Suggestion sections are stripped from the displayed answer only; the
// stored transcript keeps the raw model output so later reformulation
// sees everything the model said.
var sectionStripPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)\n*Related Questions:.*?(?:\n\n|\z)`),
	regexp.MustCompile(`(?is)\n*You might also want to know:?.*?(?:\n\n|\z)`),
	regexp.MustCompile(`(?is)\n*Suggested Questions:.*?(?:\n\n|\z)`),
	regexp.MustCompile(`(?is)\n*Common Questions:.*?(?:\n\n|\z)`),
	regexp.MustCompile(`(?is)\n*Follow-up Questions:.*?(?:\n\n|\z)`),
}

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// CleanForDisplay removes suggestion sections from a response and
// normalizes blank-line runs. The input is left unchanged; callers
// render the return value.
func CleanForDisplay(s string) string {
	cleaned := s
	for _, p := range sectionStripPatterns {
		cleaned = p.ReplaceAllString(cleaned, "\n\n")
	}
	cleaned = excessNewlines.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}
