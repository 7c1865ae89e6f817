package post

import "strings"

// StripQuotes removes every single quote. Applied unconditionally to
// reformulated queries before retrieval and to responses before
// display, matching the downstream renderer's quoting rules.
func StripQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "")
}
