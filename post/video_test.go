package post

import (
	"strings"
	"testing"
)

func TestRewriteVideoLinksInternalPath(t *testing.T) {
	in := "See the Video Guide: [Admission Walkthrough](internal_video_path/admission_walkthrough.mp4) for details."
	got := RewriteVideoLinks(in)

	if strings.Contains(got, "internal_video_path/admission_walkthrough.mp4") {
		t.Error("internal video path must be replaced")
	}
	if !strings.Contains(got, "https://www.youtube.com/results?search_query=Admission+Walkthrough+hospital+information+system") {
		t.Errorf("expected search URL, got %q", got)
	}
	if !strings.Contains(got, "[📹 Admission Walkthrough]") {
		t.Errorf("expected camera glyph on title, got %q", got)
	}
}

func TestRewriteVideoLinksYouTubeKeepsURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{
			"Video Guide: [Ward Tour](https://www.youtube.com/watch?v=abc123)",
			"Video Guide: [📹 Ward Tour](https://www.youtube.com/watch?v=abc123)",
		},
		{
			"Video Guide: [Ward Tour](https://youtu.be/abc123)",
			"Video Guide: [📹 Ward Tour](https://youtu.be/abc123)",
		},
	}
	for _, tt := range tests {
		if got := RewriteVideoLinks(tt.in); got != tt.want {
			t.Errorf("RewriteVideoLinks(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRewriteVideoLinksExternalKeepsURL(t *testing.T) {
	in := "Video Guide: [Ward Tour](https://vimeo.com/123)"
	want := "Video Guide: [📹 Ward Tour](https://vimeo.com/123)"
	if got := RewriteVideoLinks(in); got != want {
		t.Errorf("RewriteVideoLinks(%q) = %q, want %q", in, got, want)
	}
}

func TestRewriteVideoLinksIdempotent(t *testing.T) {
	tests := []string{
		"Video Guide: [Pharmacy Module](internal_video_path/pharmacy.mp4)",
		"Video Guide: [Ward Tour](https://www.youtube.com/watch?v=abc123)",
		"Video Guide: [Ward Tour](https://vimeo.com/123)",
	}
	for _, in := range tests {
		once := RewriteVideoLinks(in)
		twice := RewriteVideoLinks(once)
		if once != twice {
			t.Errorf("rewrite is not idempotent:\nonce:  %q\ntwice: %q", once, twice)
		}
	}
}

func TestRewriteVideoLinksMultiple(t *testing.T) {
	in := "Video Guide: [A B](internal_video_path/x.mp4) and Video Guide: [C](https://www.youtube.com/watch?v=z)"
	got := RewriteVideoLinks(in)
	if !strings.Contains(got, "search_query=A+B+hospital+information+system") {
		t.Errorf("first link not rewritten: %q", got)
	}
	if !strings.Contains(got, "[📹 C](https://www.youtube.com/watch?v=z)") {
		t.Errorf("second link must keep its URL and gain the glyph: %q", got)
	}
}

func TestRewriteVideoLinksNoLinks(t *testing.T) {
	in := "No media in this answer."
	if got := RewriteVideoLinks(in); got != in {
		t.Errorf("text without links changed: %q", got)
	}
}

func TestStripQuotes(t *testing.T) {
	tests := []struct{ in, want string }{
		{"What's the patient's diagnosis?", "Whats the patients diagnosis?"},
		{"no quotes here", "no quotes here"},
		{"''", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripQuotes(tt.in); got != tt.want {
			t.Errorf("StripQuotes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
