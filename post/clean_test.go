package post

import "testing"

func TestCleanForDisplay(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips trailing related questions section",
			in:   "The patient was admitted on 12 March.\n\nRelated Questions:\n- What was the final diagnosis?\n- When was the patient discharged?\n\n",
			want: "The patient was admitted on 12 March.",
		},
		{
			name: "strips section in the middle",
			in:   "First part.\n\nSuggested Questions:\n- What next?\n\nSecond part.",
			want: "First part.\n\nSecond part.",
		},
		{
			name: "strips multiple sections",
			in:   "Answer.\n\nCommon Questions:\n- One?\n\nFollow-up Questions:\n- Two?\n\n",
			want: "Answer.",
		},
		{
			name: "case insensitive headers",
			in:   "Answer.\n\nrelated questions:\n- Lowercase header?\n\n",
			want: "Answer.",
		},
		{
			name: "strips you might also want to know",
			in:   "Answer.\n\nYou might also want to know:\n- More?",
			want: "Answer.",
		},
		{
			name: "collapses newline runs",
			in:   "Line one.\n\n\n\nLine two.",
			want: "Line one.\n\nLine two.",
		},
		{
			name: "plain answer untouched",
			in:   "The discharge summary lists two follow-up appointments.",
			want: "The discharge summary lists two follow-up appointments.",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanForDisplay(tt.in); got != tt.want {
				t.Errorf("CleanForDisplay(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanForDisplayKeepsInputIntact(t *testing.T) {
	in := "Answer.\n\nRelated Questions:\n- Q?\n\n"
	_ = CleanForDisplay(in)
	if in != "Answer.\n\nRelated Questions:\n- Q?\n\n" {
		t.Error("input string must not be mutated")
	}
}
