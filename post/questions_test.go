package post

import (
	"fmt"
	"strings"
	"testing"
)

func TestExtractFromResponseSections(t *testing.T) {
	response := "The admission record is complete.\n\nRelated Questions:\n- What was the final diagnosis?\n- Which ward was the patient assigned to?\n- When is the follow-up visit?\n\n"

	got := ExtractSuggestedQuestions(response, "")
	want := []string{
		"What was the final diagnosis?",
		"Which ward was the patient assigned to?",
		"When is the follow-up visit?",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d questions, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("question %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractNumberedItems(t *testing.T) {
	response := "Done.\n\nFollow-up Questions:\n1. How are lab results recorded?\n2. Who signs the discharge summary?\n\n"
	got := ExtractSuggestedQuestions(response, "")
	if len(got) != 2 {
		t.Fatalf("expected 2 questions, got %v", got)
	}
}

func TestExtractCapsAtFour(t *testing.T) {
	var b strings.Builder
	b.WriteString("Answer.\n\nRelated Questions:\n")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "- Question number %d about the ward?\n", i)
	}
	b.WriteString("\n")

	got := ExtractSuggestedQuestions(b.String(), "")
	if len(got) != 4 {
		t.Fatalf("expected cap of 4 questions, got %d: %v", len(got), got)
	}
}

func TestExtractFiltersVideoAndLength(t *testing.T) {
	long := "Could you walk me through every single field of the patient administration module including demographics, insurance, referrals and audit history in detail?"
	response := "Answer.\n\nRelated Questions:\n- How do I watch the training video?\n- " + long + "\n- What is the bed allocation policy?\n\n"

	got := ExtractSuggestedQuestions(response, "")
	if len(got) != 1 || got[0] != "What is the bed allocation policy?" {
		t.Fatalf("expected only the short non-video question, got %v", got)
	}
}

func TestExtractDeduplicates(t *testing.T) {
	response := "Answer.\n\nRelated Questions:\n- What is the visiting policy?\n- What is the visiting policy?\n\nCommon Issues:\n- What is the visiting policy?\n\n"
	got := ExtractSuggestedQuestions(response, "")
	count := 0
	for _, q := range got {
		if q == "What is the visiting policy?" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected question once, got %v", got)
	}
}

func TestExtractFallsBackToContext(t *testing.T) {
	response := "The report has been filed."
	contextText := "Ward operations manual.\n\nCommon Queries:\n- How are transfers between wards requested?\n- Who approves an emergency admission?\n\n"

	got := ExtractSuggestedQuestions(response, contextText)
	if len(got) != 2 {
		t.Fatalf("expected 2 context questions, got %v", got)
	}
}

func TestExtractContextCapitalizedSentences(t *testing.T) {
	// headed context section without bullets falls back to sentence scan
	contextText := "Scenarios:\nWhat happens when a bed is unavailable? Staff escalate to the duty manager.\n\n"
	got := ExtractSuggestedQuestions("Short reply.", contextText)
	if len(got) == 0 {
		t.Fatalf("expected a sentence-derived question, got none")
	}
	if got[0] != "What happens when a bed is unavailable?" {
		t.Errorf("unexpected question %q", got[0])
	}
}

func TestExtractGeneralScan(t *testing.T) {
	response := "The record is stored. Would you like to review the medication history? Nothing else pending."
	got := ExtractSuggestedQuestions(response, "")
	if len(got) != 1 || got[0] != "Would you like to review the medication history?" {
		t.Fatalf("expected the general-scan question, got %v", got)
	}
}

func TestExtractGeneralScanLengthBoundary(t *testing.T) {
	// exactly 10 characters is accepted, 9 is not
	got := ExtractSuggestedQuestions("Why is it?", "")
	if len(got) != 1 || got[0] != "Why is it?" {
		t.Fatalf("expected 10-char question accepted, got %v", got)
	}
	if got := ExtractSuggestedQuestions("Why is i?", ""); len(got) != 0 {
		t.Fatalf("expected 9-char question rejected, got %v", got)
	}
}

func TestExtractStopsCascadeWhenSatisfied(t *testing.T) {
	response := "Answer.\n\nRelated Questions:\n- One about admissions?\n- Two about diagnosis?\n- Three about discharge?\n\n"
	contextText := "Common Queries:\n- Context question that should not appear?\n\n"

	got := ExtractSuggestedQuestions(response, contextText)
	for _, q := range got {
		if strings.Contains(q, "should not appear") {
			t.Fatalf("cascade advanced past a satisfied tier: %v", got)
		}
	}
}

func TestExtractEmptyInputs(t *testing.T) {
	if got := ExtractSuggestedQuestions("", ""); len(got) != 0 {
		t.Fatalf("expected no questions, got %v", got)
	}
}
