package orchestrator

import (
	"strings"
	"testing"

	"github.com/tenwave/medassist/schema"
)

func TestBuildAnswerPromptCarriesGuidelines(t *testing.T) {
	prompt := buildAnswerPrompt(
		[]schema.Message{{Role: schema.RoleUser, Content: "hi"}},
		`[{"chunk":"c"}]`,
		"What were the lab results?",
	)

	for _, want := range []string{
		"based solely on the data within the <context> and </context> tags",
		"Never mix data from different patients.",
		"Unique Health ID (UHID) as the primary identifier",
		"The patient record does not contain information about that specific question.",
		"* Patient Demographics:",
		"* Medical History:",
		"* Diagnoses:",
		"* Treatments:",
		"* Procedures:",
		"* Lab Results:",
		"* Clinical Notes:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("answer prompt missing %q", want)
		}
	}

	for _, want := range []string{"<chat_history>", "<context>", "<question>"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("answer prompt missing %s tag", want)
		}
	}
	if !strings.Contains(prompt, "User: hi") {
		t.Error("answer prompt missing rendered history")
	}
	if !strings.Contains(prompt, `[{"chunk":"c"}]`) {
		t.Error("answer prompt missing context payload")
	}
}
