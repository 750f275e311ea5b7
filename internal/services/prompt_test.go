package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chatlead-backend/internal/models"
)

var testPromptConfig = PromptConfig{
	Intro: "You are a professional real estate assistant.",
	Style: "Reply in Arabic, short, friendly, ask next step (contact/visit).",
}

func TestBuildPrompt_NoMatches(t *testing.T) {
	prompt := BuildPrompt(testPromptConfig, "looking for a flat", nil)
	require.Equal(t,
		`You are a professional real estate assistant. The user said: "looking for a flat". Reply in Arabic, short, friendly, ask next step (contact/visit).`,
		prompt)
}

func TestBuildPrompt_WithMatches(t *testing.T) {
	matches := []models.MatchedRecord{
		{"city": "Riyadh", "title": "Apartment A", "price": 450000},
		{"city": "Riyadh", "title": "Apartment B"},
	}
	prompt := BuildPrompt(testPromptConfig, "أبحث عن شقة", matches)

	require.Contains(t, prompt, "Found 2 matching properties.")
	require.Contains(t, prompt, "title: Apartment A, price: 450000")
	require.Contains(t, prompt, "title: Apartment B")
	// Style instruction closes the prompt.
	require.Contains(t, prompt, "Reply in Arabic")
}

func TestBuildPrompt_EmptyMessage(t *testing.T) {
	prompt := BuildPrompt(testPromptConfig, "", nil)
	require.Contains(t, prompt, `The user said: "".`)
}

func TestSummarizeRecord_UnknownFieldsIgnored(t *testing.T) {
	line := summarizeRecord(models.MatchedRecord{"city": "Riyadh", "internal_id": 9})
	require.Empty(t, line)
}
