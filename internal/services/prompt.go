package services

import (
	"fmt"
	"strings"

	"chatlead-backend/internal/models"
)

// PromptConfig carries the configurable wording around the user message.
// The exact natural-language phrasing is deployment configuration, not a
// behavioral contract; only the assembly order is fixed.
type PromptConfig struct {
	Intro string // base instruction, e.g. the assistant persona
	Style string // closing instruction on tone and next step
}

// summaryFields are the well-known property attributes worth surfacing to
// the model, in display order.
var summaryFields = []string{"title", "district", "price", "rooms"}

// BuildPrompt assembles the outbound prompt: intro + user message + a short
// summary of matched records (when any) + the fixed style instruction.
func BuildPrompt(cfg PromptConfig, message string, matches []models.MatchedRecord) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(cfg.Intro))
	b.WriteString(fmt.Sprintf(" The user said: %q.", message))

	if len(matches) > 0 {
		b.WriteString(fmt.Sprintf(" Found %d matching properties.", len(matches)))
		for _, m := range matches {
			if line := summarizeRecord(m); line != "" {
				b.WriteString(" " + line + ".")
			}
		}
	}

	b.WriteString(" " + strings.TrimSpace(cfg.Style))
	return b.String()
}

// summarizeRecord renders the known fields of one matched document as a
// single short clause. Unknown fields are ignored; records are never mutated.
func summarizeRecord(m models.MatchedRecord) string {
	var parts []string
	for _, field := range summaryFields {
		if v, ok := m[field]; ok {
			parts = append(parts, fmt.Sprintf("%s: %v", field, v))
		}
	}
	return strings.Join(parts, ", ")
}
