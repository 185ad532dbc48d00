package ai

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/xaenox/plant-pal/internal/models"
)

// AssembleContext rebuilds the grounded conversation state for one chat
// turn: a synthetic context turn carrying the plant's care guide, recent
// journal notes and elapsed growing time, a synthetic acknowledgement
// turn, then the persisted history mapped to provider roles. The two
// synthetic turns are rebuilt on every call and never persisted; the
// caller appends the new user message before invoking the gateway.
func AssembleContext(plant *models.Plant, history []models.ChatMessage, journal []models.JournalEntry, daysSinceAdded int) []Message {
	msgs := make([]Message, 0, len(history)+2)

	msgs = append(msgs, Message{
		Role:    openai.ChatMessageRoleUser,
		Content: groundingContext(plant, journal, daysSinceAdded),
	})
	msgs = append(msgs, Message{
		Role:    openai.ChatMessageRoleAssistant,
		Content: fmt.Sprintf("Ready to help with your %s!", plant.PlantName),
	})

	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, Message{Role: role, Content: m.Message})
	}

	return msgs
}

func groundingContext(plant *models.Plant, journal []models.JournalEntry, daysSinceAdded int) string {
	guideJSON := "{}"
	if plant.CareGuide != nil {
		if b, err := json.Marshal(plant.CareGuide); err == nil {
			guideJSON = string(b)
		}
	}

	return fmt.Sprintf(`You are an expert botanist helping a user grow their %s (%s).
The user has been growing this plant for %d days.
Care Guide: %s
Recent journal: %s
Give specific, helpful, encouraging advice. Reference the care guide where
relevant and use its commonProblems section to diagnose issues. Keep
responses concise.`,
		plant.PlantName, plant.ScientificName, daysSinceAdded, guideJSON, renderJournal(journal))
}

// renderJournal formats entries newest first as "[timestamp]: note".
func renderJournal(entries []models.JournalEntry) string {
	if len(entries) == 0 {
		return "None"
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("[%s]: %s", e.LoggedAt.Format(time.RFC3339), e.Note))
	}
	return strings.Join(lines, ", ")
}
