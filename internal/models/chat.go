package models

import "time"

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one persisted turn of a plant's expert conversation.
// History is append-only; the only destructive operation is a bulk clear.
type ChatMessage struct {
	ID        string    `json:"id"`
	PlantID   string    `json:"plant_id"`
	UserID    string    `json:"user_id"`
	Role      ChatRole  `json:"role"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
