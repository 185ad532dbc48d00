package models

import "time"

// JournalEntry is a free-text growth log note, optionally with an image
// reference. Recent entries ground the expert conversation.
type JournalEntry struct {
	ID       string    `json:"id"`
	PlantID  string    `json:"plant_id"`
	UserID   string    `json:"user_id"`
	Note     string    `json:"note"`
	ImageURL string    `json:"image_url,omitempty"`
	LoggedAt time.Time `json:"logged_at"`
}
