package storage

import (
	"context"

	"github.com/xaenox/plant-pal/internal/models"
)

// Storage is the persistence boundary the core depends on. Both the
// Postgres and in-memory implementations satisfy it.
type Storage interface {
	PlantStorage
	ChatStorage
	JournalStorage
	NotificationStorage
	Close() error
}

type PlantStorage interface {
	CreatePlant(ctx context.Context, plant *models.Plant) error
	GetPlant(ctx context.Context, id string) (*models.Plant, error)
	ListPlantsByUser(ctx context.Context, userID string) ([]models.Plant, error)
	// ListPlants returns every tracked plant; used by the reminder sweep.
	ListPlants(ctx context.Context) ([]models.Plant, error)
	UpdatePlant(ctx context.Context, plant *models.Plant) error
	DeletePlant(ctx context.Context, id string) error
	// SetCareGuide overwrites the plant's guide; a plant has at most one.
	SetCareGuide(ctx context.Context, plantID string, guide *models.CareGuide) error
}

type ChatStorage interface {
	// AppendChatTurn records a user message and the assistant reply as a
	// single unit so a crash cannot leave a dangling unanswered message.
	AppendChatTurn(ctx context.Context, userMsg, reply *models.ChatMessage) error
	// ListChatMessages returns messages in ascending time order. A
	// positive limit keeps only the most recent messages.
	ListChatMessages(ctx context.Context, plantID string, limit int) ([]models.ChatMessage, error)
	ClearChatMessages(ctx context.Context, plantID string) error
}

type JournalStorage interface {
	CreateJournalEntry(ctx context.Context, entry *models.JournalEntry) error
	// ListJournalEntries returns entries newest first, at most limit when
	// limit is positive.
	ListJournalEntries(ctx context.Context, plantID string, limit int) ([]models.JournalEntry, error)
	DeleteJournalEntry(ctx context.Context, id string) error
}

type NotificationStorage interface {
	// LatestNotification returns the most recent notification of the given
	// type for a plant, or nil when none exists.
	LatestNotification(ctx context.Context, plantID string, typ models.NotificationType) (*models.Notification, error)
	ListNotificationsByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	InsertNotifications(ctx context.Context, notifications []models.Notification) error
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}
