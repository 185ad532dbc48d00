package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xaenox/plant-pal/internal/apperr"
	"github.com/xaenox/plant-pal/internal/models"
)

// MemoryStorage keeps everything in maps. Used for tests and local runs
// without a database.
type MemoryStorage struct {
	mu            sync.RWMutex
	plants        map[string]*models.Plant
	chats         map[string][]models.ChatMessage  // plantID → messages, append order
	journal       map[string][]models.JournalEntry // plantID → entries
	notifications map[string][]models.Notification // plantID → notifications
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		plants:        make(map[string]*models.Plant),
		chats:         make(map[string][]models.ChatMessage),
		journal:       make(map[string][]models.JournalEntry),
		notifications: make(map[string][]models.Notification),
	}
}

// Plant methods

func (s *MemoryStorage) CreatePlant(ctx context.Context, plant *models.Plant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if plant.ID == "" {
		plant.ID = uuid.New().String()
	}
	if plant.CreatedAt.IsZero() {
		plant.CreatedAt = time.Now()
	}
	plant.UpdatedAt = plant.CreatedAt

	copied := *plant
	s.plants[plant.ID] = &copied
	return nil
}

func (s *MemoryStorage) GetPlant(ctx context.Context, id string) (*models.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plant, exists := s.plants[id]
	if !exists {
		return nil, &apperr.NotFoundError{Entity: "plant", ID: id}
	}
	copied := *plant
	return &copied, nil
}

func (s *MemoryStorage) ListPlantsByUser(ctx context.Context, userID string) ([]models.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var plants []models.Plant
	for _, p := range s.plants {
		if p.UserID == userID {
			plants = append(plants, *p)
		}
	}
	sort.Slice(plants, func(i, j int) bool {
		return plants[i].CreatedAt.After(plants[j].CreatedAt)
	})
	return plants, nil
}

func (s *MemoryStorage) ListPlants(ctx context.Context) ([]models.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plants := make([]models.Plant, 0, len(s.plants))
	for _, p := range s.plants {
		plants = append(plants, *p)
	}
	sort.Slice(plants, func(i, j int) bool {
		return plants[i].CreatedAt.Before(plants[j].CreatedAt)
	})
	return plants, nil
}

func (s *MemoryStorage) UpdatePlant(ctx context.Context, plant *models.Plant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.plants[plant.ID]
	if !exists {
		return &apperr.NotFoundError{Entity: "plant", ID: plant.ID}
	}

	plant.UserID = existing.UserID
	plant.CreatedAt = existing.CreatedAt
	plant.UpdatedAt = time.Now()
	copied := *plant
	s.plants[plant.ID] = &copied
	return nil
}

func (s *MemoryStorage) DeletePlant(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.plants, id)
	delete(s.chats, id)
	delete(s.journal, id)
	return nil
}

func (s *MemoryStorage) SetCareGuide(ctx context.Context, plantID string, guide *models.CareGuide) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plant, exists := s.plants[plantID]
	if !exists {
		return &apperr.NotFoundError{Entity: "plant", ID: plantID}
	}
	plant.CareGuide = guide
	plant.UpdatedAt = time.Now()
	return nil
}

// Chat methods

func (s *MemoryStorage) AppendChatTurn(ctx context.Context, userMsg, reply *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, msg := range []*models.ChatMessage{userMsg, reply} {
		if msg.ID == "" {
			msg.ID = uuid.New().String()
		}
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = time.Now()
		}
		s.chats[msg.PlantID] = append(s.chats[msg.PlantID], *msg)
	}
	return nil
}

func (s *MemoryStorage) ListChatMessages(ctx context.Context, plantID string, limit int) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := append([]models.ChatMessage(nil), s.chats[plantID]...)
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

func (s *MemoryStorage) ClearChatMessages(ctx context.Context, plantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.chats, plantID)
	return nil
}

// Journal methods

func (s *MemoryStorage) CreateJournalEntry(ctx context.Context, entry *models.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now()
	}
	s.journal[entry.PlantID] = append(s.journal[entry.PlantID], *entry)
	return nil
}

func (s *MemoryStorage) ListJournalEntries(ctx context.Context, plantID string, limit int) ([]models.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := append([]models.JournalEntry(nil), s.journal[plantID]...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LoggedAt.After(entries[j].LoggedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *MemoryStorage) DeleteJournalEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for plantID, entries := range s.journal {
		for i, e := range entries {
			if e.ID == id {
				s.journal[plantID] = append(entries[:i], entries[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

// Notification methods

func (s *MemoryStorage) LatestNotification(ctx context.Context, plantID string, typ models.NotificationType) (*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Notification
	for i := range s.notifications[plantID] {
		n := s.notifications[plantID][i]
		if n.Type != typ {
			continue
		}
		if latest == nil || n.CreatedAt.After(latest.CreatedAt) {
			copied := n
			latest = &copied
		}
	}
	return latest, nil
}

func (s *MemoryStorage) ListNotificationsByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.Notification
	for _, list := range s.notifications {
		for _, n := range list {
			if n.UserID == userID {
				result = append(result, n)
			}
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *MemoryStorage) InsertNotifications(ctx context.Context, notifications []models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range notifications {
		n := &notifications[i]
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now()
		}
		s.notifications[n.PlantID] = append(s.notifications[n.PlantID], *n)
	}
	return nil
}

func (s *MemoryStorage) MarkNotificationRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for plantID, list := range s.notifications {
		for i := range list {
			if list[i].ID == id {
				s.notifications[plantID][i].Read = true
				return nil
			}
		}
	}
	return &apperr.NotFoundError{Entity: "notification", ID: id}
}

func (s *MemoryStorage) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for plantID, list := range s.notifications {
		for i := range list {
			if list[i].UserID == userID {
				s.notifications[plantID][i].Read = true
			}
		}
	}
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
