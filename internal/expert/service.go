// Package expert orchestrates the AI-grounded operations: the chat turn
// pipeline and the care-guide cache-aside policy. It sits between the
// HTTP layer and the gateway/storage so both flows stay callable and
// testable without HTTP.
package expert

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xaenox/plant-pal/internal/ai"
	"github.com/xaenox/plant-pal/internal/models"
	"github.com/xaenox/plant-pal/internal/storage"
)

const (
	// historyLimit caps how much persisted conversation grounds a turn.
	historyLimit = 20
	// journalLimit caps how many recent journal notes ground a turn.
	journalLimit = 5
)

// Gateway is the slice of the AI gateway the service needs.
type Gateway interface {
	GenerateCareGuide(ctx context.Context, commonName, scientificName string) (*models.CareGuide, error)
	Converse(ctx context.Context, msgs []ai.Message) (string, error)
}

type Service struct {
	storage storage.Storage
	gateway Gateway
	now     func() time.Time
	logger  *zap.Logger
}

func NewService(store storage.Storage, gateway Gateway, logger *zap.Logger) *Service {
	return &Service{
		storage: store,
		gateway: gateway,
		now:     time.Now,
		logger:  logger,
	}
}

// ChatTurn runs one grounded conversation turn: load the plant and its
// context, assemble the message sequence, ask the model, then persist
// the user message and reply together. The synthetic grounding turns are
// rebuilt every call and never stored.
func (s *Service) ChatTurn(ctx context.Context, plantID, userID, message string) (string, int, error) {
	plant, err := s.storage.GetPlant(ctx, plantID)
	if err != nil {
		return "", 0, err
	}

	history, err := s.storage.ListChatMessages(ctx, plantID, historyLimit)
	if err != nil {
		return "", 0, err
	}
	journal, err := s.storage.ListJournalEntries(ctx, plantID, journalLimit)
	if err != nil {
		return "", 0, err
	}

	daysSinceAdded := models.DaysGrowing(plant.CreatedAt, s.now())

	msgs := ai.AssembleContext(plant, history, journal, daysSinceAdded)
	msgs = append(msgs, ai.Message{Role: string(models.RoleUser), Content: message})

	reply, err := s.gateway.Converse(ctx, msgs)
	if err != nil {
		return "", 0, err
	}

	userMsg := &models.ChatMessage{PlantID: plantID, UserID: userID, Role: models.RoleUser, Message: message}
	replyMsg := &models.ChatMessage{PlantID: plantID, UserID: userID, Role: models.RoleAssistant, Message: reply}
	if err := s.storage.AppendChatTurn(ctx, userMsg, replyMsg); err != nil {
		return "", 0, err
	}

	return reply, daysSinceAdded, nil
}

// EnsureCareGuide is the cache-aside read: when plantID refers to a
// plant that already has a guide it is returned as-is; otherwise a new
// guide is generated and, when a plant is known, written through to it.
// A concurrent duplicate generation is a wasted call, not a bug.
func (s *Service) EnsureCareGuide(ctx context.Context, plantName, scientificName, plantID string) (*models.CareGuide, bool, error) {
	if plantID != "" {
		plant, err := s.storage.GetPlant(ctx, plantID)
		if err != nil {
			return nil, false, err
		}
		if plant.CareGuide != nil {
			return plant.CareGuide, true, nil
		}
	}

	guide, err := s.gateway.GenerateCareGuide(ctx, plantName, scientificName)
	if err != nil {
		return nil, false, err
	}
	if guide.Reminders != nil {
		if err := guide.Reminders.Validate(); err != nil {
			s.logger.Warn("Generated care guide has unusable reminder schedule",
				zap.String("plant_name", plantName),
				zap.Error(err))
		}
	}

	if plantID != "" {
		if err := s.storage.SetCareGuide(ctx, plantID, guide); err != nil {
			return nil, false, err
		}
	}
	return guide, false, nil
}
