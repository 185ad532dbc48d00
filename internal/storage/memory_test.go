package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/plant-pal/internal/apperr"
	"github.com/xaenox/plant-pal/internal/models"
)

func TestPlantLifecycle(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	plant := &models.Plant{UserID: "u1", PlantName: "Monstera"}
	require.NoError(t, s.CreatePlant(ctx, plant))
	require.NotEmpty(t, plant.ID)
	require.False(t, plant.CreatedAt.IsZero())

	got, err := s.GetPlant(ctx, plant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Monstera", got.PlantName)
	assert.Nil(t, got.CareGuide)

	guide := &models.CareGuide{Difficulty: "Beginner"}
	require.NoError(t, s.SetCareGuide(ctx, plant.ID, guide))

	got, err = s.GetPlant(ctx, plant.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CareGuide)
	assert.Equal(t, "Beginner", got.CareGuide.Difficulty)

	// Overwrite, not append: a plant has at most one guide.
	require.NoError(t, s.SetCareGuide(ctx, plant.ID, &models.CareGuide{Difficulty: "Expert"}))
	got, _ = s.GetPlant(ctx, plant.ID)
	assert.Equal(t, "Expert", got.CareGuide.Difficulty)

	require.NoError(t, s.DeletePlant(ctx, plant.ID))
	_, err = s.GetPlant(ctx, plant.ID)
	var notFound *apperr.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestGetPlantUnknown(t *testing.T) {
	s := NewMemoryStorage()

	_, err := s.GetPlant(context.Background(), "nope")

	var notFound *apperr.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "plant", notFound.Entity)
}

func TestChatTurnsKeepOrder(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		user := &models.ChatMessage{PlantID: "p1", UserID: "u1", Role: models.RoleUser,
			Message: "question", CreatedAt: base.Add(time.Duration(2*i) * time.Minute)}
		reply := &models.ChatMessage{PlantID: "p1", UserID: "u1", Role: models.RoleAssistant,
			Message: "answer", CreatedAt: base.Add(time.Duration(2*i+1) * time.Minute)}
		require.NoError(t, s.AppendChatTurn(ctx, user, reply))
	}

	msgs, err := s.ListChatMessages(ctx, "p1", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 6)
	for i := 0; i < len(msgs)-1; i++ {
		assert.False(t, msgs[i].CreatedAt.After(msgs[i+1].CreatedAt), "ascending order")
	}
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, models.RoleAssistant, msgs[5].Role)
}

func TestListChatMessagesLimitKeepsTail(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 4; i++ {
		user := &models.ChatMessage{PlantID: "p1", Role: models.RoleUser,
			Message: "old", CreatedAt: base.Add(time.Duration(2*i) * time.Minute)}
		reply := &models.ChatMessage{PlantID: "p1", Role: models.RoleAssistant,
			Message: "new", CreatedAt: base.Add(time.Duration(2*i+1) * time.Minute)}
		require.NoError(t, s.AppendChatTurn(ctx, user, reply))
	}

	msgs, err := s.ListChatMessages(ctx, "p1", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	// The most recent two messages, still ascending.
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "new", msgs[1].Message)
}

func TestClearChatMessages(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, s.AppendChatTurn(ctx,
		&models.ChatMessage{PlantID: "p1", Role: models.RoleUser, Message: "hi"},
		&models.ChatMessage{PlantID: "p1", Role: models.RoleAssistant, Message: "hello"}))
	require.NoError(t, s.ClearChatMessages(ctx, "p1"))

	msgs, err := s.ListChatMessages(ctx, "p1", 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestJournalNewestFirstWithLimit(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	base := time.Now().Add(-24 * time.Hour)
	for i := 0; i < 7; i++ {
		require.NoError(t, s.CreateJournalEntry(ctx, &models.JournalEntry{
			PlantID:  "p1",
			Note:     "note",
			LoggedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	entries, err := s.ListJournalEntries(ctx, "p1", 5)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	for i := 0; i < len(entries)-1; i++ {
		assert.True(t, entries[i].LoggedAt.After(entries[i+1].LoggedAt), "newest first")
	}
}

func TestLatestNotificationByType(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, s.InsertNotifications(ctx, []models.Notification{
		{PlantID: "p1", UserID: "u1", Type: models.NotificationWatering, Message: "old", CreatedAt: now.Add(-48 * time.Hour)},
		{PlantID: "p1", UserID: "u1", Type: models.NotificationWatering, Message: "recent", CreatedAt: now.Add(-2 * time.Hour)},
		{PlantID: "p1", UserID: "u1", Type: models.NotificationFertilizing, Message: "fert", CreatedAt: now.Add(-time.Hour)},
	}))

	latest, err := s.LatestNotification(ctx, "p1", models.NotificationWatering)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "recent", latest.Message)

	none, err := s.LatestNotification(ctx, "p1", models.NotificationRepotting)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestMarkNotificationsRead(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	notifications := []models.Notification{
		{PlantID: "p1", UserID: "u1", Type: models.NotificationWatering, Message: "a"},
		{PlantID: "p2", UserID: "u1", Type: models.NotificationWatering, Message: "b"},
	}
	require.NoError(t, s.InsertNotifications(ctx, notifications))
	require.NotEmpty(t, notifications[0].ID, "batch insert assigns ids")

	require.NoError(t, s.MarkNotificationRead(ctx, notifications[0].ID))
	list, err := s.ListNotificationsByUser(ctx, "u1", 0)
	require.NoError(t, err)
	read := 0
	for _, n := range list {
		if n.Read {
			read++
		}
	}
	assert.Equal(t, 1, read)

	require.NoError(t, s.MarkAllNotificationsRead(ctx, "u1"))
	list, _ = s.ListNotificationsByUser(ctx, "u1", 0)
	for _, n := range list {
		assert.True(t, n.Read)
	}
}
