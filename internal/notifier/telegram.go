// Package notifier delivers reminder notifications to external channels.
package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/xaenox/plant-pal/internal/models"
)

// TelegramNotifier forwards reminders to a configured Telegram chat.
// The web UI has its own notification panel; this is the out-of-app
// push channel for deployments that want one.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram notifier: %w", err)
	}
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

func (t *TelegramNotifier) Push(ctx context.Context, n models.Notification) error {
	msg := tgbotapi.NewMessage(t.chatID, n.Message)
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
