package notify

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notification is one queued push message. ChatID addresses the user's
// Telegram chat; Payload carries machine-readable event data.
type Notification struct {
	ChatID  int64
	Title   string
	Body    string
	Payload map[string]interface{}
}

// Provider delivers a single notification. Implementations are swapped
// without touching the queueing logic.
type Provider interface {
	Send(ctx context.Context, n Notification) error
}

// LogProvider writes notifications to the process log. Used when no
// delivery transport is configured.
type LogProvider struct{}

func (LogProvider) Send(_ context.Context, n Notification) error {
	log.Printf("[push] chat=%d %s: %s", n.ChatID, n.Title, n.Body)
	return nil
}

// TelegramProvider delivers notifications through the Telegram bot API.
type TelegramProvider struct {
	api *tgbotapi.BotAPI
}

func NewTelegramProvider(token string) (*TelegramProvider, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log.Printf("[info] push provider authorized on account %s", api.Self.UserName)
	return &TelegramProvider{api: api}, nil
}

func (p *TelegramProvider) Send(_ context.Context, n Notification) error {
	if n.ChatID == 0 {
		return fmt.Errorf("user has no telegram chat id")
	}
	msg := tgbotapi.NewMessage(n.ChatID, n.Title+"\n"+n.Body)
	if _, err := p.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
