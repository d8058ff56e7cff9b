package notify

// Telegram delivery for watcher notifications.
// Plain-text sendMessage per recipient chat; delivery is best-effort and
// callers are expected to log and move on when a send fails.

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends notifications through a single bot.
type Telegram struct {
	bot *tgbotapi.BotAPI
}

// NewTelegram authorizes the bot with the given token.
func NewTelegram(token string) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}
	return &Telegram{bot: bot}, nil
}

// BotUsername returns the authorized bot's username, for startup logging.
func (t *Telegram) BotUsername() string {
	return t.bot.Self.UserName
}

// Notify sends one plain-text message to the given chat.
// The context is checked up front; tgbotapi does not take one per call.
func (t *Telegram) Notify(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message to %d: %w", chatID, err)
	}
	return nil
}
