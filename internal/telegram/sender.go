package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
)

// ErrUnavailable means the messaging integration is not configured at all
// (missing bot token). Callers treat this as a dispatch-level failure, not a
// per-recipient one.
var ErrUnavailable = errors.New("telegram sender unavailable: bot token not configured")

// Sender delivers a text message to a single Telegram user.
type Sender interface {
	SendMessage(ctx context.Context, telegramUserID int64, text string) error
}

// BotSender implements Sender over the Telegram Bot API.
type BotSender struct {
	b *bot.Bot
}

func NewBotSender(token string) (*BotSender, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrUnavailable
	}

	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot client: %w", err)
	}
	return &BotSender{b: b}, nil
}

func (s *BotSender) SendMessage(ctx context.Context, telegramUserID int64, text string) error {
	_, err := s.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: telegramUserID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send to %d failed: %w", telegramUserID, err)
	}
	return nil
}
