package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"TubeDigest/internal/config"
	"TubeDigest/internal/ports"
)

// Sender posts messages to a Telegram chat via the bot API.
type Sender struct {
	bot    *bot.Bot
	chatID string
}

var _ ports.ChatSender = (*Sender)(nil)

// NewSender registers the bot token and chat identifier.
func NewSender(cfg config.TelegramConfig) (*Sender, error) {
	if cfg.BotToken == "" || cfg.ChatID == "" {
		return nil, fmt.Errorf("telegram sender misconfigured")
	}

	opts := []bot.Option{
		bot.WithSkipGetMe(),
		bot.WithHTTPClient(30*time.Second, &http.Client{Timeout: 30 * time.Second}),
	}
	if cfg.ServerURL != "" {
		opts = append(opts, bot.WithServerURL(cfg.ServerURL))
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Sender{bot: b, chatID: cfg.ChatID}, nil
}

// Send posts text to the configured chat; format is a Telegram parse mode or empty for plain text.
func (s *Sender) Send(ctx context.Context, text, format string) error {
	params := &bot.SendMessageParams{
		ChatID:    s.chatID,
		Text:      text,
		ParseMode: models.ParseMode(format),
	}
	if _, err := s.bot.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
