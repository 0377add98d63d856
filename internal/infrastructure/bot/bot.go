// Package bot contains Telegram Bot API infrastructure
package bot

import (
	"context"
	"fmt"
	"net/http"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// Bot wraps the Bot API client. The control surface of the service talks to
// end users through it; the MTProto side never does.
type Bot struct {
	bot        *tgbot.Bot
	webhookURL string
	logger     zerolog.Logger
}

// NewBot creates a new Telegram bot wrapper
func NewBot(token, webhookURL string, logger zerolog.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(func(ctx context.Context, b *tgbot.Bot, update *models.Update) {}),
		tgbot.WithSkipGetMe(),
	}

	b, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info().Msg("Telegram bot created successfully")

	return &Bot{
		bot:        b,
		webhookURL: webhookURL,
		logger:     logger,
	}, nil
}

// Raw returns the underlying telegram bot for handler registration
func (b *Bot) Raw() *tgbot.Bot {
	return b.bot
}

// WebhookHandler returns the HTTP handler that feeds webhook updates into
// the bot's dispatch loop.
func (b *Bot) WebhookHandler() http.Handler {
	return b.bot.WebhookHandler()
}

// Start starts the update loop, webhook or long polling depending on
// configuration (blocking call).
func (b *Bot) Start(ctx context.Context) error {
	if b.webhookURL != "" {
		b.logger.Info().Str("url", b.webhookURL).Msg("Starting Telegram bot in webhook mode...")
		if _, err := b.bot.SetWebhook(ctx, &tgbot.SetWebhookParams{URL: b.webhookURL}); err != nil {
			return fmt.Errorf("failed to set webhook: %w", err)
		}
		b.bot.StartWebhook(ctx)
	} else {
		b.logger.Info().Msg("Starting Telegram bot in long polling mode...")
		b.bot.Start(ctx)
	}
	b.logger.Info().Msg("Telegram bot stopped")
	return nil
}
