// Package bot contains Telegram Bot API infrastructure
package bot

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/masho-mammad/shadowclean-bot/config"
	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

// Module provides the Bot API transport for fx dependency injection
var Module = fx.Module("bot",
	fx.Provide(
		provideBot,
		provideMessenger,
	),
	fx.Invoke(registerLifecycle),
)

func provideBot(cfg *config.BotConfig, logger zerolog.Logger) (*Bot, error) {
	return NewBot(cfg.Token, cfg.WebhookURL, logger)
}

func provideMessenger(b *Bot, logger zerolog.Logger) domain.Messenger {
	return NewMessenger(b, logger)
}

// registerLifecycle starts the update loop with the application
func registerLifecycle(lc fx.Lifecycle, bot *Bot) {
	var cancel context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())

			// Start bot in a goroutine since it's a blocking call
			go func() {
				_ = bot.Start(ctx)
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			if cancel != nil {
				cancel()
			}
			return nil
		},
	})
}
