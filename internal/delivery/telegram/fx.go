package telegram

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/masho-mammad/shadowclean-bot/config"
	"github.com/masho-mammad/shadowclean-bot/internal/domain"
	"github.com/masho-mammad/shadowclean-bot/internal/infrastructure/bot"
	"github.com/masho-mammad/shadowclean-bot/internal/usecase"
)

// Module provides the Telegram delivery layer for fx dependency injection
var Module = fx.Module("delivery",
	fx.Provide(
		NewHandlersFx,
		NewRouter,
	),
	fx.Invoke(registerRoutes),
)

func NewHandlersFx(
	accounts domain.AccountRepository,
	states domain.StateStore,
	messenger domain.Messenger,
	auth *usecase.AuthUseCase,
	cleanup *usecase.CleanupUseCase,
	stalk *usecase.StalkUseCase,
	cfg *config.BotConfig,
	logger zerolog.Logger,
) *Handlers {
	return NewHandlers(accounts, states, messenger, auth, cleanup, stalk, cfg.DefaultCredits, logger)
}

func registerRoutes(router *Router, b *bot.Bot) {
	router.RegisterRoutes(b.Raw())
}
