package telegram

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/masho-mammad/shadowclean-bot/config"
	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

var Module = fx.Module(
	"telegram",
	fx.Provide(
		NewLoginGatewayFx,
		NewPoolFx,
	),
)

func NewLoginGatewayFx(cfg *config.TelegramConfig, logger zerolog.Logger) domain.LoginGateway {
	return NewLoginGateway(cfg.APIID, cfg.APIHash, logger)
}

func NewPoolFx(lc fx.Lifecycle, cfg *config.Config, vault domain.CredentialVault, logger zerolog.Logger) domain.ConnPool {
	pool := NewPool(
		cfg.Telegram.APIID,
		cfg.Telegram.APIHash,
		cfg.Engine.ConnTTL,
		cfg.Engine.SearchPageSize,
		vault,
		logger,
	)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pool.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool
}
