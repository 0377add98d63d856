package http

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/masho-mammad/shadowclean-bot/config"
	botinfra "github.com/masho-mammad/shadowclean-bot/internal/infrastructure/bot"
)

var Module = fx.Module(
	"http",
	fx.Invoke(registerServer),
)

// registerServer wires the HTTP surface: health, metrics and, in webhook
// mode, the Bot API update endpoint.
func registerServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	db *gorm.DB,
	b *botinfra.Bot,
	logger zerolog.Logger,
) {
	mux := http.NewServeMux()
	mux.Handle("/health", NewHealthHandler(db, logger))
	mux.Handle("/metrics", promhttp.Handler())
	if cfg.Bot.WebhookURL != "" {
		mux.Handle("/webhook", b.WebhookHandler())
	}

	server := NewServer(&cfg.Service, mux, logger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
