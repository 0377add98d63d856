// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/masho-mammad/shadowclean-bot/config"
	httpDelivery "github.com/masho-mammad/shadowclean-bot/internal/delivery/http"
	"github.com/masho-mammad/shadowclean-bot/internal/delivery/telegram"
	"github.com/masho-mammad/shadowclean-bot/internal/infrastructure"
	"github.com/masho-mammad/shadowclean-bot/internal/repository/postgres"
	"github.com/masho-mammad/shadowclean-bot/internal/usecase"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, database, crypto, MTProto, bot, kafka)
		infrastructure.Module,

		// Persistence
		postgres.Module,

		// Business logic
		usecase.Module,

		// Delivery surfaces
		telegram.Module,
		httpDelivery.Module,
	)
}
