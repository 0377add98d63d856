// Package infrastructure aggregates infrastructure modules
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/masho-mammad/shadowclean-bot/internal/infrastructure/bot"
	"github.com/masho-mammad/shadowclean-bot/internal/infrastructure/crypto"
	"github.com/masho-mammad/shadowclean-bot/internal/infrastructure/database"
	"github.com/masho-mammad/shadowclean-bot/internal/infrastructure/kafka"
	"github.com/masho-mammad/shadowclean-bot/internal/infrastructure/logger"
	"github.com/masho-mammad/shadowclean-bot/internal/infrastructure/metrics"
	"github.com/masho-mammad/shadowclean-bot/internal/infrastructure/state"
	"github.com/masho-mammad/shadowclean-bot/internal/infrastructure/telegram"
)

// Module aggregates all infrastructure modules
var Module = fx.Module("infrastructure",
	logger.Module,
	database.Module, // Must be before repositories (they depend on *gorm.DB)
	crypto.Module,
	state.Module,
	metrics.Module,
	telegram.Module,
	bot.Module,
	kafka.Module,
)
