package state

import (
	"go.uber.org/fx"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

// Module provides the conversation state store for fx DI
var Module = fx.Module("state",
	fx.Provide(func() domain.StateStore { return NewMemoryStore() }),
)
