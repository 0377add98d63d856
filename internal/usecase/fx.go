package usecase

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/masho-mammad/shadowclean-bot/config"
	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

var Module = fx.Module(
	"usecase",
	fx.Provide(
		NewSleeper,
		NewResolverFx,
		NewAuthUseCaseFx,
		NewCleanupUseCaseFx,
		NewStalkUseCaseFx,
	),
)

func NewResolverFx(logger zerolog.Logger) *Resolver {
	return NewResolver(logger)
}

func NewAuthUseCaseFx(
	gateway domain.LoginGateway,
	vault domain.CredentialVault,
	states domain.StateStore,
	pool domain.ConnPool,
	logger zerolog.Logger,
) *AuthUseCase {
	return NewAuthUseCase(gateway, vault, states, pool, logger)
}

func NewCleanupUseCaseFx(
	pool domain.ConnPool,
	audit domain.AuditProducer,
	sleeper domain.Sleeper,
	cfg *config.EngineConfig,
	logger zerolog.Logger,
) *CleanupUseCase {
	return NewCleanupUseCase(pool, audit, sleeper, cfg.DialogCap, logger)
}

func NewStalkUseCaseFx(
	pool domain.ConnPool,
	resolver *Resolver,
	audit domain.AuditProducer,
	logger zerolog.Logger,
) *StalkUseCase {
	return NewStalkUseCase(pool, resolver, audit, logger)
}
