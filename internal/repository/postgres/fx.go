package postgres

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/masho-mammad/shadowclean-bot/config"
	"github.com/masho-mammad/shadowclean-bot/internal/domain"
	"github.com/masho-mammad/shadowclean-bot/internal/infrastructure/crypto"
)

var Module = fx.Module(
	"repository",
	fx.Provide(
		NewAccountRepositoryFx,
		NewCredentialVaultFx,
	),
)

func NewAccountRepositoryFx(db *gorm.DB, cfg *config.BotConfig) domain.AccountRepository {
	return NewAccountRepository(db, cfg.AdminIDs, cfg.DefaultCredits)
}

func NewCredentialVaultFx(db *gorm.DB, cipher *crypto.Cipher) domain.CredentialVault {
	return NewCredentialVault(db, cipher)
}
