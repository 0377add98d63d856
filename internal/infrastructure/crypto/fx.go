package crypto

import (
	"encoding/base64"
	"fmt"

	"go.uber.org/fx"

	"github.com/masho-mammad/shadowclean-bot/config"
)

// Module provides the vault cipher for fx DI
var Module = fx.Module("crypto",
	fx.Provide(NewCipherFx),
)

// NewCipherFx builds the Cipher from config: an explicit base64 key wins,
// otherwise the key is derived from passphrase+salt.
func NewCipherFx(cfg *config.VaultConfig) (*Cipher, error) {
	var key []byte

	if cfg.Key != "" {
		raw, err := base64.StdEncoding.DecodeString(cfg.Key)
		if err != nil {
			return nil, fmt.Errorf("invalid VAULT_KEY: %w", err)
		}
		key = raw
	} else {
		key = DeriveKey(cfg.Passphrase, cfg.Salt)
	}

	return NewCipher(key)
}
