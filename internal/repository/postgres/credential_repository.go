package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
	"github.com/masho-mammad/shadowclean-bot/internal/infrastructure/crypto"
)

// sessionTTL bounds how long an authorized session stays usable before the
// account has to log in again.
const sessionTTL = 24 * time.Hour

// credentialVault implements domain.CredentialVault over PostgreSQL.
// Session bytes are encrypted before they touch the database and decrypted
// on the way out; plaintext never persists.
type credentialVault struct {
	db     *gorm.DB
	cipher *crypto.Cipher
}

// NewCredentialVault creates a new PostgreSQL credential vault
func NewCredentialVault(db *gorm.DB, cipher *crypto.Cipher) domain.CredentialVault {
	return &credentialVault{db: db, cipher: cipher}
}

// Save replaces any prior record for the account with a fresh unauthorized
// one. Delete and insert run in one transaction so a crash cannot leave two
// records behind.
func (v *credentialVault) Save(ctx context.Context, accountID int64, phone string, session []byte, codeHash string) error {
	enc, err := v.cipher.Encrypt(session)
	if err != nil {
		return fmt.Errorf("failed to encrypt session: %w", err)
	}

	return v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", accountID).Delete(&CredentialModel{}).Error; err != nil {
			return fmt.Errorf("failed to drop prior credentials: %w", err)
		}

		model := CredentialModel{
			UserID:     accountID,
			Phone:      phone,
			EncSession: enc,
			CodeHash:   codeHash,
			Authorized: false,
			ExpiresAt:  time.Now().Add(sessionTTL),
		}
		if err := tx.Create(&model).Error; err != nil {
			return fmt.Errorf("failed to save credentials: %w", err)
		}
		return nil
	})
}

// UpdateSession refreshes the ciphertext of the existing record, leaving the
// authorized flag and expiry untouched.
func (v *credentialVault) UpdateSession(ctx context.Context, accountID int64, session []byte) error {
	enc, err := v.cipher.Encrypt(session)
	if err != nil {
		return fmt.Errorf("failed to encrypt session: %w", err)
	}

	result := v.db.WithContext(ctx).Model(&CredentialModel{}).
		Where("user_id = ?", accountID).
		Update("enc_session", enc)
	if result.Error != nil {
		return fmt.Errorf("failed to update session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNoActiveSession
	}
	return nil
}

// MarkAuthorized stores the final session bytes and flips the record to
// authorized. The code hash is cleared; it has served its purpose.
func (v *credentialVault) MarkAuthorized(ctx context.Context, accountID int64, session []byte) error {
	enc, err := v.cipher.Encrypt(session)
	if err != nil {
		return fmt.Errorf("failed to encrypt session: %w", err)
	}

	result := v.db.WithContext(ctx).Model(&CredentialModel{}).
		Where("user_id = ?", accountID).
		Updates(map[string]interface{}{
			"enc_session": enc,
			"authorized":  true,
			"code_hash":   "",
		})
	if result.Error != nil {
		return fmt.Errorf("failed to authorize session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNoActiveSession
	}
	return nil
}

// Get returns the record regardless of authorization or expiry, or nil when
// absent. The session ciphertext is decrypted before return.
func (v *credentialVault) Get(ctx context.Context, accountID int64) (*domain.CredentialRecord, error) {
	var model CredentialModel
	err := v.db.WithContext(ctx).Where("user_id = ?", accountID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}
	return v.toRecord(&model)
}

// GetUnexpiredAuthorized returns the record only while it is authorized and
// not yet expired. Expiry is checked lazily on read; stale rows stay in place
// until the next Save overwrites them.
func (v *credentialVault) GetUnexpiredAuthorized(ctx context.Context, accountID int64) (*domain.CredentialRecord, error) {
	record, err := v.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if record == nil || !record.Usable(time.Now()) {
		return nil, nil
	}
	return record, nil
}

// Delete hard-deletes the record
func (v *credentialVault) Delete(ctx context.Context, accountID int64) error {
	if err := v.db.WithContext(ctx).Where("user_id = ?", accountID).Delete(&CredentialModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}

func (v *credentialVault) toRecord(model *CredentialModel) (*domain.CredentialRecord, error) {
	session, err := v.cipher.Decrypt(model.EncSession)
	if err != nil {
		return nil, err
	}
	return &domain.CredentialRecord{
		AccountID:  model.UserID,
		Phone:      model.Phone,
		Session:    session,
		CodeHash:   model.CodeHash,
		Authorized: model.Authorized,
		ExpiresAt:  model.ExpiresAt,
	}, nil
}
