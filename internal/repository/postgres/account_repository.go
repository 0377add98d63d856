package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

// accountRepository implements domain.AccountRepository using PostgreSQL
type accountRepository struct {
	db             *gorm.DB
	adminIDs       map[int64]struct{}
	defaultCredits int
}

// NewAccountRepository creates a new PostgreSQL account repository.
// adminIDs come from configuration; matching accounts are flagged admin on
// first contact.
func NewAccountRepository(db *gorm.DB, adminIDs []int64, defaultCredits int) domain.AccountRepository {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &accountRepository{
		db:             db,
		adminIDs:       admins,
		defaultCredits: defaultCredits,
	}
}

func (r *accountRepository) isConfiguredAdmin(id int64) bool {
	_, ok := r.adminIDs[id]
	return ok
}

func toAccount(m *UserModel) *domain.Account {
	return &domain.Account{
		ID:        m.ID,
		Username:  m.Username,
		FirstName: m.FirstName,
		Lang:      m.Lang,
		Credits:   m.Credits,
		IsBanned:  m.IsBanned,
		IsAdmin:   m.IsAdmin,
		TotalUsed: m.TotalUsed,
		CreatedAt: m.CreatedAt,
	}
}

// GetOrCreate returns the account, creating it on first contact and
// refreshing mutable identity fields when they changed.
func (r *accountRepository) GetOrCreate(ctx context.Context, id int64, username, firstName string) (*domain.Account, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		model = UserModel{
			ID:        id,
			Username:  username,
			FirstName: firstName,
			Lang:      "fa",
			Credits:   r.defaultCredits,
			IsAdmin:   r.isConfiguredAdmin(id),
		}
		if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
		return toAccount(&model), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	updates := map[string]interface{}{}
	if username != "" && model.Username != username {
		updates["username"] = username
		model.Username = username
	}
	if firstName != "" && model.FirstName != firstName {
		updates["first_name"] = firstName
		model.FirstName = firstName
	}
	if r.isConfiguredAdmin(id) && !model.IsAdmin {
		updates["is_admin"] = true
		model.IsAdmin = true
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(&model).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update account: %w", err)
		}
	}

	return toAccount(&model), nil
}

// Get returns the account or domain.ErrAccountNotFound
func (r *accountRepository) Get(ctx context.Context, id int64) (*domain.Account, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return toAccount(&model), nil
}

// ChargeCredit decrements credits and bumps the usage counter. Admins are
// charged usage only.
func (r *accountRepository) ChargeCredit(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model UserModel
		if err := tx.Where("id = ?", id).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAccountNotFound
			}
			return fmt.Errorf("failed to query account: %w", err)
		}

		updates := map[string]interface{}{"total_used": gorm.Expr("total_used + 1")}
		if !model.IsAdmin && !r.isConfiguredAdmin(id) {
			if model.Credits <= 0 {
				return domain.ErrNoCredits
			}
			updates["credits"] = gorm.Expr("credits - 1")
		}

		if err := tx.Model(&UserModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to charge credit: %w", err)
		}
		return nil
	})
}

// AddCredits adds n credits and returns the new balance
func (r *accountRepository) AddCredits(ctx context.Context, id int64, n int) (int, error) {
	var balance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&UserModel{}).Where("id = ?", id).
			Update("credits", gorm.Expr("credits + ?", n))
		if result.Error != nil {
			return fmt.Errorf("failed to add credits: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrAccountNotFound
		}

		var model UserModel
		if err := tx.Where("id = ?", id).First(&model).Error; err != nil {
			return fmt.Errorf("failed to reload account: %w", err)
		}
		balance = model.Credits
		return nil
	})
	return balance, err
}

// SetCredits sets the balance to n
func (r *accountRepository) SetCredits(ctx context.Context, id int64, n int) error {
	result := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).
		Update("credits", n)
	if result.Error != nil {
		return fmt.Errorf("failed to set credits: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// SetBanned flips the banned flag
func (r *accountRepository) SetBanned(ctx context.Context, id int64, banned bool) error {
	result := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).
		Update("is_banned", banned)
	if result.Error != nil {
		return fmt.Errorf("failed to update banned flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// SetLang stores the preferred locale
func (r *accountRepository) SetLang(ctx context.Context, id int64, lang string) error {
	result := r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).
		Update("lang", lang)
	if result.Error != nil {
		return fmt.Errorf("failed to update lang: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// All returns every account
func (r *accountRepository) All(ctx context.Context) ([]domain.Account, error) {
	var models []UserModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	accounts := make([]domain.Account, 0, len(models))
	for i := range models {
		accounts = append(accounts, *toAccount(&models[i]))
	}
	return accounts, nil
}

// Stats returns total, banned and logged-in account counts
func (r *accountRepository) Stats(ctx context.Context) (int64, int64, int64, error) {
	var total, banned, loggedIn int64

	if err := r.db.WithContext(ctx).Model(&UserModel{}).Count(&total).Error; err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&UserModel{}).Where("is_banned").Count(&banned).Error; err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count banned accounts: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&CredentialModel{}).Where("authorized").Count(&loggedIn).Error; err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count authorized sessions: %w", err)
	}

	return total, banned, loggedIn, nil
}
