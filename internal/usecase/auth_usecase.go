package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
	"github.com/masho-mammad/shadowclean-bot/internal/infrastructure/metrics"
	"github.com/masho-mammad/shadowclean-bot/internal/utils"
)

// AuthUseCase drives the phone -> code -> optional password login flow.
// Between steps the half-open session lives encrypted in the vault and the
// conversation position in the state store; no connection survives a step.
type AuthUseCase struct {
	gateway domain.LoginGateway
	vault   domain.CredentialVault
	states  domain.StateStore
	pool    domain.ConnPool
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewAuthUseCase creates a new auth use case
func NewAuthUseCase(
	gateway domain.LoginGateway,
	vault domain.CredentialVault,
	states domain.StateStore,
	pool domain.ConnPool,
	logger zerolog.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		gateway: gateway,
		vault:   vault,
		states:  states,
		pool:    pool,
		logger:  logger,
		metrics: metrics.GetDefaultMetrics(),
	}
}

// StartLogin begins a login conversation. Any pending login for the account
// is superseded, not merged.
func (u *AuthUseCase) StartLogin(accountID int64) {
	u.states.Set(accountID, domain.ConversationData{State: domain.StateAwaitingPhone})
}

// SubmitPhone requests a verification code and advances to awaiting-code.
// A platform failure reports login-failed and returns the account to start.
func (u *AuthUseCase) SubmitPhone(ctx context.Context, accountID int64, phone string) error {
	u.metrics.RecordLoginStep("phone")

	session, codeHash, err := u.gateway.SendCode(ctx, phone)
	if err != nil {
		u.metrics.RecordLoginFailure("phone", "send_code")
		u.states.Clear(accountID)
		u.logger.Warn().Err(err).
			Int64("account_id", accountID).
			Str("phone", utils.MaskPhoneNumber(phone)).
			Msg("send code failed")
		return err
	}

	if err := u.vault.Save(ctx, accountID, phone, session, codeHash); err != nil {
		u.metrics.RecordLoginFailure("phone", "vault")
		u.states.Clear(accountID)
		return fmt.Errorf("failed to persist login state: %w", err)
	}

	u.states.Set(accountID, domain.ConversationData{
		State:    domain.StateAwaitingCode,
		Phone:    phone,
		CodeHash: codeHash,
	})
	return nil
}

// SubmitCode redeems the verification code.
// Invalid code keeps the account at awaiting-code so it can resubmit; an
// expired code resets the flow to start; a 2FA account advances to
// awaiting-password with the intermediate session persisted.
func (u *AuthUseCase) SubmitCode(ctx context.Context, accountID int64, code string) error {
	u.metrics.RecordLoginStep("code")

	data := u.states.Get(accountID)
	if data.State != domain.StateAwaitingCode {
		return domain.ErrLoginFailed
	}

	record, err := u.vault.Get(ctx, accountID)
	if err != nil || record == nil {
		u.states.Clear(accountID)
		if err == nil {
			err = domain.ErrLoginFailed
		}
		return err
	}

	session, signErr := u.gateway.SignInCode(ctx, record.Session, data.Phone, code, data.CodeHash)
	switch {
	case signErr == nil:
		if err := u.vault.MarkAuthorized(ctx, accountID, session); err != nil {
			return fmt.Errorf("failed to persist authorized session: %w", err)
		}
		u.states.Clear(accountID)
		u.logger.Info().Int64("account_id", accountID).Msg("account logged in")
		return nil

	case errors.Is(signErr, domain.ErrPasswordNeeded):
		if err := u.vault.UpdateSession(ctx, accountID, session); err != nil {
			return fmt.Errorf("failed to persist intermediate session: %w", err)
		}
		data.State = domain.StateAwaitingPassword
		u.states.Set(accountID, data)
		return domain.ErrPasswordNeeded

	case errors.Is(signErr, domain.ErrCodeInvalid):
		u.metrics.RecordLoginFailure("code", "invalid")
		return signErr // state untouched, resubmission allowed

	case errors.Is(signErr, domain.ErrCodeExpired):
		u.metrics.RecordLoginFailure("code", "expired")
		u.states.Clear(accountID)
		return signErr

	default:
		u.metrics.RecordLoginFailure("code", "platform")
		u.states.Clear(accountID)
		return signErr
	}
}

// SubmitPassword completes a 2FA login. A wrong password keeps the account
// at awaiting-password.
func (u *AuthUseCase) SubmitPassword(ctx context.Context, accountID int64, password string) error {
	u.metrics.RecordLoginStep("password")

	data := u.states.Get(accountID)
	if data.State != domain.StateAwaitingPassword {
		return domain.ErrLoginFailed
	}

	record, err := u.vault.Get(ctx, accountID)
	if err != nil || record == nil {
		u.states.Clear(accountID)
		if err == nil {
			err = domain.ErrLoginFailed
		}
		return err
	}

	session, signErr := u.gateway.SignInPassword(ctx, record.Session, password)
	switch {
	case signErr == nil:
		if err := u.vault.MarkAuthorized(ctx, accountID, session); err != nil {
			return fmt.Errorf("failed to persist authorized session: %w", err)
		}
		u.states.Clear(accountID)
		u.logger.Info().Int64("account_id", accountID).Msg("account logged in with 2FA")
		return nil

	case errors.Is(signErr, domain.ErrPasswordInvalid):
		u.metrics.RecordLoginFailure("password", "invalid")
		return signErr // state untouched, resubmission allowed

	default:
		u.metrics.RecordLoginFailure("password", "platform")
		u.states.Clear(accountID)
		return signErr
	}
}

// Logout invalidates the session remotely best effort, deletes the vault
// record, evicts the pooled connection and clears conversation state. Always
// succeeds locally.
func (u *AuthUseCase) Logout(ctx context.Context, accountID int64) {
	record, err := u.vault.Get(ctx, accountID)
	if err == nil && record != nil && record.Authorized {
		if err := u.gateway.LogOut(ctx, record.Session); err != nil {
			u.logger.Debug().Err(err).Int64("account_id", accountID).Msg("remote logout failed, ignoring")
		}
	}

	if err := u.vault.Delete(ctx, accountID); err != nil {
		u.logger.Warn().Err(err).Int64("account_id", accountID).Msg("failed to delete credentials")
	}
	u.pool.Evict(accountID)
	u.states.Clear(accountID)
	u.logger.Info().Int64("account_id", accountID).Msg("account logged out")
}

// HasActiveSession reports whether a usable authorized session exists
func (u *AuthUseCase) HasActiveSession(ctx context.Context, accountID int64) bool {
	record, err := u.vault.GetUnexpiredAuthorized(ctx, accountID)
	return err == nil && record != nil
}
