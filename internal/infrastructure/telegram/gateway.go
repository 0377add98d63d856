package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/rs/zerolog"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
	"github.com/masho-mammad/shadowclean-bot/internal/utils"
)

// stepTimeout bounds one webhook-driven authentication step. Each step opens
// its own ephemeral connection; a hung DC must not hold a webhook worker.
const stepTimeout = 90 * time.Second

// LoginGateway executes single authentication steps over short-lived MTProto
// connections. Session bytes travel through the vault between steps, so no
// connection outlives a webhook event.
type LoginGateway struct {
	apiID   int
	apiHash string
	logger  zerolog.Logger
}

// NewLoginGateway creates a new login gateway
func NewLoginGateway(apiID int, apiHash string, logger zerolog.Logger) *LoginGateway {
	return &LoginGateway{
		apiID:   apiID,
		apiHash: apiHash,
		logger:  logger.With().Str("component", "login_gateway").Logger(),
	}
}

// runStep connects with the seeded session, executes fn inside the running
// client and returns the (possibly refreshed) session bytes afterwards.
func (g *LoginGateway) runStep(ctx context.Context, seed []byte, fn func(ctx context.Context, client *telegram.Client) error) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, stepTimeout)
	defer cancel()

	storage := newMemorySessionStorage(seed)
	client := telegram.NewClient(g.apiID, g.apiHash, telegram.Options{
		SessionStorage: storage,
	})

	err := client.Run(ctx, func(ctx context.Context) error {
		return fn(ctx, client)
	})
	if err != nil {
		return storage.Bytes(), err
	}
	return storage.Bytes(), nil
}

// SendCode opens a fresh unauthenticated connection and asks Telegram to send
// a verification code to the phone. Returns the ephemeral session bytes and
// the code hash needed to redeem the code.
func (g *LoginGateway) SendCode(ctx context.Context, phone string) ([]byte, string, error) {
	logger := g.logger.With().Str("phone", utils.MaskPhoneNumber(phone)).Logger()
	logger.Info().Msg("requesting verification code")

	var codeHash string
	session, err := g.runStep(ctx, nil, func(ctx context.Context, client *telegram.Client) error {
		sent, err := client.Auth().SendCode(ctx, phone, auth.SendCodeOptions{})
		if err != nil {
			return err
		}
		code, ok := sent.(*tg.AuthSentCode)
		if !ok {
			return fmt.Errorf("unexpected sent code type %T", sent)
		}
		codeHash = code.PhoneCodeHash
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to send code")
		return nil, "", mapAuthError(err)
	}

	logger.Info().Msg("verification code sent")
	return session, codeHash, nil
}

// SignInCode restores the session and redeems the verification code. When the
// account has 2FA enabled the refreshed session is returned together with
// domain.ErrPasswordNeeded so the password step can continue from it.
func (g *LoginGateway) SignInCode(ctx context.Context, session []byte, phone, code, codeHash string) ([]byte, error) {
	logger := g.logger.With().Str("phone", utils.MaskPhoneNumber(phone)).Logger()
	logger.Info().Msg("signing in with code")

	refreshed, err := g.runStep(ctx, session, func(ctx context.Context, client *telegram.Client) error {
		_, err := client.Auth().SignIn(ctx, phone, code, codeHash)
		return err
	})
	if err != nil {
		if errors.Is(err, auth.ErrPasswordAuthNeeded) || tgerr.Is(err, "SESSION_PASSWORD_NEEDED") {
			logger.Info().Msg("account has 2FA enabled")
			return refreshed, domain.ErrPasswordNeeded
		}
		logger.Warn().Err(err).Msg("code sign-in failed")
		return nil, mapAuthError(err)
	}

	logger.Info().Msg("signed in")
	return refreshed, nil
}

// SignInPassword completes a 2FA login from the session left by the code step
func (g *LoginGateway) SignInPassword(ctx context.Context, session []byte, password string) ([]byte, error) {
	g.logger.Info().Msg("signing in with 2FA password")

	refreshed, err := g.runStep(ctx, session, func(ctx context.Context, client *telegram.Client) error {
		_, err := client.Auth().Password(ctx, password)
		return err
	})
	if err != nil {
		g.logger.Warn().Err(err).Msg("password sign-in failed")
		return nil, mapAuthError(err)
	}

	g.logger.Info().Msg("signed in")
	return refreshed, nil
}

// LogOut invalidates the session remotely, best effort
func (g *LoginGateway) LogOut(ctx context.Context, session []byte) error {
	_, err := g.runStep(ctx, session, func(ctx context.Context, client *telegram.Client) error {
		_, err := client.API().AuthLogOut(ctx)
		return err
	})
	if err != nil {
		g.logger.Warn().Err(err).Msg("remote logout failed")
		return fmt.Errorf("failed to log out: %w", err)
	}
	return nil
}

// mapAuthError translates platform auth errors into domain sentinels
func mapAuthError(err error) error {
	switch {
	case tgerr.Is(err, "PHONE_CODE_INVALID"):
		return domain.ErrCodeInvalid
	case tgerr.Is(err, "PHONE_CODE_EXPIRED"):
		return domain.ErrCodeExpired
	case tgerr.Is(err, "PASSWORD_HASH_INVALID"):
		return domain.ErrPasswordInvalid
	case errors.Is(err, auth.ErrPasswordAuthNeeded), tgerr.Is(err, "SESSION_PASSWORD_NEEDED"):
		return domain.ErrPasswordNeeded
	default:
		return fmt.Errorf("%w: %v", domain.ErrLoginFailed, err)
	}
}

var _ domain.LoginGateway = (*LoginGateway)(nil)
