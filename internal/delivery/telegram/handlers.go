// Package telegram contains the Telegram delivery layer
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
	"github.com/masho-mammad/shadowclean-bot/internal/usecase"
	"github.com/masho-mammad/shadowclean-bot/internal/utils"
)

const (
	// backgroundTimeout bounds one long-running operation end to end
	backgroundTimeout = 30 * time.Minute

	// stalkPreviewLimit caps the per-dialog preview shown from the panel
	stalkPreviewLimit = 30

	// previewChunkSize is how many previews fit one outgoing message
	previewChunkSize = 5

	// broadcastPacing throttles admin broadcast sends
	broadcastPacing = 100 * time.Millisecond

	// shortErrorLimit caps error text shown to the user, in runes
	shortErrorLimit = 200
)

// Handlers contains Telegram update handlers. Fast interactions are served
// inline; anything touching MTProto is acknowledged right away and runs in a
// background goroutine so the webhook never blocks on Telegram.
type Handlers struct {
	accounts       domain.AccountRepository
	states         domain.StateStore
	messenger      domain.Messenger
	auth           *usecase.AuthUseCase
	cleanup        *usecase.CleanupUseCase
	stalk          *usecase.StalkUseCase
	defaultCredits int
	logger         zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(
	accounts domain.AccountRepository,
	states domain.StateStore,
	messenger domain.Messenger,
	auth *usecase.AuthUseCase,
	cleanup *usecase.CleanupUseCase,
	stalk *usecase.StalkUseCase,
	defaultCredits int,
	logger zerolog.Logger,
) *Handlers {
	return &Handlers{
		accounts:       accounts,
		states:         states,
		messenger:      messenger,
		auth:           auth,
		cleanup:        cleanup,
		stalk:          stalk,
		defaultCredits: defaultCredits,
		logger:         logger.With().Str("component", "handlers").Logger(),
	}
}

func (h *Handlers) send(ctx context.Context, chatID int64, text string, markup any) {
	if _, err := h.messenger.Send(ctx, chatID, text, markup); err != nil {
		h.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

// edit updates a message in place, falling back to a fresh send when the
// original is gone.
func (h *Handlers) edit(ctx context.Context, chatID int64, messageID int, text string, markup any) {
	if err := h.messenger.Edit(ctx, chatID, messageID, text, markup); err != nil {
		h.send(ctx, chatID, text, markup)
	}
}

// background runs fn detached from the webhook request with its own deadline.
func (h *Handlers) background(task string, fn func(ctx context.Context)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error().Interface("panic", r).Str("task", task).Msg("Background task panicked")
			}
		}()
		fn(ctx)
	}()
}

// loadAccount upserts the account from update metadata.
func (h *Handlers) loadAccount(ctx context.Context, from *models.User) (*domain.Account, error) {
	account, err := h.accounts.GetOrCreate(ctx, from.ID, from.Username, from.FirstName)
	if err != nil {
		h.logger.Error().Err(err).Int64("account_id", from.ID).Msg("Failed to load account")
		return nil, err
	}
	return account, nil
}

func hasCredit(account *domain.Account) bool {
	return account.IsAdmin || account.Credits > 0
}

// chargeCredit consumes one credit before an engine path starts. Reports the
// exhausted-quota message itself and returns false when the path must stop.
func (h *Handlers) chargeCredit(ctx context.Context, chatID int64, account *domain.Account) bool {
	err := h.accounts.ChargeCredit(ctx, account.ID)
	if err == nil {
		return true
	}
	if errors.Is(err, domain.ErrNoCredits) {
		h.send(ctx, chatID, text(account.Lang, "no_credit"), nil)
	} else {
		h.logger.Error().Err(err).Int64("account_id", account.ID).Msg("Failed to charge credit")
		h.send(ctx, chatID, errorText(account.Lang, "internal"), nil)
	}
	return false
}

func (h *Handlers) sendWelcome(ctx context.Context, chatID int64, account *domain.Account) {
	h.send(ctx, chatID, welcomeText(account.Lang, account), mainKeyboard(account.Lang, account.IsAdmin))
}

func shortError(err error) string {
	return utils.TruncateText(err.Error(), shortErrorLimit)
}

// HandleStart handles /start
func (h *Handlers) HandleStart(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	account, err := h.loadAccount(ctx, msg.From)
	if err != nil {
		return
	}
	if account.IsBanned {
		h.send(ctx, msg.Chat.ID, text(account.Lang, "banned"), nil)
		return
	}
	h.sendWelcome(ctx, msg.Chat.ID, account)
}

// HandleHelp handles /help
func (h *Handlers) HandleHelp(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	account, err := h.loadAccount(ctx, msg.From)
	if err != nil {
		return
	}
	h.send(ctx, msg.Chat.ID, helpText(account.Lang, h.defaultCredits), mainKeyboard(account.Lang, account.IsAdmin))
}

// HandleLogin handles /login
func (h *Handlers) HandleLogin(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	account, err := h.loadAccount(ctx, msg.From)
	if err != nil {
		return
	}
	if account.IsBanned {
		h.send(ctx, msg.Chat.ID, text(account.Lang, "banned"), nil)
		return
	}
	h.startLogin(ctx, msg.Chat.ID, account)
}

// HandleLogout handles /logout
func (h *Handlers) HandleLogout(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	account, err := h.loadAccount(ctx, msg.From)
	if err != nil {
		return
	}
	chatID := msg.Chat.ID
	lang := account.Lang
	isAdmin := account.IsAdmin

	h.background("logout", func(ctx context.Context) {
		h.auth.Logout(ctx, account.ID)
		h.send(ctx, chatID, text(lang, "logout_ok"), mainKeyboard(lang, isAdmin))
	})
}

// HandleLang handles /lang, toggling between Farsi and English
func (h *Handlers) HandleLang(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	account, err := h.loadAccount(ctx, msg.From)
	if err != nil {
		return
	}

	lang := "en"
	if account.Lang == "en" {
		lang = "fa"
	}
	if err := h.accounts.SetLang(ctx, account.ID, lang); err != nil {
		h.logger.Error().Err(err).Int64("account_id", account.ID).Msg("Failed to switch language")
		return
	}
	account.Lang = lang
	h.sendWelcome(ctx, msg.Chat.ID, account)
}

func (h *Handlers) startLogin(ctx context.Context, chatID int64, account *domain.Account) {
	h.auth.StartLogin(account.ID)
	h.send(ctx, chatID, text(account.Lang, "phone_ask"), backKeyboard(account.Lang))
}

// HandleText is the catch-all for non-command private text: conversation
// state input first, then reply keyboard buttons, then the welcome fallback.
func (h *Handlers) HandleText(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat.Type != "private" {
		return
	}
	input := strings.TrimSpace(msg.Text)
	if input == "" {
		return
	}

	account, err := h.loadAccount(ctx, msg.From)
	if err != nil {
		return
	}
	chatID := msg.Chat.ID
	if account.IsBanned {
		h.send(ctx, chatID, text(account.Lang, "banned"), nil)
		return
	}

	if h.dispatchState(ctx, chatID, account, input) {
		return
	}
	if h.dispatchButton(ctx, chatID, account, input) {
		return
	}
	h.sendWelcome(ctx, chatID, account)
}

// dispatchState consumes input addressed to an in-flight conversation.
func (h *Handlers) dispatchState(ctx context.Context, chatID int64, account *domain.Account, input string) bool {
	data := h.states.Get(account.ID)
	lang := account.Lang

	switch data.State {
	case domain.StateAwaitingPhone:
		phone := input
		if !strings.HasPrefix(phone, "+") {
			phone = "+" + phone
		}
		h.background("login_phone", func(ctx context.Context) {
			if err := h.auth.SubmitPhone(ctx, account.ID, phone); err != nil {
				h.send(ctx, chatID, loginFailText(lang, shortError(err)), mainKeyboard(lang, account.IsAdmin))
				return
			}
			h.send(ctx, chatID, text(lang, "code_ask"), nil)
		})
		return true

	case domain.StateAwaitingCode:
		h.background("login_code", func(ctx context.Context) {
			err := h.auth.SubmitCode(ctx, account.ID, input)
			switch {
			case err == nil:
				h.send(ctx, chatID, text(lang, "login_ok"), mainKeyboard(lang, account.IsAdmin))
			case errors.Is(err, domain.ErrPasswordNeeded):
				h.send(ctx, chatID, text(lang, "2fa_ask"), nil)
			case errors.Is(err, domain.ErrCodeInvalid):
				h.send(ctx, chatID, loginFailText(lang, "Wrong code"), nil)
			case errors.Is(err, domain.ErrCodeExpired):
				h.send(ctx, chatID, loginFailText(lang, "Expired, try again"), nil)
			default:
				h.send(ctx, chatID, loginFailText(lang, shortError(err)), nil)
			}
		})
		return true

	case domain.StateAwaitingPassword:
		h.background("login_2fa", func(ctx context.Context) {
			err := h.auth.SubmitPassword(ctx, account.ID, input)
			switch {
			case err == nil:
				h.send(ctx, chatID, text(lang, "login_ok"), mainKeyboard(lang, account.IsAdmin))
			case errors.Is(err, domain.ErrPasswordInvalid):
				h.send(ctx, chatID, loginFailText(lang, "Wrong 2FA"), nil)
			default:
				h.send(ctx, chatID, loginFailText(lang, shortError(err)), nil)
			}
		})
		return true

	case domain.StateAwaitingOSINT:
		h.states.Clear(account.ID)
		if !h.chargeCredit(ctx, chatID, account) {
			return true
		}
		h.background("osint", func(ctx context.Context) {
			h.runOSINT(ctx, chatID, account, input)
		})
		return true

	case domain.StateAwaitingStalk:
		h.states.Clear(account.ID)
		if !h.auth.HasActiveSession(ctx, account.ID) {
			h.send(ctx, chatID, text(lang, "not_logged"), mainKeyboard(lang, account.IsAdmin))
			return true
		}
		if !h.chargeCredit(ctx, chatID, account) {
			return true
		}
		h.background("stalk", func(ctx context.Context) {
			h.runStalk(ctx, chatID, account, input)
		})
		return true

	case domain.StateAdminAddCredits:
		return h.adminPair(ctx, chatID, account, input, func(targetID int64, n int) (string, error) {
			total, err := h.accounts.AddCredits(ctx, targetID, n)
			if err != nil {
				return "", err
			}
			return adminCreditAddedText(lang, targetID, n, total), nil
		})

	case domain.StateAdminSetCredits:
		return h.adminPair(ctx, chatID, account, input, func(targetID int64, n int) (string, error) {
			if err := h.accounts.SetCredits(ctx, targetID, n); err != nil {
				return "", err
			}
			return adminCreditSetText(lang, targetID, n), nil
		})

	case domain.StateAdminBan:
		return h.adminID(ctx, chatID, account, input, func(targetID int64) (string, error) {
			if err := h.accounts.SetBanned(ctx, targetID, true); err != nil {
				return "", err
			}
			return adminBannedText(lang, targetID), nil
		})

	case domain.StateAdminUnban:
		return h.adminID(ctx, chatID, account, input, func(targetID int64) (string, error) {
			if err := h.accounts.SetBanned(ctx, targetID, false); err != nil {
				return "", err
			}
			return adminUnbannedText(lang, targetID), nil
		})

	case domain.StateAdminLookup:
		return h.adminID(ctx, chatID, account, input, func(targetID int64) (string, error) {
			target, err := h.accounts.Get(ctx, targetID)
			if err != nil {
				return "", err
			}
			return adminUserInfoText(lang, target), nil
		})

	case domain.StateAdminBroadcast:
		if !account.IsAdmin {
			return false
		}
		h.states.Clear(account.ID)
		h.background("broadcast", func(ctx context.Context) {
			h.runBroadcast(ctx, chatID, account, input)
		})
		return true
	}

	return false
}

// adminPair handles "<id> <amount>" admin inputs.
func (h *Handlers) adminPair(ctx context.Context, chatID int64, account *domain.Account, input string, apply func(targetID int64, n int) (string, error)) bool {
	if !account.IsAdmin {
		return false
	}
	h.states.Clear(account.ID)
	lang := account.Lang

	parts := strings.Fields(input)
	if len(parts) != 2 {
		h.send(ctx, chatID, text(lang, "a_credit_fail"), adminKeyboard(lang))
		return true
	}
	targetID, err1 := strconv.ParseInt(parts[0], 10, 64)
	n, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		h.send(ctx, chatID, text(lang, "a_credit_fail"), adminKeyboard(lang))
		return true
	}

	reply, err := apply(targetID, n)
	if err != nil {
		h.send(ctx, chatID, text(lang, "a_notfound"), adminKeyboard(lang))
		return true
	}
	h.send(ctx, chatID, reply, adminKeyboard(lang))
	return true
}

// adminID handles single numeric-id admin inputs.
func (h *Handlers) adminID(ctx context.Context, chatID int64, account *domain.Account, input string, apply func(targetID int64) (string, error)) bool {
	if !account.IsAdmin {
		return false
	}
	h.states.Clear(account.ID)
	lang := account.Lang

	targetID, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		h.send(ctx, chatID, text(lang, "a_notfound"), adminKeyboard(lang))
		return true
	}
	reply, err := apply(targetID)
	if err != nil {
		h.send(ctx, chatID, text(lang, "a_notfound"), adminKeyboard(lang))
		return true
	}
	h.send(ctx, chatID, reply, adminKeyboard(lang))
	return true
}

// dispatchButton routes reply keyboard button presses.
func (h *Handlers) dispatchButton(ctx context.Context, chatID int64, account *domain.Account, input string) bool {
	action, ok := buttonActions[input]
	if !ok {
		return false
	}
	lang := account.Lang

	switch action {
	case actionOSINT:
		if !hasCredit(account) {
			h.send(ctx, chatID, text(lang, "no_credit"), nil)
			return true
		}
		h.states.Set(account.ID, domain.ConversationData{State: domain.StateAwaitingOSINT})
		h.send(ctx, chatID, text(lang, "osint_ask"), backKeyboard(lang))

	case actionStalk:
		if !hasCredit(account) {
			h.send(ctx, chatID, text(lang, "no_credit"), nil)
			return true
		}
		if !h.auth.HasActiveSession(ctx, account.ID) {
			h.send(ctx, chatID, text(lang, "not_logged"), mainKeyboard(lang, account.IsAdmin))
			return true
		}
		h.states.Set(account.ID, domain.ConversationData{State: domain.StateAwaitingStalk})
		h.send(ctx, chatID, text(lang, "stalk_ask"), backKeyboard(lang))

	case actionCleanup:
		if !hasCredit(account) {
			h.send(ctx, chatID, text(lang, "no_credit"), nil)
			return true
		}
		if !h.auth.HasActiveSession(ctx, account.ID) {
			h.send(ctx, chatID, text(lang, "clean_info"), mainKeyboard(lang, account.IsAdmin))
			return true
		}
		h.send(ctx, chatID, text(lang, "ethical"), ethicalKeyboard(lang))

	case actionLogin:
		h.startLogin(ctx, chatID, account)

	case actionProfile:
		loggedIn := h.auth.HasActiveSession(ctx, account.ID)
		h.send(ctx, chatID, profileText(lang, account, loggedIn), mainKeyboard(lang, account.IsAdmin))

	case actionHelp:
		h.send(ctx, chatID, helpText(lang, h.defaultCredits), mainKeyboard(lang, account.IsAdmin))

	case actionAdmin:
		if !account.IsAdmin {
			return false
		}
		h.sendAdminPanel(ctx, chatID, account)

	case actionBack:
		h.states.Clear(account.ID)
		h.sendWelcome(ctx, chatID, account)

	case actionAddCredits, actionSetCredits, actionLookup, actionBan, actionUnban, actionBroadcast:
		if !account.IsAdmin {
			return false
		}
		h.startAdminInput(ctx, chatID, account, action)
	}

	return true
}

func (h *Handlers) sendAdminPanel(ctx context.Context, chatID int64, account *domain.Account) {
	total, banned, loggedIn, err := h.accounts.Stats(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to compute admin stats")
		h.send(ctx, chatID, errorText(account.Lang, "internal"), nil)
		return
	}
	h.send(ctx, chatID, adminPanelText(account.Lang, total, banned, loggedIn), adminKeyboard(account.Lang))
}

func (h *Handlers) startAdminInput(ctx context.Context, chatID int64, account *domain.Account, action buttonAction) {
	lang := account.Lang
	var state domain.ConversationState
	var prompt string

	switch action {
	case actionAddCredits:
		state, prompt = domain.StateAdminAddCredits, text(lang, "a_credit_ask")
	case actionSetCredits:
		state, prompt = domain.StateAdminSetCredits, text(lang, "a_setcr_ask")
	case actionLookup:
		state, prompt = domain.StateAdminLookup, text(lang, "a_lookup_ask")
	case actionBan:
		state, prompt = domain.StateAdminBan, text(lang, "a_ban_ask")
	case actionUnban:
		state, prompt = domain.StateAdminUnban, text(lang, "a_unban_ask")
	case actionBroadcast:
		state, prompt = domain.StateAdminBroadcast, text(lang, "a_bcast_ask")
	default:
		return
	}

	h.states.Set(account.ID, domain.ConversationData{State: state})
	h.send(ctx, chatID, prompt, backKeyboard(lang))
}

// HandleCallback routes inline keyboard callbacks.
func (h *Handlers) HandleCallback(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	if err := h.messenger.AnswerCallback(ctx, cb.ID); err != nil {
		h.logger.Debug().Err(err).Msg("Failed to answer callback")
	}

	msg := cb.Message.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID
	messageID := msg.ID

	account, err := h.loadAccount(ctx, &cb.From)
	if err != nil || account.IsBanned {
		return
	}
	lang := account.Lang
	data := cb.Data

	switch {
	case strings.HasPrefix(data, "grp_"):
		dialogID, err := strconv.ParseInt(strings.TrimPrefix(data, "grp_"), 10, 64)
		if err != nil {
			return
		}
		h.background("stalk_dialog", func(ctx context.Context) {
			h.runStalkDialog(ctx, chatID, account, dialogID)
		})

	case strings.HasPrefix(data, "gpage_"):
		page, err := strconv.Atoi(strings.TrimPrefix(data, "gpage_"))
		if err != nil || page < 0 {
			return
		}
		h.showStalkPage(ctx, chatID, messageID, account, page)

	case data == "back_main":
		h.states.Clear(account.ID)
		h.sendWelcome(ctx, chatID, account)

	case data == "eth_y":
		h.edit(ctx, chatID, messageID, "🧹", cleanupKeyboard(lang))

	case data == "eth_n":
		h.sendWelcome(ctx, chatID, account)

	case data == "cl_dry":
		if !h.chargeCredit(ctx, chatID, account) {
			return
		}
		h.background("scan", func(ctx context.Context) {
			h.runScan(ctx, chatID, account)
		})

	case data == "cl_real":
		h.edit(ctx, chatID, messageID, text(lang, "confirm"), confirmKeyboard(lang))

	case data == "cf_y":
		if !h.chargeCredit(ctx, chatID, account) {
			return
		}
		h.background("cleanup", func(ctx context.Context) {
			h.runCleanup(ctx, chatID, account)
		})

	case data == "cf_n":
		h.sendWelcome(ctx, chatID, account)
	}
}

// showStalkPage re-renders the stalk panel at the requested page from the
// items saved in conversation state.
func (h *Handlers) showStalkPage(ctx context.Context, chatID int64, messageID int, account *domain.Account, page int) {
	data := h.states.Get(account.ID)
	if data.State != domain.StateStalkPanel || len(data.Items) == 0 {
		return
	}

	report := &domain.StalkReport{
		Target: domain.TargetPeer{ID: data.TargetID, AccessHash: data.TargetHash, FirstName: data.TargetName},
	}
	for _, d := range data.Items {
		if d.Kind == domain.DialogSupergroup {
			report.Groups = append(report.Groups, d)
		} else {
			report.Channels = append(report.Channels, d)
		}
		report.Total += d.Matched
	}

	h.edit(ctx, chatID, messageID, stalkPanelText(account.Lang, report), dialogsKeyboard(data.Items, page))
}

func (h *Handlers) runOSINT(ctx context.Context, chatID int64, account *domain.Account, input string) {
	lang := account.Lang

	profile, err := h.stalk.Profile(ctx, account.ID, input)
	switch {
	case err == nil:
		h.send(ctx, chatID, osintResultText(lang, profile), nil)
	case errors.Is(err, domain.ErrNoActiveSession):
		// No session, fall back to the public Bot API lookup
		h.runOSINTLight(ctx, chatID, account, input)
	case errors.Is(err, domain.ErrTargetNotFound):
		h.send(ctx, chatID, errorText(lang, "Not found"), nil)
	default:
		h.logger.Warn().Err(err).Int64("account_id", account.ID).Msg("OSINT lookup failed")
		h.send(ctx, chatID, errorText(lang, shortError(err)), nil)
	}
}

// runOSINTLight serves OSINT for accounts without a session. Only public
// usernames are reachable through the bot transport.
func (h *Handlers) runOSINTLight(ctx context.Context, chatID int64, account *domain.Account, input string) {
	lang := account.Lang

	username := strings.TrimPrefix(strings.TrimSpace(input), "@")
	if username == "" || isNumeric(username) {
		h.send(ctx, chatID, text(lang, "not_logged"), mainKeyboard(lang, account.IsAdmin))
		return
	}

	profile, err := h.messenger.LookupPublic(ctx, username)
	if err != nil {
		h.send(ctx, chatID, errorText(lang, "Not found"), nil)
		return
	}
	h.send(ctx, chatID, osintResultText(lang, profile), nil)
}

func isNumeric(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func (h *Handlers) runStalk(ctx context.Context, chatID int64, account *domain.Account, input string) {
	lang := account.Lang

	target, err := h.stalk.Resolve(ctx, account.ID, input)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSession) {
			h.send(ctx, chatID, text(lang, "not_logged"), mainKeyboard(lang, account.IsAdmin))
			return
		}
		h.send(ctx, chatID, errorText(lang, "Target not found"), nil)
		return
	}

	progress := usecase.NewProgress(h.messenger, chatID, progressFormat(lang), h.logger)
	report, err := h.stalk.BuildReport(ctx, account.ID, target, progress)
	if err != nil {
		h.logger.Warn().Err(err).Int64("account_id", account.ID).Msg("Stalk report failed")
		h.send(ctx, chatID, errorText(lang, shortError(err)), nil)
		return
	}

	items := report.Items()
	h.states.Set(account.ID, domain.ConversationData{
		State:      domain.StateStalkPanel,
		TargetID:   target.ID,
		TargetHash: target.AccessHash,
		TargetName: target.DisplayName(),
		Items:      items,
	})

	h.send(ctx, chatID, stalkPanelText(lang, report), dialogsKeyboard(items, 0))
}

func (h *Handlers) runStalkDialog(ctx context.Context, chatID int64, account *domain.Account, dialogID int64) {
	lang := account.Lang

	data := h.states.Get(account.ID)
	if data.State != domain.StateStalkPanel || data.TargetID == 0 {
		return
	}
	var dialog domain.DialogSummary
	found := false
	for _, d := range data.Items {
		if d.ID == dialogID {
			dialog = d
			found = true
			break
		}
	}
	if !found {
		return
	}

	target := domain.TargetPeer{ID: data.TargetID, AccessHash: data.TargetHash}
	previews, err := h.stalk.Preview(ctx, account.ID, target, dialog, stalkPreviewLimit)
	if err != nil {
		h.logger.Warn().Err(err).Int64("dialog_id", dialogID).Msg("Dialog preview failed")
		h.send(ctx, chatID, errorText(lang, shortError(err)), nil)
		return
	}
	if len(previews) == 0 {
		h.send(ctx, chatID, text(lang, "no_msgs"), nil)
		return
	}

	header := stalkMessagesHeader(lang, data.TargetName, dialog.Title)
	for start := 0; start < len(previews); start += previewChunkSize {
		end := start + previewChunkSize
		if end > len(previews) {
			end = len(previews)
		}

		var b strings.Builder
		if start == 0 {
			b.WriteString(header)
		}
		for _, m := range previews[start:end] {
			link := ""
			if m.Link != "" {
				link = fmt.Sprintf(` (<a href="%s">link</a>)`, m.Link)
			}
			fmt.Fprintf(&b, "📅 %s%s\n💬 %s\n%s\n", formatPreviewDate(m.Date), link, m.Snippet, strings.Repeat("─", 30))
		}
		h.send(ctx, chatID, b.String(), nil)
		time.Sleep(300 * time.Millisecond)
	}
}

func (h *Handlers) runScan(ctx context.Context, chatID int64, account *domain.Account) {
	lang := account.Lang

	progress := usecase.NewProgress(h.messenger, chatID, progressFormat(lang), h.logger)
	result, err := h.cleanup.Scan(ctx, account.ID, progress)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSession) {
			h.send(ctx, chatID, text(lang, "not_logged"), mainKeyboard(lang, account.IsAdmin))
			return
		}
		h.logger.Warn().Err(err).Int64("account_id", account.ID).Msg("Scan failed")
		h.send(ctx, chatID, errorText(lang, shortError(err)), nil)
		return
	}

	h.send(ctx, chatID, scanResultText(lang, result), confirmKeyboard(lang))
}

func (h *Handlers) runCleanup(ctx context.Context, chatID int64, account *domain.Account) {
	lang := account.Lang

	progress := usecase.NewProgress(h.messenger, chatID, progressFormat(lang), h.logger)
	result, err := h.cleanup.Cleanup(ctx, account.ID, progress)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSession) {
			h.send(ctx, chatID, text(lang, "not_logged"), mainKeyboard(lang, account.IsAdmin))
			return
		}
		h.logger.Warn().Err(err).Int64("account_id", account.ID).Msg("Cleanup failed")
		h.send(ctx, chatID, errorText(lang, shortError(err)), nil)
		return
	}

	h.send(ctx, chatID, cleanupResultText(lang, result), mainKeyboard(lang, account.IsAdmin))
}

func (h *Handlers) runBroadcast(ctx context.Context, chatID int64, admin *domain.Account, message string) {
	lang := admin.Lang

	accounts, err := h.accounts.All(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list accounts for broadcast")
		h.send(ctx, chatID, errorText(lang, "internal"), adminKeyboard(lang))
		return
	}

	sent := 0
	for _, a := range accounts {
		if a.ID == admin.ID {
			continue
		}
		if _, err := h.messenger.Send(ctx, a.ID, "📢\n\n"+message, nil); err != nil {
			continue
		}
		sent++
		time.Sleep(broadcastPacing)
	}

	h.send(ctx, chatID, adminBroadcastDoneText(lang, sent), adminKeyboard(lang))
}
