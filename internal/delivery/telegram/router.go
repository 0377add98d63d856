package telegram

import (
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all command, text and callback handlers on the
// bot. Handler lookup order is not defined, so the catch-all text matcher
// explicitly excludes commands to keep the routes disjoint.
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypeExact, r.handlers.HandleStart)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/help", tgbot.MatchTypeExact, r.handlers.HandleHelp)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/login", tgbot.MatchTypeExact, r.handlers.HandleLogin)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/logout", tgbot.MatchTypeExact, r.handlers.HandleLogout)
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/lang", tgbot.MatchTypeExact, r.handlers.HandleLang)

	bot.RegisterHandlerMatchFunc(matchPlainText, r.handlers.HandleText)
	bot.RegisterHandlerMatchFunc(matchCallback, r.handlers.HandleCallback)

	r.logger.Info().Msg("All Telegram handlers registered successfully")
}

func matchPlainText(update *models.Update) bool {
	return update.Message != nil &&
		update.Message.Text != "" &&
		!strings.HasPrefix(update.Message.Text, "/")
}

func matchCallback(update *models.Update) bool {
	return update.CallbackQuery != nil
}
