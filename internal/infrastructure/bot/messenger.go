package bot

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

// Messenger implements domain.Messenger over the Bot API. Markup values are
// passed through to the transport untouched; the delivery layer builds them
// as models.ReplyMarkup.
type Messenger struct {
	bot    *Bot
	logger zerolog.Logger
}

// NewMessenger creates a new messenger
func NewMessenger(b *Bot, logger zerolog.Logger) *Messenger {
	return &Messenger{
		bot:    b,
		logger: logger.With().Str("component", "messenger").Logger(),
	}
}

// Send sends a message and returns its id for later edits
func (m *Messenger) Send(ctx context.Context, chatID int64, text string, markup any) (int, error) {
	params := &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if rm, ok := markup.(models.ReplyMarkup); ok && rm != nil {
		params.ReplyMarkup = rm
	}

	msg, err := m.bot.Raw().SendMessage(ctx, params)
	if err != nil {
		m.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
		return 0, fmt.Errorf("failed to send message: %w", err)
	}
	return msg.ID, nil
}

// Edit updates a previously sent message in place
func (m *Messenger) Edit(ctx context.Context, chatID int64, messageID int, text string, markup any) error {
	params := &tgbot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if rm, ok := markup.(models.ReplyMarkup); ok && rm != nil {
		params.ReplyMarkup = rm
	}

	if _, err := m.bot.Raw().EditMessageText(ctx, params); err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// AnswerCallback acknowledges an inline-control callback
func (m *Messenger) AnswerCallback(ctx context.Context, callbackID string) error {
	ok, err := m.bot.Raw().AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
	})
	if err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	if !ok {
		return fmt.Errorf("callback answer rejected")
	}
	return nil
}

// LookupPublic resolves a public username with getChat. Only user chats
// qualify as targets; groups and channels are rejected.
func (m *Messenger) LookupPublic(ctx context.Context, username string) (*domain.TargetProfile, error) {
	chat, err := m.bot.Raw().GetChat(ctx, &tgbot.GetChatParams{ChatID: "@" + username})
	if err != nil {
		return nil, domain.ErrTargetNotFound
	}
	if chat.Type != "private" {
		return nil, domain.ErrTargetNotFound
	}

	return &domain.TargetProfile{
		Peer: domain.TargetPeer{
			ID:        chat.ID,
			Username:  chat.Username,
			FirstName: chat.FirstName,
			LastName:  chat.LastName,
		},
		Bio:      chat.Bio,
		HasPhoto: chat.Photo != nil,
	}, nil
}

var _ domain.Messenger = (*Messenger)(nil)
