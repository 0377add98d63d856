package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

// Progress maintains one mutable status message for a long-running operation.
// Updates edit the message in place, keyed to completed-unit count. When an
// edit fails (the user deleted the status message or blocked the bot) the
// reporter goes silent permanently; the operation itself never notices.
type Progress struct {
	messenger domain.Messenger
	chatID    int64
	messageID int
	format    func(done, total int) string
	silent    bool
	logger    zerolog.Logger
}

// NewProgress creates a reporter bound to one chat. format renders the status
// line for a given completion count; the delivery layer supplies it localized.
func NewProgress(messenger domain.Messenger, chatID int64, format func(done, total int) string, logger zerolog.Logger) *Progress {
	return &Progress{
		messenger: messenger,
		chatID:    chatID,
		format:    format,
		logger:    logger.With().Str("component", "progress").Logger(),
	}
}

// Start sends the initial status message
func (p *Progress) Start(ctx context.Context, total int) {
	if p == nil || p.silent {
		return
	}
	id, err := p.messenger.Send(ctx, p.chatID, p.format(0, total), nil)
	if err != nil {
		p.logger.Debug().Err(err).Msg("status message send failed, going silent")
		p.silent = true
		return
	}
	p.messageID = id
}

// Report edits the status message with the current completion count
func (p *Progress) Report(ctx context.Context, done, total int) {
	if p == nil || p.silent || p.messageID == 0 {
		return
	}
	if err := p.messenger.Edit(ctx, p.chatID, p.messageID, p.format(done, total), nil); err != nil {
		p.logger.Debug().Err(err).Msg("status edit failed, going silent")
		p.silent = true
	}
}

// Finish replaces the status message with the final text
func (p *Progress) Finish(ctx context.Context, text string) {
	if p == nil || p.silent || p.messageID == 0 {
		return
	}
	if err := p.messenger.Edit(ctx, p.chatID, p.messageID, text, nil); err != nil {
		p.logger.Debug().Err(err).Msg("final status edit failed")
		p.silent = true
	}
}
