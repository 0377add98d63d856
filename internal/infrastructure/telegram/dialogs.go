package telegram

import (
	"context"
	"fmt"

	"github.com/gotd/td/tg"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

// dialogsPageSize is the per-request cap of messages.getDialogs
const dialogsPageSize = 100

// dialogPage is one page of the account's dialog list
type dialogPage struct {
	dialogs  []tg.DialogClass
	messages []tg.MessageClass
	chats    []tg.ChatClass
	users    []tg.UserClass
}

// classifyChat maps a raw chat to a dialog summary. Returns false for
// anything that is not an accessible group or channel (forbidden chats,
// deactivated basic groups, private dialogs).
func classifyChat(chat tg.ChatClass) (domain.DialogSummary, bool) {
	switch c := chat.(type) {
	case *tg.Channel:
		if c.Left {
			return domain.DialogSummary{}, false
		}
		kind := domain.DialogBroadcast
		if c.Megagroup {
			kind = domain.DialogSupergroup
		}
		return domain.DialogSummary{
			ID:         c.ID,
			AccessHash: c.AccessHash,
			Title:      c.Title,
			Username:   c.Username,
			Kind:       kind,
		}, true
	case *tg.Chat:
		if c.Deactivated || c.Left {
			return domain.DialogSummary{}, false
		}
		return domain.DialogSummary{
			ID:    c.ID,
			Title: c.Title,
			Kind:  domain.DialogBasicGroup,
		}, true
	default:
		return domain.DialogSummary{}, false
	}
}

// walkDialogPages pages through the dialog list and feeds each page to fn
// until fn returns false or the list is exhausted.
func (c *accountConn) walkDialogPages(ctx context.Context, fn func(page dialogPage) bool) error {
	api, err := c.apiHandle()
	if err != nil {
		return err
	}

	req := &tg.MessagesGetDialogsRequest{
		Limit:      dialogsPageSize,
		OffsetPeer: &tg.InputPeerEmpty{},
	}

	for {
		if err := c.wait(ctx); err != nil {
			return err
		}

		res, err := api.MessagesGetDialogs(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to get dialogs: %w", mapFloodWait(err))
		}

		var (
			page     dialogPage
			lastPage bool
		)
		switch d := res.(type) {
		case *tg.MessagesDialogs:
			page = dialogPage{d.Dialogs, d.Messages, d.Chats, d.Users}
			lastPage = true
		case *tg.MessagesDialogsSlice:
			page = dialogPage{d.Dialogs, d.Messages, d.Chats, d.Users}
			lastPage = len(d.Dialogs) < dialogsPageSize
		case *tg.MessagesDialogsNotModified:
			return nil
		default:
			return fmt.Errorf("unexpected dialogs type %T", res)
		}

		if !fn(page) || lastPage || len(page.dialogs) == 0 {
			return nil
		}

		// Advance the cursor to the last dialog's top message
		last := page.dialogs[len(page.dialogs)-1]
		offsetPeer := inputPeerForDialog(last.GetPeer(), page.chats, page.users)
		offsetID, offsetDate := topMessageCursor(last, page.messages)
		if offsetPeer == nil || offsetID == 0 {
			return nil
		}
		req.OffsetPeer = offsetPeer
		req.OffsetID = offsetID
		req.OffsetDate = offsetDate
	}
}

// ListDialogs pages through the account's dialog list and returns up to max
// classified group/channel memberships. max <= 0 means no cap.
func (c *accountConn) ListDialogs(ctx context.Context, max int) ([]domain.DialogSummary, error) {
	var (
		out  []domain.DialogSummary
		seen = make(map[int64]struct{})
	)

	err := c.walkDialogPages(ctx, func(page dialogPage) bool {
		for _, chat := range page.chats {
			summary, ok := classifyChat(chat)
			if !ok {
				continue
			}
			if _, dup := seen[summary.ID]; dup {
				continue
			}
			seen[summary.ID] = struct{}{}
			out = append(out, summary)
			if max > 0 && len(out) >= max {
				return false
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindCachedUser scans up to maxDialogs dialog entries for a user peer with
// the given id. Works for privacy-restricted accounts the data center will
// not resolve by bare id, as long as a private chat with them exists.
func (c *accountConn) FindCachedUser(ctx context.Context, id int64, maxDialogs int) (domain.TargetPeer, error) {
	var (
		found   *domain.TargetPeer
		visited int
	)

	err := c.walkDialogPages(ctx, func(page dialogPage) bool {
		for _, raw := range page.users {
			if user, ok := raw.(*tg.User); ok && user.ID == id {
				peer := toTargetPeer(user)
				found = &peer
				return false
			}
		}
		visited += len(page.dialogs)
		return maxDialogs <= 0 || visited < maxDialogs
	})
	if err != nil {
		return domain.TargetPeer{}, err
	}
	if found == nil {
		return domain.TargetPeer{}, domain.ErrTargetNotFound
	}
	return *found, nil
}

// topMessageCursor finds the dialog's top message id and date for paging
func topMessageCursor(dialog tg.DialogClass, messages []tg.MessageClass) (int, int) {
	topID := dialog.GetTopMessage()
	for _, m := range messages {
		msg, ok := m.(*tg.Message)
		if !ok {
			continue
		}
		if msg.ID == topID {
			return topID, msg.Date
		}
	}
	return topID, 0
}

// inputPeerForDialog converts a dialog peer to an input peer using the
// entities bundled in the same response page.
func inputPeerForDialog(peer tg.PeerClass, chats []tg.ChatClass, users []tg.UserClass) tg.InputPeerClass {
	switch p := peer.(type) {
	case *tg.PeerUser:
		for _, u := range users {
			if user, ok := u.(*tg.User); ok && user.ID == p.UserID {
				return &tg.InputPeerUser{UserID: user.ID, AccessHash: user.AccessHash}
			}
		}
	case *tg.PeerChat:
		return &tg.InputPeerChat{ChatID: p.ChatID}
	case *tg.PeerChannel:
		for _, c := range chats {
			if channel, ok := c.(*tg.Channel); ok && channel.ID == p.ChannelID {
				return &tg.InputPeerChannel{ChannelID: channel.ID, AccessHash: channel.AccessHash}
			}
		}
	}
	return nil
}

// inputPeerForSummary builds the input peer for API calls against a dialog
func inputPeerForSummary(d domain.DialogSummary) tg.InputPeerClass {
	if d.Kind == domain.DialogBasicGroup {
		return &tg.InputPeerChat{ChatID: d.ID}
	}
	return &tg.InputPeerChannel{ChannelID: d.ID, AccessHash: d.AccessHash}
}
