package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
	"github.com/masho-mammad/shadowclean-bot/internal/utils"
)

const snippetLength = 50

// mapFloodWait converts a platform rate-limit error into the domain signal
// the engines know how to back off from.
func mapFloodWait(err error) error {
	if wait, ok := tgerr.AsFloodWait(err); ok {
		return &domain.FloodWaitError{Wait: wait}
	}
	return err
}

// buildMessageLink renders the deep link for a message. Public dialogs link
// through the username, private ones through the t.me/c form that only
// members can open.
func buildMessageLink(dialog domain.DialogSummary, messageID int) string {
	if dialog.Username != "" {
		return fmt.Sprintf("https://t.me/%s/%d", dialog.Username, messageID)
	}
	return fmt.Sprintf("https://t.me/c/%d/%d", dialog.ID, messageID)
}

// searchFromPeer picks the author filter peer. Searching for the logged-in
// account itself goes through InputPeerSelf, which needs no access hash.
func searchFromPeer(selfID int64, author domain.TargetPeer) tg.InputPeerClass {
	if author.ID == selfID {
		return &tg.InputPeerSelf{}
	}
	return &tg.InputPeerUser{UserID: author.ID, AccessHash: author.AccessHash}
}

// SearchAuthored pages through messages authored by author in dialog using
// the server-side search index. limit <= 0 means uncapped; paging stops when
// a page comes back short.
func (c *accountConn) SearchAuthored(ctx context.Context, dialog domain.DialogSummary, author domain.TargetPeer, limit int) ([]domain.MessagePreview, error) {
	api, err := c.apiHandle()
	if err != nil {
		return nil, err
	}

	pageSize := c.searchPageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	var (
		out      []domain.MessagePreview
		offsetID int
	)

	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}

		req := &tg.MessagesSearchRequest{
			Peer:     inputPeerForSummary(dialog),
			Q:        "",
			Filter:   &tg.InputMessagesFilterEmpty{},
			Limit:    pageSize,
			OffsetID: offsetID,
		}
		req.SetFromID(searchFromPeer(c.SelfID(), author))

		res, err := api.MessagesSearch(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("failed to search messages: %w", mapFloodWait(err))
		}

		var messages []tg.MessageClass
		switch m := res.(type) {
		case *tg.MessagesMessages:
			messages = m.Messages
		case *tg.MessagesMessagesSlice:
			messages = m.Messages
		case *tg.MessagesChannelMessages:
			messages = m.Messages
		case *tg.MessagesMessagesNotModified:
			return out, nil
		default:
			return nil, fmt.Errorf("unexpected search result type %T", res)
		}

		if len(messages) == 0 {
			return out, nil
		}

		for _, raw := range messages {
			msg, ok := raw.(*tg.Message)
			if !ok {
				continue
			}
			out = append(out, domain.MessagePreview{
				ID:       msg.ID,
				Date:     time.Unix(int64(msg.Date), 0),
				HasMedia: msg.Media != nil,
				Snippet:  utils.TruncateText(msg.Message, snippetLength),
				Link:     buildMessageLink(dialog, msg.ID),
			})
			offsetID = msg.ID
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
		}

		if len(messages) < pageSize {
			return out, nil
		}
	}
}

// DeleteMessages issues one bulk revoke-delete call for ids in dialog
func (c *accountConn) DeleteMessages(ctx context.Context, dialog domain.DialogSummary, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	api, err := c.apiHandle()
	if err != nil {
		return err
	}
	if err := c.wait(ctx); err != nil {
		return err
	}

	if dialog.Kind == domain.DialogBasicGroup {
		_, err = api.MessagesDeleteMessages(ctx, &tg.MessagesDeleteMessagesRequest{
			Revoke: true,
			ID:     ids,
		})
	} else {
		_, err = api.ChannelsDeleteMessages(ctx, &tg.ChannelsDeleteMessagesRequest{
			Channel: &tg.InputChannel{ChannelID: dialog.ID, AccessHash: dialog.AccessHash},
			ID:      ids,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to delete messages: %w", mapFloodWait(err))
	}
	return nil
}

// ResolveUsername resolves a public username to a user peer
func (c *accountConn) ResolveUsername(ctx context.Context, username string) (domain.TargetPeer, error) {
	api, err := c.apiHandle()
	if err != nil {
		return domain.TargetPeer{}, err
	}
	if err := c.wait(ctx); err != nil {
		return domain.TargetPeer{}, err
	}

	resolved, err := api.ContactsResolveUsername(ctx, username)
	if err != nil {
		if tgerr.Is(err, "USERNAME_NOT_OCCUPIED") || tgerr.Is(err, "USERNAME_INVALID") {
			return domain.TargetPeer{}, domain.ErrTargetNotFound
		}
		return domain.TargetPeer{}, fmt.Errorf("failed to resolve username: %w", err)
	}

	peerUser, ok := resolved.Peer.(*tg.PeerUser)
	if !ok {
		return domain.TargetPeer{}, domain.ErrTargetNotFound
	}
	for _, raw := range resolved.Users {
		if user, ok := raw.(*tg.User); ok && user.ID == peerUser.UserID {
			return toTargetPeer(user), nil
		}
	}
	return domain.TargetPeer{}, domain.ErrTargetNotFound
}

// ResolveUserID resolves a numeric id already known to this session's DC.
// Telegram refuses ids the account has never seen, which surfaces here as
// ErrTargetNotFound.
func (c *accountConn) ResolveUserID(ctx context.Context, id int64) (domain.TargetPeer, error) {
	api, err := c.apiHandle()
	if err != nil {
		return domain.TargetPeer{}, err
	}
	if err := c.wait(ctx); err != nil {
		return domain.TargetPeer{}, err
	}

	users, err := api.UsersGetUsers(ctx, []tg.InputUserClass{
		&tg.InputUser{UserID: id},
	})
	if err != nil {
		return domain.TargetPeer{}, domain.ErrTargetNotFound
	}
	for _, raw := range users {
		if user, ok := raw.(*tg.User); ok && user.ID == id {
			return toTargetPeer(user), nil
		}
	}
	return domain.TargetPeer{}, domain.ErrTargetNotFound
}

// Profile fetches the full profile of a resolved peer plus common chats
func (c *accountConn) Profile(ctx context.Context, peer domain.TargetPeer) (*domain.TargetProfile, error) {
	api, err := c.apiHandle()
	if err != nil {
		return nil, err
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	input := &tg.InputUser{UserID: peer.ID, AccessHash: peer.AccessHash}
	full, err := api.UsersGetFullUser(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get full user: %w", err)
	}

	profile := &domain.TargetProfile{
		Peer:     peer,
		Bio:      full.FullUser.About,
		HasPhoto: full.FullUser.ProfilePhoto != nil,
	}
	for _, raw := range full.Users {
		if user, ok := raw.(*tg.User); ok && user.ID == peer.ID {
			profile.LastSeen = formatLastSeen(user.Status)
		}
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	commons, err := api.MessagesGetCommonChats(ctx, &tg.MessagesGetCommonChatsRequest{
		UserID: input,
		Limit:  100,
	})
	if err == nil {
		for _, chat := range commons.GetChats() {
			if summary, ok := classifyChat(chat); ok {
				profile.Commons = append(profile.Commons, summary)
			}
		}
	}

	return profile, nil
}

func toTargetPeer(user *tg.User) domain.TargetPeer {
	return domain.TargetPeer{
		ID:         user.ID,
		AccessHash: user.AccessHash,
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
	}
}

// formatLastSeen renders a user status the way profile cards display it
func formatLastSeen(status tg.UserStatusClass) string {
	switch s := status.(type) {
	case *tg.UserStatusOnline:
		return "online"
	case *tg.UserStatusOffline:
		return time.Unix(int64(s.WasOnline), 0).UTC().Format("2006-01-02 15:04")
	case *tg.UserStatusRecently:
		return "recently"
	case *tg.UserStatusLastWeek:
		return "last week"
	case *tg.UserStatusLastMonth:
		return "last month"
	default:
		return "hidden"
	}
}
