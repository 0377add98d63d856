package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

// resolverDialogCap bounds the last-resort dialog scan
const resolverDialogCap = 500

// resolveStrategy attempts one way of turning a raw identifier into a peer.
// Each strategy is independently fallible; ok=false sends the resolver to
// the next one.
type resolveStrategy func(ctx context.Context, conn domain.Conn, raw string) (domain.TargetPeer, bool)

// Resolver maps free-form user input (username with or without "@", or a
// numeric id) to a canonical peer by trying ordered strategies, first
// success wins.
type Resolver struct {
	strategies []resolveStrategy
	logger     zerolog.Logger
}

// NewResolver creates a resolver with the default strategy order
func NewResolver(logger zerolog.Logger) *Resolver {
	return &Resolver{
		strategies: []resolveStrategy{
			byUsernameStripped,
			byUsernamePrefixed,
			byNumericID,
			byCachedDialogPeer,
		},
		logger: logger.With().Str("component", "resolver").Logger(),
	}
}

// Resolve runs the strategies in order over conn. All failing means
// domain.ErrTargetNotFound.
func (r *Resolver) Resolve(ctx context.Context, conn domain.Conn, raw string) (domain.TargetPeer, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.TargetPeer{}, domain.ErrTargetNotFound
	}

	for _, strategy := range r.strategies {
		if peer, ok := strategy(ctx, conn, raw); ok {
			return peer, nil
		}
		if ctx.Err() != nil {
			return domain.TargetPeer{}, ctx.Err()
		}
	}

	r.logger.Debug().Str("input", raw).Msg("no resolution strategy matched")
	return domain.TargetPeer{}, domain.ErrTargetNotFound
}

// byUsernameStripped resolves the input as a username with any "@" removed
func byUsernameStripped(ctx context.Context, conn domain.Conn, raw string) (domain.TargetPeer, bool) {
	username := strings.TrimPrefix(raw, "@")
	if username == "" {
		return domain.TargetPeer{}, false
	}
	peer, err := conn.ResolveUsername(ctx, username)
	return peer, err == nil
}

// byUsernamePrefixed retries resolution with an explicit "@" prefix, which
// covers platform quoting quirks around usernames that collide with reserved
// words.
func byUsernamePrefixed(ctx context.Context, conn domain.Conn, raw string) (domain.TargetPeer, bool) {
	username := strings.TrimPrefix(raw, "@")
	if username == "" {
		return domain.TargetPeer{}, false
	}
	peer, err := conn.ResolveUsername(ctx, "@"+username)
	return peer, err == nil
}

// byNumericID resolves an integer input as a bare user id. Only works for
// peers this session's data center has already seen.
func byNumericID(ctx context.Context, conn domain.Conn, raw string) (domain.TargetPeer, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return domain.TargetPeer{}, false
	}
	peer, err := conn.ResolveUserID(ctx, id)
	return peer, err == nil
}

// byCachedDialogPeer is the last resort for privacy-restricted accounts:
// scan the caller's own dialog list for a cached peer with the given id.
func byCachedDialogPeer(ctx context.Context, conn domain.Conn, raw string) (domain.TargetPeer, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return domain.TargetPeer{}, false
	}
	peer, err := conn.FindCachedUser(ctx, id, resolverDialogCap)
	return peer, err == nil
}
