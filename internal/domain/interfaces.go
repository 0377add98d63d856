package domain

import (
	"context"
	"time"
)

// AccountRepository stores bot accounts and their bookkeeping fields.
type AccountRepository interface {
	// GetOrCreate returns the account, creating it on first contact and
	// refreshing username/first name when they changed.
	GetOrCreate(ctx context.Context, id int64, username, firstName string) (*Account, error)

	// Get returns the account or ErrAccountNotFound.
	Get(ctx context.Context, id int64) (*Account, error)

	// ChargeCredit decrements credits and bumps the usage counter.
	// Admin accounts are never decremented. Returns ErrNoCredits when empty.
	ChargeCredit(ctx context.Context, id int64) error

	// AddCredits adds n credits and returns the new balance.
	AddCredits(ctx context.Context, id int64, n int) (int, error)

	// SetCredits sets the balance to n.
	SetCredits(ctx context.Context, id int64, n int) error

	// SetBanned flips the banned flag.
	SetBanned(ctx context.Context, id int64, banned bool) error

	// SetLang stores the preferred locale.
	SetLang(ctx context.Context, id int64, lang string) error

	// All returns every account (broadcast).
	All(ctx context.Context) ([]Account, error)

	// Stats returns total, banned and logged-in account counts.
	Stats(ctx context.Context) (total, banned, loggedIn int64, err error)
}

// CredentialVault persists encrypted session records, one per account.
type CredentialVault interface {
	// Save replaces any prior record: unauthorized, expiry = now+24h.
	Save(ctx context.Context, accountID int64, phone string, session []byte, codeHash string) error

	// UpdateSession refreshes the ciphertext of the existing record without
	// touching the authorized flag (intermediate persist during 2FA).
	UpdateSession(ctx context.Context, accountID int64, session []byte) error

	// MarkAuthorized stores the final session and flips authorized.
	MarkAuthorized(ctx context.Context, accountID int64, session []byte) error

	// Get returns the record regardless of state, or nil when absent.
	// Decryption failures surface as ErrDecryptionFailed.
	Get(ctx context.Context, accountID int64) (*CredentialRecord, error)

	// GetUnexpiredAuthorized returns the record only while it is authorized
	// and not yet expired; expiry is lazy, nothing is deleted.
	GetUnexpiredAuthorized(ctx context.Context, accountID int64) (*CredentialRecord, error)

	// Delete hard-deletes the record.
	Delete(ctx context.Context, accountID int64) error
}

// StateStore holds per-account conversation state between webhook events.
// In-memory by default; the interface keeps it swappable for a durable
// backend without touching state machine logic.
type StateStore interface {
	Get(accountID int64) ConversationData
	Set(accountID int64, data ConversationData)
	Clear(accountID int64)
}

// Messenger is the outbound transport capability injected into the core.
// Markup is an opaque keyboard value understood by the transport.
type Messenger interface {
	// Send sends a message and returns its id for later edits.
	Send(ctx context.Context, chatID int64, text string, markup any) (int, error)

	// Edit updates a previously sent message in place.
	Edit(ctx context.Context, chatID int64, messageID int, text string, markup any) error

	// AnswerCallback acknowledges an inline-control callback.
	AnswerCallback(ctx context.Context, callbackID string) error

	// LookupPublic fetches the public profile behind a username through the
	// bot transport. Works without any MTProto session; common chats and
	// last-seen are not available on this path.
	LookupPublic(ctx context.Context, username string) (*TargetProfile, error)
}

// LoginGateway executes single authentication steps against Telegram using
// ephemeral connections. Session values are opaque gotd session bytes.
type LoginGateway interface {
	// SendCode opens a fresh unauthenticated connection and requests a
	// verification code. Returns the ephemeral session and the code hash.
	SendCode(ctx context.Context, phone string) (session []byte, codeHash string, err error)

	// SignInCode restores the session and signs in with phone+code+hash.
	// Returns ErrPasswordNeeded (with the refreshed session), ErrCodeInvalid
	// or ErrCodeExpired as appropriate.
	SignInCode(ctx context.Context, session []byte, phone, code, codeHash string) ([]byte, error)

	// SignInPassword completes a 2FA login. Returns ErrPasswordInvalid on a
	// wrong password.
	SignInPassword(ctx context.Context, session []byte, password string) ([]byte, error)

	// LogOut invalidates the session remotely, best effort.
	LogOut(ctx context.Context, session []byte) error
}

// Conn is a live authenticated per-account connection.
type Conn interface {
	// SelfID returns the numeric id of the logged-in account.
	SelfID() int64

	// ListDialogs returns up to max classified group/channel memberships.
	ListDialogs(ctx context.Context, max int) ([]DialogSummary, error)

	// SearchAuthored pages through messages authored by author in dialog,
	// capped at limit (0 = uncapped).
	SearchAuthored(ctx context.Context, dialog DialogSummary, author TargetPeer, limit int) ([]MessagePreview, error)

	// DeleteMessages issues one bulk revoke-delete call for ids in dialog.
	DeleteMessages(ctx context.Context, dialog DialogSummary, ids []int) error

	// ResolveUsername resolves a username to a user peer.
	ResolveUsername(ctx context.Context, username string) (TargetPeer, error)

	// ResolveUserID resolves a numeric id already known to this DC.
	ResolveUserID(ctx context.Context, id int64) (TargetPeer, error)

	// FindCachedUser scans the account's own dialog list for a cached user
	// peer with the given id. Last-resort resolution for privacy-restricted
	// accounts only visible through shared dialogs.
	FindCachedUser(ctx context.Context, id int64, maxDialogs int) (TargetPeer, error)

	// Profile fetches the full profile of a resolved peer, including
	// common chats.
	Profile(ctx context.Context, peer TargetPeer) (*TargetProfile, error)
}

// ConnPool is the per-account connection lease registry. Acquire checks the
// connection out exclusively, serializing operations for one account; Release
// returns it. Idle connections expire after a TTL and are rebuilt.
type ConnPool interface {
	Acquire(ctx context.Context, accountID int64) (Conn, error)
	Release(accountID int64)

	// Evict drops the cached connection, e.g. after logout.
	Evict(accountID int64)
}

// AuditProducer publishes operation summary events.
type AuditProducer interface {
	Publish(ctx context.Context, event AuditEvent) error
	Close() error
}

// Sleeper abstracts backoff waits so engine tests do not sleep.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration)
}
