package domain

import "time"

// Account represents an end user of the bot, distinct from any third-party
// target being searched.
type Account struct {
	ID        int64
	Username  string
	FirstName string
	Lang      string
	Credits   int
	IsBanned  bool
	IsAdmin   bool
	TotalUsed int
	CreatedAt time.Time
}

// CredentialRecord is the persisted login state for one account. EncSession
// holds the opaque ciphertext of the MTProto session; CodeHash is only
// meaningful while a login is in flight.
type CredentialRecord struct {
	AccountID  int64
	Phone      string
	Session    []byte // decrypted session bytes, never the raw ciphertext
	CodeHash   string
	Authorized bool
	ExpiresAt  time.Time
}

// Usable reports whether the record can back an authenticated connection.
func (r *CredentialRecord) Usable(now time.Time) bool {
	return r != nil && r.Authorized && r.ExpiresAt.After(now)
}

// ConversationState marks where an account is in a multi-step dialog with
// the bot. Exactly one state exists per actively-interacting account.
type ConversationState string

const (
	StateNone             ConversationState = ""
	StateAwaitingPhone    ConversationState = "awaiting_phone"
	StateAwaitingCode     ConversationState = "awaiting_code"
	StateAwaitingPassword ConversationState = "awaiting_password"
	StateAwaitingOSINT    ConversationState = "awaiting_osint"
	StateAwaitingStalk    ConversationState = "awaiting_stalk"
	StateStalkPanel       ConversationState = "stalk_panel"
	StateAdminAddCredits  ConversationState = "admin_add_credits"
	StateAdminSetCredits  ConversationState = "admin_set_credits"
	StateAdminBan         ConversationState = "admin_ban"
	StateAdminUnban       ConversationState = "admin_unban"
	StateAdminLookup      ConversationState = "admin_lookup"
	StateAdminBroadcast   ConversationState = "admin_broadcast"
)

// ConversationData carries step-local values between webhook events.
type ConversationData struct {
	State      ConversationState
	Phone      string
	CodeHash   string
	TargetID   int64
	TargetHash int64
	TargetName string
	Items      []DialogSummary // stalk panel selection list
}

// DialogKind classifies a dialog for eligibility decisions.
type DialogKind string

const (
	DialogSupergroup DialogKind = "supergroup"
	DialogBasicGroup DialogKind = "basic_group"
	DialogBroadcast  DialogKind = "broadcast"
)

// DialogSummary describes one group/channel membership of the account.
type DialogSummary struct {
	ID         int64
	AccessHash int64
	Title      string
	Username   string // empty for private dialogs
	Kind       DialogKind
	Matched    int // matched-message count for the current operation
}

// MessagePreview is one located message, link-renderable.
type MessagePreview struct {
	ID       int
	Date     time.Time
	HasMedia bool
	Snippet  string
	Link     string
}

// ScanResult aggregates a dry-run scan across dialogs.
type ScanResult struct {
	Dialogs  []DialogSummary
	Messages int
	Media    int
	Text     int
	Skipped  []SkippedDialog
}

// DialogOutcome is the tagged per-dialog result of a cleanup pass.
type DialogOutcome struct {
	Dialog  DialogSummary
	Deleted int
	Errors  int
	Skipped bool
	Reason  string // set only when Skipped
}

// SkippedDialog records a dialog left untouched and why.
type SkippedDialog struct {
	Dialog DialogSummary
	Reason string
}

// CleanupResult aggregates an irreversible delete pass.
type CleanupResult struct {
	Deleted  int
	Errors   int
	Dialogs  int // dialogs with at least one deletion
	Outcomes []DialogOutcome
	Elapsed  time.Duration
}

// TargetPeer is a resolved remote account handle.
type TargetPeer struct {
	ID         int64
	AccessHash int64
	Username   string
	FirstName  string
	LastName   string
}

// DisplayName returns a human-readable name, falling back to the username.
func (p TargetPeer) DisplayName() string {
	name := p.FirstName
	if p.LastName != "" {
		if name != "" {
			name += " "
		}
		name += p.LastName
	}
	if name == "" {
		name = p.Username
	}
	if name == "" {
		name = "?"
	}
	return name
}

// TargetProfile is the OSINT view over a target.
type TargetProfile struct {
	Peer     TargetPeer
	Bio      string
	HasPhoto bool
	LastSeen string
	Commons  []DialogSummary
}

// StalkReport groups the dialogs where a target has authored messages.
type StalkReport struct {
	Target   TargetPeer
	Groups   []DialogSummary
	Channels []DialogSummary
	Total    int
}

// Items returns groups followed by channels, the panel selection order.
func (r *StalkReport) Items() []DialogSummary {
	items := make([]DialogSummary, 0, len(r.Groups)+len(r.Channels))
	items = append(items, r.Groups...)
	items = append(items, r.Channels...)
	return items
}

// AuditEvent is published after a long-running operation completes.
type AuditEvent struct {
	OperationID string        `json:"operation_id"`
	AccountID   int64         `json:"account_id"`
	Operation   string        `json:"operation"`
	Dialogs     int           `json:"dialogs"`
	Deleted     int           `json:"deleted"`
	Errors      int           `json:"errors"`
	Duration    time.Duration `json:"duration_ns"`
}
