package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

// fakeConn is a scriptable domain.Conn for engine tests
type fakeConn struct {
	selfID  int64
	dialogs []domain.DialogSummary

	// authored maps dialog id to the messages a search should yield
	authored map[int64][]domain.MessagePreview

	// searchErrs scripts per-dialog search failures, consumed in order
	searchErrs map[int64][]error

	// deleteErrs scripts delete failures keyed by call index, consumed in order
	deleteErrs []error

	// recorded calls
	deleteCalls [][]int
	searchCalls int

	usernames map[string]domain.TargetPeer
	userIDs   map[int64]domain.TargetPeer
	cached    map[int64]domain.TargetPeer
}

func (f *fakeConn) SelfID() int64 { return f.selfID }

func (f *fakeConn) ListDialogs(ctx context.Context, max int) ([]domain.DialogSummary, error) {
	if max > 0 && len(f.dialogs) > max {
		return f.dialogs[:max], nil
	}
	return f.dialogs, nil
}

func (f *fakeConn) SearchAuthored(ctx context.Context, dialog domain.DialogSummary, author domain.TargetPeer, limit int) ([]domain.MessagePreview, error) {
	f.searchCalls++
	if errs := f.searchErrs[dialog.ID]; len(errs) > 0 {
		err := errs[0]
		f.searchErrs[dialog.ID] = errs[1:]
		return nil, err
	}
	msgs := f.authored[dialog.ID]
	if limit > 0 && len(msgs) > limit {
		return msgs[:limit], nil
	}
	return msgs, nil
}

func (f *fakeConn) DeleteMessages(ctx context.Context, dialog domain.DialogSummary, ids []int) error {
	call := len(f.deleteCalls)
	f.deleteCalls = append(f.deleteCalls, append([]int(nil), ids...))
	if call < len(f.deleteErrs) && f.deleteErrs[call] != nil {
		return f.deleteErrs[call]
	}
	// Deleted ids disappear from subsequent searches
	remaining := f.authored[dialog.ID][:0:0]
	deleted := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		deleted[id] = struct{}{}
	}
	for _, m := range f.authored[dialog.ID] {
		if _, gone := deleted[m.ID]; !gone {
			remaining = append(remaining, m)
		}
	}
	f.authored[dialog.ID] = remaining
	return nil
}

func (f *fakeConn) ResolveUsername(ctx context.Context, username string) (domain.TargetPeer, error) {
	if peer, ok := f.usernames[username]; ok {
		return peer, nil
	}
	return domain.TargetPeer{}, domain.ErrTargetNotFound
}

func (f *fakeConn) ResolveUserID(ctx context.Context, id int64) (domain.TargetPeer, error) {
	if peer, ok := f.userIDs[id]; ok {
		return peer, nil
	}
	return domain.TargetPeer{}, domain.ErrTargetNotFound
}

func (f *fakeConn) FindCachedUser(ctx context.Context, id int64, maxDialogs int) (domain.TargetPeer, error) {
	if peer, ok := f.cached[id]; ok {
		return peer, nil
	}
	return domain.TargetPeer{}, domain.ErrTargetNotFound
}

func (f *fakeConn) Profile(ctx context.Context, peer domain.TargetPeer) (*domain.TargetProfile, error) {
	return &domain.TargetProfile{Peer: peer}, nil
}

// fakePool hands out one fake connection without leasing semantics
type fakePool struct {
	conn       domain.Conn
	acquireErr error
	evicted    []int64
}

func (p *fakePool) Acquire(ctx context.Context, accountID int64) (domain.Conn, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	return p.conn, nil
}

func (p *fakePool) Release(accountID int64) {}

func (p *fakePool) Evict(accountID int64) {
	p.evicted = append(p.evicted, accountID)
}

// fakeSleeper records requested waits instead of sleeping
type fakeSleeper struct {
	slept []time.Duration
}

func (s *fakeSleeper) Sleep(ctx context.Context, d time.Duration) {
	s.slept = append(s.slept, d)
}

// fakeMessenger records sends and edits; editErr scripts edit failures
type fakeMessenger struct {
	sends   []string
	edits   []string
	sendErr error
	editErr error
	nextID  int
}

func (m *fakeMessenger) Send(ctx context.Context, chatID int64, text string, markup any) (int, error) {
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	m.sends = append(m.sends, text)
	m.nextID++
	return m.nextID, nil
}

func (m *fakeMessenger) Edit(ctx context.Context, chatID int64, messageID int, text string, markup any) error {
	if m.editErr != nil {
		return m.editErr
	}
	m.edits = append(m.edits, text)
	return nil
}

func (m *fakeMessenger) AnswerCallback(ctx context.Context, callbackID string) error {
	return nil
}

func (m *fakeMessenger) LookupPublic(ctx context.Context, username string) (*domain.TargetProfile, error) {
	return nil, domain.ErrTargetNotFound
}

// fakeGateway scripts login step outcomes
type fakeGateway struct {
	sendCodeSession []byte
	sendCodeHash    string
	sendCodeErr     error

	signInSession []byte
	signInErr     error

	passwordSession []byte
	passwordErr     error

	loggedOut [][]byte
}

func (g *fakeGateway) SendCode(ctx context.Context, phone string) ([]byte, string, error) {
	if g.sendCodeErr != nil {
		return nil, "", g.sendCodeErr
	}
	return g.sendCodeSession, g.sendCodeHash, nil
}

func (g *fakeGateway) SignInCode(ctx context.Context, session []byte, phone, code, codeHash string) ([]byte, error) {
	if g.signInErr != nil {
		if errors.Is(g.signInErr, domain.ErrPasswordNeeded) {
			return g.signInSession, g.signInErr
		}
		return nil, g.signInErr
	}
	return g.signInSession, nil
}

func (g *fakeGateway) SignInPassword(ctx context.Context, session []byte, password string) ([]byte, error) {
	if g.passwordErr != nil {
		return nil, g.passwordErr
	}
	return g.passwordSession, nil
}

func (g *fakeGateway) LogOut(ctx context.Context, session []byte) error {
	g.loggedOut = append(g.loggedOut, session)
	return nil
}

// memVault is an in-memory domain.CredentialVault for state machine tests
type memVault struct {
	mu      sync.Mutex
	records map[int64]*domain.CredentialRecord
}

func newMemVault() *memVault {
	return &memVault{records: make(map[int64]*domain.CredentialRecord)}
}

func (v *memVault) Save(ctx context.Context, accountID int64, phone string, session []byte, codeHash string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.records[accountID] = &domain.CredentialRecord{
		AccountID: accountID,
		Phone:     phone,
		Session:   session,
		CodeHash:  codeHash,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	return nil
}

func (v *memVault) UpdateSession(ctx context.Context, accountID int64, session []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	r, ok := v.records[accountID]
	if !ok {
		return domain.ErrNoActiveSession
	}
	r.Session = session
	return nil
}

func (v *memVault) MarkAuthorized(ctx context.Context, accountID int64, session []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	r, ok := v.records[accountID]
	if !ok {
		return domain.ErrNoActiveSession
	}
	r.Session = session
	r.Authorized = true
	r.CodeHash = ""
	return nil
}

func (v *memVault) Get(ctx context.Context, accountID int64) (*domain.CredentialRecord, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.records[accountID], nil
}

func (v *memVault) GetUnexpiredAuthorized(ctx context.Context, accountID int64) (*domain.CredentialRecord, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	r := v.records[accountID]
	if !r.Usable(time.Now()) {
		return nil, nil
	}
	return r, nil
}

func (v *memVault) Delete(ctx context.Context, accountID int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.records, accountID)
	return nil
}

// noopAudit drops audit events
type noopAudit struct{}

func (noopAudit) Publish(ctx context.Context, event domain.AuditEvent) error { return nil }
func (noopAudit) Close() error                                               { return nil }
