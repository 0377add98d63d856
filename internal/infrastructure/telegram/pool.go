package telegram

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
	"github.com/masho-mammad/shadowclean-bot/internal/infrastructure/metrics"
)

// poolEntry holds one account's connection plus its exclusive lease token.
// The sem channel has capacity one; holding the token serializes every
// operation for the account.
type poolEntry struct {
	sem      chan struct{}
	conn     *accountConn
	lastUsed time.Time
}

// Pool is the per-account connection lease registry implementing
// domain.ConnPool. Connections are built lazily from vault sessions, handed
// out exclusively and torn down after sitting idle past the TTL.
type Pool struct {
	apiID          int
	apiHash        string
	ttl            time.Duration
	searchPageSize int

	vault   domain.CredentialVault
	logger  zerolog.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	entries map[int64]*poolEntry

	sweepStop chan struct{}
	sweepDone chan struct{}
}

// NewPool creates a new connection pool
func NewPool(apiID int, apiHash string, ttl time.Duration, searchPageSize int, vault domain.CredentialVault, logger zerolog.Logger) *Pool {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Pool{
		apiID:          apiID,
		apiHash:        apiHash,
		ttl:            ttl,
		searchPageSize: searchPageSize,
		vault:          vault,
		logger:         logger.With().Str("component", "conn_pool").Logger(),
		metrics:        metrics.GetDefaultMetrics(),
		entries:        make(map[int64]*poolEntry),
	}
}

func (p *Pool) entry(accountID int64) *poolEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[accountID]
	if !ok {
		e = &poolEntry{sem: make(chan struct{}, 1)}
		p.entries[accountID] = e
	}
	return e
}

// Acquire checks out the account's connection exclusively, building and
// connecting it first when needed. Blocks while another operation for the
// same account holds the lease.
func (p *Pool) Acquire(ctx context.Context, accountID int64) (domain.Conn, error) {
	e := p.entry(accountID)

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	// Lease held from here; any error path must give it back
	if e.conn != nil && time.Since(e.lastUsed) > p.ttl {
		p.logger.Debug().Int64("account_id", accountID).Msg("dropping idle connection")
		p.closeConn(e.conn)
		e.conn = nil
	}

	if e.conn == nil {
		conn, err := p.dial(ctx, accountID)
		if err != nil {
			<-e.sem
			return nil, err
		}
		e.conn = conn
	}

	return e.conn, nil
}

// dial builds a fresh connection from the vault session
func (p *Pool) dial(ctx context.Context, accountID int64) (*accountConn, error) {
	record, err := p.vault.GetUnexpiredAuthorized(ctx, accountID)
	if errors.Is(err, domain.ErrDecryptionFailed) {
		// Unreadable ciphertext is a dead login, the account has to redo it
		p.logger.Warn().Int64("account_id", accountID).Msg("stored session unreadable")
		return nil, domain.ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNoActiveSession
	}

	conn := newAccountConn(accountID, p.apiID, p.apiHash, record.Session, p.searchPageSize, p.logger)
	err = conn.connect(ctx)
	p.metrics.RecordConnDial(err)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Release returns the lease. The refreshed session bytes are written back to
// the vault so server-side key rotations survive a restart.
func (p *Pool) Release(accountID int64) {
	p.mu.Lock()
	e, ok := p.entries[accountID]
	p.mu.Unlock()
	if !ok {
		return
	}

	if e.conn != nil {
		e.lastUsed = time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := p.vault.UpdateSession(ctx, accountID, e.conn.sessionBytes()); err != nil {
			p.logger.Warn().Err(err).Int64("account_id", accountID).Msg("failed to persist session")
		}
		cancel()
	}

	select {
	case <-e.sem:
	default:
		p.logger.Warn().Int64("account_id", accountID).Msg("release without matching acquire")
	}
}

// Evict drops the cached connection, e.g. after logout. Waits for any
// in-flight lease to finish first. The entry itself stays registered so a
// Release racing the eviction still finds its semaphore.
func (p *Pool) Evict(accountID int64) {
	p.mu.Lock()
	e, ok := p.entries[accountID]
	p.mu.Unlock()
	if !ok {
		return
	}

	e.sem <- struct{}{}
	if e.conn != nil {
		p.closeConn(e.conn)
		e.conn = nil
	}
	<-e.sem
}

// Start launches the idle sweeper
func (p *Pool) Start() {
	p.sweepStop = make(chan struct{})
	p.sweepDone = make(chan struct{})
	go p.sweep()
}

// sweep closes connections that sat idle past the TTL
func (p *Pool) sweep() {
	defer close(p.sweepDone)
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-p.sweepStop:
			return
		case <-ticker.C:
			p.mu.Lock()
			candidates := make(map[int64]*poolEntry, len(p.entries))
			for id, e := range p.entries {
				candidates[id] = e
			}
			p.mu.Unlock()

			for id, e := range candidates {
				select {
				case e.sem <- struct{}{}:
				default:
					continue // in use, skip
				}
				if e.conn != nil && time.Since(e.lastUsed) > p.ttl {
					p.logger.Debug().Int64("account_id", id).Msg("sweeping idle connection")
					p.closeConn(e.conn)
					e.conn = nil
				}
				<-e.sem
			}
		}
	}
}

// Close stops the sweeper and tears down every connection. In-flight leases
// are waited out one by one; the registry is only reset once every entry has
// been drained, so late Releases still find their semaphore.
func (p *Pool) Close() {
	if p.sweepStop != nil {
		close(p.sweepStop)
		<-p.sweepDone
	}

	p.mu.Lock()
	entries := make([]*poolEntry, 0, len(p.entries))
	for _, e := range p.entries {
		entries = append(entries, e)
	}
	p.mu.Unlock()

	for _, e := range entries {
		e.sem <- struct{}{}
		if e.conn != nil {
			p.closeConn(e.conn)
			e.conn = nil
		}
		<-e.sem
	}

	p.mu.Lock()
	p.entries = make(map[int64]*poolEntry)
	p.mu.Unlock()
}

func (p *Pool) closeConn(conn *accountConn) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn.close(ctx)
	p.metrics.RecordConnClose()
}

var _ domain.ConnPool = (*Pool)(nil)
