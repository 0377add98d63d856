package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

// accountConn is a live authenticated MTProto connection for one account.
// It implements domain.Conn. The underlying client runs in its own goroutine
// for the lifetime of the lease entry; operations talk to it through the raw
// API handle.
type accountConn struct {
	accountID int64
	client    *telegram.Client
	api       *tg.Client
	storage   *memorySessionStorage
	selfID    int64

	connected  bool
	mu         sync.RWMutex
	cancelFunc context.CancelFunc
	runDone    chan struct{}

	logger zerolog.Logger

	// Rate limiter for API calls
	rateLimiter *rate.Limiter

	searchPageSize int
}

// newAccountConn builds an unconnected conn around decrypted session bytes
func newAccountConn(accountID int64, apiID int, apiHash string, sessionBytes []byte, searchPageSize int, logger zerolog.Logger) *accountConn {
	storage := newMemorySessionStorage(sessionBytes)
	return &accountConn{
		accountID:      accountID,
		storage:        storage,
		client:         telegram.NewClient(apiID, apiHash, telegram.Options{SessionStorage: storage}),
		logger:         logger.With().Str("component", "account_conn").Int64("account_id", accountID).Logger(),
		rateLimiter:    rate.NewLimiter(rate.Every(time.Second), 10), // 10 requests per second
		searchPageSize: searchPageSize,
	}
}

// connect starts the client goroutine and blocks until the session is
// restored and verified authorized, or fails.
func (c *accountConn) connect(ctx context.Context) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return nil
	}

	c.logger.Debug().Msg("connecting")

	clientCtx, cancel := context.WithCancel(context.Background())
	c.cancelFunc = cancel

	readyChan := make(chan struct{})
	errChan := make(chan error, 1)
	c.runDone = make(chan struct{})
	runDone := c.runDone
	// Release before waiting, the run goroutine takes the lock on ready
	c.mu.Unlock()

	go func() {
		defer close(runDone)
		err := c.client.Run(clientCtx, func(ctx context.Context) error {
			status, err := c.client.Auth().Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to check auth status: %w", err)
			}
			if !status.Authorized {
				return domain.ErrNoActiveSession
			}

			self, err := c.client.Self(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch self: %w", err)
			}

			c.mu.Lock()
			c.api = c.client.API()
			c.selfID = self.ID
			c.connected = true
			c.mu.Unlock()

			close(readyChan)

			// Keep connection alive until the lease entry is closed
			<-ctx.Done()
			return ctx.Err()
		})
		select {
		case errChan <- err:
		default:
		}
	}()

	select {
	case <-readyChan:
		c.logger.Info().Int64("self_id", c.SelfID()).Msg("connected")
		return nil
	case err := <-errChan:
		c.abortConnect(cancel)
		if err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		return domain.ErrNotConnected
	case <-ctx.Done():
		c.abortConnect(cancel)
		return ctx.Err()
	}
}

// abortConnect rolls back a failed connection attempt
func (c *accountConn) abortConnect(cancel context.CancelFunc) {
	cancel()
	c.mu.Lock()
	c.connected = false
	c.api = nil
	c.cancelFunc = nil
	c.runDone = nil
	c.mu.Unlock()
}

// close stops the client goroutine and waits for it to finish
func (c *accountConn) close(ctx context.Context) {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return
	}
	cancel := c.cancelFunc
	runDone := c.runDone
	c.connected = false
	c.api = nil
	c.cancelFunc = nil
	c.runDone = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		if runDone != nil {
			select {
			case <-runDone:
			case <-ctx.Done():
				c.logger.Warn().Msg("timeout waiting for client shutdown")
			}
		}
	}
	c.logger.Debug().Msg("disconnected")
}

// apiHandle returns the raw API client after a connectivity check
func (c *accountConn) apiHandle() (*tg.Client, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.connected || c.api == nil {
		return nil, domain.ErrNotConnected
	}
	return c.api, nil
}

// wait applies the per-connection rate limit before an API call
func (c *accountConn) wait(ctx context.Context) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait cancelled: %w", err)
	}
	return nil
}

// SelfID returns the numeric id of the logged-in account
func (c *accountConn) SelfID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selfID
}

// sessionBytes returns the current session for re-encryption into the vault
func (c *accountConn) sessionBytes() []byte {
	return c.storage.Bytes()
}

var _ domain.Conn = (*accountConn)(nil)
