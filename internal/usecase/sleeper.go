package usecase

import (
	"context"
	"time"

	"github.com/masho-mammad/shadowclean-bot/internal/domain"
)

// realSleeper implements domain.Sleeper with wall-clock time
type realSleeper struct{}

// NewSleeper creates the production sleeper
func NewSleeper() domain.Sleeper {
	return realSleeper{}
}

// Sleep waits for d or until the context is cancelled
func (realSleeper) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
