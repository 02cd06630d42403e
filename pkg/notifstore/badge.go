package notifstore

import (
	"context"
	"sync"
	"time"
)

// Badge tracks the unread count for a navigation surface. It is deliberately
// independent of Store: the badge stays correct even when no notification
// page is open.
type Badge struct {
	gw       GatewayClient
	interval time.Duration

	mu    sync.Mutex
	count int64
	err   error
}

func NewBadge(gw GatewayClient, interval time.Duration) *Badge {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Badge{gw: gw, interval: interval}
}

// Refresh fetches the unread count once. On failure the last known count is
// kept.
func (b *Badge) Refresh(ctx context.Context) error {
	count, err := b.gw.UnreadCount(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.err = err
		return err
	}
	b.count = count
	b.err = nil
	return nil
}

// Run polls the unread count until ctx is cancelled. It refreshes once
// immediately so the badge is populated before the first tick.
func (b *Badge) Run(ctx context.Context) {
	_ = b.Refresh(ctx)

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = b.Refresh(ctx)
		}
	}
}

func (b *Badge) Count() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

func (b *Badge) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}
