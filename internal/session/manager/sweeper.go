package manager

import (
	"context"
	"log"
	"strconv"
	"time"

	"session-auth-service/backend/internal/audit"
)

// DefaultSweepInterval is how often the background sweeper runs when no
// interval is configured.
const DefaultSweepInterval = 5 * time.Minute

// RunSweeper periodically removes expired sessions until ctx is canceled.
// The sweep uses the same store operations and locking as foreground calls,
// so it is safe to run concurrently with them.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweepOnce(ctx)
		}
	}
}

func (m *Manager) sweepOnce(ctx context.Context) {
	n, err := m.store.SweepExpired(ctx, m.nowF())
	if err != nil {
		log.Printf("sweeper: sweep expired sessions: %v", err)
		return
	}
	if n > 0 {
		m.logEvent(ctx, "", audit.ActionSweep, strconv.Itoa(n))
	}
}
