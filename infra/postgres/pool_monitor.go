package postgres

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// MonitorPool logs connection pool statistics every interval until ctx ends.
func (r *PgRepository) MonitorPool(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := r.db.Stats()
			zap.L().Info("Connection pool stats",
				zap.Int("max_open", stats.MaxOpenConnections),
				zap.Int("open", stats.OpenConnections),
				zap.Int("in_use", stats.InUse),
				zap.Int("idle", stats.Idle),
				zap.Int64("wait_count", stats.WaitCount),
				zap.Int64("wait_duration_ms", stats.WaitDuration.Milliseconds()),
			)
		}
	}
}
