package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"churchku_backend/internals/configs"
	"churchku_backend/internals/features/users/auth/service"
)

const cleanupBatch = 500

// StartRevokedTokenCleanup purges DB revocations whose token has already expired, until ctx
// is cancelled. Redis entries expire on their own; the loop only matters for the DB fallback.
// The returned channel closes once the loop has stopped.
func StartRevokedTokenCleanup(ctx context.Context, db *gorm.DB, log *zap.Logger) <-chan struct{} {
	interval := configs.GetEnvDuration("REVOKED_TOKEN_CLEANUP_INTERVAL", 24*time.Hour)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if ctx.Err() != nil {
				return
			}
			runCleanup(ctx, db, log)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return done
}

func runCleanup(ctx context.Context, db *gorm.DB, log *zap.Logger) {
	var total int64
	for ctx.Err() == nil {
		n, err := service.PurgeExpired(db.WithContext(ctx), time.Now(), cleanupBatch)
		if err != nil {
			log.Error("revoked token cleanup failed", zap.Error(err))
			return
		}
		total += n
		if n < cleanupBatch {
			break
		}
	}
	if total > 0 {
		log.Info("revoked tokens purged", zap.Int64("count", total))
	}
}
