package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"churchku_backend/internals/configs"
	"churchku_backend/internals/features/groups/education/service"
)

// StartGraduatedCountReconciler re-derives every program's graduated count on an interval
// until ctx is cancelled. Graduation keeps the counter exact under a row lock; this loop
// repairs anything written around it (manual SQL, restored rows). The returned channel
// closes once the loop has stopped.
func StartGraduatedCountReconciler(ctx context.Context, db *gorm.DB, log *zap.Logger) <-chan struct{} {
	interval := configs.GetEnvDuration("GRADUATED_COUNT_RECONCILE_INTERVAL", 6*time.Hour)
	svc := service.NewEducationService(db, log)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if ctx.Err() != nil {
				return
			}
			runReconcile(ctx, svc, interval, log)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return done
}

func runReconcile(parent context.Context, svc *service.EducationService, budget time.Duration, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(parent, budget)
	defer cancel()

	fixed, err := svc.ReconcileGraduatedCounts(ctx, nil)
	if err != nil {
		log.Error("graduated count reconcile failed", zap.Error(err))
		return
	}
	if len(fixed) > 0 {
		log.Info("graduated counts reconciled", zap.Int("programs", len(fixed)))
	}
}
