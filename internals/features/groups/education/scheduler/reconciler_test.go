package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"churchku_backend/internals/helpers/testdb"
)

func waitClosed(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "loop still running after cancel")
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	db, _ := testdb.New(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := StartGraduatedCountReconciler(ctx, db, zap.NewNop())
	cancel()
	waitClosed(t, done)
}

func TestLoopExitsWhenStartedCancelled(t *testing.T) {
	db, _ := testdb.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	waitClosed(t, StartGraduatedCountReconciler(ctx, db, zap.NewNop()))
}
