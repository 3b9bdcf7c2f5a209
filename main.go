package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"churchku_backend/internals/configs"
	database "churchku_backend/internals/databases"
	educationScheduler "churchku_backend/internals/features/groups/education/scheduler"
	authScheduler "churchku_backend/internals/features/users/auth/scheduler"
	authService "churchku_backend/internals/features/users/auth/service"
	routes "churchku_backend/internals/route"
)

func main() {
	configs.LoadEnv()

	log, err := configs.NewLogger(configs.LogLevel, configs.LogFormat, "churchku-backend")
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)
	configs.FlushBootNotes(log)

	app := newApp(configs.TrustedProxies)

	// DB connect + pool + warm-up
	database.ConnectDB(log)
	database.TunePool(log)
	if err := database.Migrate(database.DB, log); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	database.WarmUpQueries(log)
	database.ConnectRedis(log)

	tokens := authService.NewTokenIssuer(configs.JWTSecret, configs.SessionTTL, configs.LoginTicketTTL)
	revocations := authService.NewRevocationStore(database.DB, database.Redis)
	gate := authService.NewSessionGate(tokens, revocations, log)
	auth := authService.NewAuthService(database.DB, tokens, revocations, log)

	if err := authService.BootstrapSystemAdmin(database.DB, configs.SystemAdminMemberID, log); err != nil {
		log.Error("system admin bootstrap failed", zap.Error(err))
	}

	// schedulers start once the schema exists and stop before the pool closes
	bgCtx, stopBackground := context.WithCancel(context.Background())
	cleanupDone := authScheduler.StartRevokedTokenCleanup(bgCtx, database.DB, log)
	reconcileDone := educationScheduler.StartGraduatedCountReconciler(bgCtx, database.DB, log)

	routes.BaseRoutes(app)
	routes.SetupRoutes(app, database.DB, auth, gate)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Info("listening", zap.String("port", configs.Port), zap.String("env", configs.AppEnv))
		if err := app.Listen("0.0.0.0:" + configs.Port); err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	stopBackground()
	for _, done := range []<-chan struct{}{cleanupDone, reconcileDone} {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}

	database.CloseRedis()
	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
