package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	gamesvc "github.com/playtrackhq/playtrack/src/app/games"
	sessionsvc "github.com/playtrackhq/playtrack/src/app/sessions"
	statssvc "github.com/playtrackhq/playtrack/src/app/stats"
	usersvc "github.com/playtrackhq/playtrack/src/app/users"
	"github.com/playtrackhq/playtrack/src/domain/game"
	"github.com/playtrackhq/playtrack/src/domain/session"
	"github.com/playtrackhq/playtrack/src/domain/user"
	"github.com/playtrackhq/playtrack/src/infra/memory"
	"github.com/playtrackhq/playtrack/src/infra/postgres"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	baseCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	shutdownTelemetry, err := setupTelemetry(baseCtx, "playtrack-api")
	if err != nil {
		logger.Warn("failed to initialize telemetry", zap.Error(err))
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTelemetry(ctx)
		}()
	}

	var (
		sessionRepo session.Repository
		userRepo    user.Repository
		gameRepo    game.Repository
	)
	switch cfg.StoreBackend {
	case storePostgres:
		store, err := postgres.Open(baseCtx, cfg.PostgresDSN)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer store.Close()
		if err := store.Migrate(baseCtx); err != nil {
			logger.Fatal("failed to migrate schema", zap.Error(err))
		}
		sessionRepo = postgres.NewSessionRepository(store)
		userRepo = postgres.NewUserRepository(store)
		gameRepo = postgres.NewGameRepository(store)
	default:
		sessionRepo = memory.NewSessionRepository()
		userRepo = memory.NewUserRepository()
		gameRepo = memory.NewGameRepository()
	}
	logger.Info("store initialized", zap.String("backend", cfg.StoreBackend))

	userService := usersvc.NewService(userRepo)
	gameService := gamesvc.NewService(gameRepo)
	sessionService := sessionsvc.NewService(sessionRepo, userRepo, gameRepo)
	statsService := statssvc.NewService(sessionRepo, userRepo, gameRepo)

	server := NewServer(ServerConfig{
		Logger:         logger,
		UserService:    userService,
		GameService:    gameService,
		SessionService: sessionService,
		StatsService:   statsService,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info("Playtrack API listening", zap.String("addr", cfg.HTTPAddress))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-baseCtx.Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
