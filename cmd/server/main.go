// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/crazygrid/internal/auth"
	"github.com/jason-s-yu/crazygrid/internal/cache"
	"github.com/jason-s-yu/crazygrid/internal/config"
	"github.com/jason-s-yu/crazygrid/internal/database"
	"github.com/jason-s-yu/crazygrid/internal/handlers"
	"github.com/jason-s-yu/crazygrid/internal/middleware"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := auth.Init(cfg.TokenExpireTime); err != nil {
		logger.WithError(err).Fatal("auth init failed")
	}
	if err := database.ConnectDB(ctx, cfg.DatabaseURL); err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	defer database.Close()
	if err := database.InitSchema(ctx); err != nil {
		logger.WithError(err).Fatal("schema init failed")
	}
	// Action logging is best effort; the game server runs without Redis.
	if err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.HistorianQueue); err != nil {
		logger.WithError(err).Warn("redis unavailable, game actions will not be archived")
	}

	srv, err := handlers.NewGameServer(cfg, database.Store{}, logger)
	if err != nil {
		logger.WithError(err).Fatal("game server init failed")
	}
	logged := middleware.LogMiddleware(logger)

	mux := http.NewServeMux()

	// player endpoints
	mux.Handle("/player/me", logged(handlers.MeHandler(srv)))
	mux.Handle("/leaderboard", logged(handlers.LeaderboardHandler(srv)))

	// game endpoints
	mux.Handle("/game/create", logged(handlers.CreateGameHandler(srv)))
	mux.Handle("/game/state/", logged(handlers.GameStateHandler(srv)))
	mux.Handle("/game/ws/", logged(handlers.GameWSHandler(logger, srv)))

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Infof("Running on %s", httpSrv.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("server exited")
	}
	logger.Info("server stopped")
}
