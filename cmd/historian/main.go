// cmd/historian/main.go runs the historian: it drains the Redis action queue
// into PostgreSQL and abandons games that went quiet.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/crazygrid/internal/cache"
	"github.com/jason-s-yu/crazygrid/internal/config"
	"github.com/jason-s-yu/crazygrid/internal/database"
	"github.com/jason-s-yu/crazygrid/internal/historian"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.ConnectDB(ctx, cfg.DatabaseURL); err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	defer database.Close()
	if err := database.InitSchema(ctx); err != nil {
		logger.WithError(err).Fatal("schema init failed")
	}
	if err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.HistorianQueue); err != nil {
		logger.WithError(err).Fatal("redis connection failed")
	}

	hs := historian.New(historian.Options{
		BatchSize:    cfg.HistorianBatchSize,
		FlushEvery:   cfg.HistorianFlush,
		AbandonAfter: cfg.HistorianAbandonAge,
		Sink:         database.Store{},
		Logger:       logger,
	})
	hs.Run(ctx)
	logger.Info("Historian shutdown complete.")
}
