// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the environment-derived configuration shared by the binaries.
type Config struct {
	Port     string
	LogLevel string

	DatabaseURL string

	RedisAddr string
	RedisDB   int

	HistorianQueue      string
	HistorianBatchSize  int
	HistorianFlush      time.Duration
	HistorianAbandonAge time.Duration

	TokenExpireTime string

	BotThinkMin time.Duration
	BotThinkMax time.Duration

	HandSize    int
	CallPenalty int
}

// Load reads the configuration from the environment, applying defaults.
// godotenv/autoload in each main populates the environment from .env first.
func Load() Config {
	cfg := Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: databaseURL(),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),

		HistorianQueue:      getEnv("HISTORIAN_QUEUE_NAME", "crazygrid_actions"),
		HistorianBatchSize:  getEnvInt("HISTORIAN_BATCH_SIZE", 20),
		HistorianFlush:      time.Duration(getEnvInt("HISTORIAN_FLUSH_MS", 500)) * time.Millisecond,
		HistorianAbandonAge: time.Duration(getEnvInt("HISTORIAN_ABANDON_MINUTES", 30)) * time.Minute,

		TokenExpireTime: getEnv("TOKEN_EXPIRE_TIME", "never"),

		BotThinkMin: time.Duration(getEnvInt("BOT_THINK_MIN_MS", 1000)) * time.Millisecond,
		BotThinkMax: time.Duration(getEnvInt("BOT_THINK_MAX_MS", 2000)) * time.Millisecond,

		HandSize:    getEnvInt("HAND_SIZE", 5),
		CallPenalty: getEnvInt("CALL_PENALTY", 2),
	}
	if cfg.BotThinkMax < cfg.BotThinkMin {
		cfg.BotThinkMax = cfg.BotThinkMin
	}
	return cfg
}

// databaseURL prefers DATABASE_URL and otherwise assembles one from the
// individual POSTGRES_/PG_ variables.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		getEnv("POSTGRES_USER", "postgres"),
		os.Getenv("POSTGRES_PASSWORD"),
		getEnv("PG_HOST", "localhost"),
		getEnv("PG_PORT", "5432"),
		getEnv("PG_DATABASE", "crazygrid"),
	)
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
