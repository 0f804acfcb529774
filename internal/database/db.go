// internal/database/db.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the shared connection pool. Connect it once at startup.
var DB *pgxpool.Pool

// ConnectDB opens the pool for connStr and verifies it with a ping.
func ConnectDB(ctx context.Context, connStr string) error {
	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return fmt.Errorf("unable to parse pgx config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("unable to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("db ping error: %w", err)
	}

	DB = pool
	return nil
}

// Close releases the pool if it was opened.
func Close() {
	if DB != nil {
		DB.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS players (
	id           UUID PRIMARY KEY,
	username     TEXT NOT NULL,
	is_ephemeral BOOLEAN NOT NULL DEFAULT TRUE,
	rating       INTEGER NOT NULL DEFAULT 1000,
	coins        INTEGER NOT NULL DEFAULT 0,
	games_played INTEGER NOT NULL DEFAULT 0,
	wins         INTEGER NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS game_history (
	id           BIGSERIAL PRIMARY KEY,
	player_id    UUID NOT NULL REFERENCES players(id),
	game_id      UUID,
	won          BOOLEAN NOT NULL,
	rating_delta INTEGER NOT NULL,
	coins_earned INTEGER NOT NULL,
	bot_count    INTEGER NOT NULL,
	played_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS games (
	id         UUID PRIMARY KEY,
	status     TEXT NOT NULL DEFAULT 'in_progress',
	start_time TIMESTAMPTZ,
	end_time   TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS game_actions (
	game_id        UUID NOT NULL REFERENCES games(id),
	action_index   INTEGER NOT NULL,
	actor_user_id  UUID,
	action_type    TEXT NOT NULL,
	action_payload JSONB,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (game_id, action_index)
);

CREATE INDEX IF NOT EXISTS players_rating_idx ON players (rating DESC) WHERE games_played > 0;
`

// InitSchema creates the tables the service needs if they do not exist yet.
func InitSchema(ctx context.Context) error {
	if _, err := DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
