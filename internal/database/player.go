// internal/database/player.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jason-s-yu/crazygrid/internal/models"
	"github.com/jason-s-yu/crazygrid/internal/rating"
)

// ErrPlayerNotFound is returned when a player record does not exist.
var ErrPlayerNotFound = errors.New("player not found")

const playerColumns = `id, username, is_ephemeral, rating, coins, games_played, wins`

func scanPlayer(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.IsEphemeral, &u.Rating, &u.Coins, &u.GamesPlayed, &u.Wins)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// EnsurePlayer creates the player with the default rating, or refreshes the
// username of an existing one, and returns the stored record.
func EnsurePlayer(ctx context.Context, id uuid.UUID, username string) (*models.User, error) {
	q := `
		INSERT INTO players (id, username, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (id)
		DO UPDATE SET username = EXCLUDED.username, updated_at = NOW()
		RETURNING ` + playerColumns
	u, err := scanPlayer(DB.QueryRow(ctx, q, id, username, rating.DefaultRating))
	if err != nil {
		return nil, fmt.Errorf("ensure player: %w", err)
	}
	return u, nil
}

// GetPlayer loads a player by id.
func GetPlayer(ctx context.Context, id uuid.UUID) (*models.User, error) {
	q := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	return scanPlayer(DB.QueryRow(ctx, q, id))
}

// RecordGameResult appends the result to the player's history and applies it
// to their totals. The rating never drops below zero.
func RecordGameResult(ctx context.Context, res models.GameResult) error {
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		insQ := `
			INSERT INTO game_history (player_id, game_id, won, rating_delta, coins_earned, bot_count)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := tx.Exec(ctx, insQ, res.UserID, res.GameID, res.Won, res.RatingDelta, res.CoinsEarned, res.BotCount); err != nil {
			return err
		}

		wins := 0
		if res.Won {
			wins = 1
		}
		updQ := `
			UPDATE players SET
				rating = GREATEST(0, rating + $1),
				coins = coins + $2,
				games_played = games_played + 1,
				wins = wins + $3,
				updated_at = NOW()
			WHERE id = $4
		`
		_, err := tx.Exec(ctx, updQ, res.RatingDelta, res.CoinsEarned, wins, res.UserID)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("record game result for %s: %w", res.UserID, ErrPlayerNotFound)
		}
		return fmt.Errorf("record game result: %w", err)
	}
	return nil
}

// Store exposes the package-level queries as methods for callers that take interfaces.
type Store struct{}

func (Store) GetPlayer(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return GetPlayer(ctx, id)
}

func (Store) RecordGameResult(ctx context.Context, res models.GameResult) error {
	return RecordGameResult(ctx, res)
}

func (Store) InsertGameActions(ctx context.Context, records []models.GameActionRecord) error {
	return InsertGameActions(ctx, records)
}

func (Store) MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) error {
	return MarkGameAbandoned(ctx, gameID)
}

func (Store) EnsurePlayer(ctx context.Context, id uuid.UUID, username string) (*models.User, error) {
	return EnsurePlayer(ctx, id, username)
}

func (Store) GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	return GetLeaderboard(ctx, limit)
}

func (Store) GetPlayerRank(ctx context.Context, id uuid.UUID) (int, error) {
	return GetPlayerRank(ctx, id)
}
