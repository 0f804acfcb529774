package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/crazygrid/internal/models"
)

// GetLeaderboard returns the top players by rating among those who finished a game.
func GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	q := `
		SELECT id, username, rating, wins, games_played
		FROM players
		WHERE games_played > 0
		ORDER BY rating DESC, wins DESC
		LIMIT $1
	`
	rows, err := DB.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.LeaderboardEntry, error) {
		var e models.LeaderboardEntry
		err := row.Scan(&e.ID, &e.Username, &e.Rating, &e.Wins, &e.GamesPlayed)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan leaderboard: %w", err)
	}
	return entries, nil
}

// GetPlayerRank returns the 1-based position of the player among ranked players.
// Players who never finished a game are unranked and get ErrPlayerNotFound.
func GetPlayerRank(ctx context.Context, id uuid.UUID) (int, error) {
	q := `
		SELECT COUNT(*) + 1
		FROM players
		WHERE games_played > 0
		  AND rating > (SELECT rating FROM players WHERE id = $1 AND games_played > 0)
	`
	var exists bool
	if err := DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM players WHERE id = $1 AND games_played > 0)`, id).Scan(&exists); err != nil {
		return 0, fmt.Errorf("rank lookup: %w", err)
	}
	if !exists {
		return 0, ErrPlayerNotFound
	}

	var rank int
	if err := DB.QueryRow(ctx, q, id).Scan(&rank); err != nil {
		return 0, fmt.Errorf("rank lookup: %w", err)
	}
	return rank, nil
}
