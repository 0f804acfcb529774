// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/crazygrid/internal/models"
)

// InsertGameActions writes a batch of logged actions in one transaction. Each
// action's game row is created on first sight, and a game_end action marks it completed.
func InsertGameActions(ctx context.Context, records []models.GameActionRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range records {
			if err := insertGameActionTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("action %d of game %s: %w", rec.ActionIndex, rec.GameID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert game actions: %w", err)
	}
	return nil
}

func insertGameActionTx(ctx context.Context, tx pgx.Tx, rec models.GameActionRecord) error {
	upsertGameQ := `
		INSERT INTO games (id, status, start_time)
		VALUES ($1, 'in_progress', NOW())
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, upsertGameQ, rec.GameID); err != nil {
		return err
	}

	payload, err := json.Marshal(rec.ActionPayload)
	if err != nil {
		return err
	}
	actionInsertQ := `
		INSERT INTO game_actions (game_id, action_index, actor_user_id, action_type, action_payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (game_id, action_index) DO NOTHING
	`
	if _, err := tx.Exec(ctx, actionInsertQ, rec.GameID, rec.ActionIndex, rec.ActorUserID, rec.ActionType, payload); err != nil {
		return err
	}

	if rec.ActionType == models.ActionGameEnd {
		finalizeQ := `
			UPDATE games
			SET status = 'completed', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		if _, err := tx.Exec(ctx, finalizeQ, rec.GameID); err != nil {
			return err
		}
	}
	return nil
}

// MarkGameAbandoned flags a game that is still in progress as abandoned.
func MarkGameAbandoned(ctx context.Context, gameID uuid.UUID) error {
	q := `
		UPDATE games
		SET status = 'abandoned', end_time = NOW()
		WHERE id = $1 AND status = 'in_progress'
	`
	if _, err := DB.Exec(ctx, q, gameID); err != nil {
		return fmt.Errorf("mark game %s abandoned: %w", gameID, err)
	}
	return nil
}

// GameStatus returns the stored status of a game.
func GameStatus(ctx context.Context, gameID uuid.UUID) (string, error) {
	var status string
	err := DB.QueryRow(ctx, `SELECT status FROM games WHERE id = $1`, gameID).Scan(&status)
	if err != nil {
		return "", fmt.Errorf("game status: %w", err)
	}
	return status, nil
}
