package models

import "github.com/google/uuid"

// GameAction captures a player's in-game move as received from a client.
type GameAction struct {
	ActionType string                 `json:"action_type"`
	Payload    map[string]interface{} `json:"payload"`
}

// GameActionRecord is one entry of a table's action log as queued for the historian.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"game_id"`
	ActionIndex   int                    `json:"action_index"`
	ActorUserID   uuid.UUID              `json:"actor_user_id"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"` // epoch millis
}

// ActionGameEnd is the action type that closes a game's log.
const ActionGameEnd = "game_end"
