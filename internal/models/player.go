package models

import "github.com/google/uuid"

// Player is a seat in a game. Only Name may change after the game is created,
// and only from outside the engine.
type Player struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	IsBot       bool      `json:"isBot"`
	Personality string    `json:"personality,omitempty"` // bots only
}
