// internal/table/events.go
package table

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/crazygrid/internal/game"
)

// EventType names a message pushed to the table's client.
type EventType string

const (
	EventSyncState EventType = "sync_state"
	EventGameEnd   EventType = "game_end"
)

// View is the client's picture of the table: the engine snapshot plus the
// current card selection.
type View struct {
	TableID uuid.UUID `json:"tableId"`
	game.StateView
	Selected []string `json:"selected"`
}

// Result is the outcome of a finished table from the human's side.
type Result struct {
	Won         bool              `json:"won"`
	WinnerID    uuid.UUID         `json:"winnerId"`
	WinnerName  string            `json:"winnerName"`
	RatingDelta int               `json:"ratingDelta"`
	NewRating   int               `json:"newRating"`
	CoinsEarned int               `json:"coinsEarned"`
	BotCount    int               `json:"botCount"`
	HandSizes   map[uuid.UUID]int `json:"handSizes"`
	Turns       int               `json:"turns"`
}

// Event holds data about an event that can be broadcast to the client in a consistent format.
type Event struct {
	Type   EventType `json:"type"`
	State  *View     `json:"state,omitempty"`
	Result *Result   `json:"result,omitempty"`
}
