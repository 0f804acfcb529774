// internal/game/view.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/crazygrid/internal/models"
)

// ViewCard is a card as shown to clients, carrying its stable id.
type ViewCard struct {
	ID   string      `json:"id"`
	Suit models.Suit `json:"suit"`
	Rank models.Rank `json:"rank"`
}

func toViewCard(c models.Card) ViewCard {
	return ViewCard{ID: c.ID(), Suit: c.Suit, Rank: c.Rank}
}

func toViewCards(cards []models.Card) []ViewCard {
	out := make([]ViewCard, len(cards))
	for i, c := range cards {
		out[i] = toViewCard(c)
	}
	return out
}

// PlayerView represents one seat from the perspective of a requesting player.
type PlayerView struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	IsBot         bool       `json:"isBot"`
	Personality   string     `json:"personality,omitempty"`
	HandSize      int        `json:"handSize"`
	CalledCrazy   bool       `json:"calledCrazy"`
	IsCurrentTurn bool       `json:"isCurrentTurn"`
	Hand          []ViewCard `json:"hand,omitempty"` // only for the viewer
}

// StateView is a read-only snapshot safe to send to one player.
type StateView struct {
	Phase           Phase        `json:"phase"`
	CurrentPlayerID uuid.UUID    `json:"currentPlayerId"`
	TopCard         *ViewCard    `json:"topCard,omitempty"`
	ActiveSuit      models.Suit  `json:"activeSuit"`
	PendingDraw     int          `json:"pendingDraw"`
	Direction       int          `json:"direction"`
	DrawPileSize    int          `json:"drawPileSize"`
	DiscardSize     int          `json:"discardSize"`
	TurnCount       int          `json:"turnCount"`
	LastAction      string       `json:"lastAction"`
	GameOver        bool         `json:"gameOver"`
	WinnerID        *uuid.UUID   `json:"winnerId,omitempty"`
	Players         []PlayerView `json:"players"`
	Playable        []string     `json:"playable,omitempty"` // ids the viewer may play now, on their turn
}

// Snapshot builds the view of s for forPlayer. Other players' hands are reduced
// to their sizes.
func Snapshot(s *GameState, forPlayer uuid.UUID) StateView {
	view := StateView{
		Phase:           s.Phase(),
		CurrentPlayerID: CurrentPlayer(s).ID,
		ActiveSuit:      s.ActiveSuit,
		PendingDraw:     s.PendingDraw,
		Direction:       s.Direction,
		DrawPileSize:    len(s.DrawPile),
		DiscardSize:     len(s.DiscardPile),
		TurnCount:       s.TurnCount,
		LastAction:      s.LastAction,
		GameOver:        s.GameOver,
	}

	if len(s.DiscardPile) > 0 {
		top := toViewCard(TopCard(s))
		view.TopCard = &top
	}
	if s.GameOver {
		winner := s.WinnerID
		view.WinnerID = &winner
	}

	for i, p := range s.Players {
		pv := PlayerView{
			ID:            p.ID,
			Name:          p.Name,
			IsBot:         p.IsBot,
			Personality:   p.Personality,
			HandSize:      len(s.Hands[p.ID]),
			CalledCrazy:   s.CalledCrazy[p.ID],
			IsCurrentTurn: i == s.CurrentPlayerIndex,
		}
		if p.ID == forPlayer {
			pv.Hand = toViewCards(s.Hands[p.ID])
		}
		view.Players = append(view.Players, pv)
	}

	if !s.GameOver && !s.AwaitingSuit && view.CurrentPlayerID == forPlayer {
		view.Playable = models.CardIDs(PlayableCards(s, forPlayer))
	}

	return view
}
