// internal/game/turn.go
package game

import "github.com/jason-s-yu/crazygrid/internal/models"

// NextPlayerIndex is the seat that AdvanceTurn would move to.
func NextPlayerIndex(s *GameState) int {
	n := len(s.Players)
	return ((s.CurrentPlayerIndex+s.Direction)%n + n) % n
}

// AdvanceTurn moves one seat in the current direction and counts the turn.
func AdvanceTurn(s *GameState) {
	s.CurrentPlayerIndex = NextPlayerIndex(s)
	s.TurnCount++
}

// SkipNextPlayer lands on the player after next.
func SkipNextPlayer(s *GameState) {
	AdvanceTurn(s)
	AdvanceTurn(s)
}

// ReverseDirection flips the turn order. With two players a reverse behaves
// like a skip, so the same player goes again.
func ReverseDirection(s *GameState) {
	s.Direction = -s.Direction
	if len(s.Players) == 2 {
		AdvanceTurn(s)
		AdvanceTurn(s)
		return
	}
	AdvanceTurn(s)
}

// CurrentPlayer returns the player whose turn it is.
func CurrentPlayer(s *GameState) models.Player {
	return s.Players[s.CurrentPlayerIndex]
}

// TopCard returns the top of the discard pile, or the zero card if the pile is empty.
func TopCard(s *GameState) models.Card {
	if len(s.DiscardPile) == 0 {
		return models.Card{}
	}
	return s.DiscardPile[len(s.DiscardPile)-1]
}
