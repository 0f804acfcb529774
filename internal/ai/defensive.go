package ai

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/crazygrid/internal/game"
	"github.com/jason-s-yu/crazygrid/internal/models"
)

// Defensive holds its special cards until nothing plain is playable.
type Defensive struct{}

func (Defensive) Decide(hand []models.Card, s *game.GameState, playerID uuid.UUID) Decision {
	playable := game.PlayableCards(s, playerID)
	if len(playable) == 0 {
		return drawDecision()
	}

	pick := playable[:1]
	for i, c := range playable {
		if !game.IsSpecialCard(c.Rank) {
			pick = playable[i : i+1]
			break
		}
	}

	return playDecision(pick, func() models.Suit {
		return mostCommonSuit(hand, pick)
	}, leavesOne(hand, 1))
}
