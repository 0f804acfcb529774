package ai

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jason-s-yu/crazygrid/internal/game"
	"github.com/jason-s-yu/crazygrid/internal/models"
)

// Aggressive dumps combos first, then the most punishing single card.
type Aggressive struct{}

var aggressivePriority = map[models.Rank]int{
	models.Two:   10,
	models.King:  8,
	models.Jack:  7,
	models.Queen: 6,
	models.Eight: 5,
	models.Ace:   4,
}

func cardPriority(c models.Card) int {
	if p, ok := aggressivePriority[c.Rank]; ok {
		return p
	}
	return 1
}

func (Aggressive) Decide(hand []models.Card, s *game.GameState, playerID uuid.UUID) Decision {
	playable := game.PlayableCards(s, playerID)
	if len(playable) == 0 {
		return drawDecision()
	}

	var best []models.Card
	for _, combo := range legalCombos(playable, s) {
		if len(combo) > len(best) {
			best = combo
		}
	}

	pick := best
	if len(pick) == 0 {
		sorted := append([]models.Card(nil), playable...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return cardPriority(sorted[i]) > cardPriority(sorted[j])
		})
		pick = sorted[:1]
	}

	return playDecision(pick, func() models.Suit {
		return mostCommonSuit(hand, pick)
	}, leavesOne(hand, len(pick)))
}
