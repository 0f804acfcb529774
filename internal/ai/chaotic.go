package ai

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/jason-s-yu/crazygrid/internal/game"
	"github.com/jason-s-yu/crazygrid/internal/models"
)

// Chaotic mostly plays a random legal card and sometimes forgets to declare.
type Chaotic struct {
	RNG            *rand.Rand
	SmartChance    float64 // chance of looking for a combo first
	RememberChance float64 // chance of declaring when it should
}

// NewChaotic returns a Chaotic with the standard odds. A nil rng gets a
// time-seeded source of its own.
func NewChaotic(rng *rand.Rand) *Chaotic {
	if rng == nil {
		rng = game.NewRand()
	}
	return &Chaotic{
		RNG:            rng,
		SmartChance:    0.3,
		RememberChance: 0.8,
	}
}

func (b *Chaotic) Decide(hand []models.Card, s *game.GameState, playerID uuid.UUID) Decision {
	if b.RNG == nil {
		b.RNG = game.NewRand()
	}
	rng := b.RNG

	playable := game.PlayableCards(s, playerID)
	if len(playable) == 0 {
		return drawDecision()
	}

	smart := rng.Float64() < b.SmartChance
	remember := rng.Float64() < b.RememberChance
	randomSuit := func() models.Suit {
		return models.Suits[rng.Intn(len(models.Suits))]
	}

	if smart {
		if combos := legalCombos(playable, s); len(combos) > 0 {
			combo := combos[rng.Intn(len(combos))]
			return playDecision(combo, randomSuit, remember && leavesOne(hand, len(combo)))
		}
	}

	i := rng.Intn(len(playable))
	return playDecision(playable[i:i+1], randomSuit, remember && leavesOne(hand, 1))
}
