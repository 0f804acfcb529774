// internal/ai/strategy.go
package ai

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/jason-s-yu/crazygrid/internal/game"
	"github.com/jason-s-yu/crazygrid/internal/models"
)

// Action is what a bot wants to do on its turn.
type Action string

const (
	ActionPlay Action = "play"
	ActionDraw Action = "draw"
)

// Personality names a strategy.
type Personality string

const (
	PersonalityAggressive Personality = "aggressive"
	PersonalityDefensive  Personality = "defensive"
	PersonalityChaotic    Personality = "chaotic"
)

// Decision is the outcome of one Decide call. Suit is set only when the lead
// card is wild. CallCrazy asks the caller to declare once the play leaves a
// single card in hand.
type Decision struct {
	Action    Action
	Cards     []models.Card
	Suit      *models.Suit
	CallCrazy bool
}

// Strategy picks a move for playerID. Implementations must not mutate s.
type Strategy interface {
	Decide(hand []models.Card, s *game.GameState, playerID uuid.UUID) Decision
}

// New returns the strategy for a personality. Unknown personalities play chaotically.
func New(p Personality, rng *rand.Rand) Strategy {
	switch p {
	case PersonalityAggressive:
		return Aggressive{}
	case PersonalityDefensive:
		return Defensive{}
	default:
		return NewChaotic(rng)
	}
}

func drawDecision() Decision {
	return Decision{Action: ActionDraw}
}

func playDecision(cards []models.Card, suit func() models.Suit, callCrazy bool) Decision {
	d := Decision{Action: ActionPlay, Cards: cards, CallCrazy: callCrazy}
	if game.IsWildRank(cards[0].Rank) {
		s := suit()
		d.Suit = &s
	}
	return d
}

// leavesOne reports whether playing n cards from hand leaves exactly one.
func leavesOne(hand []models.Card, n int) bool {
	return len(hand)-n == 1
}

// groupByRank groups cards by rank, keeping the order ranks first appear in.
func groupByRank(cards []models.Card) [][]models.Card {
	index := make(map[models.Rank]int)
	var groups [][]models.Card
	for _, c := range cards {
		i, ok := index[c.Rank]
		if !ok {
			i = len(groups)
			index[c.Rank] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], c)
	}
	return groups
}

// legalCombos returns every same-rank group of two or more playable cards that
// can be played together right now.
func legalCombos(playable []models.Card, s *game.GameState) [][]models.Card {
	top := game.TopCard(s)
	var combos [][]models.Card
	for _, g := range groupByRank(playable) {
		if len(g) > 1 && game.CanPlayCombo(g, top, s.ActiveSuit) {
			combos = append(combos, g)
		}
	}
	return combos
}

// mostCommonSuit picks the suit held most often in hand once played leaves it.
// Ties go to the suit seen first; an empty hand picks hearts.
func mostCommonSuit(hand, played []models.Card) models.Suit {
	remaining := hand
	for _, p := range played {
		for i, h := range remaining {
			if h == p {
				remaining = append(append([]models.Card(nil), remaining[:i]...), remaining[i+1:]...)
				break
			}
		}
	}

	counts := make(map[models.Suit]int)
	var order []models.Suit
	for _, c := range remaining {
		if counts[c.Suit] == 0 {
			order = append(order, c.Suit)
		}
		counts[c.Suit]++
	}

	best, bestN := models.Hearts, -1
	for _, suit := range order {
		if counts[suit] > bestN {
			best, bestN = suit, counts[suit]
		}
	}
	return best
}
