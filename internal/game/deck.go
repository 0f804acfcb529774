// internal/game/deck.go
package game

import (
	"math/rand"
	"time"

	"github.com/jason-s-yu/crazygrid/internal/models"
)

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// NewDeck returns every suit/rank combination in suit-major order, unshuffled.
func NewDeck() []models.Card {
	deck := make([]models.Card, 0, DeckSize)
	for _, suit := range models.Suits {
		for _, rank := range models.Ranks {
			deck = append(deck, models.Card{Suit: suit, Rank: rank})
		}
	}
	return deck
}

// NewRand returns a time-seeded source for callers that do not need determinism.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Shuffle permutes cards in place with an unbiased Fisher-Yates pass and returns the same slice.
func Shuffle(cards []models.Card, rng *rand.Rand) []models.Card {
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards
}

// RecycleIfNeeded refills an empty draw pile from the discard pile, keeping the
// top discard in place. It reports whether recycling happened.
//
// When the draw pile is empty and the discard pile holds one card or fewer there
// is nothing left to draw; callers treat that as drawing zero cards.
func RecycleIfNeeded(drawPile, discardPile *[]models.Card, rng *rand.Rand) bool {
	if len(*drawPile) > 0 || len(*discardPile) <= 1 {
		return false
	}

	last := len(*discardPile) - 1
	top := (*discardPile)[last]

	recycled := make([]models.Card, last)
	copy(recycled, (*discardPile)[:last])
	Shuffle(recycled, rng)

	*drawPile = append(*drawPile, recycled...)
	*discardPile = []models.Card{top}
	return true
}
