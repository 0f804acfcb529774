package game

import (
	"math/rand"
	"testing"

	"github.com/jason-s-yu/crazygrid/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHasEveryCardOnce(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, DeckSize)

	seen := make(map[models.Card]bool)
	for _, c := range deck {
		assert.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
	}
	assert.Equal(t, models.Card{Suit: models.Hearts, Rank: models.Ace}, deck[0])
	assert.Equal(t, models.Card{Suit: models.Spades, Rank: models.King}, deck[DeckSize-1])
}

func TestShuffleIsDeterministicPermutation(t *testing.T) {
	a := Shuffle(NewDeck(), rand.New(rand.NewSource(7)))
	b := Shuffle(NewDeck(), rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b, "same seed, same order")
	assert.ElementsMatch(t, NewDeck(), a)
	assert.NotEqual(t, NewDeck(), a)
}

func TestRecycleIfNeeded(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := func(s models.Suit, r models.Rank) models.Card { return models.Card{Suit: s, Rank: r} }

	t.Run("draw pile not empty", func(t *testing.T) {
		draw := []models.Card{c(models.Hearts, models.Three)}
		discard := []models.Card{c(models.Clubs, models.Four), c(models.Clubs, models.Five)}
		assert.False(t, RecycleIfNeeded(&draw, &discard, rng))
		assert.Len(t, draw, 1)
		assert.Len(t, discard, 2)
	})

	t.Run("only the top discard left", func(t *testing.T) {
		var draw []models.Card
		discard := []models.Card{c(models.Clubs, models.Four)}
		assert.False(t, RecycleIfNeeded(&draw, &discard, rng))
		assert.Empty(t, draw)
		assert.Len(t, discard, 1)
	})

	t.Run("recycles all but the top", func(t *testing.T) {
		var draw []models.Card
		discard := []models.Card{
			c(models.Clubs, models.Four),
			c(models.Clubs, models.Five),
			c(models.Hearts, models.Six),
			c(models.Spades, models.Nine),
		}
		require.True(t, RecycleIfNeeded(&draw, &discard, rng))
		assert.Equal(t, []models.Card{c(models.Spades, models.Nine)}, discard)
		assert.ElementsMatch(t, []models.Card{
			c(models.Clubs, models.Four),
			c(models.Clubs, models.Five),
			c(models.Hearts, models.Six),
		}, draw)
	})
}
