package ai

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/crazygrid/internal/game"
	"github.com/jason-s-yu/crazygrid/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func c(s models.Suit, r models.Rank) models.Card {
	return models.Card{Suit: s, Rank: r}
}

// tableWith builds a two-player state where the first seat holds hand.
func tableWith(hand []models.Card, top models.Card, pending int) (*game.GameState, uuid.UUID) {
	me := models.Player{ID: uuid.New(), Name: "me", IsBot: true}
	other := models.Player{ID: uuid.New(), Name: "other"}
	s := &game.GameState{
		Players: []models.Player{me, other},
		Hands: map[uuid.UUID][]models.Card{
			me.ID:    hand,
			other.ID: {c(models.Spades, models.Four)},
		},
		DiscardPile: []models.Card{top},
		Direction:   1,
		ActiveSuit:  top.Suit,
		PendingDraw: pending,
		CalledCrazy: map[uuid.UUID]bool{},
		Rules:       game.DefaultHouseRules(),
	}
	return s, me.ID
}

func TestAllStrategiesDrawWithNothingPlayable(t *testing.T) {
	hand := []models.Card{c(models.Clubs, models.Three), c(models.Spades, models.Nine)}
	s, me := tableWith(hand, c(models.Hearts, models.Five), 0)

	for _, st := range []Strategy{Aggressive{}, Defensive{}, NewChaotic(rand.New(rand.NewSource(1)))} {
		d := st.Decide(hand, s, me)
		assert.Equal(t, ActionDraw, d.Action)
		assert.Empty(t, d.Cards)
	}
}

func TestAggressivePrefersLargestCombo(t *testing.T) {
	hand := []models.Card{
		c(models.Hearts, models.Two),
		c(models.Hearts, models.Seven), c(models.Clubs, models.Seven), c(models.Diamonds, models.Seven),
		c(models.Hearts, models.Nine), c(models.Spades, models.Nine),
	}
	top := c(models.Clubs, models.Nine)
	s, me := tableWith(hand, top, 0)
	s.ActiveSuit = models.Clubs

	d := Aggressive{}.Decide(hand, s, me)
	require.Equal(t, ActionPlay, d.Action)
	// Only the clubs seven and the two nines are playable, so the nines win.
	assert.Equal(t, []models.Card{c(models.Hearts, models.Nine), c(models.Spades, models.Nine)}, d.Cards)
	assert.Nil(t, d.Suit)
}

func TestAggressivePriority(t *testing.T) {
	hand := []models.Card{
		c(models.Hearts, models.Seven),
		c(models.Hearts, models.Ace),
		c(models.Hearts, models.King),
		c(models.Hearts, models.Jack),
	}
	s, me := tableWith(hand, c(models.Hearts, models.Five), 0)

	d := Aggressive{}.Decide(hand, s, me)
	assert.Equal(t, []models.Card{c(models.Hearts, models.King)}, d.Cards)

	hand = append(hand, c(models.Hearts, models.Two))
	s.Hands[me] = hand
	d = Aggressive{}.Decide(hand, s, me)
	assert.Equal(t, []models.Card{c(models.Hearts, models.Two)}, d.Cards)
}

func TestAggressiveWildPicksMostCommonSuit(t *testing.T) {
	hand := []models.Card{
		c(models.Spades, models.Eight),
		c(models.Diamonds, models.Three),
		c(models.Diamonds, models.Four),
		c(models.Clubs, models.Six),
	}
	s, me := tableWith(hand, c(models.Hearts, models.Five), 0)

	d := Aggressive{}.Decide(hand, s, me)
	require.Equal(t, []models.Card{c(models.Spades, models.Eight)}, d.Cards)
	require.NotNil(t, d.Suit)
	assert.Equal(t, models.Diamonds, *d.Suit)
}

func TestDefensiveHoldsSpecials(t *testing.T) {
	hand := []models.Card{
		c(models.Hearts, models.Two),
		c(models.Clubs, models.Eight),
		c(models.Hearts, models.Nine),
	}
	s, me := tableWith(hand, c(models.Hearts, models.Five), 0)

	d := Defensive{}.Decide(hand, s, me)
	assert.Equal(t, []models.Card{c(models.Hearts, models.Nine)}, d.Cards)

	hand = hand[:2]
	s.Hands[me] = hand
	d = Defensive{}.Decide(hand, s, me)
	assert.Equal(t, []models.Card{c(models.Hearts, models.Two)}, d.Cards)
	assert.True(t, d.CallCrazy, "one card left after this play")
}

func TestDeclaresOnlyWhenOneCardRemains(t *testing.T) {
	hand := []models.Card{c(models.Hearts, models.Nine), c(models.Clubs, models.Three), c(models.Clubs, models.Four)}
	s, me := tableWith(hand, c(models.Hearts, models.Five), 0)
	assert.False(t, Defensive{}.Decide(hand, s, me).CallCrazy)
	assert.False(t, Aggressive{}.Decide(hand, s, me).CallCrazy)

	hand = []models.Card{c(models.Hearts, models.Nine), c(models.Spades, models.Nine), c(models.Clubs, models.Four)}
	s.Hands[me] = hand
	s.DiscardPile = []models.Card{c(models.Clubs, models.Nine)}
	s.ActiveSuit = models.Clubs
	d := Aggressive{}.Decide(hand, s, me)
	assert.Len(t, d.Cards, 2)
	assert.True(t, d.CallCrazy, "a combo can drop the hand to one card")
}

func TestPendingDrawRestrictsChoices(t *testing.T) {
	hand := []models.Card{c(models.Hearts, models.Seven), c(models.Hearts, models.King)}
	s, me := tableWith(hand, c(models.Hearts, models.Two), 2)

	for _, st := range []Strategy{Aggressive{}, Defensive{}, NewChaotic(rand.New(rand.NewSource(9)))} {
		d := st.Decide(hand, s, me)
		assert.Equal(t, []models.Card{c(models.Hearts, models.King)}, d.Cards)
	}
}

func TestChaoticAlwaysPlaysLegalCards(t *testing.T) {
	hand := []models.Card{
		c(models.Hearts, models.Seven), c(models.Clubs, models.Seven),
		c(models.Spades, models.Eight), c(models.Diamonds, models.Nine),
	}
	s, me := tableWith(hand, c(models.Diamonds, models.Seven), 0)
	bot := NewChaotic(rand.New(rand.NewSource(5)))

	sawCombo := false
	for i := 0; i < 200; i++ {
		d := bot.Decide(hand, s, me)
		require.Equal(t, ActionPlay, d.Action)
		require.True(t, game.CanPlayCombo(d.Cards, game.TopCard(s), s.ActiveSuit))
		if len(d.Cards) > 1 {
			sawCombo = true
		}
		if d.Cards[0].Rank == models.Eight {
			require.NotNil(t, d.Suit)
			assert.True(t, d.Suit.Valid())
		} else {
			assert.Nil(t, d.Suit)
		}
	}
	assert.True(t, sawCombo)
}

func TestChaoticSometimesForgets(t *testing.T) {
	hand := []models.Card{c(models.Hearts, models.Seven), c(models.Clubs, models.Three)}
	s, me := tableWith(hand, c(models.Hearts, models.Five), 0)
	bot := NewChaotic(rand.New(rand.NewSource(11)))

	called := 0
	for i := 0; i < 500; i++ {
		if bot.Decide(hand, s, me).CallCrazy {
			called++
		}
	}
	assert.Greater(t, called, 300)
	assert.Less(t, called, 500)
}

func TestChaoticWithoutRNGLeavesStateAlone(t *testing.T) {
	assert.NotNil(t, NewChaotic(nil).RNG)

	hand := []models.Card{c(models.Hearts, models.Seven), c(models.Hearts, models.Three)}
	s, me := tableWith(hand, c(models.Hearts, models.Five), 0)
	before := *s

	b := &Chaotic{SmartChance: 0.3, RememberChance: 0.8}
	d := b.Decide(hand, s, me)
	assert.Equal(t, ActionPlay, d.Action)
	assert.NotNil(t, b.RNG)
	assert.Equal(t, before, *s)
}

func TestNewFallsBackToChaotic(t *testing.T) {
	assert.IsType(t, Aggressive{}, New(PersonalityAggressive, nil))
	assert.IsType(t, Defensive{}, New(PersonalityDefensive, nil))
	assert.IsType(t, &Chaotic{}, New("sleepy", nil))
}

func TestPickProfiles(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	picked := PickProfiles(3, rng)
	require.Len(t, picked, 3)

	names := map[string]bool{}
	for _, p := range picked {
		assert.False(t, names[p.Name])
		names[p.Name] = true
	}
	assert.Len(t, PickProfiles(10, rng), len(Profiles))

	bot := picked[0].Player()
	assert.True(t, bot.IsBot)
	assert.Equal(t, string(picked[0].Personality), bot.Personality)
	assert.Equal(t, DifficultyHard, DifficultyOf(PersonalityAggressive))
	assert.Equal(t, DifficultyEasy, DifficultyOf("unknown"))
}
