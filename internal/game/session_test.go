package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/crazygrid/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// riggedGame seats len(hands) players with fixed hands and piles.
func riggedGame(t *testing.T, hands [][]models.Card, draw, discard []models.Card) *GameState {
	t.Helper()
	players := seatPlayers(len(hands))
	s := &GameState{
		Players:     players,
		Hands:       make(map[uuid.UUID][]models.Card),
		DrawPile:    draw,
		DiscardPile: discard,
		Direction:   1,
		CalledCrazy: make(map[uuid.UUID]bool),
		Rules:       DefaultHouseRules(),
		rng:         rand.New(rand.NewSource(42)),
	}
	if len(discard) > 0 {
		s.ActiveSuit = discard[len(discard)-1].Suit
	}
	for i, p := range players {
		s.Hands[p.ID] = hands[i]
	}
	return s
}

// assertFullDeck checks that every card is in exactly one place.
func assertFullDeck(t *testing.T, s *GameState) {
	t.Helper()
	var all []models.Card
	for _, p := range s.Players {
		all = append(all, s.Hands[p.ID]...)
	}
	all = append(all, s.DrawPile...)
	all = append(all, s.DiscardPile...)
	require.ElementsMatch(t, NewDeck(), all)
}

func TestNewGame(t *testing.T) {
	players := seatPlayers(4)
	s, err := NewGame(players, DefaultHouseRules(), rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	for _, p := range players {
		assert.Len(t, s.Hands[p.ID], 5)
		assert.False(t, s.CalledCrazy[p.ID])
	}
	require.Len(t, s.DiscardPile, 1)
	assert.False(t, IsSpecialCard(TopCard(s).Rank), "starter has no effect")
	assert.Equal(t, TopCard(s).Suit, s.ActiveSuit)
	assert.Len(t, s.DrawPile, DeckSize-4*5-1)
	assert.Equal(t, 0, s.PendingDraw)
	assert.Equal(t, 1, s.Direction)
	assert.Equal(t, PhaseAwaitingAction, s.Phase())
	assertFullDeck(t, s)
}

func TestNewGameRejectsBadSeating(t *testing.T) {
	_, err := NewGame(seatPlayers(1), DefaultHouseRules(), nil)
	assert.Error(t, err)

	_, err = NewGame(seatPlayers(5), DefaultHouseRules(), nil)
	assert.Error(t, err)

	players := seatPlayers(2)
	players[1].ID = players[0].ID
	_, err = NewGame(players, DefaultHouseRules(), nil)
	assert.Error(t, err)

	_, err = NewGame(seatPlayers(4), HouseRules{HandSize: 13, CallPenalty: 2}, nil)
	assert.Error(t, err)
}

func TestTakeStarterFallsBackToFirstCard(t *testing.T) {
	deck := []models.Card{card(models.Hearts, models.Two), card(models.Hearts, models.Jack)}
	starter, rest := takeStarter(deck)
	assert.Equal(t, card(models.Hearts, models.Two), starter)
	assert.Equal(t, []models.Card{card(models.Hearts, models.Jack)}, rest)

	deck = []models.Card{card(models.Hearts, models.Two), card(models.Clubs, models.Six), card(models.Hearts, models.Nine)}
	starter, rest = takeStarter(deck)
	assert.Equal(t, card(models.Clubs, models.Six), starter)
	assert.Equal(t, []models.Card{card(models.Hearts, models.Two), card(models.Hearts, models.Nine)}, rest)
}

func TestNewGameSeedsPendingDrawFromDrawStarter(t *testing.T) {
	// Four hands of twelve leave four cards, so some seeds only have specials left.
	rules := HouseRules{HandSize: 12, CallPenalty: 2}
	found := 0
	for seed := int64(0); seed < 200; seed++ {
		s, err := NewGame(seatPlayers(4), rules, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		top := TopCard(s)
		if !IsDrawRank(top.Rank) {
			assert.Equal(t, 0, s.PendingDraw, "seed %d", seed)
			continue
		}
		found++
		assert.Equal(t, CardEffect(top.Rank).Count, s.PendingDraw, "seed %d", seed)

		first := CurrentPlayer(s)
		for _, c := range PlayableCards(s, first.ID) {
			assert.True(t, IsDrawRank(c.Rank), "seed %d: %s playable under a pending draw", seed, c)
		}
		for _, c := range s.Hands[first.ID] {
			if !IsDrawRank(c.Rank) {
				_, err := PlayCards(s, []models.Card{c})
				assert.ErrorIs(t, err, ErrMustAnswerDraw, "seed %d", seed)
				break
			}
		}

		before := len(s.Hands[first.ID])
		pending := s.PendingDraw
		drawn, err := DrawCards(s)
		require.NoError(t, err)
		assert.Len(t, drawn, pending)
		assert.Len(t, s.Hands[first.ID], before+pending)
		assert.Equal(t, 0, s.PendingDraw)
		assertFullDeck(t, s)
	}
	require.Positive(t, found, "no seed produced a draw-card starter")
}

func TestPlainPlayAdvances(t *testing.T) {
	s := riggedGame(t, [][]models.Card{
		{card(models.Hearts, models.Seven), card(models.Clubs, models.Three)},
		{card(models.Spades, models.Four)},
	}, []models.Card{card(models.Diamonds, models.Ten)}, []models.Card{card(models.Hearts, models.Five)})
	a := s.Players[0]

	res, err := PlayCards(s, []models.Card{card(models.Hearts, models.Seven)})
	require.NoError(t, err)
	assert.False(t, res.NeedsSuitPick)
	assert.Equal(t, 1, s.CurrentPlayerIndex)
	assert.Equal(t, card(models.Hearts, models.Seven), TopCard(s))
	assert.Equal(t, []models.Card{card(models.Clubs, models.Three)}, s.Hands[a.ID])
	assert.Contains(t, s.LastAction, a.Name)
}

func TestRejectedPlaysLeaveStateUntouched(t *testing.T) {
	hands := [][]models.Card{
		{card(models.Hearts, models.Seven), card(models.Clubs, models.Three)},
		{card(models.Spades, models.Four)},
	}
	s := riggedGame(t, hands, []models.Card{card(models.Diamonds, models.Ten)}, []models.Card{card(models.Hearts, models.Five)})
	a := s.Players[0]

	_, err := PlayCards(s, nil)
	assert.ErrorIs(t, err, ErrNoCards)

	_, err = PlayCards(s, []models.Card{card(models.Clubs, models.Three)})
	assert.ErrorIs(t, err, ErrIllegalPlay)

	_, err = PlayCards(s, []models.Card{card(models.Hearts, models.Nine)})
	assert.ErrorIs(t, err, ErrCardNotInHand)

	// The same card named twice only counts once.
	_, err = PlayCards(s, []models.Card{card(models.Hearts, models.Seven), card(models.Hearts, models.Seven)})
	assert.ErrorIs(t, err, ErrCardNotInHand)

	assert.Equal(t, hands[0], s.Hands[a.ID])
	assert.Equal(t, 0, s.CurrentPlayerIndex)
	assert.Len(t, s.DiscardPile, 1)

	err = PickSuit(s, models.Clubs)
	assert.ErrorIs(t, err, ErrNoSuitPending)
}

func TestPendingDrawMustBeAnswered(t *testing.T) {
	s := riggedGame(t, [][]models.Card{
		{card(models.Hearts, models.Seven), card(models.Hearts, models.Two)},
		{card(models.Spades, models.Four), card(models.Spades, models.Six)},
	}, nil, []models.Card{card(models.Hearts, models.King)})
	s.PendingDraw = 1

	_, err := PlayCards(s, []models.Card{card(models.Hearts, models.Seven)})
	assert.True(t, errors.Is(err, ErrMustAnswerDraw))

	_, err = PlayCards(s, []models.Card{card(models.Hearts, models.Two)})
	require.NoError(t, err)
	assert.Equal(t, 3, s.PendingDraw, "stacked")
	assert.Equal(t, 1, s.CurrentPlayerIndex)
}

func TestPlayableCardsUnderPendingDraw(t *testing.T) {
	hand := []models.Card{
		card(models.Hearts, models.Seven), // suit match
		card(models.Clubs, models.Five),   // rank match
		card(models.Spades, models.Eight), // wild
		card(models.Diamonds, models.Two),
		card(models.Clubs, models.King),
	}
	s := riggedGame(t, [][]models.Card{hand, {card(models.Spades, models.Four)}}, nil, []models.Card{card(models.Hearts, models.Five)})
	a := s.Players[0]

	assert.Equal(t, hand[:3], PlayableCards(s, a.ID))

	s.PendingDraw = 2
	assert.Equal(t, []models.Card{card(models.Diamonds, models.Two), card(models.Clubs, models.King)}, PlayableCards(s, a.ID))
}

func TestDrawConsumesPendingDraw(t *testing.T) {
	draw := []models.Card{
		card(models.Clubs, models.Three), card(models.Clubs, models.Four), card(models.Clubs, models.Six),
	}
	s := riggedGame(t, [][]models.Card{
		{card(models.Hearts, models.Seven), card(models.Hearts, models.Nine)},
		{card(models.Spades, models.Four)},
	}, draw, []models.Card{card(models.Hearts, models.Two)})
	s.PendingDraw = 2
	a := s.Players[0]

	drawn, err := DrawCards(s)
	require.NoError(t, err)
	assert.Equal(t, []models.Card{card(models.Clubs, models.Six), card(models.Clubs, models.Four)}, drawn, "drawn from the top")
	assert.Len(t, s.Hands[a.ID], 4)
	assert.Equal(t, 0, s.PendingDraw)
	assert.Equal(t, 1, s.CurrentPlayerIndex)
	assert.Equal(t, "P1 drew 2 cards", s.LastAction)
}

func TestDrawWithBothPilesEmpty(t *testing.T) {
	s := riggedGame(t, [][]models.Card{
		{card(models.Hearts, models.Seven), card(models.Hearts, models.Nine)},
		{card(models.Spades, models.Four)},
	}, nil, []models.Card{card(models.Clubs, models.Five)})

	drawn, err := DrawCards(s)
	require.NoError(t, err)
	assert.Empty(t, drawn)
	assert.Equal(t, 1, s.CurrentPlayerIndex, "turn still advances")
	assert.Len(t, s.DiscardPile, 1)
}

func TestDrawRecyclesDiscardPile(t *testing.T) {
	s := riggedGame(t, [][]models.Card{
		{card(models.Hearts, models.Seven), card(models.Hearts, models.Nine)},
		{card(models.Spades, models.Four)},
	}, nil, []models.Card{card(models.Clubs, models.Three), card(models.Clubs, models.Five)})

	drawn, err := DrawCards(s)
	require.NoError(t, err)
	assert.Equal(t, []models.Card{card(models.Clubs, models.Three)}, drawn)
	assert.Equal(t, []models.Card{card(models.Clubs, models.Five)}, s.DiscardPile)
}

func TestCallPenaltyFiresBeforePlay(t *testing.T) {
	draw := []models.Card{card(models.Clubs, models.Three), card(models.Clubs, models.Four), card(models.Clubs, models.Six)}

	// A holds a single draw card and never declared it.
	s := riggedGame(t, [][]models.Card{
		{card(models.Hearts, models.Two)},
		{card(models.Spades, models.Four), card(models.Spades, models.Six)},
	}, draw, []models.Card{card(models.Hearts, models.Five)})
	a := s.Players[0]

	res, err := PlayCards(s, []models.Card{card(models.Hearts, models.Two)})
	require.NoError(t, err)
	assert.True(t, res.Penalized)
	assert.Len(t, s.Hands[a.ID], 2, "penalty lands before the played card leaves")
	assert.False(t, s.GameOver)
	assert.Equal(t, 2, s.PendingDraw)

	// The same play after declaring wins outright.
	baseline := riggedGame(t, [][]models.Card{
		{card(models.Hearts, models.Two)},
		{card(models.Spades, models.Four), card(models.Spades, models.Six)},
	}, draw, []models.Card{card(models.Hearts, models.Five)})
	b := baseline.Players[0]
	require.True(t, CallCrazy(baseline, b.ID))

	res, err = PlayCards(baseline, []models.Card{card(models.Hearts, models.Two)})
	require.NoError(t, err)
	assert.False(t, res.Penalized)
	assert.Empty(t, baseline.Hands[b.ID])
	assert.True(t, baseline.GameOver)
	assert.Equal(t, b.ID, baseline.WinnerID)
	assert.Greater(t, len(s.Hands[a.ID]), len(baseline.Hands[b.ID]))
}

func TestCallPenaltyOnDraw(t *testing.T) {
	draw := []models.Card{card(models.Clubs, models.Three), card(models.Clubs, models.Four), card(models.Clubs, models.Six)}
	s := riggedGame(t, [][]models.Card{
		{card(models.Diamonds, models.Nine)},
		{card(models.Spades, models.Four)},
	}, draw, []models.Card{card(models.Hearts, models.Five)})
	a := s.Players[0]

	drawn, err := DrawCards(s)
	require.NoError(t, err)
	assert.Len(t, drawn, 1)
	assert.Len(t, s.Hands[a.ID], 4, "one held, two penalty, one drawn")
}

func TestCallCrazy(t *testing.T) {
	s := riggedGame(t, [][]models.Card{
		{card(models.Diamonds, models.Nine)},
		{card(models.Spades, models.Four), card(models.Spades, models.Six)},
	}, nil, []models.Card{card(models.Hearts, models.Five)})

	assert.True(t, CallCrazy(s, s.Players[0].ID))
	assert.True(t, s.CalledCrazy[s.Players[0].ID])

	assert.False(t, CallCrazy(s, s.Players[1].ID))
	assert.False(t, s.CalledCrazy[s.Players[1].ID])

	assert.False(t, CallCrazy(s, seatPlayers(1)[0].ID))
}

func TestReverseInTwoPlayerGameReturnsTurn(t *testing.T) {
	s := riggedGame(t, [][]models.Card{
		{card(models.Hearts, models.Queen), card(models.Hearts, models.Nine), card(models.Clubs, models.Nine)},
		{card(models.Spades, models.Four)},
	}, nil, []models.Card{card(models.Hearts, models.Five)})

	_, err := PlayCards(s, []models.Card{card(models.Hearts, models.Queen)})
	require.NoError(t, err)
	assert.Equal(t, -1, s.Direction)
	assert.Equal(t, 0, s.CurrentPlayerIndex, "same player goes again")
	assert.Equal(t, 2, s.TurnCount)
}

func TestSkipInThreePlayerGame(t *testing.T) {
	s := riggedGame(t, [][]models.Card{
		{card(models.Hearts, models.Jack), card(models.Hearts, models.Nine)},
		{card(models.Spades, models.Four)},
		{card(models.Spades, models.Six)},
	}, nil, []models.Card{card(models.Hearts, models.Five)})

	_, err := PlayCards(s, []models.Card{card(models.Hearts, models.Jack)})
	require.NoError(t, err)
	assert.Equal(t, 2, s.CurrentPlayerIndex)
	assert.Equal(t, "P1 played J♥: P2 skipped!", s.LastAction)
}

func TestPlayAgainKeepsTurn(t *testing.T) {
	s := riggedGame(t, [][]models.Card{
		{card(models.Hearts, models.Ace), card(models.Spades, models.Ace), card(models.Clubs, models.Nine)},
		{card(models.Spades, models.Four)},
		{card(models.Spades, models.Six)},
	}, nil, []models.Card{card(models.Hearts, models.Five)})

	_, err := PlayCards(s, []models.Card{card(models.Hearts, models.Ace), card(models.Spades, models.Ace)})
	require.NoError(t, err)
	assert.Equal(t, 0, s.CurrentPlayerIndex)
	assert.Equal(t, 1, s.TurnCount)
	assert.Equal(t, models.Spades, s.ActiveSuit, "suit of the last card in the combo")
	assert.Contains(t, s.LastAction, "x2 COMBO!")
}

func TestWildAsLastCardWinsOnlyAfterSuitPick(t *testing.T) {
	s := riggedGame(t, [][]models.Card{
		{card(models.Clubs, models.Eight)},
		{card(models.Spades, models.Four)},
	}, nil, []models.Card{card(models.Hearts, models.Five)})
	a := s.Players[0]
	require.True(t, CallCrazy(s, a.ID))

	res, err := PlayCards(s, []models.Card{card(models.Clubs, models.Eight)})
	require.NoError(t, err)
	assert.True(t, res.NeedsSuitPick)
	assert.False(t, s.GameOver)
	assert.Equal(t, PhaseAwaitingSuitChoice, s.Phase())
	assert.Equal(t, 0, s.CurrentPlayerIndex)

	_, err = DrawCards(s)
	assert.ErrorIs(t, err, ErrSuitPending)
	_, err = PlayCards(s, []models.Card{card(models.Spades, models.Four)})
	assert.ErrorIs(t, err, ErrSuitPending)
	assert.ErrorIs(t, PickSuit(s, models.Suit("cups")), ErrInvalidSuit)

	require.NoError(t, PickSuit(s, models.Diamonds))
	assert.True(t, s.GameOver)
	assert.Equal(t, a.ID, s.WinnerID)
	assert.Equal(t, models.Diamonds, s.ActiveSuit)
	assert.Equal(t, PhaseTerminal, s.Phase())
	assert.Equal(t, 1, s.CurrentPlayerIndex, "turn advances even after the win")

	_, err = PlayCards(s, []models.Card{card(models.Spades, models.Four)})
	assert.ErrorIs(t, err, ErrGameOver)
	_, err = DrawCards(s)
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestSnapshotHidesOtherHands(t *testing.T) {
	s := riggedGame(t, [][]models.Card{
		{card(models.Hearts, models.Seven), card(models.Clubs, models.Three)},
		{card(models.Spades, models.Four)},
	}, []models.Card{card(models.Diamonds, models.Ten)}, []models.Card{card(models.Hearts, models.Five)})
	a, b := s.Players[0], s.Players[1]

	view := Snapshot(s, a.ID)
	require.Len(t, view.Players, 2)
	assert.Len(t, view.Players[0].Hand, 2)
	assert.Nil(t, view.Players[1].Hand)
	assert.Equal(t, 1, view.Players[1].HandSize)
	assert.True(t, view.Players[0].IsCurrentTurn)
	assert.Equal(t, "hearts:5", view.TopCard.ID)
	assert.Equal(t, []string{"hearts:7"}, view.Playable)
	assert.Nil(t, view.WinnerID)

	other := Snapshot(s, b.ID)
	assert.Nil(t, other.Players[0].Hand)
	assert.Empty(t, other.Playable, "not their turn")
}

func TestHandSizes(t *testing.T) {
	s := riggedGame(t, [][]models.Card{
		{card(models.Hearts, models.Seven), card(models.Clubs, models.Three)},
		{card(models.Spades, models.Four)},
	}, nil, []models.Card{card(models.Hearts, models.Five)})
	sizes := HandSizes(s)
	assert.Equal(t, 2, sizes[s.Players[0].ID])
	assert.Equal(t, 1, sizes[s.Players[1].ID])
}

// TestSelfPlayKeepsDeckIntact plays many seeded games with a naive policy and
// checks that no card is ever lost or duplicated.
func TestSelfPlayKeepsDeckIntact(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		players := seatPlayers(2 + int(seed%3))
		s, err := NewGame(players, DefaultHouseRules(), rng)
		require.NoError(t, err)

		for step := 0; step < 2000 && !s.GameOver; step++ {
			p := CurrentPlayer(s)
			if len(s.Hands[p.ID]) == 1 && rng.Intn(2) == 0 {
				CallCrazy(s, p.ID)
			}

			playable := PlayableCards(s, p.ID)
			if len(playable) == 0 {
				_, err := DrawCards(s)
				require.NoError(t, err)
			} else {
				res, err := PlayCards(s, playable[:1])
				if errors.Is(err, ErrIllegalPlay) {
					// A draw card of the wrong suit cannot answer a pending draw.
					_, err = DrawCards(s)
				}
				require.NoError(t, err, "seed %d step %d", seed, step)
				if res.NeedsSuitPick {
					require.NoError(t, PickSuit(s, models.Suits[rng.Intn(len(models.Suits))]))
				}
			}

			require.NotEmpty(t, s.DiscardPile)
			assertFullDeck(t, s)
		}
	}
}
