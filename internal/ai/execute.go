package ai

import (
	"fmt"

	"github.com/jason-s-yu/crazygrid/internal/game"
	"github.com/jason-s-yu/crazygrid/internal/models"
)

// Move records what Execute did with a Decision.
type Move struct {
	Played    []models.Card
	Result    game.PlayResult
	Suit      models.Suit // picked after a wild, empty otherwise
	Called    bool
	Drawn     []models.Card
	Penalized bool
	Rejected  error // why a play decision fell back to drawing
}

// Execute applies d for the current player of s. A play the engine rejects
// falls back to drawing. A wild without a chosen suit picks hearts, and the
// CRAZY call is only made once the play leaves a single card.
func Execute(s *game.GameState, d Decision) (Move, error) {
	bot := game.CurrentPlayer(s)
	var m Move

	if d.Action == ActionPlay {
		res, err := game.PlayCards(s, d.Cards)
		if err == nil {
			m.Played = d.Cards
			m.Result = res
			m.Penalized = res.Penalized
			if res.NeedsSuitPick {
				m.Suit = models.Hearts
				if d.Suit != nil {
					m.Suit = *d.Suit
				}
				if err := game.PickSuit(s, m.Suit); err != nil {
					return m, fmt.Errorf("pick suit: %w", err)
				}
			}
			if d.CallCrazy && !s.GameOver {
				m.Called = game.CallCrazy(s, bot.ID)
			}
			return m, nil
		}
		m.Rejected = err
	}

	before := len(s.Hands[bot.ID])
	drawn, err := game.DrawCards(s)
	if err != nil {
		return m, fmt.Errorf("draw: %w", err)
	}
	m.Drawn = drawn
	m.Penalized = len(s.Hands[bot.ID])-before > len(drawn)
	return m, nil
}
