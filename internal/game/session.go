// internal/game/session.go
package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jason-s-yu/crazygrid/internal/models"
)

// PlayResult describes an accepted play.
type PlayResult struct {
	NeedsSuitPick bool   `json:"needsSuitPick"`
	Effect        string `json:"effect"`
	Penalized     bool   `json:"penalized"` // the player was caught holding one undeclared card
}

// PlayCards plays one or more same-rank cards from the current player's hand.
// A rejected play returns a wrapped sentinel error and leaves s untouched.
func PlayCards(s *GameState, cards []models.Card) (PlayResult, error) {
	if s.GameOver {
		return PlayResult{}, ErrGameOver
	}
	if s.AwaitingSuit {
		return PlayResult{}, ErrSuitPending
	}
	if len(cards) == 0 {
		return PlayResult{}, ErrNoCards
	}

	player := CurrentPlayer(s)
	top := TopCard(s)

	if s.PendingDraw > 0 && !IsDrawRank(cards[0].Rank) {
		return PlayResult{}, fmt.Errorf("%w (%d pending)", ErrMustAnswerDraw, s.PendingDraw)
	}
	if !CanPlayCombo(cards, top, s.ActiveSuit) {
		return PlayResult{}, fmt.Errorf("%w: %s on %s", ErrIllegalPlay, describeCards(cards), top)
	}
	if _, ok := removeCards(s.Hands[player.ID], cards); !ok {
		return PlayResult{}, fmt.Errorf("%w: %s", ErrCardNotInHand, describeCards(cards))
	}

	// The penalty is judged on the hand before the play.
	penalized := applyCallPenalty(s, player.ID)
	s.Hands[player.ID], _ = removeCards(s.Hands[player.ID], cards)

	s.DiscardPile = append(s.DiscardPile, cards...)
	s.CalledCrazy[player.ID] = false

	effect := ResolveComboEffect(cards)
	lastSuit := cards[len(cards)-1].Suit
	played := describeCards(cards)
	if len(cards) > 1 {
		played += fmt.Sprintf(" x%d COMBO!", len(cards))
	}

	switch effect.Kind {
	case EffectDraw:
		s.PendingDraw += effect.Count
		s.ActiveSuit = lastSuit
		s.LastAction = fmt.Sprintf("%s played %s: +%d cards pending!", player.Name, played, effect.Count)
		AdvanceTurn(s)
	case EffectWild:
		s.AwaitingSuit = true
		s.LastAction = fmt.Sprintf("%s played %s: pick a suit!", player.Name, played)
		return PlayResult{NeedsSuitPick: true, Effect: s.LastAction, Penalized: penalized}, nil
	case EffectSkip:
		s.ActiveSuit = lastSuit
		skipped := s.Players[NextPlayerIndex(s)]
		s.LastAction = fmt.Sprintf("%s played %s: %s skipped!", player.Name, played, skipped.Name)
		SkipNextPlayer(s)
	case EffectReverse:
		s.ActiveSuit = lastSuit
		s.LastAction = fmt.Sprintf("%s played %s: direction reversed!", player.Name, played)
		ReverseDirection(s)
	case EffectPlayAgain:
		s.ActiveSuit = lastSuit
		s.LastAction = fmt.Sprintf("%s played %s: plays again!", player.Name, played)
		s.TurnCount++
	default:
		s.ActiveSuit = lastSuit
		s.LastAction = fmt.Sprintf("%s played %s", player.Name, played)
		AdvanceTurn(s)
	}

	if len(s.Hands[player.ID]) == 0 {
		declareWinner(s, player)
	}

	return PlayResult{Effect: s.LastAction, Penalized: penalized}, nil
}

// PickSuit resolves a pending wild play. The win check for a wild played as the
// last card happens here, and the turn advances either way.
func PickSuit(s *GameState, suit models.Suit) error {
	if s.GameOver {
		return ErrGameOver
	}
	if !s.AwaitingSuit {
		return ErrNoSuitPending
	}
	if !suit.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSuit, suit)
	}

	player := CurrentPlayer(s)
	s.ActiveSuit = suit
	s.AwaitingSuit = false
	s.LastAction = fmt.Sprintf("%s chose %s %s!", player.Name, suit.Symbol(), suit)

	if len(s.Hands[player.ID]) == 0 {
		declareWinner(s, player)
	}

	AdvanceTurn(s)
	return nil
}

// DrawCards draws the pending draw amount, or one card, for the current player
// and passes the turn. With both piles exhausted it returns no cards and still
// passes the turn.
func DrawCards(s *GameState) ([]models.Card, error) {
	if s.GameOver {
		return nil, ErrGameOver
	}
	if s.AwaitingSuit {
		return nil, ErrSuitPending
	}

	player := CurrentPlayer(s)
	applyCallPenalty(s, player.ID)

	count := s.PendingDraw
	if count < 1 {
		count = 1
	}
	s.PendingDraw = 0

	drawn := drawInto(s, player.ID, count)

	plural := "s"
	if len(drawn) == 1 {
		plural = ""
	}
	s.LastAction = fmt.Sprintf("%s drew %d card%s", player.Name, len(drawn), plural)
	s.CalledCrazy[player.ID] = false
	AdvanceTurn(s)

	return drawn, nil
}

// CallCrazy records that playerID declared their last card. It only succeeds
// while that player holds exactly one card.
func CallCrazy(s *GameState, playerID uuid.UUID) bool {
	hand, ok := s.Hands[playerID]
	if !ok || len(hand) != 1 {
		return false
	}
	s.CalledCrazy[playerID] = true
	return true
}

// PlayableCards returns the cards in playerID's hand that could legally be played
// alone right now. While a draw is pending only draw ranks qualify.
func PlayableCards(s *GameState, playerID uuid.UUID) []models.Card {
	hand := s.Hands[playerID]
	top := TopCard(s)

	var playable []models.Card
	for _, c := range hand {
		if s.PendingDraw > 0 {
			if IsDrawRank(c.Rank) {
				playable = append(playable, c)
			}
			continue
		}
		if CanPlayCard(c, top, s.ActiveSuit) {
			playable = append(playable, c)
		}
	}
	return playable
}

// applyCallPenalty makes a player holding one undeclared card draw the penalty.
func applyCallPenalty(s *GameState, playerID uuid.UUID) bool {
	if len(s.Hands[playerID]) != 1 || s.CalledCrazy[playerID] {
		return false
	}

	drawInto(s, playerID, s.Rules.CallPenalty)
	if p, ok := s.Player(playerID); ok {
		s.LastAction = fmt.Sprintf("%s forgot to call CRAZY! +%d penalty cards!", p.Name, s.Rules.CallPenalty)
	}
	return true
}

// drawInto moves up to n cards from the draw pile into a hand, recycling the
// discard pile when the draw pile runs out.
func drawInto(s *GameState, playerID uuid.UUID, n int) []models.Card {
	drawn := make([]models.Card, 0, n)
	for i := 0; i < n; i++ {
		RecycleIfNeeded(&s.DrawPile, &s.DiscardPile, s.source())
		if len(s.DrawPile) == 0 {
			break
		}
		last := len(s.DrawPile) - 1
		card := s.DrawPile[last]
		s.DrawPile = s.DrawPile[:last]
		drawn = append(drawn, card)
	}
	s.Hands[playerID] = append(s.Hands[playerID], drawn...)
	return drawn
}

func declareWinner(s *GameState, player models.Player) {
	s.GameOver = true
	s.WinnerID = player.ID
	s.LastAction = fmt.Sprintf("%s wins!", player.Name)
}

// removeCards returns a copy of hand without cards. Each named card consumes one
// matching card, so naming the same card twice fails unless it is held twice.
func removeCards(hand, cards []models.Card) ([]models.Card, bool) {
	remaining := make([]models.Card, len(hand))
	copy(remaining, hand)
	for _, c := range cards {
		idx := -1
		for i, h := range remaining {
			if h == c {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, false
		}
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return remaining, true
}

func describeCards(cards []models.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
