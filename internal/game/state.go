// internal/game/state.go
package game

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/jason-s-yu/crazygrid/internal/models"
)

const (
	MinPlayers = 2
	MaxPlayers = 4
)

// Phase is the derived position of a game in its state machine.
type Phase string

const (
	PhaseAwaitingAction     Phase = "awaiting_action"
	PhaseAwaitingSuitChoice Phase = "awaiting_suit_choice"
	PhaseTerminal           Phase = "terminal"
)

// GameState is the whole mutable aggregate for one game. It is owned by a single
// caller; nothing in this package locks it.
type GameState struct {
	Players     []models.Player
	Hands       map[uuid.UUID][]models.Card
	DrawPile    []models.Card // top of the pile is the last element
	DiscardPile []models.Card // top of the pile is the last element

	CurrentPlayerIndex int
	Direction          int // 1 clockwise, -1 counter-clockwise
	ActiveSuit         models.Suit
	PendingDraw        int

	// CalledCrazy marks players who declared their last card.
	CalledCrazy map[uuid.UUID]bool

	// AwaitingSuit is set between a wild play and the following PickSuit.
	AwaitingSuit bool

	GameOver   bool
	WinnerID   uuid.UUID
	TurnCount  int
	LastAction string

	Rules HouseRules

	rng *rand.Rand
}

// Phase derives the state machine position from the flags.
func (s *GameState) Phase() Phase {
	switch {
	case s.GameOver:
		return PhaseTerminal
	case s.AwaitingSuit:
		return PhaseAwaitingSuitChoice
	default:
		return PhaseAwaitingAction
	}
}

// source returns the game's random source, creating one for states built by hand.
func (s *GameState) source() *rand.Rand {
	if s.rng == nil {
		s.rng = NewRand()
	}
	return s.rng
}

// Player returns the seated player with the given id.
func (s *GameState) Player(id uuid.UUID) (models.Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return models.Player{}, false
}

// Winner returns the winning player once the game is over.
func (s *GameState) Winner() (models.Player, bool) {
	if !s.GameOver {
		return models.Player{}, false
	}
	return s.Player(s.WinnerID)
}

// NewGame shuffles a fresh deck, deals rules.HandSize cards to each player in seat
// order and flips a starter card. A nil rng falls back to a time-seeded source.
func NewGame(players []models.Player, rules HouseRules, rng *rand.Rand) (*GameState, error) {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return nil, fmt.Errorf("need %d-%d players, got %d", MinPlayers, MaxPlayers, len(players))
	}
	if rules.HandSize < 1 || rules.HandSize*len(players) >= DeckSize {
		return nil, fmt.Errorf("hand size %d does not fit %d players", rules.HandSize, len(players))
	}
	if rules.CallPenalty < 0 {
		return nil, fmt.Errorf("call penalty must not be negative")
	}

	seen := make(map[uuid.UUID]bool, len(players))
	for _, p := range players {
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate player id %s", p.ID)
		}
		seen[p.ID] = true
	}

	if rng == nil {
		rng = NewRand()
	}

	deck := Shuffle(NewDeck(), rng)
	hands := make(map[uuid.UUID][]models.Card, len(players))
	for _, p := range players {
		hand := make([]models.Card, rules.HandSize)
		copy(hand, deck[:rules.HandSize])
		hands[p.ID] = hand
		deck = deck[rules.HandSize:]
	}

	starter, deck := takeStarter(deck)

	seated := make([]models.Player, len(players))
	copy(seated, players)

	s := &GameState{
		Players:     seated,
		Hands:       hands,
		DrawPile:    deck,
		DiscardPile: []models.Card{starter},
		Direction:   1,
		ActiveSuit:  starter.Suit,
		LastAction:  "Game started!",
		CalledCrazy: make(map[uuid.UUID]bool, len(players)),
		Rules:       rules,
		rng:         rng,
	}

	// Only reachable when every remaining card is special.
	if e := CardEffect(starter.Rank); e.Kind == EffectDraw {
		s.PendingDraw = e.Count
	}

	return s, nil
}

// takeStarter removes the first card with no effect from deck, or the first card
// if every card is special.
func takeStarter(deck []models.Card) (models.Card, []models.Card) {
	idx := 0
	for i, c := range deck {
		if !IsSpecialCard(c.Rank) {
			idx = i
			break
		}
	}
	starter := deck[idx]
	rest := make([]models.Card, 0, len(deck)-1)
	rest = append(rest, deck[:idx]...)
	rest = append(rest, deck[idx+1:]...)
	return starter, rest
}

// HandSizes maps each player to the number of cards they hold.
func HandSizes(s *GameState) map[uuid.UUID]int {
	sizes := make(map[uuid.UUID]int, len(s.Players))
	for _, p := range s.Players {
		sizes[p.ID] = len(s.Hands[p.ID])
	}
	return sizes
}
