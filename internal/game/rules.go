// internal/game/rules.go
package game

import (
	"fmt"

	"github.com/jason-s-yu/crazygrid/internal/models"
)

// EffectKind enumerates what a played rank does to the game.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectDraw            // next player must stack or draw Count cards
	EffectWild            // player picks the next active suit
	EffectSkip
	EffectReverse
	EffectPlayAgain
)

func (k EffectKind) String() string {
	switch k {
	case EffectDraw:
		return "draw"
	case EffectWild:
		return "wild"
	case EffectSkip:
		return "skip"
	case EffectReverse:
		return "reverse"
	case EffectPlayAgain:
		return "play_again"
	default:
		return "none"
	}
}

// Effect is the resolved outcome of a card or combo. Count is only set for EffectDraw.
type Effect struct {
	Kind  EffectKind
	Count int
}

var rankEffects = map[models.Rank]Effect{
	models.Two:   {Kind: EffectDraw, Count: 2},
	models.Eight: {Kind: EffectWild},
	models.Jack:  {Kind: EffectSkip},
	models.Queen: {Kind: EffectReverse},
	models.King:  {Kind: EffectDraw, Count: 1},
	models.Ace:   {Kind: EffectPlayAgain},
}

// CardEffect returns the single-card effect of a rank.
func CardEffect(rank models.Rank) Effect {
	if e, ok := rankEffects[rank]; ok {
		return e
	}
	return Effect{Kind: EffectNone}
}

// IsSpecialCard reports whether the rank has any effect at all.
func IsSpecialCard(rank models.Rank) bool {
	return CardEffect(rank).Kind != EffectNone
}

// IsDrawRank reports whether the rank adds to the pending draw.
func IsDrawRank(rank models.Rank) bool {
	return CardEffect(rank).Kind == EffectDraw
}

// IsWildRank reports whether the rank may be played on anything.
func IsWildRank(rank models.Rank) bool {
	return CardEffect(rank).Kind == EffectWild
}

// CanPlayCard reports whether a single card may go on top of the discard pile.
func CanPlayCard(card, top models.Card, activeSuit models.Suit) bool {
	if IsWildRank(card.Rank) {
		return true
	}
	return card.Suit == activeSuit || card.Rank == top.Rank
}

// CanPlayCombo validates a same-rank group. Only the first card is checked
// against the table; the rest only need to share its rank.
func CanPlayCombo(cards []models.Card, top models.Card, activeSuit models.Suit) bool {
	if len(cards) == 0 {
		return false
	}
	rank := cards[0].Rank
	for _, c := range cards[1:] {
		if c.Rank != rank {
			return false
		}
	}
	return CanPlayCard(cards[0], top, activeSuit)
}

// ResolveComboEffect returns the effect of cards[0]. Draw counts multiply by
// the combo size; every other effect applies once.
func ResolveComboEffect(cards []models.Card) Effect {
	if len(cards) == 0 {
		return Effect{Kind: EffectNone}
	}
	base := CardEffect(cards[0].Rank)
	if base.Kind == EffectDraw {
		return Effect{Kind: EffectDraw, Count: base.Count * len(cards)}
	}
	return base
}

// HouseRules holds the tunable parts of the game.
type HouseRules struct {
	HandSize    int `json:"handSize"`    // cards dealt to each player
	CallPenalty int `json:"callPenalty"` // cards drawn for holding one card without calling CRAZY
}

// DefaultHouseRules returns the standard table configuration.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		HandSize:    5,
		CallPenalty: 2,
	}
}

// Update will update the house rules with the new rules provided.
// If a rule is not set or defined, it will be ignored, and the old value will persist.
func (rules *HouseRules) Update(newRules map[string]interface{}) error {
	assignInt := func(field *int, key string, minVal, maxVal int) error {
		val, exists := newRules[key]
		if !exists || val == nil {
			return nil
		}
		var n int
		switch v := val.(type) {
		case float64: // JSON numbers
			n = int(v)
		case int:
			n = v
		default:
			return fmt.Errorf("invalid type for %s", key)
		}
		if n < minVal || n > maxVal {
			return fmt.Errorf("%s must be between %d and %d", key, minVal, maxVal)
		}
		*field = n
		return nil
	}

	if err := assignInt(&rules.HandSize, "handSize", 1, 12); err != nil {
		return err
	}
	if err := assignInt(&rules.CallPenalty, "callPenalty", 0, 10); err != nil {
		return err
	}
	return nil
}

// ParseRules applies a map of overrides on top of current. It will ensure the types are valid.
func ParseRules(rules map[string]interface{}, current HouseRules) (HouseRules, error) {
	houseRules := current
	err := houseRules.Update(rules)
	return houseRules, err
}
