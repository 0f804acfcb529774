// internal/models/card.go
package models

import (
	"fmt"
	"strings"
)

// Suit is one of the four French suits. The string value is used in card ids.
type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

// Rank is one of the thirteen card ranks. The string value is used in card ids.
type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

// Suits lists every suit in deck order.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Ranks lists every rank in deck order.
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool {
	switch s {
	case Hearts, Diamonds, Clubs, Spades:
		return true
	}
	return false
}

// Symbol returns the unicode pip for the suit.
func (s Suit) Symbol() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// ParseSuit accepts a suit name case-insensitively.
func ParseSuit(s string) (Suit, error) {
	suit := Suit(strings.ToLower(strings.TrimSpace(s)))
	if !suit.Valid() {
		return "", fmt.Errorf("unknown suit %q", s)
	}
	return suit, nil
}

// Valid reports whether r is one of the thirteen ranks.
func (r Rank) Valid() bool {
	for _, rank := range Ranks {
		if r == rank {
			return true
		}
	}
	return false
}

// Card is an immutable playing card. Two cards are equal when suit and rank match.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// ID serializes the card to its stable identifier, e.g. "hearts:A".
func (c Card) ID() string {
	return string(c.Suit) + ":" + string(c.Rank)
}

func (c Card) String() string {
	return string(c.Rank) + c.Suit.Symbol()
}

// ParseCardID parses an identifier produced by Card.ID.
func ParseCardID(id string) (Card, error) {
	suit, rank, ok := strings.Cut(id, ":")
	if !ok {
		return Card{}, fmt.Errorf("malformed card id %q", id)
	}
	c := Card{Suit: Suit(suit), Rank: Rank(rank)}
	if !c.Suit.Valid() || !c.Rank.Valid() {
		return Card{}, fmt.Errorf("unknown card %q", id)
	}
	return c, nil
}

// ParseCardIDs parses every id, failing on the first bad one.
func ParseCardIDs(ids []string) ([]Card, error) {
	cards := make([]Card, 0, len(ids))
	for _, id := range ids {
		c, err := ParseCardID(id)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// CardIDs is the inverse of ParseCardIDs.
func CardIDs(cards []Card) []string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID()
	}
	return ids
}
