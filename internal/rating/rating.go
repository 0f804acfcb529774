// internal/rating/rating.go
package rating

import "math"

const (
	// KFactor scales every per-opponent update.
	KFactor = 32

	// DefaultRating is assigned to new players.
	DefaultRating = 1000
)

// Phantom ratings used for bot opponents, keyed by difficulty.
var BotRatings = map[string]int{
	"easy":   800,
	"medium": 1000,
	"hard":   1200,
}

// Coin rewards. Every finished game pays CoinsParticipation; a win adds the
// bonus for the number of bots beaten.
const CoinsParticipation = 5

var winBonus = map[int]int{
	1: 30,
	2: 40,
	3: 50,
}

// Expected returns the logistic expected score of a player against one opponent.
func Expected(playerRating, opponentRating int) float64 {
	return 1 / (1 + math.Pow(10, float64(opponentRating-playerRating)/400))
}

// Delta is the rating change for one player after a game against every rating in
// opponents: the mean of the per-opponent K-factor updates, rounded half up.
// With no opponents the change is zero.
func Delta(playerRating int, opponents []int, won bool) int {
	if len(opponents) == 0 {
		return 0
	}

	actual := 0.0
	if won {
		actual = 1
	}

	total := 0.0
	for _, opp := range opponents {
		total += KFactor * (actual - Expected(playerRating, opp))
	}
	return int(math.Floor(total/float64(len(opponents)) + 0.5))
}

// BotRating returns the phantom rating for a difficulty, defaulting to easy.
func BotRating(difficulty string) int {
	if r, ok := BotRatings[difficulty]; ok {
		return r
	}
	return BotRatings["easy"]
}

// Coins returns the reward for a finished game against botCount bots.
func Coins(won bool, botCount int) int {
	coins := CoinsParticipation
	if won {
		if bonus, ok := winBonus[botCount]; ok {
			coins += bonus
		} else {
			coins += winBonus[1]
		}
	}
	return coins
}

// Apply adds delta to rating, flooring the result at zero.
func Apply(rating, delta int) int {
	if rating+delta < 0 {
		return 0
	}
	return rating + delta
}
