// internal/ai/profiles.go
package ai

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/jason-s-yu/crazygrid/internal/models"
)

// Difficulty buckets bots for rating purposes.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Profile is a named bot opponent.
type Profile struct {
	Name        string
	Emoji       string
	Personality Personality
	Difficulty  Difficulty
}

// Profiles lists every bot a table can seat.
var Profiles = []Profile{
	{Name: "Blaze", Emoji: "🔥", Personality: PersonalityAggressive, Difficulty: DifficultyHard},
	{Name: "Sage", Emoji: "🧙", Personality: PersonalityDefensive, Difficulty: DifficultyMedium},
	{Name: "Chaos", Emoji: "🎲", Personality: PersonalityChaotic, Difficulty: DifficultyEasy},
	{Name: "Viper", Emoji: "🐍", Personality: PersonalityAggressive, Difficulty: DifficultyHard},
	{Name: "Zen", Emoji: "🧘", Personality: PersonalityDefensive, Difficulty: DifficultyMedium},
	{Name: "Joker", Emoji: "🃏", Personality: PersonalityChaotic, Difficulty: DifficultyEasy},
}

// PickProfiles returns n distinct profiles in random order. n is capped at len(Profiles).
func PickProfiles(n int, rng *rand.Rand) []Profile {
	if n > len(Profiles) {
		n = len(Profiles)
	}
	if n < 0 {
		n = 0
	}
	out := make([]Profile, len(Profiles))
	copy(out, Profiles)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out[:n]
}

// Player seats the profile as a bot with a fresh id.
func (p Profile) Player() models.Player {
	return models.Player{
		ID:          uuid.New(),
		Name:        p.Emoji + " " + p.Name,
		IsBot:       true,
		Personality: string(p.Personality),
	}
}

// DifficultyOf maps a personality to the difficulty used when rating games against it.
func DifficultyOf(p Personality) Difficulty {
	switch p {
	case PersonalityAggressive:
		return DifficultyHard
	case PersonalityDefensive:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}
