// Package sim plays bot-only games to compare the strategies.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/jason-s-yu/crazygrid/internal/ai"
	"github.com/jason-s-yu/crazygrid/internal/game"
	"github.com/jason-s-yu/crazygrid/internal/models"
)

// MaxTurns ends a game that has not finished, counting it as stalled.
const MaxTurns = 2000

// Options configures a batch of games.
type Options struct {
	Games   int
	Players int
	Seed    int64
	Rules   game.HouseRules
}

// Report aggregates a batch.
type Report struct {
	Games      int
	Stalled    int
	TotalTurns int
	Wins       map[ai.Personality]int
	Seats      map[ai.Personality]int // seats taken, to turn wins into rates
	Penalties  int
}

// AvgTurns is the mean turn count over finished games.
func (r Report) AvgTurns() float64 {
	finished := r.Games - r.Stalled
	if finished == 0 {
		return 0
	}
	return float64(r.TotalTurns) / float64(finished)
}

// WinRate is wins over seats for one personality.
func (r Report) WinRate(p ai.Personality) float64 {
	if r.Seats[p] == 0 {
		return 0
	}
	return float64(r.Wins[p]) / float64(r.Seats[p])
}

// Run plays opts.Games games with randomly drawn bot profiles.
func Run(opts Options) (Report, error) {
	if opts.Players < game.MinPlayers || opts.Players > game.MaxPlayers {
		return Report{}, fmt.Errorf("players must be between %d and %d", game.MinPlayers, game.MaxPlayers)
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	rep := Report{
		Wins:  make(map[ai.Personality]int),
		Seats: make(map[ai.Personality]int),
	}

	for i := 0; i < opts.Games; i++ {
		profiles := ai.PickProfiles(opts.Players, rng)
		if len(profiles) < opts.Players {
			return rep, fmt.Errorf("only %d bot profiles available", len(profiles))
		}
		res, err := PlayOne(profiles, opts.Rules, rng)
		if err != nil {
			return rep, err
		}

		rep.Games++
		rep.Penalties += res.Penalties
		for _, p := range profiles {
			rep.Seats[p.Personality]++
		}
		if res.Stalled {
			rep.Stalled++
			continue
		}
		rep.TotalTurns += res.Turns
		rep.Wins[res.Winner]++
	}
	return rep, nil
}

// GameResult is one simulated game.
type GameResult struct {
	Winner    ai.Personality
	Turns     int
	Penalties int
	Stalled   bool
}

// PlayOne plays a single game between the given profiles.
func PlayOne(profiles []ai.Profile, rules game.HouseRules, rng *rand.Rand) (GameResult, error) {
	players := make([]models.Player, len(profiles))
	strategies := make(map[uuid.UUID]ai.Strategy, len(profiles))
	for i, p := range profiles {
		players[i] = p.Player()
		strategies[players[i].ID] = ai.New(p.Personality, rng)
	}

	s, err := game.NewGame(players, rules, rng)
	if err != nil {
		return GameResult{}, err
	}

	var res GameResult
	for !s.GameOver {
		if s.TurnCount >= MaxTurns {
			res.Stalled = true
			return res, nil
		}
		bot := game.CurrentPlayer(s)
		hand := append([]models.Card(nil), s.Hands[bot.ID]...)
		d := strategies[bot.ID].Decide(hand, s, bot.ID)

		m, err := ai.Execute(s, d)
		if err != nil {
			return res, err
		}
		if m.Penalized {
			res.Penalties++
		}
	}

	winner, _ := s.Winner()
	res.Winner = ai.Personality(winner.Personality)
	res.Turns = s.TurnCount
	return res, nil
}
