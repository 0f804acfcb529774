// cmd/simulate plays bot-only games and prints how each personality fares.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jason-s-yu/crazygrid/internal/ai"
	"github.com/jason-s-yu/crazygrid/internal/config"
	"github.com/jason-s-yu/crazygrid/internal/game"
	"github.com/jason-s-yu/crazygrid/internal/sim"
	_ "github.com/joho/godotenv/autoload"
	"github.com/pterm/pterm"
)

func main() {
	games := flag.Int("games", 1000, "number of games to play")
	players := flag.Int("players", 4, "bots per game (2-4)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	cfg := config.Load()
	rules := game.DefaultHouseRules()
	if err := rules.Update(map[string]interface{}{
		"handSize":    cfg.HandSize,
		"callPenalty": cfg.CallPenalty,
	}); err != nil {
		pterm.Error.Printfln("invalid house rules: %v", err)
		os.Exit(1)
	}

	spinner, _ := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(
		fmt.Sprintf("Playing %d games with %d bots...", *games, *players))
	rep, err := sim.Run(sim.Options{Games: *games, Players: *players, Seed: *seed, Rules: rules})
	spinner.Stop()
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}

	data := pterm.TableData{{"Personality", "Seats", "Wins", "Win rate"}}
	for _, p := range []ai.Personality{ai.PersonalityAggressive, ai.PersonalityDefensive, ai.PersonalityChaotic} {
		data = append(data, []string{
			string(p),
			fmt.Sprint(rep.Seats[p]),
			fmt.Sprint(rep.Wins[p]),
			fmt.Sprintf("%.1f%%", 100*rep.WinRate(p)),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	pterm.Info.Printfln("seed %d, average %.1f turns per game, %d CRAZY penalties", *seed, rep.AvgTurns(), rep.Penalties)
	if rep.Stalled > 0 {
		pterm.Warning.Printfln("%d games hit the %d turn limit", rep.Stalled, sim.MaxTurns)
	}
	pterm.Success.Printfln("Played %d games", rep.Games)
}
