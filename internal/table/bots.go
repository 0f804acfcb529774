// internal/table/bots.go
package table

import (
	"context"
	"time"

	"github.com/jason-s-yu/crazygrid/internal/ai"
	"github.com/jason-s-yu/crazygrid/internal/game"
	"github.com/jason-s-yu/crazygrid/internal/models"
	"github.com/jason-s-yu/crazygrid/internal/rating"
	"github.com/sirupsen/logrus"
)

// runBots plays bot turns until the human is up, the game ends or the run
// hits MaxConsecutiveBotTurns. The lock is released while a bot "thinks".
func (t *Table) runBots() {
	defer t.wg.Done()

	for turns := 0; ; turns++ {
		t.Mu.Lock()
		if !t.botToMove() {
			t.botsRunning = false
			t.Mu.Unlock()
			return
		}
		if turns >= MaxConsecutiveBotTurns {
			t.log.WithField("turns", turns).Warn("bot turn limit reached, pausing bots")
			t.botsRunning = false
			t.Mu.Unlock()
			return
		}
		delay := t.thinkDelay()
		t.Mu.Unlock()

		t.sleep(delay)

		t.Mu.Lock()
		if !t.botToMove() {
			t.botsRunning = false
			t.Mu.Unlock()
			return
		}
		t.botTurn()
		t.broadcastState()
		if t.State.GameOver {
			t.botsRunning = false
			t.finish()
			t.Mu.Unlock()
			return
		}
		t.Mu.Unlock()
	}
}

// Resume restarts the bot loop if it stopped while a bot was still to move.
func (t *Table) Resume() {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	if t.botToMove() && !t.botsRunning {
		t.botsRunning = true
		t.wg.Add(1)
		go t.runBots()
	}
}

func (t *Table) botToMove() bool {
	return !t.State.GameOver && game.CurrentPlayer(t.State).IsBot
}

func (t *Table) thinkDelay() time.Duration {
	spread := t.thinkMax - t.thinkMin
	if spread <= 0 {
		return t.thinkMin
	}
	return t.thinkMin + time.Duration(t.rng.Int63n(int64(spread)))
}

// botTurn plays one decision for the current bot. A rejected play falls back
// to drawing. Assumes the lock is held.
func (t *Table) botTurn() {
	bot := game.CurrentPlayer(t.State)
	hand := append([]models.Card(nil), t.State.Hands[bot.ID]...)
	log := t.log.WithFields(logrus.Fields{"player": bot.Name})

	strategy, ok := t.strategies[bot.ID]
	if !ok {
		strategy = ai.New(ai.Personality(bot.Personality), t.rng)
		t.strategies[bot.ID] = strategy
	}
	d := strategy.Decide(hand, t.State, bot.ID)

	m, err := ai.Execute(t.State, d)
	if m.Played != nil {
		t.logAction(bot.ID, "play", map[string]interface{}{
			"cards":     models.CardIDs(m.Played),
			"penalized": m.Result.Penalized,
		})
		if m.Suit != "" {
			t.logAction(bot.ID, "pick_suit", map[string]interface{}{"suit": string(m.Suit)})
		}
		if m.Called {
			t.logAction(bot.ID, "call_crazy", nil)
		}
	}
	if m.Rejected != nil {
		log.WithError(m.Rejected).WithField("cards", models.CardIDs(d.Cards)).Warn("bot play rejected, drawing instead")
	}
	if err != nil {
		log.WithError(err).Error("bot move failed")
		return
	}
	if m.Played == nil {
		t.logAction(bot.ID, "draw", map[string]interface{}{"count": len(m.Drawn)})
	}
}

// finish computes the human's result, broadcasts it and records it in the
// background. Assumes the lock is held.
func (t *Table) finish() {
	if t.result != nil {
		return
	}

	won := t.State.WinnerID == t.HumanID
	var opponents []int
	for _, p := range t.State.Players {
		if p.IsBot {
			opponents = append(opponents, rating.BotRating(string(ai.DifficultyOf(ai.Personality(p.Personality)))))
		}
	}
	delta := rating.Delta(t.humanRating, opponents, won)

	res := Result{
		Won:         won,
		WinnerID:    t.State.WinnerID,
		RatingDelta: delta,
		NewRating:   rating.Apply(t.humanRating, delta),
		CoinsEarned: rating.Coins(won, t.botCount),
		BotCount:    t.botCount,
		HandSizes:   game.HandSizes(t.State),
		Turns:       t.State.TurnCount,
	}
	if winner, ok := t.State.Winner(); ok {
		res.WinnerName = winner.Name
	}
	t.result = &res

	t.logAction(t.State.WinnerID, models.ActionGameEnd, map[string]interface{}{
		"winner":       t.State.WinnerID.String(),
		"turns":        t.State.TurnCount,
		"rating_delta": delta,
	})
	t.log.WithFields(logrus.Fields{
		"winner": res.WinnerName,
		"won":    won,
		"delta":  delta,
	}).Info("game finished")

	if t.BroadcastFn != nil {
		t.BroadcastFn(Event{Type: EventGameEnd, Result: &res})
	}

	if t.recorder != nil {
		gr := models.GameResult{
			UserID:      t.HumanID,
			GameID:      t.ID,
			Won:         won,
			RatingDelta: delta,
			CoinsEarned: res.CoinsEarned,
			BotCount:    t.botCount,
		}
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := t.recorder.RecordGameResult(ctx, gr); err != nil {
				t.log.WithError(err).Error("failed to record game result")
			}
		}()
	}

	if t.OnGameEnd != nil {
		t.OnGameEnd(t, res)
	}
}
