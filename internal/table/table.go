// internal/table/table.go
package table

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/crazygrid/internal/ai"
	"github.com/jason-s-yu/crazygrid/internal/cache"
	"github.com/jason-s-yu/crazygrid/internal/game"
	"github.com/jason-s-yu/crazygrid/internal/models"
	"github.com/sirupsen/logrus"
)

// MaxConsecutiveBotTurns bounds one run of the bot loop.
const MaxConsecutiveBotTurns = 20

const (
	MinBots = 1
	MaxBots = game.MaxPlayers - 1
)

var (
	ErrNothingSelected = errors.New("no cards selected")
	ErrUnknownAction   = errors.New("unknown action")
	ErrBadPayload      = errors.New("bad action payload")
)

// Recorder persists finished games.
type Recorder interface {
	RecordGameResult(ctx context.Context, res models.GameResult) error
}

// PublishFunc ships one action record to the historian queue.
type PublishFunc func(ctx context.Context, rec models.GameActionRecord) error

// Options configures a new table.
type Options struct {
	HumanID     uuid.UUID
	HumanName   string
	HumanRating int
	BotCount    int
	Rules       game.HouseRules
	Rand        *rand.Rand

	ThinkMin time.Duration
	ThinkMax time.Duration

	Recorder Recorder
	Publish  PublishFunc // defaults to cache.PublishGameAction
	Logger   logrus.FieldLogger

	// Sleep replaces time.Sleep for the bot think delay.
	Sleep func(time.Duration)
}

// Table is one human playing against bots. It owns its GameState and
// serializes every action through Mu.
type Table struct {
	ID      uuid.UUID
	HumanID uuid.UUID

	Mu       sync.Mutex
	State    *game.GameState
	Selected []models.Card

	strategies  map[uuid.UUID]ai.Strategy
	humanRating int
	botCount    int
	rng         *rand.Rand

	thinkMin time.Duration
	thinkMax time.Duration
	sleep    func(time.Duration)

	recorder Recorder
	publish  PublishFunc
	log      logrus.FieldLogger

	actionIndex int
	botsRunning bool
	result      *Result
	wg          sync.WaitGroup

	// BroadcastFn is used to send events to the client. If nil, no broadcast is done.
	BroadcastFn func(ev Event)

	// OnGameEnd is invoked once, after the result is computed, with the lock held.
	OnGameEnd func(t *Table, res Result)
}

// New seats the human first and opts.BotCount distinct bot profiles after them,
// then deals.
func New(opts Options) (*Table, error) {
	if opts.BotCount < MinBots || opts.BotCount > MaxBots {
		return nil, fmt.Errorf("bot count must be between %d and %d", MinBots, MaxBots)
	}
	if opts.Rand == nil {
		opts.Rand = game.NewRand()
	}
	if opts.Publish == nil {
		opts.Publish = cache.PublishGameAction
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}

	human := models.Player{ID: opts.HumanID, Name: opts.HumanName}
	players := []models.Player{human}
	strategies := make(map[uuid.UUID]ai.Strategy, opts.BotCount)
	for _, profile := range ai.PickProfiles(opts.BotCount, opts.Rand) {
		bot := profile.Player()
		players = append(players, bot)
		strategies[bot.ID] = ai.New(profile.Personality, opts.Rand)
	}

	state, err := game.NewGame(players, opts.Rules, opts.Rand)
	if err != nil {
		return nil, err
	}

	t := &Table{
		ID:          uuid.New(),
		HumanID:     opts.HumanID,
		State:       state,
		strategies:  strategies,
		humanRating: opts.HumanRating,
		botCount:    opts.BotCount,
		rng:         opts.Rand,
		thinkMin:    opts.ThinkMin,
		thinkMax:    opts.ThinkMax,
		sleep:       opts.Sleep,
		recorder:    opts.Recorder,
		publish:     opts.Publish,
	}
	t.log = opts.Logger.WithField("game", t.ID)

	t.logAction(opts.HumanID, "game_start", map[string]interface{}{
		"players":  playerNames(players),
		"top_card": game.TopCard(state).ID(),
	})
	return t, nil
}

// Start begins play. Seat 0 is the human, so this only matters when a starter
// draw penalty or a resumed game leaves a bot to move.
func (t *Table) Start() {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	t.afterMove()
}

// View returns the client view for the human.
func (t *Table) View() View {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.view()
}

// Finished reports whether the game has ended.
func (t *Table) Finished() bool {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.State.GameOver
}

// Result returns the final result once the game has ended.
func (t *Table) Result() (Result, bool) {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	if t.result == nil {
		return Result{}, false
	}
	return *t.result, true
}

// Wait blocks until the bot loop and background work started so far are done.
func (t *Table) Wait() {
	t.wg.Wait()
}

// Toggle adds a card to the selection or removes it. Selecting a card of a
// different rank replaces the selection.
func (t *Table) Toggle(playerID uuid.UUID, cardID string) error {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	if playerID != t.HumanID {
		return game.ErrUnknownPlayer
	}
	c, err := models.ParseCardID(cardID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if !holds(t.State.Hands[playerID], c) {
		return fmt.Errorf("%w: %s", game.ErrCardNotInHand, c)
	}

	for i, s := range t.Selected {
		if s == c {
			t.Selected = append(t.Selected[:i], t.Selected[i+1:]...)
			t.broadcastState()
			return nil
		}
	}
	if len(t.Selected) > 0 && t.Selected[0].Rank != c.Rank {
		t.Selected = nil
	}
	t.Selected = append(t.Selected, c)
	t.broadcastState()
	return nil
}

// Play plays cards for playerID.
func (t *Table) Play(playerID uuid.UUID, cards []models.Card) (game.PlayResult, error) {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.play(playerID, cards)
}

// PlaySelected plays the current selection.
func (t *Table) PlaySelected(playerID uuid.UUID) (game.PlayResult, error) {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	if len(t.Selected) == 0 {
		return game.PlayResult{}, ErrNothingSelected
	}
	cards := append([]models.Card(nil), t.Selected...)
	return t.play(playerID, cards)
}

// PickSuit resolves the human's pending wild.
func (t *Table) PickSuit(playerID uuid.UUID, suit models.Suit) error {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	if err := t.checkTurn(playerID); err != nil {
		return err
	}
	if err := game.PickSuit(t.State, suit); err != nil {
		return err
	}
	t.logAction(playerID, "pick_suit", map[string]interface{}{"suit": string(suit)})
	t.afterMove()
	return nil
}

// Draw draws for the human and passes the turn.
func (t *Table) Draw(playerID uuid.UUID) ([]models.Card, error) {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	if err := t.checkTurn(playerID); err != nil {
		return nil, err
	}
	drawn, err := game.DrawCards(t.State)
	if err != nil {
		return nil, err
	}
	t.Selected = nil
	t.logAction(playerID, "draw", map[string]interface{}{"count": len(drawn)})
	t.afterMove()
	return drawn, nil
}

// CallCrazy declares the human's last card. It may be called out of turn.
func (t *Table) CallCrazy(playerID uuid.UUID) bool {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	if playerID != t.HumanID || t.State.GameOver {
		return false
	}
	if !game.CallCrazy(t.State, playerID) {
		return false
	}
	t.logAction(playerID, "call_crazy", nil)
	t.broadcastState()
	return true
}

// HandleAction dispatches a client action by its type.
func (t *Table) HandleAction(playerID uuid.UUID, action models.GameAction) error {
	switch action.ActionType {
	case "toggle":
		id, _ := action.Payload["card"].(string)
		return t.Toggle(playerID, id)
	case "play":
		ids, err := stringList(action.Payload["cards"])
		if err != nil {
			return err
		}
		cards, err := models.ParseCardIDs(ids)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
		_, err = t.Play(playerID, cards)
		return err
	case "play_selected":
		_, err := t.PlaySelected(playerID)
		return err
	case "pick_suit":
		raw, _ := action.Payload["suit"].(string)
		suit, err := models.ParseSuit(raw)
		if err != nil {
			return fmt.Errorf("%w: %v", game.ErrInvalidSuit, err)
		}
		return t.PickSuit(playerID, suit)
	case "draw":
		_, err := t.Draw(playerID)
		return err
	case "call_crazy":
		if !t.CallCrazy(playerID) {
			return errors.New("you can only call CRAZY with 1 card")
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action.ActionType)
	}
}

// play assumes the lock is held.
func (t *Table) play(playerID uuid.UUID, cards []models.Card) (game.PlayResult, error) {
	if err := t.checkTurn(playerID); err != nil {
		return game.PlayResult{}, err
	}
	res, err := game.PlayCards(t.State, cards)
	if err != nil {
		return res, err
	}
	t.Selected = nil
	t.logAction(playerID, "play", map[string]interface{}{
		"cards":     models.CardIDs(cards),
		"penalized": res.Penalized,
	})
	if res.NeedsSuitPick {
		t.broadcastState()
		return res, nil
	}
	t.afterMove()
	return res, nil
}

func (t *Table) checkTurn(playerID uuid.UUID) error {
	if t.State.GameOver {
		return game.ErrGameOver
	}
	if playerID != t.HumanID {
		return game.ErrUnknownPlayer
	}
	if game.CurrentPlayer(t.State).ID != playerID {
		return game.ErrNotYourTurn
	}
	return nil
}

// afterMove pushes the new state and either finishes the game or hands the
// turn to the bots. Assumes the lock is held.
func (t *Table) afterMove() {
	t.broadcastState()
	if t.State.GameOver {
		t.finish()
		return
	}
	if game.CurrentPlayer(t.State).IsBot && !t.botsRunning {
		t.botsRunning = true
		t.wg.Add(1)
		go t.runBots()
	}
}

func (t *Table) view() View {
	return View{
		TableID:   t.ID,
		StateView: game.Snapshot(t.State, t.HumanID),
		Selected:  models.CardIDs(t.Selected),
	}
}

// broadcastState assumes the lock is held.
func (t *Table) broadcastState() {
	if t.BroadcastFn == nil {
		return
	}
	v := t.view()
	t.BroadcastFn(Event{Type: EventSyncState, State: &v})
}

// logAction assigns the next action index and publishes the record asynchronously.
func (t *Table) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	t.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := models.GameActionRecord{
		GameID:        t.ID,
		ActionIndex:   t.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}

	t.wg.Add(1)
	go func(rec models.GameActionRecord) {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := t.publish(ctx, rec); err != nil {
			t.log.WithError(err).WithField("action", rec.ActionType).Debug("failed to publish game action")
		}
	}(record)
}

func holds(hand []models.Card, c models.Card) bool {
	for _, h := range hand {
		if h == c {
			return true
		}
	}
	return false
}

func playerNames(players []models.Player) []string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return names
}

func stringList(v interface{}) ([]string, error) {
	switch raw := v.(type) {
	case []string:
		return raw, nil
	case []interface{}:
		out := make([]string, len(raw))
		for i, item := range raw {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: card ids must be strings", ErrBadPayload)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: missing cards", ErrBadPayload)
	}
}
