// internal/handlers/game_server.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/crazygrid/internal/config"
	"github.com/jason-s-yu/crazygrid/internal/game"
	"github.com/jason-s-yu/crazygrid/internal/models"
	"github.com/jason-s-yu/crazygrid/internal/table"
	"github.com/sirupsen/logrus"
)

// PlayerStore is the persistence the HTTP layer needs.
type PlayerStore interface {
	EnsurePlayer(ctx context.Context, id uuid.UUID, username string) (*models.User, error)
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.User, error)
	RecordGameResult(ctx context.Context, res models.GameResult) error
	GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	GetPlayerRank(ctx context.Context, id uuid.UUID) (int, error)
}

// GameServer holds the live tables and the websocket of each table's human.
type GameServer struct {
	Tables  *table.Store
	Players PlayerStore
	Config  config.Config
	Logger  *logrus.Logger

	// Rules are the validated server-wide house rules new tables start from.
	Rules game.HouseRules

	// RetainFinished is how long a finished table stays queryable.
	RetainFinished time.Duration

	// Publish and NewRand override the table defaults, mostly for tests.
	Publish table.PublishFunc
	NewRand func() *rand.Rand
	Sleep   func(time.Duration)

	mu      sync.Mutex
	clients map[uuid.UUID]*client // by table id
}

// client serializes writes to one websocket.
type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// NewGameServer validates the configured house rules and returns a server
// with no tables.
func NewGameServer(cfg config.Config, players PlayerStore, logger *logrus.Logger) (*GameServer, error) {
	rules, err := game.ParseRules(map[string]interface{}{
		"handSize":    cfg.HandSize,
		"callPenalty": cfg.CallPenalty,
	}, game.DefaultHouseRules())
	if err != nil {
		return nil, fmt.Errorf("invalid house rules: %w", err)
	}

	return &GameServer{
		Tables:         table.NewStore(),
		Players:        players,
		Config:         cfg,
		Logger:         logger,
		Rules:          rules,
		RetainFinished: 5 * time.Minute,
		clients:        make(map[uuid.UUID]*client),
	}, nil
}

// CreateTable seats user against bots bots under rules. Any unfinished table
// the user still has is dropped and left for the historian to abandon.
func (gs *GameServer) CreateTable(user *models.User, bots int, rules game.HouseRules) (*table.Table, error) {
	if old := gs.Tables.ForPlayer(user.ID); old != nil {
		gs.Logger.WithFields(logrus.Fields{"game": old.ID, "user": user.ID}).Info("replacing unfinished table")
		gs.dropTable(old.ID)
	}

	opts := table.Options{
		HumanID:     user.ID,
		HumanName:   user.Username,
		HumanRating: user.Rating,
		BotCount:    bots,
		Rules:       rules,
		ThinkMin: gs.Config.BotThinkMin,
		ThinkMax: gs.Config.BotThinkMax,
		Recorder: gs.Players,
		Publish:  gs.Publish,
		Logger:   gs.Logger,
		Sleep:    gs.Sleep,
	}
	if gs.NewRand != nil {
		opts.Rand = gs.NewRand()
	}

	t, err := table.New(opts)
	if err != nil {
		return nil, err
	}
	t.BroadcastFn = gs.broadcastFunc(t.ID)
	t.OnGameEnd = func(t *table.Table, res table.Result) {
		time.AfterFunc(gs.RetainFinished, func() { gs.dropTable(t.ID) })
	}

	gs.Tables.Add(t)
	t.Start()
	return t, nil
}

func (gs *GameServer) dropTable(id uuid.UUID) {
	gs.Tables.Delete(id)
	gs.mu.Lock()
	c := gs.clients[id]
	delete(gs.clients, id)
	gs.mu.Unlock()
	if c != nil {
		close(c.done)
		go c.conn.Close(websocket.StatusNormalClosure, "Table closed.")
	}
}

// attach registers conn as the table's client, replacing an older one.
func (gs *GameServer) attach(tableID uuid.UUID, conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, 32),
		done: make(chan struct{}),
	}
	gs.mu.Lock()
	old := gs.clients[tableID]
	gs.clients[tableID] = c
	gs.mu.Unlock()
	if old != nil {
		close(old.done)
		go old.conn.Close(ReplacedError, "Replaced by a newer connection.")
	}
	go gs.writeLoop(tableID, c)
	return c
}

func (gs *GameServer) detach(tableID uuid.UUID, c *client) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if gs.clients[tableID] == c {
		delete(gs.clients, tableID)
		close(c.done)
	}
}

func (gs *GameServer) writeLoop(tableID uuid.UUID, c *client) {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := c.conn.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				gs.Logger.WithError(err).WithField("game", tableID).Warn("failed to write to websocket")
			}
		}
	}
}

// broadcastFunc returns a table.BroadcastFn. It runs with the table lock held,
// so it only queues the message.
func (gs *GameServer) broadcastFunc(tableID uuid.UUID) func(ev table.Event) {
	return func(ev table.Event) {
		gs.mu.Lock()
		c := gs.clients[tableID]
		gs.mu.Unlock()
		if c == nil {
			return
		}

		msgBytes, err := json.Marshal(ev)
		if err != nil {
			gs.Logger.WithError(err).WithField("game", tableID).Errorf("failed to marshal %s event", ev.Type)
			return
		}
		select {
		case c.send <- msgBytes:
		default:
			gs.Logger.WithField("game", tableID).Warn("client send buffer full, dropping event")
		}
	}
}
