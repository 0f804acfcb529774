// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/crazygrid/internal/middleware"
	"github.com/jason-s-yu/crazygrid/internal/models"
	"github.com/jason-s-yu/crazygrid/internal/table"
	"github.com/sirupsen/logrus"
)

// GameMessage is an incoming websocket message during play.
type GameMessage struct {
	Type string `json:"type"`

	Card  string   `json:"card,omitempty"`  // toggle
	Cards []string `json:"cards,omitempty"` // play
	Suit  string   `json:"suit,omitempty"`  // pick_suit
}

func (m GameMessage) action() models.GameAction {
	payload := make(map[string]interface{})
	if m.Card != "" {
		payload["card"] = m.Card
	}
	if m.Cards != nil {
		payload["cards"] = m.Cards
	}
	if m.Suit != "" {
		payload["suit"] = m.Suit
	}
	return models.GameAction{ActionType: m.Type, Payload: payload}
}

// GameWSHandler upgrades /game/ws/{game_id} for the table's human, sends the
// current state and relays actions until the socket closes.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, ok := pathID(r.URL.Path, "/game/ws/")
		if !ok {
			http.Error(w, "Missing or invalid game_id in path (/game/ws/{game_id})", http.StatusBadRequest)
			return
		}
		t, ok := gs.Tables.Get(gameID)
		if !ok {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		if t.Finished() {
			http.Error(w, "Game has already ended", http.StatusGone)
			return
		}

		// Authenticate before the upgrade so a new guest cookie can still be set.
		user, err := EnsureEphemeralUser(w, r, gs.Players)
		if err != nil {
			logger.WithError(err).WithField("game", gameID).Warn("user authentication failed")
			http.Error(w, "Authentication failed", http.StatusForbidden)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.WithError(err).WithField("game", gameID).Warn("websocket accept failed")
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "game" {
			c.Close(BadSubprotocolError, "Client must use the 'game' subprotocol.")
			return
		}
		if user.ID != t.HumanID {
			logger.WithFields(logrus.Fields{"game": gameID, "user": user.ID}).Warn("user is not seated at table")
			c.Close(NotAtTableError, "You are not a player in this game.")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		cl := gs.attach(t.ID, c)
		defer gs.detach(t.ID, cl)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		v := t.View()
		sendWsMessage(ctx, c, logger, table.Event{Type: table.EventSyncState, State: &v})
		t.Resume()

		err = readGameMessages(ctx, c, t, user.ID, logger)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, err)
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// readGameMessages reads client messages and applies them to t until the
// connection closes. Replies to the client go through the same connection.
func readGameMessages(ctx context.Context, c *websocket.Conn, t *table.Table, userID uuid.UUID, logger *logrus.Logger) error {
	log := logger.WithFields(logrus.Fields{"game": t.ID, "user": userID})
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			log.Warnf("ignoring non-text message type %d", msgType)
			continue
		}

		var msg GameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sendWsError(ctx, c, logger, "Invalid JSON format.")
			continue
		}
		log.Debugf("received action '%s'", msg.Type)
		// Bots paused at the turn limit pick up again on any client traffic.
		t.Resume()

		if msg.Type == "ping" {
			sendWsMessage(ctx, c, logger, map[string]string{"type": "pong"})
			continue
		}
		if err := t.HandleAction(userID, msg.action()); err != nil {
			log.WithError(err).Debugf("action '%s' rejected", msg.Type)
			sendWsError(ctx, c, logger, err.Error())
		}
	}
}

// sendWsMessage marshals a message and sends it with a write timeout.
func sendWsMessage(ctx context.Context, c *websocket.Conn, logger *logrus.Logger, message interface{}) {
	msgBytes, err := json.Marshal(message)
	if err != nil {
		logger.WithError(err).Error("failed to marshal websocket message")
		return
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Write(writeCtx, websocket.MessageText, msgBytes); err != nil {
		logger.WithError(err).Debug("failed to write websocket message")
	}
}

// sendWsError sends a structured error message to the client.
func sendWsError(ctx context.Context, c *websocket.Conn, logger *logrus.Logger, errorMsg string) {
	sendWsMessage(ctx, c, logger, map[string]interface{}{
		"type":    "error",
		"message": errorMsg,
	})
}
