// internal/handlers/game.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jason-s-yu/crazygrid/internal/game"
	"github.com/jason-s-yu/crazygrid/internal/table"
	"github.com/sirupsen/logrus"
)

type createGameRequest struct {
	Bots  int                    `json:"bots"`
	Rules map[string]interface{} `json:"rules,omitempty"` // overrides of the server's house rules
}

type gameResponse struct {
	GameID string        `json:"game_id"`
	State  table.View    `json:"state"`
	Result *table.Result `json:"result,omitempty"`
}

// CreateGameHandler serves POST /game/create with an optional
// {"bots": 1..3, "rules": {"handSize": n, "callPenalty": n}} body. The caller becomes a guest if they have no valid token.
func CreateGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		req := createGameRequest{Bots: table.MinBots}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid request payload", http.StatusBadRequest)
			return
		}
		if req.Bots < table.MinBots || req.Bots > table.MaxBots {
			http.Error(w, "bots must be between 1 and 3", http.StatusBadRequest)
			return
		}
		rules, err := game.ParseRules(req.Rules, gs.Rules)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		user, err := EnsureEphemeralUser(w, r, gs.Players)
		if err != nil {
			gs.Logger.WithError(err).Error("failed to resolve user")
			http.Error(w, "failed to resolve user", http.StatusInternalServerError)
			return
		}

		t, err := gs.CreateTable(user, req.Bots, rules)
		if err != nil {
			gs.Logger.WithError(err).Error("failed to create table")
			http.Error(w, "failed to create game", http.StatusInternalServerError)
			return
		}
		gs.Logger.WithFields(logrus.Fields{"game": t.ID, "user": user.ID, "bots": req.Bots}).Info("game created")

		writeJSON(w, http.StatusCreated, gameResponse{GameID: t.ID.String(), State: t.View()})
	}
}

// GameStateHandler serves GET /game/state/{game_id} for the seated human.
func GameStateHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		gameID, ok := pathID(r.URL.Path, "/game/state/")
		if !ok {
			http.Error(w, "Missing or invalid game_id in path (/game/state/{game_id})", http.StatusBadRequest)
			return
		}
		t, ok := gs.Tables.Get(gameID)
		if !ok {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		user, err := EnsureEphemeralUser(w, r, gs.Players)
		if err != nil || user.ID != t.HumanID {
			http.Error(w, "You are not a player in this game.", http.StatusForbidden)
			return
		}

		resp := gameResponse{GameID: t.ID.String(), State: t.View()}
		if res, done := t.Result(); done {
			resp.Result = &res
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
