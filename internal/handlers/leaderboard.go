package handlers

import (
	"net/http"
	"strconv"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// LeaderboardHandler serves GET /leaderboard?limit=N.
func LeaderboardHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		limit := defaultLeaderboardLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = min(n, maxLeaderboardLimit)
		}

		entries, err := gs.Players.GetLeaderboard(r.Context(), limit)
		if err != nil {
			gs.Logger.WithError(err).Error("leaderboard query failed")
			http.Error(w, "failed to load leaderboard", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"players": entries})
	}
}
