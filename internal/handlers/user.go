package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jason-s-yu/crazygrid/internal/auth"
	"github.com/jason-s-yu/crazygrid/internal/database"
	"github.com/jason-s-yu/crazygrid/internal/models"
)

const authCookie = "auth_token"

// EnsureEphemeralUser resolves the caller from the auth_token cookie. A caller
// without a valid token becomes a new guest and gets a fresh cookie.
func EnsureEphemeralUser(w http.ResponseWriter, r *http.Request, store PlayerStore) (*models.User, error) {
	if cookie, err := r.Cookie(authCookie); err == nil {
		if userID, name, err := auth.AuthenticateJWT(cookie.Value); err == nil {
			id, parseErr := uuid.Parse(userID)
			if parseErr != nil {
				return nil, fmt.Errorf("invalid user ID in token: %w", parseErr)
			}
			if name == "" {
				name = guestName(id)
			}
			return store.EnsurePlayer(r.Context(), id, name)
		}
	}

	// create the temp user
	id := uuid.New()
	name := guestName(id)
	user, err := store.EnsurePlayer(r.Context(), id, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create ephemeral user: %w", err)
	}

	token, err := auth.CreateJWT(id.String(), name)
	if err != nil {
		return nil, fmt.Errorf("failed to create ephemeral JWT: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	return user, nil
}

func guestName(id uuid.UUID) string {
	return "Guest-" + id.String()[:4]
}

type meResponse struct {
	*models.User
	Rank int `json:"rank,omitempty"` // 0 while unranked
}

// MeHandler returns the caller's profile, creating a guest if needed.
func MeHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		user, err := EnsureEphemeralUser(w, r, gs.Players)
		if err != nil {
			gs.Logger.WithError(err).Error("failed to resolve user")
			http.Error(w, "failed to resolve user", http.StatusInternalServerError)
			return
		}

		resp := meResponse{User: user}
		rank, err := gs.Players.GetPlayerRank(r.Context(), user.ID)
		switch {
		case err == nil:
			resp.Rank = rank
		case errors.Is(err, database.ErrPlayerNotFound):
		default:
			gs.Logger.WithError(err).WithField("user", user.ID).Warn("rank lookup failed")
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
