package models

import "github.com/google/uuid"

// User is the persistent record behind a human player.
type User struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	IsEphemeral bool      `json:"is_ephemeral"`

	Rating      int `json:"rating"`
	Coins       int `json:"coins"`
	GamesPlayed int `json:"games_played"`
	Wins        int `json:"wins"`
}

// GameResult is one finished game from a single user's point of view.
type GameResult struct {
	UserID      uuid.UUID `json:"user_id"`
	GameID      uuid.UUID `json:"game_id"`
	Won         bool      `json:"won"`
	RatingDelta int       `json:"rating_delta"`
	CoinsEarned int       `json:"coins_earned"`
	BotCount    int       `json:"bot_count"`
}

// LeaderboardEntry is a row of the public ranking.
type LeaderboardEntry struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Rating      int       `json:"rating"`
	Wins        int       `json:"wins"`
	GamesPlayed int       `json:"games_played"`
}
