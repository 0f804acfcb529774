package game

import "errors"

// Sentinel errors returned by session operations. Rejections wrap one of
// these with a readable reason; match them with errors.Is.
var (
	ErrGameOver       = errors.New("game is over")
	ErrSuitPending    = errors.New("a suit must be picked first")
	ErrNoSuitPending  = errors.New("no suit pick is pending")
	ErrInvalidSuit    = errors.New("invalid suit")
	ErrMustAnswerDraw = errors.New("you must play a draw card or draw from the pile")
	ErrIllegalPlay    = errors.New("invalid play: cards must match suit or rank")
	ErrCardNotInHand  = errors.New("card not in hand")
	ErrNoCards        = errors.New("no cards given")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrUnknownPlayer  = errors.New("unknown player")
)
