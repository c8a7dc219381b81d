package game

import "errors"

var (
	// ErrGameOver is returned for any action after a terminal status.
	ErrGameOver = errors.New("game is over")
	// ErrIllegalMove means the input was rejected and the state is unchanged.
	ErrIllegalMove = errors.New("illegal move")
	// ErrUnknownAction is returned for action types a game does not handle.
	ErrUnknownAction = errors.New("unknown action type")
	// ErrNotYourTurn is returned when input arrives during a scripted turn.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrUnknownGame is returned by lookups of unregistered game names.
	ErrUnknownGame = errors.New("unknown game type")
)
