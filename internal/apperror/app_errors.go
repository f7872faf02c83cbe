package apperror

import "errors"

var (
	ErrInvalidMove          = errors.New("invalid move")
	ErrGameFinished         = errors.New("game is already finished")
	ErrNotYourTurn          = errors.New("it's not your turn")
	ErrNotYourSeat          = errors.New("player does not match the sender's seat")
	ErrWaitingForOpponent   = errors.New("waiting for an opponent")
	ErrCellOccupied         = errors.New("cell is already occupied")
	ErrSeatsFull            = errors.New("all seats are occupied")
	ErrResetWithoutOpponent = errors.New("reset requested without an opponent")
)
