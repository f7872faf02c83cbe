package entity

import "fmt"

// PlayerIndex identifies a seat. Player 0 plays X and moves first.
type PlayerIndex int

const (
	PlayerX PlayerIndex = 0
	PlayerO PlayerIndex = 1
)

const (
	SymbolX = "X"
	SymbolO = "O"
)

func (that PlayerIndex) Valid() bool {
	return that == PlayerX || that == PlayerO
}

// Opponent - returns the other seat.
func (that PlayerIndex) Opponent() PlayerIndex {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Symbol - returns the mark the player puts on the board.
func (that PlayerIndex) Symbol() string {
	switch that {
	case PlayerX:
		return SymbolX
	case PlayerO:
		return SymbolO
	default:
		return fmt.Sprintf("player(%d)", int(that))
	}
}

func (that PlayerIndex) String() string {
	return that.Symbol()
}
