package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
)

const BoardSize = 9

var (
	ErrInvalidCell   = errors.New("invalid cell index")
	ErrInvalidPlayer = errors.New("invalid player index")

	// WinCombos are checked in order: rows top-to-bottom, columns left-to-right, diagonals.
	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

// Cell holds either nothing or the mark of one player.
type Cell uint8

const (
	EmptyCell Cell = iota
	MarkX
	MarkO
)

// MarkOf - returns the cell value for the player's mark.
func MarkOf(player PlayerIndex) Cell {
	if player == PlayerO {
		return MarkO
	}
	return MarkX
}

func (that Cell) IsEmpty() bool {
	return that == EmptyCell
}

// Player - returns the owner of the mark, false for an empty cell.
func (that Cell) Player() (PlayerIndex, bool) {
	switch that {
	case MarkX:
		return PlayerX, true
	case MarkO:
		return PlayerO, true
	default:
		return 0, false
	}
}

// Symbol - returns "X", "O" or "" for an empty cell.
func (that Cell) Symbol() string {
	if player, ok := that.Player(); ok {
		return player.Symbol()
	}
	return ""
}

// Board is a value type, so passing it around never aliases the session's copy.
type Board [BoardSize]Cell

// Marks - returns the number of non-empty cells.
func (that Board) Marks() int {
	count := 0
	for _, cell := range that {
		if !cell.IsEmpty() {
			count++
		}
	}
	return count
}

func (that Board) IsFull() bool {
	return that.Marks() == BoardSize
}

// Symbols - returns the board as "X"/"O"/"" strings.
func (that Board) Symbols() [BoardSize]string {
	var out [BoardSize]string
	for i, cell := range that {
		out[i] = cell.Symbol()
	}
	return out
}

// ApplyMove - places the player's mark and returns the updated board.
// Whose turn it is gets checked by the caller.
func ApplyMove(board Board, position int, player PlayerIndex) (Board, error) {
	if !player.Valid() {
		return board, fmt.Errorf("%w: %w: %d", apperror.ErrInvalidMove, ErrInvalidPlayer, int(player))
	}

	if position < 0 || position >= BoardSize {
		return board, fmt.Errorf("%w: %w: cell %d", apperror.ErrInvalidMove, ErrInvalidCell, position)
	}

	if !board[position].IsEmpty() {
		return board, fmt.Errorf("%w: %w: cell %d", apperror.ErrInvalidMove, apperror.ErrCellOccupied, position)
	}

	board[position] = MarkOf(player)

	return board, nil
}

// Evaluate - determines the outcome of the board.
func Evaluate(board Board) Outcome {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if !a.IsEmpty() && a == b && b == c {
			winner, _ := a.Player()
			return Won(winner)
		}
	}

	// the game continues until every cell is filled
	if !board.IsFull() {
		return InProgress()
	}

	return Draw()
}
