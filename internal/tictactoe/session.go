package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

// Snapshot is a copy of the session state, safe to hand out.
type Snapshot struct {
	Board   entity.Board
	Turn    entity.PlayerIndex
	Outcome entity.Outcome
	Moves   int
}

// Session - the single shared game: board, whose turn it is and the outcome.
// It is not safe for concurrent use; the owner serializes access.
type Session struct {
	board   entity.Board
	turn    entity.PlayerIndex
	outcome entity.Outcome
	moves   int
}

func NewSession() *Session {
	session := &Session{}
	session.Reset()

	return session
}

// MakeMove - applies the claimed player's move and returns the resulting outcome.
// A rejected move leaves the session untouched.
func (that *Session) MakeMove(position int, player entity.PlayerIndex) (entity.Outcome, error) {
	if that.outcome.IsTerminal() {
		return that.outcome, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrGameFinished)
	}

	if player != that.turn {
		return that.outcome, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrNotYourTurn)
	}

	board, err := entity.ApplyMove(that.board, position, player)
	if err != nil {
		return that.outcome, fmt.Errorf("invalid turn: %w", err)
	}

	that.board = board
	that.moves++
	that.outcome = entity.Evaluate(board)

	if that.outcome.IsInProgress() {
		that.turn = player.Opponent()
	}

	return that.outcome, nil
}

// Reset - starts a new game with X to move.
func (that *Session) Reset() {
	that.board = entity.Board{}
	that.turn = entity.PlayerX
	that.outcome = entity.InProgress()
	that.moves = 0
}

func (that *Session) Snapshot() Snapshot {
	return Snapshot{
		Board:   that.board,
		Turn:    that.turn,
		Outcome: that.outcome,
		Moves:   that.moves,
	}
}

func (that *Session) Outcome() entity.Outcome {
	return that.outcome
}
