package websocket

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/metrics"
)

// handleMakeMove - applies a move for the sender's seat and broadcasts the new state.
func (that *Hub) handleMakeMove(conn Conn, seat entity.PlayerIndex, msg *Message) error {
	payload, ok := msg.Payload.(*MakeMovePayload)
	if !ok {
		return fmt.Errorf("%w: unexpected %s payload %T", ErrMalformedMessage, msg.Type, msg.Payload)
	}

	if !that.seats.Full() {
		return that.rejectMove(conn, payload.Position, fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrWaitingForOpponent))
	}

	if payload.Player != seat {
		return that.rejectMove(conn, payload.Position,
			fmt.Errorf("%w: %w: claimed %d, seated as %d", apperror.ErrInvalidMove, apperror.ErrNotYourSeat, payload.Player, seat))
	}

	outcome, err := that.session.MakeMove(payload.Position, payload.Player)
	if err != nil {
		return that.rejectMove(conn, payload.Position, err)
	}

	that.metrics.Move(metrics.MoveAccepted)
	that.broadcast(TypeUpdateGame, newUpdateGamePayload(that.session.Snapshot()))

	if !outcome.IsTerminal() {
		return nil
	}

	that.logger.Info("game over", "outcome", outcome.String())

	that.broadcast(TypeGameOver, newGameOverPayload(outcome))
	that.metrics.GameFinished(outcomeLabel(outcome))
	that.notify(entity.NewFinishedEvent(that.session.Snapshot().Board, outcome, that.now()))
	that.scheduleAutoReset()

	return nil
}

// handleRequestGameReset - restarts the game, but only when both players are seated.
func (that *Hub) handleRequestGameReset(_ Conn, _ entity.PlayerIndex, _ *Message) error {
	if !that.seats.Full() {
		return apperror.ErrResetWithoutOpponent
	}

	that.reset(metrics.ResetRequested)
	that.broadcast(TypeUpdateGame, newUpdateGamePayload(that.session.Snapshot()))

	return nil
}

func (that *Hub) rejectMove(conn Conn, position int, err error) error {
	that.metrics.Move(metrics.MoveRejected)

	if that.options.NotifyRejectedMoves {
		that.sendTo(conn, TypeMoveRejected, MoveRejectedPayload{Position: position, Reason: rejectionReason(err)})
	}

	return err
}

// rejectionReason - a stable code for the client, most specific cause first.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, apperror.ErrWaitingForOpponent):
		return "waiting_for_opponent"
	case errors.Is(err, apperror.ErrNotYourSeat):
		return "not_your_seat"
	case errors.Is(err, apperror.ErrGameFinished):
		return "game_finished"
	case errors.Is(err, apperror.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, apperror.ErrCellOccupied):
		return "cell_occupied"
	case errors.Is(err, entity.ErrInvalidCell):
		return "invalid_cell"
	default:
		return "invalid_move"
	}
}

func outcomeLabel(outcome entity.Outcome) string {
	if outcome.IsDraw() {
		return metrics.OutcomeDraw
	}

	if outcome.Winner == entity.PlayerX {
		return metrics.OutcomeX
	}

	return metrics.OutcomeO
}

func isUnknown(err error) bool {
	return errors.Is(err, ErrUnknownMessage)
}
