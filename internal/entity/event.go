package entity

import "time"

const (
	EventSeatTaken    = "seat.taken"
	EventSeatVacated  = "seat.vacated"
	EventGameFinished = "game.finished"
	EventGameReset    = "game.reset"
)

// GameEvent is published for collaborators outside the process, e.g. a score keeper.
type GameEvent struct {
	Kind       string             `json:"kind"`
	Player     *PlayerIndex       `json:"player,omitempty"`
	Winner     string             `json:"winner,omitempty"`
	IsDraw     bool               `json:"is_draw,omitempty"`
	Board      *[BoardSize]string `json:"board,omitempty"`
	Reason     string             `json:"reason,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

func NewSeatEvent(kind string, player PlayerIndex, now time.Time) GameEvent {
	return GameEvent{
		Kind:       kind,
		Player:     &player,
		OccurredAt: now,
	}
}

func NewFinishedEvent(board Board, outcome Outcome, now time.Time) GameEvent {
	symbols := board.Symbols()

	event := GameEvent{
		Kind:       EventGameFinished,
		IsDraw:     outcome.IsDraw(),
		Board:      &symbols,
		OccurredAt: now,
	}

	if outcome.IsWon() {
		event.Winner = outcome.Winner.Symbol()
	}

	return event
}

func NewResetEvent(reason string, now time.Time) GameEvent {
	return GameEvent{
		Kind:       EventGameReset,
		Reason:     reason,
		OccurredAt: now,
	}
}
