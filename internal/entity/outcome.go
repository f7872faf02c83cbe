package entity

type OutcomeStatus string

const (
	StatusInProgress OutcomeStatus = "in_progress"
	StatusWon        OutcomeStatus = "won"
	StatusDraw       OutcomeStatus = "draw"
)

// Outcome - the result of evaluating a board. Winner is meaningful only when Status is StatusWon.
type Outcome struct {
	Status OutcomeStatus
	Winner PlayerIndex
}

func InProgress() Outcome {
	return Outcome{Status: StatusInProgress}
}

func Won(player PlayerIndex) Outcome {
	return Outcome{Status: StatusWon, Winner: player}
}

func Draw() Outcome {
	return Outcome{Status: StatusDraw}
}

func (that Outcome) IsInProgress() bool {
	return that.Status == StatusInProgress
}

func (that Outcome) IsWon() bool {
	return that.Status == StatusWon
}

func (that Outcome) IsDraw() bool {
	return that.Status == StatusDraw
}

// IsTerminal - no further moves are accepted until a reset.
func (that Outcome) IsTerminal() bool {
	return that.IsWon() || that.IsDraw()
}

// WinnerSymbol - returns the winner's mark or nil when nobody has won.
func (that Outcome) WinnerSymbol() *string {
	if !that.IsWon() {
		return nil
	}
	symbol := that.Winner.Symbol()
	return &symbol
}

func (that Outcome) String() string {
	switch that.Status {
	case StatusWon:
		return "won by " + that.Winner.Symbol()
	case StatusDraw:
		return string(StatusDraw)
	default:
		return string(StatusInProgress)
	}
}
