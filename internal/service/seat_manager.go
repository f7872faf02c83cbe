package service

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

const seatCount = 2

// Vacancy describes what happened when a seat was freed.
type Vacancy struct {
	Seat entity.PlayerIndex

	// Reassigned is set when the player left in seat 1 was moved to seat 0.
	Reassigned bool
}

// SeatManager binds connections to the two player seats.
// It is not safe for concurrent use; the hub serializes access.
type SeatManager struct {
	seats [seatCount]string
}

func NewSeatManager() *SeatManager {
	return &SeatManager{}
}

// Assign - gives the connection the lowest free seat.
func (that *SeatManager) Assign(connID string) (entity.PlayerIndex, error) {
	if seat, ok := that.SeatOf(connID); ok {
		return seat, nil
	}

	for i, holder := range that.seats {
		if holder == "" {
			that.seats[i] = connID
			return entity.PlayerIndex(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %d seats", apperror.ErrSeatsFull, seatCount)
}

// Vacate - frees the connection's seat. A lone player left in seat 1 is moved to seat 0.
func (that *SeatManager) Vacate(connID string) (Vacancy, bool) {
	seat, ok := that.SeatOf(connID)
	if !ok {
		return Vacancy{}, false
	}

	that.seats[seat] = ""
	vacancy := Vacancy{Seat: seat}

	if that.Occupied() == 1 && that.seats[entity.PlayerO] != "" {
		vacancy.Reassigned = true
		that.seats[entity.PlayerX] = that.seats[entity.PlayerO]
		that.seats[entity.PlayerO] = ""
	}

	return vacancy, true
}

func (that *SeatManager) SeatOf(connID string) (entity.PlayerIndex, bool) {
	if connID == "" {
		return 0, false
	}

	for i, holder := range that.seats {
		if holder == connID {
			return entity.PlayerIndex(i), true
		}
	}

	return 0, false
}

// Holder - returns the connection sitting in the seat.
func (that *SeatManager) Holder(seat entity.PlayerIndex) (string, bool) {
	if !seat.Valid() || that.seats[seat] == "" {
		return "", false
	}

	return that.seats[seat], true
}

func (that *SeatManager) Occupied() int {
	count := 0
	for _, holder := range that.seats {
		if holder != "" {
			count++
		}
	}
	return count
}

func (that *SeatManager) Full() bool {
	return that.Occupied() == seatCount
}
