package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

func TestSeatManager_Assign(t *testing.T) {
	t.Run("Assigns the lowest free seat", func(t *testing.T) {
		// Given: an empty seat manager
		seats := NewSeatManager()

		// When: two connections join
		first, err := seats.Assign("a")
		require.NoError(t, err)
		second, err := seats.Assign("b")
		require.NoError(t, err)

		// Then: they take seats 0 and 1
		assert.Equal(t, entity.PlayerX, first)
		assert.Equal(t, entity.PlayerO, second)
		assert.True(t, seats.Full())
	})

	t.Run("Rejects a third connection", func(t *testing.T) {
		// Given: both seats are occupied
		seats := NewSeatManager()
		_, _ = seats.Assign("a")
		_, _ = seats.Assign("b")

		// When: a third connection asks for a seat
		_, err := seats.Assign("c")

		// Then: ErrSeatsFull is returned and the table is unchanged
		require.ErrorIs(t, err, apperror.ErrSeatsFull)
		_, ok := seats.SeatOf("c")
		assert.False(t, ok)
		assert.Equal(t, 2, seats.Occupied())
	})

	t.Run("Reuses a seat freed by seat 0", func(t *testing.T) {
		// Given: seat 1 is occupied and seat 0 is free
		seats := NewSeatManager()
		_, _ = seats.Assign("a")
		_, _ = seats.Assign("b")
		_, ok := seats.Vacate("a")
		require.True(t, ok)

		// When: a new connection joins
		seat, err := seats.Assign("c")

		// Then: the newcomer gets seat 1 because the survivor was moved to seat 0
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerO, seat)
		survivor, _ := seats.SeatOf("b")
		assert.Equal(t, entity.PlayerX, survivor)
	})

	t.Run("Assigning twice returns the same seat", func(t *testing.T) {
		seats := NewSeatManager()
		first, _ := seats.Assign("a")
		again, err := seats.Assign("a")

		require.NoError(t, err)
		assert.Equal(t, first, again)
		assert.Equal(t, 1, seats.Occupied())
	})
}

func TestSeatManager_Vacate(t *testing.T) {
	t.Run("Seat 0 leaves and seat 1 is moved to seat 0", func(t *testing.T) {
		// Given: two seated connections
		seats := NewSeatManager()
		_, _ = seats.Assign("a")
		_, _ = seats.Assign("b")

		// When: the X player leaves
		vacancy, ok := seats.Vacate("a")

		// Then: the survivor is reported as reassigned and now holds seat 0
		require.True(t, ok)
		assert.Equal(t, Vacancy{Seat: entity.PlayerX, Reassigned: true}, vacancy)

		seat, found := seats.SeatOf("b")
		require.True(t, found)
		assert.Equal(t, entity.PlayerX, seat)

		holder, found := seats.Holder(entity.PlayerX)
		require.True(t, found)
		assert.Equal(t, "b", holder)

		_, found = seats.Holder(entity.PlayerO)
		assert.False(t, found)
	})

	t.Run("Seat 1 leaves and nobody moves", func(t *testing.T) {
		// Given: two seated connections
		seats := NewSeatManager()
		_, _ = seats.Assign("a")
		_, _ = seats.Assign("b")

		// When: the O player leaves
		vacancy, ok := seats.Vacate("b")

		// Then: the X player keeps seat 0
		require.True(t, ok)
		assert.Equal(t, Vacancy{Seat: entity.PlayerO}, vacancy)
		seat, _ := seats.SeatOf("a")
		assert.Equal(t, entity.PlayerX, seat)
	})

	t.Run("Last player leaves", func(t *testing.T) {
		// Given: a single seated connection
		seats := NewSeatManager()
		_, _ = seats.Assign("a")

		// When: it leaves
		vacancy, ok := seats.Vacate("a")

		// Then: the table is empty
		require.True(t, ok)
		assert.Equal(t, Vacancy{Seat: entity.PlayerX}, vacancy)
		assert.Equal(t, 0, seats.Occupied())
	})

	t.Run("Unknown connection is ignored", func(t *testing.T) {
		seats := NewSeatManager()
		_, _ = seats.Assign("a")

		_, ok := seats.Vacate("ghost")

		assert.False(t, ok)
		assert.Equal(t, 1, seats.Occupied())
	})
}
