package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

type mockEventRepo struct {
	mock.Mock
}

func (that *mockEventRepo) Publish(ctx context.Context, event entity.GameEvent) error {
	args := that.Called(ctx, event)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifier_Run(t *testing.T) {
	t.Run("Publishes queued events in order", func(t *testing.T) {
		// Given: a notifier with two queued events
		repo := &mockEventRepo{}
		notifier := NewNotifier(discardLogger(), repo, 4, time.Second)

		now := time.Now()
		taken := entity.NewSeatEvent(entity.EventSeatTaken, entity.PlayerX, now)
		reset := entity.NewResetEvent("requested", now)

		published := make(chan entity.GameEvent, 2)
		repo.On("Publish", mock.Anything, mock.AnythingOfType("entity.GameEvent")).
			Run(func(args mock.Arguments) {
				published <- args.Get(1).(entity.GameEvent)
			}).
			Return(nil)

		notifier.Notify(taken)
		notifier.Notify(reset)

		// When: the notifier runs
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- notifier.Run(ctx) }()

		// Then: both events reach the repository in order
		assert.Equal(t, entity.EventSeatTaken, (<-published).Kind)
		assert.Equal(t, entity.EventGameReset, (<-published).Kind)

		cancel()
		assert.NoError(t, <-done)
		repo.AssertNumberOfCalls(t, "Publish", 2)
	})

	t.Run("Keeps running after a publish error", func(t *testing.T) {
		// Given: a repository that fails the first publish
		repo := &mockEventRepo{}
		notifier := NewNotifier(discardLogger(), repo, 4, time.Second)

		calls := make(chan struct{}, 2)
		repo.On("Publish", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { calls <- struct{}{} }).
			Return(errors.New("connection refused")).Once()
		repo.On("Publish", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { calls <- struct{}{} }).
			Return(nil).Once()

		notifier.Notify(entity.NewResetEvent("requested", time.Now()))
		notifier.Notify(entity.NewResetEvent("seat_vacated", time.Now()))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- notifier.Run(ctx) }()

		// Then: the second event is still published
		<-calls
		<-calls

		cancel()
		assert.NoError(t, <-done)
		repo.AssertExpectations(t)
	})

	t.Run("Publish gets a deadline", func(t *testing.T) {
		repo := &mockEventRepo{}
		notifier := NewNotifier(discardLogger(), repo, 1, 50*time.Millisecond)

		deadlines := make(chan bool, 1)
		repo.On("Publish", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				_, ok := args.Get(0).(context.Context).Deadline()
				deadlines <- ok
			}).
			Return(nil)

		notifier.Notify(entity.NewResetEvent("auto", time.Now()))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = notifier.Run(ctx) }()

		assert.True(t, <-deadlines)
	})
}

func TestNotifier_Notify(t *testing.T) {
	t.Run("Drops events when the queue is full", func(t *testing.T) {
		// Given: a notifier with room for one event and nobody draining it
		repo := &mockEventRepo{}
		notifier := NewNotifier(discardLogger(), repo, 1, time.Second)

		// When: two events are queued
		notifier.Notify(entity.NewResetEvent("requested", time.Now()))
		notifier.Notify(entity.NewResetEvent("auto", time.Now()))

		// Then: only the first is kept and Notify never blocked
		assert.Len(t, notifier.events, 1)
		assert.Equal(t, "requested", (<-notifier.events).Reason)
	})

	t.Run("Nil notifier is a no-op", func(t *testing.T) {
		var notifier *Notifier

		assert.NotPanics(t, func() {
			notifier.Notify(entity.NewResetEvent("requested", time.Now()))
		})
	})
}
