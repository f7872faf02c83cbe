package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

const (
	defaultNotifierBuffer = 64
	defaultPublishTimeout = 2 * time.Second
)

type eventRepo interface {
	Publish(ctx context.Context, event entity.GameEvent) error
}

// Notifier - hands game events to the event repository off the hub's critical path.
// A nil *Notifier is valid and drops everything.
type Notifier struct {
	logger  *slog.Logger
	repo    eventRepo
	timeout time.Duration

	events chan entity.GameEvent
}

func NewNotifier(logger *slog.Logger, repo eventRepo, buffer int, timeout time.Duration) *Notifier {
	if buffer <= 0 {
		buffer = defaultNotifierBuffer
	}

	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}

	return &Notifier{
		logger:  logger.With("component", "notifier"),
		repo:    repo,
		timeout: timeout,
		events:  make(chan entity.GameEvent, buffer),
	}
}

// Notify - queues the event without blocking. The event is dropped when the queue is full.
func (that *Notifier) Notify(event entity.GameEvent) {
	if that == nil {
		return
	}

	select {
	case that.events <- event:
	default:
		that.logger.Warn("event queue is full, dropping event", "kind", event.Kind)
	}
}

// Run - publishes queued events until ctx is done.
func (that *Notifier) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")
	log.Info("event notifier started")

	for {
		select {
		case <-ctx.Done():
			log.Info("event notifier stopped", "pending", len(that.events))
			return nil
		case event := <-that.events:
			that.publish(ctx, event)
		}
	}
}

func (that *Notifier) publish(ctx context.Context, event entity.GameEvent) {
	ctx, cancel := context.WithTimeout(ctx, that.timeout)
	defer cancel()

	if err := that.repo.Publish(ctx, event); err != nil {
		that.logger.Error("failed to publish event", "kind", event.Kind, "error", err)
		return
	}

	that.logger.Debug("event published", "kind", event.Kind)
}
